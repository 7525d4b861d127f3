package cutoff

// SessionParams scope one analyzer session to a single cutoff pair and the
// full replicate set.
type SessionParams struct {
	TrajFiles  []string
	TopFiles   []string
	Cutoffs    Pair
	Lipid      string
	LipidAtoms []string
	Subunits   int
	Stride     int
	TimeUnit   string
	FrameTime  float64
	SaveDir    string
}

// ResidueMetrics is one row of a session's post-computation dataset.
type ResidueMetrics struct {
	Residue string
	// Duration is the mean contact duration for the residue, in the
	// session's time unit. Zero means no contacts were recorded.
	Duration float64
}

// Session is one interaction analysis scoped to a cutoff pair. The three
// computation methods must be invoked in order: CollectContacts,
// ComputeDurations, ComputeBindingNodes. Each either completes fully or
// returns an error; no partial-failure recovery is defined.
type Session interface {
	CollectContacts() error
	ComputeDurations() error
	ComputeBindingNodes() error

	// NodeCount reports the number of binding nodes identified by
	// ComputeBindingNodes.
	NodeCount() int
	// Dataset returns the per-residue result table.
	Dataset() []ResidueMetrics
	// WorkDir is the on-disk working directory the session created, so the
	// sweep driver can clean it up.
	WorkDir() string
}

// Analyzer abstracts the interaction-analysis engine so the sweep driver can
// run against the built-in implementation or a test double.
type Analyzer interface {
	NewSession(params SessionParams) (Session, error)
}
