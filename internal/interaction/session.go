// Package interaction is the built-in interaction-analysis engine behind the
// cutoff.Analyzer boundary. A session applies the dual-cutoff contact
// criterion to every (residue, lipid instance) pair across all replicates:
// a contact opens when the minimum distance drops below the lower cutoff and
// persists until it exceeds the upper cutoff. Contacts from all protein
// copies and replicates are pooled per residue, the way a homomultimer is
// analyzed.
package interaction

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lipidens/lipidens/internal/cutoff"
	"github.com/lipidens/lipidens/internal/traj"
)

// loadFunc matches traj.Load and is swappable in tests.
type loadFunc func(trajPath, topPath string, opts traj.LoadOptions) (*traj.Trajectory, *traj.Topology, error)

// Analyzer constructs sessions. Loaded replicates are cached so the sweep
// does not re-read the same trajectory files for every cutoff pair.
type Analyzer struct {
	load  loadFunc
	cache map[string]*replicate
}

type replicate struct {
	trj *traj.Trajectory
	top *traj.Topology
}

// Option customizes an Analyzer during construction.
type Option func(*Analyzer)

// WithLoader overrides the trajectory loader (tests).
func WithLoader(load func(trajPath, topPath string, opts traj.LoadOptions) (*traj.Trajectory, *traj.Topology, error)) Option {
	return func(a *Analyzer) {
		if load != nil {
			a.load = load
		}
	}
}

// New returns an analyzer backed by the gochem-based trajectory loader.
func New(opts ...Option) *Analyzer {
	analyzer := &Analyzer{load: traj.Load, cache: make(map[string]*replicate)}
	for _, opt := range opts {
		if opt != nil {
			opt(analyzer)
		}
	}
	return analyzer
}

// NewSession loads (or reuses) every replicate and creates the session's
// working directory under the save directory.
func (a *Analyzer) NewSession(params cutoff.SessionParams) (cutoff.Session, error) {
	if len(params.TrajFiles) == 0 || len(params.TrajFiles) != len(params.TopFiles) {
		return nil, fmt.Errorf("interaction: trajectory/topology lists must be non-empty and equal length")
	}
	opts := traj.LoadOptions{
		Lipid:      params.Lipid,
		LipidAtoms: params.LipidAtoms,
		Subunits:   params.Subunits,
		Stride:     params.Stride,
		FrameTime:  params.FrameTime,
	}
	replicates := make([]*replicate, 0, len(params.TrajFiles))
	for i := range params.TrajFiles {
		// The cache key covers everything that shapes the loaded model, so
		// sweeps over several lipids can share one analyzer.
		key := fmt.Sprintf("%s|%s|%s|%v|%d|%d",
			params.TrajFiles[i], params.TopFiles[i], params.Lipid, params.LipidAtoms, params.Subunits, params.Stride)
		rep, ok := a.cache[key]
		if !ok {
			trj, top, err := a.load(params.TrajFiles[i], params.TopFiles[i], opts)
			if err != nil {
				return nil, fmt.Errorf("interaction: load replicate %d: %w", i+1, err)
			}
			rep = &replicate{trj: trj, top: top}
			a.cache[key] = rep
		}
		replicates = append(replicates, rep)
	}

	workDir := filepath.Join(params.SaveDir, fmt.Sprintf("cutoff_%g_%g", params.Cutoffs.Lower, params.Cutoffs.Upper))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("interaction: create working directory: %w", err)
	}
	return &Session{params: params, replicates: replicates, workDir: workDir}, nil
}

// stage tracks the strict computation sequence.
type stage int

const (
	stageNew stage = iota
	stageContacts
	stageDurations
	stageNodes
)

// Session is one interaction analysis scoped to a single cutoff pair.
type Session struct {
	params     cutoff.SessionParams
	replicates []*replicate
	workDir    string
	stage      stage

	// masks holds the per-frame contact state for every enumerated
	// (replicate, subunit, residue, lipid) combination.
	masks []contactMask
	// residues labels the pooled residue indices, taken from subunit 0 of
	// the first replicate.
	residues []string

	dataset   []cutoff.ResidueMetrics
	nodeCount int
}

// contactMask is the dual-cutoff contact state of one residue/lipid pair
// over one replicate's frames.
type contactMask struct {
	rep     int // replicate index
	residue int // pooled residue index within a subunit
	lipid   int
	frames  []bool
}

// WorkDir returns the per-session output directory.
func (s *Session) WorkDir() string {
	return s.workDir
}

// CollectContacts computes every minimum-distance series and reduces it to
// dual-cutoff contact masks. Must be called before the other computations.
func (s *Session) CollectContacts() error {
	if s.stage != stageNew {
		return fmt.Errorf("interaction: contacts already collected")
	}
	lower, upper := s.params.Cutoffs.Lower, s.params.Cutoffs.Upper
	for repIdx, rep := range s.replicates {
		for _, subunit := range rep.top.Subunits {
			for resIdx, residue := range subunit {
				for lipIdx, lipid := range rep.top.Lipids {
					series := traj.MinDistanceSeries(rep.trj, residue.AtomIDs, lipid.AtomIDs)
					mask := dualCutoffMask(series, lower, upper)
					if !anyContact(mask) {
						continue
					}
					s.masks = append(s.masks, contactMask{rep: repIdx, residue: resIdx, lipid: lipIdx, frames: mask})
				}
			}
		}
	}
	first := s.replicates[0].top.Subunits[0]
	s.residues = make([]string, len(first))
	for i, r := range first {
		s.residues[i] = r.Label()
	}
	s.stage = stageContacts
	return nil
}

// dualCutoffMask opens a contact below lower and keeps it open until the
// distance exceeds upper.
func dualCutoffMask(series []float64, lower, upper float64) []bool {
	mask := make([]bool, len(series))
	in := false
	for i, d := range series {
		switch {
		case d < lower:
			in = true
		case d > upper:
			in = false
		}
		mask[i] = in
	}
	return mask
}

func anyContact(mask []bool) bool {
	for _, m := range mask {
		if m {
			return true
		}
	}
	return false
}
