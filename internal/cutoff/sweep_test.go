package cutoff

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// stubAnalyzer fabricates deterministic sessions and records construction
// order so tests can assert sequential, grid-ordered execution.
type stubAnalyzer struct {
	t        *testing.T
	baseDir  string
	order    []Pair
	dataset  []ResidueMetrics
	failPair *Pair
}

func (a *stubAnalyzer) NewSession(params SessionParams) (Session, error) {
	a.order = append(a.order, params.Cutoffs)
	dir := filepath.Join(a.baseDir, params.Cutoffs.key())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.t.Fatalf("mkdir session dir: %v", err)
	}
	fail := a.failPair != nil && *a.failPair == params.Cutoffs
	return &stubSession{dir: dir, dataset: a.dataset, nodes: len(a.order), fail: fail}, nil
}

type stubSession struct {
	dir     string
	dataset []ResidueMetrics
	nodes   int
	fail    bool
	stage   int
}

func (s *stubSession) CollectContacts() error {
	s.stage = 1
	if s.fail {
		return errors.New("collect failed")
	}
	return nil
}

func (s *stubSession) ComputeDurations() error {
	if s.stage != 1 {
		return errors.New("durations before contacts")
	}
	s.stage = 2
	return nil
}

func (s *stubSession) ComputeBindingNodes() error {
	if s.stage != 2 {
		return errors.New("nodes before durations")
	}
	s.stage = 3
	return nil
}

func (s *stubSession) NodeCount() int            { return s.nodes }
func (s *stubSession) Dataset() []ResidueMetrics { return s.dataset }
func (s *stubSession) WorkDir() string           { return s.dir }

func TestSweepProducesThreeMappingsInGridOrder(t *testing.T) {
	grid := Grid([]float64{0.4}, []float64{0.6, 0.7, 0.8})
	an := &stubAnalyzer{t: t, baseDir: t.TempDir(), dataset: []ResidueMetrics{
		{Residue: "ARG45", Duration: 2.0},
		{Residue: "LEU46", Duration: 0},
		{Residue: "TRP47", Duration: 4.0},
	}}
	metrics, err := Sweep(an, grid, SessionParams{}, nil)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(metrics.BindingSites) != 3 || len(metrics.DurationAvgs) != 3 || len(metrics.ContactResidues) != 3 {
		t.Fatalf("mapping sizes = %d/%d/%d, want 3 each",
			len(metrics.BindingSites), len(metrics.DurationAvgs), len(metrics.ContactResidues))
	}
	for i, p := range grid {
		if an.order[i] != p {
			t.Fatalf("session %d ran %v, want %v", i, an.order[i], p)
		}
		if metrics.DurationAvgs[p] != 2.0 {
			t.Fatalf("duration avg for %v = %v, want 2.0", p, metrics.DurationAvgs[p])
		}
		if metrics.ContactResidues[p] != 2 {
			t.Fatalf("contacting residues for %v = %d, want 2", p, metrics.ContactResidues[p])
		}
	}
	sites := ByGrid(metrics.BindingSites, grid)
	if sites[0] != 1 || sites[1] != 2 || sites[2] != 3 {
		t.Fatalf("binding sites by grid = %v", sites)
	}
}

func TestSweepEmptyDatasetYieldsNaNDuration(t *testing.T) {
	grid := Grid([]float64{0.4}, []float64{0.8})
	an := &stubAnalyzer{t: t, baseDir: t.TempDir()}
	metrics, err := Sweep(an, grid, SessionParams{}, nil)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !math.IsNaN(metrics.DurationAvgs[grid[0]]) {
		t.Fatalf("duration avg = %v, want NaN", metrics.DurationAvgs[grid[0]])
	}
	if metrics.ContactResidues[grid[0]] != 0 {
		t.Fatalf("contacting residues = %d, want 0", metrics.ContactResidues[grid[0]])
	}
}

func TestSweepRemovesEverySessionWorkDir(t *testing.T) {
	grid := Grid([]float64{0.4, 0.5}, []float64{0.8, 1.0})
	base := t.TempDir()
	an := &stubAnalyzer{t: t, baseDir: base}
	if _, err := Sweep(an, grid, SessionParams{}, nil); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("%d session directories left behind, want 0", len(entries))
	}
}

func TestSweepAbortsOnFirstFailureAndStillCleansUp(t *testing.T) {
	grid := Grid([]float64{0.4, 0.5}, []float64{0.8})
	base := t.TempDir()
	fail := grid[1]
	an := &stubAnalyzer{t: t, baseDir: base, failPair: &fail}
	_, err := Sweep(an, grid, SessionParams{}, nil)
	if err == nil {
		t.Fatalf("expected sweep to abort")
	}
	if len(an.order) != 2 {
		t.Fatalf("ran %d sessions, want abort after second", len(an.order))
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("session directories left behind after failure: %d", len(entries))
	}
}
