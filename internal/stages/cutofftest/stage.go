// Package cutofftest implements protocol stage 2: plot the probability
// distribution of protein-lipid minimum distances, then run the exhaustive
// dual-cutoff search and persist the aggregated metrics.
package cutofftest

import (
	"fmt"
	"path/filepath"

	"github.com/lipidens/lipidens/internal/cutoff"
	"github.com/lipidens/lipidens/internal/figures"
	"github.com/lipidens/lipidens/internal/mindist"
	"github.com/lipidens/lipidens/internal/protocol"
	"github.com/lipidens/lipidens/internal/results"
	"github.com/lipidens/lipidens/internal/traj"
)

const stageID = "2"

// loadFunc matches traj.Load and is swappable in tests.
type loadFunc func(trajPath, topPath string, opts traj.LoadOptions) (*traj.Trajectory, *traj.Topology, error)

// Option customizes the stage.
type Option func(*Stage)

// WithLoader overrides the trajectory loader (tests).
func WithLoader(load loadFunc) Option {
	return func(s *Stage) {
		if load != nil {
			s.load = load
		}
	}
}

// Stage runs the cut-off test for every configured lipid.
type Stage struct {
	load loadFunc
}

// Register installs the stage into a registry.
func Register(reg *protocol.Registry, opts ...Option) {
	if reg == nil {
		return
	}
	reg.MustRegister(New(opts...))
}

// New builds the stage with the gochem-backed loader.
func New(opts ...Option) *Stage {
	stage := &Stage{load: traj.Load}
	for _, opt := range opts {
		if opt != nil {
			opt(stage)
		}
	}
	return stage
}

func (s *Stage) ID() string   { return stageID }
func (s *Stage) Name() string { return "Test cut-off values" }

func (s *Stage) Description() string {
	return "Plot lipid distance distributions and test lower/upper cut-off combinations."
}

func (s *Stage) Available() bool { return true }

// Run executes both halves of the stage, one lipid at a time.
func (s *Stage) Run(ctx *protocol.Context) error {
	if err := protocol.ValidateContext(stageID, ctx); err != nil {
		return err
	}
	if ctx.Analyzer == nil {
		return fmt.Errorf("protocol: stage %s: missing analyzer", stageID)
	}
	cfg := ctx.Config
	for _, lipid := range cfg.LipidList() {
		ctx.Log.Info("Stage 2 starting for lipid %s", lipid)
		if err := results.EnsureDirs(cfg.BaseDir, lipid); err != nil {
			return err
		}
		if err := s.distanceDistribution(ctx, lipid); err != nil {
			return fmt.Errorf("cutofftest: distance distribution for %s: %w", lipid, err)
		}
		if err := s.cutoffSearch(ctx, lipid); err != nil {
			return fmt.Errorf("cutofftest: cut-off search for %s: %w", lipid, err)
		}
		ctx.Log.Info("Stage 2 finished for lipid %s", lipid)
	}
	return nil
}

// distanceDistribution loads the first replicate, applies the
// minimum-distance contact filter, and renders the per-series traces plus
// the density histogram.
func (s *Stage) distanceDistribution(ctx *protocol.Context, lipid string) error {
	cfg := ctx.Config
	runDir := filepath.Join(cfg.BaseDir, "run1")
	trajFile, err := traj.Resolve(runDir, cfg.TrajectoryFile, cfg.TrajectoryFallback)
	if err != nil {
		return err
	}
	topFile, err := traj.Resolve(runDir, cfg.TopologyFile, cfg.TopologyFallback)
	if err != nil {
		return err
	}
	trj, top, err := s.load(trajFile, topFile, traj.LoadOptions{
		Lipid:      lipid,
		LipidAtoms: cfg.LipidAtoms,
		Subunits:   cfg.Subunits,
		Stride:     cfg.Stride,
		FrameTime:  cfg.FrameTime,
	})
	if err != nil {
		return err
	}

	filtered := mindist.Compute(trj, top, mindist.Options{
		DistanceThreshold: cfg.DistanceThreshold,
		ContactFrames:     cfg.ContactFrames,
	})
	if len(filtered.Series) == 0 {
		ctx.Log.Warn("No %s contacts within %.2f nm for %d+ frames; skipping distribution plots",
			lipid, cfg.DistanceThreshold, cfg.ContactFrames)
		return nil
	}

	figDir := results.FiguresDir(cfg.BaseDir, lipid)
	for _, series := range filtered.Series {
		title := fmt.Sprintf("%s-%s%d", series.Residue, lipid, series.LipidIndex)
		path := filepath.Join(figDir, fmt.Sprintf("dist_%s_%s%d.pdf", series.Residue, lipid, series.LipidIndex))
		if err := figures.MinimumDistances(trj.Times, series.Distances, cfg.TimeUnit, title, path); err != nil {
			return err
		}
	}
	histPath := filepath.Join(figDir, fmt.Sprintf("dist_distribution_%s.pdf", lipid))
	if err := figures.DistanceHistogram(filtered.All, cfg.HistogramBins, lipid, histPath); err != nil {
		return err
	}
	ctx.Log.Info("Distance distribution for %s: %d retained series, %d samples",
		lipid, len(filtered.Series), len(filtered.All))
	return nil
}

// cutoffSearch runs the sweep over the full cutoff grid and persists the
// aggregate record plus the three metric scatter plots.
func (s *Stage) cutoffSearch(ctx *protocol.Context, lipid string) error {
	cfg := ctx.Config
	grid := cutoff.Grid(cfg.LowerCutoffs, cfg.UpperCutoffs)
	ctx.Log.Info("Testing %d cut-off pairs for %s across %d replicates", len(grid), lipid, cfg.Replicates)

	trajFiles, topFiles, err := traj.ReplicateFiles(cfg.BaseDir, cfg.Replicates,
		cfg.TrajectoryFile, cfg.TrajectoryFallback, cfg.TopologyFile, cfg.TopologyFallback)
	if err != nil {
		return err
	}

	params := cutoff.SessionParams{
		TrajFiles:  trajFiles,
		TopFiles:   topFiles,
		Lipid:      lipid,
		LipidAtoms: cfg.LipidAtoms,
		Subunits:   cfg.Subunits,
		Stride:     cfg.Stride,
		TimeUnit:   cfg.TimeUnit,
		FrameTime:  cfg.FrameTime,
		SaveDir:    results.SaveDir(cfg.BaseDir, lipid),
	}
	metrics, err := cutoff.Sweep(ctx.Analyzer, grid, params, ctx.Log)
	if err != nil {
		return err
	}

	figDir := results.FiguresDir(cfg.BaseDir, lipid)
	plots := []struct {
		values []float64
		ylabel string
		file   string
	}{
		{intsToFloats(cutoff.ByGrid(metrics.BindingSites, grid)), "Number of binding sites", "test_cutoff_binding_sites"},
		{cutoff.ByGrid(metrics.DurationAvgs, grid), fmt.Sprintf("Duration (%s)", cfg.TimeUnit), "test_cutoff_durations"},
		{intsToFloats(cutoff.ByGrid(metrics.ContactResidues, grid)), "Number of contacting residues", "test_cutoff_residues"},
	}
	for _, plot := range plots {
		path := filepath.Join(figDir, fmt.Sprintf("%s_%s.pdf", plot.file, lipid))
		if err := figures.MetricScatter(grid, plot.values, plot.ylabel, lipid, path); err != nil {
			return err
		}
	}

	record := &results.Record{
		BindingSites:    metrics.BindingSites,
		DurationAvgs:    metrics.DurationAvgs,
		ContactResidues: metrics.ContactResidues,
		Cutoffs:         grid,
	}
	path := results.Path(cfg.BaseDir, lipid)
	if err := results.Save(path, record); err != nil {
		return err
	}
	ctx.Log.Info("Cut-off test record for %s written to %s", lipid, path)
	return nil
}

func intsToFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
