package cutoff

import (
	"fmt"
	"math"
	"os"
)

// Metrics aggregates the three per-pair scalars produced by the sweep. The
// maps are keyed by cutoff pair and never mutated after the sweep returns;
// list the values with ByGrid to recover generation order.
type Metrics struct {
	// BindingSites maps each pair to the number of binding nodes.
	BindingSites map[Pair]int
	// DurationAvgs maps each pair to the arithmetic mean of the per-residue
	// Duration column. NaN when the session's dataset is empty.
	DurationAvgs map[Pair]float64
	// ContactResidues maps each pair to the count of residues with strictly
	// positive duration.
	ContactResidues map[Pair]int
}

// ByGrid lists map values in the order of the given grid, for positional
// plotting against the cutoff labels.
func ByGrid[V int | float64](m map[Pair]V, grid []Pair) []V {
	out := make([]V, len(grid))
	for i, p := range grid {
		out[i] = m[p]
	}
	return out
}

// Logger is the subset of the run log the sweep reports progress through.
type Logger interface {
	Info(format string, args ...any)
}

// Sweep runs one analyzer session per grid entry, strictly sequentially and
// in grid order, and aggregates the three summary metrics. The first error
// aborts the sweep; there is no per-pair isolation. Every session working
// directory is removed before returning, whether the sweep succeeded or not.
func Sweep(analyzer Analyzer, grid []Pair, params SessionParams, log Logger) (*Metrics, error) {
	metrics := &Metrics{
		BindingSites:    make(map[Pair]int, len(grid)),
		DurationAvgs:    make(map[Pair]float64, len(grid)),
		ContactResidues: make(map[Pair]int, len(grid)),
	}
	var workDirs []string
	defer func() {
		for _, dir := range workDirs {
			if dir != "" {
				os.RemoveAll(dir)
			}
		}
	}()

	for _, pair := range grid {
		if log != nil {
			log.Info("Testing cut-off pair %s", pair)
		}
		params.Cutoffs = pair
		session, err := analyzer.NewSession(params)
		if err != nil {
			return nil, fmt.Errorf("cutoff: session for %s: %w", pair, err)
		}
		workDirs = append(workDirs, session.WorkDir())
		if err := session.CollectContacts(); err != nil {
			return nil, fmt.Errorf("cutoff: collect contacts for %s: %w", pair, err)
		}
		if err := session.ComputeDurations(); err != nil {
			return nil, fmt.Errorf("cutoff: compute durations for %s: %w", pair, err)
		}
		if err := session.ComputeBindingNodes(); err != nil {
			return nil, fmt.Errorf("cutoff: compute binding nodes for %s: %w", pair, err)
		}

		dataset := session.Dataset()
		metrics.BindingSites[pair] = session.NodeCount()
		metrics.DurationAvgs[pair] = meanDuration(dataset)
		metrics.ContactResidues[pair] = contactingResidues(dataset)
	}
	return metrics, nil
}

func meanDuration(dataset []ResidueMetrics) float64 {
	if len(dataset) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, row := range dataset {
		sum += row.Duration
	}
	return sum / float64(len(dataset))
}

func contactingResidues(dataset []ResidueMetrics) int {
	n := 0
	for _, row := range dataset {
		if row.Duration > 0 {
			n++
		}
	}
	return n
}
