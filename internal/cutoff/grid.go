// Package cutoff implements the exhaustive dual-cutoff search: the cutoff
// grid, the analyzer boundary, and the sweep driver that runs one analyzer
// session per cutoff pair and aggregates three summary metrics.
package cutoff

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pair is one dual-cutoff candidate: distances in nm. Lower <= Upper by
// convention only; inverted pairs are generated and tested like any other.
type Pair struct {
	Lower float64
	Upper float64
}

// String renders the pair the way figure axes label it.
func (p Pair) String() string {
	return fmt.Sprintf("(%s, %s)", formatCutoff(p.Lower), formatCutoff(p.Upper))
}

// key is the serialized mapping-key form, e.g. "0.4-0.8".
func (p Pair) key() string {
	return formatCutoff(p.Lower) + "-" + formatCutoff(p.Upper)
}

// MarshalYAML stores the pair as a scalar key so metric mappings stay
// readable in the result record.
func (p Pair) MarshalYAML() (interface{}, error) {
	return p.key(), nil
}

// UnmarshalYAML accepts the scalar form produced by MarshalYAML.
func (p *Pair) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return fmt.Errorf("cutoff: malformed pair %q", raw)
	}
	lower, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return fmt.Errorf("cutoff: malformed lower cutoff in %q: %w", raw, err)
	}
	upper, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return fmt.Errorf("cutoff: malformed upper cutoff in %q: %w", raw, err)
	}
	p.Lower, p.Upper = lower, upper
	return nil
}

func formatCutoff(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Grid returns the ordered Cartesian product of the two cutoff lists in
// row-major order (lower outer, upper inner). Duplicates and pairs with
// lower > upper are preserved; the sweep tests exactly what it is given.
func Grid(lower, upper []float64) []Pair {
	grid := make([]Pair, 0, len(lower)*len(upper))
	for _, l := range lower {
		for _, u := range upper {
			grid = append(grid, Pair{Lower: l, Upper: u})
		}
	}
	return grid
}

// Labels renders every pair in grid order, for positional plotting.
func Labels(grid []Pair) []string {
	labels := make([]string, len(grid))
	for i, p := range grid {
		labels[i] = p.String()
	}
	return labels
}
