// Package figures renders the cutoff-test output as PDF files: per-series
// minimum-distance traces, the distance probability distribution, and the
// per-metric scatter plots over the cutoff grid.
package figures

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/lipidens/lipidens/internal/cutoff"
)

// coral is the fill/marker color shared by all figures.
var coral = color.RGBA{R: 240, G: 128, B: 128, A: 255}

// MinimumDistances plots one residue/lipid minimum-distance trace over time.
func MinimumDistances(times, distances []float64, timeUnit, title, path string) error {
	if len(times) != len(distances) {
		return fmt.Errorf("figures: %d times for %d distances", len(times), len(distances))
	}
	xys := make(plotter.XYs, len(times))
	for i := range times {
		xys[i].X = times[i]
		xys[i].Y = distances[i]
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("Time (%s)", timeUnit)
	p.Y.Label.Text = "Minimum distance (nm)"
	p.Y.Min = 0
	p.Y.Max = 1.0
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("figures: distance trace: %w", err)
	}
	p.Add(line)
	if err := p.Save(3*vg.Inch, 2.5*vg.Inch, path); err != nil {
		return fmt.Errorf("figures: save %s: %w", path, err)
	}
	return nil
}

// DistanceHistogram plots the density-normalized distribution of all
// retained minimum distances for one lipid.
func DistanceHistogram(values []float64, bins int, lipid, path string) error {
	if len(values) == 0 {
		return fmt.Errorf("figures: no distances to histogram for %s", lipid)
	}
	if bins < 1 {
		bins = 1
	}
	p := plot.New()
	p.Title.Text = lipid
	p.X.Label.Text = "Minimum distance (nm)"
	p.Y.Label.Text = "Probability density"
	p.X.Min = 0
	p.X.Max = 1.0
	hist, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("figures: histogram for %s: %w", lipid, err)
	}
	hist.Normalize(1)
	hist.FillColor = coral
	p.Add(hist)
	if err := p.Save(4*vg.Inch, 3*vg.Inch, path); err != nil {
		return fmt.Errorf("figures: save %s: %w", path, err)
	}
	return nil
}

// MetricScatter plots one sweep metric against the cutoff grid, one point
// per pair in grid order. NaN values (no contacts at that pair) are left
// out of the plot but keep their grid position on the axis.
func MetricScatter(grid []cutoff.Pair, values []float64, ylabel, title, path string) error {
	if len(grid) != len(values) {
		return fmt.Errorf("figures: %d values for %d cutoff pairs", len(values), len(grid))
	}
	var xys plotter.XYs
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(i), Y: v})
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Dual cut-off"
	p.Y.Label.Text = ylabel
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("figures: scatter %s: %w", title, err)
	}
	scatter.GlyphStyle.Color = coral
	scatter.GlyphStyle.Radius = vg.Points(4)
	p.Add(scatter)
	p.NominalX(cutoff.Labels(grid)...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	width := vg.Length(0.42*float64(len(grid))) * vg.Inch
	if width < 3*vg.Inch {
		width = 3 * vg.Inch
	}
	if err := p.Save(width, 3.6*vg.Inch, path); err != nil {
		return fmt.Errorf("figures: save %s: %w", path, err)
	}
	return nil
}
