package interaction

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lipidens/lipidens/internal/cutoff"
)

// ComputeDurations turns contact masks into per-event durations and builds
// the per-residue dataset: each residue's Duration is the mean length of its
// contact events across all lipids, subunits, and replicates, in the
// session's time unit. The table is also written to the session working
// directory for inspection.
func (s *Session) ComputeDurations() error {
	if s.stage != stageContacts {
		return fmt.Errorf("interaction: durations require collected contacts")
	}
	events := make(map[int][]float64, len(s.residues))
	for _, mask := range s.masks {
		for _, length := range runLengths(mask.frames) {
			events[mask.residue] = append(events[mask.residue], float64(length)*s.params.FrameTime)
		}
	}
	s.dataset = make([]cutoff.ResidueMetrics, 0, len(s.residues))
	for resIdx, label := range s.residues {
		durations := events[resIdx]
		mean := 0.0
		if len(durations) > 0 {
			sum := 0.0
			for _, d := range durations {
				sum += d
			}
			mean = sum / float64(len(durations))
		}
		s.dataset = append(s.dataset, cutoff.ResidueMetrics{Residue: label, Duration: mean})
	}
	s.stage = stageDurations
	return s.writeDurationTable()
}

// runLengths returns the lengths of maximal true runs in a mask.
func runLengths(mask []bool) []int {
	var runs []int
	current := 0
	for _, in := range mask {
		if in {
			current++
			continue
		}
		if current > 0 {
			runs = append(runs, current)
			current = 0
		}
	}
	if current > 0 {
		runs = append(runs, current)
	}
	return runs
}

// writeDurationTable persists the dataset as CSV inside the working
// directory, mirroring what the session exposes through Dataset.
func (s *Session) writeDurationTable() error {
	path := filepath.Join(s.workDir, "residue_durations.csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("interaction: write duration table: %w", err)
	}
	defer file.Close()
	w := csv.NewWriter(file)
	if err := w.Write([]string{"Residue", "Duration"}); err != nil {
		return fmt.Errorf("interaction: write duration table: %w", err)
	}
	for _, row := range s.dataset {
		record := []string{row.Residue, strconv.FormatFloat(row.Duration, 'g', -1, 64)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("interaction: write duration table: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
