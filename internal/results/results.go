// Package results packages the sweep output into a single on-disk record.
// The record carries the three metric mappings plus the cutoff grid so a
// later protocol stage (or a notebook) can re-plot without re-running the
// sweep.
package results

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lipidens/lipidens/internal/cutoff"
)

// Record is the aggregate result of one cutoff search.
type Record struct {
	BindingSites    map[cutoff.Pair]int     `yaml:"num_of_binding_sites"`
	DurationAvgs    map[cutoff.Pair]float64 `yaml:"duration_avgs"`
	ContactResidues map[cutoff.Pair]int     `yaml:"num_of_contacting_residues"`
	Cutoffs         []cutoff.Pair           `yaml:"test_cutoff_list"`
}

// SaveDir returns the output directory for one lipid's cutoff test.
func SaveDir(base, lipid string) string {
	return filepath.Join(base, "PyLipID_cutoff_test_"+lipid)
}

// FiguresDir returns the figure directory inside the lipid's save directory.
func FiguresDir(base, lipid string) string {
	return filepath.Join(SaveDir(base, lipid), "Figures")
}

// Path returns the deterministic record location for a lipid.
func Path(base, lipid string) string {
	return filepath.Join(SaveDir(base, lipid), fmt.Sprintf("test_cutoff_data_%s.yaml", lipid))
}

// EnsureDirs creates the save and figure directories ahead of a run.
func EnsureDirs(base, lipid string) error {
	if err := os.MkdirAll(FiguresDir(base, lipid), 0o755); err != nil {
		return fmt.Errorf("results: create output directories: %w", err)
	}
	return nil
}

// Save writes the record as one YAML blob. There is no partial-write
// recovery; a failure mid-write leaves no valid output.
func Save(path string, record *Record) error {
	blob, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("results: encode record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("results: create record directory: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("results: write record: %w", err)
	}
	return nil
}

// Load reads a record written by Save.
func Load(path string) (*Record, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("results: read record: %w", err)
	}
	var record Record
	if err := yaml.Unmarshal(blob, &record); err != nil {
		return nil, fmt.Errorf("results: decode record %s: %w", path, err)
	}
	return &record, nil
}
