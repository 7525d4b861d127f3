package results

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/lipidens/lipidens/internal/cutoff"
)

func TestRecordRoundTrip(t *testing.T) {
	grid := cutoff.Grid([]float64{0.4, 0.5}, []float64{0.8, 1.0})
	record := &Record{
		BindingSites: map[cutoff.Pair]int{
			grid[0]: 3, grid[1]: 2, grid[2]: 5, grid[3]: 0,
		},
		DurationAvgs: map[cutoff.Pair]float64{
			grid[0]: 1.0625, grid[1]: 0.3333333333333333, grid[2]: 7.25, grid[3]: math.NaN(),
		},
		ContactResidues: map[cutoff.Pair]int{
			grid[0]: 41, grid[1]: 38, grid[2]: 55, grid[3]: 0,
		},
		Cutoffs: grid,
	}
	path := filepath.Join(t.TempDir(), "test_cutoff_data_POPC.yaml")
	if err := Save(path, record); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(loaded.Cutoffs) != len(grid) {
		t.Fatalf("cutoff list length = %d, want %d", len(loaded.Cutoffs), len(grid))
	}
	for i, p := range grid {
		if loaded.Cutoffs[i] != p {
			t.Fatalf("cutoff %d = %v, want %v", i, loaded.Cutoffs[i], p)
		}
	}
	for p, want := range record.BindingSites {
		if loaded.BindingSites[p] != want {
			t.Fatalf("binding sites for %v = %d, want %d", p, loaded.BindingSites[p], want)
		}
	}
	for p, want := range record.ContactResidues {
		if loaded.ContactResidues[p] != want {
			t.Fatalf("contacting residues for %v = %d, want %d", p, loaded.ContactResidues[p], want)
		}
	}
	for p, want := range record.DurationAvgs {
		got := loaded.DurationAvgs[p]
		if math.IsNaN(want) {
			if !math.IsNaN(got) {
				t.Fatalf("duration for %v = %v, want NaN", p, got)
			}
			continue
		}
		if got != want {
			t.Fatalf("duration for %v = %v, want exactly %v", p, got, want)
		}
	}
}

func TestDeterministicPaths(t *testing.T) {
	if got := Path("/data", "POPC"); got != "/data/PyLipID_cutoff_test_POPC/test_cutoff_data_POPC.yaml" {
		t.Fatalf("record path = %s", got)
	}
	if got := FiguresDir("/data", "POPC"); got != "/data/PyLipID_cutoff_test_POPC/Figures" {
		t.Fatalf("figures dir = %s", got)
	}
}

func TestLoadMissingRecordFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing record")
	}
}
