package traj

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestResolvePrefersDefaultName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "md_stride.xtc"))
	writeFile(t, filepath.Join(dir, "alt.xtc"))
	got, err := Resolve(dir, "md_stride.xtc", "alt.xtc")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != filepath.Join(dir, "md_stride.xtc") {
		t.Fatalf("resolved %s, want default name", got)
	}
}

func TestResolveRetriesAlternateExactlyOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "alt.xtc"))
	got, err := Resolve(dir, "md_stride.xtc", "alt.xtc")
	if err != nil {
		t.Fatalf("resolve with alternate: %v", err)
	}
	if got != filepath.Join(dir, "alt.xtc") {
		t.Fatalf("resolved %s, want alternate", got)
	}

	_, err = Resolve(dir, "md_stride.xtc", "also_missing.xtc")
	if err == nil {
		t.Fatalf("expected failure when alternate is also absent")
	}
	if !IsMissingFile(err) {
		t.Fatalf("error %v is not a MissingFileError", err)
	}
}

func TestResolveWithoutAlternateFails(t *testing.T) {
	dir := t.TempDir()
	_, err := Resolve(dir, "md_stride.xtc", "")
	if !IsMissingFile(err) {
		t.Fatalf("expected MissingFileError, got %v", err)
	}
}

func TestReplicateFilesResolvesEveryRunDirectory(t *testing.T) {
	base := t.TempDir()
	for _, n := range []string{"run1", "run2"} {
		writeFile(t, filepath.Join(base, n, "md_stride.xtc"))
		writeFile(t, filepath.Join(base, n, "md_stride_firstframe.gro"))
	}
	trajs, tops, err := ReplicateFiles(base, 2, "md_stride.xtc", "", "md_stride_firstframe.gro", "")
	if err != nil {
		t.Fatalf("replicate files: %v", err)
	}
	if len(trajs) != 2 || len(tops) != 2 {
		t.Fatalf("lengths = %d/%d, want 2/2", len(trajs), len(tops))
	}
	for i, want := range []string{"run1", "run2"} {
		if filepath.Base(filepath.Dir(trajs[i])) != want {
			t.Fatalf("trajectory %d = %s, want under %s", i, trajs[i], want)
		}
		if filepath.Base(filepath.Dir(tops[i])) != want {
			t.Fatalf("topology %d = %s, want under %s", i, tops[i], want)
		}
	}
}

func TestReplicateFilesAbortsOnFirstMissingReplicate(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "run1", "md_stride.xtc"))
	writeFile(t, filepath.Join(base, "run1", "md_stride_firstframe.gro"))
	// run2 is absent entirely.
	_, _, err := ReplicateFiles(base, 2, "md_stride.xtc", "", "md_stride_firstframe.gro", "")
	if !IsMissingFile(err) {
		t.Fatalf("expected MissingFileError for run2, got %v", err)
	}
}

func TestMinDistanceSeries(t *testing.T) {
	trj := &Trajectory{
		Coords: [][]Vec3{
			{{0, 0, 0}, {3, 0, 0}, {10, 0, 0}},
			{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		},
		Times: []float64{0, 1},
	}
	series := MinDistanceSeries(trj, []int{0}, []int{1, 2})
	if len(series) != 2 {
		t.Fatalf("series length = %d, want 2", len(series))
	}
	if series[0] != 3 {
		t.Fatalf("frame 0 distance = %v, want 3", series[0])
	}
	if series[1] != 1 {
		t.Fatalf("frame 1 distance = %v, want 1", series[1])
	}
}
