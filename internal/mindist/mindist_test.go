package mindist

import (
	"testing"

	"github.com/lipidens/lipidens/internal/traj"
)

// lineTrajectory builds a two-atom system whose inter-atom distance follows
// the given per-frame values along the x axis.
func lineTrajectory(distances []float64) *traj.Trajectory {
	trj := &traj.Trajectory{}
	for i, d := range distances {
		trj.Coords = append(trj.Coords, []traj.Vec3{{0, 0, 0}, {d, 0, 0}})
		trj.Times = append(trj.Times, float64(i))
	}
	return trj
}

func pairTopology() *traj.Topology {
	return &traj.Topology{
		Subunits: [][]traj.Residue{{{Name: "ARG", ID: 45, AtomIDs: []int{0}}}},
		Lipids:   []traj.Residue{{Name: "POPC", ID: 1, AtomIDs: []int{1}}},
	}
}

func TestComputeRetainsSeriesMeetingContactFrames(t *testing.T) {
	// Exactly 3 of 5 frames below the 0.65 threshold.
	trj := lineTrajectory([]float64{0.3, 0.4, 0.5, 0.9, 1.2})
	top := pairTopology()

	got := Compute(trj, top, Options{DistanceThreshold: 0.65, ContactFrames: 3})
	if len(got.Series) != 1 {
		t.Fatalf("retained %d series, want 1", len(got.Series))
	}
	if got.Series[0].Residue != "ARG45" {
		t.Fatalf("residue label = %s, want ARG45", got.Series[0].Residue)
	}
	if len(got.All) != 5 {
		t.Fatalf("concatenated length = %d, want 5", len(got.All))
	}

	got = Compute(trj, top, Options{DistanceThreshold: 0.65, ContactFrames: 4})
	if len(got.Series) != 0 || len(got.All) != 0 {
		t.Fatalf("expected no retained series with contact_frames=4, got %d", len(got.Series))
	}
}

func TestComputeThresholdIsStrict(t *testing.T) {
	// Frames sitting exactly on the threshold do not count as contacts.
	trj := lineTrajectory([]float64{0.65, 0.65, 0.64})
	got := Compute(trj, pairTopology(), Options{DistanceThreshold: 0.65, ContactFrames: 1})
	if len(got.Series) != 1 {
		t.Fatalf("retained %d series, want 1 (one frame strictly below)", len(got.Series))
	}
	got = Compute(trj, pairTopology(), Options{DistanceThreshold: 0.65, ContactFrames: 2})
	if len(got.Series) != 0 {
		t.Fatalf("frames at the threshold must not count as contacts")
	}
}

func TestComputeConcatenatesAcrossRetainedSeries(t *testing.T) {
	trj := &traj.Trajectory{
		Coords: [][]traj.Vec3{
			{{0, 0, 0}, {0.2, 0, 0}, {0.3, 0, 0}},
			{{0, 0, 0}, {0.2, 0, 0}, {0.3, 0, 0}},
		},
		Times: []float64{0, 1},
	}
	top := &traj.Topology{
		Subunits: [][]traj.Residue{{{Name: "LEU", ID: 7, AtomIDs: []int{0}}}},
		Lipids: []traj.Residue{
			{Name: "POPC", ID: 1, AtomIDs: []int{1}},
			{Name: "POPC", ID: 2, AtomIDs: []int{2}},
		},
	}
	got := Compute(trj, top, Options{DistanceThreshold: 0.65, ContactFrames: 2})
	if len(got.Series) != 2 {
		t.Fatalf("retained %d series, want 2", len(got.Series))
	}
	if len(got.All) != 4 {
		t.Fatalf("concatenated length = %d, want sum of retained lengths 4", len(got.All))
	}
	if got.Series[0].LipidIndex != 0 || got.Series[1].LipidIndex != 1 {
		t.Fatalf("lipid indices = %d,%d, want 0,1", got.Series[0].LipidIndex, got.Series[1].LipidIndex)
	}
}
