// Package traj holds the in-memory model of a coarse-grained simulation
// replicate: the per-frame coordinates plus the residue-level topology split
// into protein subunits and lipid instances. Everything downstream (the
// minimum-distance filter, the interaction analyzer) works on this model so
// synthetic fixtures can stand in for real trajectories in tests.
package traj

import (
	"fmt"
	"math"
)

// Vec3 is a single atom position in nm.
type Vec3 [3]float64

// Residue is a contiguous group of atoms sharing a residue name and number.
// AtomIDs index into the frames of a Trajectory.
type Residue struct {
	Name    string
	ID      int
	AtomIDs []int
}

// Label renders the residue the way figures and tables refer to it, e.g. ARG45.
func (r Residue) Label() string {
	return fmt.Sprintf("%s%d", r.Name, r.ID)
}

// Topology partitions the atoms of one replicate into protein residues
// (grouped per subunit) and lipid instances of the lipid under analysis.
type Topology struct {
	// Subunits holds the protein residues, one slice per protein copy.
	Subunits [][]Residue
	// Lipids holds one Residue per lipid molecule. When a lipid-atom
	// selection is configured, AtomIDs contains only the selected atoms.
	Lipids []Residue
}

// Trajectory is a fully resident set of frames for one replicate.
type Trajectory struct {
	// Coords is frame-major: Coords[f][a] is the position of atom a at frame f.
	Coords [][]Vec3
	// Times gives the simulation time of each stored frame, in the run's
	// configured time unit.
	Times []float64
}

// NFrames returns the number of stored frames.
func (t *Trajectory) NFrames() int {
	return len(t.Coords)
}

// NAtoms returns the atom count of the system, or zero for an empty trajectory.
func (t *Trajectory) NAtoms() int {
	if len(t.Coords) == 0 {
		return 0
	}
	return len(t.Coords[0])
}

// MinDistance returns the minimum pairwise distance between two atom groups
// in a single frame. It is the inner kernel of every contact computation here.
func MinDistance(frame []Vec3, a, b []int) float64 {
	min := math.Inf(1)
	for _, i := range a {
		pi := frame[i]
		for _, j := range b {
			pj := frame[j]
			dx := pi[0] - pj[0]
			dy := pi[1] - pj[1]
			dz := pi[2] - pj[2]
			if d2 := dx*dx + dy*dy + dz*dz; d2 < min {
				min = d2
			}
		}
	}
	return math.Sqrt(min)
}

// MinDistanceSeries computes the per-frame minimum distance between two atom
// groups across a whole trajectory.
func MinDistanceSeries(t *Trajectory, a, b []int) []float64 {
	series := make([]float64, t.NFrames())
	for f, frame := range t.Coords {
		series[f] = MinDistance(frame, a, b)
	}
	return series
}
