// Package mindist implements the minimum-distance contact filter used for
// the lipid distance probability distribution: for every (protein residue,
// lipid instance) pair it computes the per-frame minimum distance across the
// two groups' atoms, keeps only series that spend enough frames below the
// distance threshold, and flattens the survivors for histogramming.
package mindist

import (
	"github.com/lipidens/lipidens/internal/traj"
)

// Series is one retained (residue, lipid instance) distance trace.
type Series struct {
	// Residue labels the protein residue, e.g. ARG45.
	Residue string
	// LipidIndex identifies the lipid instance within the topology.
	LipidIndex int
	// Distances holds the per-frame minimum distance in nm.
	Distances []float64
}

// Options are the filtering thresholds.
type Options struct {
	// DistanceThreshold is the contact distance in nm.
	DistanceThreshold float64
	// ContactFrames is the minimum number of frames a series must spend
	// below DistanceThreshold to be retained.
	ContactFrames int
}

// Result carries the retained series plus the concatenation of all their
// distances, in enumeration order.
type Result struct {
	Series []Series
	All    []float64
}

// Compute enumerates subunits x residues x lipid instances exhaustively and
// applies the frame-count filter. The whole trajectory must be resident; the
// cost is O(subunits * residues * lipids * frames * atoms^2) and is accepted
// as such.
func Compute(trj *traj.Trajectory, top *traj.Topology, opts Options) Result {
	var res Result
	for _, subunit := range top.Subunits {
		for _, residue := range subunit {
			for lipidIdx, lipid := range top.Lipids {
				series := traj.MinDistanceSeries(trj, residue.AtomIDs, lipid.AtomIDs)
				if countBelow(series, opts.DistanceThreshold) < opts.ContactFrames {
					continue
				}
				res.Series = append(res.Series, Series{
					Residue:    residue.Label(),
					LipidIndex: lipidIdx,
					Distances:  series,
				})
				res.All = append(res.All, series...)
			}
		}
	}
	return res
}

func countBelow(series []float64, threshold float64) int {
	n := 0
	for _, d := range series {
		if d < threshold {
			n++
		}
	}
	return n
}
