package interaction

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/lipidens/lipidens/internal/cutoff"
)

// communitySeed fixes the Louvain source so repeated runs over the same
// trajectories yield the same node partition.
const communitySeed = 1

// minNodeResidues is the smallest residue community counted as a binding
// node; isolated residues do not form a site.
const minNodeResidues = 2

// ComputeBindingNodes clusters residues into binding nodes. Two residues are
// connected when they are in contact with the same lipid instance during the
// same frame; Louvain community detection over that co-contact graph yields
// the nodes.
func (s *Session) ComputeBindingNodes() error {
	if s.stage != stageDurations {
		return fmt.Errorf("interaction: binding nodes require computed durations")
	}
	weights := s.coContactWeights()
	if len(weights) == 0 {
		s.nodeCount = 0
		s.stage = stageNodes
		return nil
	}

	g := simple.NewWeightedUndirectedGraph(0, 0)
	ensure := func(id int) {
		if g.Node(int64(id)) == nil {
			g.AddNode(simple.Node(id))
		}
	}
	for edge, weight := range weights {
		ensure(edge[0])
		ensure(edge[1])
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(edge[0]), simple.Node(edge[1]), weight))
	}

	reduced := community.Modularize(g, 1.0, rand.NewSource(communitySeed))
	count := 0
	for _, comm := range reduced.Communities() {
		if len(comm) >= minNodeResidues {
			count++
		}
	}
	s.nodeCount = count
	s.stage = stageNodes
	return nil
}

// coContactWeights accumulates, for every unordered residue pair, the number
// of (replicate, lipid, frame) combinations in which both residues are in
// contact with the same lipid instance.
func (s *Session) coContactWeights() map[[2]int]float64 {
	// Bucket masks by replicate and lipid so only residues sharing a lipid
	// instance within the same run are compared frame by frame.
	type bucket struct{ rep, lipid int }
	byLipid := make(map[bucket][]contactMask)
	for _, mask := range s.masks {
		key := bucket{rep: mask.rep, lipid: mask.lipid}
		byLipid[key] = append(byLipid[key], mask)
	}
	weights := make(map[[2]int]float64)
	for _, masks := range byLipid {
		for i := 0; i < len(masks); i++ {
			for j := i + 1; j < len(masks); j++ {
				a, b := masks[i], masks[j]
				if a.residue == b.residue {
					continue
				}
				shared := sharedFrames(a.frames, b.frames)
				if shared == 0 {
					continue
				}
				edge := orderedEdge(a.residue, b.residue)
				weights[edge] += float64(shared)
			}
		}
	}
	return weights
}

func sharedFrames(a, b []bool) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	shared := 0
	for f := 0; f < n; f++ {
		if a[f] && b[f] {
			shared++
		}
	}
	return shared
}

func orderedEdge(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// NodeCount reports the binding nodes found by ComputeBindingNodes.
func (s *Session) NodeCount() int {
	return s.nodeCount
}

// Dataset returns the per-residue result table built by ComputeDurations.
func (s *Session) Dataset() []cutoff.ResidueMetrics {
	return s.dataset
}
