package protocol

import "fmt"

// ExternalStage describes a protocol step this build cannot run itself
// because the work happens in an external tool (an MD engine, the full
// site-analysis pipeline). It keeps its place in the menu so the protocol
// reads as a whole.
type ExternalStage struct {
	StageID   string
	StageName string
	Desc      string
	// Tooling names what would be needed to run the stage.
	Tooling string
}

func (s ExternalStage) ID() string          { return s.StageID }
func (s ExternalStage) Name() string        { return s.StageName }
func (s ExternalStage) Description() string { return s.Desc }
func (s ExternalStage) Available() bool     { return false }

// Run always fails with ErrUnavailable.
func (s ExternalStage) Run(ctx *Context) error {
	return fmt.Errorf("%w: stage %s (%s) requires %s", ErrUnavailable, s.StageID, s.StageName, s.Tooling)
}

// RegisterExternalStages installs the protocol steps delegated to external
// tooling, in their documented order.
func RegisterExternalStages(reg *Registry) {
	for _, stage := range []ExternalStage{
		{
			StageID:   "1a",
			StageName: "Setup coarse-grained simulations",
			Desc:      "Build the coarse-grained system and production inputs.",
			Tooling:   "an MD engine and system-building tools",
		},
		{
			StageID:   "1b",
			StageName: "Process coarse-grained trajectories",
			Desc:      "Center, fit and stride the raw trajectories into run<N>/ inputs.",
			Tooling:   "trajectory post-processing tools",
		},
		{
			StageID:   "3",
			StageName: "Run full interaction analysis",
			Desc:      "Run the complete binding-site analysis with production cut-offs.",
			Tooling:   "the full interaction-analysis pipeline",
		},
		{
			StageID:   "4",
			StageName: "Screen analysis data",
			Desc:      "Screen per-site kinetics from the full analysis output.",
			Tooling:   "stage 3 output",
		},
		{
			StageID:   "5",
			StageName: "Rank site lipids",
			Desc:      "Rank lipids per binding site across analyses.",
			Tooling:   "stage 3 output",
		},
		{
			StageID:   "6",
			StageName: "Setup atomistic simulations",
			Desc:      "Backmap selected poses into atomistic systems.",
			Tooling:   "an MD engine and backmapping tools",
		},
	} {
		reg.MustRegister(stage)
	}
}
