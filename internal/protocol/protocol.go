// Package protocol defines the stages of the lipid-interaction workflow and
// the registry the UI and the CLI resolve them from. Stage numbering follows
// the wet-lab protocol: 1a/1b prepare and process coarse-grained
// simulations, 2 tests cut-off values, 3-6 run and post-process the full
// analysis. Stages whose work is delegated to external MD tooling are
// registered as unavailable so the menu can still describe them.
package protocol

import (
	"errors"
	"fmt"

	"github.com/lipidens/lipidens/internal/config"
	"github.com/lipidens/lipidens/internal/cutoff"
	"github.com/lipidens/lipidens/internal/logbook"
)

// ErrUnavailable marks stages that require external tooling (an MD engine or
// the full interaction-analysis pipeline) not bundled with this build.
var ErrUnavailable = errors.New("protocol: stage not available in this build")

// Context carries everything a stage needs to run.
type Context struct {
	Config   *config.Config
	Log      *logbook.Logbook
	Analyzer cutoff.Analyzer
}

// ValidateContext ensures a stage was handed a usable context.
func ValidateContext(stageID string, ctx *Context) error {
	if ctx == nil {
		return fmt.Errorf("protocol: stage %s: nil context", stageID)
	}
	if ctx.Config == nil {
		return fmt.Errorf("protocol: stage %s: missing config", stageID)
	}
	return nil
}

// Stage is one runnable protocol step.
type Stage interface {
	ID() string
	Name() string
	Description() string
	// Available reports whether this build can actually run the stage.
	Available() bool
	Run(ctx *Context) error
}
