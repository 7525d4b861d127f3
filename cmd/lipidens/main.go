// cmd/lipidens/main.go
//
// Entry point for the lipidens CLI.
//
// Flow:
// 1. Parse flags and load (or write) the YAML configuration
// 2. Build the stage registry and the shared run context
// 3. Either run a single stage headless (-stage) or launch the TUI

package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lipidens/lipidens/internal/config"
	"github.com/lipidens/lipidens/internal/interaction"
	"github.com/lipidens/lipidens/internal/logbook"
	"github.com/lipidens/lipidens/internal/protocol"
	"github.com/lipidens/lipidens/internal/stages/cutofftest"
	"github.com/lipidens/lipidens/internal/tui"
)

func main() {
	configPath := flag.String("config", config.DefaultFileName, "path to the run configuration")
	stageID := flag.String("stage", "", "run a single stage headless instead of the menu")
	writeInit := flag.Bool("init", false, "write a commented default configuration and exit")
	flag.Parse()

	if *writeInit {
		if err := config.WriteDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s; edit it and re-run.\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	registry := protocol.NewRegistry()
	protocol.RegisterExternalStages(registry)
	cutofftest.Register(registry)

	var logOpts []logbook.Option
	if *stageID != "" {
		// Headless runs mirror the logbook to stderr so progress is visible.
		logOpts = append(logOpts, logbook.WithEcho(os.Stderr))
	}
	log, err := logbook.ForRun(cfg.BaseDir, logOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening logbook: %v\n", err)
		os.Exit(1)
	}

	ctx := &protocol.Context{
		Config:   cfg,
		Log:      log,
		Analyzer: interaction.New(),
	}

	if *stageID != "" {
		if err := runStage(registry, *stageID, ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Stage %s failed: %v\n", *stageID, err)
			os.Exit(1)
		}
		return
	}
	p := tea.NewProgram(
		tui.NewApp(ctx, registry),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// runStage resolves and executes a single stage by ID.
func runStage(registry *protocol.Registry, id string, ctx *protocol.Context) error {
	stage, err := registry.Resolve(id)
	if err != nil {
		return err
	}
	if !stage.Available() {
		return fmt.Errorf("stage %s requires external tooling: %w", id, protocol.ErrUnavailable)
	}
	ctx.Log.Info("Stage %s started", id)
	if err := stage.Run(ctx); err != nil {
		ctx.Log.Error("Stage %s failed: %v", id, err)
		return err
	}
	ctx.Log.Info("Stage %s finished", id)
	return nil
}
