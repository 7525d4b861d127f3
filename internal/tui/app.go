// internal/tui/app.go
//
// The terminal UI for stage selection. It uses bubbletea, which follows The
// Elm Architecture: the App model holds all state, Update reacts to
// messages, View renders to a string.
//
// The protocol runs one stage at a time: pick a stage from the menu, watch
// the run log stream while it executes, read the outcome, return to the
// menu.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lipidens/lipidens/internal/protocol"
)

// appState represents which screen we're on.
type appState int

const (
	stateMenu    appState = iota // stage picker
	stateRunning                 // a stage is executing
	stateDone                    // outcome of the last run
)

const (
	logTailLines    = 12
	logTickInterval = 500 * time.Millisecond
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("211"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	logStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// stageItem implements list.Item for the stage menu.
type stageItem struct {
	stage protocol.Stage
}

func (i stageItem) Title() string {
	return fmt.Sprintf("%s: %s", i.stage.ID(), i.stage.Name())
}

func (i stageItem) Description() string {
	desc := i.stage.Description()
	if !i.stage.Available() {
		desc += " (requires external tooling)"
	}
	return desc
}

func (i stageItem) FilterValue() string { return i.stage.ID() }

// stageDoneMsg reports a finished stage run.
type stageDoneMsg struct {
	id  string
	err error
}

// logTickMsg refreshes the log panel while a stage runs.
type logTickMsg time.Time

// App is the application model: the stage registry, the run context, and
// the current screen.
type App struct {
	state    appState
	ctx      *protocol.Context
	registry *protocol.Registry

	menu      list.Model
	runningID string
	logLines  []string
	runErr    error
	statusMsg string

	width  int
	height int
}

// NewApp builds the stage menu from the registry.
func NewApp(ctx *protocol.Context, registry *protocol.Registry) *App {
	stages := registry.Stages()
	items := make([]list.Item, len(stages))
	for i, stage := range stages {
		items[i] = stageItem{stage: stage}
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "lipidens protocol"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	return &App{
		state:    stateMenu,
		ctx:      ctx,
		registry: registry,
		menu:     menu,
	}
}

// Init is part of tea.Model; nothing to do at startup.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update reacts to key presses, window resizes and run progress.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(msg.Width-4, msg.Height-6)
		return a, nil

	case logTickMsg:
		if a.state != stateRunning {
			return a, nil
		}
		a.refreshLog()
		return a, a.scheduleLogTick()

	case stageDoneMsg:
		a.state = stateDone
		a.runErr = msg.err
		a.refreshLog()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state != stateRunning {
				return a, tea.Quit
			}
		case "esc", "enter":
			if a.state == stateDone {
				a.state = stateMenu
				a.statusMsg = ""
				return a, nil
			}
			if a.state == stateMenu && msg.String() == "enter" {
				return a.startSelectedStage()
			}
		}
	}

	if a.state == stateMenu {
		var cmd tea.Cmd
		a.menu, cmd = a.menu.Update(msg)
		return a, cmd
	}
	return a, nil
}

// startSelectedStage launches the highlighted stage in the background.
func (a *App) startSelectedStage() (tea.Model, tea.Cmd) {
	item, ok := a.menu.SelectedItem().(stageItem)
	if !ok {
		return a, nil
	}
	if !item.stage.Available() {
		a.statusMsg = fmt.Sprintf("Stage %s is not runnable in this build", item.stage.ID())
		return a, nil
	}
	a.state = stateRunning
	a.runningID = item.stage.ID()
	a.runErr = nil
	a.statusMsg = ""
	a.ctx.Log.Info("Stage %s selected", item.stage.ID())
	run := func() tea.Msg {
		return stageDoneMsg{id: item.stage.ID(), err: item.stage.Run(a.ctx)}
	}
	return a, tea.Batch(run, a.scheduleLogTick())
}

func (a *App) scheduleLogTick() tea.Cmd {
	return tea.Tick(logTickInterval, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

func (a *App) refreshLog() {
	lines, _ := a.ctx.Log.Tail(logTailLines)
	a.logLines = lines
}

// View renders the current screen.
func (a *App) View() string {
	switch a.state {
	case stateRunning:
		return a.renderRun(fmt.Sprintf("Running stage %s ...", a.runningID))
	case stateDone:
		outcome := okStyle.Render(fmt.Sprintf("Stage %s finished", a.runningID))
		if a.runErr != nil {
			outcome = errorStyle.Render(fmt.Sprintf("Stage %s failed: %v", a.runningID, a.runErr))
		}
		return a.renderRun(outcome + "\n" + statusStyle.Render("enter/esc: back to menu · q: quit"))
	default:
		view := a.menu.View()
		if a.statusMsg != "" {
			view += "\n" + statusStyle.Render(a.statusMsg)
		}
		return view
	}
}

func (a *App) renderRun(header string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("lipidens protocol"))
	b.WriteString("\n\n")
	b.WriteString(header)
	b.WriteString("\n\n")
	if len(a.logLines) > 0 {
		b.WriteString(logStyle.Render(strings.Join(a.logLines, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}
