// internal/tui/app.go
//
// Terminal viewer for a running match. It follows The Elm Architecture
// via bubbletea:
//
// 1. Model: the App struct below holds all state
// 2. Update: reacts to key presses, refresh ticks and match completion
// 3. View: renders the board, the clue panel and the log tail
//
// The match itself runs inside a tea.Cmd; the viewer only reads
// lock-guarded engine snapshots, so it can poll mid-turn without
// stalling the turn loop.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/parley/internal/board"
	"github.com/kingrea/parley/internal/engine"
	"github.com/kingrea/parley/internal/logbook"
	"github.com/kingrea/parley/internal/match"
)

const refreshInterval = 500 * time.Millisecond

type appState int

const (
	stateWatching appState = iota // match in progress
	stateFinished                 // outcome available
)

type refreshMsg time.Time

type matchFinishedMsg struct {
	outcome match.Outcome
	err     error
}

// App is the viewer model.
type App struct {
	state   appState
	engine  *engine.Engine
	runner  *match.Runner
	logbook *logbook.Logbook
	seed    *int64

	gameID        string
	view          engine.View
	hasView       bool
	spymasterMode bool
	outcome       match.Outcome
	err           error
	statusMsg     string
	spin          spinner.Model

	width  int
	height int
}

// NewApp builds a viewer that starts the runner's match on Init.
func NewApp(eng *engine.Engine, runner *match.Runner, lb *logbook.Logbook, seed *int64) (*App, error) {
	if eng == nil || runner == nil {
		return nil, fmt.Errorf("tui: engine and runner are required")
	}
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	return &App{
		engine:    eng,
		runner:    runner,
		logbook:   lb,
		seed:      seed,
		statusMsg: "Starting match...",
		spin:      spin,
	}, nil
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.startMatch(), a.scheduleRefresh(), a.spin.Tick)
}

func (a *App) startMatch() tea.Cmd {
	return func() tea.Msg {
		outcome, err := a.runner.Run(context.Background(), a.seed)
		return matchFinishedMsg{outcome: outcome, err: err}
	}
}

func (a *App) scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case refreshMsg:
		a.refreshSnapshot()
		if a.state == stateFinished {
			return a, nil
		}
		return a, a.scheduleRefresh()

	case matchFinishedMsg:
		a.state = stateFinished
		a.outcome = msg.outcome
		a.err = msg.err
		a.refreshSnapshot()
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Match failed: %v", msg.err)
		} else {
			a.statusMsg = fmt.Sprintf("Match over: %s", msg.outcome.WinReason)
		}
		return a, nil

	case spinner.TickMsg:
		if a.state == stateFinished {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "s":
			a.spymasterMode = !a.spymasterMode
			a.refreshSnapshot()
		case "r":
			a.refreshSnapshot()
		}
	}
	return a, nil
}

// refreshSnapshot pulls the newest role-scoped view from the engine.
func (a *App) refreshSnapshot() {
	if a.gameID == "" {
		ids := a.engine.GameIDs()
		if len(ids) == 0 {
			return
		}
		a.gameID = ids[0]
	}
	g, ok := a.engine.Game(a.gameID)
	if !ok {
		return
	}
	if a.spymasterMode {
		a.view = g.SpymasterView()
	} else {
		a.view = g.OperativeView()
	}
	a.hasView = true
	if a.state == stateWatching {
		a.statusMsg = fmt.Sprintf("Turn %d · %s to play", a.view.TurnCount+1, a.view.CurrentTeam)
	}
}

func (a *App) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ PARLEY")

	sections := []string{header}
	if !a.hasView {
		sections = append(sections, "Waiting for the board...")
	} else {
		boardBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Render(renderBoard(a.view))
		infoBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Render(a.renderInfoPanel())
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, boardBox, infoBox))
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}

	status := a.statusMsg
	if a.state == stateWatching {
		status = a.spin.View() + status
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(fmt.Sprintf("%s · s: toggle spymaster view · q: quit", status))
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

const boardColumns = 5

var (
	cellBase = lipgloss.NewStyle().Width(13).Align(lipgloss.Center)

	cellHidden   = cellBase.Foreground(lipgloss.Color("#DDDDDD"))
	cellRed      = cellBase.Foreground(lipgloss.Color("#FF6B6B"))
	cellBlue     = cellBase.Foreground(lipgloss.Color("#5B8DEF"))
	cellNeutral  = cellBase.Foreground(lipgloss.Color("#AAAAAA"))
	cellAssassin = cellBase.Foreground(lipgloss.Color("#F5F5F5")).Background(lipgloss.Color("#1A1A1A"))
)

func renderBoard(view engine.View) string {
	var rows []string
	var row []string
	for i, card := range view.Cards {
		row = append(row, renderCard(card))
		if (i+1)%boardColumns == 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func renderCard(card board.CardView) string {
	label := strings.ToUpper(card.Word)
	if card.Revealed {
		label = "·" + label + "·"
	}
	style := cellHidden
	switch card.Kind {
	case board.KindRed:
		style = cellRed
	case board.KindBlue:
		style = cellBlue
	case board.KindNeutral:
		style = cellNeutral
	case board.KindAssassin:
		style = cellAssassin
	}
	if card.Revealed {
		style = style.Bold(true)
	}
	return style.Render(label)
}

func (a *App) renderInfoPanel() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("MATCH")

	lines := []string{
		fmt.Sprintf("Red remaining:  %d", a.view.Remaining[board.TeamRed]),
		fmt.Sprintf("Blue remaining: %d", a.view.Remaining[board.TeamBlue]),
		fmt.Sprintf("Turn: %d", a.view.TurnCount+1),
	}
	if clue := lastClue(a.view); clue != nil {
		lines = append(lines, "", fmt.Sprintf("Clue: %s (%d) by %s", clue.Word, clue.Count, clue.Team))
	}
	if a.view.Winner != "" {
		winner := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Winner: %s", a.view.Winner))
		lines = append(lines, "", winner)
	}
	if a.state == stateFinished && a.err == nil {
		lines = append(lines, fmt.Sprintf("Turns: %d", a.outcome.Turns), fmt.Sprintf("Took: %s", a.outcome.Duration.Round(time.Millisecond)))
	}
	mode := "operative"
	if a.spymasterMode {
		mode = "spymaster"
	}
	lines = append(lines, "", fmt.Sprintf("View: %s", mode))
	return title + "\n" + strings.Join(lines, "\n")
}

func lastClue(view engine.View) *engine.ClueRecord {
	if len(view.ClueHistory) == 0 {
		return nil
	}
	return &view.ClueHistory[len(view.ClueHistory)-1]
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, _ := a.logbook.Tail(8)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("LOG")
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(head + "\n" + body)
}

// Outcome reports the finished match, when one completed before quit.
func (a *App) Outcome() (match.Outcome, bool) {
	if a.state != stateFinished || a.err != nil {
		return match.Outcome{}, false
	}
	return a.outcome, true
}

// Run starts the viewer in the alternate screen and blocks until quit.
func Run(app *App) error {
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
