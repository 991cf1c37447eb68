package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/parley/internal/agent"
	"github.com/kingrea/parley/internal/board"
	"github.com/kingrea/parley/internal/debate"
	"github.com/kingrea/parley/internal/engine"
	"github.com/kingrea/parley/internal/match"
	"github.com/kingrea/parley/internal/wordlist"
)

func testApp(t *testing.T) (*App, *engine.Engine) {
	t.Helper()
	eng := engine.New(wordlist.Default())
	roster := func(team board.Team) match.Roster {
		return match.Roster{
			Spymaster:  agent.NewRandomSpymaster(string(team)+"-spy", team, 1),
			Operatives: []agent.Operative{agent.NewRandomOperative(string(team)+"-op", team, 2)},
		}
	}
	runner, err := match.NewRunner(eng, debate.NewManager(1, 1), roster(board.TeamRed), roster(board.TeamBlue), match.Options{MaxTurns: 5})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	app, err := NewApp(eng, runner, nil, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app, eng
}

func TestNewAppRequiresEngineAndRunner(t *testing.T) {
	if _, err := NewApp(nil, nil, nil, nil); err == nil {
		t.Fatal("expected construction error")
	}
}

func TestViewShowsBoardAfterRefresh(t *testing.T) {
	app, eng := testApp(t)
	seed := int64(42)
	gameID, err := eng.CreateGame(engine.GameConfig{RedOperatives: 1, BlueOperatives: 1, Seed: &seed})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	app.refreshSnapshot()
	if app.gameID != gameID {
		t.Fatalf("app bound to game %q, want %q", app.gameID, gameID)
	}

	out := app.View()
	if !strings.Contains(out, "PARLEY") {
		t.Fatal("view missing header")
	}
	g, _ := eng.Game(gameID)
	word := strings.ToUpper(g.Board.Card(0).Word)
	if !strings.Contains(out, word) {
		t.Fatalf("view missing board word %q", word)
	}
	if !strings.Contains(out, "View: operative") {
		t.Fatal("view missing mode line")
	}
}

func TestSpymasterToggle(t *testing.T) {
	app, eng := testApp(t)
	seed := int64(42)
	if _, err := eng.CreateGame(engine.GameConfig{RedOperatives: 1, BlueOperatives: 1, Seed: &seed}); err != nil {
		t.Fatalf("create game: %v", err)
	}
	app.refreshSnapshot()

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	app = model.(*App)
	if !app.spymasterMode {
		t.Fatal("spymaster mode not enabled")
	}
	if !strings.Contains(app.View(), "View: spymaster") {
		t.Fatal("view missing spymaster mode line")
	}
	for _, card := range app.view.Cards {
		if card.Kind == "" {
			t.Fatal("spymaster view should expose every kind")
		}
	}
}

func TestMatchFinishedUpdatesStatus(t *testing.T) {
	app, _ := testApp(t)
	model, _ := app.Update(matchFinishedMsg{outcome: match.Outcome{
		GameID:    "g1",
		Winner:    board.TeamRed,
		WinReason: "red uncovered all their words",
		Turns:     4,
	}})
	app = model.(*App)
	if app.state != stateFinished {
		t.Fatalf("state = %d", app.state)
	}
	if !strings.Contains(app.statusMsg, "red uncovered all their words") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}
