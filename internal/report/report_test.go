package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/parley/internal/board"
	"github.com/kingrea/parley/internal/engine"
	"github.com/kingrea/parley/internal/match"
)

func finishedGame() (*engine.GameState, match.Outcome) {
	b := board.New([]board.Card{
		{Word: "sun", Kind: board.KindRed, Revealed: true},
		{Word: "moon", Kind: board.KindRed, Revealed: true},
		{Word: "river", Kind: board.KindBlue},
		{Word: "chair", Kind: board.KindNeutral},
		{Word: "viper", Kind: board.KindAssassin},
	})
	g := &engine.GameState{
		ID:          "g-42",
		Board:       b,
		Remaining:   map[board.Team]int{board.TeamRed: 0, board.TeamBlue: 1},
		CurrentTeam: board.TeamRed,
		Winner:      board.TeamRed,
		TurnCount:   1,
		Seed:        42,
		ClueHistory: []engine.ClueRecord{
			{Team: board.TeamRed, Word: "sky", Count: 2, Targets: []string{"sun", "moon"}},
		},
		GuessHistory: []engine.GuessRecord{
			{Team: board.TeamRed, Word: "sun", Kind: board.KindRed, Correct: true},
			{Team: board.TeamRed, Word: "moon", Kind: board.KindRed, Correct: true},
		},
	}
	outcome := match.Outcome{
		GameID:    "g-42",
		Winner:    board.TeamRed,
		WinReason: "red uncovered all their words",
		Turns:     1,
		Duration:  1500 * time.Millisecond,
	}
	return g, outcome
}

func TestWriteMarkdownRoundTrip(t *testing.T) {
	g, outcome := finishedGame()
	path := filepath.Join(t.TempDir(), "out", "g-42.report.md")

	if err := WriteMarkdown(path, outcome, g); err != nil {
		t.Fatalf("write markdown: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	summary, err := ParseSummary(content)
	if err != nil {
		t.Fatalf("parse summary: %v", err)
	}
	if summary.GameID != "g-42" || summary.Winner != "red" || summary.Turns != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Seed != 42 {
		t.Fatalf("seed = %d", summary.Seed)
	}

	text := string(content)
	for _, want := range []string{
		"# Match g-42",
		"**red** won in 1 turns",
		"| 1 | red | sky (2) | sun, moon |",
		"| 2 | red | moon | red | hit |",
		"| viper | assassin | no |",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
	}
}

func TestParseSummaryRejectsBadContent(t *testing.T) {
	if _, err := ParseSummary([]byte("# not a report\n")); err != ErrMissingFrontMatter {
		t.Fatalf("err = %v, want ErrMissingFrontMatter", err)
	}
	if _, err := ParseSummary([]byte("---\nparley:\n  turns: 3\n---\nbody\n")); err != ErrMalformedFrontMatter {
		t.Fatalf("err = %v, want ErrMalformedFrontMatter", err)
	}
}

func TestAppendCSVAccumulates(t *testing.T) {
	_, outcome := finishedGame()
	path := filepath.Join(t.TempDir(), "results.csv")

	if err := AppendCSV(path, outcome, 42); err != nil {
		t.Fatalf("append: %v", err)
	}
	second := outcome
	second.GameID = "g-43"
	second.Winner = board.TeamBlue
	if err := AppendCSV(path, second, 43); err != nil {
		t.Fatalf("append second: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("ledger lines = %d, want header plus two rows", len(lines))
	}
	if lines[0] != "game_id,winner,win_reason,turns,seed,seconds" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "g-43,blue,") {
		t.Fatalf("second row = %q", lines[2])
	}
}
