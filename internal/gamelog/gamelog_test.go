package gamelog

import (
	"path/filepath"
	"testing"

	"github.com/kingrea/parley/internal/board"
)

func TestAppendAndReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	events := []Event{
		{GameID: "g1", Type: EventGameCreated, Seed: 42},
		{GameID: "g1", Type: EventClue, Turn: 0, Team: board.TeamRed, ClueWord: "sky", Targets: []string{"sun", "moon"}},
		{GameID: "g1", Type: EventGuess, Turn: 0, Team: board.TeamRed, GuessWord: "sun", Kind: board.KindRed, Correct: true},
		{GameID: "g1", Type: EventGameOver, Turn: 3, Winner: board.TeamBlue, Reason: "assassin revealed"},
	}
	for _, e := range events {
		if err := w.Append(e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("read %d events, want %d", len(got), len(events))
	}
	if got[1].ClueWord != "sky" || len(got[1].Targets) != 2 {
		t.Fatalf("clue event = %+v", got[1])
	}
	if got[3].Winner != board.TeamBlue {
		t.Fatalf("game-over event = %+v", got[3])
	}
	for _, e := range got {
		if e.Time.IsZero() {
			t.Fatal("event missing timestamp")
		}
	}
}

func TestReadMissingFileFails(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Fatal("expected error for missing log")
	}
}
