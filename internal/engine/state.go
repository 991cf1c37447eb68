package engine

import (
	"sync"

	"github.com/kingrea/parley/internal/board"
)

// ClueRecord is one entry in a game's clue history. Count always equals
// len(Targets); it is derived, never supplied.
type ClueRecord struct {
	Team    board.Team
	Word    string
	Count   int
	Targets []string
}

// GuessRecord is one entry in a game's guess history.
type GuessRecord struct {
	Team    board.Team
	Word    string
	Kind    board.Kind
	Correct bool
}

// GameState is the full state of one game. It is created by
// Engine.CreateGame and mutated only by ProcessClue, ProcessGuess and
// EndTurn; once Winner is set it never changes again. Callers treat it
// as read-only. The mutators and the view methods share mu, so a
// viewer may snapshot while the driver plays.
type GameState struct {
	// mu guards every field below against concurrent snapshots.
	mu sync.Mutex

	ID           string
	Board        *board.Board
	Remaining    map[board.Team]int
	CurrentTeam  board.Team
	Winner       board.Team
	TurnCount    int
	ClueHistory  []ClueRecord
	GuessHistory []GuessRecord

	// Seed is the value the board was generated from, kept for
	// reproducing a game during debugging.
	Seed int64
}

// Over reports whether a winner has been decided.
func (g *GameState) Over() bool {
	return g.Winner != ""
}

// LastClue returns the most recent clue, if any.
func (g *GameState) LastClue() (ClueRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.ClueHistory) == 0 {
		return ClueRecord{}, false
	}
	return g.ClueHistory[len(g.ClueHistory)-1], true
}

// View is a role-specific snapshot of a game. Everything is copied at
// snapshot time; later engine mutations never show through.
type View struct {
	GameID       string
	Cards        []board.CardView
	Remaining    map[board.Team]int
	CurrentTeam  board.Team
	Winner       board.Team
	TurnCount    int
	ClueHistory  []ClueRecord
	GuessHistory []GuessRecord
}

// SpymasterView snapshots the game with every card kind visible.
func (g *GameState) SpymasterView() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot(g.Board.SpymasterView())
}

// OperativeView snapshots the game with kinds redacted on face-down
// cards.
func (g *GameState) OperativeView() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot(g.Board.OperativeView())
}

func (g *GameState) snapshot(cards []board.CardView) View {
	remaining := make(map[board.Team]int, len(g.Remaining))
	for team, n := range g.Remaining {
		remaining[team] = n
	}
	return View{
		GameID:       g.ID,
		Cards:        cards,
		Remaining:    remaining,
		CurrentTeam:  g.CurrentTeam,
		Winner:       g.Winner,
		TurnCount:    g.TurnCount,
		ClueHistory:  append([]ClueRecord{}, g.ClueHistory...),
		GuessHistory: append([]GuessRecord{}, g.GuessHistory...),
	}
}

// UnrevealedWords lists the view's face-down words in board order.
func (v View) UnrevealedWords() []string {
	var words []string
	for _, c := range v.Cards {
		if !c.Revealed {
			words = append(words, c.Word)
		}
	}
	return words
}

// RevealedCards lists the view's face-up cards in board order.
func (v View) RevealedCards() []board.CardView {
	var cards []board.CardView
	for _, c := range v.Cards {
		if c.Revealed {
			cards = append(cards, c)
		}
	}
	return cards
}
