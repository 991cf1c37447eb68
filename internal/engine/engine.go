// Package engine is the deterministic Codenames referee. It owns the
// registry of live games, validates and records clues, applies guesses
// through the turn/win state machine, and hands out role-scoped
// snapshots. It has no notion of agents or debates; callers drive it
// one call at a time.
package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/parley/internal/board"
)

// GameConfig parameterizes CreateGame. Seed is optional; when nil the
// engine derives one from the clock and stores it on the game either
// way.
type GameConfig struct {
	RedOperatives  int
	BlueOperatives int
	Seed           *int64
}

// GuessResult is the structured outcome of ProcessGuess. A failed guess
// (unknown word, already revealed, wrong turn, finished game) comes
// back with Success=false and an Error string, and mutates nothing, so
// it is always safe to retry with a different word.
type GuessResult struct {
	Success  bool
	Kind     board.Kind
	Correct  bool
	EndTurn  bool
	GameOver bool
	Winner   board.Team
	Error    string
}

// Engine keeps every live game in memory, keyed by id. The registry
// map is safe for concurrent CreateGame/Game calls, and the role views
// lock per game, so a viewer may snapshot a game while its driver
// plays. Mutating calls for a single game id must still come from one
// logical driver at a time; the turn/win bookkeeping is not atomic
// across calls.
type Engine struct {
	mu     sync.RWMutex
	games  map[string]*GameState
	corpus []string
}

// New builds an engine over the given word corpus. Corpus size is
// checked at CreateGame, not here, so a host can swap word lists before
// the first game.
func New(corpus []string) *Engine {
	return &Engine{
		games:  make(map[string]*GameState),
		corpus: append([]string{}, corpus...),
	}
}

// CreateGame generates a fresh board and registers it under a new id.
// Randomness comes from a local source derived from the seed, never
// from the global generator, so concurrent creations cannot interfere
// and a seed always reproduces the same board and starting team.
func (e *Engine) CreateGame(cfg GameConfig) (string, error) {
	if cfg.RedOperatives <= 0 || cfg.BlueOperatives <= 0 {
		return "", &ConfigurationError{Reason: fmt.Sprintf("team sizes must be positive, got red=%d blue=%d", cfg.RedOperatives, cfg.BlueOperatives)}
	}
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	b, first, err := board.Generate(e.corpus, rng)
	if err != nil {
		return "", &ConfigurationError{Reason: err.Error()}
	}

	state := &GameState{
		ID:          uuid.NewString(),
		Board:       b,
		CurrentTeam: first,
		Remaining: map[board.Team]int{
			first:            board.FirstTeamCards,
			first.Opponent(): board.SecondTeamCards,
		},
		Seed: seed,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.games[state.ID]; exists {
		return "", fmt.Errorf("engine: game id %s already registered", state.ID)
	}
	e.games[state.ID] = state
	return state.ID, nil
}

// Game returns the registered state for an id. The caller must treat
// the returned state as read-only.
func (e *Engine) Game(id string) (*GameState, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	g, ok := e.games[id]
	return g, ok
}

// GameIDs lists every registered game, sorted for stable output.
func (e *Engine) GameIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.games))
	for id := range e.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ValidateClue checks a clue without mutating anything, returning a
// structured verdict instead of an error so UIs and tests can probe
// clues freely. Checks run in a fixed order: shape, turn, finished
// game, single token, board-word collision, unknown targets, duplicate
// targets.
func (e *Engine) ValidateClue(g *GameState, word string, targets []string, team board.Team) ClueCheck {
	word = strings.TrimSpace(word)
	if word == "" {
		return rejected(ClueReasonEmptyWord, "clue word is required")
	}
	if g.CurrentTeam != team {
		return rejected(ClueReasonWrongTurn, fmt.Sprintf("it is %s's turn", g.CurrentTeam))
	}
	if g.Over() {
		return rejected(ClueReasonGameOver, fmt.Sprintf("%s already won", g.Winner))
	}
	if strings.ContainsAny(word, " \t") {
		return rejected(ClueReasonMultiWord, fmt.Sprintf("clue %q must be a single word", word))
	}
	if _, onBoard := g.Board.Find(word); onBoard {
		return rejected(ClueReasonBoardWord, fmt.Sprintf("clue %q is a board word", word))
	}
	seen := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if _, onBoard := g.Board.Find(target); !onBoard {
			return rejected(ClueReasonUnknownTarget, fmt.Sprintf("target %q is not on the board", target))
		}
		key := strings.ToLower(strings.TrimSpace(target))
		if _, dup := seen[key]; dup {
			return rejected(ClueReasonDuplicateTarget, fmt.Sprintf("target %q listed twice", target))
		}
		seen[key] = struct{}{}
	}
	return ClueCheck{Valid: true}
}

// ProcessClue validates and records a clue. The clue count is derived
// from the target list, so a count/target mismatch cannot exist.
// Nothing is revealed; the record only captures intent for the guesses
// that follow.
func (e *Engine) ProcessClue(gameID, word string, targets []string, team board.Team) error {
	g, ok := e.Game(gameID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if check := e.ValidateClue(g, word, targets, team); !check.Valid {
		return &InvalidClueError{Reason: check.Reason, Detail: check.Detail}
	}
	g.ClueHistory = append(g.ClueHistory, ClueRecord{
		Team:    team,
		Word:    strings.TrimSpace(word),
		Count:   len(targets),
		Targets: append([]string{}, targets...),
	})
	return nil
}

// ProcessGuess resolves a single guessed word for the given team and
// applies the turn/win rule:
//
//   - assassin: the other team wins immediately
//   - own card: remaining count drops; zero wins, otherwise the turn
//     continues
//   - opposing card or neutral: the turn ends (an opposing card also
//     drops that team's count, which can hand them the win)
//
// The engine does not cap guesses per clue; the bonus-guess allowance
// is the caller's rule.
func (e *Engine) ProcessGuess(gameID, word string, team board.Team) (GuessResult, error) {
	g, ok := e.Game(gameID)
	if !ok {
		return GuessResult{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Over() {
		return GuessResult{Error: fmt.Sprintf("game already won by %s", g.Winner)}, nil
	}
	if g.CurrentTeam != team {
		return GuessResult{Error: fmt.Sprintf("it is %s's turn", g.CurrentTeam)}, nil
	}

	card, ok := g.Board.Reveal(word)
	if !ok {
		return GuessResult{Error: fmt.Sprintf("%q is not on the board or already revealed", word)}, nil
	}

	result := GuessResult{Success: true, Kind: card.Kind, EndTurn: true}
	switch {
	case card.Kind == board.KindAssassin:
		g.Winner = team.Opponent()
	case card.Kind == board.KindNeutral:
		// Turn ends, no counts change.
	default:
		owner, _ := card.Kind.Team()
		g.Remaining[owner]--
		if g.Remaining[owner] == 0 {
			g.Winner = owner
		}
		result.Correct = owner == team
		result.EndTurn = owner != team
	}

	g.GuessHistory = append(g.GuessHistory, GuessRecord{
		Team:    team,
		Word:    card.Word,
		Kind:    card.Kind,
		Correct: result.Correct,
	})

	if g.Over() {
		result.GameOver = true
		result.Winner = g.Winner
		result.EndTurn = true
	} else if result.EndTurn {
		g.advanceTurn()
	}
	return result, nil
}

// EndTurn voluntarily passes the turn. It reports false when it is not
// the team's turn or the game is over.
func (e *Engine) EndTurn(gameID string, team board.Team) (bool, error) {
	g, ok := e.Game(gameID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Over() || g.CurrentTeam != team {
		return false, nil
	}
	g.advanceTurn()
	return true, nil
}

func (g *GameState) advanceTurn() {
	g.TurnCount++
	g.CurrentTeam = g.CurrentTeam.Opponent()
}
