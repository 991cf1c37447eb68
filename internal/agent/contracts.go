// Package agent defines the capability contracts the referee consumes:
// spymasters that produce clues and operatives that guess, debate and
// vote. The core never sees raw model output; implementations parse and
// validate at this boundary and fall back to safe play on failure.
package agent

import (
	"context"

	"github.com/kingrea/parley/internal/engine"
)

// CluePlan is a spymaster's proposal: a single-token word plus the
// board words it is meant to point at. The clue number is always
// len(Targets).
type CluePlan struct {
	Word    string
	Targets []string
}

// ClueContext is everything an operative knows about the clue in play.
type ClueContext struct {
	Word            string
	Count           int
	CorrectSoFar    int
	PreviousGuesses []engine.GuessRecord
}

// Proposal is an operative's independent guess with its reasoning.
// Word is either an unrevealed board word or the EndTurnOption
// sentinel.
type Proposal struct {
	Word      string
	Reasoning string
}

// EndTurnOption is the sentinel an operative uses to vote for ending
// the turn instead of guessing.
const EndTurnOption = "end"

// TranscriptEntry is one contribution to a debate. Preference is the
// best-effort extracted word choice; empty when nothing could be
// extracted, in which case the message still counts as discussion.
type TranscriptEntry struct {
	Round      int
	Agent      string
	Message    string
	Preference string
}

// Spymaster produces clues from a privileged view that exposes every
// card's kind.
type Spymaster interface {
	Name() string
	GenerateClue(ctx context.Context, view engine.View) (CluePlan, error)
}

// Operative produces guesses, debate messages and votes from a
// restricted view; unrevealed cards show only their word.
type Operative interface {
	Name() string
	GenerateGuess(ctx context.Context, view engine.View, clue ClueContext) (Proposal, error)
	DebateContribution(ctx context.Context, transcript []TranscriptEntry, view engine.View, clue ClueContext) (string, error)
	FinalVote(ctx context.Context, transcript []TranscriptEntry, options []string, view engine.View, clue ClueContext) (string, error)
}
