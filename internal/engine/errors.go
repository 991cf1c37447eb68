package engine

import (
	"errors"
	"fmt"
)

// ErrGameNotFound reports an operation against an unknown game id.
// Unknown ids are an expected condition in a multi-game host, so this
// is an ordinary error value rather than a panic.
var ErrGameNotFound = errors.New("engine: game not found")

// ConfigurationError is a fatal setup failure at game creation, such as
// a word corpus below the board size or a non-positive team size.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("engine: configuration: %s", e.Reason)
}

// ClueReason enumerates the machine-checkable reasons a clue can be
// rejected.
type ClueReason string

const (
	ClueReasonEmptyWord       ClueReason = "empty-word"
	ClueReasonWrongTurn       ClueReason = "wrong-turn"
	ClueReasonGameOver        ClueReason = "game-over"
	ClueReasonMultiWord       ClueReason = "multi-word"
	ClueReasonBoardWord       ClueReason = "board-word"
	ClueReasonUnknownTarget   ClueReason = "unknown-target"
	ClueReasonDuplicateTarget ClueReason = "duplicate-target"
)

// InvalidClueError carries the structured rejection reason so callers
// can re-prompt the spymaster and retry.
type InvalidClueError struct {
	Reason ClueReason
	Detail string
}

func (e *InvalidClueError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("engine: invalid clue: %s", e.Reason)
	}
	return fmt.Sprintf("engine: invalid clue: %s (%s)", e.Reason, e.Detail)
}

// ClueCheck is the outcome of ValidateClue. A zero Reason means the
// clue passed every check.
type ClueCheck struct {
	Valid  bool
	Reason ClueReason
	Detail string
}

func rejected(reason ClueReason, detail string) ClueCheck {
	return ClueCheck{Reason: reason, Detail: detail}
}
