// Package gamelog records match events as JSON lines so analysis
// tooling can replay what happened without touching engine internals.
// Serialization lives here, outside the core, on purpose.
package gamelog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kingrea/parley/internal/board"
)

// EventType enumerates the recorded match events.
type EventType string

const (
	EventGameCreated EventType = "game-created"
	EventClue        EventType = "clue"
	EventDebate      EventType = "debate"
	EventGuess       EventType = "guess"
	EventTurnEnded   EventType = "turn-ended"
	EventGameOver    EventType = "game-over"
)

// Event is one JSON line in the log. Only the fields relevant to the
// event type are populated.
type Event struct {
	Time   time.Time  `json:"time"`
	GameID string     `json:"gameId"`
	Type   EventType  `json:"type"`
	Turn   int        `json:"turn"`
	Team   board.Team `json:"team,omitempty"`

	Seed       int64          `json:"seed,omitempty"`
	ClueWord   string         `json:"clueWord,omitempty"`
	Targets    []string       `json:"targets,omitempty"`
	Decision   string         `json:"decision,omitempty"`
	VoteCounts map[string]int `json:"voteCounts,omitempty"`
	GuessWord  string         `json:"guessWord,omitempty"`
	Kind       board.Kind     `json:"kind,omitempty"`
	Correct    bool           `json:"correct,omitempty"`
	Winner     board.Team     `json:"winner,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// Writer appends events to a JSON-lines file. Safe for concurrent use.
type Writer struct {
	path string
	mu   sync.Mutex
}

// NewWriter creates the event log file's directory and returns a
// writer appending to path.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("gamelog: ensure log dir: %w", err)
	}
	return &Writer{path: path}, nil
}

// Append stamps and writes one event.
func (w *Writer) Append(event Event) error {
	if w == nil {
		return nil
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("gamelog: encode event: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("gamelog: open %s: %w", w.path, err)
	}
	defer file.Close()
	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("gamelog: write event: %w", err)
	}
	return nil
}

// Read loads every event from a log file, in order.
func Read(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gamelog: read %s: %w", path, err)
	}
	var events []Event
	decoder := json.NewDecoder(bytes.NewReader(data))
	for decoder.More() {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			return nil, fmt.Errorf("gamelog: parse %s: %w", path, err)
		}
		events = append(events, event)
	}
	return events, nil
}
