// Package report renders finished matches into reviewable files: a
// markdown report with a YAML front-matter summary block, and a CSV
// results ledger that accumulates across matches.
package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/parley/internal/engine"
	"github.com/kingrea/parley/internal/match"
)

var (
	// ErrMissingFrontMatter indicates the report did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("report: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("report: malformed frontmatter")
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// Summary is the machine-readable header of a match report.
type Summary struct {
	GameID    string
	Winner    string
	WinReason string
	Turns     int
	Seed      int64
	Duration  time.Duration
	CreatedAt time.Time
}

type envelope struct {
	Parley summaryMeta `yaml:"parley"`
}

type summaryMeta struct {
	Game      string  `yaml:"game"`
	Winner    string  `yaml:"winner,omitempty"`
	WinReason string  `yaml:"win_reason"`
	Turns     int     `yaml:"turns"`
	Seed      int64   `yaml:"seed"`
	Seconds   float64 `yaml:"seconds"`
	Created   string  `yaml:"created"`
}

// WriteMarkdown renders the outcome and final game state to path.
func WriteMarkdown(path string, outcome match.Outcome, g *engine.GameState) error {
	if g == nil {
		return fmt.Errorf("report: game state is required")
	}
	summary := Summary{
		GameID:    outcome.GameID,
		Winner:    string(outcome.Winner),
		WinReason: outcome.WinReason,
		Turns:     outcome.Turns,
		Seed:      g.Seed,
		Duration:  outcome.Duration,
		CreatedAt: time.Now().UTC(),
	}
	content, err := render(summary, g)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: ensure report dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

func render(summary Summary, g *engine.GameState) ([]byte, error) {
	head, err := yaml.Marshal(envelope{Parley: summaryMeta{
		Game:      summary.GameID,
		Winner:    summary.Winner,
		WinReason: summary.WinReason,
		Turns:     summary.Turns,
		Seed:      summary.Seed,
		Seconds:   summary.Duration.Seconds(),
		Created:   summary.CreatedAt.Format(timeLayout),
	}})
	if err != nil {
		return nil, fmt.Errorf("report: encode frontmatter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(bytes.TrimRight(head, "\n"))
	b.WriteString("\n---\n\n")

	fmt.Fprintf(&b, "# Match %s\n\n", summary.GameID)
	if summary.Winner == "" {
		fmt.Fprintf(&b, "No winner: %s after %d turns.\n\n", summary.WinReason, summary.Turns)
	} else {
		fmt.Fprintf(&b, "**%s** won in %d turns: %s.\n\n", summary.Winner, summary.Turns, summary.WinReason)
	}

	b.WriteString("## Clues\n\n")
	if len(g.ClueHistory) == 0 {
		b.WriteString("No clues were given.\n")
	} else {
		b.WriteString("| # | Team | Clue | Targets |\n|---|------|------|---------|\n")
		for i, clue := range g.ClueHistory {
			fmt.Fprintf(&b, "| %d | %s | %s (%d) | %s |\n", i+1, clue.Team, clue.Word, clue.Count, strings.Join(clue.Targets, ", "))
		}
	}

	b.WriteString("\n## Guesses\n\n")
	if len(g.GuessHistory) == 0 {
		b.WriteString("No guesses were made.\n")
	} else {
		b.WriteString("| # | Team | Word | Card | Result |\n|---|------|------|------|--------|\n")
		for i, guess := range g.GuessHistory {
			result := "miss"
			if guess.Correct {
				result = "hit"
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", i+1, guess.Team, guess.Word, guess.Kind, result)
		}
	}

	b.WriteString("\n## Final board\n\n")
	b.WriteString("| Word | Card | Revealed |\n|------|------|----------|\n")
	for _, card := range g.Board.Cards() {
		revealed := "no"
		if card.Revealed {
			revealed = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", card.Word, card.Kind, revealed)
	}
	return b.Bytes(), nil
}

// ParseSummary reads the front-matter summary back from report content.
func ParseSummary(content []byte) (Summary, error) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Summary{}, ErrMissingFrontMatter
	}
	parts := bytes.SplitN(normalized[4:], []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return Summary{}, ErrMalformedFrontMatter
	}
	var env envelope
	if err := yaml.Unmarshal(parts[0], &env); err != nil {
		return Summary{}, fmt.Errorf("report: parse frontmatter: %w", err)
	}
	if env.Parley.Game == "" {
		return Summary{}, ErrMalformedFrontMatter
	}
	created, err := time.Parse(timeLayout, env.Parley.Created)
	if err != nil {
		return Summary{}, fmt.Errorf("report: parse created timestamp: %w", err)
	}
	return Summary{
		GameID:    env.Parley.Game,
		Winner:    env.Parley.Winner,
		WinReason: env.Parley.WinReason,
		Turns:     env.Parley.Turns,
		Seed:      env.Parley.Seed,
		Duration:  time.Duration(env.Parley.Seconds * float64(time.Second)),
		CreatedAt: created.UTC(),
	}, nil
}

var csvHeader = []string{"game_id", "winner", "win_reason", "turns", "seed", "seconds"}

// AppendCSV adds one result row to the ledger at path, writing the
// header when the file is new.
func AppendCSV(path string, outcome match.Outcome, seed int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: ensure ledger dir: %w", err)
	}
	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("report: open ledger %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if isNew {
		if err := writer.Write(csvHeader); err != nil {
			return fmt.Errorf("report: write ledger header: %w", err)
		}
	}
	row := []string{
		outcome.GameID,
		string(outcome.Winner),
		outcome.WinReason,
		strconv.Itoa(outcome.Turns),
		strconv.FormatInt(seed, 10),
		strconv.FormatFloat(outcome.Duration.Seconds(), 'f', 3, 64),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("report: write ledger row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("report: flush ledger: %w", err)
	}
	return nil
}
