package agent

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/kingrea/parley/internal/board"
	"github.com/kingrea/parley/internal/engine"
)

// cluePool is the generic vocabulary the baseline spymaster draws clue
// words from. Entries colliding with a board word are skipped at use.
var cluePool = []string{
	"concept", "object", "motion", "nature", "journey",
	"machine", "signal", "pattern", "vessel", "shelter",
}

// RandomSpymaster is a heuristic baseline: it targets a few of its own
// unrevealed words and picks a generic clue word. Useful for drills,
// deterministic tests and as the substitute when a model-backed
// spymaster fails.
type RandomSpymaster struct {
	name string
	team board.Team
	rng  *rand.Rand
}

// NewRandomSpymaster builds a seeded baseline spymaster. Each instance
// must be driven from a single goroutine.
func NewRandomSpymaster(name string, team board.Team, seed int64) *RandomSpymaster {
	return &RandomSpymaster{name: name, team: team, rng: rand.New(rand.NewSource(seed))}
}

// Name implements Spymaster.
func (s *RandomSpymaster) Name() string { return s.name }

// GenerateClue picks one or two of the team's unrevealed words as
// targets and a pool word that is not on the board.
func (s *RandomSpymaster) GenerateClue(_ context.Context, view engine.View) (CluePlan, error) {
	own := ownUnrevealedWords(view, s.team)
	if len(own) == 0 {
		return CluePlan{}, fmt.Errorf("agent: %s has no words left to clue", s.name)
	}
	count := 1
	if len(own) > 1 && s.rng.Intn(2) == 1 {
		count = 2
	}
	targets := make([]string, 0, count)
	for _, idx := range s.rng.Perm(len(own))[:count] {
		targets = append(targets, own[idx])
	}
	return CluePlan{Word: pickClueWord(s.rng, view), Targets: targets}, nil
}

// pickClueWord draws a pool word that does not collide with the board,
// degrading to a synthetic cue when every pool word is on it.
func pickClueWord(rng *rand.Rand, view engine.View) string {
	for _, idx := range rng.Perm(len(cluePool)) {
		word := cluePool[idx]
		if !boardHasWord(view, word) {
			return word
		}
	}
	return fmt.Sprintf("cue%d", rng.Intn(1000))
}

// RandomOperative guesses uniformly among unrevealed words, leans
// toward ending the turn once the clue count is satisfied, and votes
// for its own preference when it is on the ballot.
type RandomOperative struct {
	name string
	team board.Team
	rng  *rand.Rand
}

// NewRandomOperative builds a seeded baseline operative. Each instance
// must be driven from a single goroutine.
func NewRandomOperative(name string, team board.Team, seed int64) *RandomOperative {
	return &RandomOperative{name: name, team: team, rng: rand.New(rand.NewSource(seed))}
}

// Name implements Operative.
func (o *RandomOperative) Name() string { return o.name }

// GenerateGuess implements Operative.
func (o *RandomOperative) GenerateGuess(_ context.Context, view engine.View, clue ClueContext) (Proposal, error) {
	word := o.pickWord(view, clue)
	if word == EndTurnOption {
		return Proposal{
			Word:      EndTurnOption,
			Reasoning: fmt.Sprintf("We already matched %d of %d for %q; ending the turn is safest.", clue.CorrectSoFar, clue.Count, clue.Word),
		}, nil
	}
	return Proposal{
		Word:      word,
		Reasoning: fmt.Sprintf("Of the remaining words, '%s' feels closest to %q.", word, clue.Word),
	}, nil
}

// DebateContribution implements Operative. The message quotes the
// preference so the extractor can pick it up.
func (o *RandomOperative) DebateContribution(_ context.Context, transcript []TranscriptEntry, view engine.View, clue ClueContext) (string, error) {
	if word := mostRecentPreference(transcript); word != "" && word != EndTurnOption && o.rng.Intn(3) > 0 {
		return fmt.Sprintf("I agree with the case for '%s'.", word), nil
	}
	word := o.pickWord(view, clue)
	if word == EndTurnOption {
		return "I would rather end the turn than risk a miss.", nil
	}
	return fmt.Sprintf("I still lean toward '%s' for %q.", word, clue.Word), nil
}

// FinalVote implements Operative. The vote is always a member of
// options.
func (o *RandomOperative) FinalVote(_ context.Context, transcript []TranscriptEntry, options []string, view engine.View, clue ClueContext) (string, error) {
	if len(options) == 0 {
		return EndTurnOption, nil
	}
	if word := mostRecentPreference(transcript); word != "" {
		for _, option := range options {
			if strings.EqualFold(option, word) {
				return option, nil
			}
		}
	}
	return options[o.rng.Intn(len(options))], nil
}

func (o *RandomOperative) pickWord(view engine.View, clue ClueContext) string {
	unrevealed := view.UnrevealedWords()
	if len(unrevealed) == 0 || (clue.Count > 0 && clue.CorrectSoFar >= clue.Count) {
		return EndTurnOption
	}
	return unrevealed[o.rng.Intn(len(unrevealed))]
}

func ownUnrevealedWords(view engine.View, team board.Team) []string {
	var words []string
	for _, c := range view.Cards {
		if !c.Revealed && c.Kind == team.Kind() {
			words = append(words, c.Word)
		}
	}
	return words
}

func boardHasWord(view engine.View, word string) bool {
	for _, c := range view.Cards {
		if strings.EqualFold(c.Word, word) {
			return true
		}
	}
	return false
}

func mostRecentPreference(transcript []TranscriptEntry) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Preference != "" {
			return transcript[i].Preference
		}
	}
	return ""
}
