// Package debate turns a team's independent, noisy operative proposals
// into exactly one action: a board word to guess or the end-turn
// sentinel. It runs bounded rounds of proposal, discussion and voting
// over a shared transcript and always terminates with a decision. The
// manager never calls the game engine; the caller applies the decision.
package debate

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/kingrea/parley/internal/agent"
	"github.com/kingrea/parley/internal/engine"
)

// Result is the outcome of one debate.
type Result struct {
	// FinalDecision is always a member of Options.
	FinalDecision string
	// Options is the ballot: every extracted preference plus the end
	// sentinel, sorted.
	Options []string
	// VoteCounts tallies the final votes per option.
	VoteCounts map[string]int
	// Transcript is the full debate log in speaking order.
	Transcript []agent.TranscriptEntry
	// Reasoning quotes up to the first two transcript entries whose
	// preference matches the decision.
	Reasoning []string
}

// Manager runs debates. The tie-break draws from a manager-local
// seeded source, so tied votes resolve reproducibly under a fixed
// seed; this is the protocol's one deliberate point of randomness.
type Manager struct {
	rounds int
	rng    *rand.Rand
}

// NewManager builds a manager running the given number of rounds
// (minimum 1: proposals only) with a seeded tie-break source.
func NewManager(rounds int, seed int64) *Manager {
	if rounds < 1 {
		rounds = 1
	}
	return &Manager{rounds: rounds, rng: rand.New(rand.NewSource(seed))}
}

// Rounds returns the configured round count.
func (m *Manager) Rounds() int { return m.rounds }

// Run executes the debate protocol: round 1 collects independent
// proposals (concurrently, since they share no state), rounds 2..R
// visit agents in roster order over the growing transcript, and a
// final vote constrained to the extracted options resolves the action.
// Run never fails; agent errors degrade to missing preferences and
// unmatched votes count for the end sentinel.
func (m *Manager) Run(ctx context.Context, operatives []agent.Operative, view engine.View, clue agent.ClueContext) Result {
	unrevealed := view.UnrevealedWords()
	transcript := m.proposalRound(ctx, operatives, view, clue, unrevealed)

	for round := 2; round <= m.rounds; round++ {
		for _, op := range operatives {
			message, err := op.DebateContribution(ctx, cloneTranscript(transcript), view, clue)
			if err != nil {
				message = "(no contribution)"
			}
			transcript = append(transcript, agent.TranscriptEntry{
				Round:      round,
				Agent:      op.Name(),
				Message:    message,
				Preference: ExtractPreference(message, unrevealed),
			})
		}
	}

	options := ballotOptions(transcript)
	counts := m.collectVotes(ctx, operatives, transcript, options, view, clue)
	decision := m.resolve(counts)

	return Result{
		FinalDecision: decision,
		Options:       options,
		VoteCounts:    counts,
		Transcript:    transcript,
		Reasoning:     reasoningExcerpt(transcript, decision),
	}
}

// proposalRound fans the independent proposals out concurrently and
// appends them in roster order so the transcript stays deterministic.
func (m *Manager) proposalRound(ctx context.Context, operatives []agent.Operative, view engine.View, clue agent.ClueContext, unrevealed []string) []agent.TranscriptEntry {
	proposals := make([]agent.Proposal, len(operatives))
	failed := make([]bool, len(operatives))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, op := range operatives {
		i, op := i, op
		g.Go(func() error {
			proposal, err := op.GenerateGuess(gctx, view, clue)
			if err != nil {
				failed[i] = true
				return nil
			}
			proposals[i] = proposal
			return nil
		})
	}
	_ = g.Wait()

	transcript := make([]agent.TranscriptEntry, 0, len(operatives)*m.rounds)
	for i, op := range operatives {
		entry := agent.TranscriptEntry{Round: 1, Agent: op.Name()}
		if failed[i] {
			entry.Message = "(no proposal)"
		} else {
			word, ok := canonicalWord(proposals[i].Word, unrevealed)
			if ok {
				entry.Preference = word
			}
			entry.Message = fmt.Sprintf("I suggest we guess '%s'. My reasoning: %s", proposals[i].Word, proposals[i].Reasoning)
		}
		transcript = append(transcript, entry)
	}
	return transcript
}

func (m *Manager) collectVotes(ctx context.Context, operatives []agent.Operative, transcript []agent.TranscriptEntry, options []string, view engine.View, clue agent.ClueContext) map[string]int {
	counts := make(map[string]int, len(options))
	for _, op := range operatives {
		raw, err := op.FinalVote(ctx, cloneTranscript(transcript), append([]string{}, options...), view, clue)
		vote := agent.EndTurnOption
		if err == nil {
			if matched, ok := agent.MatchVote(raw, options); ok {
				vote = matched
			}
		}
		counts[vote]++
	}
	return counts
}

// resolve picks the option with the most votes, breaking ties
// uniformly at random from the manager's seeded source.
func (m *Manager) resolve(counts map[string]int) string {
	best := -1
	var tied []string
	options := make([]string, 0, len(counts))
	for option := range counts {
		options = append(options, option)
	}
	sort.Strings(options)
	for _, option := range options {
		switch {
		case counts[option] > best:
			best = counts[option]
			tied = []string{option}
		case counts[option] == best:
			tied = append(tied, option)
		}
	}
	if len(tied) == 0 {
		return agent.EndTurnOption
	}
	return tied[m.rng.Intn(len(tied))]
}

// ballotOptions collects every distinct extracted preference and
// guarantees the end sentinel is on the ballot, so the option set is
// never empty.
func ballotOptions(transcript []agent.TranscriptEntry) []string {
	seen := map[string]struct{}{agent.EndTurnOption: {}}
	for _, entry := range transcript {
		if entry.Preference != "" {
			seen[entry.Preference] = struct{}{}
		}
	}
	options := make([]string, 0, len(seen))
	for option := range seen {
		options = append(options, option)
	}
	sort.Strings(options)
	return options
}

func reasoningExcerpt(transcript []agent.TranscriptEntry, decision string) []string {
	var excerpt []string
	for _, entry := range transcript {
		if entry.Preference == decision {
			excerpt = append(excerpt, fmt.Sprintf("%s: %s", entry.Agent, entry.Message))
			if len(excerpt) == 2 {
				break
			}
		}
	}
	if len(excerpt) == 0 {
		excerpt = []string{"no specific reasoning recorded"}
	}
	return excerpt
}

func cloneTranscript(transcript []agent.TranscriptEntry) []agent.TranscriptEntry {
	return append([]agent.TranscriptEntry{}, transcript...)
}
