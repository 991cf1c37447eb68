package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kingrea/parley/internal/agent"
	"github.com/kingrea/parley/internal/board"
	"github.com/kingrea/parley/internal/engine"
)

// scriptedCompleter plays back canned completions and records prompts.
type scriptedCompleter struct {
	responses []string
	calls     int
	prompts   []string
	err       error
}

func (s *scriptedCompleter) complete(_ context.Context, _, user string) (string, error) {
	s.prompts = append(s.prompts, user)
	if s.err != nil {
		return "", s.err
	}
	if s.calls >= len(s.responses) {
		return "", fmt.Errorf("scripted completer exhausted after %d calls", s.calls)
	}
	response := s.responses[s.calls]
	s.calls++
	return response, nil
}

func spymasterView() engine.View {
	return engine.View{
		CurrentTeam: board.TeamRed,
		Cards: []board.CardView{
			{Word: "sun", Kind: board.KindRed},
			{Word: "moon", Kind: board.KindRed},
			{Word: "river", Kind: board.KindBlue},
			{Word: "chair", Kind: board.KindNeutral},
			{Word: "viper", Kind: board.KindAssassin},
			{Word: "cloud", Kind: board.KindRed, Revealed: true},
		},
	}
}

func operativeView() engine.View {
	return engine.View{
		CurrentTeam: board.TeamRed,
		Cards: []board.CardView{
			{Word: "sun"},
			{Word: "moon"},
			{Word: "river"},
			{Word: "cloud", Kind: board.KindRed, Revealed: true},
		},
	}
}

func TestSpymasterParsesClue(t *testing.T) {
	script := &scriptedCompleter{responses: []string{
		"CLUE: sky\nNUMBER: 2\nTARGETS: sun, moon",
	}}
	spy := &Spymaster{name: "red-spy", team: board.TeamRed, model: script}

	plan, err := spy.GenerateClue(context.Background(), spymasterView())
	if err != nil {
		t.Fatalf("generate clue: %v", err)
	}
	if plan.Word != "sky" {
		t.Fatalf("clue word = %q", plan.Word)
	}
	if len(plan.Targets) != 2 || plan.Targets[0] != "sun" || plan.Targets[1] != "moon" {
		t.Fatalf("targets = %v", plan.Targets)
	}

	prompt := script.prompts[0]
	if !strings.Contains(prompt, "sun, moon") {
		t.Fatalf("prompt missing team words:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Assassin word (must avoid at all costs): viper") {
		t.Fatalf("prompt missing assassin:\n%s", prompt)
	}
	if strings.Contains(prompt, "cloud") {
		t.Fatalf("revealed word leaked into clue prompt:\n%s", prompt)
	}
}

func TestSpymasterSurfacesParseFailures(t *testing.T) {
	script := &scriptedCompleter{responses: []string{"I have no idea what to do."}}
	spy := &Spymaster{name: "red-spy", team: board.TeamRed, model: script}

	_, err := spy.GenerateClue(context.Background(), spymasterView())
	var parseErr *agent.ParseError
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want ParseError", err)
	}
}

func TestOperativeParsesGuess(t *testing.T) {
	script := &scriptedCompleter{responses: []string{
		"REASONING: sky clearly points at sun.\nDECISION: sun",
	}}
	op := &Operative{name: "red-op", team: board.TeamRed, model: script}

	clue := agent.ClueContext{Word: "sky", Count: 2, PreviousGuesses: []engine.GuessRecord{
		{Team: board.TeamRed, Word: "cloud", Kind: board.KindRed, Correct: true},
	}}
	proposal, err := op.GenerateGuess(context.Background(), operativeView(), clue)
	if err != nil {
		t.Fatalf("generate guess: %v", err)
	}
	if proposal.Word != "sun" {
		t.Fatalf("decision = %q", proposal.Word)
	}
	if !strings.Contains(proposal.Reasoning, "points at sun") {
		t.Fatalf("reasoning = %q", proposal.Reasoning)
	}
	if !strings.Contains(script.prompts[0], "Previous guesses for this clue:") {
		t.Fatalf("prompt missing guess history:\n%s", script.prompts[0])
	}
}

func TestOperativeVoteSnapsToOption(t *testing.T) {
	script := &scriptedCompleter{responses: []string{
		"After the discussion I am confident: I vote for SUN.",
	}}
	op := &Operative{name: "red-op", team: board.TeamRed, model: script}

	vote, err := op.FinalVote(context.Background(), nil, []string{"end", "moon", "sun"}, operativeView(), agent.ClueContext{Word: "sky", Count: 2})
	if err != nil {
		t.Fatalf("final vote: %v", err)
	}
	if vote != "sun" {
		t.Fatalf("vote = %q", vote)
	}
}

func TestOperativePropagatesModelErrors(t *testing.T) {
	script := &scriptedCompleter{err: fmt.Errorf("rate limited")}
	op := &Operative{name: "red-op", team: board.TeamRed, model: script}

	if _, err := op.GenerateGuess(context.Background(), operativeView(), agent.ClueContext{Word: "sky"}); err == nil {
		t.Fatal("expected model error")
	}
	if _, err := op.DebateContribution(context.Background(), nil, operativeView(), agent.ClueContext{Word: "sky"}); err == nil {
		t.Fatal("expected model error")
	}
}

func TestNewAgentsValidateConfig(t *testing.T) {
	if _, err := NewSpymaster("spy", board.TeamRed, Config{Model: "gpt-4o"}); err == nil {
		t.Fatal("expected missing api key error")
	}
	if _, err := NewOperative("op", board.TeamRed, Config{APIKey: "k"}); err == nil {
		t.Fatal("expected missing model error")
	}
}
