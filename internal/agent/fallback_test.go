package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/parley/internal/board"
	"github.com/kingrea/parley/internal/engine"
)

type failingOperative struct{ name string }

func (f *failingOperative) Name() string { return f.name }

func (f *failingOperative) GenerateGuess(context.Context, engine.View, ClueContext) (Proposal, error) {
	return Proposal{}, errors.New("model unreachable")
}

func (f *failingOperative) DebateContribution(context.Context, []TranscriptEntry, engine.View, ClueContext) (string, error) {
	return "", errors.New("model unreachable")
}

func (f *failingOperative) FinalVote(context.Context, []TranscriptEntry, []string, engine.View, ClueContext) (string, error) {
	return "", errors.New("model unreachable")
}

type failingSpymaster struct{}

func (failingSpymaster) Name() string { return "down" }

func (failingSpymaster) GenerateClue(context.Context, engine.View) (CluePlan, error) {
	return CluePlan{}, errors.New("model unreachable")
}

type hangingSpymaster struct{}

func (hangingSpymaster) Name() string { return "stuck" }

func (hangingSpymaster) GenerateClue(ctx context.Context, _ engine.View) (CluePlan, error) {
	// Ignores cancellation on purpose.
	time.Sleep(5 * time.Second)
	return CluePlan{Word: "late"}, nil
}

func operativeTestView() engine.View {
	return engine.View{
		Cards: []board.CardView{
			{Word: "sun"}, {Word: "moon"}, {Word: "tree"},
		},
		CurrentTeam: board.TeamRed,
	}
}

func spymasterTestView() engine.View {
	return engine.View{
		Cards: []board.CardView{
			{Word: "sun", Kind: board.KindRed},
			{Word: "moon", Kind: board.KindBlue},
			{Word: "tree", Kind: board.KindNeutral},
		},
		CurrentTeam: board.TeamRed,
	}
}

func TestSafeOperativeSubstitutesOnError(t *testing.T) {
	safe := NewSafeOperative(&failingOperative{name: "op"}, time.Second, 7, nil)
	view := operativeTestView()

	proposal, err := safe.GenerateGuess(context.Background(), view, ClueContext{Word: "sky", Count: 1})
	if err != nil {
		t.Fatalf("generate guess: %v", err)
	}
	if proposal.Word != EndTurnOption && !containsWordFold(view.UnrevealedWords(), proposal.Word) {
		t.Fatalf("fallback word %q is not safe play", proposal.Word)
	}

	message, err := safe.DebateContribution(context.Background(), nil, view, ClueContext{})
	if err != nil || message == "" {
		t.Fatalf("debate contribution = %q, err = %v", message, err)
	}

	options := []string{"end", "sun"}
	vote, err := safe.FinalVote(context.Background(), nil, options, view, ClueContext{})
	if err != nil {
		t.Fatalf("final vote: %v", err)
	}
	if _, ok := MatchVote(vote, options); !ok {
		t.Fatalf("fallback vote %q not on the ballot", vote)
	}
}

func TestSafeOperativeKeepsValidVotes(t *testing.T) {
	inner := NewRandomOperative("op", board.TeamRed, 3)
	safe := NewSafeOperative(inner, time.Second, 3, nil)
	options := []string{"end", "sun", "moon"}
	vote, err := safe.FinalVote(context.Background(), nil, options, operativeTestView(), ClueContext{})
	if err != nil {
		t.Fatalf("final vote: %v", err)
	}
	if _, ok := MatchVote(vote, options); !ok {
		t.Fatalf("vote %q not on the ballot", vote)
	}
}

func TestSafeSpymasterTimesOutHangingCall(t *testing.T) {
	safe := NewSafeSpymaster(hangingSpymaster{}, board.TeamRed, 20*time.Millisecond, 11, nil)

	start := time.Now()
	plan, err := safe.GenerateClue(context.Background(), spymasterTestView())
	if err != nil {
		t.Fatalf("generate clue: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("fallback took %v, hung call was not abandoned", elapsed)
	}
	if len(plan.Targets) != 1 || plan.Targets[0] != "sun" {
		t.Fatalf("fallback plan = %+v, want the team's own word targeted", plan)
	}
	if plan.Word == "" || boardHasWord(spymasterTestView(), plan.Word) {
		t.Fatalf("fallback clue word %q invalid", plan.Word)
	}
}

// A custom word list can put every pool word on the board; the clue
// pick must still terminate with a synthetic cue.
func TestSafeSpymasterClueWhenPoolIsOnTheBoard(t *testing.T) {
	cards := []board.CardView{{Word: "sun", Kind: board.KindRed}}
	for _, word := range cluePool {
		cards = append(cards, board.CardView{Word: word, Kind: board.KindNeutral})
	}
	view := engine.View{Cards: cards, CurrentTeam: board.TeamRed}

	safe := NewSafeSpymaster(failingSpymaster{}, board.TeamRed, time.Second, 23, nil)
	plan, err := safe.GenerateClue(context.Background(), view)
	if err != nil {
		t.Fatalf("generate clue: %v", err)
	}
	if len(plan.Targets) != 1 || plan.Targets[0] != "sun" {
		t.Fatalf("fallback plan = %+v, want the team's own word targeted", plan)
	}
	if !strings.HasPrefix(plan.Word, "cue") || boardHasWord(view, plan.Word) {
		t.Fatalf("fallback clue %q, want an off-board synthetic cue", plan.Word)
	}
}

func TestRandomOperativeEndsWhenClueSatisfied(t *testing.T) {
	op := NewRandomOperative("op", board.TeamRed, 1)
	proposal, err := op.GenerateGuess(context.Background(), operativeTestView(), ClueContext{Word: "sky", Count: 1, CorrectSoFar: 1})
	if err != nil {
		t.Fatalf("generate guess: %v", err)
	}
	if proposal.Word != EndTurnOption {
		t.Fatalf("proposal = %+v, want end", proposal)
	}
}

func TestRandomSpymasterCluesOwnWords(t *testing.T) {
	spy := NewRandomSpymaster("spy", board.TeamRed, 4)
	plan, err := spy.GenerateClue(context.Background(), spymasterTestView())
	if err != nil {
		t.Fatalf("generate clue: %v", err)
	}
	if len(plan.Targets) != 1 || plan.Targets[0] != "sun" {
		t.Fatalf("plan targets = %v, want only the red word", plan.Targets)
	}
	if boardHasWord(spymasterTestView(), plan.Word) {
		t.Fatalf("clue word %q collides with the board", plan.Word)
	}
}
