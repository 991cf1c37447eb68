package agent

import (
	"errors"
	"testing"
)

func TestParseClueResponseWellFormed(t *testing.T) {
	raw := "CLUE: celestial\nNUMBER: 2\nTARGETS: Sun, Moon\n"
	parsed, err := ParseClueResponse(raw, []string{"Sun", "Moon", "Tree"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Word != "celestial" || parsed.Count != 2 {
		t.Fatalf("parsed = %+v", parsed)
	}
	if len(parsed.Targets) != 2 || parsed.Targets[0] != "Sun" || parsed.Targets[1] != "Moon" {
		t.Fatalf("targets = %v", parsed.Targets)
	}
}

func TestParseClueResponseReconcilesCount(t *testing.T) {
	// The stated number disagrees with the target list; the list wins.
	raw := "CLUE: celestial\nNUMBER: 3\nTARGETS: sun"
	parsed, err := ParseClueResponse(raw, []string{"sun", "moon"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Count != 1 || len(parsed.Targets) != 1 {
		t.Fatalf("parsed = %+v, want count reconciled to 1", parsed)
	}
}

func TestParseClueResponseInfersTargetsFromNumber(t *testing.T) {
	raw := "CLUE: sunny\nNUMBER: 1"
	parsed, err := ParseClueResponse(raw, []string{"sun", "brick"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Count != 1 || parsed.Targets[0] != "sun" {
		t.Fatalf("parsed = %+v, want inferred target sun", parsed)
	}
}

func TestParseClueResponseFailures(t *testing.T) {
	var parseErr *ParseError
	if _, err := ParseClueResponse("   ", nil); !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError for empty response", err)
	}
	// A bare word with no number and no targets is unusable.
	if _, err := ParseClueResponse("celestial", []string{"sun"}); !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError without targets", err)
	}
}

func TestParseGuessResponseWellFormed(t *testing.T) {
	raw := "REASONING: the clue is about the sky.\nDECISION: Sun"
	parsed, err := ParseGuessResponse(raw, []string{"Sun", "Moon"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Decision != "Sun" {
		t.Fatalf("decision = %q, want Sun", parsed.Decision)
	}
	if parsed.Reasoning != "the clue is about the sky." {
		t.Fatalf("reasoning = %q", parsed.Reasoning)
	}
}

func TestParseGuessResponseEndTurn(t *testing.T) {
	parsed, err := ParseGuessResponse("REASONING: too risky.\nDECISION: END", []string{"sun"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Decision != EndTurnOption {
		t.Fatalf("decision = %q, want end", parsed.Decision)
	}
}

func TestParseGuessResponseDegradedOutput(t *testing.T) {
	// No DECISION marker; the closing lines carry the pick.
	parsed, err := ParseGuessResponse("Thinking about the sky.\nLet's try moon.", []string{"sun", "moon"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Decision != "moon" {
		t.Fatalf("decision = %q, want moon", parsed.Decision)
	}

	var parseErr *ParseError
	if _, err := ParseGuessResponse("DECISION: pluto", []string{"sun"}); !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError for off-board decision", err)
	}
}

func TestMatchVote(t *testing.T) {
	options := []string{"end", "sun", "moon"}
	if vote, ok := MatchVote("SUN", options); !ok || vote != "sun" {
		t.Fatalf("vote = %q ok=%v, want sun", vote, ok)
	}
	if vote, ok := MatchVote("I vote for moon today", options); !ok || vote != "moon" {
		t.Fatalf("vote = %q ok=%v, want moon", vote, ok)
	}
	if _, ok := MatchVote("abstain", options); ok {
		t.Fatal("unexpected match for abstain")
	}
}
