package agent

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ParseError reports model output the adapter could not turn into a
// usable decision. Callers fall back to safe play instead of letting
// raw text reach the engine.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("agent: parse failure: %s", e.Reason)
}

var (
	clueLinePattern   = regexp.MustCompile(`(?i)CLUE:\s*([\w\-]+)`)
	numberLinePattern = regexp.MustCompile(`(?i)NUMBER:\s*(\d+)`)
	targetLinePattern = regexp.MustCompile(`(?i)TARGETS:\s*(.*)`)
	reasoningPattern  = regexp.MustCompile(`(?is)REASONING:\s*(.*?)(?:DECISION:|$)`)
	decisionPattern   = regexp.MustCompile(`(?i)DECISION:\s*(.*)`)
)

// ParsedClue is the validated form of a spymaster response. Count is
// reconciled with the target list, so the two can never disagree.
type ParsedClue struct {
	Word    string
	Count   int
	Targets []string
}

// ParseClueResponse extracts CLUE/NUMBER/TARGETS from model output.
// Targets are matched case-insensitively against the team's own words
// and returned in board casing. When the model names a number but no
// recognizable targets, targets are inferred by lexical similarity to
// the clue word, mirroring how a human would read an underspecified
// clue.
func ParseClueResponse(raw string, teamWords []string) (ParsedClue, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ParsedClue{}, &ParseError{Raw: raw, Reason: "empty spymaster response"}
	}

	parsed := ParsedClue{}
	if m := clueLinePattern.FindStringSubmatch(trimmed); m != nil {
		parsed.Word = strings.TrimSpace(m[1])
	} else {
		// Degraded output: take the first token as the clue word.
		parsed.Word = strings.Fields(trimmed)[0]
	}

	number := 0
	if m := numberLinePattern.FindStringSubmatch(trimmed); m != nil {
		number, _ = strconv.Atoi(m[1])
	}
	if m := targetLinePattern.FindStringSubmatch(trimmed); m != nil {
		for _, rawTarget := range strings.Split(m[1], ",") {
			target := strings.TrimSpace(rawTarget)
			if target == "" {
				continue
			}
			if word, ok := matchWord(target, teamWords); ok {
				parsed.Targets = append(parsed.Targets, word)
			}
		}
	}

	switch {
	case len(parsed.Targets) > 0:
		parsed.Count = len(parsed.Targets)
	case number > 0:
		parsed.Targets = inferTargets(parsed.Word, teamWords, number)
		parsed.Count = len(parsed.Targets)
	}
	if parsed.Count == 0 {
		return ParsedClue{}, &ParseError{Raw: raw, Reason: "no targets named or inferable"}
	}
	return parsed, nil
}

// ParsedGuess is the validated form of an operative response. Decision
// is an unrevealed board word or the EndTurnOption sentinel.
type ParsedGuess struct {
	Reasoning string
	Decision  string
}

// ParseGuessResponse extracts REASONING/DECISION from model output and
// validates the decision against the unrevealed words. A missing
// DECISION line degrades to scanning the closing lines and then the
// reasoning for a board word.
func ParseGuessResponse(raw string, unrevealed []string) (ParsedGuess, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ParsedGuess{}, &ParseError{Raw: raw, Reason: "empty operative response"}
	}

	parsed := ParsedGuess{Reasoning: trimmed}
	if m := reasoningPattern.FindStringSubmatch(trimmed); m != nil && strings.TrimSpace(m[1]) != "" {
		parsed.Reasoning = strings.TrimSpace(m[1])
	}

	decision := ""
	if m := decisionPattern.FindStringSubmatch(trimmed); m != nil {
		decision = strings.ToLower(strings.TrimSpace(m[1]))
	}
	if decision == "" {
		decision = scanForDecision(trimmed, unrevealed)
	}
	if decision == "" {
		return ParsedGuess{}, &ParseError{Raw: raw, Reason: "no decision found"}
	}
	if strings.Contains(decision, EndTurnOption) && !containsWordFold(unrevealed, decision) {
		parsed.Decision = EndTurnOption
		return parsed, nil
	}
	word, ok := matchWord(decision, unrevealed)
	if !ok {
		return ParsedGuess{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("decision %q is not an unrevealed word", decision)}
	}
	parsed.Decision = word
	return parsed, nil
}

// MatchVote resolves free-form vote text to one of the declared
// options: exact match first, then the first option mentioned anywhere
// in the text.
func MatchVote(raw string, options []string) (string, bool) {
	vote := strings.ToLower(strings.TrimSpace(raw))
	if vote == "" {
		return "", false
	}
	for _, option := range options {
		if strings.EqualFold(option, vote) {
			return option, true
		}
	}
	for _, option := range options {
		if strings.Contains(vote, strings.ToLower(option)) {
			return option, true
		}
	}
	return "", false
}

func scanForDecision(text string, unrevealed []string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0 && i >= len(lines)-3; i-- {
		line := strings.ToLower(lines[i])
		if strings.Contains(line, EndTurnOption) {
			return EndTurnOption
		}
		for _, word := range unrevealed {
			if strings.Contains(line, strings.ToLower(word)) {
				return word
			}
		}
	}
	lowered := strings.ToLower(text)
	for _, word := range unrevealed {
		if strings.Contains(lowered, strings.ToLower(word)) {
			return word
		}
	}
	return ""
}

func matchWord(candidate string, words []string) (string, bool) {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	for _, word := range words {
		if strings.EqualFold(word, candidate) {
			return word, true
		}
	}
	for _, word := range words {
		lowered := strings.ToLower(word)
		if strings.Contains(candidate, lowered) || strings.Contains(lowered, candidate) {
			return word, true
		}
	}
	return "", false
}

func containsWordFold(words []string, candidate string) bool {
	for _, word := range words {
		if strings.EqualFold(word, candidate) {
			return true
		}
	}
	return false
}

// inferTargets ranks the team's words by lexical similarity to the
// clue word and keeps the top n.
func inferTargets(clueWord string, teamWords []string, n int) []string {
	type scored struct {
		word  string
		score float64
	}
	ranked := make([]scored, 0, len(teamWords))
	for _, word := range teamWords {
		ranked = append(ranked, scored{word: word, score: wordSimilarity(clueWord, word)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if n > len(ranked) {
		n = len(ranked)
	}
	targets := make([]string, 0, n)
	for _, s := range ranked[:n] {
		targets = append(targets, s.word)
	}
	return targets
}

func wordSimilarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}
	runes := func(s string) map[rune]struct{} {
		set := make(map[rune]struct{}, len(s))
		for _, r := range s {
			set[r] = struct{}{}
		}
		return set
	}
	setA, setB := runes(a), runes(b)
	shared := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			shared++
		}
	}
	total := len(setB)
	for r := range setA {
		if _, ok := setB[r]; !ok {
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(shared) / float64(total)
}
