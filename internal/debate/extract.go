package debate

import (
	"regexp"
	"strings"

	"github.com/kingrea/parley/internal/agent"
)

var (
	endPhrases = []string{
		"end turn", "end the turn", "ending the turn", "ending our turn",
	}
	quotedPattern = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)
)

// ExtractPreference derives a word choice from a free-form debate
// message, best effort. Priority order: an explicit end-turn phrase, a
// quoted unrevealed board word, then the first unrevealed board word
// mentioned as a standalone term. An empty result means the message is
// discussion only.
func ExtractPreference(message string, unrevealed []string) string {
	lowered := strings.ToLower(message)

	for _, phrase := range endPhrases {
		if strings.Contains(lowered, phrase) {
			return agent.EndTurnOption
		}
	}

	for _, match := range quotedPattern.FindAllStringSubmatch(message, -1) {
		for _, quoted := range match[1:] {
			if word, ok := canonicalWord(quoted, unrevealed); ok {
				return word
			}
		}
	}

	for _, word := range unrevealed {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		if pattern.MatchString(message) {
			return word
		}
	}
	return ""
}

// canonicalWord maps free text onto the board's casing of an
// unrevealed word, or onto the end sentinel.
func canonicalWord(candidate string, unrevealed []string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}
	if strings.EqualFold(candidate, agent.EndTurnOption) {
		return agent.EndTurnOption, true
	}
	for _, word := range unrevealed {
		if strings.EqualFold(word, candidate) {
			return word, true
		}
	}
	return "", false
}
