// Package wordlist supplies the word corpus boards are dealt from:
// the embedded standard list, or a caller-provided file.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed words.txt
var embedded string

// Default returns the embedded standard corpus.
func Default() []string {
	return parse(embedded)
}

// Load reads a corpus file: one word per line, blank lines and
// #-comments skipped, duplicates (case-insensitive) dropped.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wordlist: read %s: %w", path, err)
	}
	words := parse(string(data))
	if len(words) == 0 {
		return nil, fmt.Errorf("wordlist: %s contains no words", path)
	}
	return words, nil
}

func parse(text string) []string {
	seen := map[string]struct{}{}
	var words []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		key := strings.ToLower(word)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		words = append(words, word)
	}
	return words
}
