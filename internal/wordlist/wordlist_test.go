package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCorpusIsLargeEnough(t *testing.T) {
	words := Default()
	if len(words) < 25 {
		t.Fatalf("default corpus has %d words, need at least 25", len(words))
	}
	seen := map[string]struct{}{}
	for _, w := range words {
		key := strings.ToLower(w)
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate word %q in default corpus", w)
		}
		seen[key] = struct{}{}
		if strings.ContainsAny(w, " \t") {
			t.Fatalf("word %q is not a single token", w)
		}
	}
}

func TestLoadSkipsCommentsAndDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# corpus\nsun\nmoon\n\nSUN\ntree\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	words, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("words = %v, want 3 entries", words)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
