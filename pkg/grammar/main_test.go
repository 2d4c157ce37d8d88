package grammar

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// catSatGrammar has exactly one legal successor type and one word per type,
// so every walk is forced to alternate.
func catSatGrammar() Grammar {
	return Grammar{
		Followers: FollowerTable{
			"noun": {"verb"},
			"verb": {"noun"},
		},
		Vocabulary: []Word{
			{Text: "cat", Type: "noun"},
			{Text: "sat", Type: "verb"},
		},
	}
}

// loadMicrophoneGrammar loads the larger sample grammar from testdata.
func loadMicrophoneGrammar(tb testing.TB) Grammar {
	tb.Helper()
	g, err := LoadFile(filepath.Join("testdata", "microphone.yaml"))
	if err != nil {
		tb.Fatalf("setup: LoadFile() failed: %v", err)
	}
	return g
}

// setupGenerator builds a Generator, failing the test on error.
func setupGenerator(tb testing.TB, g Grammar) *Generator {
	tb.Helper()
	gen, err := NewGenerator(g)
	if err != nil {
		tb.Fatalf("setup: NewGenerator() failed: %v", err)
	}
	return gen
}

// splitWords splits a rendered paragraph back into word texts.
func splitWords(paragraph string) []string {
	return strings.Fields(paragraph)
}

// checkWalk asserts type legality and vocabulary closure for a word sequence.
func checkWalk(t *testing.T, g Grammar, words []Word) {
	t.Helper()
	for i, w := range words {
		if !slices.Contains(g.Vocabulary, w) {
			t.Errorf("word %d %+v is not in the vocabulary", i, w)
		}
		if i == 0 {
			continue
		}
		prev := words[i-1]
		if !slices.Contains(g.Followers[prev.Type], w.Type) {
			t.Errorf("word %d: type %q may not follow %q", i, w.Type, prev.Type)
		}
	}
}
