package grammar

import (
	"errors"
	"reflect"
	"testing"
)

func TestLexiconRegisterAndLookup(t *testing.T) {
	l := NewLexicon()
	words := []Word{
		{Text: "cat", Type: "noun"},
		{Text: "dog", Type: "noun"},
		{Text: "sat", Type: "verb"},
	}
	for _, w := range words {
		if err := l.Register(w); err != nil {
			t.Fatalf("Register(%+v) failed: %v", w, err)
		}
	}

	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
	if got := l.CountOfType("noun"); got != 2 {
		t.Errorf("CountOfType(noun) = %d, want 2", got)
	}
	if w, ok := l.Lookup("sat"); !ok || w.Type != "verb" {
		t.Errorf("Lookup(sat) = %+v, %v", w, ok)
	}
	if _, ok := l.Lookup("mat"); ok {
		t.Error("Lookup(mat) should not find anything")
	}
	if !reflect.DeepEqual(l.Words(), words) {
		t.Errorf("Words() = %+v, want %+v", l.Words(), words)
	}
	if !reflect.DeepEqual(l.Types(), []string{"noun", "verb"}) {
		t.Errorf("Types() = %v", l.Types())
	}
}

func TestLexiconRegisterInvalid(t *testing.T) {
	l := NewLexicon()
	for _, w := range []Word{{Text: "", Type: "noun"}, {Text: "cat", Type: ""}} {
		if err := l.Register(w); !errors.Is(err, ErrInvalidWord) {
			t.Errorf("Register(%+v) error = %v, want ErrInvalidWord", w, err)
		}
	}
	if l.Len() != 0 {
		t.Errorf("invalid words must not be registered, Len() = %d", l.Len())
	}
}

func TestLexiconDuplicateTextReplacesAndPrunes(t *testing.T) {
	l := NewLexicon()
	_ = l.Register(Word{Text: "run", Type: "verb"})
	_ = l.Register(Word{Text: "cat", Type: "noun"})
	_ = l.Register(Word{Text: "run", Type: "noun"})

	w, _ := l.Lookup("run")
	if w.Type != "noun" {
		t.Errorf("by-text index should hold the newest word, got %+v", w)
	}
	if got := l.CountOfType("verb"); got != 0 {
		t.Errorf("old type list should be pruned, CountOfType(verb) = %d", got)
	}
	if got := l.CountOfType("noun"); got != 2 {
		t.Errorf("CountOfType(noun) = %d, want 2", got)
	}
	if !reflect.DeepEqual(l.Types(), []string{"noun"}) {
		t.Errorf("Types() = %v, want [noun]", l.Types())
	}

	// The replaced word keeps its registration position.
	first, err := l.First()
	if err != nil {
		t.Fatalf("First() failed: %v", err)
	}
	if first != (Word{Text: "run", Type: "noun"}) {
		t.Errorf("First() = %+v, want run/noun", first)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestLexiconFirstEmpty(t *testing.T) {
	_, err := NewLexicon().First()
	if !errors.Is(err, ErrEmptyLexicon) {
		t.Errorf("First() on empty lexicon error = %v, want ErrEmptyLexicon", err)
	}
}

func TestLexiconRandomOfType(t *testing.T) {
	l := NewLexicon()
	_ = l.Register(Word{Text: "cat", Type: "noun"})
	_ = l.Register(Word{Text: "dog", Type: "noun"})
	_ = l.Register(Word{Text: "sat", Type: "verb"})

	r := NewSeededRand(1)
	seen := make(map[string]int)
	for i := 0; i < 200; i++ {
		w, err := l.RandomOfType(r, "noun")
		if err != nil {
			t.Fatalf("RandomOfType(noun) failed: %v", err)
		}
		if w.Type != "noun" {
			t.Fatalf("RandomOfType(noun) returned %+v", w)
		}
		seen[w.Text]++
	}
	if seen["cat"] == 0 || seen["dog"] == 0 {
		t.Errorf("every noun should be drawn at least once in 200 draws, got %v", seen)
	}

	if _, err := l.RandomOfType(r, "adjective"); !errors.Is(err, ErrNoCandidateWord) {
		t.Errorf("RandomOfType(adjective) error = %v, want ErrNoCandidateWord", err)
	}
}
