package grammar

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Word is a single vocabulary entry: its surface text and the word type used
// by the follower table. A word has no identity beyond its text.
type Word struct {
	Text string `json:"text" yaml:"text"`
	Type string `json:"type" yaml:"type"`
}

// Lexicon indexes words both by text and by type. It is populated before
// generation and only read while a paragraph is being generated.
//
// Registering a word whose text is already known replaces the old word in
// place: the registration position is kept and the old word is removed from
// the list of its former type, so both indexes always agree.
type Lexicon struct {
	byText map[string]Word
	byType map[string][]Word
	order  []string
}

// NewLexicon returns an empty Lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		byText: make(map[string]Word),
		byType: make(map[string][]Word),
	}
}

// Register adds a word, or replaces the word previously registered with the
// same text. An empty text or type is rejected with ErrInvalidWord.
func (l *Lexicon) Register(w Word) error {
	if w.Text == "" || w.Type == "" {
		return fmt.Errorf("%w: text %q and type %q must both be non-empty", ErrInvalidWord, w.Text, w.Type)
	}

	if old, ok := l.byText[w.Text]; ok {
		l.removeFromType(old)
	} else {
		l.order = append(l.order, w.Text)
	}

	l.byText[w.Text] = w
	l.byType[w.Type] = append(l.byType[w.Type], w)
	return nil
}

func (l *Lexicon) removeFromType(w Word) {
	words := l.byType[w.Type]
	i := slices.IndexFunc(words, func(c Word) bool { return c.Text == w.Text })
	if i < 0 {
		return
	}
	words = slices.Delete(words, i, i+1)
	if len(words) == 0 {
		delete(l.byType, w.Type)
		return
	}
	l.byType[w.Type] = words
}

// First returns the earliest registered word. It seeds every paragraph.
func (l *Lexicon) First() (Word, error) {
	if len(l.order) == 0 {
		return Word{}, ErrEmptyLexicon
	}
	return l.byText[l.order[0]], nil
}

// RandomOfType draws one word of the given type uniformly using r.
func (l *Lexicon) RandomOfType(r *rand.Rand, wordType string) (Word, error) {
	words := l.byType[wordType]
	if len(words) == 0 {
		return Word{}, fmt.Errorf("%w: %q", ErrNoCandidateWord, wordType)
	}
	return words[r.IntN(len(words))], nil
}

// Lookup returns the word registered under text.
func (l *Lexicon) Lookup(text string) (Word, bool) {
	w, ok := l.byText[text]
	return w, ok
}

// Len returns the number of distinct words.
func (l *Lexicon) Len() int {
	return len(l.order)
}

// CountOfType returns how many words are registered under wordType.
func (l *Lexicon) CountOfType(wordType string) int {
	return len(l.byType[wordType])
}

// Words returns all words in registration order.
func (l *Lexicon) Words() []Word {
	words := make([]Word, 0, len(l.order))
	for _, text := range l.order {
		words = append(words, l.byText[text])
	}
	return words
}

// Types returns the sorted set of word types that have at least one word.
func (l *Lexicon) Types() []string {
	types := make([]string, 0, len(l.byType))
	for t := range l.byType {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
