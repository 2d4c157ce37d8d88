package grammar

import "strings"

// Utterance is the text of a paragraph being generated, plus the type of the
// most recently appended word. Each word is followed by the separator, so a
// finished utterance ends with one trailing separator.
type Utterance struct {
	builder   strings.Builder
	separator string
	words     []Word
}

// NewUtterance returns an empty Utterance joining words with separator.
func NewUtterance(separator string) *Utterance {
	return &Utterance{separator: separator}
}

// IsEmpty reports whether no word has been appended yet.
func (u *Utterance) IsEmpty() bool {
	return len(u.words) == 0
}

// Append writes the word's text and one separator.
func (u *Utterance) Append(w Word) {
	u.builder.WriteString(w.Text)
	u.builder.WriteString(u.separator)
	u.words = append(u.words, w)
}

// LastType returns the type of the last appended word, and false while the
// utterance is empty.
func (u *Utterance) LastType() (string, bool) {
	if len(u.words) == 0 {
		return "", false
	}
	return u.words[len(u.words)-1].Type, true
}

// Len returns the number of appended words.
func (u *Utterance) Len() int {
	return len(u.words)
}

// Words returns the appended words in order.
func (u *Utterance) Words() []Word {
	return u.words
}

// String returns the accumulated text, including the trailing separator.
func (u *Utterance) String() string {
	return u.builder.String()
}

// Trimmed returns the accumulated text without the trailing separator.
func (u *Utterance) Trimmed() string {
	return strings.TrimSuffix(u.builder.String(), u.separator)
}
