package grammar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyLexicon is returned when a paragraph needs its first word but no
	// words were registered.
	ErrEmptyLexicon = errors.New("lexicon is empty")
	// ErrUnknownType is returned when the follower table has no entry for the
	// type of the current word.
	ErrUnknownType = errors.New("word type not found in follower table")
	// ErrNoCandidateWord is returned when a word type was drawn but no words
	// are registered under it.
	ErrNoCandidateWord = errors.New("no words of this type")
	// ErrEmptyCandidateList is returned when a follower table entry exists but
	// lists no successor types.
	ErrEmptyCandidateList = errors.New("follower list is empty")
	// ErrInvalidWord is returned when registering a word with empty text or type.
	ErrInvalidWord = errors.New("invalid word")
	// ErrInvalidLength is returned for a negative paragraph length.
	ErrInvalidLength = errors.New("invalid length")
	// ErrInvalidGrammar is matched by every *ConfigError.
	ErrInvalidGrammar = errors.New("invalid grammar")
)

// IssueKind classifies a single configuration problem found by Validate.
type IssueKind string

const (
	IssueEmptyLexicon     IssueKind = "empty_lexicon"
	IssueEmptyFollowers   IssueKind = "empty_followers"
	IssueFollowerNoWords  IssueKind = "follower_without_words"
	IssueTypeWithoutEntry IssueKind = "type_without_entry"
)

// Issue is one problem found while cross-checking a follower table against a lexicon.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Type   string    `json:"type,omitempty"`
	Detail string    `json:"detail"`
}

func (i Issue) String() string {
	if i.Type == "" {
		return i.Detail
	}
	return fmt.Sprintf("type %q: %s", i.Type, i.Detail)
}

// ConfigError collects every Issue found by Validate.
type ConfigError struct {
	Issues []Issue
}

func (e *ConfigError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid grammar: " + e.Issues[0].String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid grammar: %d issues:\n", len(e.Issues))
	for i, issue := range e.Issues {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, issue.String())
	}
	return sb.String()
}

// Is reports ErrInvalidGrammar as the category of every ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidGrammar
}

// ErrorKind names the failure category of err for logs, metrics and API
// responses. It returns "" for errors outside the generation taxonomy.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyLexicon):
		return "empty_lexicon"
	case errors.Is(err, ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, ErrNoCandidateWord):
		return "no_candidate_word"
	case errors.Is(err, ErrEmptyCandidateList):
		return "empty_candidate_list"
	case errors.Is(err, ErrInvalidWord):
		return "invalid_word"
	case errors.Is(err, ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, ErrInvalidGrammar):
		return "invalid_grammar"
	default:
		return ""
	}
}
