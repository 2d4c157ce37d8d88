package grammar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Grammar is everything needed to construct a Generator: the follower table
// and the vocabulary in registration order. The first vocabulary entry is the
// first word of every paragraph.
type Grammar struct {
	Followers  FollowerTable `json:"followers" yaml:"followers"`
	Vocabulary []Word        `json:"vocabulary" yaml:"vocabulary"`
}

// Generator produces paragraphs from one grammar. A Generator is never
// mutated after construction, so concurrent calls to Generate are safe as
// long as each call uses its own random source.
type Generator struct {
	followers FollowerTable
	lexicon   *Lexicon
	logger    *slog.Logger
}

// NewGenerator registers the grammar's vocabulary, in order, into a new
// Lexicon. It fails if any word has an empty text or type. The grammar is not
// cross-checked here; see Validate and WithStrict.
func NewGenerator(g Grammar) (*Generator, error) {
	lexicon := NewLexicon()
	for i, w := range g.Vocabulary {
		if err := lexicon.Register(w); err != nil {
			return nil, fmt.Errorf("vocabulary entry %d: %w", i, err)
		}
	}
	return &Generator{
		followers: g.Followers.Clone(),
		lexicon:   lexicon,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Lexicon returns the generator's word index. It must not be modified.
func (g *Generator) Lexicon() *Lexicon {
	return g.lexicon
}

// Followers returns the generator's follower table. It must not be modified.
func (g *Generator) Followers() FollowerTable {
	return g.followers
}

// Grammar rebuilds the Grammar the generator effectively uses, with
// duplicate words already resolved.
func (g *Generator) Grammar() Grammar {
	return Grammar{
		Followers:  g.followers.Clone(),
		Vocabulary: g.lexicon.Words(),
	}
}

// Validate cross-checks the follower table against the lexicon.
func (g *Generator) Validate() error {
	return Validate(g.followers, g.lexicon)
}

// Paragraph builds a Generator for g and renders one paragraph with it.
func Paragraph(g Grammar, opts ...GenerateOption) (string, error) {
	gen, err := NewGenerator(g)
	if err != nil {
		return "", err
	}
	return gen.Generate(context.Background(), opts...)
}
