package grammar

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

// DefaultLength is the number of words generated when WithLength is not given.
const DefaultLength = 30

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	length    int
	seed      int64
	seeded    bool
	rng       *rand.Rand
	separator string
	strict    bool
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in Generate, GenerateWords and GenerateStream.
type GenerateOption func(*generateOptions)

// WithLength sets the total number of words in the paragraph, including the
// first word. A length of 0 produces an empty paragraph.
func WithLength(n int) GenerateOption {
	return func(o *generateOptions) { o.length = n }
}

// WithSeed makes the run deterministic: the same seed, grammar and length
// always produce the same paragraph.
func WithSeed(seed int64) GenerateOption {
	return func(o *generateOptions) {
		o.seed = seed
		o.seeded = true
	}
}

// WithRand injects the random source used for every draw of the run. It takes
// precedence over WithSeed. The source must not be shared with a concurrent run.
func WithRand(r *rand.Rand) GenerateOption {
	return func(o *generateOptions) { o.rng = r }
}

// WithSeparator sets the string written after every word.
// Default: " "
func WithSeparator(sep string) GenerateOption {
	return func(o *generateOptions) { o.separator = sep }
}

// WithStrict validates the grammar before the first step, so configuration
// problems are reported as a *ConfigError instead of failing mid-walk.
func WithStrict(strict bool) GenerateOption {
	return func(o *generateOptions) { o.strict = strict }
}

// NewSeededRand returns the random source used for a given seed.
func NewSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

func (o *generateOptions) source() *rand.Rand {
	if o.rng != nil {
		return o.rng
	}
	if o.seeded {
		return NewSeededRand(o.seed)
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (g *Generator) prepare(opts []GenerateOption) (*generateOptions, error) {
	options := &generateOptions{
		length:    DefaultLength,
		separator: " ",
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, options.length)
	}
	if options.strict {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// Generate walks the grammar for the configured number of steps and returns
// the paragraph. Each word is followed by the separator, including the last.
// Any lookup failure aborts the run; no partial paragraph is returned.
func (g *Generator) Generate(ctx context.Context, opts ...GenerateOption) (string, error) {
	u, err := g.generateUtterance(ctx, opts)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// GenerateWords is like Generate but returns the chosen words.
func (g *Generator) GenerateWords(ctx context.Context, opts ...GenerateOption) ([]Word, error) {
	u, err := g.generateUtterance(ctx, opts)
	if err != nil {
		return nil, err
	}
	return u.Words(), nil
}

// generateUtterance contains the main loop for generating a paragraph.
func (g *Generator) generateUtterance(ctx context.Context, opts []GenerateOption) (*Utterance, error) {
	options, err := g.prepare(opts)
	if err != nil {
		return nil, err
	}

	r := options.source()
	u := NewUtterance(options.separator)

	for i := 0; i < options.length; i++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		var w Word
		w, err = g.step(r, u)
		if err != nil {
			g.logger.DebugContext(ctx, "Generation aborted",
				slog.Int("step", i+1),
				slog.Int("length", options.length),
				slog.Any("error", err),
			)
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		u.Append(w)
	}

	g.logger.DebugContext(ctx, "Generation finished",
		slog.Int("length", options.length),
		slog.Bool("seeded", options.seeded),
	)
	return u, nil
}

// step picks the next word. An empty utterance is seeded with the first
// registered word; otherwise a successor type is drawn first, then a word of
// that type, always in that order.
func (g *Generator) step(r *rand.Rand, u *Utterance) (Word, error) {
	lastType, ok := u.LastType()
	if !ok {
		return g.lexicon.First()
	}

	successors, err := g.followers.Successors(lastType)
	if err != nil {
		return Word{}, err
	}
	nextType := successors[r.IntN(len(successors))]
	return g.lexicon.RandomOfType(r, nextType)
}
