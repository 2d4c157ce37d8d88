package grammar

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is one element of a generation stream. Text is the word followed by
// the separator. A failed run ends with a Step carrying only Err.
type Step struct {
	Index int
	Word  Word
	Text  string
	Err   error
}

// GenerateStream walks the grammar like Generate but delivers each word on a
// channel as soon as it is chosen. Option errors are returned immediately.
// The channel is closed when the walk ends, fails, or ctx is cancelled.
func (g *Generator) GenerateStream(ctx context.Context, opts ...GenerateOption) (<-chan Step, error) {
	options, err := g.prepare(opts)
	if err != nil {
		return nil, err
	}

	steps := make(chan Step)

	go func() {
		defer close(steps)

		r := options.source()
		u := NewUtterance(options.separator)

		for i := 0; i < options.length; i++ {
			w, err := g.step(r, u)
			if err != nil {
				g.logger.DebugContext(ctx, "Generation stream aborted",
					slog.Int("step", i+1),
					slog.Any("error", err),
				)
				select {
				case <-ctx.Done():
				case steps <- Step{Index: i, Err: fmt.Errorf("step %d: %w", i+1, err)}:
				}
				return
			}
			u.Append(w)

			select {
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "Generation stream cancelled by context")
				return
			case steps <- Step{Index: i, Word: w, Text: w.Text + options.separator}:
			}
		}
	}()

	return steps, nil
}
