package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/CTAG07/wordwalk/pkg/grammar"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a paragraph from a grammar file or a stored grammar",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	addGrammarSourceFlags(cmd)
	cmd.Flags().Int("length", grammar.DefaultLength, "Number of words to generate (default: grammar or config default)")
	cmd.Flags().Int64("seed", 0, "Seed for a reproducible paragraph (random when unset)")
	cmd.Flags().String("separator", "", "Separator written after every word (default: config)")
	cmd.Flags().Bool("strict", false, "Validate the grammar before generating")
	cmd.Flags().Bool("trim", false, "Drop the separator after the last word")
	cmd.Flags().Bool("stream", false, "Print words as they are generated")
	return cmd
}

func addGrammarSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Grammar file (YAML, or JSON with a .json extension)")
	cmd.Flags().StringP("grammar", "g", "", "Name of a grammar stored in the database")
	cmd.MarkFlagsMutuallyExclusive("file", "grammar")
	cmd.MarkFlagsOneRequired("file", "grammar")
}

// grammarSource builds a generator from --file or --grammar. The returned
// default length comes from the stored grammar, or the config for files.
func grammarSource(ctx context.Context, cmd *cobra.Command, config *Config, logger *slog.Logger) (*grammar.Generator, int, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		g, err := grammar.LoadFile(path)
		if err != nil {
			return nil, 0, err
		}
		gen, err := grammar.NewGenerator(g)
		if err != nil {
			return nil, 0, err
		}
		gen.SetLogger(logger)
		return gen, config.Generation.Length, nil
	}

	name, _ := cmd.Flags().GetString("grammar")
	st, closer, err := openStore(config, logger)
	if err != nil {
		return nil, 0, err
	}
	defer func(closer io.Closer) {
		_ = closer.Close()
	}(closer)

	info, err := st.GetGrammarInfo(ctx, name)
	if err != nil {
		return nil, 0, fmt.Errorf("grammar '%s': %w", name, err)
	}
	gen, err := st.NewGenerator(ctx, info)
	if err != nil {
		return nil, 0, err
	}
	return gen, info.Length, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	config, err := appConfig(cmd)
	if err != nil {
		return err
	}
	logger := commandLogger(cmd, config)
	ctx := cmd.Context()

	gen, length, err := grammarSource(ctx, cmd, config, logger)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("length") {
		length, _ = flags.GetInt("length")
	}
	separator := config.Generation.Separator
	if flags.Changed("separator") {
		separator, _ = flags.GetString("separator")
	}
	strict := config.Generation.Strict
	if flags.Changed("strict") {
		strict, _ = flags.GetBool("strict")
	}
	trim, _ := flags.GetBool("trim")
	stream, _ := flags.GetBool("stream")

	opts := []grammar.GenerateOption{
		grammar.WithLength(length),
		grammar.WithSeparator(separator),
		grammar.WithStrict(strict),
	}
	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		opts = append(opts, grammar.WithSeed(seed))
	}

	out := cmd.OutOrStdout()
	if stream {
		return streamParagraph(ctx, out, gen, opts)
	}

	words, err := gen.GenerateWords(ctx, opts...)
	if err != nil {
		return describeGenerationError(err)
	}
	u := grammar.NewUtterance(separator)
	for _, w := range words {
		u.Append(w)
	}
	text := u.String()
	if trim {
		text = u.Trimmed()
	}
	fmt.Fprintln(out, text)
	return nil
}

func streamParagraph(ctx context.Context, out io.Writer, gen *grammar.Generator, opts []grammar.GenerateOption) error {
	steps, err := gen.GenerateStream(ctx, opts...)
	if err != nil {
		return describeGenerationError(err)
	}
	for step := range steps {
		if step.Err != nil {
			fmt.Fprintln(out)
			return describeGenerationError(step.Err)
		}
		fmt.Fprint(out, step.Text)
	}
	fmt.Fprintln(out)
	return nil
}

// describeGenerationError prefixes err with its kind, keeping it matchable.
func describeGenerationError(err error) error {
	if kind := grammar.ErrorKind(err); kind != "" {
		return fmt.Errorf("generation failed (%s): %w", kind, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("generation cancelled: %w", err)
	}
	return err
}
