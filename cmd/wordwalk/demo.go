package main

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/CTAG07/wordwalk/pkg/grammar"
	"github.com/spf13/cobra"
)

//go:embed data/microphone.yaml
var sampleGrammar []byte

// loadSampleGrammar decodes the embedded sample grammar.
func loadSampleGrammar() (grammar.Grammar, error) {
	return grammar.Decode(bytes.NewReader(sampleGrammar), grammar.FormatYAML)
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print a paragraph from the built-in sample grammar",
		Long:  `Generates a paragraph from the embedded sample grammar with a fixed seed, so the output is identical on every run.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			length, _ := cmd.Flags().GetInt("length")
			seed, _ := cmd.Flags().GetInt64("seed")
			dump, _ := cmd.Flags().GetBool("dump")

			g, err := loadSampleGrammar()
			if err != nil {
				return fmt.Errorf("failed to load sample grammar: %w", err)
			}
			if dump {
				return grammar.Encode(cmd.OutOrStdout(), g, grammar.FormatYAML)
			}

			text, err := grammar.Paragraph(g, grammar.WithLength(length), grammar.WithSeed(seed))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().Int("length", 100, "Number of words to generate")
	cmd.Flags().Int64("seed", 0, "Seed of the random walk")
	cmd.Flags().Bool("dump", false, "Print the sample grammar as YAML instead of generating")
	return cmd
}
