package main

import (
	"errors"
	"fmt"

	"github.com/CTAG07/wordwalk/pkg/grammar"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a grammar for follower types without words and other dead ends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := appConfig(cmd)
			if err != nil {
				return err
			}
			gen, _, err := grammarSource(cmd.Context(), cmd, config, commandLogger(cmd, config))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err = gen.Validate()
			var cfgErr *grammar.ConfigError
			if errors.As(err, &cfgErr) {
				for _, issue := range cfgErr.Issues {
					fmt.Fprintf(out, "%s: %s\n", issue.Kind, issue)
				}
				return fmt.Errorf("grammar has %d issue(s)", len(cfgErr.Issues))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "grammar is valid: %d words, %d types\n", gen.Lexicon().Len(), len(gen.Followers().Types()))
			return nil
		},
	}
	addGrammarSourceFlags(cmd)
	return cmd
}
