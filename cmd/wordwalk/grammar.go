package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/CTAG07/wordwalk/pkg/grammar"
	"github.com/CTAG07/wordwalk/pkg/store"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Manage the grammars stored in the database",
	}
	cmd.AddCommand(
		newGrammarListCmd(),
		newGrammarImportCmd(),
		newGrammarExportCmd(),
		newGrammarRemoveCmd(),
	)
	return cmd
}

// withStore runs fn against the configured store.
func withStore(cmd *cobra.Command, fn func(st *store.Store) error) error {
	config, err := appConfig(cmd)
	if err != nil {
		return err
	}
	st, closer, err := openStore(config, commandLogger(cmd, config))
	if err != nil {
		return err
	}
	defer func(closer io.Closer) {
		_ = closer.Close()
	}(closer)
	return fn(st)
}

func newGrammarListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored grammars with their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(st *store.Store) error {
				stats, err := st.GetStats(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tLENGTH\tWORDS\tTYPES\tRULES")
				for _, info := range stats.Grammars {
					s := stats.Stats[info.Id]
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", info.Name, info.Length, s.Words, s.Types, s.Rules)
				}
				return tw.Flush()
			})
		},
	}
}

func newGrammarImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a grammar export, or a grammar file with --name",
		Long: `Imports a JSON grammar export into the database, merging it into an existing grammar of the same name.
With --name, the file is read as a YAML or JSON grammar file instead and stored under that name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			length, _ := cmd.Flags().GetInt("length")

			return withStore(cmd, func(st *store.Store) error {
				var info store.GrammarInfo
				if name != "" {
					g, err := grammar.LoadFile(args[0])
					if err != nil {
						return err
					}
					if info, err = st.SaveGrammar(cmd.Context(), store.GrammarInfo{Name: name, Length: length}, g); err != nil {
						return err
					}
				} else {
					file, err := os.Open(args[0])
					if err != nil {
						return err
					}
					defer func(file *os.File) {
						_ = file.Close()
					}(file)
					if info, err = st.ImportGrammar(cmd.Context(), file); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported grammar '%s' (id %d)\n", info.Name, info.Id)
				return nil
			})
		},
	}
	cmd.Flags().String("name", "", "Store a grammar file under this name")
	cmd.Flags().Int("length", 0, "Default paragraph length of a grammar imported with --name")
	return cmd
}

func newGrammarExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Export a stored grammar as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			return withStore(cmd, func(st *store.Store) error {
				info, err := st.GetGrammarInfo(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("grammar '%s': %w", args[0], err)
				}
				if out == "" {
					return st.ExportGrammar(cmd.Context(), info, cmd.OutOrStdout())
				}

				var buf bytes.Buffer
				if err = st.ExportGrammar(cmd.Context(), info, &buf); err != nil {
					return err
				}
				return atomic.WriteFile(out, &buf)
			})
		},
	}
	cmd.Flags().StringP("out", "o", "", "Write the export to this file instead of stdout")
	return cmd
}

func newGrammarRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a stored grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(st *store.Store) error {
				info, err := st.GetGrammarInfo(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("grammar '%s': %w", args[0], err)
				}
				if err = st.RemoveGrammar(cmd.Context(), info); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed grammar '%s'\n", info.Name)
				return nil
			})
		},
	}
}
