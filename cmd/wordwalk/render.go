package main

import (
	"fmt"
	"io"

	"github.com/CTAG07/wordwalk/pkg/grammar"
	"github.com/CTAG07/wordwalk/pkg/templating"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [template]",
		Short: "Render a template with the stored grammars",
		Long: `Renders a named template from the template directory, a random one when no name is given,
or the inline template passed with --string. Grammar files passed with --with name=path are
available to the template alongside the stored grammars.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := appConfig(cmd)
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("templates"); dir != "" {
				config.Server.TemplateDir = dir
			}
			content, _ := cmd.Flags().GetString("string")
			extra, _ := cmd.Flags().GetStringToString("with")
			logger := commandLogger(cmd, config)

			st, closer, err := openStore(config, logger)
			if err != nil {
				return err
			}
			defer func(closer io.Closer) {
				_ = closer.Close()
			}(closer)

			tm, err := templating.NewTemplateManager(logger, st, *config.Templates, config.Server.TemplateDir)
			if err != nil {
				return err
			}
			for name, path := range extra {
				g, err := grammar.LoadFile(path)
				if err != nil {
					return err
				}
				if err = tm.AddGrammar(name, g); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if content != "" {
				if err = tm.ExecuteTemplateString(out, content, nil); err != nil {
					return err
				}
				fmt.Fprintln(out)
				return nil
			}

			name := tm.GetRandomTemplate()
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				return fmt.Errorf("no templates found in '%s'", config.Server.TemplateDir)
			}
			if err = tm.Execute(out, name, nil); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().String("templates", "", "Template directory (overrides the config file)")
	cmd.Flags().StringP("string", "s", "", "Render this inline template instead of a file")
	cmd.Flags().StringToString("with", nil, "Extra grammar files as name=path pairs")
	return cmd
}
