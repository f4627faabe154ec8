package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/modgen/internal/cli"
)

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Remove generated files",
		Long: `Clean removes output files that start with the generated-code header.
Hand-written files and inputs are never touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := cli.NewCleaner(a.config, a.diagnostics).CleanGeneratedFiles(args)
			if err != nil {
				return err
			}
			a.diagnostics.Success("Removed %d generated files", len(removed))
			return nil
		},
	}
}
