package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/pkg/modgen"
)

func newApplyCmd(a *app) *cobra.Command {
	var declaration string

	cmd := &cobra.Command{
		Use:   "apply --generics <declaration> [file|-]",
		Short: "Apply a generics declaration to a list of items and print the result",
		Long: `Apply treats the items of a file, or of standard input, as the body of a
module carrying the given declaration, and prints the expanded items.`,
		Example: `  modgen apply --generics "T: Clone, U: From<T>" items.rs
  echo 'fn f(t: T) {}' | modgen apply --generics T`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			body, err := readInput(cmd, name)
			if err != nil {
				return err
			}

			out, err := modgen.ApplySource(declaration, body, a.config.Options(a.logger)...)
			if err != nil {
				var serr *errors.SyntaxError
				if errors.As(err, &serr) && serr.Location().File == modgen.DeclarationSource {
					return errors.WithHint(err, "quote the declaration so the shell passes it as one argument")
				}
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&declaration, "generics", "g", "", "generic parameters and where clause, as inside #[module_generics(...)]")
	_ = cmd.MarkFlagRequired("generics")
	return cmd
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.WrapFileSystemError("read", "stdin", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", errors.WrapFileSystemError("read", name, err)
	}
	return string(data), nil
}
