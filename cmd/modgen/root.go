package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toyz/modgen/internal/cli"
	"github.com/toyz/modgen/internal/utils"
)

// app holds what every subcommand needs, built once flags are parsed
type app struct {
	config      cli.Config
	diagnostics *utils.DiagnosticSystem
	logger      *zap.Logger
}

type rootOptions struct {
	configPath string
	verbose    bool
	quiet      bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:   "modgen",
		Short: "Expand module generics in Rust sources",
		Long: `modgen adds a generic parameter list, declared once on an inline module,
to every function, trait, impl and associated item inside the module that uses it.

  #[module_generics(T: Clone, U: From<T>)]
  mod shared {
      fn copy(t: &T) -> U { U::from(t.clone()) }
  }

Inputs are *.mg.rs files by default; each expands into the matching *.rs file.
Settings are read from .modgen.yaml when present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+cli.DefaultConfigFile+" if present)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "show detailed progress")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only show errors")
	flags.StringVar(&opts.logLevel, "log-level", cli.DefaultLogLevel, "trace log level on stderr (debug, info, warn, error)")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(
		newExpandCmd(a),
		newApplyCmd(a),
		newCleanCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := cli.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	a.config = cfg

	level := utils.DiagnosticInfo
	switch {
	case opts.quiet:
		level = utils.DiagnosticError
	case opts.verbose:
		level = utils.DiagnosticVerbose
	}
	a.diagnostics = utils.NewDiagnosticSystemTo(level, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a.logger, err = cli.NewLogger(opts.logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger.Debug("loaded config", zap.Stringer("config", a.config))
	return nil
}

// quietTo returns diagnostics that keep stdout free for generated output
func (a *app) quietTo(w io.Writer) *utils.DiagnosticSystem {
	return utils.NewDiagnosticSystemTo(a.diagnostics.Level(), w, w)
}

func newReporter(root *cobra.Command, w io.Writer) *cli.DiagnosticReporter {
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	return cli.NewDiagnosticReporter(w, verbose)
}
