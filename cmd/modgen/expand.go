package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/toyz/modgen/internal/cli"
	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/internal/utils"
)

type expandOptions struct {
	check       bool
	stdout      bool
	watch       bool
	attribute   string
	placeholder string
	typeDefs    bool
	noHeader    bool
	concurrency int
}

func newExpandCmd(a *app) *cobra.Command {
	opts := &expandOptions{}

	cmd := &cobra.Command{
		Use:   "expand [paths...]",
		Short: "Expand every marked module in the input files",
		Long: `Expand finds input files under the given paths and writes the expanded
source next to each one. A path ending in /... is searched recursively.
With no paths the current directory is used.`,
		Example: `  modgen expand ./...
  modgen expand --check ./src/...
  modgen expand --stdout src/lib.mg.rs
  modgen expand --watch ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.apply(cmd, &a.config)
			if err := a.config.Validate(); err != nil {
				return err
			}
			return runExpand(cmd, a, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.check, "check", false, "report stale generated files without writing; exit 1 if any")
	flags.BoolVar(&opts.stdout, "stdout", false, "print expanded files instead of writing them")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "expand again whenever an input file changes")
	flags.StringVar(&opts.attribute, "attribute", "", "marker attribute name")
	flags.StringVar(&opts.placeholder, "placeholder", "", "module name that is replaced by its items")
	flags.BoolVar(&opts.typeDefs, "type-definitions", false, "also add generics to structs, enums and unions")
	flags.BoolVar(&opts.noHeader, "no-header", false, "omit the generated-code header")
	flags.IntVarP(&opts.concurrency, "concurrency", "j", 0, "files expanded at once (0 = number of CPUs)")
	cmd.MarkFlagsMutuallyExclusive("check", "stdout")
	cmd.MarkFlagsMutuallyExclusive("check", "watch")
	return cmd
}

// apply overrides config values with the flags that were set
func (o *expandOptions) apply(cmd *cobra.Command, cfg *cli.Config) {
	flags := cmd.Flags()
	if flags.Changed("attribute") {
		cfg.Attribute = o.attribute
	}
	if flags.Changed("placeholder") {
		cfg.Placeholder = o.placeholder
	}
	if flags.Changed("type-definitions") {
		cfg.ExpandTypeDefinitions = o.typeDefs
	}
	if flags.Changed("no-header") {
		cfg.Header = !o.noHeader
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = o.concurrency
	}
}

func runExpand(cmd *cobra.Command, a *app, opts *expandOptions, patterns []string) error {
	diagnostics := a.diagnostics
	if opts.stdout {
		diagnostics = a.quietTo(cmd.ErrOrStderr())
	}
	if diagnostics.Level() >= utils.DiagnosticVerbose {
		diagnostics.Subsection("Configuration")
		diagnostics.Indent()
		diagnostics.List("inputs: *%s -> *%s", a.config.InputSuffix, a.config.OutputSuffix)
		diagnostics.List("attribute: #[%s]", a.config.Attribute)
		diagnostics.List("placeholder: %s", a.config.Placeholder)
		diagnostics.List("type definitions: %t", a.config.ExpandTypeDefinitions)
		diagnostics.Unindent()
	}

	gen := cli.NewGenerator(a.config, diagnostics, a.logger)
	switch {
	case opts.check:
		gen.SetMode(cli.ModeCheck)
	case opts.stdout:
		gen.SetMode(cli.ModeStdout)
		gen.SetStdout(cmd.OutOrStdout())
	}

	expand := func(ctx context.Context) error {
		if err := gen.Run(ctx, patterns); err != nil {
			return err
		}
		if !opts.stdout {
			diagnostics.Summary("Expansion complete", gen.GetSummary().SummaryStats())
		}
		return nil
	}

	err := expand(cmd.Context())
	if !opts.watch {
		return err
	}

	reporter := cli.NewDiagnosticReporter(cmd.ErrOrStderr(), diagnostics.Level() >= utils.DiagnosticVerbose)
	if err != nil {
		reporter.ReportError(err)
	}

	watcher, err := cli.NewWatcher(a.config, patterns, func(ctx context.Context) error {
		diagnostics.Info("Change detected, expanding")
		err := expand(ctx)
		if err != nil {
			reporter.ReportError(err)
		}
		return err
	}, a.logger)
	if err != nil {
		return errors.WithHint(err, "on Linux, raising fs.inotify.max_user_watches allows more directories to be watched")
	}

	diagnostics.Section("Watching for changes, press Ctrl+C to stop")
	return watcher.Run(cmd.Context())
}
