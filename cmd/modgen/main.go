// Command modgen expands module generics in Rust sources.
//
//	modgen expand ./...                 # write lib.rs for every lib.mg.rs
//	modgen expand --check ./...         # fail when a generated file is stale
//	modgen apply --generics "T: Clone" lib.rs
//	modgen clean ./...
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		newReporter(root, stderr).ReportError(err)
		return 1
	}
	return 0
}
