package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/modgen/internal/errors"
)

// DiagnosticReporter prints errors with their location, context and
// suggestions
type DiagnosticReporter struct {
	out       io.Writer
	verbose   bool
	useColors bool
}

// NewDiagnosticReporter creates a reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		out:       out,
		verbose:   verbose,
		useColors: !color.NoColor,
	}
}

// SetColors overrides color detection
func (r *DiagnosticReporter) SetColors(enabled bool) {
	r.useColors = enabled
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	r.paint(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError prints err. Each error collected in a MultipleErrors is
// reported on its own.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var multi *errors.MultipleErrors
	if errors.As(err, &multi) && multi.Count() > 1 {
		r.paint(color.FgRed, color.Bold).Fprintf(r.out, "%d files failed to expand\n", multi.Count())
		for _, e := range multi.Unwrap() {
			fmt.Fprintln(r.out)
			r.reportOne(e)
		}
		return
	}
	if multi != nil && multi.Count() == 1 {
		err = multi.Errors[0]
	}
	r.reportOne(err)
}

func (r *DiagnosticReporter) reportOne(err error) {
	var merr errors.ModgenError
	if !errors.As(err, &merr) {
		r.paint(color.FgRed, color.Bold).Fprint(r.out, "error: ")
		fmt.Fprintf(r.out, "%s\n", err.Error())
		r.printHints(err)
		return
	}

	r.paint(color.FgRed, color.Bold).Fprintf(r.out, "%s: ", errorTitle(merr.ErrorCode()))
	fmt.Fprintf(r.out, "%s\n", headline(merr))

	if loc := merr.Location(); !loc.IsEmpty() {
		r.paint(color.FgCyan).Fprint(r.out, "  --> ")
		fmt.Fprintf(r.out, "%s\n", loc)
	}

	if ctx := merr.Context(); len(ctx) > 0 {
		keys := make([]string, 0, len(ctx))
		for k := range ctx {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(k), ctx[k])
		}
	}

	r.printSuggestions(merr.Suggestions())
	r.printHints(err)

	if r.verbose && errors.Unwrap(err) != nil {
		r.printChain(err)
	}
}

// headline is the error message without its location, ending in the root
// cause rather than the whole chain
func headline(merr errors.ModgenError) string {
	msg := merr.Error()
	if loc := merr.Location(); !loc.IsEmpty() {
		msg = strings.TrimPrefix(msg, loc.String()+": ")
	}
	if cause := errors.Unwrap(merr); cause != nil {
		msg = strings.TrimSuffix(msg, ": "+cause.Error())
		return msg + ": " + rootCause(cause).Error()
	}
	return msg
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func errorTitle(code errors.ErrorCode) string {
	switch code {
	case errors.SyntaxErrorCode:
		return "syntax error"
	case errors.DeclarationErrorCode:
		return "invalid declaration"
	case errors.StructuralErrorCode:
		return "invalid target"
	case errors.ConfigurationErrorCode:
		return "configuration error"
	case errors.FileSystemErrorCode:
		return "file system error"
	case errors.GenerationErrorCode:
		return "expansion failed"
	default:
		return "error"
	}
}

// formatContextKey turns snake_case keys into Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	for _, s := range suggestions {
		r.paint(color.FgGreen).Fprint(r.out, "  help: ")
		fmt.Fprintf(r.out, "%s\n", s)
	}
}

func (r *DiagnosticReporter) printHints(err error) {
	for _, h := range errors.GetAllHints(err) {
		r.paint(color.FgGreen).Fprint(r.out, "  hint: ")
		fmt.Fprintf(r.out, "%s\n", h)
	}
}

func (r *DiagnosticReporter) printChain(err error) {
	fmt.Fprintf(r.out, "  caused by:\n")
	level := 1
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(r.out, "    %d. %s\n", level, e.Error())
		level++
	}
}

func (r *DiagnosticReporter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
