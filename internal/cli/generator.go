package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/internal/utils"
	"github.com/toyz/modgen/pkg/modgen"
)

// Mode selects what the generator does with expanded files
type Mode int

const (
	// ModeWrite writes each output next to its input
	ModeWrite Mode = iota
	// ModeCheck reports outputs that differ from a fresh expansion
	ModeCheck
	// ModeStdout prints outputs instead of writing them
	ModeStdout
)

// GenerationSummary contains information about one generator run
type GenerationSummary struct {
	FilesScanned     int
	FilesWritten     int
	FilesUnchanged   int
	ModulesExpanded  int
	ModulesFlattened int
	GeneratedFiles   []string
	StaleFiles       []string
	Duration         time.Duration
}

// fileResult is the outcome of expanding one input
type fileResult struct {
	input   string
	output  string
	content string
	report  *modgen.Report
}

// Generator expands every input file found under a set of patterns
type Generator struct {
	config      Config
	mode        Mode
	scanner     *DirectoryScanner
	reader      *utils.FileReader
	diagnostics *utils.DiagnosticSystem
	logger      *zap.Logger
	stdout      io.Writer

	mu      sync.Mutex
	summary GenerationSummary
}

// NewGenerator creates a generator. The file reader is kept across runs so
// a watch loop rereads only the files that changed.
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem, logger *zap.Logger) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystemTo(utils.DiagnosticSilent, io.Discard, io.Discard)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	processor := utils.NewFileProcessor()
	return &Generator{
		config:      config,
		scanner:     NewDirectoryScanner(processor, config.InputSuffix),
		reader:      processor.GetFileReader(),
		diagnostics: diagnostics,
		logger:      logger,
		stdout:      diagnostics.Output(),
	}
}

// SetMode selects write, check or stdout mode
func (g *Generator) SetMode(mode Mode) {
	g.mode = mode
}

// SetStdout sets the writer used in stdout mode
func (g *Generator) SetStdout(w io.Writer) {
	g.stdout = w
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.summary
}

// Run expands every input file matched by patterns. Files are expanded
// concurrently; a failing file does not stop the others, and all failures
// are returned together.
func (g *Generator) Run(ctx context.Context, patterns []string) error {
	start := time.Now()
	g.mu.Lock()
	g.summary = GenerationSummary{}
	g.mu.Unlock()

	files, err := g.scanner.Scan(patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		g.diagnostics.Warn("No *%s files found", g.config.InputSuffix)
		return nil
	}

	g.diagnostics.Verbose("Found %d input files", len(files))
	g.diagnostics.Debug("Inputs: %s", strings.Join(files, ", "))
	g.logger.Debug("scanned inputs", zap.Strings("patterns", patterns), zap.Int("files", len(files)))

	limit := g.config.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]*fileResult, len(files))
	failures := errors.NewMultipleErrors()
	var failMu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, path := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			res, err := g.expandFile(path)
			if err == nil {
				err = g.finish(res)
			}
			if err != nil {
				failMu.Lock()
				failures.Add(err)
				failMu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	g.mu.Lock()
	g.summary.FilesScanned = len(files)
	g.summary.Duration = time.Since(start)
	sort.Strings(g.summary.GeneratedFiles)
	sort.Strings(g.summary.StaleFiles)
	stale := g.summary.StaleFiles
	g.mu.Unlock()

	if g.mode == ModeStdout {
		for _, res := range results {
			if res == nil {
				continue
			}
			if _, err := io.WriteString(g.stdout, res.content); err != nil {
				return errors.WrapFileSystemError("write", "stdout", err)
			}
		}
	}

	if err := failures.ErrorOrNil(); err != nil {
		return err
	}

	if g.mode == ModeCheck && len(stale) > 0 {
		return errors.Newf(errors.GenerationErrorCode, "%d generated files are out of date", len(stale)).
			WithContext("files", stale).
			WithSuggestion("Run 'modgen expand' to regenerate them")
	}
	return nil
}

// expandFile reads and expands a single input
func (g *Generator) expandFile(path string) (*fileResult, error) {
	src, err := g.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}

	out, report, err := modgen.ExpandSource(path, src, g.config.Options(g.logger.With(zap.String("file", path)))...)
	if err != nil {
		return nil, errors.WrapGenerationError(path, err)
	}

	if g.config.Header {
		out = GeneratedHeader + "\n\n" + out
	}

	return &fileResult{
		input:   path,
		output:  g.config.OutputPath(path),
		content: out,
		report:  report,
	}, nil
}

// finish writes or checks one result and records it in the summary
func (g *Generator) finish(res *fileResult) error {
	existing, readErr := os.ReadFile(res.output)
	upToDate := readErr == nil && string(existing) == res.content

	if g.mode == ModeWrite && !upToDate {
		if err := os.WriteFile(res.output, []byte(res.content), 0o644); err != nil {
			return errors.WrapFileSystemError("write", res.output, err)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.summary.ModulesExpanded += len(res.report.Modules)
	g.summary.ModulesFlattened += res.report.Flattened
	switch {
	case g.mode == ModeCheck && !upToDate:
		g.diagnostics.Warn("%s is out of date", res.output)
		g.summary.StaleFiles = append(g.summary.StaleFiles, res.output)
	case g.mode == ModeWrite && !upToDate:
		g.summary.FilesWritten++
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, res.output)
	default:
		g.summary.FilesUnchanged++
	}

	if g.mode == ModeWrite && !upToDate {
		g.diagnostics.Item("%s", res.output)
	}
	g.logger.Debug("expanded file",
		zap.String("input", res.input),
		zap.String("output", res.output),
		zap.Int("modules", len(res.report.Modules)),
		zap.Bool("changed", !upToDate))
	return nil
}

// SummaryStats flattens the summary for DiagnosticSystem.Summary
func (s GenerationSummary) SummaryStats() map[string]interface{} {
	return map[string]interface{}{
		"Files scanned":     s.FilesScanned,
		"Files written":     s.FilesWritten,
		"Files unchanged":   s.FilesUnchanged,
		"Modules expanded":  s.ModulesExpanded,
		"Modules flattened": s.ModulesFlattened,
		"Duration":          fmt.Sprintf("%dms", s.Duration.Milliseconds()),
	}
}
