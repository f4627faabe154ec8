package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/internal/utils"
)

// Cleaner removes generated files
type Cleaner struct {
	scanner     *DirectoryScanner
	diagnostics *utils.DiagnosticSystem
}

// NewCleaner creates a cleaner for the outputs described by config
func NewCleaner(config Config, diagnostics *utils.DiagnosticSystem) *Cleaner {
	return &Cleaner{
		scanner:     NewDirectoryScanner(nil, config.OutputSuffix, config.InputSuffix),
		diagnostics: diagnostics,
	}
}

// CleanGeneratedFiles removes every output file under the patterns whose
// first line is GeneratedHeader, and returns the removed paths. Files
// without the header are left alone.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	files, err := c.scanner.Scan(patterns)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, path := range files {
		generated, err := isGenerated(path)
		if err != nil {
			return removed, err
		}
		if !generated {
			continue
		}

		if err := os.Remove(path); err != nil {
			return removed, errors.WrapFileSystemError("remove", path, err)
		}
		removed = append(removed, path)
		if c.diagnostics != nil {
			c.diagnostics.Item("removed %s", path)
		}
	}

	return removed, nil
}

func isGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.WrapFileSystemError("open", path, err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	return strings.TrimRight(line, "\r\n") == GeneratedHeader, nil
}
