package cli

import (
	"path/filepath"
	"strings"

	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/internal/utils"
)

// Root is a directory to search, with or without its subdirectories
type Root struct {
	Path      string
	Recursive bool
}

// ParseRoots resolves command-line patterns into search roots. A trailing
// "/..." searches recursively, like the go tool. No patterns means ".".
func ParseRoots(patterns []string) []Root {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	roots := make([]Root, 0, len(patterns))
	for _, p := range patterns {
		if p == "..." {
			roots = append(roots, Root{Path: ".", Recursive: true})
			continue
		}
		if base, ok := strings.CutSuffix(p, "/..."); ok {
			if base == "" {
				base = "."
			}
			roots = append(roots, Root{Path: filepath.Clean(base), Recursive: true})
			continue
		}
		roots = append(roots, Root{Path: filepath.Clean(p)})
	}
	return roots
}

// DirectoryScanner finds the files matching a suffix under a set of roots
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
	suffix        string
	filter        utils.FileFilter
}

// NewDirectoryScanner creates a scanner for files ending in suffix, skipping
// names that end in any of the more specific excluded suffixes
func NewDirectoryScanner(processor *utils.FileProcessor, suffix string, exclude ...string) *DirectoryScanner {
	if processor == nil {
		processor = utils.NewFileProcessor()
	}
	return &DirectoryScanner{
		fileProcessor: processor,
		suffix:        suffix,
		filter:        utils.SuffixFilter(suffix, exclude...),
	}
}

// Scan returns the matching files for the patterns, without duplicates and
// in pattern order. A pattern naming a file must carry the suffix.
func (s *DirectoryScanner) Scan(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, root := range ParseRoots(patterns) {
		isDir, err := s.fileProcessor.IsDir(root.Path)
		if err != nil {
			return nil, err
		}

		var found []string
		if isDir {
			found, err = s.fileProcessor.WalkFiles(root.Path, utils.FileWalkOptions{
				FileFilter:      s.filter,
				DirectoryFilter: utils.DefaultDirectoryFilter(),
				Recursive:       root.Recursive,
			})
			if err != nil {
				return nil, err
			}
		} else {
			if root.Recursive || !strings.HasSuffix(root.Path, s.suffix) {
				return nil, errors.Newf(errors.FileSystemErrorCode, "'%s' is not a directory or a *%s file", root.Path, s.suffix).
					WithContext("path", root.Path)
			}
			found = []string{root.Path}
		}

		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	return files, nil
}
