package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/modgen/internal/errors"
)

// FileProcessor walks directory trees and reads the files it finds
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return NewFileProcessorWithReader(NewFileReader())
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{fileReader: reader}
}

// FileFilter reports whether a file should be processed
type FileFilter func(path string, entry fs.DirEntry) bool

// DirectoryFilter reports whether a directory should be descended into
type DirectoryFilter func(path string, entry fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	Recursive       bool
	SkipErrors      bool
}

// SuffixFilter matches regular files whose name ends in suffix. Names that
// also end in one of the excluded suffixes are rejected.
func SuffixFilter(suffix string, exclude ...string) FileFilter {
	return func(path string, entry fs.DirEntry) bool {
		if entry.IsDir() {
			return false
		}
		name := entry.Name()
		if !strings.HasSuffix(name, suffix) {
			return false
		}
		for _, ex := range exclude {
			if ex != suffix && strings.HasSuffix(name, ex) && len(ex) > len(suffix) {
				return false
			}
		}
		return true
	}
}

// DefaultDirectoryFilter skips hidden directories and build output
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"target":       true,
		"dist":         true,
	}

	return func(path string, entry fs.DirEntry) bool {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles returns the files under rootDir accepted by the options, sorted.
// The root itself is never rejected by the directory filter.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path == rootDir {
				return nil
			}
			if !options.Recursive {
				return filepath.SkipDir
			}
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matched = append(matched, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapFileSystemError("walk", rootDir, err)
	}

	sort.Strings(matched)
	return matched, nil
}

// IsDir reports whether path names an existing directory
func (fp *FileProcessor) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, errors.WrapFileSystemError("stat", path, err)
	}
	return info.IsDir(), nil
}

// GetFileReader returns the underlying FileReader
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}
