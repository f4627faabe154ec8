package utils

import (
	"os"
	"path/filepath"

	"github.com/toyz/modgen/internal/errors"
)

// FileReader reads source files, caching contents until a file changes
type FileReader struct {
	contents *FileCache[string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contents: NewFileCache[string](),
	}
}

// ReadFile returns the contents of a file, from cache when the file is
// unchanged since the last read
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := cleanFilePath(filePath)
	if err != nil {
		return "", err
	}

	if cached, ok := fr.contents.Get(cleanPath); ok {
		return cached, nil
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return "", errors.WrapFileSystemError("stat", cleanPath, err)
	}
	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", errors.WrapFileSystemError("read", cleanPath, err)
	}

	src := string(content)
	fr.contents.store(cleanPath, src, info)
	return src, nil
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	if cleanPath, err := cleanFilePath(filePath); err == nil {
		fr.contents.Delete(cleanPath)
	}
}

// ClearCache clears all cached files
func (fr *FileReader) ClearCache() {
	fr.contents.Clear()
}

// CacheSize returns the number of cached files
func (fr *FileReader) CacheSize() int {
	return fr.contents.Size()
}

func cleanFilePath(filePath string) (string, error) {
	if filePath == "" {
		return "", errors.New(errors.FileSystemErrorCode, "file path cannot be empty")
	}
	return filepath.Clean(filePath), nil
}
