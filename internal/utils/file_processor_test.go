package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		writeFile(t, filepath.Join(root, filepath.FromSlash(f)), "")
	}
	return root
}

func TestSuffixFilter(t *testing.T) {
	root := makeTree(t, "a.mg.rs", "a.rs", "b.gen.rs", "c.rs", "README.md")
	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	match := func(filter FileFilter) []string {
		var names []string
		for _, e := range entries {
			if filter(filepath.Join(root, e.Name()), e) {
				names = append(names, e.Name())
			}
		}
		return names
	}

	assert.Equal(t, []string{"a.mg.rs"}, match(SuffixFilter(".mg.rs", ".rs")))
	assert.Equal(t, []string{"a.mg.rs", "a.rs", "c.rs"}, match(SuffixFilter(".rs", ".gen.rs")))
}

func TestWalkFiles(t *testing.T) {
	root := makeTree(t,
		"lib.mg.rs",
		"net/http.mg.rs",
		"net/tcp/conn.mg.rs",
		".hidden/x.mg.rs",
		"target/debug/y.mg.rs",
		"testdata/z.mg.rs",
		"net/plain.rs",
	)
	fp := NewFileProcessor()

	tests := []struct {
		name     string
		options  FileWalkOptions
		expected []string
	}{
		{
			name: "recursive with default directory filter",
			options: FileWalkOptions{
				FileFilter:      SuffixFilter(".mg.rs"),
				DirectoryFilter: DefaultDirectoryFilter(),
				Recursive:       true,
			},
			expected: []string{"lib.mg.rs", "net/http.mg.rs", "net/tcp/conn.mg.rs"},
		},
		{
			name: "single directory",
			options: FileWalkOptions{
				FileFilter: SuffixFilter(".mg.rs"),
			},
			expected: []string{"lib.mg.rs"},
		},
		{
			name: "no filters",
			options: FileWalkOptions{
				Recursive: true,
			},
			expected: []string{
				".hidden/x.mg.rs",
				"lib.mg.rs",
				"net/http.mg.rs",
				"net/plain.rs",
				"net/tcp/conn.mg.rs",
				"target/debug/y.mg.rs",
				"testdata/z.mg.rs",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := fp.WalkFiles(root, tt.options)
			require.NoError(t, err)

			var rel []string
			for _, f := range files {
				r, err := filepath.Rel(root, f)
				require.NoError(t, err)
				rel = append(rel, filepath.ToSlash(r))
			}
			assert.Equal(t, tt.expected, rel)
		})
	}
}

func TestWalkFiles_MissingRoot(t *testing.T) {
	fp := NewFileProcessor()
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := fp.WalkFiles(missing, FileWalkOptions{})
	assert.Error(t, err)

	files, err := fp.WalkFiles(missing, FileWalkOptions{SkipErrors: true})
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestIsDir(t *testing.T) {
	root := makeTree(t, "a.rs")
	fp := NewFileProcessor()

	ok, err := fp.IsDir(root)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fp.IsDir(filepath.Join(root, "a.rs"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = fp.IsDir(filepath.Join(root, "missing"))
	assert.Error(t, err)
	assert.NotNil(t, fp.GetFileReader())
}
