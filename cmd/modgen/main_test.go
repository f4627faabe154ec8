package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/modgen/internal/cli"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// inTempDir runs the test from an empty directory with the given files
func inTempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const (
	input  = "#[module_generics(T: Clone, U: Debug)]\nmod __ {\n    fn show(t: T) {}\n}\n"
	output = cli.GeneratedHeader + "\n\nfn show<T: Clone>(t: T) {}\n"
)

func TestVersion(t *testing.T) {
	inTempDir(t, map[string]string{cli.DefaultConfigFile: "not: valid: yaml"})
	res := runCLI(t, "", "version")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "modgen dev\n", res.stdout)
}

func TestApply(t *testing.T) {
	inTempDir(t, nil)

	res := runCLI(t, "fn f(u: U) {}\n", "apply", "--generics", "T, U: SomeTrait<T>")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "fn f<T, U: SomeTrait<T>>(u: U) {}\n", res.stdout)
}

func TestApply_File(t *testing.T) {
	inTempDir(t, map[string]string{"items.rs": "trait Show {\n    fn show(&self, t: T);\n}\n"})

	res := runCLI(t, "", "apply", "-g", "T: Clone", "items.rs")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "trait Show {\n    fn show<T: Clone>(&self, t: T);\n}\n", res.stdout)
}

func TestApply_Errors(t *testing.T) {
	inTempDir(t, nil)

	res := runCLI(t, "", "apply", "items.rs")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, `required flag(s) "generics" not set`)

	res = runCLI(t, "fn f() {}", "apply", "--generics", "T: +")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "syntax error")
	assert.Contains(t, res.stderr, "hint: quote the declaration")

	res = runCLI(t, "fn f( {}", "apply", "--generics", "T")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "syntax error")
	assert.NotContains(t, res.stderr, "hint:", "a broken item list is not a quoting problem")

	res = runCLI(t, "", "apply", "--generics", "T", "missing.rs")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "file system error")

	res = runCLI(t, "fn f(t: T) {}", "apply", "--generics", "'a")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid declaration")
}

func TestExpand(t *testing.T) {
	dir := inTempDir(t, map[string]string{"src/lib.mg.rs": input})

	res := runCLI(t, "", "expand", "./...")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, output, readFile(t, filepath.Join(dir, "src", "lib.rs")))
	assert.Contains(t, res.stdout, "Expansion complete")

	res = runCLI(t, "", "expand", "--check", "./...")
	assert.Equal(t, 0, res.code, res.stderr)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.rs"), []byte("stale\n"), 0o644))
	res = runCLI(t, "", "expand", "--check", "./...")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "out of date")
	assert.Equal(t, "stale\n", readFile(t, filepath.Join(dir, "src", "lib.rs")))
}

func TestExpand_Stdout(t *testing.T) {
	dir := inTempDir(t, map[string]string{"lib.mg.rs": input})

	res := runCLI(t, "", "expand", "--stdout", "--no-header", "lib.mg.rs")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "fn show<T: Clone>(t: T) {}\n", res.stdout)
	assert.NoFileExists(t, filepath.Join(dir, "lib.rs"))
}

func TestExpand_ConfigAndFlags(t *testing.T) {
	dir := inTempDir(t, map[string]string{
		cli.DefaultConfigFile: "attribute: generics\nheader: false\n",
		"lib.mg.rs":           "#[generics(T)]\nmod __ {\n    fn f(t: T) {}\n}\n",
		"other.mg.rs":         "#[marker(T)]\nmod __ {\n    fn g(t: T) {}\n}\n",
	})

	res := runCLI(t, "", "expand", "lib.mg.rs")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "fn f<T>(t: T) {}\n", readFile(t, filepath.Join(dir, "lib.rs")))

	res = runCLI(t, "", "expand", "--attribute", "marker", "other.mg.rs")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "fn g<T>(t: T) {}\n", readFile(t, filepath.Join(dir, "other.rs")))

	res = runCLI(t, "", "expand", "--placeholder", "not-an-ident")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "configuration error")
}

func TestExpand_Failure(t *testing.T) {
	inTempDir(t, map[string]string{"lib.mg.rs": "#[module_generics(T)]\nmod m;\n"})

	res := runCLI(t, "", "expand")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "module must have a body")
	assert.Contains(t, res.stderr, "help: declare the module inline")
}

func TestExpand_Quiet(t *testing.T) {
	inTempDir(t, map[string]string{"lib.mg.rs": input})

	res := runCLI(t, "", "--quiet", "expand")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)

	res = runCLI(t, "", "--quiet", "--verbose", "expand")
	assert.Equal(t, 1, res.code)
}

func TestClean(t *testing.T) {
	dir := inTempDir(t, map[string]string{
		"lib.mg.rs": input,
		"hand.rs":   "fn hand() {}\n",
	})

	require.Equal(t, 0, runCLI(t, "", "expand").code)
	require.FileExists(t, filepath.Join(dir, "lib.rs"))

	res := runCLI(t, "", "clean")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Removed 1 generated files")
	assert.NoFileExists(t, filepath.Join(dir, "lib.rs"))
	assert.FileExists(t, filepath.Join(dir, "hand.rs"))
}

func TestInvalidConfig(t *testing.T) {
	inTempDir(t, map[string]string{cli.DefaultConfigFile: "unknown_key: 1\n"})

	res := runCLI(t, "", "expand")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "configuration error")
	assert.Contains(t, res.stderr, ".modgen.yaml")
}

func TestLogLevel(t *testing.T) {
	inTempDir(t, map[string]string{"lib.mg.rs": input})

	res := runCLI(t, "", "--log-level", "debug", "expand")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "injected generic parameter")

	res = runCLI(t, "", "--log-level", "loud", "expand")
	assert.Equal(t, 1, res.code)
}
