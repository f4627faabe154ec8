package modgen

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/tools/txtar"

	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/internal/syntax"
)

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			sections := make(map[string]string, len(ar.Files))
			for _, f := range ar.Files {
				sections[f.Name] = string(f.Data)
			}
			input, ok := sections["input"]
			require.True(t, ok, "golden file needs an input section")

			var got string
			if decl, ok := sections["decl"]; ok {
				got, err = ApplySource(strings.TrimSpace(decl), input)
			} else {
				got, _, err = ExpandSource("input.rs", input)
			}

			if want, ok := sections["error"]; ok {
				require.Error(t, err)
				assert.Contains(t, err.Error(), strings.TrimSpace(want))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sections["output"], got)

			// Expanded output carries no markers, so expanding it again
			// changes nothing.
			again, report, err := ExpandSource("output.rs", got)
			require.NoError(t, err)
			assert.False(t, report.Expanded())
			assert.Equal(t, got, again)
		})
	}
}

func TestExpandSource_Report(t *testing.T) {
	src := "#[module_generics(T)]\nmod a {\n    #[module_generics(U)]\n    mod __ {\n        fn f(u: U) {}\n    }\n}\n"

	out, report, err := ExpandSource("lib.rs", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "__"}, report.Modules)
	assert.Equal(t, 1, report.Flattened)
	assert.Equal(t, "mod a {\n    fn f<U>(u: U) {}\n}\n", out)
}

func TestExpandSource_MarkerInsidePlaceholder(t *testing.T) {
	src := "#[module_generics(T)]\nmod __ {\n    #[module_generics(V: Default)]\n    mod nested {\n        fn z(v: V) {}\n    }\n}\n"

	out, report, err := ExpandSource("lib.rs", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"__", "nested"}, report.Modules)
	assert.Equal(t, 1, report.Flattened)
	assert.Equal(t, "mod nested {\n    fn z<V: Default>(v: V) {}\n}\n", out)
}

func TestExpandSource_Options(t *testing.T) {
	src := "#[generics(T: Copy)]\nmod _flat {\n    fn f(t: T) {}\n}\n\n#[module_generics(T)]\nmod kept {}\n"

	out, report, err := ExpandSource("lib.rs", src,
		WithAttribute("generics"),
		WithPlaceholder("_flat"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"_flat"}, report.Modules)
	assert.Equal(t, "fn f<T: Copy>(t: T) {}\n\n#[module_generics(T)]\nmod kept {}\n", out)
}

func TestExpandSource_TypeDefinitions(t *testing.T) {
	src := "#[module_generics(T: Clone)]\nmod __ {\n    struct Holder<T> {\n        value: T,\n    }\n}\n"

	out, _, err := ExpandSource("lib.rs", src)
	require.NoError(t, err)
	assert.Equal(t, "struct Holder<T> {\n    value: T,\n}\n", out)

	out, _, err = ExpandSource("lib.rs", src, WithTypeDefinitions(true))
	require.NoError(t, err)
	assert.Equal(t, "struct Holder<T: Clone> {\n    value: T,\n}\n", out)
}

func TestExpandSource_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := "#[module_generics(T)]\nmod m {\n    fn f(t: T) {}\n}\n"

	_, _, err := ExpandSource("lib.rs", src, WithLogger(zap.New(core)))
	require.NoError(t, err)

	expanded := logs.FilterMessage("expanded module").All()
	require.Len(t, expanded, 1)
	assert.Equal(t, "m", expanded[0].ContextMap()["module"])

	injected := logs.FilterMessage("injected generic parameter").All()
	require.Len(t, injected, 1)
	assert.Equal(t, "m", injected[0].ContextMap()["module"])
	assert.Equal(t, "fn f", injected[0].ContextMap()["site"])
}

func TestApply(t *testing.T) {
	decl, err := syntax.ParseDeclaration("<test>", "T: Clone")
	require.NoError(t, err)
	items, err := syntax.ParseItems("<test>", "fn f(t: T) {}\n")
	require.NoError(t, err)

	out, err := Apply(decl, syntax.NewModule("named", items))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "mod named {\n    fn f<T: Clone>(t: T) {}\n}\n", syntax.RenderItems(out))

	flat, err := Apply(decl, syntax.NewModule(DefaultPlaceholder, items))
	require.NoError(t, err)
	assert.Equal(t, items, flat)
}

func TestApply_Errors(t *testing.T) {
	decl := &syntax.Declaration{}

	_, err := Apply(decl, nil)
	require.Error(t, err)
	assert.Equal(t, errors.StructuralErrorCode, errors.CodeOf(err))

	forward := &syntax.Item{Mod: &syntax.Module{Name: "ext"}}
	_, err = Apply(decl, forward)
	var serr *errors.StructuralError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "ext", serr.Module)
	assert.NotEmpty(t, serr.Suggestions())
}

func TestApplySource_Errors(t *testing.T) {
	_, err := ApplySource("T = u8", "fn f(t: T) {}")
	assert.Equal(t, errors.DeclarationErrorCode, errors.CodeOf(err))

	_, err = ApplySource("T", "fn f(")
	assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))

	_, err = ApplySource("T:: ::", "")
	assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))

	for _, decl := range []string{"T: Clone U: Debug", "T U"} {
		_, err = ApplySource(decl, "fn f(t: T, u: U) {}")
		require.Error(t, err, decl)
		assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err), decl)
	}
}
