package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/toyz/modgen/internal/generics"
	"github.com/toyz/modgen/internal/syntax"
)

func model(t *testing.T, decl string) *generics.Model {
	t.Helper()
	d, err := syntax.ParseDeclaration("<test>", decl)
	require.NoError(t, err)
	m, err := generics.Build(d)
	require.NoError(t, err)
	return m
}

func rewrite(t *testing.T, decl, src string, opts ...Option) string {
	t.Helper()
	items, err := syntax.ParseItems("<test>", src)
	require.NoError(t, err)
	New(model(t, decl), opts...).Items(items)
	return syntax.RenderItems(items)
}

func TestRewriter_Functions(t *testing.T) {
	tests := []struct {
		name     string
		decl     string
		input    string
		expected string
	}{
		{
			name:     "parameter use",
			decl:     "T: Clone",
			input:    "fn show(t: T) {}\n",
			expected: "fn show<T: Clone>(t: T) {}\n",
		},
		{
			name:     "return use",
			decl:     "T: Default",
			input:    "fn make() -> Vec<T> {\n    Vec::new()\n}\n",
			expected: "fn make<T: Default>() -> Vec<T> {\n    Vec::new()\n}\n",
		},
		{
			name:     "unused generics stay out",
			decl:     "T: Clone, U",
			input:    "fn plain(x: u8) -> u8 {\n    x\n}\n",
			expected: "fn plain(x: u8) -> u8 {\n    x\n}\n",
		},
		{
			name:     "transitive dependency",
			decl:     "T, U: SomeTrait<T>",
			input:    "fn f(u: U) {}\n",
			expected: "fn f<T, U: SomeTrait<T>>(u: U) {}\n",
		},
		{
			name:     "existing parameter gains missing bounds",
			decl:     "T: Clone",
			input:    "fn f<T: Debug>(t: T) {}\n",
			expected: "fn f<T: Debug + Clone>(t: T) {}\n",
		},
		{
			name:     "existing bound is not repeated",
			decl:     "T: Clone + Send",
			input:    "fn f<T: Clone>(t: T) {}\n",
			expected: "fn f<T: Clone + Send>(t: T) {}\n",
		},
		{
			name:     "existing parameters keep their position",
			decl:     "T: Clone, U",
			input:    "fn f<U>() where U: Into<T> {}\n",
			expected: "fn f<U, T: Clone>() where U: Into<T> {}\n",
		},
		{
			name:     "associated path alone is not a use",
			decl:     "T: Iterator",
			input:    "fn f(x: T::Item) {}\n",
			expected: "fn f(x: T::Item) {}\n",
		},
		{
			name:     "declaration without body",
			decl:     "T",
			input:    "extern fn f(t: *const T);\n",
			expected: "extern fn f<T>(t: *const T);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rewrite(t, tt.decl, tt.input))
		})
	}
}

func TestRewriter_Predicates(t *testing.T) {
	input := "fn a(t: T) {}\n\nfn b(t: T, v: V) {}\n"
	expected := "fn a<T>(t: T) {}\n\nfn b<T, V>(t: T, v: V) where T: From<V> {}\n"
	assert.Equal(t, expected, rewrite(t, "T, V where T: From<V>", input))

	t.Run("existing predicate is not repeated", func(t *testing.T) {
		input := "fn b<T, V>(t: T, v: V) where T: From<V> {}\n"
		assert.Equal(t, input, rewrite(t, "T, V where T: From<V>", input))
	})

	t.Run("predicate without declared names applies everywhere", func(t *testing.T) {
		assert.Equal(t,
			"fn f() where String: Default {}\n",
			rewrite(t, "T where String: Default", "fn f() {}\n"))
	})

	t.Run("predicates follow declaration order", func(t *testing.T) {
		assert.Equal(t,
			"fn f<T>(t: T) where T: Send, T: Sync {}\n",
			rewrite(t, "T where T: Send, T: Sync", "fn f(t: T) {}\n"))
	})
}

func TestRewriter_Impl(t *testing.T) {
	input := `impl<T> Foo<T> {
    fn get(&self) -> T {
        self.0.clone()
    }
    fn with(&self, u: U) {}
}
`
	expected := `impl<T: Clone> Foo<T> {
    fn get(&self) -> T {
        self.0.clone()
    }
    fn with<U: Debug>(&self, u: U) {}
}
`
	assert.Equal(t, expected, rewrite(t, "T: Clone, U: Debug", input))

	t.Run("trait arguments and self type are uses", func(t *testing.T) {
		input := "impl From<T> for Wrapper<U> {\n    fn from(t: T) -> Self {\n        todo!()\n    }\n}\n"
		expected := "impl<T: Clone, U> From<T> for Wrapper<U> {\n    fn from(t: T) -> Self {\n        todo!()\n    }\n}\n"
		assert.Equal(t, expected, rewrite(t, "T: Clone, U", input))
	})

	t.Run("associated types", func(t *testing.T) {
		input := "impl Family for Vecs {\n    type Member<U> = Vec<U>;\n}\n"
		expected := "impl Family for Vecs {\n    type Member<U: Clone> = Vec<U> where U: Send;\n}\n"
		assert.Equal(t, expected, rewrite(t, "U: Clone where U: Send", input))
	})
}

func TestRewriter_Trait(t *testing.T) {
	t.Run("members receive what the header lacks", func(t *testing.T) {
		input := "trait Store {\n    fn put(&mut self, value: T);\n}\n"
		expected := "trait Store {\n    fn put<T: Clone>(&mut self, value: T);\n}\n"
		assert.Equal(t, expected, rewrite(t, "T: Clone", input))
	})

	t.Run("header parameters are skipped in members", func(t *testing.T) {
		input := "trait Store<T> {\n    fn put(&mut self, value: T);\n}\n"
		expected := "trait Store<T: Clone> {\n    fn put(&mut self, value: T);\n}\n"
		assert.Equal(t, expected, rewrite(t, "T: Clone", input))
	})
}

func TestRewriter_Modules(t *testing.T) {
	input := "mod inner {\n    fn f(t: T) {}\n\n    mod outside;\n}\n"
	expected := "mod inner {\n    fn f<T: Clone>(t: T) {}\n\n    mod outside;\n}\n"
	assert.Equal(t, expected, rewrite(t, "T: Clone", input))
}

func TestRewriter_TypeDefinitions(t *testing.T) {
	braced := "struct Wrapper<T> {\n    inner: T,\n}\n"
	tuple := "struct Pair<T>(T, T);\n"

	assert.Equal(t, braced, rewrite(t, "T: Clone where T: Send", braced), "disabled by default")

	assert.Equal(t,
		"struct Wrapper<T: Clone> where T: Send {\n    inner: T,\n}\n",
		rewrite(t, "T: Clone where T: Send", braced, WithTypeDefinitions(true)))

	assert.Equal(t,
		"struct Pair<T: Clone>(T, T);\n",
		rewrite(t, "T: Clone where T: Send", tuple, WithTypeDefinitions(true)))
}

func TestRewriter_OtherItemsUntouched(t *testing.T) {
	input := "use std::fmt::Debug;\n\nconst LIMIT: usize = 4;\n\nmacro_rules! noop {\n    () => {};\n}\n"
	assert.Equal(t, input, rewrite(t, "T: Debug", input))
}

func TestRewriter_Idempotent(t *testing.T) {
	decl := "T: Clone, U: From<T> where T: Send, String: Default"
	input := `fn a(u: U) {}

trait Store<T> {
    fn put(&mut self, value: T, other: U);
}

impl<T> Store<T> for Map<T> {
    fn put(&mut self, value: T, other: U) {}
}
`
	m := model(t, decl)
	items, err := syntax.ParseItems("<test>", input)
	require.NoError(t, err)

	r := New(m)
	r.Items(items)
	once := syntax.RenderItems(items)

	r.Items(items)
	assert.Equal(t, once, syntax.RenderItems(items), "second pass over the same tree")

	reparsed, err := syntax.ParseItems("<test>", once)
	require.NoError(t, err)
	New(m).Items(reparsed)
	assert.Equal(t, once, syntax.RenderItems(reparsed), "pass over the printed output")
}

func TestRewriter_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	items, err := syntax.ParseItems("<test>", "fn show<T>(t: T, u: U) where T: Copy {}\n")
	require.NoError(t, err)
	New(model(t, "T: Clone, U where T: Send"), WithLogger(zap.New(core))).Items(items)

	injected := logs.FilterMessage("injected generic parameter").All()
	require.Len(t, injected, 1)
	assert.Equal(t, "fn show", injected[0].ContextMap()["site"])
	assert.Equal(t, "U", injected[0].ContextMap()["generic"])

	bounds := logs.FilterMessage("added bound").All()
	require.Len(t, bounds, 1)
	assert.Equal(t, "Clone", bounds[0].ContextMap()["bound"])

	preds := logs.FilterMessage("added predicate").All()
	require.Len(t, preds, 1)
	assert.Equal(t, "T: Send", preds[0].ContextMap()["predicate"])
}
