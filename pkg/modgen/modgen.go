// Package modgen applies module generics: a generic parameter list declared
// once on an inline module is added to every item inside the module that
// uses it.
//
//	#[module_generics(T: Clone, U: From<T> where T: Send)]
//	mod shared {
//	    fn copy(t: &T) -> U { U::from(t.clone()) }
//	}
//
// expands to
//
//	mod shared {
//	    fn copy<T: Clone, U: From<T>>(t: &T) -> U where T: Send { U::from(t.clone()) }
//	}
//
// A module named with the placeholder (`__` by default) is replaced by its
// items.
package modgen

import (
	"go.uber.org/zap"

	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/internal/generics"
	"github.com/toyz/modgen/internal/rewrite"
	"github.com/toyz/modgen/internal/syntax"
)

const (
	// DefaultAttribute is the attribute that marks a module for expansion.
	DefaultAttribute = "module_generics"
	// DefaultPlaceholder is the module name whose items are spliced into
	// the surrounding scope.
	DefaultPlaceholder = "__"

	// DeclarationSource and ItemsSource are the file names ApplySource
	// reports in error locations.
	DeclarationSource = "<generics>"
	ItemsSource       = "<input>"
)

type config struct {
	attribute   string
	placeholder string
	typeDefs    bool
	logger      *zap.Logger
}

// Option configures an expansion.
type Option func(*config)

// WithAttribute sets the marker attribute name matched by ExpandSource.
func WithAttribute(name string) Option {
	return func(c *config) {
		if name != "" {
			c.attribute = name
		}
	}
}

// WithPlaceholder sets the module name that is flattened into its parent.
func WithPlaceholder(name string) Option {
	return func(c *config) {
		if name != "" {
			c.placeholder = name
		}
	}
}

// WithTypeDefinitions enables expansion of struct, enum and union generics.
func WithTypeDefinitions(enabled bool) Option {
	return func(c *config) {
		c.typeDefs = enabled
	}
}

// WithLogger sets the logger for per-site debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		attribute:   DefaultAttribute,
		placeholder: DefaultPlaceholder,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply rewrites module with the generics in decl and returns the items
// that replace it: the module itself, or its items when it is named with
// the placeholder.
func Apply(decl *syntax.Declaration, module *syntax.Item, opts ...Option) ([]*syntax.Item, error) {
	return apply(newConfig(opts), decl, module)
}

func apply(cfg *config, decl *syntax.Declaration, module *syntax.Item) ([]*syntax.Item, error) {
	if module == nil || module.Mod == nil {
		kind := "nothing"
		if module != nil {
			kind = module.Kind().String()
		}
		return nil, errors.NewStructuralError("", "module generics can only be applied to a module, found "+kind).
			WithLocation(syntax.Location(itemPos(module)))
	}
	if module.Mod.Body == nil {
		return nil, errors.NewStructuralError(module.Mod.Name, "module must have a body").
			WithLocation(syntax.Location(module.Pos)).
			WithSuggestion("declare the module inline: mod " + module.Mod.Name + " { ... }")
	}

	model, err := generics.Build(decl)
	if err != nil {
		return nil, err
	}

	rewrite.New(model,
		rewrite.WithLogger(cfg.logger.With(zap.String("module", module.Mod.Name))),
		rewrite.WithTypeDefinitions(cfg.typeDefs),
	).Module(module.Mod)

	if module.Mod.Name == cfg.placeholder {
		return module.Mod.Body.Items, nil
	}
	return []*syntax.Item{module}, nil
}

// ApplySource parses decl and the items of body, applies the generics to an
// anonymous module holding those items, and prints the result.
func ApplySource(decl, body string, opts ...Option) (string, error) {
	cfg := newConfig(opts)

	d, err := syntax.ParseDeclaration(DeclarationSource, decl)
	if err != nil {
		return "", err
	}
	items, err := syntax.ParseItems(ItemsSource, body)
	if err != nil {
		return "", err
	}

	out, err := apply(cfg, d, syntax.NewModule(cfg.placeholder, items))
	if err != nil {
		return "", err
	}
	return syntax.RenderItems(out), nil
}
