// Package rewrite injects module generics into the items of a module.
//
// Each generic site (a function signature, a trait header, an impl header,
// an associated type, and optionally a type definition) receives the
// declared parameters it uses, everything those parameters depend on, the
// declared bounds of every declared parameter it carries, and the declared
// where predicates whose names it now has. Inside a trait or impl the
// parameters the block already carries are not injected again into its
// members.
package rewrite

import (
	"go.uber.org/zap"

	"github.com/toyz/modgen/internal/deps"
	"github.com/toyz/modgen/internal/generics"
	"github.com/toyz/modgen/internal/syntax"
)

// Rewriter walks items and mutates their generic sites in place.
// Rewriting the same tree twice changes nothing the second time.
type Rewriter struct {
	model    *generics.Model
	skip     deps.Set
	typeDefs bool
	logger   *zap.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithLogger sets the logger used for per-site debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Rewriter) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTypeDefinitions enables expansion of struct, enum and union generics.
func WithTypeDefinitions(enabled bool) Option {
	return func(r *Rewriter) {
		r.typeDefs = enabled
	}
}

// New returns a rewriter for a module with an empty skip set.
func New(model *generics.Model, opts ...Option) *Rewriter {
	r := &Rewriter{
		model:  model,
		skip:   deps.NewSet(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Skips reports whether the rewriter leaves name alone.
func (r *Rewriter) Skips(name string) bool {
	return r.skip.Has(name)
}

// scoped returns a rewriter for the members of a trait or impl whose final
// generics list is g.
func (r *Rewriter) scoped(g *syntax.Generics) *Rewriter {
	skip := deps.NewSet()
	for _, name := range g.TypeParamNames() {
		if r.model.IsDeclared(name) {
			skip.Add(name)
		}
	}
	return &Rewriter{
		model:    r.model,
		skip:     skip,
		typeDefs: r.typeDefs,
		logger:   r.logger,
	}
}

// Items rewrites each item in order.
func (r *Rewriter) Items(items []*syntax.Item) {
	for _, it := range items {
		r.Item(it)
	}
}

// Item rewrites a single item according to its kind. Items of other kinds
// are left unchanged.
func (r *Rewriter) Item(it *syntax.Item) {
	switch it.Kind() {
	case syntax.FunctionItem:
		r.Function(it.Fn)
	case syntax.TraitItem:
		r.Trait(it.Trait)
	case syntax.ImplItem:
		r.Impl(it.Impl)
	case syntax.ModuleItem:
		r.Module(it.Mod)
	case syntax.TypeDefItem:
		if r.typeDefs {
			r.TypeDef(it.TypeDef)
		}
	}
}

// Function expands a function's generics. Parameter and return types count
// as uses.
func (r *Rewriter) Function(fn *syntax.Function) {
	a := r.model.Analyzer()
	seed := deps.NewSet()
	for _, arg := range fn.Params {
		if arg.Typed != nil {
			seed = seed.Union(a.Type(arg.Typed.Type))
		}
	}
	seed = seed.Union(a.Type(fn.Output))

	r.expandSite("fn "+fn.Name, &fn.Generics, &fn.Where, seed)
}

// Trait expands the trait header, then its members with the trait's own
// declared parameters skipped.
func (r *Rewriter) Trait(t *syntax.Trait) {
	r.expandSite("trait "+t.Name, &t.Generics, &t.Where, nil)

	inner := r.scoped(t.Generics)
	for _, it := range t.Items {
		inner.AssocItem(it)
	}
}

// Impl expands the impl header, treating the trait's arguments and the
// self type as uses, then its members with the impl's declared parameters
// skipped.
func (r *Rewriter) Impl(im *syntax.Impl) {
	a := r.model.Analyzer()
	seed := a.Type(im.SelfType)
	if last := im.Trait.Last(); last != nil {
		seed = seed.Union(a.PathArguments(last.Args))
	}

	r.expandSite("impl "+syntax.Render(im.SelfType), &im.Generics, &im.Where, seed)

	inner := r.scoped(im.Generics)
	for _, it := range im.Items {
		inner.AssocItem(it)
	}
}

// AssocItem rewrites a member of a trait or impl.
func (r *Rewriter) AssocItem(it *syntax.AssocItem) {
	switch {
	case it.Fn != nil:
		r.Function(it.Fn)
	case it.Type != nil:
		r.expandSite("type "+it.Type.Name, &it.Type.Generics, it.Type.WhereSlot(), nil)
	}
}

// Module rewrites the items of an inline module with the same skip set.
// Out-of-line module declarations are left alone.
func (r *Rewriter) Module(m *syntax.Module) {
	if m.Body == nil {
		return
	}
	r.Items(m.Body.Items)
}

// TypeDef expands the generics of a struct, enum or union. Tuple structs
// keep their where clause after the fields, so they receive parameters and
// bounds but no predicates.
func (r *Rewriter) TypeDef(td *syntax.TypeDef) {
	var where **syntax.WhereClause
	if !td.TupleForm() {
		where = &td.Where
	}
	r.expandSite(td.Keyword+" "+td.Name, &td.Generics, where, nil)
}
