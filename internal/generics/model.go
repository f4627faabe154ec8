// Package generics builds the module generics model: the declared type
// parameters, their bounds, the declared where predicates, and the
// dependency graph between parameters.
package generics

import (
	"fmt"

	"github.com/toyz/modgen/internal/deps"
	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/internal/syntax"
)

// Predicate is a declared where predicate together with the declared names
// it mentions.
type Predicate struct {
	Predicate *syntax.WherePredicate
	Mentions  deps.Set
}

// Model is built once per module and is read-only afterwards.
type Model struct {
	names      []string
	declared   deps.Set
	bounds     map[string][]*syntax.Bound
	direct     map[string]deps.Set
	predicates []Predicate
	analyzer   *deps.Analyzer
}

// Build constructs a model from a declaration. Only type parameters may be
// declared: a lifetime or const parameter, a default, or a name declared
// twice is rejected.
func Build(decl *syntax.Declaration) (*Model, error) {
	m := &Model{
		declared: deps.NewSet(),
		bounds:   make(map[string][]*syntax.Bound),
		direct:   make(map[string]deps.Set),
	}
	if decl == nil {
		decl = &syntax.Declaration{}
	}

	for _, param := range decl.Params {
		tp := param.Type
		if tp == nil {
			kind := "lifetime"
			if param.Const != nil {
				kind = "const"
			}
			return nil, errors.NewDeclarationError(syntax.Render(param), "module generics must be type parameters, found a "+kind+" parameter").
				WithLocation(syntax.Location(param.Pos)).
				WithSuggestion("declare lifetimes and const parameters on the items that use them")
		}
		if m.declared.Has(tp.Name) {
			return nil, errors.NewDeclarationError(syntax.Render(param), "declared more than once").
				WithLocation(syntax.Location(param.Pos))
		}
		if tp.Default != nil {
			return nil, errors.NewDeclarationError(syntax.Render(param), "module generics cannot have defaults").
				WithLocation(syntax.Location(param.Pos)).
				WithSuggestion(fmt.Sprintf("remove the default from '%s'", tp.Name))
		}
		m.names = append(m.names, tp.Name)
		m.declared.Add(tp.Name)
		m.bounds[tp.Name] = tp.Bounds
	}

	m.analyzer = deps.New(m.declared)
	for _, tp := range (&syntax.Generics{Params: decl.Params}).TypeParams() {
		direct := m.analyzer.Bounds(tp.Bounds)
		delete(direct, tp.Name)
		m.direct[tp.Name] = direct
	}
	if decl.Where != nil {
		for _, pred := range decl.Where.Predicates {
			m.predicates = append(m.predicates, Predicate{
				Predicate: pred,
				Mentions:  m.analyzer.Predicate(pred),
			})
		}
	}
	return m, nil
}

// Names returns the declared type parameter names in declaration order.
func (m *Model) Names() []string {
	return m.names
}

// Declared returns the declared names as a set.
func (m *Model) Declared() deps.Set {
	return m.declared
}

// IsDeclared reports whether name is a declared type parameter.
func (m *Model) IsDeclared(name string) bool {
	return m.declared.Has(name)
}

// Analyzer returns the dependency analyzer for the declared names.
func (m *Model) Analyzer() *deps.Analyzer {
	return m.analyzer
}

// Bounds returns the declared bounds of name in declaration order.
func (m *Model) Bounds(name string) []*syntax.Bound {
	return m.bounds[name]
}

// Predicates returns every declared predicate in declaration order.
func (m *Model) Predicates() []Predicate {
	return m.predicates
}

// Dependencies returns the declared names other than name itself that
// appear in the bounds of name.
func (m *Model) Dependencies(name string) deps.Set {
	if d, ok := m.direct[name]; ok {
		return d
	}
	return deps.NewSet()
}

// TransitiveDependencies returns every declared name reachable from name
// through bounds. name itself is included only when it lies on a cycle.
func (m *Model) TransitiveDependencies(name string) deps.Set {
	out := deps.NewSet()
	queue := m.Dependencies(name).Sorted()
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if out.Has(next) {
			continue
		}
		out.Add(next)
		queue = append(queue, m.Dependencies(next).Sorted()...)
	}
	return out
}

// Closure returns names together with everything they transitively depend
// on. Names that are not declared are dropped.
func (m *Model) Closure(names deps.Set) deps.Set {
	out := deps.NewSet()
	for name := range names {
		if !m.IsDeclared(name) {
			continue
		}
		out.Add(name)
		out = out.Union(m.TransitiveDependencies(name))
	}
	return out
}

// ApplicablePredicates returns, in declaration order, the predicates whose
// mentioned names all belong to names. Predicates that mention no declared
// name apply everywhere.
func (m *Model) ApplicablePredicates(names deps.Set) []*syntax.WherePredicate {
	var out []*syntax.WherePredicate
	for _, p := range m.predicates {
		if p.Mentions.SubsetOf(names) {
			out = append(out, p.Predicate)
		}
	}
	return out
}
