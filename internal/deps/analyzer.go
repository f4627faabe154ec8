// Package deps finds which declared generic parameter names a piece of
// syntax refers to.
//
// A name counts as referenced when it appears as a bare type (a path of one
// segment with no arguments, no qualified self and no leading `::`), or as
// the name of a type parameter in a generics list. `T::Assoc` and
// `<T as Trait>::Assoc` do not count as references to T by themselves;
// `Vec<T>` does, through its argument.
package deps

import "github.com/toyz/modgen/internal/syntax"

// Analyzer reports references to a fixed set of declared names.
type Analyzer struct {
	declared Set
}

// New returns an analyzer for the given declared names.
func New(declared Set) *Analyzer {
	return &Analyzer{declared: declared}
}

// Declared returns the names the analyzer looks for.
func (a *Analyzer) Declared() Set {
	return a.declared
}

// Type returns the declared names referenced by a type.
func (a *Analyzer) Type(t *syntax.Type) Set {
	v := a.visitor()
	v.typ(t)
	return v.found
}

// Bounds returns the declared names referenced by a bound list.
func (a *Analyzer) Bounds(bounds []*syntax.Bound) Set {
	v := a.visitor()
	v.bounds(bounds)
	return v.found
}

// Predicate returns the declared names referenced by a where predicate.
func (a *Analyzer) Predicate(p *syntax.WherePredicate) Set {
	v := a.visitor()
	v.predicate(p)
	return v.found
}

// Generics returns the declared names referenced by a generics list and
// its where clause. Either may be nil.
func (a *Analyzer) Generics(g *syntax.Generics, w *syntax.WhereClause) Set {
	v := a.visitor()
	v.generics(g)
	v.where(w)
	return v.found
}

// PathArguments returns the declared names referenced by the arguments of
// a path segment.
func (a *Analyzer) PathArguments(args *syntax.PathArguments) Set {
	v := a.visitor()
	v.pathArgs(args)
	return v.found
}

func (a *Analyzer) visitor() *visitor {
	return &visitor{declared: a.declared, found: NewSet()}
}

type visitor struct {
	declared Set
	found    Set
}

func (v *visitor) mark(name string) {
	if v.declared.Has(name) {
		v.found.Add(name)
	}
}

func (v *visitor) typ(t *syntax.Type) {
	switch {
	case t == nil:
	case t.Ref != nil:
		v.typ(t.Ref.Elem)
	case t.Ptr != nil:
		v.typ(t.Ptr.Elem)
	case t.Slice != nil:
		v.typ(t.Slice.Elem)
	case t.Tuple != nil:
		for _, elem := range t.Tuple.Elems {
			v.typ(elem)
		}
	case t.FnPtr != nil:
		for _, param := range t.FnPtr.Params {
			v.typ(param.Type)
		}
		v.typ(t.FnPtr.Output)
	case t.Impl != nil:
		v.bounds(t.Impl.Bounds)
	case t.Dyn != nil:
		v.bounds(t.Dyn.Bounds)
	case t.Path != nil:
		v.typePath(t.Path)
	}
}

func (v *visitor) typePath(tp *syntax.TypePath) {
	if tp.QSelf == nil {
		if name, ok := tp.Path.Ident(); ok {
			v.mark(name)
		}
	} else {
		v.typ(tp.QSelf.Type)
		v.path(tp.QSelf.Trait)
	}
	v.path(tp.Path)
}

func (v *visitor) path(p *syntax.Path) {
	if p == nil {
		return
	}
	for _, seg := range p.Segments {
		v.pathArgs(seg.Args)
	}
}

func (v *visitor) pathArgs(args *syntax.PathArguments) {
	switch {
	case args == nil:
	case args.Angle != nil:
		for _, arg := range args.Angle.Args {
			switch {
			case arg.Binding != nil:
				v.typ(arg.Binding.Type)
				v.bounds(arg.Binding.Bounds)
			case arg.Type != nil:
				v.typ(arg.Type)
			}
		}
	case args.Paren != nil:
		for _, in := range args.Paren.Inputs {
			v.typ(in)
		}
		v.typ(args.Paren.Output)
	}
}

// A bound written as a bare declared name (`B: A`) counts as a use of A.
func (v *visitor) bounds(bounds []*syntax.Bound) {
	for _, b := range bounds {
		if b.Trait == nil {
			continue
		}
		if name, ok := b.Trait.Path.Ident(); ok {
			v.mark(name)
		}
		v.path(b.Trait.Path)
	}
}

// Lifetime and const parameters are not followed into.
func (v *visitor) generics(g *syntax.Generics) {
	for _, tp := range g.TypeParams() {
		v.mark(tp.Name)
		v.bounds(tp.Bounds)
		v.typ(tp.Default)
	}
}

func (v *visitor) where(w *syntax.WhereClause) {
	if w == nil {
		return
	}
	for _, p := range w.Predicates {
		v.predicate(p)
	}
}

func (v *visitor) predicate(p *syntax.WherePredicate) {
	if p == nil || p.Type == nil {
		return
	}
	v.typ(p.Type.Type)
	v.bounds(p.Type.Bounds)
}
