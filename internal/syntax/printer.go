package syntax

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

const indentUnit = "    "

// Render prints a node in canonical form. Opaque regions (bodies, patterns,
// attributes, verbatim items) are printed as written, re-indented to the
// depth they are printed at; everything else uses single spaces and `, `
// separators. Two bounds or predicates are
// the same exactly when they render to the same string.
func Render(node any) string {
	p := &printer{}
	switch n := node.(type) {
	case *File:
		p.items(n.Items)
		if len(n.Items) > 0 {
			p.str("\n")
		}
	case []*Item:
		p.items(n)
	case *Item:
		p.item(n)
	case *AssocItem:
		p.assocItem(n)
	case *Declaration:
		p.declaration(n)
	case *Generics:
		p.generics(n)
	case *GenericParam:
		p.genericParam(n)
	case *WhereClause:
		p.where(n)
	case *WherePredicate:
		p.predicate(n)
	case *Bound:
		p.bound(n)
	case *Type:
		p.typ(n)
	case *Path:
		p.path(n)
	default:
		panic(fmt.Sprintf("syntax: cannot render %T", node))
	}
	return p.b.String()
}

// RenderItems prints a list of items followed by a newline.
func RenderItems(items []*Item) string {
	return Render(&File{Items: items})
}

type printer struct {
	b     strings.Builder
	depth int
	// base is the source column, counted from zero, of the item being
	// printed. Lines of raw text after the first are moved from base to
	// the current depth.
	base int
}

func (p *printer) str(s string) { p.b.WriteString(s) }

func (p *printer) raw(r raw) {
	for i, line := range strings.Split(r.text, "\n") {
		if i > 0 {
			p.b.WriteByte('\n')
			if !r.fixed[i] {
				line = dedent(line, p.base)
				if line != "" {
					p.b.WriteString(strings.Repeat(indentUnit, p.depth))
				}
			}
		}
		p.b.WriteString(line)
	}
}

// dedent removes up to n leading blanks from line.
func dedent(line string, n int) string {
	i := 0
	for i < n && i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	line = line[i:]
	if strings.TrimSpace(line) == "" {
		return ""
	}
	return line
}

// at sets base from an item position and returns a func restoring it.
func (p *printer) at(pos lexer.Position) func() {
	saved := p.base
	if pos.Column > 0 {
		p.base = pos.Column - 1
	}
	return func() { p.base = saved }
}

func (p *printer) newline() {
	p.b.WriteByte('\n')
	p.b.WriteString(strings.Repeat(indentUnit, p.depth))
}

func (p *printer) blankLine() {
	p.b.WriteByte('\n')
	p.newline()
}

func (p *printer) items(items []*Item) {
	for i, it := range items {
		if i > 0 {
			p.blankLine()
		}
		p.item(it)
	}
}

func (p *printer) attrs(attrs []*Attribute) {
	for _, a := range attrs {
		if a.Doc != "" {
			p.str(a.Doc)
		} else {
			p.raw(a.raw)
		}
		p.newline()
	}
}

func (p *printer) vis(v *Visibility) {
	if v == nil {
		return
	}
	p.str("pub")
	if v.Restriction != nil {
		p.raw(v.Restriction.raw)
	}
	p.str(" ")
}

func (p *printer) item(it *Item) {
	defer p.at(it.Pos)()
	p.attrs(it.Attrs)
	p.vis(it.Vis)
	switch it.Kind() {
	case FunctionItem:
		p.function(it.Fn)
	case TraitItem:
		p.trait(it.Trait)
	case ImplItem:
		p.impl(it.Impl)
	case ModuleItem:
		p.module(it.Mod)
	case TypeDefItem:
		p.typeDef(it.TypeDef)
	default:
		if it.Other != nil {
			p.raw(it.Other.raw)
		}
	}
}

func (p *printer) assocItem(it *AssocItem) {
	defer p.at(it.Pos)()
	p.attrs(it.Attrs)
	p.vis(it.Vis)
	switch {
	case it.Fn != nil:
		p.function(it.Fn)
	case it.Type != nil:
		p.assocType(it.Type)
	case it.Other != nil:
		p.raw(it.Other.raw)
	}
}

func (p *printer) function(fn *Function) {
	for _, q := range fn.Qualifiers {
		p.str(q)
		p.str(" ")
	}
	p.str("fn ")
	p.str(fn.Name)
	p.generics(fn.Generics)
	p.str("(")
	for i, arg := range fn.Params {
		if i > 0 {
			p.str(", ")
		}
		p.fnArg(arg)
	}
	p.str(")")
	if fn.Output != nil {
		p.str(" -> ")
		p.typ(fn.Output)
	}
	p.whereClause(fn.Where)
	if fn.Body == nil {
		p.str(";")
		return
	}
	p.str(" ")
	p.raw(fn.Body.raw)
}

func (p *printer) fnArg(arg *FnArg) {
	for _, a := range arg.Attrs {
		p.raw(a.raw)
		p.str(" ")
	}
	if r := arg.Receiver; r != nil {
		if r.Ref {
			p.str("&")
			if r.Lifetime != "" {
				p.str(r.Lifetime)
				p.str(" ")
			}
		}
		if r.Mut {
			p.str("mut ")
		}
		p.str("self")
		if r.Type != nil {
			p.str(": ")
			p.typ(r.Type)
		}
		return
	}
	if arg.Typed != nil {
		p.raw(arg.Typed.Pattern.raw)
		p.str(": ")
		p.typ(arg.Typed.Type)
	}
}

func (p *printer) trait(t *Trait) {
	if t.Unsafe {
		p.str("unsafe ")
	}
	if t.Auto {
		p.str("auto ")
	}
	p.str("trait ")
	p.str(t.Name)
	p.generics(t.Generics)
	if len(t.Supertraits) > 0 {
		p.str(": ")
		p.bounds(t.Supertraits)
	}
	p.whereClause(t.Where)
	p.assocBody(t.Items)
}

func (p *printer) impl(im *Impl) {
	if im.Default {
		p.str("default ")
	}
	if im.Unsafe {
		p.str("unsafe ")
	}
	p.str("impl")
	p.generics(im.Generics)
	p.str(" ")
	if im.Trait != nil {
		if im.Negative {
			p.str("!")
		}
		p.path(im.Trait)
		p.str(" for ")
	}
	p.typ(im.SelfType)
	p.whereClause(im.Where)
	p.assocBody(im.Items)
}

func (p *printer) assocBody(items []*AssocItem) {
	if len(items) == 0 {
		p.str(" {}")
		return
	}
	p.str(" {")
	p.depth++
	for _, it := range items {
		p.newline()
		p.assocItem(it)
	}
	p.depth--
	p.newline()
	p.str("}")
}

func (p *printer) assocType(t *AssocType) {
	if t.Default {
		p.str("default ")
	}
	p.str("type ")
	p.str(t.Name)
	p.generics(t.Generics)
	if len(t.Bounds) > 0 {
		p.str(": ")
		p.bounds(t.Bounds)
	}
	p.whereClause(t.Where)
	if t.Value != nil {
		p.str(" = ")
		p.typ(t.Value)
	}
	p.whereClause(t.TrailingWhere)
	p.str(";")
}

func (p *printer) module(m *Module) {
	p.str("mod ")
	p.str(m.Name)
	if m.Body == nil {
		p.str(";")
		return
	}
	if len(m.Body.Items) == 0 {
		p.str(" {}")
		return
	}
	p.str(" {")
	p.depth++
	p.newline()
	p.items(m.Body.Items)
	p.depth--
	p.newline()
	p.str("}")
}

func (p *printer) typeDef(t *TypeDef) {
	p.str(t.Keyword)
	p.str(" ")
	p.str(t.Name)
	p.generics(t.Generics)
	p.whereClause(t.Where)
	if strings.HasPrefix(t.Body.Text(), "{") {
		p.str(" ")
	}
	p.raw(t.Body.raw)
}

func (p *printer) declaration(d *Declaration) {
	for i, param := range d.Params {
		if i > 0 {
			p.str(", ")
		}
		p.genericParam(param)
	}
	if d.Where != nil && len(d.Where.Predicates) > 0 {
		if len(d.Params) > 0 {
			p.str(" ")
		}
		p.where(d.Where)
	}
}

func (p *printer) generics(g *Generics) {
	if g == nil || len(g.Params) == 0 {
		return
	}
	p.str("<")
	for i, param := range g.Params {
		if i > 0 {
			p.str(", ")
		}
		p.genericParam(param)
	}
	p.str(">")
}

func (p *printer) genericParam(g *GenericParam) {
	switch {
	case g.Lifetime != nil:
		p.str(g.Lifetime.Name)
		if len(g.Lifetime.Bounds) > 0 {
			p.str(": ")
			p.str(strings.Join(g.Lifetime.Bounds, " + "))
		}
	case g.Const != nil:
		p.str("const ")
		p.str(g.Const.Name)
		p.str(": ")
		p.typ(g.Const.Type)
		if g.Const.Default != nil {
			p.str(" = ")
			p.raw(g.Const.Default.raw)
		}
	case g.Type != nil:
		p.str(g.Type.Name)
		if len(g.Type.Bounds) > 0 {
			p.str(": ")
			p.bounds(g.Type.Bounds)
		}
		if g.Type.Default != nil {
			p.str(" = ")
			p.typ(g.Type.Default)
		}
	}
}

// whereClause prints a leading space and the clause, or nothing when the
// clause is absent or empty.
func (p *printer) whereClause(w *WhereClause) {
	if w == nil || len(w.Predicates) == 0 {
		return
	}
	p.str(" ")
	p.where(w)
}

func (p *printer) where(w *WhereClause) {
	p.str("where ")
	for i, pred := range w.Predicates {
		if i > 0 {
			p.str(", ")
		}
		p.predicate(pred)
	}
}

func (p *printer) predicate(w *WherePredicate) {
	switch {
	case w.Lifetime != nil:
		p.str(w.Lifetime.Lifetime)
		p.str(":")
		if len(w.Lifetime.Bounds) > 0 {
			p.str(" ")
			p.str(strings.Join(w.Lifetime.Bounds, " + "))
		}
	case w.Type != nil:
		p.forLifetimes(w.Type.ForLifetimes)
		p.typ(w.Type.Type)
		p.str(":")
		if len(w.Type.Bounds) > 0 {
			p.str(" ")
			p.bounds(w.Type.Bounds)
		}
	}
}

func (p *printer) forLifetimes(lifetimes []string) {
	if len(lifetimes) == 0 {
		return
	}
	p.str("for<")
	p.str(strings.Join(lifetimes, ", "))
	p.str("> ")
}

func (p *printer) bounds(bounds []*Bound) {
	for i, b := range bounds {
		if i > 0 {
			p.str(" + ")
		}
		p.bound(b)
	}
}

func (p *printer) bound(b *Bound) {
	if b.Lifetime != "" {
		p.str(b.Lifetime)
		return
	}
	if b.Trait == nil {
		return
	}
	p.forLifetimes(b.Trait.ForLifetimes)
	if b.Trait.Maybe {
		p.str("?")
	}
	p.path(b.Trait.Path)
}

func (p *printer) typ(t *Type) {
	switch {
	case t == nil:
	case t.Never:
		p.str("!")
	case t.Infer:
		p.str("_")
	case t.Ref != nil:
		p.str("&")
		if t.Ref.Lifetime != "" {
			p.str(t.Ref.Lifetime)
			p.str(" ")
		}
		if t.Ref.Mut {
			p.str("mut ")
		}
		p.typ(t.Ref.Elem)
	case t.Ptr != nil:
		p.str("*")
		p.str(t.Ptr.Kind)
		p.str(" ")
		p.typ(t.Ptr.Elem)
	case t.Slice != nil:
		p.str("[")
		p.typ(t.Slice.Elem)
		if t.Slice.Len != nil {
			p.str("; ")
			p.raw(t.Slice.Len.raw)
		}
		p.str("]")
	case t.Tuple != nil:
		p.str("(")
		for i, elem := range t.Tuple.Elems {
			if i > 0 {
				p.str(", ")
			}
			p.typ(elem)
		}
		if t.Tuple.Trailing {
			p.str(",")
		}
		p.str(")")
	case t.FnPtr != nil:
		p.fnPtr(t.FnPtr)
	case t.Impl != nil:
		p.str("impl ")
		p.bounds(t.Impl.Bounds)
	case t.Dyn != nil:
		p.str("dyn ")
		p.bounds(t.Dyn.Bounds)
	case t.Path != nil:
		if q := t.Path.QSelf; q != nil {
			p.str("<")
			p.typ(q.Type)
			if q.Trait != nil {
				p.str(" as ")
				p.path(q.Trait)
			}
			p.str(">::")
		}
		p.path(t.Path.Path)
	}
}

func (p *printer) fnPtr(f *FnPtrType) {
	p.forLifetimes(f.ForLifetimes)
	for _, q := range f.Qualifiers {
		p.str(q)
		p.str(" ")
	}
	p.str("fn(")
	for i, param := range f.Params {
		if i > 0 {
			p.str(", ")
		}
		if param.Name != "" {
			p.str(param.Name)
			p.str(": ")
		}
		p.typ(param.Type)
	}
	p.str(")")
	if f.Output != nil {
		p.str(" -> ")
		p.typ(f.Output)
	}
}

func (p *printer) path(path *Path) {
	if path == nil {
		return
	}
	if path.Global {
		p.str("::")
	}
	for i, seg := range path.Segments {
		if i > 0 {
			p.str("::")
		}
		p.str(seg.Name)
		p.pathArgs(seg.Args)
	}
}

func (p *printer) pathArgs(a *PathArguments) {
	switch {
	case a == nil:
	case a.Angle != nil:
		if a.Angle.Turbofish {
			p.str("::")
		}
		p.str("<")
		for i, arg := range a.Angle.Args {
			if i > 0 {
				p.str(", ")
			}
			p.genericArg(arg)
		}
		p.str(">")
	case a.Paren != nil:
		p.str("(")
		for i, in := range a.Paren.Inputs {
			if i > 0 {
				p.str(", ")
			}
			p.typ(in)
		}
		p.str(")")
		if a.Paren.Output != nil {
			p.str(" -> ")
			p.typ(a.Paren.Output)
		}
	}
}

func (p *printer) genericArg(a *GenericArg) {
	switch {
	case a.Lifetime != "":
		p.str(a.Lifetime)
	case a.Binding != nil:
		p.str(a.Binding.Name)
		if a.Binding.Type != nil {
			p.str(" = ")
			p.typ(a.Binding.Type)
		} else {
			p.str(": ")
			p.bounds(a.Binding.Bounds)
		}
	case a.Type != nil:
		p.typ(a.Type)
	case a.Const != nil:
		p.raw(a.Const.raw)
	}
}
