// Package syntax holds the structured tree modgen rewrites, together with the
// grammar that builds it from source text and the printer that turns it back
// into text.
//
// The grammar covers the item-level surface of a Rust-like language: functions,
// traits, impl blocks, inline modules and type definitions, with full type,
// bound and where-clause structure. Function bodies and any item the grammar
// does not model are kept as balanced token trees and printed back exactly as
// they were written.
package syntax

import "github.com/alecthomas/participle/v2/lexer"

// File is a parsed source file.
type File struct {
	Items []*Item `parser:"@@*"`
}

// ItemKind identifies which variant an Item holds.
type ItemKind int

const (
	OtherItem ItemKind = iota
	FunctionItem
	TraitItem
	ImplItem
	ModuleItem
	TypeDefItem
)

// String returns the string representation of the item kind
func (k ItemKind) String() string {
	switch k {
	case FunctionItem:
		return "fn"
	case TraitItem:
		return "trait"
	case ImplItem:
		return "impl"
	case ModuleItem:
		return "mod"
	case TypeDefItem:
		return "type definition"
	default:
		return "item"
	}
}

// Item is a module-level item. Exactly one of the variant fields is set.
type Item struct {
	Pos lexer.Position

	Attrs []*Attribute `parser:"@@*"`
	Vis   *Visibility  `parser:"@@?"`

	Fn      *Function `parser:"( @@"`
	Trait   *Trait    `parser:"| @@"`
	Impl    *Impl     `parser:"| @@"`
	Mod     *Module   `parser:"| @@"`
	TypeDef *TypeDef  `parser:"| @@"`
	Other   *Verbatim `parser:"| @@ )"`
}

// Kind reports which variant the item holds.
func (it *Item) Kind() ItemKind {
	switch {
	case it.Fn != nil:
		return FunctionItem
	case it.Trait != nil:
		return TraitItem
	case it.Impl != nil:
		return ImplItem
	case it.Mod != nil:
		return ModuleItem
	case it.TypeDef != nil:
		return TypeDefItem
	default:
		return OtherItem
	}
}

// Attribute is an outer or inner attribute, or a doc comment.
type Attribute struct {
	Pos    lexer.Position
	Tokens []lexer.Token

	Doc   string       `parser:"  @DocComment"`
	Inner bool         `parser:"| '#' @'!'?"`
	Path  []string     `parser:"  '[' @Ident ( '::' @Ident )*"`
	Args  *Group       `parser:"  @@?"`
	Rest  []*TokenTree `parser:"  @@* ']'"`

	raw raw
}

// Name returns the last segment of the attribute path.
func (a *Attribute) Name() string {
	if len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1]
}

// Visibility is a `pub` marker with an optional restriction.
type Visibility struct {
	Restriction *Group `parser:"'pub' @@?"`
}

// Function is a free or associated function. Body is nil for a declaration
// ending in a semicolon.
type Function struct {
	Qualifiers []string     `parser:"@( 'const' | 'async' | 'unsafe' | 'default' | 'extern' | String )*"`
	Name       string       `parser:"'fn' @Ident"`
	Generics   *Generics    `parser:"@@?"`
	Params     []*FnArg     `parser:"'(' ( @@ ( ',' @@ )* ','? )? ')'"`
	Output     *Type        `parser:"( '->' @@ )?"`
	Where      *WhereClause `parser:"@@?"`
	Body       *Block       `parser:"( @@ | ';' )"`
}

// FnArg is a function parameter: either a self receiver or a typed pattern.
type FnArg struct {
	Attrs    []*Attribute `parser:"@@*"`
	Receiver *Receiver    `parser:"( @@"`
	Typed    *TypedArg    `parser:"| @@ )"`
}

// Receiver is `self`, `&self`, `&'a mut self` or `self: Type`.
type Receiver struct {
	Ref      bool   `parser:"( @'&'"`
	Lifetime string `parser:"  @Lifetime? )?"`
	Mut      bool   `parser:"@'mut'? 'self'"`
	Type     *Type  `parser:"( ':' @@ )?"`
}

// TypedArg is a `pattern: Type` parameter.
type TypedArg struct {
	Pattern *Pattern `parser:"@@ ':'"`
	Type    *Type    `parser:"@@"`
}

// Pattern is a parameter pattern, kept as written.
type Pattern struct {
	Pos    lexer.Position
	Tokens []lexer.Token

	Trees []*PatternToken `parser:"@@+"`

	raw raw
}

// PatternToken is one token tree of a parameter pattern.
type PatternToken struct {
	Group *Group `parser:"  @@"`
	Block *Block `parser:"| @@"`
	Token string `parser:"| @~( ':' | ',' | '(' | ')' | '[' | ']' | '{' | '}' )"`
}

// Trait is a trait definition.
type Trait struct {
	Unsafe      bool         `parser:"@'unsafe'?"`
	Auto        bool         `parser:"@'auto'?"`
	Name        string       `parser:"'trait' @Ident"`
	Generics    *Generics    `parser:"@@?"`
	Supertraits []*Bound     `parser:"( ':' ( @@ ( '+' @@ )* '+'? )? )?"`
	Where       *WhereClause `parser:"@@?"`
	Items       []*AssocItem `parser:"'{' @@* '}'"`
}

// Impl is an inherent or trait impl block.
type Impl struct {
	Default  bool         `parser:"@'default'?"`
	Unsafe   bool         `parser:"@'unsafe'?"`
	Generics *Generics    `parser:"'impl' @@?"`
	Negative bool         `parser:"( @'!'?"`
	Trait    *Path        `parser:"  @@ 'for' )?"`
	SelfType *Type        `parser:"@@"`
	Where    *WhereClause `parser:"@@?"`
	Items    []*AssocItem `parser:"'{' @@* '}'"`
}

// AssocItem is an item nested in a trait or impl body.
type AssocItem struct {
	Pos lexer.Position

	Attrs []*Attribute `parser:"@@*"`
	Vis   *Visibility  `parser:"@@?"`

	Fn    *Function  `parser:"( @@"`
	Type  *AssocType `parser:"| @@"`
	Other *Verbatim  `parser:"| @@ )"`
}

// AssocType is an associated type declaration or definition. A where clause
// may be written before or after the value; the position is kept.
type AssocType struct {
	Default       bool         `parser:"@'default'?"`
	Name          string       `parser:"'type' @Ident"`
	Generics      *Generics    `parser:"@@?"`
	Bounds        []*Bound     `parser:"( ':' ( @@ ( '+' @@ )* '+'? )? )?"`
	Where         *WhereClause `parser:"@@?"`
	Value         *Type        `parser:"( '=' @@ )?"`
	TrailingWhere *WhereClause `parser:"@@? ';'"`
}

// WhereSlot returns the where clause a rewrite should extend. Definitions
// with a value take their clause after it.
func (t *AssocType) WhereSlot() **WhereClause {
	if t.Where != nil || (t.Value == nil && t.TrailingWhere == nil) {
		return &t.Where
	}
	return &t.TrailingWhere
}

// Module is an inline (Body != nil) or out-of-line module declaration.
type Module struct {
	Name string      `parser:"'mod' @Ident"`
	Body *ModuleBody `parser:"( @@ | ';' )"`
}

// ModuleBody holds the items of an inline module.
type ModuleBody struct {
	Items []*Item `parser:"'{' @@* '}'"`
}

// TypeDef is a struct, enum or union definition. Everything after the
// generics and the header where clause is kept as written.
type TypeDef struct {
	Keyword  string       `parser:"@( 'struct' | 'enum' | 'union' )"`
	Name     string       `parser:"@Ident"`
	Generics *Generics    `parser:"@@?"`
	Where    *WhereClause `parser:"@@?"`
	Body     *Verbatim    `parser:"@@"`
}

// TupleForm reports whether the definition is a tuple struct, whose where
// clause follows the field list.
func (t *TypeDef) TupleForm() bool {
	return t.Body != nil && len(t.Body.Head) > 0 && t.Body.Head[0].Group != nil
}

// Generics is a generic parameter list.
type Generics struct {
	Params []*GenericParam `parser:"'<' ( @@ ( ',' @@ )* ','? )? '>'"`
}

// GenericParam is a lifetime, const or type parameter.
type GenericParam struct {
	Pos lexer.Position

	Lifetime *LifetimeParam `parser:"  @@"`
	Const    *ConstParam    `parser:"| @@"`
	Type     *TypeParam     `parser:"| @@"`
}

// LifetimeParam is `'a: 'b + 'c`.
type LifetimeParam struct {
	Name   string   `parser:"@Lifetime"`
	Bounds []string `parser:"( ':' ( @Lifetime ( '+' @Lifetime )* )? )?"`
}

// ConstParam is `const N: usize = 3`.
type ConstParam struct {
	Name    string     `parser:"'const' @Ident ':'"`
	Type    *Type      `parser:"@@"`
	Default *ConstExpr `parser:"( '=' @@ )?"`
}

// TypeParam is `T: Bound + Bound = Default`.
type TypeParam struct {
	Name    string   `parser:"@Ident"`
	Bounds  []*Bound `parser:"( ':' ( @@ ( '+' @@ )* '+'? )? )?"`
	Default *Type    `parser:"( '=' @@ )?"`
}

// WhereClause is a list of where predicates.
type WhereClause struct {
	Predicates []*WherePredicate `parser:"'where' ( @@ ( ',' @@ )* ','? )?"`
}

// WherePredicate is a single where-clause constraint.
type WherePredicate struct {
	Lifetime *LifetimePredicate `parser:"  @@"`
	Type     *TypePredicate     `parser:"| @@"`
}

// LifetimePredicate is `'a: 'b + 'c`.
type LifetimePredicate struct {
	Lifetime string   `parser:"@Lifetime ':'"`
	Bounds   []string `parser:"( @Lifetime ( '+' @Lifetime )* )?"`
}

// TypePredicate is `for<'a> Type: Bound + Bound`.
type TypePredicate struct {
	ForLifetimes []string `parser:"( 'for' '<' ( @Lifetime ( ',' @Lifetime )* ','? )? '>' )?"`
	Type         *Type    `parser:"@@ ':'"`
	Bounds       []*Bound `parser:"( @@ ( '+' @@ )* '+'? )?"`
}

// Bound is a lifetime or trait bound.
type Bound struct {
	Lifetime string      `parser:"  @Lifetime"`
	Trait    *TraitBound `parser:"| @@"`
}

// TraitBound is `for<'a> ?Path`.
type TraitBound struct {
	ForLifetimes []string `parser:"( 'for' '<' ( @Lifetime ( ',' @Lifetime )* ','? )? '>' )?"`
	Maybe        bool     `parser:"@'?'?"`
	Path         *Path    `parser:"@@"`
}

// Type is a type expression. Exactly one variant is set.
type Type struct {
	Never bool       `parser:"  @'!'"`
	Infer bool       `parser:"| @'_'"`
	Ref   *RefType   `parser:"| @@"`
	Ptr   *PtrType   `parser:"| @@"`
	Slice *SliceType `parser:"| @@"`
	Tuple *TupleType `parser:"| @@"`
	FnPtr *FnPtrType `parser:"| @@"`
	Impl  *BoundList `parser:"| 'impl' @@"`
	Dyn   *BoundList `parser:"| 'dyn' @@"`
	Path  *TypePath  `parser:"| @@"`
}

// RefType is `&'a mut T`.
type RefType struct {
	Lifetime string `parser:"'&' @Lifetime?"`
	Mut      bool   `parser:"@'mut'?"`
	Elem     *Type  `parser:"@@"`
}

// PtrType is `*const T` or `*mut T`.
type PtrType struct {
	Kind string `parser:"'*' @( 'const' | 'mut' )"`
	Elem *Type  `parser:"@@"`
}

// SliceType is `[T]`, or `[T; N]` when Len is set.
type SliceType struct {
	Elem *Type     `parser:"'[' @@"`
	Len  *TokenRun `parser:"( ';' @@ )? ']'"`
}

// TupleType is `(A, B)`. A single element without a trailing comma is a
// parenthesized type.
type TupleType struct {
	Elems    []*Type `parser:"'(' ( @@ ( ',' @@ )*"`
	Trailing bool    `parser:"  @','? )? ')'"`
}

// FnPtrType is `for<'a> unsafe extern "C" fn(A, b: B) -> R`.
type FnPtrType struct {
	ForLifetimes []string      `parser:"( 'for' '<' ( @Lifetime ( ',' @Lifetime )* ','? )? '>' )?"`
	Qualifiers   []string      `parser:"@( 'unsafe' | 'extern' | String )*"`
	Params       []*FnPtrParam `parser:"'fn' '(' ( @@ ( ',' @@ )* ','? )? ')'"`
	Output       *Type         `parser:"( '->' @@ )?"`
}

// FnPtrParam is a function pointer parameter with an optional name.
type FnPtrParam struct {
	Name string `parser:"( @Ident ':' )?"`
	Type *Type  `parser:"@@"`
}

// BoundList is the bound list of an `impl` or `dyn` type.
type BoundList struct {
	Bounds []*Bound `parser:"@@ ( '+' @@ )*"`
}

// TypePath is a possibly qualified path type: `<T as Trait>::Assoc`.
type TypePath struct {
	QSelf *QSelf `parser:"@@?"`
	Path  *Path  `parser:"@@"`
}

// QSelf is the `<T as Trait>::` prefix of a qualified path.
type QSelf struct {
	Type  *Type `parser:"'<' @@"`
	Trait *Path `parser:"( 'as' @@ )? '>' '::'"`
}

// Path is `::a::b<C>::d`.
type Path struct {
	Global   bool           `parser:"@'::'?"`
	Segments []*PathSegment `parser:"@@ ( '::' @@ )*"`
}

// Ident returns the single identifier of a path that is exactly one
// unqualified segment without arguments.
func (p *Path) Ident() (string, bool) {
	if p == nil || p.Global || len(p.Segments) != 1 || p.Segments[0].Args != nil {
		return "", false
	}
	return p.Segments[0].Name, true
}

// Last returns the final segment of the path.
func (p *Path) Last() *PathSegment {
	if p == nil || len(p.Segments) == 0 {
		return nil
	}
	return p.Segments[len(p.Segments)-1]
}

// PathSegment is a path segment with optional arguments.
type PathSegment struct {
	Name string         `parser:"@( Ident | 'self' | 'Self' | 'super' | 'crate' )"`
	Args *PathArguments `parser:"@@?"`
}

// PathArguments are the angle-bracketed or parenthesized arguments of a
// path segment.
type PathArguments struct {
	Angle *AngleArgs `parser:"  @@"`
	Paren *ParenArgs `parser:"| @@"`
}

// AngleArgs is `<A, 'a, Item = B>`, with an optional turbofish.
type AngleArgs struct {
	Turbofish bool          `parser:"@'::'? '<'"`
	Args      []*GenericArg `parser:"( @@ ( ',' @@ )* ','? )? '>'"`
}

// ParenArgs is `(A, B) -> C` as used by the Fn traits.
type ParenArgs struct {
	Inputs []*Type `parser:"'(' ( @@ ( ',' @@ )* ','? )? ')'"`
	Output *Type   `parser:"( '->' @@ )?"`
}

// GenericArg is a single angle-bracketed argument.
type GenericArg struct {
	Lifetime string        `parser:"  @Lifetime"`
	Binding  *AssocBinding `parser:"| @@"`
	Type     *Type         `parser:"| @@"`
	Const    *ConstExpr    `parser:"| @@"`
}

// AssocBinding is `Item = T` or `Item: Bound`.
type AssocBinding struct {
	Name   string   `parser:"@Ident"`
	Type   *Type    `parser:"( '=' @@"`
	Bounds []*Bound `parser:"| ':' @@ ( '+' @@ )* )"`
}

// ConstExpr is a const generic argument or default, kept as written.
type ConstExpr struct {
	Pos    lexer.Position
	Tokens []lexer.Token

	Block *Block `parser:"  @@"`
	Neg   bool   `parser:"| ( @'-'?"`
	Lit   string `parser:"    @( Number | String | Char | 'true' | 'false' ) )"`

	raw raw
}

// Declaration is the module-generics declaration: generic parameters
// followed by an optional where clause.
type Declaration struct {
	Params []*GenericParam `parser:"( @@ ( ',' @@ )* ','? )?"`
	Where  *WhereClause    `parser:"@@?"`
}
