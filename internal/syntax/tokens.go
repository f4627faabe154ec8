package syntax

import (
	"reflect"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Group is a parenthesized or bracketed token tree.
type Group struct {
	Pos    lexer.Position
	Tokens []lexer.Token

	Paren   []*TokenTree `parser:"  '(' @@* ')'"`
	Bracket []*TokenTree `parser:"| '[' @@* ']'"`

	raw raw
}

// Text returns the group as written, delimiters included.
func (g *Group) Text() string { return g.raw.text }

// Inner returns the group text without its delimiters.
func (g *Group) Inner() string {
	if len(g.raw.text) < 2 {
		return ""
	}
	return g.raw.text[1 : len(g.raw.text)-1]
}

// Block is a braced token tree.
type Block struct {
	Pos    lexer.Position
	Tokens []lexer.Token

	Trees []*TokenTree `parser:"'{' @@* '}'"`

	raw raw
}

// Text returns the block as written, braces included.
func (b *Block) Text() string { return b.raw.text }

// TokenTree is a delimited group or a single non-delimiter token.
type TokenTree struct {
	Group *Group `parser:"  @@"`
	Block *Block `parser:"| @@"`
	Token string `parser:"| @~( '(' | ')' | '[' | ']' | '{' | '}' )"`
}

// TokenRun is a non-empty run of token trees, kept as written.
type TokenRun struct {
	Pos    lexer.Position
	Tokens []lexer.Token

	Trees []*TokenTree `parser:"@@+"`

	raw raw
}

// Text returns the tokens as written.
func (t *TokenRun) Text() string { return t.raw.text }

// Verbatim is an item the grammar does not model: everything up to a
// terminating semicolon, or up to and including a braced body.
type Verbatim struct {
	Pos    lexer.Position
	Tokens []lexer.Token

	Head []*VerbatimToken `parser:"@@*"`
	Body *Block           `parser:"( ';' | @@ ';'? )"`

	raw raw
}

// Text returns the item as written.
func (v *Verbatim) Text() string { return v.raw.text }

// VerbatimToken is a token tree that may precede the body of a verbatim item.
type VerbatimToken struct {
	Group *Group `parser:"  @@"`
	Token string `parser:"| @~( '(' | ')' | '[' | ']' | '{' | '}' | ';' )"`
}

// Text returns the pattern as written.
func (p *Pattern) Text() string { return p.raw.text }

// Text returns the attribute as written.
func (a *Attribute) Text() string { return a.raw.text }

// Text returns the expression as written.
func (c *ConstExpr) Text() string { return c.raw.text }

// raw is the source text of an opaque node. fixed marks the lines, counted
// from zero, that begin inside a multi-line token and must not be
// re-indented.
type raw struct {
	text  string
	fixed map[int]bool
}

type spanned interface {
	span() ([]lexer.Token, *raw)
}

func (g *Group) span() ([]lexer.Token, *raw)     { return g.Tokens, &g.raw }
func (b *Block) span() ([]lexer.Token, *raw)     { return b.Tokens, &b.raw }
func (t *TokenRun) span() ([]lexer.Token, *raw)  { return t.Tokens, &t.raw }
func (v *Verbatim) span() ([]lexer.Token, *raw)  { return v.Tokens, &v.raw }
func (p *Pattern) span() ([]lexer.Token, *raw)   { return p.Tokens, &p.raw }
func (a *Attribute) span() ([]lexer.Token, *raw) { return a.Tokens, &a.raw }
func (c *ConstExpr) span() ([]lexer.Token, *raw) { return c.Tokens, &c.raw }

// attachSource fills the text of every opaque node reachable from v with
// the source it was parsed from.
func attachSource(v reflect.Value, src string) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return
		}
		if s, ok := v.Interface().(spanned); ok {
			tokens, r := s.span()
			fill(r, tokens, src)
		}
		attachSource(v.Elem(), src)
	case reflect.Struct:
		t := v.Type()
		for i := range v.NumField() {
			if t.Field(i).IsExported() {
				attachSource(v.Field(i), src)
			}
		}
	case reflect.Slice:
		for i := range v.Len() {
			attachSource(v.Index(i), src)
		}
	}
}

// fill sets r to the source covered by tokens, ignoring whitespace and
// comments at either end.
func fill(r *raw, tokens []lexer.Token, src string) {
	first, last := -1, -1
	for i, tok := range tokens {
		if trivia[tok.Type] || tok.EOF() {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return
	}

	start := tokens[first].Pos.Offset
	end := tokens[last].Pos.Offset + len(tokens[last].Value)
	if start > end || end > len(src) {
		return
	}
	r.text = src[start:end]

	base := tokens[first].Pos.Line
	for _, tok := range tokens[first : last+1] {
		if tok.Type == whitespaceToken {
			continue
		}
		n := strings.Count(tok.Value, "\n")
		for k := 1; k <= n; k++ {
			if r.fixed == nil {
				r.fixed = make(map[int]bool)
			}
			r.fixed[tok.Pos.Line-base+k] = true
		}
	}
}
