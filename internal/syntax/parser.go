package syntax

import (
	"reflect"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/modgen/internal/errors"
)

var keywords = []string{
	"as", "async", "await", "break", "const", "continue", "crate", "dyn",
	"else", "enum", "extern", "false", "fn", "for", "if", "impl", "in",
	"let", "loop", "match", "mod", "move", "mut", "pub", "ref", "return",
	"self", "Self", "static", "struct", "super", "trait", "true", "type",
	"unsafe", "use", "where", "while",
}

var sourceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "DocComment", Pattern: `//[/!][^\n]*`},
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "RawString", Pattern: `b?r#"(?:[^"]|"[^#])*"#|b?r"[^"]*"`},
	{Name: "String", Pattern: `b?"(?:\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `b?'(?:\\u\{[0-9a-fA-F]+\}|\\.|[^'\\])'`},
	{Name: "Lifetime", Pattern: `'[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9][0-9a-zA-Z_]*(?:\.[0-9][0-9a-zA-Z_]*)?`},
	{Name: "Keyword", Pattern: `(?:` + strings.Join(keywords, "|") + `)\b`},
	{Name: "Ident", Pattern: `r#[a-zA-Z_][a-zA-Z0-9_]*|[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `::|->|=>|[-+*/%^!&|=<>@.,;:#$?~()\[\]{}]`},
})

var (
	whitespaceToken = sourceLexer.Symbols()["Whitespace"]
	trivia          = map[lexer.TokenType]bool{
		whitespaceToken:                  true,
		sourceLexer.Symbols()["Comment"]: true,
	}
)

func options() []participle.Option {
	return []participle.Option{
		participle.Lexer(sourceLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(1024),
	}
}

var (
	fileParser      = participle.MustBuild[File](options()...)
	declParser      = participle.MustBuild[Declaration](options()...)
	typeParser      = participle.MustBuild[Type](options()...)
	boundParser     = participle.MustBuild[Bound](options()...)
	predicateParser = participle.MustBuild[WherePredicate](options()...)
)

// ParseFile parses a whole source file.
func ParseFile(filename, src string) (*File, error) {
	return parse(fileParser, filename, src)
}

// ParseItems parses a sequence of items, such as the body of a module.
func ParseItems(filename, src string) ([]*Item, error) {
	file, err := ParseFile(filename, src)
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}

// ParseDeclaration parses a module-generics declaration.
func ParseDeclaration(filename, src string) (*Declaration, error) {
	return parse(declParser, filename, src)
}

// ParseDeclarationAt parses a declaration that appears inside a larger file
// at pos, so that reported positions refer to that file.
func ParseDeclarationAt(src string, pos lexer.Position) (*Declaration, error) {
	var pad strings.Builder
	if pos.Line > 1 {
		pad.WriteString(strings.Repeat("\n", pos.Line-1))
	}
	if pos.Column > 1 {
		pad.WriteString(strings.Repeat(" ", pos.Column-1))
	}
	return parse(declParser, pos.Filename, pad.String()+src)
}

// ParseType parses a single type.
func ParseType(src string) (*Type, error) {
	return parse(typeParser, "<type>", src)
}

// ParseBound parses a single bound.
func ParseBound(src string) (*Bound, error) {
	return parse(boundParser, "<bound>", src)
}

// ParsePredicate parses a single where predicate.
func ParsePredicate(src string) (*WherePredicate, error) {
	return parse(predicateParser, "<predicate>", src)
}

func parse[T any](p *participle.Parser[T], filename, src string) (*T, error) {
	node, err := p.ParseString(filename, src)
	if err != nil {
		return nil, syntaxError(filename, err)
	}
	attachSource(reflect.ValueOf(node), src)
	return node, nil
}

func syntaxError(filename string, err error) error {
	var perr participle.Error
	if !errors.As(err, &perr) {
		return errors.Wrap(errors.SyntaxErrorCode, "failed to parse "+filename, err)
	}

	serr := errors.NewSyntaxError(perr.Message()).
		WithLocation(Location(perr.Position()))
	var unexpected *participle.UnexpectedTokenError
	if errors.As(err, &unexpected) {
		serr.WithToken(unexpected.Unexpected.Value)
	}
	return serr
}

// Location converts a lexer position into an error location.
func Location(pos lexer.Position) errors.SourceLocation {
	return errors.SourceLocation{
		File:   pos.Filename,
		Line:   pos.Line,
		Column: pos.Column,
	}
}
