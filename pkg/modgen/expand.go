package modgen

import (
	"github.com/alecthomas/participle/v2/lexer"
	"go.uber.org/zap"

	"github.com/toyz/modgen/internal/syntax"
)

// Report summarizes an ExpandSource run.
type Report struct {
	Modules   []string // names of the expanded modules, outermost first
	Flattened int      // how many of them were placeholder modules
}

// Expanded reports whether any module was expanded.
func (r *Report) Expanded() bool {
	return len(r.Modules) > 0
}

// ExpandSource parses a source file, expands every item carrying the marker
// attribute, and prints the file. An outer module is expanded before the
// modules nested in it, so inner declarations see the items as the outer
// expansion left them.
func ExpandSource(filename, src string, opts ...Option) (string, *Report, error) {
	cfg := newConfig(opts)

	file, err := syntax.ParseFile(filename, src)
	if err != nil {
		return "", nil, err
	}

	e := &expander{cfg: cfg, report: &Report{}}
	items, err := e.items(file.Items)
	if err != nil {
		return "", nil, err
	}
	file.Items = items

	return syntax.Render(file), e.report, nil
}

type expander struct {
	cfg    *config
	report *Report
}

func (e *expander) items(items []*syntax.Item) ([]*syntax.Item, error) {
	out := make([]*syntax.Item, 0, len(items))
	for _, it := range items {
		produced := []*syntax.Item{it}

		if attr := e.takeAttribute(it); attr != nil {
			decl, err := declaration(attr)
			if err != nil {
				return nil, err
			}
			if produced, err = apply(e.cfg, decl, it); err != nil {
				return nil, err
			}
			e.record(it)

			// Flattened items now sit at this level and may carry markers
			// of their own.
			if it.Mod != nil && it.Mod.Name == e.cfg.placeholder {
				flat, err := e.items(produced)
				if err != nil {
					return nil, err
				}
				out = append(out, flat...)
				continue
			}
		}

		for _, p := range produced {
			if p.Mod == nil || p.Mod.Body == nil {
				continue
			}
			inner, err := e.items(p.Mod.Body.Items)
			if err != nil {
				return nil, err
			}
			p.Mod.Body.Items = inner
		}
		out = append(out, produced...)
	}
	return out, nil
}

// takeAttribute removes the first marker attribute from the item and
// returns it.
func (e *expander) takeAttribute(it *syntax.Item) *syntax.Attribute {
	for i, attr := range it.Attrs {
		if attr.Doc != "" || attr.Inner || attr.Name() != e.cfg.attribute {
			continue
		}
		it.Attrs = append(it.Attrs[:i:i], it.Attrs[i+1:]...)
		return attr
	}
	return nil
}

func (e *expander) record(it *syntax.Item) {
	name := ""
	if it.Mod != nil {
		name = it.Mod.Name
	}
	e.report.Modules = append(e.report.Modules, name)
	if name == e.cfg.placeholder {
		e.report.Flattened++
	}
	e.cfg.logger.Debug("expanded module",
		zap.String("module", name),
		zap.Int("line", it.Pos.Line))
}

// declaration parses the attribute arguments with positions relative to
// the enclosing file. A marker without arguments declares nothing.
func declaration(attr *syntax.Attribute) (*syntax.Declaration, error) {
	if attr.Args == nil {
		return &syntax.Declaration{}, nil
	}
	pos := attr.Args.Pos
	pos.Column++
	pos.Offset++
	return syntax.ParseDeclarationAt(attr.Args.Inner(), pos)
}

func itemPos(it *syntax.Item) lexer.Position {
	if it == nil {
		return lexer.Position{}
	}
	return it.Pos
}
