package rewrite

import (
	"go.uber.org/zap"

	"github.com/toyz/modgen/internal/deps"
	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/internal/syntax"
)

// expandSite runs the generic-list step on one site. seed holds names the
// site uses outside its generics list, such as parameter types. A nil
// where pointer means the site cannot take predicates.
//
// Injected bounds and predicates share nodes with the model.
func (r *Rewriter) expandSite(site string, g **syntax.Generics, w **syntax.WhereClause, seed deps.Set) {
	var where *syntax.WhereClause
	if w != nil {
		where = *w
	}

	used := r.model.Analyzer().Generics(*g, where).Union(seed).Minus(r.skip)
	closure := r.model.Closure(used).Minus(r.skip)

	for _, name := range closure.Ordered(r.model.Names()) {
		if !r.model.IsDeclared(name) {
			panic(errors.AssertionFailedf("closure at %s holds undeclared name %q", site, name))
		}
		r.insertParam(site, g, name)
	}
	r.mergeBounds(site, *g)
	if w != nil {
		r.appendPredicates(site, w, closure)
	}
}

// insertParam appends a bare type parameter unless it is skipped or
// already present.
func (r *Rewriter) insertParam(site string, g **syntax.Generics, name string) {
	if r.skip.Has(name) {
		return
	}
	if *g == nil {
		*g = &syntax.Generics{}
	}
	if (*g).TypeParam(name) != nil {
		return
	}
	(*g).Params = append((*g).Params, syntax.NewTypeParam(name))
	r.logger.Debug("injected generic parameter",
		zap.String("site", site),
		zap.String("generic", name))
}

// mergeBounds appends the declared bounds of every declared type parameter
// in g that it does not already carry.
func (r *Rewriter) mergeBounds(site string, g *syntax.Generics) {
	for _, tp := range g.TypeParams() {
		if !r.model.IsDeclared(tp.Name) {
			continue
		}
		for _, b := range r.model.Bounds(tp.Name) {
			if tp.HasBound(b) {
				continue
			}
			tp.Bounds = append(tp.Bounds, b)
			r.logger.Debug("added bound",
				zap.String("site", site),
				zap.String("generic", tp.Name),
				zap.String("bound", syntax.Render(b)))
		}
	}
}

// appendPredicates adds the applicable declared predicates that the where
// clause does not already contain. The clause is created only when
// something is added.
func (r *Rewriter) appendPredicates(site string, w **syntax.WhereClause, closure deps.Set) {
	for _, pred := range r.model.ApplicablePredicates(closure) {
		if (*w).HasPredicate(pred) {
			continue
		}
		if *w == nil {
			*w = &syntax.WhereClause{}
		}
		(*w).Predicates = append((*w).Predicates, pred)
		r.logger.Debug("added predicate",
			zap.String("site", site),
			zap.String("predicate", syntax.Render(pred)))
	}
}
