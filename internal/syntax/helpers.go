package syntax

// TypeParams returns the type parameters of the list in order.
func (g *Generics) TypeParams() []*TypeParam {
	if g == nil {
		return nil
	}
	var out []*TypeParam
	for _, param := range g.Params {
		if param.Type != nil {
			out = append(out, param.Type)
		}
	}
	return out
}

// TypeParam returns the type parameter called name, or nil.
func (g *Generics) TypeParam(name string) *TypeParam {
	for _, tp := range g.TypeParams() {
		if tp.Name == name {
			return tp
		}
	}
	return nil
}

// TypeParamNames returns the names of the type parameters in order.
func (g *Generics) TypeParamNames() []string {
	params := g.TypeParams()
	names := make([]string, len(params))
	for i, tp := range params {
		names[i] = tp.Name
	}
	return names
}

// HasBound reports whether the parameter already carries a bound that
// renders the same as b.
func (tp *TypeParam) HasBound(b *Bound) bool {
	want := Render(b)
	for _, have := range tp.Bounds {
		if Render(have) == want {
			return true
		}
	}
	return false
}

// HasPredicate reports whether the clause already contains a predicate that
// renders the same as pred.
func (w *WhereClause) HasPredicate(pred *WherePredicate) bool {
	if w == nil {
		return false
	}
	want := Render(pred)
	for _, have := range w.Predicates {
		if Render(have) == want {
			return true
		}
	}
	return false
}

// NewTypeParam returns a bare type parameter with no bounds.
func NewTypeParam(name string) *GenericParam {
	return &GenericParam{Type: &TypeParam{Name: name}}
}

// NewModule wraps items in an inline module item.
func NewModule(name string, items []*Item) *Item {
	return &Item{Mod: &Module{Name: name, Body: &ModuleBody{Items: items}}}
}
