package types

import (
	"github.com/jethrolarson/noolang-sub005/internal/ast"
	"github.com/jethrolarson/noolang-sub005/internal/typedast"
)

func (s *InferenceState) inferRecord(n *ast.Record) (typedast.Node, Type, EffectSet, error) {
	fields := make(map[string]Type, len(n.Fields))
	order := make([]string, len(n.Fields))
	nodes := make([]typedast.RecordField, len(n.Fields))
	effects := EmptyEffects()
	for i, f := range n.Fields {
		node, t, eff, err := s.InferExpr(f.Value)
		if err != nil {
			return nil, nil, nil, err
		}
		key := NormalizeKey(f.Name)
		fields[key] = t
		order[i] = key
		nodes[i] = typedast.RecordField{Name: key, Value: node}
		effects = Union(effects, eff)
	}
	rec := NewRecord(order, fields)
	node := &typedast.Record{Decorated: typedast.Decorated{Source: n, Type: rec, Effects: effects}, Fields: nodes}
	return node, rec, effects, nil
}

func (s *InferenceState) inferTuple(n *ast.Tuple) (typedast.Node, Type, EffectSet, error) {
	elems := make([]Type, len(n.Elements))
	nodes := make([]typedast.Node, len(n.Elements))
	effects := EmptyEffects()
	for i, e := range n.Elements {
		node, t, eff, err := s.InferExpr(e)
		if err != nil {
			return nil, nil, nil, err
		}
		elems[i] = t
		nodes[i] = node
		effects = Union(effects, eff)
	}
	tup := Tuple{Elements: elems}
	node := &typedast.Tuple{Decorated: typedast.Decorated{Source: n, Type: tup, Effects: effects}, Elements: nodes}
	return node, tup, effects, nil
}

func (s *InferenceState) inferList(n *ast.List) (typedast.Node, Type, EffectSet, error) {
	if len(n.Elements) == 0 {
		elem := s.Supply.Fresh("a")
		lt := ListOf(elem)
		node := &typedast.List{Decorated: typedast.Decorated{Source: n, Type: lt, Effects: EmptyEffects()}}
		return node, lt, EmptyEffects(), nil
	}
	nodes := make([]typedast.Node, len(n.Elements))
	effects := EmptyEffects()
	var elemT Type
	for i, e := range n.Elements {
		node, t, eff, err := s.InferExpr(e)
		if err != nil {
			return nil, nil, nil, err
		}
		nodes[i] = node
		effects = Union(effects, eff)
		if elemT == nil {
			elemT = t
			continue
		}
		if err := s.unify(elemT, t); err != nil {
			return nil, nil, nil, wrapMismatch(err, spanOf(n))
		}
	}
	lt := ListOf(s.Sub.Apply(elemT))
	node := &typedast.List{Decorated: typedast.Decorated{Source: n, Type: lt, Effects: effects}, Elements: nodes}
	return node, lt, effects, nil
}

// inferAccessor builds `α → β given α has {@field β}` (spec §4.6).
func (s *InferenceState) inferAccessor(n *ast.Accessor) (typedast.Node, Type, EffectSet, error) {
	alpha := s.Supply.Fresh("a")
	beta := s.Supply.Fresh("b")
	s.Constraints.Add(alpha, Constraint{Kind: Has, Field: NormalizeKey(n.Field), Type: beta})
	free := freeVarsOf(Func{Params: []Type{alpha}, Return: beta})
	fn := Func{Params: []Type{alpha}, Return: beta, Constraints: s.Constraints.Filter(free)}
	node := &typedast.Accessor{Decorated: typedast.Decorated{Source: n, Type: fn, Effects: EmptyEffects()}, Field: n.Field}
	return node, fn, EmptyEffects(), nil
}

// inferOptionalAccessor: on Unknown, Option Unknown; on records/lists/
// tuples, Option of the member type (spec §4.6).
func (s *InferenceState) inferOptionalAccessor(n *ast.OptionalAccessor) (typedast.Node, Type, EffectSet, error) {
	alpha := s.Supply.Fresh("a")
	beta := s.Supply.Fresh("b")
	s.Constraints.Add(alpha, Constraint{Kind: Has, Field: NormalizeKey(n.Field), Type: beta})
	ret := Variant{Name: "Option", Args: []Type{beta}}
	free := freeVarsOf(Func{Params: []Type{alpha}, Return: ret})
	fn := Func{Params: []Type{alpha}, Return: ret, Constraints: s.Constraints.Filter(free)}
	node := &typedast.OptionalAccessor{Decorated: typedast.Decorated{Source: n, Type: fn, Effects: EmptyEffects()}, Field: n.Field}
	return node, fn, EmptyEffects(), nil
}

func (s *InferenceState) inferAt(n *ast.At) (typedast.Node, Type, EffectSet, error) {
	idxNode, idxT, idxEff, err := s.InferExpr(n.Index)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.unify(idxT, Float); err != nil {
		return nil, nil, nil, wrapMismatch(err, spanOf(n))
	}
	targetNode, targetT, targetEff, err := s.InferExpr(n.Target)
	if err != nil {
		return nil, nil, nil, err
	}
	effects := Union(idxEff, targetEff)

	resolved := s.Sub.Apply(targetT)
	var elem Type
	switch v := resolved.(type) {
	case ListT:
		elem = v.Elem
	case Prim:
		if v.Name == "Unknown" {
			elem = Unknown
		} else {
			return nil, nil, nil, NewTypeMismatch(resolved, resolved, spanOf(n))
		}
	case Var:
		elem = s.Supply.Fresh("a")
		if err := s.unify(resolved, ListOf(elem)); err != nil {
			return nil, nil, nil, wrapMismatch(err, spanOf(n))
		}
	default:
		return nil, nil, nil, NewTypeMismatch(resolved, resolved, spanOf(n))
	}
	result := Variant{Name: "Option", Args: []Type{elem}}
	node := &typedast.At{Decorated: typedast.Decorated{Source: n, Type: result, Effects: effects}, Index: idxNode, Target: targetNode}
	return node, result, effects, nil
}

// inferSet types `(@f, record, value) -> record'` with a `has` constraint
// on the record and unifying the field (spec §4.6).
func (s *InferenceState) inferSet(n *ast.Set) (typedast.Node, Type, EffectSet, error) {
	recordNode, recordT, recordEff, err := s.InferExpr(n.Record)
	if err != nil {
		return nil, nil, nil, err
	}
	valueNode, valueT, valueEff, err := s.InferExpr(n.Value)
	if err != nil {
		return nil, nil, nil, err
	}
	effects := Union(recordEff, valueEff)
	key := NormalizeKey(n.Field)

	resolved := s.Sub.Apply(recordT)
	if rec, ok := resolved.(Record); ok {
		existing, ok := rec.Fields[key]
		if !ok {
			return nil, nil, nil, NewPatternMismatch("set: record has no field @"+key, spanOf(n))
		}
		if err := s.unify(existing, valueT); err != nil {
			return nil, nil, nil, wrapMismatch(err, spanOf(n))
		}
		node := &typedast.Set{Decorated: typedast.Decorated{Source: n, Type: rec, Effects: effects}, Field: key, Record: recordNode, Value: valueNode}
		return node, rec, effects, nil
	}
	if rv, ok := resolved.(Var); ok {
		s.Constraints.Add(rv, Constraint{Kind: Has, Field: key, Type: valueT})
		node := &typedast.Set{Decorated: typedast.Decorated{Source: n, Type: resolved, Effects: effects}, Field: key, Record: recordNode, Value: valueNode}
		return node, resolved, effects, nil
	}
	return nil, nil, nil, NewTypeMismatch(resolved, resolved, spanOf(n))
}

// inferDefinition: `x = e [in body]` (spec §4.6). Generalizes over
// variables free in τ_e but not free in env, binds x to that scheme, and
// — for an expression-position let — infers body under the extended env.
// At top level (Body == nil) it only extends env; the caller folds the
// remaining statements.
func (s *InferenceState) inferDefinition(n *ast.Definition) (typedast.Node, Type, EffectSet, error) {
	valueNode, valueT, valueEff, err := s.InferExpr(n.Value)
	if err != nil {
		return nil, nil, nil, err
	}
	scheme := Generalize(s.Env, s.Sub.Apply(valueT), s.Constraints)
	s.Env.ExtendScheme(n.Name, scheme)

	if n.Body == nil {
		node := &typedast.Definition{
			Decorated: typedast.Decorated{Source: n, Type: UnitTy, Effects: valueEff},
			Name:      n.Name, Scheme: scheme, Value: valueNode,
		}
		return node, UnitTy, valueEff, nil
	}
	bodyNode, bodyT, bodyEff, err := s.InferExpr(n.Body)
	if err != nil {
		return nil, nil, nil, err
	}
	effects := Union(valueEff, bodyEff)
	node := &typedast.Definition{
		Decorated: typedast.Decorated{Source: n, Type: bodyT, Effects: effects},
		Name:      n.Name, Scheme: scheme, Value: valueNode, Body: bodyNode,
	}
	return node, bodyT, effects, nil
}
