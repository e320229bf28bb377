package types

import (
	"github.com/jethrolarson/noolang-sub005/internal/ast"
	"github.com/jethrolarson/noolang-sub005/internal/typedast"
)

// inferMatch: for each arm, extend env with pattern-bound variables,
// infer body; unify all arm results; unify scrutinee type with each
// pattern type. Exhaustiveness is not required (spec §4.6).
func (s *InferenceState) inferMatch(n *ast.Match) (typedast.Node, Type, EffectSet, error) {
	scrutNode, scrutT, scrutEff, err := s.InferExpr(n.Scrutinee)
	if err != nil {
		return nil, nil, nil, err
	}
	effects := scrutEff
	var resultT Type
	arms := make([]typedast.MatchArm, len(n.Cases))

	for i, c := range n.Cases {
		child := s.Env.Push()
		saved := s.Env
		s.Env = child

		pat, patT, err := s.inferPattern(c.Pattern)
		if err != nil {
			s.Env = saved
			return nil, nil, nil, err
		}
		if err := s.unify(scrutT, patT); err != nil {
			s.Env = saved
			return nil, nil, nil, wrapMismatch(err, spanOf(n))
		}
		bodyNode, bodyT, bodyEff, err := s.InferExpr(c.Body)
		s.Env = saved
		if err != nil {
			return nil, nil, nil, err
		}
		effects = Union(effects, bodyEff)
		if resultT == nil {
			resultT = bodyT
		} else if err := s.unify(resultT, bodyT); err != nil {
			return nil, nil, nil, wrapMismatch(err, spanOf(n))
		}
		arms[i] = typedast.MatchArm{Pattern: pat, Body: bodyNode}
	}
	resT := s.Sub.Apply(resultT)
	node := &typedast.Match{
		Decorated: typedast.Decorated{Source: n, Type: resT, Effects: effects},
		Scrutinee: scrutNode, Arms: arms,
	}
	return node, resT, effects, nil
}

// inferPattern extends the current env frame with pattern-bound variables
// and returns the type the pattern implies.
func (s *InferenceState) inferPattern(p ast.Pattern) (typedast.Pattern, Type, error) {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		t := s.Supply.Fresh("_")
		return &typedast.WildcardPattern{Type: t}, t, nil

	case *ast.VarPattern:
		t := s.Supply.Fresh(pat.Name)
		s.Env.Extend(pat.Name, t)
		return &typedast.VarPattern{Name: pat.Name, Type: t}, t, nil

	case *ast.LiteralPattern:
		var t Type
		switch pat.Kind {
		case ast.FloatLit:
			t = Float
		case ast.StringLit:
			t = Str
		default:
			t = UnitTy
		}
		return &typedast.LiteralPattern{Value: pat.Value, Type: t}, t, nil

	case *ast.ConstructorPattern:
		return s.inferConstructorPattern(pat)

	case *ast.TuplePattern:
		elems := make([]typedast.Pattern, len(pat.Elements))
		elemTypes := make([]Type, len(pat.Elements))
		for i, sub := range pat.Elements {
			tp, t, err := s.inferPattern(sub)
			if err != nil {
				return nil, nil, err
			}
			elems[i] = tp
			elemTypes[i] = t
		}
		t := Tuple{Elements: elemTypes}
		return &typedast.TuplePattern{Elements: elems, Type: t}, t, nil

	case *ast.RecordPattern:
		fields := map[string]Type{}
		order := make([]string, len(pat.Fields))
		typed := map[string]typedast.Pattern{}
		for i, f := range pat.Fields {
			tp, t, err := s.inferPattern(f.Pattern)
			if err != nil {
				return nil, nil, err
			}
			key := NormalizeKey(f.Name)
			fields[key] = t
			order[i] = key
			typed[key] = tp
		}
		t := NewRecord(order, fields)
		return &typedast.RecordPattern{Fields: typed, Type: t}, t, nil

	default:
		return nil, nil, NewPatternMismatch("unsupported pattern", spanOf(p))
	}
}

// inferConstructorPattern instantiates the data-type's scheme and
// destructures according to the declared constructor shape (spec §4.6).
func (s *InferenceState) inferConstructorPattern(pat *ast.ConstructorPattern) (typedast.Pattern, Type, error) {
	scheme, ok := s.Env.Lookup(pat.Name)
	if !ok {
		return nil, nil, NewUnknownVariable(pat.Name, spanOf(pat))
	}
	ctorT := Instantiate(scheme, s.Supply, s.Constraints)

	subPatterns := make([]typedast.Pattern, len(pat.Patterns))

	fn, isFn := ctorT.(Func)
	if !isFn {
		// 0-arity constructor (e.g. True, None): no sub-patterns expected.
		if len(pat.Patterns) != 0 {
			return nil, nil, NewPatternMismatch("constructor "+pat.Name+" takes no arguments", spanOf(pat))
		}
		return &typedast.ConstructorPattern{Name: pat.Name, Type: ctorT}, ctorT, nil
	}
	if len(fn.Params) != len(pat.Patterns) {
		return nil, nil, NewPatternMismatch("constructor "+pat.Name+" arity mismatch", spanOf(pat))
	}
	for i, sub := range pat.Patterns {
		tp, t, err := s.inferPattern(sub)
		if err != nil {
			return nil, nil, err
		}
		if err := s.unify(fn.Params[i], t); err != nil {
			return nil, nil, wrapMismatch(err, spanOf(pat))
		}
		subPatterns[i] = tp
	}
	resT := s.Sub.Apply(fn.Return)
	return &typedast.ConstructorPattern{Name: pat.Name, Patterns: subPatterns, Type: resT}, resT, nil
}
