package types

import (
	"github.com/jethrolarson/noolang-sub005/internal/ast"
	"github.com/jethrolarson/noolang-sub005/internal/typedast"
)

// InferenceState owns the four pieces of shared state a typing run needs
// (spec §5): the fresh-variable counter, the current substitution, the
// trait registry, and the type environment stack. It is passed by
// reference through the whole driver; no locking is required because
// inference is single-threaded and synchronous.
type InferenceState struct {
	Supply      *VarSupply
	Sub         *Substitution
	Constraints *ConstraintSet
	Registry    *TraitRegistry
	Env         *TypeEnv
	TypeDefs    map[string]*TypeDefInfo
}

// TypeDefInfo records what a `type` declaration introduced (spec §4.6):
// variant constructors get schemes in the environment, each taking all of
// its fields as one multi-parameter function; aliases
// and unions record their expansion for annotation-parsing lookups.
type TypeDefInfo struct {
	Name       string
	TypeParams []string
	Alias      Type
	Union      []Type
	Variant    bool
}

// NewInferenceState builds a fresh state with the built-in prelude loaded
// (spec §2's "Prelude/stdlib typing hooks": built-in type schemes loaded
// at startup, since stdlib source loading itself is out of scope and the
// typer receives it as a pre-parsed AST prelude — here, as hard-coded
// schemes standing in for that prelude).
func NewInferenceState() *InferenceState {
	st := &InferenceState{
		Supply:      NewVarSupply(),
		Sub:         NewSubstitution(),
		Constraints: NewConstraintSet(),
		Registry:    NewTraitRegistry(),
		Env:         NewTypeEnv(),
		TypeDefs:    map[string]*TypeDefInfo{},
	}
	st.loadPrelude()
	return st
}

func (s *InferenceState) loadPrelude() {
	s.TypeDefs["Bool"] = &TypeDefInfo{Name: "Bool", Variant: true}
	s.Env.ExtendScheme("True", MonoScheme(Variant{Name: "Bool"}))
	s.Env.ExtendScheme("False", MonoScheme(Variant{Name: "Bool"}))

	s.TypeDefs["Option"] = &TypeDefInfo{Name: "Option", TypeParams: []string{"a"}, Variant: true}
	optA := s.Supply.Fresh("a")
	s.Env.ExtendScheme("None", &Scheme{
		Vars: []Var{optA},
		Type: Variant{Name: "Option", Args: []Type{optA}},
	})
	someA := s.Supply.Fresh("a")
	s.Env.ExtendScheme("Some", &Scheme{
		Vars: []Var{someA},
		Type: Func{Params: []Type{someA}, Return: Variant{Name: "Option", Args: []Type{someA}}},
	})

	s.TypeDefs["Result"] = &TypeDefInfo{Name: "Result", TypeParams: []string{"a", "b"}, Variant: true}
	okA, okB := s.Supply.Fresh("a"), s.Supply.Fresh("b")
	s.Env.ExtendScheme("Ok", &Scheme{
		Vars: []Var{okA, okB},
		Type: Func{Params: []Type{okA}, Return: Variant{Name: "Result", Args: []Type{okA, okB}}},
	})
	errA, errB := s.Supply.Fresh("a"), s.Supply.Fresh("b")
	s.Env.ExtendScheme("Err", &Scheme{
		Vars: []Var{errA, errB},
		Type: Func{Params: []Type{errB}, Return: Variant{Name: "Result", Args: []Type{errA, errB}}},
	})

	// map : (a -> b) -> List a -> List b
	mapA, mapB := s.Supply.Fresh("a"), s.Supply.Fresh("b")
	s.Env.ExtendScheme("map", &Scheme{
		Vars: []Var{mapA, mapB},
		Type: Func{
			Params: []Type{
				Func{Params: []Type{mapA}, Return: mapB},
				ListOf(mapA),
			},
			Return: ListOf(mapB),
		},
	})

	// pure : a -> (f a) given f implements Monad
	pureA := s.Supply.Fresh("a")
	pureF := s.Supply.Fresh("f")
	pureScheme := &Scheme{
		Vars: []Var{pureA, pureF},
		Type: Func{Params: []Type{pureA}, Return: TypeApp{Head: pureF, Arg: pureA}},
	}
	pureScheme.Constraints = NewConstraintSet()
	pureScheme.Constraints.Add(pureF, Constraint{Kind: Implements, Trait: "Monad"})
	s.Env.ExtendScheme("pure", pureScheme)

	// toString : Float -> String — the builtin Show Float implementation
	// aliases to this (spec §8 scenario 5).
	s.Env.ExtendScheme("toString", MonoScheme(Func{Params: []Type{Float}, Return: Str}))
}

// Unifier returns a unifier sharing this state's ambient substitution,
// constraints, and registry (used as the trait ConstraintResolver).
func (s *InferenceState) unifier() *Unifier {
	return NewUnifier(s.Sub, s.Constraints, s.Registry)
}

func (s *InferenceState) unify(t1, t2 Type) error {
	u := s.unifier()
	err := u.Unify(t1, t2)
	s.Sub = u.Sub
	return err
}

func spanOf(n ast.Node) *Span {
	sp := n.Position()
	return &Span{
		StartLine: sp.Start.Line, StartColumn: sp.Start.Column,
		EndLine: sp.End.Line, EndColumn: sp.End.Column, File: sp.Start.File,
	}
}

// InferExpr walks e bottom-up, producing (decorated-node, type, effects)
// or an error (spec §4.6). It is the core of the inference driver.
func (s *InferenceState) InferExpr(e ast.Expr) (typedast.Node, Type, EffectSet, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return s.inferLiteral(n)
	case *ast.Variable:
		return s.inferVariable(n)
	case *ast.Function:
		return s.inferFunction(n)
	case *ast.Application:
		return s.inferApplication(n)
	case *ast.Binary:
		return s.inferBinary(n)
	case *ast.If:
		return s.inferIf(n)
	case *ast.Match:
		return s.inferMatch(n)
	case *ast.Record:
		return s.inferRecord(n)
	case *ast.Tuple:
		return s.inferTuple(n)
	case *ast.List:
		return s.inferList(n)
	case *ast.Accessor:
		return s.inferAccessor(n)
	case *ast.OptionalAccessor:
		return s.inferOptionalAccessor(n)
	case *ast.At:
		return s.inferAt(n)
	case *ast.Set:
		return s.inferSet(n)
	case *ast.Sequence:
		return s.inferSequence(n)
	case *ast.Definition:
		return s.inferDefinition(n)
	case *ast.Typed:
		return s.inferTyped(n)
	case *ast.Forget:
		return s.inferForget(n)
	default:
		return nil, nil, nil, NewReport(KindTypeMismatch, "unsupported expression node", spanOf(e)).asErr()
	}
}

func (r *Report) asErr() error { return &ReportError{Rep: r} }

func (s *InferenceState) inferLiteral(n *ast.Literal) (typedast.Node, Type, EffectSet, error) {
	var t Type
	switch n.Kind {
	case ast.FloatLit:
		t = Float
	case ast.StringLit:
		t = Str
	case ast.UnitLit:
		t = UnitTy
	default:
		return nil, nil, nil, NewReport(KindTypeMismatch, "unknown literal kind", spanOf(n)).asErr()
	}
	eff := EmptyEffects()
	return &typedast.Literal{Decorated: typedast.Decorated{Source: n, Type: t, Effects: eff}, Value: n.Value}, t, eff, nil
}

func (s *InferenceState) inferVariable(n *ast.Variable) (typedast.Node, Type, EffectSet, error) {
	scheme, ok := s.Env.Lookup(n.Name)
	if !ok {
		return nil, nil, nil, NewUnknownVariable(n.Name, spanOf(n))
	}
	t := Instantiate(scheme, s.Supply, s.Constraints)
	eff := EmptyEffects()
	return &typedast.Variable{Decorated: typedast.Decorated{Source: n, Type: t, Effects: eff}, Name: n.Name}, t, eff, nil
}

func (s *InferenceState) inferFunction(n *ast.Function) (typedast.Node, Type, EffectSet, error) {
	child := s.Env.Push()
	saved := s.Env
	s.Env = child

	paramVars := make([]Type, len(n.Params))
	for i, p := range n.Params {
		v := s.Supply.Fresh(p)
		paramVars[i] = v
		child.Extend(p, v)
	}
	body, bodyT, bodyEff, err := s.InferExpr(n.Body)
	s.Env = saved
	if err != nil {
		return nil, nil, nil, err
	}

	params := s.applyAll(paramVars)
	ret := s.Sub.Apply(bodyT)
	free := freeVarsOf(Func{Params: params, Return: ret})
	fn := Func{
		Params: params, Return: ret,
		Constraints: s.Constraints.Filter(free), BodyEffects: bodyEff,
	}
	// Function literals in expression position are never generalized
	// (spec §4.6): the scheme-free Func value is returned directly. The
	// literal itself carries no effects — bodyEff travels on the type and
	// is only incurred by the caller at application (spec §4.7).
	return &typedast.Function{
		Decorated: typedast.Decorated{Source: n, Type: fn, Effects: EmptyEffects()},
		Params:    n.Params,
		Body:      body,
	}, fn, EmptyEffects(), nil
}

func (s *InferenceState) applyAll(ts []Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = s.Sub.Apply(t)
	}
	return out
}

func (s *InferenceState) inferApplication(n *ast.Application) (typedast.Node, Type, EffectSet, error) {
	funcNode, funcT, funcEff, err := s.InferExpr(n.Func)
	if err != nil {
		return nil, nil, nil, err
	}
	effects := funcEff
	argNodes := make([]typedast.Node, len(n.Args))
	argTypes := make([]Type, len(n.Args))
	for i, a := range n.Args {
		argNode, argT, argEff, err := s.InferExpr(a)
		if err != nil {
			return nil, nil, nil, err
		}
		argNodes[i] = argNode
		argTypes[i] = argT
		effects = Union(effects, argEff)
	}

	result := s.Supply.Fresh("r")
	candidate := Func{Params: argTypes, Return: result}
	if err := s.unify(funcT, candidate); err != nil {
		return nil, nil, nil, wrapMismatch(err, spanOf(n))
	}
	resT := s.Sub.Apply(result)
	s.attemptCollapse()
	resT = s.attachConstraints(s.Sub.Apply(resT))

	// An application inherits the called function's declared body
	// effects (spec §4.7), in addition to the effects of evaluating the
	// function and argument expressions themselves.
	if fn, ok := s.Sub.Apply(funcT).(Func); ok {
		effects = Union(effects, fn.BodyEffects)
	}

	node := &typedast.Application{
		Decorated: typedast.Decorated{Source: n, Type: resT, Effects: effects},
		Func:      funcNode,
		Args:      argNodes,
	}
	return node, resT, effects, nil
}

// attemptCollapse is a second pass of spec §4.4's collapse rule after an
// application. Unifier.bindVar already discharges trait and Has
// constraints at the moment a variable is bound; this pass discharges Has
// constraints whose own variable is bound to a concrete record, unifying
// each against that record's field type (constraint collapse via
// structural matching rather than registry lookup).
func (s *InferenceState) attemptCollapse() {
	for _, id := range s.Constraints.Vars() {
		v := Var{Id: id}
		rec, ok := s.Sub.Apply(v).(Record)
		if !ok {
			continue
		}
		for _, c := range s.Constraints.For(v) {
			if c.Kind != Has {
				continue
			}
			if ft, ok := rec.Fields[c.Field]; ok {
				if err := s.unify(ft, c.Type); err == nil {
					s.Constraints.Remove(v)
				}
			}
		}
	}
}

// attachConstraints wraps a non-function, non-already-Constrained result in
// Constrained when one of its free variables still carries an ambient
// ongoing constraint (spec §3's Constrained: "used when a non-function
// expression carries residual constraints, e.g. `pure 1`"). Func values
// already carry their own constraint snapshot in Func.Constraints, so
// they're left untouched.
func (s *InferenceState) attachConstraints(t Type) Type {
	switch t.(type) {
	case Func, Constrained:
		return t
	}
	free := freeVarsOf(t)
	if len(free) == 0 {
		return t
	}
	residual := NewConstraintSet()
	for id := range free {
		v := Var{Id: id}
		for _, c := range s.Constraints.For(v) {
			residual.Add(v, c)
		}
	}
	if residual.Empty() {
		return t
	}
	return Constrained{Base: t, Constraints: residual}
}

func wrapMismatch(err error, span *Span) error {
	if me, ok := err.(*MismatchError); ok {
		return NewTypeMismatch(me.Left, me.Right, span)
	}
	if oe, ok := err.(*OccursError); ok {
		return NewOccursCheck(oe.Var, oe.In, span)
	}
	if _, ok := err.(*UnionVarError); ok {
		return err
	}
	return err
}

func (s *InferenceState) inferBinary(n *ast.Binary) (typedast.Node, Type, EffectSet, error) {
	leftNode, leftT, leftEff, err := s.InferExpr(n.Left)
	if err != nil {
		return nil, nil, nil, err
	}
	rightNode, rightT, rightEff, err := s.InferExpr(n.Right)
	if err != nil {
		return nil, nil, nil, err
	}
	effects := Union(leftEff, rightEff)

	if err := s.unify(leftT, rightT); err != nil {
		return nil, nil, nil, wrapMismatch(err, spanOf(n))
	}
	resolved := s.Sub.Apply(leftT)
	switch prim, ok := resolved.(Prim); {
	case ok && (prim.Name == "Float" || prim.Name == "String"):
		node := &typedast.Binary{Decorated: typedast.Decorated{Source: n, Type: prim, Effects: effects}, Op: n.Op, Left: leftNode, Right: rightNode}
		return node, prim, effects, nil
	case ok && prim.Name == "Unknown":
		return nil, nil, nil, NewUnknownOperationRequiresAdapter(n.Op, spanOf(n))
	}
	if u, ok := resolved.(Union); ok {
		return nil, nil, nil, NewUnionOperationRequiresMatch(u, n.Op, spanOf(n))
	}
	return nil, nil, nil, NewTypeMismatch(resolved, resolved, spanOf(n))
}

func (s *InferenceState) inferIf(n *ast.If) (typedast.Node, Type, EffectSet, error) {
	condNode, condT, condEff, err := s.InferExpr(n.Cond)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.unify(condT, Variant{Name: "Bool"}); err != nil {
		return nil, nil, nil, wrapMismatch(err, spanOf(n))
	}
	thenNode, thenT, thenEff, err := s.InferExpr(n.Then)
	if err != nil {
		return nil, nil, nil, err
	}
	elseNode, elseT, elseEff, err := s.InferExpr(n.Else)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.unify(thenT, elseT); err != nil {
		return nil, nil, nil, wrapMismatch(err, spanOf(n))
	}
	resT := s.Sub.Apply(thenT)
	effects := Union(condEff, thenEff, elseEff)
	node := &typedast.If{Decorated: typedast.Decorated{Source: n, Type: resT, Effects: effects}, Cond: condNode, Then: thenNode, Else: elseNode}
	return node, resT, effects, nil
}

func (s *InferenceState) inferSequence(n *ast.Sequence) (typedast.Node, Type, EffectSet, error) {
	if len(n.Exprs) == 0 {
		return &typedast.Sequence{Decorated: typedast.Decorated{Source: n, Type: UnitTy, Effects: EmptyEffects()}}, UnitTy, EmptyEffects(), nil
	}
	nodes := make([]typedast.Node, len(n.Exprs))
	effects := EmptyEffects()
	var last Type
	for i, e := range n.Exprs {
		node, t, eff, err := s.InferExpr(e)
		if err != nil {
			return nil, nil, nil, err
		}
		nodes[i] = node
		effects = Union(effects, eff)
		last = t
	}
	node := &typedast.Sequence{Decorated: typedast.Decorated{Source: n, Type: last, Effects: effects}, Exprs: nodes}
	return node, last, effects, nil
}

func (s *InferenceState) inferTyped(n *ast.Typed) (typedast.Node, Type, EffectSet, error) {
	exprNode, exprT, exprEff, err := s.InferExpr(n.Expr)
	if err != nil {
		return nil, nil, nil, err
	}
	annT, err := s.resolveTypeExpr(n.Annotation, map[string]Var{})
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.unify(exprT, annT); err != nil {
		return nil, nil, nil, wrapMismatch(err, spanOf(n))
	}
	resT := s.Sub.Apply(annT)
	node := &typedast.Typed{Decorated: typedast.Decorated{Source: n, Type: resT, Effects: exprEff}, Expr: exprNode}
	return node, resT, exprEff, nil
}

func (s *InferenceState) inferForget(n *ast.Forget) (typedast.Node, Type, EffectSet, error) {
	exprNode, _, exprEff, err := s.InferExpr(n.Expr)
	if err != nil {
		return nil, nil, nil, err
	}
	node := &typedast.Forget{Decorated: typedast.Decorated{Source: n, Type: Unknown, Effects: exprEff}, Expr: exprNode}
	return node, Unknown, exprEff, nil
}
