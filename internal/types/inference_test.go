package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub005/internal/ast"
)

func litF(v float64) *ast.Literal { return &ast.Literal{Kind: ast.FloatLit, Value: v} }
func litS(v string) *ast.Literal  { return &ast.Literal{Kind: ast.StringLit, Value: v} }

// scenario 1: map (fn x => x + 1) [1,2,3] : List Float
func TestScenarioMapOverListOfFloats(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.Application{
		Func: &ast.Variable{Name: "map"},
		Args: []ast.Expr{
			&ast.Function{
				Params: []string{"x"},
				Body:   &ast.Binary{Op: "+", Left: &ast.Variable{Name: "x"}, Right: litF(1)},
			},
			&ast.List{Elements: []ast.Expr{litF(1), litF(2), litF(3)}},
		},
	}

	_, typ, effects, err := s.InferExpr(expr)
	require.NoError(t, err)
	assert.Equal(t, "List Float", Render(s.Sub.Apply(typ), s.Sub))
	assert.True(t, effects.IsEmpty(), "a pure map over pure inputs must carry no effects")
}

// scenario 2: pure 1 : a Float given a implements Monad
func TestScenarioPureAttachesResidualConstraint(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.Application{Func: &ast.Variable{Name: "pure"}, Args: []ast.Expr{litF(1)}}

	_, typ, _, err := s.InferExpr(expr)
	require.NoError(t, err)

	rendered := Render(s.Sub.Apply(typ), s.Sub)
	assert.Contains(t, rendered, "Float")
	assert.Contains(t, rendered, "given")
	assert.Contains(t, rendered, "implements Monad")
}

// scenario 3: fn obj => @name obj : a -> b given a has {@name b}
func TestScenarioAccessorLambdaCarriesHasConstraint(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.Function{
		Params: []string{"obj"},
		Body: &ast.Application{
			Func: &ast.Accessor{Field: "name"},
			Args: []ast.Expr{&ast.Variable{Name: "obj"}},
		},
	}

	_, typ, _, err := s.InferExpr(expr)
	require.NoError(t, err)

	fn, ok := s.Sub.Apply(typ).(Func)
	require.True(t, ok, "a function literal must infer to a Func type")
	assert.Len(t, fn.Params, 1)

	rendered := Render(fn, s.Sub)
	assert.Contains(t, rendered, "->")
	assert.Contains(t, rendered, "given")
	assert.Contains(t, rendered, "has {@name")
}

// scenario 4: 1.0 + 2.0 : Float, "a" + "b" : String, 1.0 + "x" is a mismatch.
func TestScenarioBinaryPlusAcrossFloatAndString(t *testing.T) {
	s := NewInferenceState()
	_, floatT, _, err := s.InferExpr(&ast.Binary{Op: "+", Left: litF(1), Right: litF(2)})
	require.NoError(t, err)
	assert.Equal(t, Float, s.Sub.Apply(floatT))

	s2 := NewInferenceState()
	_, strT, _, err := s2.InferExpr(&ast.Binary{Op: "+", Left: litS("a"), Right: litS("b")})
	require.NoError(t, err)
	assert.Equal(t, Str, s2.Sub.Apply(strT))

	s3 := NewInferenceState()
	_, _, _, err = s3.InferExpr(&ast.Binary{Op: "+", Left: litF(1), Right: litS("x")})
	require.Error(t, err)
	_, ok := err.(*ReportError)
	require.True(t, ok)
}

// scenario 5: constraint Show a (show: a -> String); implement Show Float
// (show = toString); show 42 : String
func TestScenarioTraitShowResolvesAgainstFloat(t *testing.T) {
	s := NewInferenceState()
	prog := &ast.Program{Statements: []ast.Node{
		&ast.ConstraintDef{
			TraitName: "Show",
			TypeParam: "a",
			Functions: []ast.TraitFunctionSig{{
				Name: "show",
				Type: &ast.TypeFunc{
					Params: []ast.TypeExpr{&ast.TypeName{Name: "a"}},
					Return: &ast.TypeName{Name: "String"},
				},
			}},
		},
		&ast.ImplementDef{
			TraitName: "Show",
			TypeName:  "Float",
			Functions: []ast.ImplementFunction{{Name: "show", Value: &ast.Variable{Name: "toString"}}},
		},
		&ast.Application{Func: &ast.Variable{Name: "show"}, Args: []ast.Expr{litF(42)}},
	}}

	out, err := s.InferProgram(prog, nil)
	require.NoError(t, err)
	last := out.Statements[len(out.Statements)-1]
	assert.Equal(t, Str, s.Sub.Apply(last.GetType()))
}

// scenario 6: type U = String | Float; x = 1 : U; x + 1 errors with
// UnionOperationRequiresMatch rather than silently refining x to Float.
func TestScenarioUnionValueRejectsDirectBinaryOp(t *testing.T) {
	s := NewInferenceState()
	prog := &ast.Program{Statements: []ast.Node{
		&ast.TypeDef{
			Name: "U",
			Body: &ast.UnionBody{Members: []ast.TypeExpr{
				&ast.TypeName{Name: "String"},
				&ast.TypeName{Name: "Float"},
			}},
		},
		&ast.Definition{
			Name: "x",
			Value: &ast.Typed{
				Expr:       litF(1),
				Annotation: &ast.TypeName{Name: "U"},
			},
		},
		&ast.Binary{Op: "+", Left: &ast.Variable{Name: "x"}, Right: litF(1)},
	}}

	_, err := s.InferProgram(prog, nil)
	require.Error(t, err)
	re, ok := err.(*ReportError)
	require.True(t, ok)
	assert.Equal(t, KindUnionOperationRequiresMatch, re.Rep.Kind)
}

// Invariant: generalized let-bound polymorphic values mint disjoint fresh
// variables on each distinct use (spec invariant 5).
func TestInvariantLetPolymorphismInstantiatesDisjointly(t *testing.T) {
	s := NewInferenceState()
	prog := &ast.Program{Statements: []ast.Node{
		&ast.Definition{
			Name:  "identity",
			Value: &ast.Function{Params: []string{"x"}, Body: &ast.Variable{Name: "x"}},
		},
		&ast.Tuple{Elements: []ast.Expr{
			&ast.Application{Func: &ast.Variable{Name: "identity"}, Args: []ast.Expr{litF(1)}},
			&ast.Application{Func: &ast.Variable{Name: "identity"}, Args: []ast.Expr{litS("a")}},
		}},
	}}

	out, err := s.InferProgram(prog, nil)
	require.NoError(t, err, "the same polymorphic identity must apply to both a Float and a String argument")
	last := out.Statements[len(out.Statements)-1]
	tup, ok := s.Sub.Apply(last.GetType()).(Tuple)
	require.True(t, ok)
	assert.Equal(t, Float, s.Sub.Apply(tup.Elements[0]))
	assert.Equal(t, Str, s.Sub.Apply(tup.Elements[1]))
}

// A Func value produced by one top-level statement must not pick up a
// constraint recorded while inferring a later, unrelated statement:
// Render is per-value (spec §4.6's per-function constraint attachment),
// not a snapshot of whatever the ambient set happens to hold at the end
// of the whole run — which is exactly what cmd/noolang's --type output
// depends on when it renders one statement at a time after InferProgram
// returns.
func TestProgramEarlierFuncRenderingDoesNotPickUpLaterStatementConstraint(t *testing.T) {
	s := NewInferenceState()
	prog := &ast.Program{Statements: []ast.Node{
		&ast.Function{
			Params: []string{"x"},
			Body:   &ast.Binary{Op: "+", Left: &ast.Variable{Name: "x"}, Right: litF(1)},
		},
		&ast.Accessor{Field: "name"},
	}}

	out, err := s.InferProgram(prog, nil)
	require.NoError(t, err)

	first := out.Statements[0]
	rendered := Render(s.Sub.Apply(first.GetType()), s.Sub)
	assert.Equal(t, "(Float) -> Float", rendered,
		"a monomorphic Float -> Float function must not render a given clause merely because a later statement's accessor added an unrelated Has constraint to the ambient set")
}

// Invariant: record field order never affects unification (spec invariant
// on Record being a closed, exact field-set type).
func TestInvariantRecordFieldOrderIsIrrelevant(t *testing.T) {
	s := NewInferenceState()
	mkRecord := func(order []string) *ast.Record {
		fields := make([]ast.RecordField, len(order))
		for i, name := range order {
			fields[i] = ast.RecordField{Name: name, Value: litF(float64(i))}
		}
		return &ast.Record{Fields: fields}
	}

	_, t1, _, err := s.InferExpr(mkRecord([]string{"x", "y"}))
	require.NoError(t, err)
	_, t2, _, err := s.InferExpr(mkRecord([]string{"y", "x"}))
	require.NoError(t, err)

	require.NoError(t, s.unify(t1, t2))
}
