package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub005/internal/ast"
)

// @name obj applied to a concrete record refines obj's Has constraint down
// to the field's actual type.
func TestInferAccessorAppliedToConcreteRecordRefinesFieldType(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.Application{
		Func: &ast.Accessor{Field: "name"},
		Args: []ast.Expr{&ast.Record{Fields: []ast.RecordField{
			{Name: "name", Value: &ast.Literal{Kind: ast.StringLit, Value: "Ada"}},
		}}},
	}
	_, typ, _, err := s.InferExpr(expr)
	require.NoError(t, err)
	assert.Equal(t, Str, s.Sub.Apply(typ))
}

// @age? obj wraps the field type in Option.
func TestInferOptionalAccessorWrapsResultInOption(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.Application{
		Func: &ast.OptionalAccessor{Field: "age"},
		Args: []ast.Expr{&ast.Record{Fields: []ast.RecordField{
			{Name: "age", Value: &ast.Literal{Kind: ast.FloatLit, Value: 30.0}},
		}}},
	}
	_, typ, _, err := s.InferExpr(expr)
	require.NoError(t, err)
	variant, ok := s.Sub.Apply(typ).(Variant)
	require.True(t, ok)
	assert.Equal(t, "Option", variant.Name)
	require.Len(t, variant.Args, 1)
	assert.Equal(t, Float, s.Sub.Apply(variant.Args[0]))
}

// at index list : Option (element type).
func TestInferAtOnListWrapsElementTypeInOption(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.At{
		Index:  &ast.Literal{Kind: ast.FloatLit, Value: 0.0},
		Target: &ast.List{Elements: []ast.Expr{&ast.Literal{Kind: ast.FloatLit, Value: 1.0}, &ast.Literal{Kind: ast.FloatLit, Value: 2.0}}},
	}
	_, typ, _, err := s.InferExpr(expr)
	require.NoError(t, err)
	variant, ok := s.Sub.Apply(typ).(Variant)
	require.True(t, ok)
	assert.Equal(t, "Option", variant.Name)
	assert.Equal(t, Float, s.Sub.Apply(variant.Args[0]))
}

// the index operand of at must be a Float; a String index is a mismatch.
func TestInferAtRejectsNonFloatIndex(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.At{
		Index:  &ast.Literal{Kind: ast.StringLit, Value: "zero"},
		Target: &ast.List{Elements: []ast.Expr{&ast.Literal{Kind: ast.FloatLit, Value: 1.0}}},
	}
	_, _, _, err := s.InferExpr(expr)
	require.Error(t, err)
}

// @field set on a record with a matching field unifies and preserves shape.
func TestInferSetOnConcreteRecordUnifiesFieldAndPreservesRecordType(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.Set{
		Field:  "x",
		Record: &ast.Record{Fields: []ast.RecordField{{Name: "x", Value: &ast.Literal{Kind: ast.FloatLit, Value: 1.0}}}},
		Value:  &ast.Literal{Kind: ast.FloatLit, Value: 2.0},
	}
	_, typ, _, err := s.InferExpr(expr)
	require.NoError(t, err)
	rec, ok := s.Sub.Apply(typ).(Record)
	require.True(t, ok)
	assert.Equal(t, Float, s.Sub.Apply(rec.Fields["x"]))
}

// setting a field that the concrete record does not declare is an error.
func TestInferSetOnConcreteRecordRejectsUnknownField(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.Set{
		Field:  "missing",
		Record: &ast.Record{Fields: []ast.RecordField{{Name: "x", Value: &ast.Literal{Kind: ast.FloatLit, Value: 1.0}}}},
		Value:  &ast.Literal{Kind: ast.FloatLit, Value: 2.0},
	}
	_, _, _, err := s.InferExpr(expr)
	require.Error(t, err)
}

// setting a field on a still-unresolved record variable records a Has
// constraint rather than failing.
func TestInferSetOnRecordVariableAddsHasConstraint(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.Function{
		Params: []string{"r"},
		Body: &ast.Set{
			Field:  "count",
			Record: &ast.Variable{Name: "r"},
			Value:  &ast.Literal{Kind: ast.FloatLit, Value: 1.0},
		},
	}
	_, typ, _, err := s.InferExpr(expr)
	require.NoError(t, err)
	fn, ok := s.Sub.Apply(typ).(Func)
	require.True(t, ok)
	rendered := Render(fn, s.Sub)
	assert.Contains(t, rendered, "has {@count")
}

// `x = 1 in x + 1` generalizes the definition and infers the body under
// the extended environment.
func TestInferDefinitionWithBodyInfersUnderExtendedEnv(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.Definition{
		Name:  "x",
		Value: &ast.Literal{Kind: ast.FloatLit, Value: 1.0},
		Body:  &ast.Binary{Op: "+", Left: &ast.Variable{Name: "x"}, Right: &ast.Literal{Kind: ast.FloatLit, Value: 1.0}},
	}
	_, typ, _, err := s.InferExpr(expr)
	require.NoError(t, err)
	assert.Equal(t, Float, s.Sub.Apply(typ))
}

// a top-level definition (Body == nil) only extends env and types as Unit.
func TestInferDefinitionAtTopLevelExtendsEnvAndTypesUnit(t *testing.T) {
	s := NewInferenceState()
	expr := &ast.Definition{Name: "y", Value: &ast.Literal{Kind: ast.FloatLit, Value: 5.0}}
	_, typ, _, err := s.InferExpr(expr)
	require.NoError(t, err)
	assert.Equal(t, UnitTy, typ)

	scheme, ok := s.Env.Lookup("y")
	require.True(t, ok)
	assert.Equal(t, Float, scheme.Type)
}
