package astjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub005/internal/ast"
)

func TestDecodeExprLiteralAndVariable(t *testing.T) {
	lit, err := DecodeExpr([]byte(`{"kind":"Literal","litKind":"float","value":1.5}`))
	require.NoError(t, err)
	l, ok := lit.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.FloatLit, l.Kind)
	assert.Equal(t, 1.5, l.Value)

	v, err := DecodeExpr([]byte(`{"kind":"Variable","name":"x"}`))
	require.NoError(t, err)
	vv, ok := v.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", vv.Name)
}

func TestDecodeExprFunctionAndApplication(t *testing.T) {
	data := `{
		"kind": "Application",
		"func": {"kind": "Function", "params": ["x"], "body": {
			"kind": "Binary", "op": "+",
			"left": {"kind": "Variable", "name": "x"},
			"right": {"kind": "Literal", "litKind": "float", "value": 1}
		}},
		"args": [{"kind": "Literal", "litKind": "float", "value": 2}]
	}`
	expr, err := DecodeExpr([]byte(data))
	require.NoError(t, err)
	app, ok := expr.(*ast.Application)
	require.True(t, ok)
	fn, ok := app.Func.(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, fn.Params)
	bin, ok := fn.Body.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	require.Len(t, app.Args, 1)
}

func TestDecodeExprRecordPreservesFieldOrder(t *testing.T) {
	data := `{"kind":"Record","fields":[
		{"name":"x","value":{"kind":"Literal","litKind":"float","value":1}},
		{"name":"y","value":{"kind":"Literal","litKind":"string","value":"z"}}
	]}`
	expr, err := DecodeExpr([]byte(data))
	require.NoError(t, err)
	rec, ok := expr.(*ast.Record)
	require.True(t, ok)
	require.Len(t, rec.Fields, 2)
	assert.Equal(t, "x", rec.Fields[0].Name)
	assert.Equal(t, "y", rec.Fields[1].Name)
}

func TestDecodeProgramDispatchesDeclsAndExprs(t *testing.T) {
	data := `{
		"statements": [
			{"kind": "TypeDef", "name": "U", "bodyKind": "union", "body": {
				"members": [{"kind":"TypeName","name":"String"}, {"kind":"TypeName","name":"Float"}]
			}},
			{"kind": "Definition", "name": "x", "value": {"kind":"Literal","litKind":"float","value":1}},
			{"kind": "Variable", "name": "x"}
		]
	}`
	prog, err := DecodeProgram([]byte(data))
	require.NoError(t, err)
	require.Len(t, prog.Statements, 3)

	typeDef, ok := prog.Statements[0].(*ast.TypeDef)
	require.True(t, ok)
	union, ok := typeDef.Body.(*ast.UnionBody)
	require.True(t, ok)
	assert.Len(t, union.Members, 2)

	def, ok := prog.Statements[1].(*ast.Definition)
	require.True(t, ok)
	assert.Equal(t, "x", def.Name)
	assert.Nil(t, def.Body, "a top-level Definition must decode with a nil Body")

	_, ok = prog.Statements[2].(*ast.Variable)
	require.True(t, ok)
}

func TestDecodeExprUnknownKindErrors(t *testing.T) {
	_, err := DecodeExpr([]byte(`{"kind":"NotARealKind"}`))
	require.Error(t, err)
}

func TestDecodeTypeExprGivenClauseWithHasConstraint(t *testing.T) {
	data := `{
		"kind": "Typed",
		"expr": {"kind": "Variable", "name": "obj"},
		"annotation": {
			"kind": "TypeGiven",
			"base": {"kind": "TypeName", "name": "a"},
			"constraints": [
				{"kind": "has", "var": "a", "field": "name", "type": {"kind":"TypeName","name":"String"}}
			]
		}
	}`
	expr, err := DecodeExpr([]byte(data))
	require.NoError(t, err)
	typed, ok := expr.(*ast.Typed)
	require.True(t, ok)
	given, ok := typed.Annotation.(*ast.TypeGiven)
	require.True(t, ok)
	require.Len(t, given.Constraints, 1)
	assert.Equal(t, ast.ConstraintHas, given.Constraints[0].Kind)
	assert.Equal(t, "name", given.Constraints[0].Field)
}
