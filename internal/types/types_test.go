package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuncStringAppendsGivenClauseOnlyWhenConstrained(t *testing.T) {
	bare := Func{Params: []Type{Float}, Return: Str}
	assert.Equal(t, "(Float) -> String", bare.String())

	cs := NewConstraintSet()
	v := Var{Id: 1, Name: "a"}
	cs.Add(v, Constraint{Kind: Implements, Trait: "Show"})
	withConstraints := Func{Params: []Type{v}, Return: Str, Constraints: cs}
	assert.Contains(t, withConstraints.String(), "given a implements Show")
}

func TestListSugarRendersAsListAndConvertsToVariant(t *testing.T) {
	assert.Equal(t, "List Float", ListOf(Float).String())
	assert.Equal(t, Variant{Name: "List", Args: []Type{Float}}, ListOf(Float).AsVariant())
}

func TestRecordStringUsesFieldOrderWhenComplete(t *testing.T) {
	r := NewRecord([]string{"y", "x"}, map[string]Type{"x": Float, "y": Str})
	assert.Equal(t, "{@y String, @x Float}", r.String())
}

func TestRecordStringFallsBackToSortedOrderWhenIncomplete(t *testing.T) {
	r := Record{Fields: map[string]Type{"b": Float, "a": Str}}
	assert.Equal(t, "{@a String, @b Float}", r.String())
}

func TestUnionStringSortsMembers(t *testing.T) {
	u := Union{Members: []Type{Str, Float}}
	assert.Equal(t, "Float | String", u.String())
}

func TestTypeAppStringRendersHeadThenArg(t *testing.T) {
	app := TypeApp{Head: Var{Id: 1, Name: "f"}, Arg: Float}
	assert.Equal(t, "t1 Float", app.String())
}

func TestIsPrimitiveName(t *testing.T) {
	for _, name := range []string{"Float", "String", "Unit", "Unknown"} {
		assert.True(t, IsPrimitiveName(name))
	}
	assert.False(t, IsPrimitiveName("Option"))
}
