package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderAssignsStableAlphabeticNamesInOrder(t *testing.T) {
	supply := NewVarSupply()
	a := supply.Fresh("x")
	b := supply.Fresh("y")
	sub := NewSubstitution()

	ty := Func{Params: []Type{a, b}, Return: a}
	assert.Equal(t, "(a, b) -> a", Render(ty, sub))
}

func TestRenderUnwrapsConstrainedAndAppendsGivenClause(t *testing.T) {
	supply := NewVarSupply()
	a := supply.Fresh("a")
	cs := NewConstraintSet()
	cs.Add(a, Constraint{Kind: Implements, Trait: "Monad"})

	ty := Constrained{Base: a, Constraints: cs}
	assert.Equal(t, "a given a implements Monad", Render(ty, NewSubstitution()))
}

func TestRenderNoGivenClauseWhenUnconstrained(t *testing.T) {
	assert.Equal(t, "Float", Render(Float, NewSubstitution()))
}

func TestRenderAppliesSubstitutionBeforeNaming(t *testing.T) {
	supply := NewVarSupply()
	a := supply.Fresh("a")
	sub := NewSubstitution()
	sub, err := sub.Bind(a, Float, NewConstraintSet())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "Float", Render(a, sub))
}
