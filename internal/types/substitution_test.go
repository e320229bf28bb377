package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitutionApplyIdempotent(t *testing.T) {
	supply := NewVarSupply()
	a := supply.Fresh("a")
	sub := NewSubstitution()
	sub, err := sub.Bind(a, Float, NewConstraintSet())
	require.NoError(t, err)

	once := sub.Apply(Variant{Name: "Option", Args: []Type{a}})
	twice := sub.Apply(once)
	assert.Equal(t, once, twice, "Apply must be idempotent once fully resolved")
}

func TestSubstitutionOccursCheck(t *testing.T) {
	supply := NewVarSupply()
	a := supply.Fresh("a")
	sub := NewSubstitution()

	_, err := sub.Bind(a, ListOf(a), NewConstraintSet())
	require.Error(t, err)
	_, ok := err.(*OccursError)
	assert.True(t, ok, "binding a var to a type containing itself must occurs-check")
}

func TestSubstitutionComposeAppliesBoth(t *testing.T) {
	supply := NewVarSupply()
	a := supply.Fresh("a")
	b := supply.Fresh("b")

	s1 := NewSubstitution()
	s1, err := s1.Bind(a, b, NewConstraintSet())
	require.NoError(t, err)

	s2 := NewSubstitution()
	s2, err = s2.Bind(b, Str, NewConstraintSet())
	require.NoError(t, err)

	composed := Compose(s1, s2)
	assert.Equal(t, Str, composed.Apply(a), "composed substitution must resolve a all the way through b to String")
}

func TestSubstitutionConstraintTransportOnVarToVarBind(t *testing.T) {
	supply := NewVarSupply()
	a := supply.Fresh("a")
	b := supply.Fresh("b")

	cs := NewConstraintSet()
	cs.Add(a, Constraint{Kind: Implements, Trait: "Show"})

	sub := NewSubstitution()
	_, err := sub.Bind(a, b, cs)
	require.NoError(t, err)

	found := cs.For(b)
	require.Len(t, found, 1)
	assert.Equal(t, "Show", found[0].Trait)
}
