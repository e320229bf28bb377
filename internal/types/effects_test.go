package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectUnionIsAssociativeAndCommutative(t *testing.T) {
	a := NewEffectSet(EffectIO)
	b := NewEffectSet(EffectLog)
	c := NewEffectSet(EffectRand)

	left := Union(Union(a, b), c)
	right := Union(a, Union(b, c))
	assert.True(t, left.Equal(right), "effect union must be associative")

	assert.True(t, Union(a, b).Equal(Union(b, a)), "effect union must be commutative")
}

func TestEmptyEffectsIsUnionIdentity(t *testing.T) {
	a := NewEffectSet(EffectIO, EffectMut)
	assert.True(t, Union(a, EmptyEffects()).Equal(a))
	assert.True(t, Union(EmptyEffects(), a).Equal(a))
}

func TestEffectSetUnionNeverMutatesArguments(t *testing.T) {
	a := NewEffectSet(EffectIO)
	b := NewEffectSet(EffectLog)
	_ = Union(a, b)

	assert.Equal(t, 1, len(a))
	assert.Equal(t, 1, len(b))
}

func TestEffectSetIsEmptyAndContains(t *testing.T) {
	assert.True(t, EmptyEffects().IsEmpty())
	s := NewEffectSet(EffectFFI)
	assert.False(t, s.IsEmpty())
	assert.True(t, s.Contains(EffectFFI))
	assert.False(t, s.Contains(EffectIO))
}

func TestEffectSetStringIsSorted(t *testing.T) {
	s := NewEffectSet(EffectWrite, EffectIO)
	assert.Equal(t, "{io, write}", s.String())
}
