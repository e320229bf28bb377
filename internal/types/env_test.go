package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeEnvLookupWalksParentChain(t *testing.T) {
	root := NewTypeEnv()
	root.Extend("x", Float)

	child := root.Push()
	child.Extend("y", Str)

	s, ok := child.Lookup("x")
	require.True(t, ok, "lookup must see a binding from a parent frame")
	assert.Equal(t, Float, s.Type)

	_, ok = root.Lookup("y")
	assert.False(t, ok, "a parent frame must not see a child's bindings")
}

func TestTypeEnvExtendShadowsInChildFrameOnly(t *testing.T) {
	root := NewTypeEnv()
	root.Extend("x", Float)

	child := root.Push()
	child.Extend("x", Str)

	s, _ := child.Lookup("x")
	assert.Equal(t, Str, s.Type, "the child frame's binding must shadow the parent's")

	s, _ = root.Lookup("x")
	assert.Equal(t, Float, s.Type, "shadowing in a child frame must not mutate the parent")
}

func TestTypeEnvFreeVarsCollectsAcrossFrames(t *testing.T) {
	supply := NewVarSupply()
	a := supply.Fresh("a")
	b := supply.Fresh("b")

	root := NewTypeEnv()
	root.Extend("x", a)
	child := root.Push()
	child.Extend("y", b)

	free := child.FreeVars()
	assert.True(t, free[a.Id])
	assert.True(t, free[b.Id])
}

func TestFreeVarsOfIgnoresBoundConcreteStructure(t *testing.T) {
	supply := NewVarSupply()
	a := supply.Fresh("a")
	ty := Func{Params: []Type{Float, a}, Return: ListOf(Str)}

	free := freeVarsOf(ty)
	assert.Len(t, free, 1)
	assert.True(t, free[a.Id])
}
