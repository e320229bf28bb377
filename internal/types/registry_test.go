package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub005/internal/ast"
)

func TestRegistryAddImplementationRequiresKnownTrait(t *testing.T) {
	r := NewTraitRegistry()
	err := r.AddImplementation(TraitImplementation{TraitName: "Show", TypeName: "Float"}, nil)
	require.Error(t, err)
}

func TestRegistryAddImplementationRejectsDuplicate(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(TraitDefinition{Name: "Show", TypeParam: "a", Functions: map[string]Type{
		"show": Func{Params: []Type{Var{Id: 1}}, Return: Str},
	}})
	impl := TraitImplementation{TraitName: "Show", TypeName: "Float", Functions: map[string]ast.Expr{
		"show": &ast.Variable{Name: "toString"},
	}}
	require.NoError(t, r.AddImplementation(impl, nil))
	require.Error(t, r.AddImplementation(impl, nil), "a second implementation for the same (trait, type) must be rejected")
}

func TestRegistryAddImplementationRejectsUndeclaredFunction(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(TraitDefinition{Name: "Show", TypeParam: "a", Functions: map[string]Type{
		"show": Func{Params: []Type{Var{Id: 1}}, Return: Str},
	}})
	impl := TraitImplementation{TraitName: "Show", TypeName: "Float", Functions: map[string]ast.Expr{
		"describe": &ast.Variable{Name: "toString"},
	}}
	require.Error(t, r.AddImplementation(impl, nil))
}

func TestRegistryResolveFindsUniqueImplementation(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(TraitDefinition{Name: "Show", TypeParam: "a", Functions: map[string]Type{
		"show": Func{Params: []Type{Var{Id: 1}}, Return: Str},
	}})
	require.NoError(t, r.AddImplementation(TraitImplementation{
		TraitName: "Show", TypeName: "Float",
		Functions: map[string]ast.Expr{"show": &ast.Variable{Name: "toString"}},
	}, nil))

	res, err := r.Resolve("show", []Type{Float}, nil)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "Show", res.TraitName)
	assert.Equal(t, "Float", res.TypeName)
}

func TestRegistryResolveAmbiguousWhenTwoTraitsMatch(t *testing.T) {
	r := NewTraitRegistry()
	sig := map[string]Type{"describe": Func{Params: []Type{Var{Id: 1}}, Return: Str}}
	r.AddDefinition(TraitDefinition{Name: "Show", TypeParam: "a", Functions: sig})
	r.AddDefinition(TraitDefinition{Name: "Display", TypeParam: "a", Functions: sig})
	require.NoError(t, r.AddImplementation(TraitImplementation{
		TraitName: "Show", TypeName: "Float",
		Functions: map[string]ast.Expr{"describe": &ast.Variable{Name: "toString"}},
	}, nil))
	require.NoError(t, r.AddImplementation(TraitImplementation{
		TraitName: "Display", TypeName: "Float",
		Functions: map[string]ast.Expr{"describe": &ast.Variable{Name: "toString"}},
	}, nil))

	_, err := r.Resolve("describe", []Type{Float}, nil)
	require.Error(t, err, "two traits both declaring and implementing the same function name for the same type must be ambiguous")
}

func TestRegistryTypeKeyConventions(t *testing.T) {
	assert.Equal(t, "unit", TypeKey(UnitTy))
	assert.Equal(t, "Float", TypeKey(Float))
	assert.Equal(t, "Option", TypeKey(Variant{Name: "Option", Args: []Type{Float}}))
	assert.Equal(t, "List", TypeKey(ListOf(Float)))
	assert.Equal(t, "function", TypeKey(Func{Params: []Type{Float}, Return: Str}))
}

func TestRegistrySuperIsRecordedButNotConsultedByResolve(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(TraitDefinition{Name: "Eq", TypeParam: "a", Functions: map[string]Type{
		"eq": Func{Params: []Type{Var{Id: 1}, Var{Id: 1}}, Return: Variant{Name: "Bool"}},
	}})
	r.AddDefinition(TraitDefinition{Name: "Ord", TypeParam: "a", Functions: map[string]Type{
		"eq": Func{Params: []Type{Var{Id: 1}, Var{Id: 1}}, Return: Variant{Name: "Bool"}},
	}})
	// Ord implements Float and declares Eq as a superclass, but no direct
	// Eq[Float] implementation exists.
	require.NoError(t, r.AddImplementation(TraitImplementation{
		TraitName: "Ord", TypeName: "Float", Super: []string{"Eq"},
		Functions: map[string]ast.Expr{"eq": &ast.Variable{Name: "floatEq"}},
	}, nil))

	res, err := r.Resolve("eq", []Type{Float}, nil)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "Ord", res.TraitName, "resolution must not silently derive Eq[Float] from Ord's Super hint")
}
