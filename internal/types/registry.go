package types

import (
	"sort"

	"github.com/jethrolarson/noolang-sub005/internal/ast"
)

// TraitDefinition is `{ name, typeParam, functions: name→functionType }`
// (spec §3), created by a `constraint` statement and immutable thereafter.
type TraitDefinition struct {
	Name      string
	TypeParam string
	Functions map[string]Type
}

// TraitImplementation is `{ typeName, functions: name→expression }` (spec
// §3), created by `implement` statements. Super is the supplemented
// superclass hint (SPEC_FULL.md §5) — recorded but never consulted by
// Resolve, since spec.md invariant 6 requires a resolved implementation to
// be present in the trait's own map.
type TraitImplementation struct {
	TraitName string
	TypeName  string
	Functions map[string]ast.Expr
	Super     []string
}

// TraitRegistry holds definitions, per-type implementations, and the
// function-name index used to detect ambiguous calls (spec §4.5). It is
// process-wide for the scope of one typing run (spec §3).
type TraitRegistry struct {
	definitions    map[string]TraitDefinition
	implementations map[string]map[string]TraitImplementation // traitName -> typeKey -> impl
	functionIndex  map[string]map[string]bool                 // fnName -> set of traitNames
}

// NewTraitRegistry returns an empty registry.
func NewTraitRegistry() *TraitRegistry {
	return &TraitRegistry{
		definitions:     map[string]TraitDefinition{},
		implementations: map[string]map[string]TraitImplementation{},
		functionIndex:   map[string]map[string]bool{},
	}
}

// AddDefinition registers a trait definition, updating functionIndex for
// each declared function and initializing an empty implementation map
// (spec §4.5).
func (r *TraitRegistry) AddDefinition(def TraitDefinition) {
	r.definitions[def.Name] = def
	if _, ok := r.implementations[def.Name]; !ok {
		r.implementations[def.Name] = map[string]TraitImplementation{}
	}
	for fn := range def.Functions {
		if r.functionIndex[fn] == nil {
			r.functionIndex[fn] = map[string]bool{}
		}
		r.functionIndex[fn][def.Name] = true
	}
}

// Definition looks up a trait definition by name.
func (r *TraitRegistry) Definition(name string) (TraitDefinition, bool) {
	def, ok := r.definitions[name]
	return def, ok
}

// AddImplementation validates and registers impl (spec §4.5): the trait
// must be defined, every function must be declared by it, arity must match
// when statically determinable, and (trait, typeName) must not already
// have an implementation.
func (r *TraitRegistry) AddImplementation(impl TraitImplementation, span *Span) error {
	def, ok := r.definitions[impl.TraitName]
	if !ok {
		return NewUnknownTrait(impl.TraitName, span)
	}
	byType, ok := r.implementations[impl.TraitName]
	if !ok {
		byType = map[string]TraitImplementation{}
		r.implementations[impl.TraitName] = byType
	}
	if _, exists := byType[impl.TypeName]; exists {
		return NewDuplicateImplementation(impl.TraitName, impl.TypeName, span)
	}
	for fnName, expr := range impl.Functions {
		declared, ok := def.Functions[fnName]
		if !ok {
			return NewImplementationUnknownFunction(impl.TraitName, fnName, span)
		}
		if fnLit, ok := expr.(*ast.Function); ok {
			declaredFn, ok := declared.(Func)
			if ok && len(fnLit.Params) != len(declaredFn.Params) {
				return NewImplementationArityMismatch(impl.TraitName, fnName, len(declaredFn.Params), len(fnLit.Params), span)
			}
		}
		// Variable references (aliases) are accepted without an arity check.
	}
	byType[impl.TypeName] = impl
	return nil
}

// TypeKey maps a type to its trait-resolution key (spec §4.5): primitives
// use their name except Unit, which maps to the reserved key "unit";
// variants (including List) use their head name; functions map to the
// reserved key "function".
func TypeKey(t Type) string {
	switch v := t.(type) {
	case Prim:
		if v.Name == "Unit" {
			return "unit"
		}
		return v.Name
	case Variant:
		return v.Name
	case ListT:
		return "List"
	case Func:
		return "function"
	default:
		return ""
	}
}

// Resolution is the outcome of Resolve (spec §4.5).
type Resolution struct {
	Found     bool
	TraitName string
	TypeName  string
}

// Resolve implements spec §4.5's five-step algorithm: look up candidate
// traits declaring fnName, find which ones have an implementation for the
// head type of argTypes[0], and require exactly one match.
func (r *TraitRegistry) Resolve(fnName string, argTypes []Type, span *Span) (*Resolution, error) {
	candidates := r.functionIndex[fnName]
	if len(candidates) == 0 || len(argTypes) == 0 {
		return &Resolution{Found: false}, nil
	}
	key := TypeKey(argTypes[0])

	var matchedTraits []string
	for trait := range candidates {
		if _, ok := r.implementations[trait][key]; ok {
			matchedTraits = append(matchedTraits, trait)
		}
	}
	sort.Strings(matchedTraits)

	switch len(matchedTraits) {
	case 0:
		return &Resolution{Found: false}, nil
	case 1:
		return &Resolution{Found: true, TraitName: matchedTraits[0], TypeName: key}, nil
	default:
		return nil, NewAmbiguousTraitResolution(fnName, matchedTraits, span)
	}
}

// TryResolve implements ConstraintResolver for the unifier's eager
// collapse attempt (spec §4.4): it succeeds only when the constraint is an
// Implements constraint naming a trait with a registered implementation
// for t's head type.
func (r *TraitRegistry) TryResolve(c Constraint, t Type) bool {
	if c.Kind != Implements {
		return false
	}
	byType, ok := r.implementations[c.Trait]
	if !ok {
		return false
	}
	_, ok = byType[TypeKey(t)]
	return ok
}
