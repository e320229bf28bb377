package types

// Scheme is a universally quantified type template: a pair of (quantified
// variables, type with possibly attached constraints), per spec §3.
// Created at generalization, consumed at instantiation.
type Scheme struct {
	Vars        []Var
	Type        Type
	Constraints *ConstraintSet // constraints keyed by the Vars above, frozen at generalization
}

func (s *Scheme) freeVars() map[uint64]bool {
	bound := map[uint64]bool{}
	for _, v := range s.Vars {
		bound[v.Id] = true
	}
	free := freeVarsOf(s.Type)
	for id := range bound {
		delete(free, id)
	}
	return free
}

// Generalize quantifies over the variables free in t but not free in env
// (spec §3 invariant 3, §4.6's let-binding rule), pulling any constraints
// on those variables out of the ambient constraint set into a frozen
// snapshot owned by the scheme.
func Generalize(env *TypeEnv, t Type, ambient *ConstraintSet) *Scheme {
	envFree := env.FreeVars()
	tFree := freeVarsOf(t)

	var quantified []Var
	frozen := NewConstraintSet()
	for id := range tFree {
		if envFree[id] {
			continue
		}
		v := Var{Id: id}
		if cs := ambient.For(v); len(cs) > 0 {
			v.Name = constraintVarName(ambient, id)
			for _, c := range cs {
				frozen.Add(v, c)
			}
		}
		quantified = append(quantified, v)
	}
	return &Scheme{Vars: quantified, Type: t, Constraints: frozen}
}

func constraintVarName(cs *ConstraintSet, id uint64) string {
	if cs == nil {
		return ""
	}
	if entry, ok := cs.byVar[id]; ok {
		return entry.varName
	}
	return ""
}

// MonoScheme wraps a type with no quantified variables — the scheme form
// of a plain monomorphic binding (e.g. a lambda parameter).
func MonoScheme(t Type) *Scheme { return &Scheme{Type: t} }

// Instantiate produces a fresh instance of the scheme: every quantified
// variable is replaced with a newly-minted one (spec §3 invariant 5: two
// distinct uses of a polymorphic name receive disjoint fresh variables,
// unconditionally), and any constraints frozen on those variables are
// rewritten onto the fresh variables and merged into the ambient
// constraint set so later unification can discharge them.
func Instantiate(s *Scheme, supply *VarSupply, ambient *ConstraintSet) Type {
	if len(s.Vars) == 0 {
		return s.Type
	}
	rename := NewSubstitution()
	for _, old := range s.Vars {
		fresh := supply.Fresh(old.Name)
		rename.set(old.Id, fresh)
		for _, c := range s.Constraints.For(old) {
			ambient.Add(fresh, c)
		}
	}
	return rename.Apply(s.Type)
}
