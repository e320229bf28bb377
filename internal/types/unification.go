package types

import (
	"fmt"
	"sort"
)

// MismatchError is a TypeMismatch (spec §7): unification failed with two
// concrete, incompatible types.
type MismatchError struct {
	Left, Right Type
	Detail      string
}

func (e *MismatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("type mismatch: %s vs %s (%s)", e.Left, e.Right, e.Detail)
	}
	return fmt.Sprintf("type mismatch: %s vs %s", e.Left, e.Right)
}

// UnionVarError reports unifying an untagged union against a bare type
// variable, which is rejected rather than deferred (spec §4.3, Open
// Question #2: source rejects with "narrow by pattern matching" guidance,
// no OneOf constraint).
type UnionVarError struct {
	Union Union
}

func (e *UnionVarError) Error() string {
	return fmt.Sprintf("cannot unify union type %s with an unconstrained type variable: pattern match to narrow the type", e.Union)
}

// Unifier carries the ambient state two unify calls in the same run must
// share: the current substitution and the (global, var-identity-keyed)
// constraint set (spec §5).
type Unifier struct {
	Sub         *Substitution
	Constraints *ConstraintSet
	resolver    ConstraintResolver
}

// ConstraintResolver lets the unifier attempt eager collapse (spec §4.4)
// without depending on TraitRegistry directly; InferenceState
// supplies one backed by the trait registry.
type ConstraintResolver interface {
	TryResolve(c Constraint, t Type) (ok bool)
}

// NewUnifier builds a unifier over existing ambient state.
func NewUnifier(sub *Substitution, constraints *ConstraintSet, resolver ConstraintResolver) *Unifier {
	if sub == nil {
		sub = NewSubstitution()
	}
	if constraints == nil {
		constraints = NewConstraintSet()
	}
	return &Unifier{Sub: sub, Constraints: constraints, resolver: resolver}
}

// Unify attempts to unify t1 and t2 under the unifier's ambient
// substitution, updating it in place and returning an error on failure
// (spec §4.3).
func (u *Unifier) Unify(t1, t2 Type) error {
	t1 = u.Sub.Apply(t1)
	t2 = u.Sub.Apply(t2)

	if c1, ok := t1.(Constrained); ok {
		if err := u.Unify(c1.Base, t2); err != nil {
			return err
		}
		u.Constraints.Merge(c1.Constraints)
		return nil
	}
	if c2, ok := t2.(Constrained); ok {
		if err := u.Unify(t1, c2.Base); err != nil {
			return err
		}
		u.Constraints.Merge(c2.Constraints)
		return nil
	}

	if v1, ok := t1.(Var); ok {
		if v2, ok2 := t2.(Var); ok2 {
			return u.unifyVars(v1, v2)
		}
		if _, isUnion := t2.(Union); isUnion {
			return &UnionVarError{Union: t2.(Union)}
		}
		return u.bindVar(v1, t2)
	}
	if v2, ok := t2.(Var); ok {
		if _, isUnion := t1.(Union); isUnion {
			return &UnionVarError{Union: t1.(Union)}
		}
		return u.bindVar(v2, t1)
	}

	// Union may appear on either side; unifyUnion handles union-vs-union
	// and concrete-vs-union symmetrically, so route t2-is-Union here
	// before the t1-keyed switch below (which only tests t1's shape).
	if _, isUnion := t1.(Union); !isUnion {
		if u2, ok := t2.(Union); ok {
			return u.unifyUnion(u2, t1)
		}
	}

	switch a := t1.(type) {
	case Prim:
		b, ok := t2.(Prim)
		if !ok || a.Name != b.Name {
			return &MismatchError{Left: t1, Right: t2}
		}
		return nil

	case Func:
		b, ok := t2.(Func)
		if !ok {
			return &MismatchError{Left: t1, Right: t2}
		}
		if len(a.Params) != len(b.Params) {
			return &MismatchError{Left: t1, Right: t2, Detail: "arity mismatch"}
		}
		// Merge both sides' attached constraints into the ambient set
		// before unifying params/return, so that when a parameter variable
		// binds to the other side's, Substitution.Bind's usual var-to-var
		// constraint migration (substitution.go) carries the merged-in
		// entries onto the surviving representative rather than leaving
		// them stranded under a variable id that no longer appears free
		// in the unified result.
		u.Constraints.Merge(a.Constraints)
		u.Constraints.Merge(b.Constraints)
		for i := range a.Params {
			if err := u.Unify(a.Params[i], b.Params[i]); err != nil {
				return err
			}
		}
		return u.Unify(a.Return, b.Return)

	case Tuple:
		b, ok := t2.(Tuple)
		if !ok {
			return &MismatchError{Left: t1, Right: t2}
		}
		if len(a.Elements) != len(b.Elements) {
			return &MismatchError{Left: t1, Right: t2, Detail: "arity mismatch"}
		}
		for i := range a.Elements {
			if err := u.Unify(a.Elements[i], b.Elements[i]); err != nil {
				return err
			}
		}
		return nil

	case Record:
		b, ok := t2.(Record)
		if !ok {
			return &MismatchError{Left: t1, Right: t2}
		}
		if len(a.Fields) != len(b.Fields) {
			return &MismatchError{Left: t1, Right: t2, Detail: "field set mismatch"}
		}
		for name, ft := range a.Fields {
			bft, ok := b.Fields[name]
			if !ok {
				return &MismatchError{Left: t1, Right: t2, Detail: fmt.Sprintf("missing field @%s", name)}
			}
			if err := u.Unify(ft, bft); err != nil {
				return err
			}
		}
		return nil

	case Variant:
		if lb, ok := t2.(ListT); ok {
			return u.Unify(a, lb.AsVariant())
		}
		b, ok := t2.(Variant)
		if !ok {
			return &MismatchError{Left: t1, Right: t2}
		}
		if a.Name != b.Name || len(a.Args) != len(b.Args) {
			return &MismatchError{Left: t1, Right: t2, Detail: "variant head/arity mismatch"}
		}
		for i := range a.Args {
			if err := u.Unify(a.Args[i], b.Args[i]); err != nil {
				return err
			}
		}
		return nil

	case ListT:
		if b, ok := t2.(ListT); ok {
			return u.Unify(a.Elem, b.Elem)
		}
		if b, ok := t2.(Variant); ok {
			return u.Unify(a.AsVariant(), b)
		}
		return &MismatchError{Left: t1, Right: t2}

	case Union:
		return u.unifyUnion(a, t2)

	case TypeApp:
		b, ok := t2.(TypeApp)
		if !ok {
			return &MismatchError{Left: t1, Right: t2}
		}
		if err := u.Unify(a.Head, b.Head); err != nil {
			return err
		}
		return u.Unify(a.Arg, b.Arg)

	default:
		return &MismatchError{Left: t1, Right: t2}
	}
}

// unifyVars binds the younger (higher id) variable to the older, per
// spec §4.3's tie-break to stabilize displayed names.
func (u *Unifier) unifyVars(v1, v2 Var) error {
	if v1.Id == v2.Id {
		return nil
	}
	older, younger := v1, v2
	if v1.Id > v2.Id {
		older, younger = v2, v1
	}
	return u.bindVar(younger, older)
}

func (u *Unifier) bindVar(v Var, t Type) error {
	// Bind removes v's constraints from the ambient set when t is not a
	// variable, so capture them first for tryCollapse to discharge.
	pending := append([]Constraint(nil), u.Constraints.For(v)...)
	next, err := u.Sub.Bind(v, t, u.Constraints)
	if err != nil {
		return err
	}
	u.Sub = next
	return u.tryCollapse(v, t, pending)
}

// tryCollapse attempts eager discharge of the constraints v carried before
// it was bound to t (spec §4.4's collapse rule): an Implements constraint
// is offered to the resolver, and a Has constraint against a concrete
// record unifies the record's field type with the constraint's target type.
func (u *Unifier) tryCollapse(v Var, t Type, pending []Constraint) error {
	if _, isVar := t.(Var); isVar {
		return nil // still not concrete; deferral happens at generalize/apply sites
	}
	for _, c := range pending {
		if c.Kind == Has {
			if rec, ok := u.Sub.Apply(t).(Record); ok {
				if ft, ok := rec.Fields[c.Field]; ok {
					if err := u.Unify(ft, c.Type); err != nil {
						return err
					}
				}
			}
			continue
		}
		if u.resolver != nil && u.resolver.TryResolve(c, t) {
			u.Constraints.Remove(v)
		}
	}
	return nil
}

// unifyUnion implements spec §4.3's three union cases: union-vs-union by
// canonical order, concrete-vs-union by refinement (exactly one member
// must unify), union-vs-variable is handled by the caller before reaching
// here (UnionVarError).
func (u *Unifier) unifyUnion(a Union, t2 Type) error {
	if b, ok := t2.(Union); ok {
		as := canonicalOrder(a.Members)
		bs := canonicalOrder(b.Members)
		if len(as) != len(bs) {
			return &MismatchError{Left: a, Right: b, Detail: "union arity mismatch"}
		}
		for i := range as {
			if err := u.Unify(as[i], bs[i]); err != nil {
				return &MismatchError{Left: a, Right: b, Detail: "union members differ"}
			}
		}
		return nil
	}

	matches := 0
	var savedSub *Substitution
	for _, member := range a.Members {
		trial := NewUnifier(cloneSub(u.Sub), u.Constraints.Clone(), u.resolver)
		if err := trial.Unify(member, t2); err == nil {
			matches++
			savedSub = trial.Sub
		}
	}
	if matches != 1 {
		return &MismatchError{Left: a, Right: t2, Detail: "value does not refine to exactly one union member; pattern match to narrow the type"}
	}
	u.Sub = savedSub
	return nil
}

// canonicalOrder sorts union members by rendered name, ties broken by a
// structural-hash fallback (the rendered string itself, which is already
// structural) per spec §4.3.
func canonicalOrder(members []Type) []Type {
	out := make([]Type, len(members))
	copy(out, members)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func cloneSub(s *Substitution) *Substitution {
	out := NewSubstitution()
	if s == nil {
		return out
	}
	for id, t := range s.bindings {
		out.bindings[id] = t
	}
	return out
}
