package types

import "fmt"

// VarSupply hands out monotonically unique fresh variables within one
// typing run (spec §4.2, §5 — owned by a single InferenceState, never a
// process global per spec §9's re-architecture note).
type VarSupply struct {
	next uint64
}

// NewVarSupply starts a fresh counter.
func NewVarSupply() *VarSupply { return &VarSupply{} }

// Fresh returns a new, never-before-seen Var. name is a display hint only.
func (s *VarSupply) Fresh(name string) Var {
	s.next++
	v := Var{Id: s.next}
	if name != "" {
		v.Name = name
	} else {
		v.Name = fmt.Sprintf("t%d", v.Id)
	}
	return v
}

// Substitution is an idempotent mapping from variable identity to type
// (spec §3, §4.2).
type Substitution struct {
	bindings map[uint64]Type
}

// NewSubstitution returns the empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: map[uint64]Type{}}
}

// Lookup returns the type bound to id, if any.
func (s *Substitution) Lookup(id uint64) (Type, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.bindings[id]
	return t, ok
}

// set records a binding directly; callers needing occurs-checking and
// constraint transport should use Bind instead.
func (s *Substitution) set(id uint64, t Type) {
	s.bindings[id] = t
}

// Apply performs structural substitution, replacing free variables
// recursively. It short-circuits on an empty substitution (spec §4.2).
func (s *Substitution) Apply(t Type) Type {
	if s == nil || len(s.bindings) == 0 {
		return t
	}
	switch v := t.(type) {
	case Prim:
		return v
	case Var:
		if bound, ok := s.bindings[v.Id]; ok {
			applied := s.Apply(bound)
			return applied
		}
		return v
	case Variant:
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = s.Apply(a)
		}
		return Variant{Name: v.Name, Args: args}
	case ListT:
		return ListT{Elem: s.Apply(v.Elem)}
	case Tuple:
		elems := make([]Type, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = s.Apply(e)
		}
		return Tuple{Elements: elems}
	case Record:
		fields := make(map[string]Type, len(v.Fields))
		for k, ft := range v.Fields {
			fields[k] = s.Apply(ft)
		}
		return Record{Fields: fields, FieldOrder: v.FieldOrder}
	case Func:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = s.Apply(p)
		}
		return Func{Params: params, Return: s.Apply(v.Return), Constraints: v.Constraints}
	case Constrained:
		return Constrained{Base: s.Apply(v.Base), Constraints: v.Constraints}
	case Union:
		members := make([]Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = s.Apply(m)
		}
		return Union{Members: members}
	case TypeApp:
		return TypeApp{Head: s.Apply(v.Head), Arg: s.Apply(v.Arg)}
	default:
		return t
	}
}

// Compose returns a substitution equivalent to applying s2 then s1:
// result(τ) = s1(s2(τ)) — rebuilt so the result stays idempotent (spec
// §4.2).
func Compose(s1, s2 *Substitution) *Substitution {
	out := NewSubstitution()
	if s2 != nil {
		for id, t := range s2.bindings {
			out.bindings[id] = s1.Apply(t)
		}
	}
	if s1 != nil {
		for id, t := range s1.bindings {
			if _, already := out.bindings[id]; !already {
				out.bindings[id] = t
			}
		}
	}
	return out
}

// occurs reports whether v occurs free within t under s.
func occurs(s *Substitution, v Var, t Type) bool {
	t = s.Apply(t)
	switch x := t.(type) {
	case Var:
		return x.Id == v.Id
	case Variant:
		for _, a := range x.Args {
			if occurs(s, v, a) {
				return true
			}
		}
		return false
	case ListT:
		return occurs(s, v, x.Elem)
	case Tuple:
		for _, e := range x.Elements {
			if occurs(s, v, e) {
				return true
			}
		}
		return false
	case Record:
		for _, ft := range x.Fields {
			if occurs(s, v, ft) {
				return true
			}
		}
		return false
	case Func:
		for _, p := range x.Params {
			if occurs(s, v, p) {
				return true
			}
		}
		return occurs(s, v, x.Return)
	case Constrained:
		return occurs(s, v, x.Base)
	case Union:
		for _, m := range x.Members {
			if occurs(s, v, m) {
				return true
			}
		}
		return false
	case TypeApp:
		return occurs(s, v, x.Head) || occurs(s, v, x.Arg)
	default:
		return false
	}
}

// OccursError reports a cyclic type (spec §7 OccursCheck).
type OccursError struct {
	Var Var
	In  Type
}

func (e *OccursError) Error() string {
	return fmt.Sprintf("occurs check failed: %s occurs in %s", e.Var, e.In)
}

// Bind records v := t, failing the occurs check. When t is itself a Var,
// the constraints attached to v are merged onto that variable; otherwise
// they are removed from constraints, and discharging them against t is
// the caller's job (Unifier.bindVar captures them beforehand).
func (s *Substitution) Bind(v Var, t Type, constraints *ConstraintSet) (*Substitution, error) {
	if vt, ok := t.(Var); ok && vt.Id == v.Id {
		return s, nil
	}
	if occurs(s, v, t) {
		return nil, &OccursError{Var: v, In: s.Apply(t)}
	}
	next := NewSubstitution()
	for id, bt := range s.bindings {
		next.bindings[id] = bt
	}
	next.set(v.Id, t)

	if constraints != nil {
		cs := constraints.For(v)
		if len(cs) > 0 {
			if target, ok := t.(Var); ok {
				for _, c := range cs {
					constraints.Add(target, c)
				}
			}
			constraints.Remove(v)
		}
	}
	return next, nil
}
