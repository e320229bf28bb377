package types

import (
	"fmt"
	"sort"
	"strings"
)

// ConstraintKind discriminates the Constraint sum (spec §3).
type ConstraintKind int

const (
	Implements ConstraintKind = iota
	Has
)

// Constraint is one clause attached to a variable or function type.
type Constraint struct {
	Kind  ConstraintKind
	Trait string // set when Kind == Implements
	Field string // set when Kind == Has
	Type  Type   // set when Kind == Has: the field's required type
}

func (c Constraint) String() string {
	if c.Kind == Implements {
		return fmt.Sprintf("implements %s", c.Trait)
	}
	return fmt.Sprintf("has {@%s %s}", c.Field, c.Type)
}

// Equal compares two constraints structurally. Has constraints compare
// their Type by rendered string, which is sufficient for the dedup use in
// Normalize (structurally-equal types render identically).
func (c Constraint) Equal(other Constraint) bool {
	if c.Kind != other.Kind {
		return false
	}
	if c.Kind == Implements {
		return c.Trait == other.Trait
	}
	return c.Field == other.Field && c.Type.String() == other.Type.String()
}

// ConstraintSet maps a variable identity (Var.Id) to its non-empty list of
// constraints (spec §3 Constrained, §4.4 "map: variable identity → set of
// constraints").
type ConstraintSet struct {
	byVar map[uint64]*constraintEntry
}

type constraintEntry struct {
	varName     string
	constraints []Constraint
}

// NewConstraintSet builds an empty set.
func NewConstraintSet() *ConstraintSet {
	return &ConstraintSet{byVar: map[uint64]*constraintEntry{}}
}

// Empty reports whether the set carries no constraints.
func (cs *ConstraintSet) Empty() bool {
	if cs == nil {
		return true
	}
	return len(cs.byVar) == 0
}

// Add attaches one constraint to v, deduping against existing entries and
// collapsing Has-same-field entries per spec §4.4's normalization rule.
// When a Has constraint on the same field already exists, the caller (the
// unifier) is responsible for unifying the two field types beforehand;
// Add itself only replaces the stale entry so the set never carries two
// Has clauses for the same field on the same variable.
func (cs *ConstraintSet) Add(v Var, c Constraint) {
	entry, ok := cs.byVar[v.Id]
	if !ok {
		cs.byVar[v.Id] = &constraintEntry{varName: v.Name, constraints: []Constraint{c}}
		return
	}
	for i, existing := range entry.constraints {
		if existing.Equal(c) {
			return
		}
		if existing.Kind == Has && c.Kind == Has && existing.Field == c.Field {
			entry.constraints[i] = c
			return
		}
	}
	entry.constraints = append(entry.constraints, c)
}

// For returns the constraints attached to v, or nil.
func (cs *ConstraintSet) For(v Var) []Constraint {
	if cs == nil {
		return nil
	}
	entry, ok := cs.byVar[v.Id]
	if !ok {
		return nil
	}
	return entry.constraints
}

// Remove drops all constraints on v (used when a constraint set collapses
// successfully, spec §4.4's "drop the constraint" step).
func (cs *ConstraintSet) Remove(v Var) {
	if cs == nil {
		return
	}
	delete(cs.byVar, v.Id)
}

// Vars returns the variable ids carrying constraints, sorted by id for
// deterministic rendering.
func (cs *ConstraintSet) Vars() []uint64 {
	if cs == nil {
		return nil
	}
	ids := make([]uint64, 0, len(cs.byVar))
	for id := range cs.byVar {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Merge folds other's entries into cs, returning cs (spec §4.4: "during
// unification, constraints merge by variable identity → set of
// constraints").
func (cs *ConstraintSet) Merge(other *ConstraintSet) *ConstraintSet {
	if other == nil {
		return cs
	}
	if cs == nil {
		cs = NewConstraintSet()
	}
	for _, id := range other.Vars() {
		entry := other.byVar[id]
		v := Var{Id: id, Name: entry.varName}
		for _, c := range entry.constraints {
			cs.Add(v, c)
		}
	}
	return cs
}

// Filter returns a fresh set containing only the entries whose variable id
// is in keep, preserving each entry's recorded variable name. Used wherever
// a type value needs to carry a snapshot of just the constraints relevant
// to its own free variables rather than the whole ambient set (spec §4.6).
func (cs *ConstraintSet) Filter(keep map[uint64]bool) *ConstraintSet {
	out := NewConstraintSet()
	if cs == nil {
		return out
	}
	for _, id := range cs.Vars() {
		if !keep[id] {
			continue
		}
		entry := cs.byVar[id]
		cp := make([]Constraint, len(entry.constraints))
		copy(cp, entry.constraints)
		out.byVar[id] = &constraintEntry{varName: entry.varName, constraints: cp}
	}
	return out
}

// Clone returns a deep-enough copy safe to mutate independently.
func (cs *ConstraintSet) Clone() *ConstraintSet {
	out := NewConstraintSet()
	if cs == nil {
		return out
	}
	for _, id := range cs.Vars() {
		entry := cs.byVar[id]
		cp := make([]Constraint, len(entry.constraints))
		copy(cp, entry.constraints)
		out.byVar[id] = &constraintEntry{varName: entry.varName, constraints: cp}
	}
	return out
}

// String renders a `given` clause: `implements` constraints before `has`
// constraints, comma-joined (spec §4.1).
func (cs *ConstraintSet) String() string {
	if cs.Empty() {
		return ""
	}
	var implementsClauses, hasClauses []string
	for _, id := range cs.Vars() {
		entry := cs.byVar[id]
		name := entry.varName
		if name == "" {
			name = fmt.Sprintf("t%d", id)
		}
		for _, c := range entry.constraints {
			if c.Kind == Implements {
				implementsClauses = append(implementsClauses, fmt.Sprintf("%s implements %s", name, c.Trait))
			} else {
				hasClauses = append(hasClauses, fmt.Sprintf("%s has {@%s %s}", name, c.Field, c.Type))
			}
		}
	}
	all := append(implementsClauses, hasClauses...)
	return "given " + strings.Join(all, ", ")
}
