// Package types implements Noolang's type representation, unification,
// constraint model, trait registry, and inference driver — the typer.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the tagged sum described in spec §3. Each constructor below
// implements it; equality is structural except for Var, which is by
// identity (Id).
type Type interface {
	typeNode()
	String() string
}

// Prim is one of the four primitive types.
type Prim struct {
	Name string // "Float", "String", "Unit", "Unknown"
}

func (Prim) typeNode()        {}
func (p Prim) String() string { return p.Name }

var (
	Float   = Prim{Name: "Float"}
	Str     = Prim{Name: "String"}
	UnitTy  = Prim{Name: "Unit"}
	Unknown = Prim{Name: "Unknown"}
)

// Variant is a nominal type: a head name plus ordered type arguments.
// Bool, Option, Result, List, and user-defined variants are all Variant
// values; List additionally has a dedicated constructor (below) that is
// semantically sugar for Variant{Name: "List", Args: [elem]}.
type Variant struct {
	Name string
	Args []Type
}

func (Variant) typeNode() {}
func (v Variant) String() string {
	if len(v.Args) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Args))
	for i, a := range v.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s", v.Name, strings.Join(parts, " "))
}

// ListOf builds the dedicated List kind (spec §3).
func ListOf(elem Type) ListT { return ListT{Elem: elem} }

// ListT is the dedicated List kind; see Variant doc for its sugar relation.
type ListT struct {
	Elem Type
}

func (ListT) typeNode() {}
func (l ListT) String() string { return fmt.Sprintf("List %s", l.Elem) }

// AsVariant returns the List's Variant-sugar form, used by code paths
// (trait resolution, variant-equality checks) that only care about the
// nominal head.
func (l ListT) AsVariant() Variant { return Variant{Name: "List", Args: []Type{l.Elem}} }

// Tuple is an ordered sequence of element types.
type Tuple struct {
	Elements []Type
}

func (Tuple) typeNode() {}
func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// Record maps field names to types. Field order is irrelevant to
// equivalence (spec §3) but preserved here in FieldOrder for rendering.
type Record struct {
	Fields     map[string]Type
	FieldOrder []string
}

func (Record) typeNode() {}
func (r Record) String() string {
	order := r.orderedFields()
	parts := make([]string, len(order))
	for i, f := range order {
		parts[i] = fmt.Sprintf("@%s %s", f, r.Fields[f])
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// orderedFields returns FieldOrder if it covers every field, else a sorted
// fallback — keeps String() total even for records built without an
// explicit order (e.g. synthesized by the unifier).
func (r Record) orderedFields() []string {
	if len(r.FieldOrder) == len(r.Fields) {
		return r.FieldOrder
	}
	names := make([]string, 0, len(r.Fields))
	for f := range r.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// NewRecord builds a Record preserving the given field order.
func NewRecord(order []string, fields map[string]Type) Record {
	return Record{Fields: fields, FieldOrder: order}
}

// Func is a function type: ordered parameters, a return type, and the
// constraints attached to the function value (spec §3, §4.4).
type Func struct {
	Params      []Type
	Return      Type
	Constraints *ConstraintSet
	// BodyEffects is the effect set of the function's body at definition
	// time. Function literals themselves are always pure (spec §4.7); an
	// application inherits BodyEffects, which is why it travels on the
	// type rather than being recomputed per call site.
	BodyEffects EffectSet
}

func (Func) typeNode() {}
func (f Func) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	base := fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), f.Return)
	if f.Constraints != nil && !f.Constraints.Empty() {
		return base + " " + f.Constraints.String()
	}
	return base
}

// Var is a unique type variable. Equality is by Id, never by name.
type Var struct {
	Id   uint64
	Name string // display hint only, not part of identity
}

func (Var) typeNode()        {}
func (v Var) String() string { return fmt.Sprintf("t%d", v.Id) }

// Constrained wraps a base type together with the constraints attached to
// variables occurring within it — used when a non-function expression
// carries residual constraints (spec §3, e.g. `pure 1`).
type Constrained struct {
	Base        Type
	Constraints *ConstraintSet
}

func (Constrained) typeNode() {}
func (c Constrained) String() string {
	if c.Constraints == nil || c.Constraints.Empty() {
		return c.Base.String()
	}
	return fmt.Sprintf("%s %s", c.Base, c.Constraints.String())
}

// Union is an untagged, unordered set of member types (spec §3, introduced
// by `type T = A | B`).
type Union struct {
	Members []Type
}

func (Union) typeNode() {}
func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, " | ")
}

// TypeApp applies a type constructor — which may itself be a variable, as
// in a Functor/Monad-style higher-kinded constraint (spec §1's "Functor/
// Monad-style higher-kinded constraints") — to an argument. Ordinary
// nominal application (`Option Float`) is represented directly as a
// Variant; TypeApp exists only for the case where the head is not a fixed
// name, e.g. `pure`'s result type `f Float given f implements Monad`.
type TypeApp struct {
	Head Type
	Arg  Type
}

func (TypeApp) typeNode() {}
func (a TypeApp) String() string { return fmt.Sprintf("%s %s", a.Head, a.Arg) }

// IsPrimitiveName reports whether name is one of the four primitives.
func IsPrimitiveName(name string) bool {
	switch name {
	case "Float", "String", "Unit", "Unknown":
		return true
	default:
		return false
	}
}
