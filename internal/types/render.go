package types

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeKey NFC-normalizes a record field name before it's used as a
// map or rendering key, so visually identical but
// differently-composed Unicode identifiers collapse to one key (spec
// SPEC_FULL.md §3, grounded on the teacher's lexer normalization).
func NormalizeKey(name string) string {
	return norm.NFC.String(name)
}

// namer hands out stable alphabetic names (a, b, ..., z, a1, b1, ...) to
// type variables in first-encountered order within one render (spec
// §4.1, §4.8).
type namer struct {
	assigned map[uint64]string
	next     int
}

func newNamer() *namer { return &namer{assigned: map[uint64]string{}} }

func (n *namer) nameFor(id uint64) string {
	if existing, ok := n.assigned[id]; ok {
		return existing
	}
	name := alphabeticName(n.next)
	n.assigned[id] = name
	n.next++
	return name
}

func alphabeticName(i int) string {
	letter := rune('a' + i%26)
	suffix := i / 26
	if suffix == 0 {
		return string(letter)
	}
	return fmt.Sprintf("%c%d", letter, suffix)
}

// Render produces the stable, human-facing rendering of t, applying sub
// first, then assigning alphabetic names to the free variables it
// contains in first-encountered (left-to-right, outside-in) order, and
// rendering any attached constraints as a single trailing `given` clause
// (spec §4.1, §4.8).
func Render(t Type, sub *Substitution) string {
	applied := sub.Apply(t)
	n := newNamer()
	var cs *ConstraintSet
	if c, ok := applied.(Constrained); ok {
		cs = c.Constraints
		applied = c.Base
	}
	body := renderNamed(applied, n)
	if cs == nil || cs.Empty() {
		if f, ok := applied.(Func); ok && f.Constraints != nil && !f.Constraints.Empty() {
			cs = f.Constraints
		}
	}
	clause := renderGiven(cs, n)
	if clause == "" {
		return body
	}
	return body + " " + clause
}

func renderNamed(t Type, n *namer) string {
	switch v := t.(type) {
	case Prim:
		return v.Name
	case Var:
		return n.nameFor(v.Id)
	case Variant:
		if len(v.Args) == 0 {
			return v.Name
		}
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = renderNamed(a, n)
		}
		return fmt.Sprintf("%s %s", v.Name, strings.Join(parts, " "))
	case ListT:
		return fmt.Sprintf("List %s", renderNamed(v.Elem, n))
	case Tuple:
		parts := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			parts[i] = renderNamed(e, n)
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	case Record:
		order := v.orderedFields()
		parts := make([]string, len(order))
		for i, f := range order {
			parts[i] = fmt.Sprintf("@%s %s", f, renderNamed(v.Fields[f], n))
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	case Func:
		parts := make([]string, len(v.Params))
		for i, p := range v.Params {
			parts[i] = renderNamed(p, n)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), renderNamed(v.Return, n))
	case Constrained:
		return renderNamed(v.Base, n)
	case Union:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = renderNamed(m, n)
		}
		return strings.Join(parts, " | ")
	case TypeApp:
		return fmt.Sprintf("%s %s", renderNamed(v.Head, n), renderNamed(v.Arg, n))
	default:
		return fmt.Sprintf("%v", t)
	}
}

// renderGiven renders a `given` clause with `implements` clauses before
// `has` clauses, comma-joined, using the namer's already-assigned names so
// the clause refers to the same letters as the body (spec §4.1).
func renderGiven(cs *ConstraintSet, n *namer) string {
	if cs.Empty() {
		return ""
	}
	var implementsClauses, hasClauses []string
	for _, id := range cs.Vars() {
		name := n.nameFor(id)
		for _, c := range cs.For(Var{Id: id}) {
			if c.Kind == Implements {
				implementsClauses = append(implementsClauses, fmt.Sprintf("%s implements %s", name, c.Trait))
			} else {
				hasClauses = append(hasClauses, fmt.Sprintf("%s has {@%s %s}", name, c.Field, renderNamed(c.Type, n)))
			}
		}
	}
	all := append(implementsClauses, hasClauses...)
	if len(all) == 0 {
		return ""
	}
	return "given " + strings.Join(all, ", ")
}
