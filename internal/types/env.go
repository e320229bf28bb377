package types

// TypeEnv is a stack of name→scheme maps, pushed on scope entry and
// popped on exit (spec §3). Mutation is scoped to the current frame; no
// global mutation outside the registry and prelude.
type TypeEnv struct {
	bindings map[string]*Scheme
	parent   *TypeEnv
}

// NewTypeEnv returns an empty root environment.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{bindings: map[string]*Scheme{}}
}

// Push returns a new child frame; Lookup walks up to parents, Extend only
// ever mutates the frame it's called on.
func (e *TypeEnv) Push() *TypeEnv {
	return &TypeEnv{bindings: map[string]*Scheme{}, parent: e}
}

// Extend binds name to a monomorphic type (no quantified variables) in
// the current frame.
func (e *TypeEnv) Extend(name string, t Type) {
	e.bindings[name] = &Scheme{Type: t}
}

// ExtendScheme binds name to a (possibly polymorphic) scheme in the
// current frame.
func (e *TypeEnv) ExtendScheme(name string, s *Scheme) {
	e.bindings[name] = s
}

// Lookup walks the parent chain and returns the nearest binding for name.
func (e *TypeEnv) Lookup(name string) (*Scheme, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if s, ok := cur.bindings[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// FreeVars collects the free type variable ids across every binding
// reachable from e (spec §3 invariant 3: generalization must not capture
// variables free in the environment).
func (e *TypeEnv) FreeVars() map[uint64]bool {
	out := map[uint64]bool{}
	for cur := e; cur != nil; cur = cur.parent {
		for _, s := range cur.bindings {
			for id := range s.freeVars() {
				out[id] = true
			}
		}
	}
	return out
}

// freeVarsOf collects the free variable ids occurring in t.
func freeVarsOf(t Type) map[uint64]bool {
	out := map[uint64]bool{}
	var walk func(Type)
	walk = func(t Type) {
		switch v := t.(type) {
		case Var:
			out[v.Id] = true
		case Variant:
			for _, a := range v.Args {
				walk(a)
			}
		case ListT:
			walk(v.Elem)
		case Tuple:
			for _, e := range v.Elements {
				walk(e)
			}
		case Record:
			for _, ft := range v.Fields {
				walk(ft)
			}
		case Func:
			for _, p := range v.Params {
				walk(p)
			}
			walk(v.Return)
		case Constrained:
			walk(v.Base)
		case Union:
			for _, m := range v.Members {
				walk(m)
			}
		case TypeApp:
			walk(v.Head)
			walk(v.Arg)
		}
	}
	walk(t)
	return out
}
