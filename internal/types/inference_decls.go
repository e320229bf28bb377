package types

import (
	"github.com/jethrolarson/noolang-sub005/internal/ast"
	"github.com/jethrolarson/noolang-sub005/internal/typedast"
)

// ImportResolver loads the Program a given import path refers to. Parsing
// is out of this module's scope (spec §1), so the typer never opens files
// itself — it calls back into whatever collaborator the caller wired up.
// A nil resolver makes every import fail with ImportNotFound.
type ImportResolver interface {
	Load(path string) (*ast.Program, error)
}

// resolveTypeExpr converts the annotation syntax (spec §6) into a Type,
// binding each distinct lowercase type-variable name in te to the same
// Var within vars so that `a -> a` annotates both occurrences with one
// variable.
func (s *InferenceState) resolveTypeExpr(te ast.TypeExpr, vars map[string]Var) (Type, error) {
	switch t := te.(type) {
	case *ast.TypeName:
		if t.IsTypeVar() {
			if v, ok := vars[t.Name]; ok {
				return v, nil
			}
			v := s.Supply.Fresh(t.Name)
			vars[t.Name] = v
			return v, nil
		}
		if IsPrimitiveName(t.Name) {
			return Prim{Name: t.Name}, nil
		}
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			rt, err := s.resolveTypeExpr(a, vars)
			if err != nil {
				return nil, err
			}
			args[i] = rt
		}
		if t.Name == "List" && len(args) == 1 {
			return ListOf(args[0]), nil
		}
		if def, ok := s.TypeDefs[t.Name]; ok {
			if def.Union != nil {
				return Union{Members: def.Union}, nil
			}
			if def.Alias != nil {
				return def.Alias, nil
			}
		}
		return Variant{Name: t.Name, Args: args}, nil

	case *ast.TypeFunc:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			rt, err := s.resolveTypeExpr(p, vars)
			if err != nil {
				return nil, err
			}
			params[i] = rt
		}
		ret, err := s.resolveTypeExpr(t.Return, vars)
		if err != nil {
			return nil, err
		}
		free := freeVarsOf(Func{Params: params, Return: ret})
		return Func{Params: params, Return: ret, Constraints: s.Constraints.Filter(free)}, nil

	case *ast.TypeTuple:
		elems := make([]Type, len(t.Elements))
		for i, e := range t.Elements {
			rt, err := s.resolveTypeExpr(e, vars)
			if err != nil {
				return nil, err
			}
			elems[i] = rt
		}
		return Tuple{Elements: elems}, nil

	case *ast.TypeRecord:
		fields := map[string]Type{}
		order := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			rt, err := s.resolveTypeExpr(f.Type, vars)
			if err != nil {
				return nil, err
			}
			key := NormalizeKey(f.Name)
			fields[key] = rt
			order[i] = key
		}
		return NewRecord(order, fields), nil

	case *ast.TypeUnion:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			rt, err := s.resolveTypeExpr(m, vars)
			if err != nil {
				return nil, err
			}
			members[i] = rt
		}
		return Union{Members: members}, nil

	case *ast.TypeGiven:
		base, err := s.resolveTypeExpr(t.Base, vars)
		if err != nil {
			return nil, err
		}
		for _, c := range t.Constraints {
			v, ok := vars[c.Var]
			if !ok {
				v = s.Supply.Fresh(c.Var)
				vars[c.Var] = v
			}
			if c.Kind == ast.ConstraintImplements {
				s.Constraints.Add(v, Constraint{Kind: Implements, Trait: c.Trait})
			} else {
				ft, err := s.resolveTypeExpr(c.Type, vars)
				if err != nil {
					return nil, err
				}
				s.Constraints.Add(v, Constraint{Kind: Has, Field: NormalizeKey(c.Field), Type: ft})
			}
		}
		return base, nil

	default:
		return nil, NewReport(KindTypeMismatch, "unsupported type annotation", spanOf(te)).asErr()
	}
}

// inferConstraintDef updates the registry with a new trait definition;
// the statement's type is Unit (spec §4.6).
func (s *InferenceState) inferConstraintDef(n *ast.ConstraintDef) (typedast.Node, Type, EffectSet, error) {
	typeParamVar := s.Supply.Fresh(n.TypeParam)
	funcs := map[string]Type{}
	for _, sig := range n.Functions {
		vars := map[string]Var{n.TypeParam: typeParamVar}
		t, err := s.resolveTypeExpr(sig.Type, vars)
		if err != nil {
			return nil, nil, nil, err
		}
		funcs[sig.Name] = t

		// A trait's declared functions are also ordinary polymorphic
		// bindings in env: calling `show 42` dispatches through ordinary
		// application/unification, with the Implements constraint
		// travelling on the type parameter until it collapses against a
		// concrete argument type (spec §4.4's collapse rule; this is how
		// the registry's resolve() gets exercised without a separate
		// dispatch path for trait calls).
		quantified := []Var{typeParamVar}
		for _, v := range vars {
			if v.Id != typeParamVar.Id {
				quantified = append(quantified, v)
			}
		}
		scheme := &Scheme{Vars: quantified, Type: t, Constraints: NewConstraintSet()}
		scheme.Constraints.Add(typeParamVar, Constraint{Kind: Implements, Trait: n.TraitName})
		s.Env.ExtendScheme(sig.Name, scheme)
	}
	s.Registry.AddDefinition(TraitDefinition{Name: n.TraitName, TypeParam: n.TypeParam, Functions: funcs})
	node := &typedast.ConstraintDef{Decorated: typedast.Decorated{Source: n, Type: UnitTy, Effects: EmptyEffects()}, TraitName: n.TraitName}
	return node, UnitTy, EmptyEffects(), nil
}

// inferImplementDef type-checks each implementation function against the
// trait's declared signature (with TypeParam bound to n.TypeName) and
// registers the implementation (spec §4.6).
func (s *InferenceState) inferImplementDef(n *ast.ImplementDef) (typedast.Node, Type, EffectSet, error) {
	def, ok := s.Registry.Definition(n.TraitName)
	if !ok {
		return nil, nil, nil, NewUnknownTrait(n.TraitName, spanOf(n))
	}
	concrete, err := s.concreteTypeNamed(n.TypeName)
	if err != nil {
		return nil, nil, nil, err
	}

	fnExprs := map[string]ast.Expr{}
	for _, f := range n.Functions {
		fnExprs[f.Name] = f.Value
	}
	impl := TraitImplementation{TraitName: n.TraitName, TypeName: n.TypeName, Functions: fnExprs}
	if err := s.Registry.AddImplementation(impl, spanOf(n)); err != nil {
		return nil, nil, nil, err
	}

	for _, f := range n.Functions {
		declared, ok := def.Functions[f.Name]
		if !ok {
			continue
		}
		_, exprT, _, err := s.InferExpr(f.Value)
		if err != nil {
			return nil, nil, nil, err
		}
		bound := substituteTraitParam(declared, def.TypeParam, concrete)
		if err := s.unify(exprT, bound); err != nil {
			return nil, nil, nil, wrapMismatch(err, spanOf(n))
		}
	}
	node := &typedast.ImplementDef{Decorated: typedast.Decorated{Source: n, Type: UnitTy, Effects: EmptyEffects()}, TraitName: n.TraitName, TypeName: n.TypeName}
	return node, UnitTy, EmptyEffects(), nil
}

// concreteTypeNamed resolves an `implement Trait TypeName` head into a
// concrete Type for substitution purposes.
func (s *InferenceState) concreteTypeNamed(name string) (Type, error) {
	if IsPrimitiveName(name) {
		return Prim{Name: name}, nil
	}
	if def, ok := s.TypeDefs[name]; ok && def.Alias != nil {
		return def.Alias, nil
	}
	return Variant{Name: name}, nil
}

// substituteTraitParam replaces the trait's type parameter in a declared
// signature with concrete. inferConstraintDef resolves the parameter to a
// Var whose display name is paramName; a 0-arg Variant named paramName is
// replaced as well.
func substituteTraitParam(t Type, paramName string, concrete Type) Type {
	switch v := t.(type) {
	case Var:
		if v.Name == paramName {
			return concrete
		}
		return v
	case Variant:
		if v.Name == paramName && len(v.Args) == 0 {
			return concrete
		}
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = substituteTraitParam(a, paramName, concrete)
		}
		return Variant{Name: v.Name, Args: args}
	case Func:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = substituteTraitParam(p, paramName, concrete)
		}
		ret := substituteTraitParam(v.Return, paramName, concrete)
		free := freeVarsOf(Func{Params: params, Return: ret})
		return Func{Params: params, Return: ret, Constraints: v.Constraints.Filter(free)}
	case ListT:
		return ListT{Elem: substituteTraitParam(v.Elem, paramName, concrete)}
	case Tuple:
		elems := make([]Type, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = substituteTraitParam(e, paramName, concrete)
		}
		return Tuple{Elements: elems}
	case Record:
		fields := make(map[string]Type, len(v.Fields))
		for k, ft := range v.Fields {
			fields[k] = substituteTraitParam(ft, paramName, concrete)
		}
		return Record{Fields: fields, FieldOrder: v.FieldOrder}
	default:
		return t
	}
}

// inferTypeDef registers a type constructor (spec §4.6): variants add one
// scheme per constructor to env (a single function taking all of the
// constructor's fields at once, or the variant type itself for a nullary
// constructor); aliases and unions record their expansion for later
// annotation lookups.
func (s *InferenceState) inferTypeDef(n *ast.TypeDef) (typedast.Node, Type, EffectSet, error) {
	switch body := n.Body.(type) {
	case *ast.VariantBody:
		s.TypeDefs[n.Name] = &TypeDefInfo{Name: n.Name, TypeParams: n.TypeParams, Variant: true}
		for _, ctor := range body.Constructors {
			vars := map[string]Var{}
			for _, p := range n.TypeParams {
				vars[p] = s.Supply.Fresh(p)
			}
			fieldTypes := make([]Type, len(ctor.Fields))
			for i, f := range ctor.Fields {
				rt, err := s.resolveTypeExpr(f, vars)
				if err != nil {
					return nil, nil, nil, err
				}
				fieldTypes[i] = rt
			}
			quantified := make([]Var, 0, len(vars))
			for _, v := range vars {
				quantified = append(quantified, v)
			}
			variantArgs := make([]Type, len(n.TypeParams))
			for i, p := range n.TypeParams {
				variantArgs[i] = vars[p]
			}
			resultT := Type(Variant{Name: n.Name, Args: variantArgs})
			if len(fieldTypes) > 0 {
				s.Env.ExtendScheme(ctor.Name, &Scheme{Vars: quantified, Type: Func{Params: fieldTypes, Return: resultT}})
			} else {
				s.Env.ExtendScheme(ctor.Name, &Scheme{Vars: quantified, Type: resultT})
			}
		}

	case *ast.AliasBody:
		vars := map[string]Var{}
		for _, p := range n.TypeParams {
			vars[p] = s.Supply.Fresh(p)
		}
		target, err := s.resolveTypeExpr(body.Target, vars)
		if err != nil {
			return nil, nil, nil, err
		}
		s.TypeDefs[n.Name] = &TypeDefInfo{Name: n.Name, TypeParams: n.TypeParams, Alias: target}

	case *ast.UnionBody:
		vars := map[string]Var{}
		members := make([]Type, len(body.Members))
		for i, m := range body.Members {
			rt, err := s.resolveTypeExpr(m, vars)
			if err != nil {
				return nil, nil, nil, err
			}
			members[i] = rt
		}
		s.TypeDefs[n.Name] = &TypeDefInfo{Name: n.Name, TypeParams: n.TypeParams, Union: members}
	}

	node := &typedast.TypeDef{Decorated: typedast.Decorated{Source: n, Type: UnitTy, Effects: EmptyEffects()}, Name: n.Name}
	return node, UnitTy, EmptyEffects(), nil
}

// inferImport parses and types the referenced file via the injected
// resolver, merging its exported environment (spec §4.6). Import
// resolution beyond loading (relative-then-cwd path search, `.noo`
// suffixing) is the resolver's concern, per spec §6's source-file
// conventions.
func (s *InferenceState) inferImport(n *ast.Import, resolver ImportResolver) (typedast.Node, Type, EffectSet, error) {
	if resolver == nil {
		return nil, nil, nil, NewImportNotFound(n.Path, spanOf(n))
	}
	prog, err := resolver.Load(n.Path)
	if err != nil {
		return nil, nil, nil, NewImportParseError(n.Path, err, spanOf(n))
	}
	if _, err := s.InferProgram(prog, resolver); err != nil {
		return nil, nil, nil, NewImportTypeError(n.Path, err, spanOf(n))
	}
	node := &typedast.Import{Decorated: typedast.Decorated{Source: n, Type: UnitTy, Effects: EmptyEffects()}, Path: n.Path}
	return node, UnitTy, EmptyEffects(), nil
}

// InferProgram processes top-level statements strictly in source order
// (spec §5's ordering guarantee): later statements observe the
// environment and registry produced by earlier ones. A top-level
// Definition (Body == nil) extends env and the fold continues to the next
// statement, modeling the same `let ... in rest` semantics the expression
// form has (spec §4.6).
func (s *InferenceState) InferProgram(prog *ast.Program, resolver ImportResolver) (*typedast.Program, error) {
	out := &typedast.Program{Statements: make([]typedast.Node, 0, len(prog.Statements))}
	for _, stmt := range prog.Statements {
		node, err := s.inferStatement(stmt, resolver)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, node)
	}
	return out, nil
}

func (s *InferenceState) inferStatement(stmt ast.Node, resolver ImportResolver) (typedast.Node, error) {
	switch n := stmt.(type) {
	case *ast.ConstraintDef:
		node, _, _, err := s.inferConstraintDef(n)
		return node, err
	case *ast.ImplementDef:
		node, _, _, err := s.inferImplementDef(n)
		return node, err
	case *ast.TypeDef:
		node, _, _, err := s.inferTypeDef(n)
		return node, err
	case *ast.Import:
		node, _, _, err := s.inferImport(n, resolver)
		return node, err
	case ast.Expr:
		node, _, _, err := s.InferExpr(n)
		return node, err
	default:
		return nil, NewReport(KindTypeMismatch, "unsupported top-level statement", spanOf(stmt)).asErr()
	}
}
