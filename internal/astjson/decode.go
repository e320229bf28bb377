// Package astjson decodes the JSON wire representation of a Noolang
// program into internal/ast trees. Lexing and parsing text source is out
// of scope (spec §6); callers — the CLI harness and ImportResolver
// implementations — hand the typer pre-parsed ASTs instead, and this is
// the wire format they arrive in. Every node is a JSON object carrying a
// "kind" discriminator plus kind-specific fields; interface-typed fields
// (Expr, Pattern, TypeExpr, Decl) are decoded by recursing on their own
// "kind".
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/jethrolarson/noolang-sub005/internal/ast"
)

func unmarshalKind(data []byte) (string, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("astjson: %w", err)
	}
	if head.Kind == "" {
		return "", fmt.Errorf("astjson: node missing \"kind\" field")
	}
	return head.Kind, nil
}

func decodeSpan(raw json.RawMessage) ast.Span {
	if len(raw) == 0 {
		return ast.Span{}
	}
	var sp ast.Span
	_ = json.Unmarshal(raw, &sp)
	return sp
}

// DecodeProgram parses the top-level wire format: a "statements" array plus
// a "span".
func DecodeProgram(data []byte) (*ast.Program, error) {
	var raw struct {
		Statements []json.RawMessage `json:"statements"`
		Span       json.RawMessage   `json:"span"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astjson: decode program: %w", err)
	}
	stmts := make([]ast.Node, len(raw.Statements))
	for i, s := range raw.Statements {
		node, err := decodeStatement(s)
		if err != nil {
			return nil, err
		}
		stmts[i] = node
	}
	return &ast.Program{Statements: stmts, Span: decodeSpan(raw.Span)}, nil
}

func decodeStatement(data json.RawMessage) (ast.Node, error) {
	kind, err := unmarshalKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "ConstraintDef", "ImplementDef", "TypeDef", "Import", "Definition":
		return decodeDecl(data, kind)
	default:
		return decodeExpr(data, kind)
	}
}

// DecodeExpr decodes a single expression node (used by callers that only
// need to type-check one snippet; the CLI decodes whole programs with
// DecodeProgram).
func DecodeExpr(data []byte) (ast.Expr, error) {
	kind, err := unmarshalKind(data)
	if err != nil {
		return nil, err
	}
	return decodeExpr(data, kind)
}

func decodeExpr(data json.RawMessage, kind string) (ast.Expr, error) {
	switch kind {
	case "Literal":
		var n struct {
			LitKind string          `json:"litKind"`
			Value   json.RawMessage `json:"value"`
			Span    json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		lk, value, err := decodeLiteralValue(n.LitKind, n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: lk, Value: value, Span: decodeSpan(n.Span)}, nil

	case "Variable":
		var n struct {
			Name string          `json:"name"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &ast.Variable{Name: n.Name, Span: decodeSpan(n.Span)}, nil

	case "Function":
		var n struct {
			Params []string        `json:"params"`
			Body   json.RawMessage `json:"body"`
			Span   json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		body, err := decodeExprField(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Function{Params: n.Params, Body: body, Span: decodeSpan(n.Span)}, nil

	case "Application":
		var n struct {
			Func json.RawMessage   `json:"func"`
			Args []json.RawMessage `json:"args"`
			Span json.RawMessage  `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		fn, err := decodeExprField(n.Func)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			e, err := decodeExprField(a)
			if err != nil {
				return nil, err
			}
			args[i] = e
		}
		return &ast.Application{Func: fn, Args: args, Span: decodeSpan(n.Span)}, nil

	case "Binary":
		var n struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Span  json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		left, err := decodeExprField(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExprField(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: n.Op, Left: left, Right: right, Span: decodeSpan(n.Span)}, nil

	case "If":
		var n struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		cond, err := decodeExprField(n.Cond)
		if err != nil {
			return nil, err
		}
		thenE, err := decodeExprField(n.Then)
		if err != nil {
			return nil, err
		}
		elseE, err := decodeExprField(n.Else)
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Then: thenE, Else: elseE, Span: decodeSpan(n.Span)}, nil

	case "Match":
		var n struct {
			Scrutinee json.RawMessage `json:"scrutinee"`
			Cases     []struct {
				Pattern json.RawMessage `json:"pattern"`
				Body    json.RawMessage `json:"body"`
				Span    json.RawMessage `json:"span"`
			} `json:"cases"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		scrut, err := decodeExprField(n.Scrutinee)
		if err != nil {
			return nil, err
		}
		cases := make([]ast.MatchCase, len(n.Cases))
		for i, c := range n.Cases {
			pat, err := decodePatternField(c.Pattern)
			if err != nil {
				return nil, err
			}
			body, err := decodeExprField(c.Body)
			if err != nil {
				return nil, err
			}
			cases[i] = ast.MatchCase{Pattern: pat, Body: body, Span: decodeSpan(c.Span)}
		}
		return &ast.Match{Scrutinee: scrut, Cases: cases, Span: decodeSpan(n.Span)}, nil

	case "Record":
		var n struct {
			Fields []struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
				Span  json.RawMessage `json:"span"`
			} `json:"fields"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		fields := make([]ast.RecordField, len(n.Fields))
		for i, f := range n.Fields {
			v, err := decodeExprField(f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.RecordField{Name: f.Name, Value: v, Span: decodeSpan(f.Span)}
		}
		return &ast.Record{Fields: fields, Span: decodeSpan(n.Span)}, nil

	case "Tuple":
		elems, span, err := decodeExprList(data, "elements")
		if err != nil {
			return nil, err
		}
		return &ast.Tuple{Elements: elems, Span: span}, nil

	case "List":
		elems, span, err := decodeExprList(data, "elements")
		if err != nil {
			return nil, err
		}
		return &ast.List{Elements: elems, Span: span}, nil

	case "Accessor":
		var n struct {
			Field string          `json:"field"`
			Span  json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &ast.Accessor{Field: n.Field, Span: decodeSpan(n.Span)}, nil

	case "OptionalAccessor":
		var n struct {
			Field string          `json:"field"`
			Span  json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &ast.OptionalAccessor{Field: n.Field, Span: decodeSpan(n.Span)}, nil

	case "At":
		var n struct {
			Index  json.RawMessage `json:"index"`
			Target json.RawMessage `json:"target"`
			Span   json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		idx, err := decodeExprField(n.Index)
		if err != nil {
			return nil, err
		}
		target, err := decodeExprField(n.Target)
		if err != nil {
			return nil, err
		}
		return &ast.At{Index: idx, Target: target, Span: decodeSpan(n.Span)}, nil

	case "Set":
		var n struct {
			Field  string          `json:"field"`
			Record json.RawMessage `json:"record"`
			Value  json.RawMessage `json:"value"`
			Span   json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		rec, err := decodeExprField(n.Record)
		if err != nil {
			return nil, err
		}
		val, err := decodeExprField(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Set{Field: n.Field, Record: rec, Value: val, Span: decodeSpan(n.Span)}, nil

	case "Sequence":
		exprs, span, err := decodeExprList(data, "exprs")
		if err != nil {
			return nil, err
		}
		return &ast.Sequence{Exprs: exprs, Span: span}, nil

	case "Definition":
		def, err := decodeDefinition(data)
		if err != nil {
			return nil, err
		}
		return def, nil

	case "Typed":
		var n struct {
			Expr       json.RawMessage `json:"expr"`
			Annotation json.RawMessage `json:"annotation"`
			Span       json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		expr, err := decodeExprField(n.Expr)
		if err != nil {
			return nil, err
		}
		annot, err := decodeTypeExprField(n.Annotation)
		if err != nil {
			return nil, err
		}
		return &ast.Typed{Expr: expr, Annotation: annot, Span: decodeSpan(n.Span)}, nil

	case "Forget":
		var n struct {
			Expr json.RawMessage `json:"expr"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		expr, err := decodeExprField(n.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.Forget{Expr: expr, Span: decodeSpan(n.Span)}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown expression kind %q", kind)
	}
}

func decodeExprList(data json.RawMessage, field string) ([]ast.Expr, ast.Span, error) {
	var n struct {
		Elements []json.RawMessage `json:"elements"`
		Exprs    []json.RawMessage `json:"exprs"`
		Span     json.RawMessage   `json:"span"`
	}
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, ast.Span{}, err
	}
	items := n.Elements
	if field == "exprs" {
		items = n.Exprs
	}
	out := make([]ast.Expr, len(items))
	for i, it := range items {
		e, err := decodeExprField(it)
		if err != nil {
			return nil, ast.Span{}, err
		}
		out[i] = e
	}
	return out, decodeSpan(n.Span), nil
}

func decodeExprField(data json.RawMessage) (ast.Expr, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	kind, err := unmarshalKind(data)
	if err != nil {
		return nil, err
	}
	return decodeExpr(data, kind)
}

func decodeDefinition(data json.RawMessage) (*ast.Definition, error) {
	var n struct {
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
		Body  json.RawMessage `json:"body"`
		Span  json.RawMessage `json:"span"`
	}
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	value, err := decodeExprField(n.Value)
	if err != nil {
		return nil, err
	}
	body, err := decodeExprField(n.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Definition{Name: n.Name, Value: value, Body: body, Span: decodeSpan(n.Span)}, nil
}

func decodeLiteralValue(litKind string, raw json.RawMessage) (ast.LiteralKind, interface{}, error) {
	switch litKind {
	case "float":
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0, nil, err
		}
		return ast.FloatLit, f, nil
	case "string":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, nil, err
		}
		return ast.StringLit, s, nil
	case "unit", "":
		return ast.UnitLit, nil, nil
	default:
		return 0, nil, fmt.Errorf("astjson: unknown literal kind %q", litKind)
	}
}

func decodeDecl(data json.RawMessage, kind string) (ast.Decl, error) {
	switch kind {
	case "Definition":
		return decodeDefinition(data)

	case "Import":
		var n struct {
			Path string          `json:"path"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &ast.Import{Path: n.Path, Span: decodeSpan(n.Span)}, nil

	case "ConstraintDef":
		var n struct {
			TraitName string `json:"traitName"`
			TypeParam string `json:"typeParam"`
			Functions []struct {
				Name string          `json:"name"`
				Type json.RawMessage `json:"type"`
				Span json.RawMessage `json:"span"`
			} `json:"functions"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		sigs := make([]ast.TraitFunctionSig, len(n.Functions))
		for i, f := range n.Functions {
			te, err := decodeTypeExprField(f.Type)
			if err != nil {
				return nil, err
			}
			sigs[i] = ast.TraitFunctionSig{Name: f.Name, Type: te, Span: decodeSpan(f.Span)}
		}
		return &ast.ConstraintDef{TraitName: n.TraitName, TypeParam: n.TypeParam, Functions: sigs, Span: decodeSpan(n.Span)}, nil

	case "ImplementDef":
		var n struct {
			TraitName string `json:"traitName"`
			TypeName  string `json:"typeName"`
			Functions []struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
				Span  json.RawMessage `json:"span"`
			} `json:"functions"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		fns := make([]ast.ImplementFunction, len(n.Functions))
		for i, f := range n.Functions {
			v, err := decodeExprField(f.Value)
			if err != nil {
				return nil, err
			}
			fns[i] = ast.ImplementFunction{Name: f.Name, Value: v, Span: decodeSpan(f.Span)}
		}
		return &ast.ImplementDef{TraitName: n.TraitName, TypeName: n.TypeName, Functions: fns, Span: decodeSpan(n.Span)}, nil

	case "TypeDef":
		return decodeTypeDef(data)

	default:
		return nil, fmt.Errorf("astjson: unknown declaration kind %q", kind)
	}
}

func decodeTypeDef(data json.RawMessage) (*ast.TypeDef, error) {
	var n struct {
		Name       string          `json:"name"`
		TypeParams []string        `json:"typeParams"`
		BodyKind   string          `json:"bodyKind"`
		Body       json.RawMessage `json:"body"`
		Span       json.RawMessage `json:"span"`
	}
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	var body ast.TypeDefBody
	switch n.BodyKind {
	case "variant":
		var b struct {
			Constructors []struct {
				Name   string            `json:"name"`
				Fields []json.RawMessage `json:"fields"`
				Span   json.RawMessage   `json:"span"`
			} `json:"constructors"`
		}
		if err := json.Unmarshal(n.Body, &b); err != nil {
			return nil, err
		}
		ctors := make([]ast.Constructor, len(b.Constructors))
		for i, c := range b.Constructors {
			fields := make([]ast.TypeExpr, len(c.Fields))
			for j, f := range c.Fields {
				te, err := decodeTypeExprField(f)
				if err != nil {
					return nil, err
				}
				fields[j] = te
			}
			ctors[i] = ast.Constructor{Name: c.Name, Fields: fields, Span: decodeSpan(c.Span)}
		}
		body = &ast.VariantBody{Constructors: ctors}

	case "alias":
		var b struct {
			Target json.RawMessage `json:"target"`
		}
		if err := json.Unmarshal(n.Body, &b); err != nil {
			return nil, err
		}
		te, err := decodeTypeExprField(b.Target)
		if err != nil {
			return nil, err
		}
		body = &ast.AliasBody{Target: te}

	case "union":
		var b struct {
			Members []json.RawMessage `json:"members"`
		}
		if err := json.Unmarshal(n.Body, &b); err != nil {
			return nil, err
		}
		members := make([]ast.TypeExpr, len(b.Members))
		for i, m := range b.Members {
			te, err := decodeTypeExprField(m)
			if err != nil {
				return nil, err
			}
			members[i] = te
		}
		body = &ast.UnionBody{Members: members}

	default:
		return nil, fmt.Errorf("astjson: unknown type-def body kind %q", n.BodyKind)
	}
	return &ast.TypeDef{Name: n.Name, TypeParams: n.TypeParams, Body: body, Span: decodeSpan(n.Span)}, nil
}

func decodeTypeExprField(data json.RawMessage) (ast.TypeExpr, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	kind, err := unmarshalKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "TypeName":
		var n struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
			Span json.RawMessage   `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		args := make([]ast.TypeExpr, len(n.Args))
		for i, a := range n.Args {
			te, err := decodeTypeExprField(a)
			if err != nil {
				return nil, err
			}
			args[i] = te
		}
		return &ast.TypeName{Name: n.Name, Args: args, Span: decodeSpan(n.Span)}, nil

	case "TypeFunc":
		var n struct {
			Params []json.RawMessage `json:"params"`
			Return json.RawMessage   `json:"return"`
			Span   json.RawMessage   `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		params := make([]ast.TypeExpr, len(n.Params))
		for i, p := range n.Params {
			te, err := decodeTypeExprField(p)
			if err != nil {
				return nil, err
			}
			params[i] = te
		}
		ret, err := decodeTypeExprField(n.Return)
		if err != nil {
			return nil, err
		}
		return &ast.TypeFunc{Params: params, Return: ret, Span: decodeSpan(n.Span)}, nil

	case "TypeTuple":
		var n struct {
			Elements []json.RawMessage `json:"elements"`
			Span     json.RawMessage   `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		elems := make([]ast.TypeExpr, len(n.Elements))
		for i, e := range n.Elements {
			te, err := decodeTypeExprField(e)
			if err != nil {
				return nil, err
			}
			elems[i] = te
		}
		return &ast.TypeTuple{Elements: elems, Span: decodeSpan(n.Span)}, nil

	case "TypeRecord":
		var n struct {
			Fields []struct {
				Name string          `json:"name"`
				Type json.RawMessage `json:"type"`
			} `json:"fields"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		fields := make([]ast.TypeRecordField, len(n.Fields))
		for i, f := range n.Fields {
			te, err := decodeTypeExprField(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.TypeRecordField{Name: f.Name, Type: te}
		}
		return &ast.TypeRecord{Fields: fields, Span: decodeSpan(n.Span)}, nil

	case "TypeUnion":
		var n struct {
			Members []json.RawMessage `json:"members"`
			Span    json.RawMessage   `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		members := make([]ast.TypeExpr, len(n.Members))
		for i, m := range n.Members {
			te, err := decodeTypeExprField(m)
			if err != nil {
				return nil, err
			}
			members[i] = te
		}
		return &ast.TypeUnion{Members: members, Span: decodeSpan(n.Span)}, nil

	case "TypeGiven":
		var n struct {
			Base        json.RawMessage `json:"base"`
			Constraints []struct {
				Kind  string          `json:"kind"`
				Var   string          `json:"var"`
				Trait string          `json:"trait"`
				Field string          `json:"field"`
				Type  json.RawMessage `json:"type"`
			} `json:"constraints"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		base, err := decodeTypeExprField(n.Base)
		if err != nil {
			return nil, err
		}
		cs := make([]ast.TypeConstraint, len(n.Constraints))
		for i, c := range n.Constraints {
			tc := ast.TypeConstraint{Var: c.Var, Trait: c.Trait, Field: c.Field}
			if c.Kind == "has" {
				tc.Kind = ast.ConstraintHas
				te, err := decodeTypeExprField(c.Type)
				if err != nil {
					return nil, err
				}
				tc.Type = te
			} else {
				tc.Kind = ast.ConstraintImplements
			}
			cs[i] = tc
		}
		return &ast.TypeGiven{Base: base, Constraints: cs, Span: decodeSpan(n.Span)}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown type-expr kind %q", kind)
	}
}

func decodePatternField(data json.RawMessage) (ast.Pattern, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	kind, err := unmarshalKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "WildcardPattern":
		var n struct {
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &ast.WildcardPattern{Span: decodeSpan(n.Span)}, nil

	case "VarPattern":
		var n struct {
			Name string          `json:"name"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &ast.VarPattern{Name: n.Name, Span: decodeSpan(n.Span)}, nil

	case "LiteralPattern":
		var n struct {
			LitKind string          `json:"litKind"`
			Value   json.RawMessage `json:"value"`
			Span    json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		lk, value, err := decodeLiteralValue(n.LitKind, n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.LiteralPattern{Kind: lk, Value: value, Span: decodeSpan(n.Span)}, nil

	case "ConstructorPattern":
		var n struct {
			Name     string            `json:"name"`
			Patterns []json.RawMessage `json:"patterns"`
			Span     json.RawMessage   `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		subs := make([]ast.Pattern, len(n.Patterns))
		for i, p := range n.Patterns {
			sp, err := decodePatternField(p)
			if err != nil {
				return nil, err
			}
			subs[i] = sp
		}
		return &ast.ConstructorPattern{Name: n.Name, Patterns: subs, Span: decodeSpan(n.Span)}, nil

	case "TuplePattern":
		var n struct {
			Elements []json.RawMessage `json:"elements"`
			Span     json.RawMessage   `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		elems := make([]ast.Pattern, len(n.Elements))
		for i, e := range n.Elements {
			p, err := decodePatternField(e)
			if err != nil {
				return nil, err
			}
			elems[i] = p
		}
		return &ast.TuplePattern{Elements: elems, Span: decodeSpan(n.Span)}, nil

	case "RecordPattern":
		var n struct {
			Fields []struct {
				Name    string          `json:"name"`
				Pattern json.RawMessage `json:"pattern"`
			} `json:"fields"`
			Span json.RawMessage `json:"span"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		fields := make([]ast.FieldPattern, len(n.Fields))
		for i, f := range n.Fields {
			p, err := decodePatternField(f.Pattern)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.FieldPattern{Name: f.Name, Pattern: p}
		}
		return &ast.RecordPattern{Fields: fields, Span: decodeSpan(n.Span)}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown pattern kind %q", kind)
	}
}
