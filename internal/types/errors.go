package types

import (
	"encoding/json"
	"fmt"
)

// ErrorKind is the taxonomy from spec §7 — kinds, not implementation type
// names.
type ErrorKind string

const (
	KindTypeMismatch                  ErrorKind = "TypeMismatch"
	KindOccursCheck                   ErrorKind = "OccursCheck"
	KindUnknownVariable               ErrorKind = "UnknownVariable"
	KindUnknownTrait                  ErrorKind = "UnknownTrait"
	KindUnknownImplementation         ErrorKind = "UnknownImplementation"
	KindAmbiguousTraitResolution      ErrorKind = "AmbiguousTraitResolution"
	KindImplementationArityMismatch   ErrorKind = "ImplementationArityMismatch"
	KindImplementationUnknownFunction ErrorKind = "ImplementationUnknownFunction"
	KindDuplicateImplementation       ErrorKind = "DuplicateImplementation"
	KindPatternMismatch               ErrorKind = "PatternMismatch"
	KindNonExhaustiveMatchAtRuntime   ErrorKind = "NonExhaustiveMatchAtRuntime"
	KindUnionOperationRequiresMatch   ErrorKind = "UnionOperationRequiresMatch"
	KindUnknownOperationRequiresAdapter ErrorKind = "UnknownOperationRequiresAdapter"
	KindImportNotFound                ErrorKind = "ImportNotFound"
	KindImportParseError              ErrorKind = "ImportParseError"
	KindImportTypeError               ErrorKind = "ImportTypeError"
)

// codeFor maps a kind to a stable phase-scoped error code, grounded on the
// teacher's TC### table (internal/errors/codes.go).
var codeFor = map[ErrorKind]string{
	KindTypeMismatch:                    "TC001",
	KindOccursCheck:                     "TC002",
	KindUnknownVariable:                 "TC003",
	KindUnknownTrait:                    "TC004",
	KindUnknownImplementation:           "TC005",
	KindAmbiguousTraitResolution:        "TC006",
	KindImplementationArityMismatch:     "TC007",
	KindImplementationUnknownFunction:   "TC008",
	KindDuplicateImplementation:         "TC009",
	KindPatternMismatch:                 "TC010",
	KindNonExhaustiveMatchAtRuntime:     "TC011",
	KindUnionOperationRequiresMatch:     "TC012",
	KindUnknownOperationRequiresAdapter: "TC013",
	KindImportNotFound:                  "TC014",
	KindImportParseError:                "TC015",
	KindImportTypeError:                 "TC016",
}

// Span is a minimal source range carried on a Report; the typer has no
// lexer of its own, so this mirrors whatever span the consumed AST node
// carried (spec §6, §7).
type Span struct {
	File        string `json:"file,omitempty"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
}

// Report is a structured, JSON-encodable error (spec §2.2/§4.9), grounded
// on the teacher's internal/errors.Report.
type Report struct {
	Code    string                 `json:"code"`
	Phase   string                 `json:"phase"`
	Kind    ErrorKind              `json:"kind"`
	Message string                 `json:"message"`
	Span    *Span                  `json:"span,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Hint    string                 `json:"hint,omitempty"`
}

// ReportError wraps a Report as a Go error so callers can recover the
// structured value with errors.As.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep.Span != nil {
		return fmt.Sprintf("%s [%s]: %s", e.Rep.Code, e.Rep.Span.File, e.Rep.Message)
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// ToJSON renders the wrapped report as JSON.
func (e *ReportError) ToJSON() ([]byte, error) {
	return json.MarshalIndent(e.Rep, "", "  ")
}

// NewReport builds a Report for kind, filling in its code and phase.
func NewReport(kind ErrorKind, message string, span *Span) *Report {
	return &Report{
		Code:    codeFor[kind],
		Phase:   "typecheck",
		Kind:    kind,
		Message: message,
		Span:    span,
	}
}

// NewTypeMismatch builds the TypeMismatch report for two rendered types.
func NewTypeMismatch(left, right Type, span *Span) *ReportError {
	r := NewReport(KindTypeMismatch, fmt.Sprintf("expected %s but found %s", left, right), span)
	r.Data = map[string]interface{}{"expected": left.String(), "actual": right.String()}
	r.Hint = "the two sides of this expression must have the same type"
	return &ReportError{Rep: r}
}

// NewOccursCheck builds the OccursCheck report.
func NewOccursCheck(v Var, in Type, span *Span) *ReportError {
	r := NewReport(KindOccursCheck, fmt.Sprintf("infinite type: %s occurs in %s", v, in), span)
	r.Hint = "a type cannot contain itself; check for a missing base case in a recursive definition"
	return &ReportError{Rep: r}
}

// NewUnknownVariable builds the UnknownVariable report.
func NewUnknownVariable(name string, span *Span) *ReportError {
	r := NewReport(KindUnknownVariable, fmt.Sprintf("unbound variable %q", name), span)
	r.Hint = "check for a typo or a missing import"
	return &ReportError{Rep: r}
}

// NewUnknownTrait builds the UnknownTrait report.
func NewUnknownTrait(name string, span *Span) *ReportError {
	return &ReportError{Rep: NewReport(KindUnknownTrait, fmt.Sprintf("unknown trait %q", name), span)}
}

// NewUnknownImplementation builds the UnknownImplementation report.
func NewUnknownImplementation(trait, forType string, span *Span) *ReportError {
	r := NewReport(KindUnknownImplementation, fmt.Sprintf("no implementation of %s for %s", trait, forType), span)
	r.Hint = fmt.Sprintf("add `implement %s %s (...)`", trait, forType)
	return &ReportError{Rep: r}
}

// NewAmbiguousTraitResolution builds the AmbiguousTraitResolution report
// (spec §4.5 step 5, invariant 6).
func NewAmbiguousTraitResolution(fnName string, traits []string, span *Span) *ReportError {
	r := NewReport(KindAmbiguousTraitResolution,
		fmt.Sprintf("call to %q is ambiguous between traits %v", fnName, traits), span)
	r.Data = map[string]interface{}{"function": fnName, "traits": traits}
	r.Hint = "qualify the call or rename one of the conflicting trait functions"
	return &ReportError{Rep: r}
}

// NewImplementationArityMismatch builds the ImplementationArityMismatch
// report (spec §4.5).
func NewImplementationArityMismatch(trait, fn string, want, got int, span *Span) *ReportError {
	r := NewReport(KindImplementationArityMismatch,
		fmt.Sprintf("%s.%s expects %d argument(s), implementation has %d", trait, fn, want, got), span)
	return &ReportError{Rep: r}
}

// NewImplementationUnknownFunction builds the ImplementationUnknownFunction
// report.
func NewImplementationUnknownFunction(trait, fn string, span *Span) *ReportError {
	r := NewReport(KindImplementationUnknownFunction,
		fmt.Sprintf("%s does not declare a function %q", trait, fn), span)
	return &ReportError{Rep: r}
}

// NewDuplicateImplementation builds the DuplicateImplementation report.
func NewDuplicateImplementation(trait, typeName string, span *Span) *ReportError {
	r := NewReport(KindDuplicateImplementation,
		fmt.Sprintf("%s is already implemented for %s", trait, typeName), span)
	return &ReportError{Rep: r}
}

// NewPatternMismatch builds the PatternMismatch report.
func NewPatternMismatch(detail string, span *Span) *ReportError {
	return &ReportError{Rep: NewReport(KindPatternMismatch, detail, span)}
}

// NewUnionOperationRequiresMatch builds the UnionOperationRequiresMatch
// report (spec §8 scenario 6).
func NewUnionOperationRequiresMatch(u Union, op string, span *Span) *ReportError {
	r := NewReport(KindUnionOperationRequiresMatch,
		fmt.Sprintf("cannot apply %q directly to union type %s", op, u), span)
	r.Hint = "pattern matching to narrow the type"
	return &ReportError{Rep: r}
}

// NewUnknownOperationRequiresAdapter builds the
// UnknownOperationRequiresAdapter report.
func NewUnknownOperationRequiresAdapter(op string, span *Span) *ReportError {
	r := NewReport(KindUnknownOperationRequiresAdapter,
		fmt.Sprintf("cannot apply %q directly to an Unknown value", op), span)
	r.Hint = "use an optional accessor or `at` to adapt Unknown into an Option first"
	return &ReportError{Rep: r}
}

// NewImportNotFound builds the ImportNotFound report.
func NewImportNotFound(path string, span *Span) *ReportError {
	return &ReportError{Rep: NewReport(KindImportNotFound, fmt.Sprintf("import not found: %q", path), span)}
}

// NewImportParseError builds the ImportParseError report.
func NewImportParseError(path string, cause error, span *Span) *ReportError {
	return &ReportError{Rep: NewReport(KindImportParseError, fmt.Sprintf("failed to parse %q: %v", path, cause), span)}
}

// NewImportTypeError builds the ImportTypeError report.
func NewImportTypeError(path string, cause error, span *Span) *ReportError {
	return &ReportError{Rep: NewReport(KindImportTypeError, fmt.Sprintf("type error in %q: %v", path, cause), span)}
}
