// Package diag formats and collects compiler diagnostics: the structured,
// kind-coded errors produced by packages typesys, check, and frontend, plus
// the source-context rendering used to print them.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/obc-lang/obc/lexer"
)

// Kind classifies a Diagnostic so callers can branch on error category
// without string-matching the message.
type Kind string

const (
	ModuleCycle               Kind = "module-cycle"
	GenericCycle              Kind = "generic-cycle"
	DuplicateName             Kind = "duplicate-name"
	ReadonlyViolation         Kind = "readonly-violation"
	PointerBaseIllegal        Kind = "pointer-base-illegal"
	IllegalSelfRef            Kind = "illegal-self-ref"
	ArrayLengthError          Kind = "array-length-error"
	ExtensionTooDeep          Kind = "extension-too-deep"
	UnresolvedIdent           Kind = "unresolved-ident"
	AssignIncompatible        Kind = "assign-incompatible"
	InvalidGuard              Kind = "invalid-guard"
	RangeMisuse               Kind = "range-misuse"
	OverrideSignatureMismatch Kind = "override-signature-mismatch"
	OverrideVisibilityNarrow  Kind = "override-visibility-narrow"
	ExitOutsideLoop           Kind = "exit-outside-loop"
	CaseLabelOverlap          Kind = "case-label-overlap"
	ForStepZero               Kind = "for-step-zero"
	ImportBroken              Kind = "import-broken"
)

// Severity distinguishes structural errors (the module cannot be trusted
// at all) from local errors (this declaration or statement is unsound, but
// the rest of the module can still be checked and reported on).
type Severity int

const (
	SeverityError Severity = iota
	SeverityStructural
)

// Diagnostic is one structured compiler error: a kind code, a human
// message, a source position, and whatever named/typed fields that kind's
// constructor chose to attach.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Pos      lexer.Position
	Severity Severity

	Name     string // the identifier involved, where applicable
	Expected string // a type or signature rendering, where applicable
	Got      string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s at %s", d.Kind, d.Message, d.Pos.String())
}

// ToCompilerError renders d against source for display, with a caret
// pointing at the offending column.
func (d *Diagnostic) ToCompilerError(source, file string) *CompilerError {
	return NewCompilerError(d.Pos, d.Message, source, file)
}

// Sink accumulates diagnostics during a compilation pass. It is the
// host-provided collector every pass writes into instead of returning a
// []error directly, so a pipeline stage can keep checking after a local
// error and still report everything found in one pass.
type Sink struct {
	diags       []*Diagnostic
	hasCritical bool
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink { return &Sink{} }

// Report records d. A SeverityStructural diagnostic marks the sink (and,
// by convention, the owning ast.Module.HasErrors) as critically failed.
func (s *Sink) Report(d *Diagnostic) {
	s.diags = append(s.diags, d)
	if d.Severity == SeverityStructural {
		s.hasCritical = true
	}
}

// Reportf is a convenience constructor-and-report for a simple,
// non-structural diagnostic with no extra fields.
func (s *Sink) Reportf(kind Kind, pos lexer.Position, format string, args ...interface{}) {
	s.Report(&Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos})
}

// HasErrors reports whether any diagnostic has been reported.
func (s *Sink) HasErrors() bool { return len(s.diags) > 0 }

// HasCriticalErrors reports whether a structural diagnostic was reported.
func (s *Sink) HasCriticalErrors() bool { return s.hasCritical }

// Diagnostics returns every reported diagnostic, ordered by source
// position for deterministic output.
func (s *Sink) Diagnostics() []*Diagnostic {
	sorted := make([]*Diagnostic, len(s.diags))
	copy(sorted, s.diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos.Less(sorted[j].Pos)
	})
	return sorted
}

// Len returns the number of diagnostics reported so far.
func (s *Sink) Len() int { return len(s.diags) }

// Merge appends every diagnostic from other into s, preserving other's
// critical-error flag. Used to fold a per-module sink into a front-end's
// aggregate sink once that module's passes finish.
func (s *Sink) Merge(other *Sink) {
	s.diags = append(s.diags, other.diags...)
	if other.hasCritical {
		s.hasCritical = true
	}
}

// String renders every diagnostic, one per line, in position order.
func (s *Sink) String() string {
	var sb strings.Builder
	for i, d := range s.Diagnostics() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.Error())
	}
	return sb.String()
}
