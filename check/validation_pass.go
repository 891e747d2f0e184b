package check

import (
	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/typesys"
)

// ValidationPass enforces the cross-cutting invariants that don't fit
// naturally into expression/statement checking: every value-returning
// procedure returns on every path, a method overriding a base-record
// method keeps a compatible signature and does not narrow visibility.
// Import liveness (ast.Import.UsedFromLive) is recorded by the checker as
// identifiers resolve, not by this pass.
func ValidationPass(ctx *Context, mod *ast.Module) {
	for _, p := range mod.Procedures {
		checkDefiniteReturn(ctx, p)
		if p.Receiver != nil {
			checkOverride(ctx, p)
		}
	}
}

func checkDefiniteReturn(ctx *Context, p *ast.Procedure) {
	if p.Sig == nil || p.Sig.Return == nil {
		return
	}
	if !stmtsAlwaysReturn(p.Body) {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.AssignIncompatible, Pos: p.Pos(), Name: p.Name,
			Message: "function procedure " + p.Name + " does not return a value on every path",
		})
	}
}

// stmtsAlwaysReturn reports whether the last statement of stmts guarantees
// a RETURN on every control path reaching the end of the list.
func stmtsAlwaysReturn(stmts []ast.Statement) bool {
	if len(stmts) == 0 {
		return false
	}
	return stmtAlwaysReturns(stmts[len(stmts)-1])
}

func stmtAlwaysReturns(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.Return:
		return true
	case *ast.IfLoop:
		switch s.ModeTag {
		case ast.ModeIf:
			if s.Else == nil {
				return false
			}
			for _, b := range s.Branches {
				if !stmtsAlwaysReturn(b.Body) {
					return false
				}
			}
			return stmtsAlwaysReturn(s.Else)
		case ast.ModeLoop:
			return !containsExit(s.Branches[0].Body)
		default:
			return false
		}
	case *ast.CaseStmt:
		if s.Else == nil {
			return false
		}
		for _, arm := range s.Cases {
			if !stmtsAlwaysReturn(arm.Body) {
				return false
			}
		}
		return stmtsAlwaysReturn(s.Else)
	default:
		return false
	}
}

// containsExit reports whether stmts contains an EXIT reachable without
// crossing into a nested loop's own body (a nested loop's EXIT belongs to
// that loop, not the one being asked about).
func containsExit(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Exit:
			return true
		case *ast.IfLoop:
			if s.ModeTag == ast.ModeLoop || s.ModeTag == ast.ModeWhile || s.ModeTag == ast.ModeRepeat {
				continue
			}
			for _, b := range s.Branches {
				if containsExit(b.Body) {
					return true
				}
			}
			if containsExit(s.Else) {
				return true
			}
		case *ast.CaseStmt:
			for _, arm := range s.Cases {
				if containsExit(arm.Body) {
					return true
				}
			}
			if containsExit(s.Else) {
				return true
			}
		}
	}
	return false
}

var visRank = map[ast.Visibility]int{
	ast.VisPrivate:   0,
	ast.VisReadOnly:  1,
	ast.VisReadWrite: 2,
}

// checkOverride validates p, a method bound via a receiver, against any
// same-named method on its receiver record's base chain.
func checkOverride(ctx *Context, p *ast.Procedure) {
	rec := receiverRecord(p.Receiver.Type)
	if rec == nil || rec.Base == nil {
		return
	}
	base, _ := rec.Base.FindMethod(p.Name)
	if base == nil {
		return
	}
	p.Overrides = base

	if !overrideSignatureMatches(p.Sig, base.Sig) {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.OverrideSignatureMismatch, Pos: p.Pos(), Name: p.Name,
			Message: p.Name + " overrides a method with an incompatible signature",
		})
	}
	if br, ok := visRank[base.Visibility]; ok {
		if pr, ok := visRank[p.Visibility]; ok && pr < br {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.OverrideVisibilityNarrow, Pos: p.Pos(), Name: p.Name,
				Message: p.Name + " narrows the visibility of the method it overrides",
			})
		}
	}
}

func receiverRecord(t ast.Type) *ast.Record {
	base := typesys.Underlying(t)
	if ptr, ok := base.(*ast.Pointer); ok {
		base = typesys.Underlying(ptr.To)
	}
	rec, _ := base.(*ast.Record)
	return rec
}

// overrideSignatureMatches compares two method signatures ignoring the
// receiver: same arity, identical formal types and by-reference flags in
// order, and the same return type (or both proper procedures).
func overrideSignatureMatches(override, base *ast.ProcType) bool {
	if override == nil || base == nil {
		return override == base
	}
	if len(override.Formals) != len(base.Formals) {
		return false
	}
	for i, f := range override.Formals {
		g := base.Formals[i]
		if f.ByRef != g.ByRef || !typesys.Identical(f.Type, g.Type) {
			return false
		}
	}
	if (override.Return == nil) != (base.Return == nil) {
		return false
	}
	return override.Return == nil || typesys.Identical(override.Return, base.Return)
}
