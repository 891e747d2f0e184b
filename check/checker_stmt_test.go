package check

import (
	"testing"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/scope"
)

func newTestContext() *Context {
	universe := NewUniverseScope()
	sink := diag.NewSink()
	return &Context{
		Sink:       sink,
		Universe:   universe,
		Module:     scope.NewEnclosedScope(universe, "module"),
		ProcScopes: make(map[*ast.Procedure]*scope.Scope),
	}
}

func identRef(name string, target ast.Entity) *ast.IdentLeaf {
	return &ast.IdentLeaf{Name: name, Target: target}
}

func hasKind(sink *diag.Sink, kind diag.Kind) bool {
	for _, d := range sink.Diagnostics() {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func TestCheckExitOutsideLoop(t *testing.T) {
	ctx := newTestContext()
	checkStmt(ctx, &ast.Exit{})
	if !hasKind(ctx.Sink, diag.ExitOutsideLoop) {
		t.Fatalf("expected ExitOutsideLoop, got: %s", ctx.Sink.String())
	}
}

func TestCheckExitInsideLoopIsFine(t *testing.T) {
	ctx := newTestContext()
	loop := &ast.IfLoop{ModeTag: ast.ModeLoop, Branches: []ast.IfBranch{
		{Body: []ast.Statement{&ast.Exit{}}},
	}}
	checkStmt(ctx, loop)
	if ctx.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", ctx.Sink.String())
	}
}

func TestCheckForStepZero(t *testing.T) {
	ctx := newTestContext()
	ctrl := &ast.LocalVar{Name: "i", Type: ast.Base(ast.INTEGER)}
	f := &ast.ForLoop{
		Control: ctrl,
		From:    &ast.Literal{LKind: ast.LitInt, Value: int64(0)},
		To:      &ast.Literal{LKind: ast.LitInt, Value: int64(10)},
		By:      &ast.Literal{LKind: ast.LitInt, Value: int64(0)},
	}
	checkStmt(ctx, f)
	if !hasKind(ctx.Sink, diag.ForStepZero) {
		t.Fatalf("expected ForStepZero, got: %s", ctx.Sink.String())
	}
}

func TestCheckForControlVarAssignedInBody(t *testing.T) {
	ctx := newTestContext()
	ctrl := &ast.LocalVar{Name: "i", Type: ast.Base(ast.INTEGER)}
	f := &ast.ForLoop{
		Control: ctrl,
		From:    &ast.Literal{LKind: ast.LitInt, Value: int64(0)},
		To:      &ast.Literal{LKind: ast.LitInt, Value: int64(10)},
		Body: []ast.Statement{
			&ast.Assign{LHS: identRef("i", ctrl), RHS: &ast.Literal{LKind: ast.LitInt, Value: int64(5)}},
		},
	}
	checkStmt(ctx, f)
	if !hasKind(ctx.Sink, diag.AssignIncompatible) {
		t.Fatalf("expected a diagnostic for assigning the FOR control variable, got: %s", ctx.Sink.String())
	}
}

func TestCheckCaseLabelOverlap(t *testing.T) {
	ctx := newTestContext()
	scrutinee := &ast.LocalVar{Name: "x", Type: ast.Base(ast.INTEGER)}
	c := &ast.CaseStmt{
		Scrutinee: identRef("x", scrutinee),
		Cases: []ast.CaseArm{
			{Labels: []ast.CaseLabel{{Low: &ast.Literal{LKind: ast.LitInt, Value: int64(1)}, High: &ast.Literal{LKind: ast.LitInt, Value: int64(5)}}}},
			{Labels: []ast.CaseLabel{{Low: &ast.Literal{LKind: ast.LitInt, Value: int64(3)}}}},
		},
	}
	checkStmt(ctx, c)
	if !hasKind(ctx.Sink, diag.CaseLabelOverlap) {
		t.Fatalf("expected CaseLabelOverlap, got: %s", ctx.Sink.String())
	}
}

func TestCheckCaseLabelsDisjointNoOverlap(t *testing.T) {
	ctx := newTestContext()
	scrutinee := &ast.LocalVar{Name: "x", Type: ast.Base(ast.INTEGER)}
	c := &ast.CaseStmt{
		Scrutinee: identRef("x", scrutinee),
		Cases: []ast.CaseArm{
			{Labels: []ast.CaseLabel{{Low: &ast.Literal{LKind: ast.LitInt, Value: int64(1)}, High: &ast.Literal{LKind: ast.LitInt, Value: int64(5)}}}},
			{Labels: []ast.CaseLabel{{Low: &ast.Literal{LKind: ast.LitInt, Value: int64(6)}}}},
		},
	}
	checkStmt(ctx, c)
	if hasKind(ctx.Sink, diag.CaseLabelOverlap) {
		t.Fatalf("unexpected CaseLabelOverlap for disjoint labels: %s", ctx.Sink.String())
	}
}

func TestCheckAssignToConstIsNotLvalue(t *testing.T) {
	ctx := newTestContext()
	c := &ast.Const{Name: "Limit", Type: ast.Base(ast.INTEGER), Value: int64(10)}
	a := &ast.Assign{LHS: identRef("Limit", c), RHS: &ast.Literal{LKind: ast.LitInt, Value: int64(1)}}
	checkStmt(ctx, a)
	if !hasKind(ctx.Sink, diag.AssignIncompatible) {
		t.Fatalf("expected AssignIncompatible for assigning to a constant, got: %s", ctx.Sink.String())
	}
}

func TestCheckAssignReadonlyImport(t *testing.T) {
	ctx := newTestContext()
	exportedVar := &ast.Variable{Name: "Count", Type: ast.Base(ast.INTEGER), Visibility: ast.VisReadOnly}
	target := &ast.Module{Name: "Other", Vars: []*ast.Variable{exportedVar}}
	imp := &ast.Import{Alias: "Other", Target: target}
	if err := ctx.Module.Define("Other", imp); err != nil {
		t.Fatalf("Define: %v", err)
	}

	sel := &ast.IdentSel{Sub: identRef("Other", imp), Name: "Count"}
	a := &ast.Assign{LHS: sel, RHS: &ast.Literal{LKind: ast.LitInt, Value: int64(1)}}
	checkStmt(ctx, a)
	if !hasKind(ctx.Sink, diag.ReadonlyViolation) {
		t.Fatalf("expected ReadonlyViolation, got: %s", ctx.Sink.String())
	}
}

func TestFoldConstIntNegation(t *testing.T) {
	expr := &ast.UnExpr{Operator: ast.OpNeg, Operand: &ast.Literal{LKind: ast.LitInt, Value: int64(5)}}
	v, ok := foldConstInt(expr)
	if !ok || v != -5 {
		t.Fatalf("expected -5, got %d (ok=%v)", v, ok)
	}
}

func TestFoldConstIntFromNamedConst(t *testing.T) {
	c := &ast.Const{Name: "Max", Value: int64(42)}
	v, ok := foldConstInt(identRef("Max", c))
	if !ok || v != 42 {
		t.Fatalf("expected 42, got %d (ok=%v)", v, ok)
	}
}
