package check

import (
	"testing"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
)

func TestCheckDefiniteReturnMissingOnSomePath(t *testing.T) {
	ctx := newTestContext()
	p := &ast.Procedure{
		Name: "Pick",
		Sig:  &ast.ProcType{Return: ast.Base(ast.INTEGER)},
		Body: []ast.Statement{
			&ast.IfLoop{
				ModeTag: ast.ModeIf,
				Branches: []ast.IfBranch{
					{Guard: &ast.Literal{LKind: ast.LitBool, Value: true}, Body: []ast.Statement{
						&ast.Return{Value: &ast.Literal{LKind: ast.LitInt, Value: int64(1)}},
					}},
				},
				// no Else: the THEN-only path falls through without a value
			},
		},
	}
	checkDefiniteReturn(ctx, p)
	if !hasKind(ctx.Sink, diag.AssignIncompatible) {
		t.Fatalf("expected a missing-return diagnostic, got: %s", ctx.Sink.String())
	}
}

func TestCheckDefiniteReturnEveryBranchReturns(t *testing.T) {
	ctx := newTestContext()
	p := &ast.Procedure{
		Name: "Pick",
		Sig:  &ast.ProcType{Return: ast.Base(ast.INTEGER)},
		Body: []ast.Statement{
			&ast.IfLoop{
				ModeTag: ast.ModeIf,
				Branches: []ast.IfBranch{
					{Guard: &ast.Literal{LKind: ast.LitBool, Value: true}, Body: []ast.Statement{
						&ast.Return{Value: &ast.Literal{LKind: ast.LitInt, Value: int64(1)}},
					}},
				},
				Else: []ast.Statement{
					&ast.Return{Value: &ast.Literal{LKind: ast.LitInt, Value: int64(2)}},
				},
			},
		},
	}
	checkDefiniteReturn(ctx, p)
	if ctx.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", ctx.Sink.String())
	}
}

func TestCheckDefiniteReturnLoopWithoutExitAlwaysReturns(t *testing.T) {
	ctx := newTestContext()
	p := &ast.Procedure{
		Name: "Spin",
		Sig:  &ast.ProcType{Return: ast.Base(ast.INTEGER)},
		Body: []ast.Statement{
			&ast.IfLoop{ModeTag: ast.ModeLoop, Branches: []ast.IfBranch{
				{Body: []ast.Statement{&ast.Return{Value: &ast.Literal{LKind: ast.LitInt, Value: int64(1)}}}},
			}},
		},
	}
	checkDefiniteReturn(ctx, p)
	if ctx.Sink.HasErrors() {
		t.Fatalf("a LOOP with no reachable EXIT should count as always returning, got: %s", ctx.Sink.String())
	}
}

func TestCheckDefiniteReturnLoopWithExitDoesNotAlwaysReturn(t *testing.T) {
	ctx := newTestContext()
	p := &ast.Procedure{
		Name: "Spin",
		Sig:  &ast.ProcType{Return: ast.Base(ast.INTEGER)},
		Body: []ast.Statement{
			&ast.IfLoop{ModeTag: ast.ModeLoop, Branches: []ast.IfBranch{
				{Body: []ast.Statement{&ast.Exit{}}},
			}},
		},
	}
	checkDefiniteReturn(ctx, p)
	if !hasKind(ctx.Sink, diag.AssignIncompatible) {
		t.Fatalf("expected a missing-return diagnostic for a LOOP reachable via EXIT, got: %s", ctx.Sink.String())
	}
}

func TestCheckOverrideSignatureMismatch(t *testing.T) {
	ctx := newTestContext()
	base := &ast.Record{Name: "TBase"}
	baseMethod := &ast.Procedure{
		Name:       "Area",
		Visibility: ast.VisReadWrite,
		Sig:        &ast.ProcType{Return: ast.Base(ast.REAL)},
		Receiver:   &ast.Parameter{Name: "self", Type: &ast.Pointer{To: base}},
	}
	base.Methods = []*ast.Procedure{baseMethod}

	derived := &ast.Record{Name: "TDerived", Base: base}
	overriding := &ast.Procedure{
		Name:       "Area",
		Visibility: ast.VisReadWrite,
		Sig:        &ast.ProcType{Return: ast.Base(ast.INTEGER)}, // wrong return type
		Receiver:   &ast.Parameter{Name: "self", Type: &ast.Pointer{To: derived}},
	}

	checkOverride(ctx, overriding)
	if overriding.Overrides != baseMethod {
		t.Fatal("expected Overrides to be set to the base method")
	}
	if !hasKind(ctx.Sink, diag.OverrideSignatureMismatch) {
		t.Fatalf("expected OverrideSignatureMismatch, got: %s", ctx.Sink.String())
	}
}

func TestCheckOverrideNarrowsVisibility(t *testing.T) {
	ctx := newTestContext()
	base := &ast.Record{Name: "TBase"}
	baseMethod := &ast.Procedure{
		Name:       "Area",
		Visibility: ast.VisReadWrite,
		Sig:        &ast.ProcType{Return: ast.Base(ast.REAL)},
		Receiver:   &ast.Parameter{Name: "self", Type: &ast.Pointer{To: base}},
	}
	base.Methods = []*ast.Procedure{baseMethod}

	derived := &ast.Record{Name: "TDerived", Base: base}
	overriding := &ast.Procedure{
		Name:       "Area",
		Visibility: ast.VisPrivate, // narrower than the base's VisReadWrite
		Sig:        &ast.ProcType{Return: ast.Base(ast.REAL)},
		Receiver:   &ast.Parameter{Name: "self", Type: &ast.Pointer{To: derived}},
	}

	checkOverride(ctx, overriding)
	if !hasKind(ctx.Sink, diag.OverrideVisibilityNarrow) {
		t.Fatalf("expected OverrideVisibilityNarrow, got: %s", ctx.Sink.String())
	}
}

func TestCheckOverrideCompatibleSignatureIsClean(t *testing.T) {
	ctx := newTestContext()
	base := &ast.Record{Name: "TBase"}
	baseMethod := &ast.Procedure{
		Name:       "Area",
		Visibility: ast.VisReadWrite,
		Sig:        &ast.ProcType{Return: ast.Base(ast.REAL)},
		Receiver:   &ast.Parameter{Name: "self", Type: &ast.Pointer{To: base}},
	}
	base.Methods = []*ast.Procedure{baseMethod}

	derived := &ast.Record{Name: "TDerived", Base: base}
	overriding := &ast.Procedure{
		Name:       "Area",
		Visibility: ast.VisReadWrite,
		Sig:        &ast.ProcType{Return: ast.Base(ast.REAL)},
		Receiver:   &ast.Parameter{Name: "self", Type: &ast.Pointer{To: derived}},
	}

	checkOverride(ctx, overriding)
	if ctx.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics for a compatible override: %s", ctx.Sink.String())
	}
}
