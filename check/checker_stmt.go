package check

import (
	"fmt"
	"sort"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/typesys"
)

// checkStmts type-checks a statement list in sequence.
func checkStmts(ctx *Context, stmts []ast.Statement) {
	for _, s := range stmts {
		checkStmt(ctx, s)
	}
}

func checkStmt(ctx *Context, stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Assign:
		checkAssign(ctx, s)
	case *ast.Call:
		checkCallStmt(ctx, s)
	case *ast.Return:
		checkReturn(ctx, s)
	case *ast.Exit:
		checkExit(ctx, s)
	case *ast.IfLoop:
		checkIfLoop(ctx, s)
	case *ast.ForLoop:
		checkForLoop(ctx, s)
	case *ast.CaseStmt:
		checkCaseStmt(ctx, s)
	}
}

func checkAssign(ctx *Context, a *ast.Assign) {
	lhsTy := checkExpr(ctx, a.LHS)
	rhsTy := checkExpr(ctx, a.RHS)

	if !isLvalue(a.LHS) {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.AssignIncompatible, Pos: a.Pos(),
			Message: fmt.Sprintf("%s is not assignable", a.LHS.String()),
		})
		return
	}
	if imp, ok := assignTargetImport(a.LHS); ok {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.ReadonlyViolation, Pos: a.Pos(), Name: imp.Alias,
			Message: fmt.Sprintf("cannot assign through read-only import %q", imp.Alias),
		})
		return
	}
	if ast.IsError(lhsTy) || ast.IsError(rhsTy) {
		return
	}
	if !typesys.AssignCompatible(lhsTy, rhsTy) {
		reportAssignIncompatible(ctx, a.Pos(), typeString(lhsTy), rhsTy)
	}
}

// assignTargetImport reports whether expr selects through an imported
// module an entity that is read-only from outside its own module — a
// selection rooted at an *ast.Import whose target is not exported
// read-write.
func assignTargetImport(expr ast.Expression) (*ast.Import, bool) {
	sel, ok := expr.(*ast.IdentSel)
	if !ok {
		return nil, false
	}
	if leaf, ok := sel.Sub.(*ast.IdentLeaf); ok {
		if imp, ok := leaf.Target.(*ast.Import); ok {
			if ent, ok := sel.Target.(ast.Entity); ok && entityVisibility(ent) == ast.VisReadWrite {
				return nil, false
			}
			return imp, true
		}
	}
	return nil, false
}

func checkCallStmt(ctx *Context, c *ast.Call) {
	checkExpr(ctx, c.Expr)
}

func checkReturn(ctx *Context, r *ast.Return) {
	var want ast.Type
	if ctx.proc != nil && ctx.proc.Sig != nil {
		want = ctx.proc.Sig.Return
	}
	if r.Value == nil {
		if want != nil {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: r.Pos(),
				Message: "missing return value for a function procedure",
			})
		}
		return
	}
	got := checkExpr(ctx, r.Value)
	if want == nil {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.AssignIncompatible, Pos: r.Pos(),
			Message: "a proper procedure may not return a value",
		})
		return
	}
	if !ast.IsError(got) && !typesys.AssignCompatible(want, got) {
		reportAssignIncompatible(ctx, r.Pos(), typeString(want), got)
	}
}

func checkExit(ctx *Context, e *ast.Exit) {
	if ctx.loopDepth == 0 {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.ExitOutsideLoop, Pos: e.Pos(),
			Message: "EXIT outside any enclosing LOOP",
		})
	}
}

func checkIfLoop(ctx *Context, i *ast.IfLoop) {
	switch i.ModeTag {
	case ast.ModeWith:
		checkWith(ctx, i)
		return
	case ast.ModeLoop:
		ctx.loopDepth++
		checkStmts(ctx, i.Branches[0].Body)
		ctx.loopDepth--
		return
	}

	checkGuardBool := func(g ast.Expression) {
		guardTy := checkExpr(ctx, g)
		if !isBooleanType(guardTy) && !ast.IsError(guardTy) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: g.Pos(),
				Message: "guard condition must be BOOLEAN",
			})
		}
	}

	for _, b := range i.Branches {
		switch i.ModeTag {
		case ast.ModeRepeat:
			ctx.loopDepth++
			checkStmts(ctx, b.Body)
			ctx.loopDepth--
			checkGuardBool(b.Guard)
		case ast.ModeWhile:
			checkGuardBool(b.Guard)
			ctx.loopDepth++
			checkStmts(ctx, b.Body)
			ctx.loopDepth--
		default:
			checkGuardBool(b.Guard)
			checkStmts(ctx, b.Body)
		}
	}
	if i.ModeTag == ast.ModeIf && i.Else != nil {
		checkStmts(ctx, i.Else)
	}
}

// checkWith resolves the narrowed variable, validates the narrowing type
// is an extension of its declared type, and rebinds it to a narrowed copy
// for the duration of the single WITH body — the same Redefine-then-
// restore pattern the scope package documents for type-case arms.
func checkWith(ctx *Context, i *ast.IfLoop) {
	name := i.NarrowVar.EntityName()
	sc := ctx.scopeFor()
	orig, ok := sc.Resolve(name)
	if !ok {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.UnresolvedIdent, Pos: i.Pos(), Name: name,
			Message: fmt.Sprintf("unresolved identifier %q", name),
		})
		checkStmts(ctx, i.Branches[0].Body)
		return
	}
	origEnt, ok := orig.(ast.Entity)
	if !ok {
		checkStmts(ctx, i.Branches[0].Body)
		return
	}

	narrowTy := ctx.Resolver.Resolve(i.NarrowType, sc)
	i.NarrowType = narrowTy
	i.NarrowVar = origEnt

	subTy := declaredType(origEnt)
	if validateExtension(ctx, i.Pos(), subTy, narrowTy) {
		narrowed := withNarrowedType(origEnt, narrowTy)
		if narrowed != nil {
			sc.Redefine(name, narrowed)
			checkStmts(ctx, i.Branches[0].Body)
			sc.Redefine(name, origEnt)
			return
		}
	}
	checkStmts(ctx, i.Branches[0].Body)
}

// withNarrowedType returns a shallow copy of ent carrying ty in place of
// its declared type, or nil if ent's kind can't carry a narrowed type.
func withNarrowedType(ent ast.Entity, ty ast.Type) ast.Entity {
	switch e := ent.(type) {
	case *ast.Variable:
		cp := *e
		cp.Type = ty
		return &cp
	case *ast.LocalVar:
		cp := *e
		cp.Type = ty
		return &cp
	case *ast.Parameter:
		cp := *e
		cp.Type = ty
		return &cp
	case *ast.Field:
		cp := *e
		cp.Type = ty
		return &cp
	default:
		return nil
	}
}

func checkForLoop(ctx *Context, f *ast.ForLoop) {
	if f.Control.Type != nil && !isIntegerType(f.Control.Type) {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.AssignIncompatible, Pos: f.Pos(),
			Message: "FOR control variable must be integer-compatible",
		})
	}
	fromTy := checkExpr(ctx, f.From)
	toTy := checkExpr(ctx, f.To)
	if !isIntegerType(fromTy) && !ast.IsError(fromTy) {
		ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: f.From.Pos(), Message: "FOR lower bound must be integer-compatible"})
	}
	if !isIntegerType(toTy) && !ast.IsError(toTy) {
		ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: f.To.Pos(), Message: "FOR upper bound must be integer-compatible"})
	}
	if f.By != nil {
		byTy := checkExpr(ctx, f.By)
		if !isIntegerType(byTy) && !ast.IsError(byTy) {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: f.By.Pos(), Message: "FOR step must be integer-compatible"})
		}
		if step, ok := foldConstInt(f.By); ok && step == 0 {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.ForStepZero, Pos: f.By.Pos(),
				Message: "FOR step must not be zero",
			})
		}
	}
	ctx.loopDepth++
	checkStmts(ctx, f.Body)
	ctx.loopDepth--

	if assignsControlVar(f.Body, f.Control) {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.AssignIncompatible, Pos: f.Pos(), Name: f.Control.Name,
			Message: fmt.Sprintf("FOR control variable %q must not be assigned within the loop body", f.Control.Name),
		})
	}
}

// assignsControlVar reports whether any statement in stmts, at any nesting
// depth, assigns directly to ctrl.
func assignsControlVar(stmts []ast.Statement, ctrl *ast.LocalVar) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Assign:
			if leaf, ok := s.LHS.(*ast.IdentLeaf); ok && leaf.Target == ctrl {
				return true
			}
		case *ast.IfLoop:
			for _, b := range s.Branches {
				if assignsControlVar(b.Body, ctrl) {
					return true
				}
			}
			if assignsControlVar(s.Else, ctrl) {
				return true
			}
		case *ast.ForLoop:
			if assignsControlVar(s.Body, ctrl) {
				return true
			}
		case *ast.CaseStmt:
			for _, arm := range s.Cases {
				if assignsControlVar(arm.Body, ctrl) {
					return true
				}
			}
			if assignsControlVar(s.Else, ctrl) {
				return true
			}
		}
	}
	return false
}

func checkCaseStmt(ctx *Context, c *ast.CaseStmt) {
	scrutTy := checkExpr(ctx, c.Scrutinee)
	if c.IsTypeCase {
		checkTypeCaseStmt(ctx, c, scrutTy)
		return
	}

	type labelSpan struct {
		low, high int64
		pos       ast.Expression
	}
	var spans []labelSpan
	for i := range c.Cases {
		arm := &c.Cases[i]
		for _, lbl := range arm.Labels {
			lowTy := checkExpr(ctx, lbl.Low)
			if !ast.IsError(lowTy) && !isIntegerType(lowTy) && !isCharType(lowTy) {
				ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: lbl.Low.Pos(), Message: "CASE label must be integer or character"})
			}
			hi := lbl.Low
			if lbl.High != nil {
				highTy := checkExpr(ctx, lbl.High)
				if !ast.IsError(highTy) && !isIntegerType(highTy) && !isCharType(highTy) {
					ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: lbl.High.Pos(), Message: "CASE label must be integer or character"})
				}
				hi = lbl.High
			}
			lowV, lok := foldConstInt(lbl.Low)
			hiV, hok := foldConstInt(hi)
			if lok && hok {
				spans = append(spans, labelSpan{lowV, hiV, lbl.Low})
			}
		}
		checkStmts(ctx, arm.Body)
	}
	if c.Else != nil {
		checkStmts(ctx, c.Else)
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].low < spans[j].low })
	for i := 1; i < len(spans); i++ {
		if spans[i].low <= spans[i-1].high {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.CaseLabelOverlap, Pos: spans[i].pos.Pos(),
				Message: "CASE label overlaps a previous label",
			})
		}
	}
}

func checkTypeCaseStmt(ctx *Context, c *ast.CaseStmt, scrutTy ast.Type) {
	ident, isIdent := c.Scrutinee.(*ast.IdentLeaf)
	sc := ctx.scopeFor()

	for i := range c.Cases {
		arm := &c.Cases[i]
		candTy := ctx.Resolver.Resolve(arm.TypeLabel, sc)
		arm.TypeLabel = candTy
		validateExtension(ctx, c.Pos(), scrutTy, candTy)

		if isIdent {
			if origNamed, ok := sc.Resolve(ident.Name); ok {
				if origEnt, ok := origNamed.(ast.Entity); ok {
					arm.NarrowVar = origEnt
					if narrowed := withNarrowedType(origEnt, candTy); narrowed != nil {
						sc.Redefine(ident.Name, narrowed)
						checkStmts(ctx, arm.Body)
						sc.Redefine(ident.Name, origEnt)
						continue
					}
				}
			}
		}
		checkStmts(ctx, arm.Body)
	}
	if c.Else != nil {
		checkStmts(ctx, c.Else)
	}
}

// foldConstInt evaluates expr as a compile-time integer constant, the
// minimal folding a CASE label or FOR step needs: literals, named
// constants, and unary negation of either.
func foldConstInt(expr ast.Expression) (int64, bool) {
	switch e := expr.(type) {
	case *ast.Literal:
		if e.LKind == ast.LitInt {
			if v, ok := e.Value.(int64); ok {
				return v, true
			}
		}
		if e.LKind == ast.LitChar {
			if v, ok := e.Value.(rune); ok {
				return int64(v), true
			}
		}
	case *ast.IdentLeaf:
		if c, ok := e.Target.(*ast.Const); ok {
			if v, ok := c.Value.(int64); ok {
				return v, true
			}
		}
	case *ast.UnExpr:
		if e.Operator == ast.OpNeg {
			if v, ok := foldConstInt(e.Operand); ok {
				return -v, true
			}
		}
	}
	return 0, false
}
