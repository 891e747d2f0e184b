package check

import (
	"github.com/obc-lang/obc/ast"
)

// CheckerPass walks every procedure body and the module initializer,
// resolving each identifier use, typing each expression, and validating
// each statement. TypeResolutionPass must have run first so ctx.Resolver
// is available for type references embedded inside expressions.
func CheckerPass(ctx *Context, mod *ast.Module) {
	ctx.proc = nil
	checkStmts(ctx, mod.Body)

	for _, p := range mod.Procedures {
		ctx.proc = p
		checkStmts(ctx, p.Body)
		ctx.proc = nil
	}
}

// isLvalue reports whether expr denotes a storage location that may
// appear on the left of an assignment or be passed as a VAR argument.
func isLvalue(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.IdentLeaf:
		switch e.Target.(type) {
		case *ast.Const, *ast.Procedure, *ast.BuiltIn, *ast.Import:
			return false
		}
		return true
	case *ast.IdentSel:
		return true
	case *ast.ArgExpr:
		return e.AKind == ast.ArgIndex
	case *ast.UnExpr:
		return e.Operator == ast.OpDeref
	default:
		return false
	}
}

// entityVisibility returns ent's declared Visibility, or VisNotApplicable
// for an entity kind that doesn't carry one (e.g. a Procedure).
func entityVisibility(ent ast.Entity) ast.Visibility {
	switch e := ent.(type) {
	case *ast.Variable:
		return e.Visibility
	case *ast.Const:
		return e.Visibility
	case *ast.Field:
		return e.Visibility
	case *ast.NamedType:
		return e.Visibility
	case *ast.Procedure:
		return e.Visibility
	default:
		return ast.VisNotApplicable
	}
}
