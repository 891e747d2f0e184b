package check

import (
	"fmt"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/typesys"
)

// checkArgExpr types a call, index, or type-guard expression.
func checkArgExpr(ctx *Context, a *ast.ArgExpr) ast.Type {
	switch a.AKind {
	case ast.ArgCall:
		return checkCall(ctx, a)
	case ast.ArgIndex:
		return checkIndex(ctx, a)
	case ast.ArgGuard:
		return checkGuard(ctx, a)
	default:
		return ast.ErrorType
	}
}

func checkCall(ctx *Context, a *ast.ArgExpr) ast.Type {
	calleeTy := checkExpr(ctx, a.Callee)

	if ident, ok := a.Callee.(*ast.IdentLeaf); ok {
		if b, ok := ident.Target.(*ast.BuiltIn); ok {
			return checkBuiltinCall(ctx, a, b)
		}
	}

	sig, ok := typesys.Underlying(calleeTy).(*ast.ProcType)
	if !ok {
		if !ast.IsError(calleeTy) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: a.Pos(),
				Message: fmt.Sprintf("%s is not callable", a.Callee.String()),
			})
		}
		for _, arg := range a.Args {
			checkExpr(ctx, arg)
		}
		return ast.ErrorType
	}

	checkArgs(ctx, a, sig.Formals)
	if sig.Return != nil {
		return sig.Return
	}
	return ast.VoidType
}

// checkArgs validates a.Args against formals: arity, assignment
// compatibility per formal, and that a VAR formal receives an lvalue.
func checkArgs(ctx *Context, a *ast.ArgExpr, formals []*ast.Parameter) {
	if len(a.Args) != len(formals) {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.AssignIncompatible, Pos: a.Pos(),
			Message: fmt.Sprintf("expected %d argument(s), got %d", len(formals), len(a.Args)),
		})
	}
	for i, arg := range a.Args {
		argTy := checkExpr(ctx, arg)
		if i >= len(formals) {
			continue
		}
		f := formals[i]
		if f.ByRef && !isLvalue(arg) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: arg.Pos(),
				Message: fmt.Sprintf("VAR parameter %q requires an addressable argument", f.Name),
			})
			continue
		}
		if f.Open {
			if arr, ok := typesys.Underlying(argTy).(*ast.Array); ok && typesys.Identical(arr.Elem, underlyingElem(f.Type)) {
				continue
			}
		}
		if !typesys.AssignCompatible(f.Type, argTy) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: arg.Pos(), Expected: typeString(f.Type), Got: typeString(argTy),
				Message: fmt.Sprintf("argument %d: cannot use %s as %s", i+1, typeString(argTy), typeString(f.Type)),
			})
		}
	}
}

func underlyingElem(t ast.Type) ast.Type {
	if arr, ok := typesys.Underlying(t).(*ast.Array); ok {
		return arr.Elem
	}
	return t
}

func checkIndex(ctx *Context, a *ast.ArgExpr) ast.Type {
	cur := checkExpr(ctx, a.Callee)
	for _, arg := range a.Args {
		idxTy := checkExpr(ctx, arg)
		if !isIntegerType(idxTy) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: arg.Pos(),
				Message: "array index must be integer-compatible",
			})
		}
		base := typesys.Underlying(cur)
		if ptr, ok := base.(*ast.Pointer); ok {
			base = typesys.Underlying(ptr.To)
		}
		arr, ok := base.(*ast.Array)
		if !ok {
			if !ast.IsError(cur) {
				ctx.Sink.Report(&diag.Diagnostic{
					Kind: diag.AssignIncompatible, Pos: a.Pos(),
					Message: "indexed expression is not an array",
				})
			}
			return ast.ErrorType
		}
		cur = arr.Elem
	}
	return cur
}

// checkGuard types a type-guard expression v(T): v must be a record or
// pointer type; T must be an extension of v's static type.
func checkGuard(ctx *Context, a *ast.ArgExpr) ast.Type {
	subTy := checkExpr(ctx, a.Callee)
	guardTy := ctx.Resolver.Resolve(a.GuardTy, ctx.scopeFor())
	a.GuardTy = guardTy

	if !validateExtension(ctx, a.Pos(), subTy, guardTy) {
		return ast.ErrorType
	}
	return guardTy
}

// guardAsPointer wraps a bare-record guardTy in a pointer when subTy is a
// pointer, so typesys.Extends receives two pointers. A pointer guardTy, or
// any guardTy paired with a non-pointer subTy, is returned unchanged.
func guardAsPointer(guardTy, subTy ast.Type) ast.Type {
	if _, ok := typesys.Underlying(subTy).(*ast.Pointer); ok {
		if _, ok := typesys.Underlying(guardTy).(*ast.Pointer); !ok {
			return &ast.Pointer{To: guardTy}
		}
	}
	return guardTy
}
