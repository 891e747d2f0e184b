package check

import (
	"fmt"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/lexer"
	"github.com/obc-lang/obc/typesys"
)

// checkExpr types expr in place (via Expression.SetType) and returns its
// type, recursing into subexpressions first. A local type error sets
// ast.ErrorType rather than aborting, so the rest of the statement/
// expression tree still gets checked in the same pass.
func checkExpr(ctx *Context, expr ast.Expression) ast.Type {
	if expr == nil {
		return ast.ErrorType
	}
	var t ast.Type
	switch e := expr.(type) {
	case *ast.Literal:
		t = checkLiteral(e)
	case *ast.SetExpr:
		t = checkSetExpr(ctx, e)
	case *ast.IdentLeaf:
		t = checkIdentLeaf(ctx, e)
	case *ast.IdentSel:
		t = checkIdentSel(ctx, e)
	case *ast.UnExpr:
		t = checkUnExpr(ctx, e)
	case *ast.ArgExpr:
		t = checkArgExpr(ctx, e)
	case *ast.BinExpr:
		t = checkBinExpr(ctx, e)
	default:
		t = ast.ErrorType
	}
	expr.SetType(t)
	return t
}

func checkLiteral(l *ast.Literal) ast.Type {
	switch l.LKind {
	case ast.LitInt:
		return ast.Base(ast.INTEGER)
	case ast.LitReal:
		return ast.Base(ast.REAL)
	case ast.LitBool:
		return ast.Base(ast.BOOLEAN)
	case ast.LitChar:
		return ast.Base(ast.CHAR)
	case ast.LitNil:
		return ast.Base(ast.NILTYPE)
	case ast.LitString:
		return &ast.Array{Elem: ast.Base(ast.CHAR), Length: l.StrLen, Token: l.Token}
	case ast.LitByteString:
		return &ast.Array{Elem: ast.Base(ast.BYTE), Length: l.StrLen, Token: l.Token}
	default:
		return ast.ErrorType
	}
}

func checkSetExpr(ctx *Context, s *ast.SetExpr) ast.Type {
	for _, elem := range s.Elems {
		lowTy := checkExpr(ctx, elem.Low)
		if !isIntegerType(lowTy) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: elem.Low.Pos(),
				Message: "set elements must be integer-compatible",
			})
		}
		if elem.High != nil {
			highTy := checkExpr(ctx, elem.High)
			if !isIntegerType(highTy) {
				ctx.Sink.Report(&diag.Diagnostic{
					Kind: diag.AssignIncompatible, Pos: elem.High.Pos(),
					Message: "set range bound must be integer-compatible",
				})
			}
		}
	}
	return ast.Base(ast.SET)
}

func checkIdentLeaf(ctx *Context, i *ast.IdentLeaf) ast.Type {
	named, ok := ctx.scopeFor().Resolve(i.Name)
	if !ok {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.UnresolvedIdent, Pos: i.Pos(), Name: i.Name,
			Message: fmt.Sprintf("unresolved identifier %q", i.Name),
		})
		return ast.ErrorType
	}
	ent, ok := named.(ast.Entity)
	if !ok {
		return ast.ErrorType
	}
	i.Target = ent
	if imp, ok := ent.(*ast.Import); ok {
		imp.UsedFromLive = true
	}
	if i.Role == ast.RoleNone {
		i.Role = ast.RoleRHS
	}
	t := declaredType(ent)
	if t == nil {
		return ast.ErrorType
	}
	return t
}

// checkIdentSel types a qualified selection x.f: x must be a record (or
// pointer to one, auto-dereferenced) or a module reference.
func checkIdentSel(ctx *Context, s *ast.IdentSel) ast.Type {
	subTy := checkExpr(ctx, s.Sub)

	if modRef, ok := typesys.Underlying(subTy).(*ast.ModuleRef); ok {
		if modRef.Target == nil {
			return ast.ErrorType
		}
		named, ok := typesys.LookupExported(modRef.Target, s.Name)
		if !ok {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.UnresolvedIdent, Pos: s.Pos(), Name: s.Name,
				Message: fmt.Sprintf("%q does not export %q", modRef.Target.Name, s.Name),
			})
			return ast.ErrorType
		}
		ent := named.(ast.Entity)
		s.Target = ent
		if s.Role == ast.RoleNone {
			s.Role = ast.RoleRHS
		}
		return declaredType(ent)
	}

	base := typesys.Underlying(subTy)
	if ptr, ok := base.(*ast.Pointer); ok {
		base = typesys.Underlying(ptr.To)
	}
	rec, ok := base.(*ast.Record)
	if !ok {
		if !ast.IsError(subTy) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.UnresolvedIdent, Pos: s.Pos(), Name: s.Name,
				Message: fmt.Sprintf("%q is not a record or pointer to record", s.Sub.String()),
			})
		}
		return ast.ErrorType
	}

	if f, _ := rec.FindField(s.Name); f != nil {
		s.Target = f
		if s.Role == ast.RoleNone {
			s.Role = ast.RoleRHS
		}
		return f.Type
	}
	if m, _ := rec.FindMethod(s.Name); m != nil {
		s.Target = m
		s.Role = ast.RoleMethod
		if m.Sig != nil {
			return m.Sig
		}
		return ast.VoidType
	}
	ctx.Sink.Report(&diag.Diagnostic{
		Kind: diag.UnresolvedIdent, Pos: s.Pos(), Name: s.Name,
		Message: fmt.Sprintf("record has no field or method %q", s.Name),
	})
	return ast.ErrorType
}

func checkUnExpr(ctx *Context, u *ast.UnExpr) ast.Type {
	opTy := checkExpr(ctx, u.Operand)
	switch u.Operator {
	case ast.OpNeg:
		if !isNumericType(opTy) {
			reportAssignIncompatible(ctx, u.Pos(), "numeric", opTy)
			return ast.ErrorType
		}
		return opTy
	case ast.OpNot:
		if !isBooleanType(opTy) {
			reportAssignIncompatible(ctx, u.Pos(), "BOOLEAN", opTy)
			return ast.ErrorType
		}
		return opTy
	case ast.OpDeref:
		ptr, ok := typesys.Underlying(opTy).(*ast.Pointer)
		if !ok {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: u.Pos(),
				Message: "dereference of a non-pointer type",
			})
			return ast.ErrorType
		}
		return ptr.To
	case ast.OpAddrOf:
		if !isLvalue(u.Operand) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: u.Pos(),
				Message: "address-of requires an addressable value",
			})
			return ast.ErrorType
		}
		return &ast.Pointer{To: opTy, Token: u.Token}
	default:
		return ast.ErrorType
	}
}

func reportAssignIncompatible(ctx *Context, pos lexer.Position, expected string, got ast.Type) {
	ctx.Sink.Report(&diag.Diagnostic{
		Kind: diag.AssignIncompatible, Pos: pos, Expected: expected, Got: typeString(got),
		Message: fmt.Sprintf("expected %s, got %s", expected, typeString(got)),
	})
}

func typeString(t ast.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
