package check

import (
	"fmt"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/lexer"
	"github.com/obc-lang/obc/typesys"
)

// checkBinExpr types a binary operation. Arithmetic operators promote to
// the wider numeric operand; DIV/MOD require integer operands; FDIV ("/")
// requires at least one real operand; the SET operators + - * / mean
// union, difference, intersection, and symmetric difference when both
// operands are SET. OpRange only has meaning inside a SetExpr element or a
// CaseLabel, never as a standalone expression.
func checkBinExpr(ctx *Context, b *ast.BinExpr) ast.Type {
	if b.Operator == ast.OpRange {
		checkExpr(ctx, b.Left)
		checkExpr(ctx, b.Right)
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.RangeMisuse, Pos: b.Pos(),
			Message: "range is only valid inside a set constructor or CASE label",
		})
		return ast.ErrorType
	}

	if b.Operator == ast.OpIs {
		return checkIsExpr(ctx, b)
	}

	leftTy := checkExpr(ctx, b.Left)
	rightTy := checkExpr(ctx, b.Right)

	switch b.Operator {
	case ast.OpAdd, ast.OpSub, ast.OpMul:
		if isSetType(leftTy) && isSetType(rightTy) {
			return ast.Base(ast.SET)
		}
		if isNumericType(leftTy) && isNumericType(rightTy) {
			return widerNumeric(leftTy, rightTy)
		}
		return binOperandError(ctx, b, "numeric or SET", leftTy, rightTy)

	case ast.OpFDiv:
		if isSetType(leftTy) && isSetType(rightTy) {
			return ast.Base(ast.SET)
		}
		if isNumericType(leftTy) && isNumericType(rightTy) && (isRealType(leftTy) || isRealType(rightTy)) {
			return widerNumeric(leftTy, rightTy)
		}
		return binOperandError(ctx, b, "a real operand or two SETs", leftTy, rightTy)

	case ast.OpDiv, ast.OpMod:
		if isIntegerType(leftTy) && isIntegerType(rightTy) {
			return widerNumeric(leftTy, rightTy)
		}
		return binOperandError(ctx, b, "integer", leftTy, rightTy)

	case ast.OpOr, ast.OpAnd:
		if isBooleanType(leftTy) && isBooleanType(rightTy) {
			return ast.Base(ast.BOOLEAN)
		}
		return binOperandError(ctx, b, "BOOLEAN", leftTy, rightTy)

	case ast.OpEQ, ast.OpNEQ:
		if typesys.ExpressionCompatible(leftTy, rightTy) {
			return ast.Base(ast.BOOLEAN)
		}
		return binOperandError(ctx, b, "comparable", leftTy, rightTy)

	case ast.OpLT, ast.OpLE, ast.OpGT, ast.OpGE:
		ordered := (isNumericType(leftTy) && isNumericType(rightTy)) ||
			(isCharType(leftTy) && isCharType(rightTy))
		if ordered && typesys.ExpressionCompatible(leftTy, rightTy) {
			return ast.Base(ast.BOOLEAN)
		}
		return binOperandError(ctx, b, "ordered and comparable", leftTy, rightTy)

	case ast.OpIn:
		if !isIntegerType(leftTy) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: b.Pos(),
				Message: "IN requires an integer-compatible left operand",
			})
			return ast.ErrorType
		}
		if !isSetType(rightTy) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.AssignIncompatible, Pos: b.Pos(),
				Message: "IN requires a SET right operand",
			})
			return ast.ErrorType
		}
		return ast.Base(ast.BOOLEAN)

	default:
		return ast.ErrorType
	}
}

func binOperandError(ctx *Context, b *ast.BinExpr, want string, leftTy, rightTy ast.Type) ast.Type {
	if ast.IsError(leftTy) || ast.IsError(rightTy) {
		return ast.ErrorType
	}
	ctx.Sink.Report(&diag.Diagnostic{
		Kind: diag.AssignIncompatible, Pos: b.Pos(), Expected: want, Got: typeString(leftTy),
		Message: fmt.Sprintf("operator %s requires %s operands, got %s and %s", b.Operator, want, typeString(leftTy), typeString(rightTy)),
	})
	return ast.ErrorType
}

// checkIsExpr types v IS T. Right denotes a type name (resolved the same
// way any other identifier is, by checkExpr — a NamedType's static "value"
// type is the type it declares), not an ordinary value expression.
func checkIsExpr(ctx *Context, b *ast.BinExpr) ast.Type {
	subTy := checkExpr(ctx, b.Left)
	candTy := checkExpr(ctx, b.Right)
	if !validateExtension(ctx, b.Pos(), subTy, candTy) {
		return ast.ErrorType
	}
	return ast.Base(ast.BOOLEAN)
}

// validateExtension reports diag.InvalidGuard and returns false unless
// subTy is a record or pointer-to-record and candTy is an extension of it.
func validateExtension(ctx *Context, pos lexer.Position, subTy, candTy ast.Type) bool {
	base := typesys.Underlying(subTy)
	if ptr, ok := base.(*ast.Pointer); ok {
		base = typesys.Underlying(ptr.To)
	}
	if _, ok := base.(*ast.Record); !ok {
		if !ast.IsError(subTy) {
			ctx.Sink.Report(&diag.Diagnostic{
				Kind: diag.InvalidGuard, Pos: pos,
				Message: "type test requires a record or pointer-to-record operand",
			})
		}
		return false
	}
	if typesys.Extends(candTy, base) || typesys.Extends(guardAsPointer(candTy, subTy), subTy) {
		return true
	}
	if candPtr, ok := typesys.Underlying(candTy).(*ast.Pointer); ok {
		if _, subIsPtr := typesys.Underlying(subTy).(*ast.Pointer); subIsPtr && typesys.Extends(typesys.Underlying(candPtr.To), base) {
			return true
		}
	}
	if !ast.IsError(candTy) {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.InvalidGuard, Pos: pos, Expected: typeString(candTy), Got: typeString(subTy),
			Message: fmt.Sprintf("%s is not an extension of %s", typeString(candTy), typeString(subTy)),
		})
	}
	return false
}
