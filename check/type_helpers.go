package check

import (
	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/typesys"
)

// declaredType returns the static type CheckerPass should attach to an
// IdentLeaf or IdentSel resolving to ent.
func declaredType(ent ast.Entity) ast.Type {
	switch e := ent.(type) {
	case *ast.Const:
		return e.Type
	case *ast.Variable:
		return e.Type
	case *ast.LocalVar:
		return e.Type
	case *ast.Parameter:
		return e.Type
	case *ast.Field:
		return e.Type
	case *ast.NamedType:
		return e.Declared
	case *ast.GenericName:
		return e.Constraint
	case *ast.Procedure:
		if e.Sig != nil {
			return e.Sig
		}
		return ast.VoidType
	case *ast.BuiltIn:
		if e.Sig != nil {
			return e.Sig
		}
		return ast.VoidType
	case *ast.Import:
		return &ast.ModuleRef{Target: e.Target}
	default:
		return ast.ErrorType
	}
}

// numericKinds orders the numeric base kinds narrowest to widest, mirroring
// typesys's own ranking, so checkBinExpr can promote to the wider operand.
var numericKinds = []ast.BasePrimitive{
	ast.BYTE, ast.SHORTINT, ast.INTEGER, ast.LONGINT, ast.REAL, ast.LONGREAL,
}

func baseKind(t ast.Type) (ast.BasePrimitive, bool) {
	b, ok := typesys.Underlying(t).(*ast.BaseType)
	if !ok {
		return 0, false
	}
	return b.Kind, true
}

func isNumericType(t ast.Type) bool {
	k, ok := baseKind(t)
	if !ok {
		return false
	}
	switch k {
	case ast.BYTE, ast.SHORTINT, ast.INTEGER, ast.LONGINT, ast.REAL, ast.LONGREAL:
		return true
	default:
		return false
	}
}

func isIntegerType(t ast.Type) bool {
	k, ok := baseKind(t)
	if !ok {
		return false
	}
	switch k {
	case ast.BYTE, ast.SHORTINT, ast.INTEGER, ast.LONGINT:
		return true
	default:
		return false
	}
}

func isRealType(t ast.Type) bool {
	k, ok := baseKind(t)
	return ok && (k == ast.REAL || k == ast.LONGREAL)
}

func isBooleanType(t ast.Type) bool {
	k, ok := baseKind(t)
	return ok && k == ast.BOOLEAN
}

func isCharType(t ast.Type) bool {
	k, ok := baseKind(t)
	return ok && (k == ast.CHAR || k == ast.WCHAR)
}

func isSetType(t ast.Type) bool {
	k, ok := baseKind(t)
	return ok && k == ast.SET
}

// widerNumeric returns the wider of two numeric base types by promotion
// rank, for an arithmetic BinExpr's result type.
func widerNumeric(a, b ast.Type) ast.Type {
	ak, _ := baseKind(a)
	bk, _ := baseKind(b)
	rank := func(k ast.BasePrimitive) int {
		for i, nk := range numericKinds {
			if nk == k {
				return i
			}
		}
		return -1
	}
	if rank(bk) > rank(ak) {
		return ast.Base(bk)
	}
	return ast.Base(ak)
}
