// Package typesys implements the type system: equivalence, assignment
// compatibility, record extension, and generic instantiation over the
// ast.Type values package ast defines. Resolution of QualiType references
// into concrete types lives in resolve.go.
package typesys

import "github.com/obc-lang/obc/ast"

// Identical reports whether a and b name the exact same type: the same
// interned BaseType singleton, the same *ast.Record, or structurally
// matching Pointer/Array/ProcType/Enumeration trees built from identical
// components. QualiType operands must already be resolved.
func Identical(a, b ast.Type) bool {
	a, b = underlying(a), underlying(b)
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case *ast.BaseType:
		return at.Kind == b.(*ast.BaseType).Kind
	case *ast.Pointer:
		return Identical(at.To, b.(*ast.Pointer).To)
	case *ast.Array:
		bt := b.(*ast.Array)
		if at.Open != bt.Open {
			return false
		}
		if !at.Open && at.Length != bt.Length {
			return false
		}
		return Identical(at.Elem, bt.Elem)
	case *ast.Record:
		return at == b.(*ast.Record)
	case *ast.ProcType:
		bt := b.(*ast.ProcType)
		if len(at.Formals) != len(bt.Formals) {
			return false
		}
		for i, f := range at.Formals {
			g := bt.Formals[i]
			if f.ByRef != g.ByRef || !Identical(f.Type, g.Type) {
				return false
			}
		}
		if (at.Return == nil) != (bt.Return == nil) {
			return false
		}
		return at.Return == nil || Identical(at.Return, bt.Return)
	case *ast.Enumeration:
		return at == b.(*ast.Enumeration)
	default:
		return false
	}
}

// Underlying strips a resolved QualiType down to the type it denotes,
// following chains of named-type aliases. Exported for package check,
// which needs the same unwrapping to classify an expression's static type.
func Underlying(t ast.Type) ast.Type { return underlying(t) }

// underlying strips a resolved QualiType down to the type it denotes,
// following chains of named-type aliases.
func underlying(t ast.Type) ast.Type {
	for {
		q, ok := t.(*ast.QualiType)
		if !ok || q.Resolved == nil {
			return t
		}
		t = q.Resolved
	}
}

// Extends reports whether sub is, or record-extends, base. Non-record
// types are never extensions of anything but themselves.
func Extends(sub, base ast.Type) bool {
	subRec, ok := underlying(sub).(*ast.Record)
	if !ok {
		return Identical(sub, base)
	}
	baseRec, ok := underlying(base).(*ast.Record)
	if !ok {
		return false
	}
	return subRec.Extends(baseRec)
}

// numericRank orders the numeric base types from narrowest to widest, so
// AssignCompatible can allow widening but not narrowing conversions.
var numericRank = map[ast.BasePrimitive]int{
	ast.BYTE: 0, ast.SHORTINT: 1, ast.INTEGER: 2, ast.LONGINT: 3,
	ast.REAL: 4, ast.LONGREAL: 5,
}

func isNumeric(b ast.BasePrimitive) bool {
	_, ok := numericRank[b]
	return ok
}

// AssignCompatible reports whether a value of type src may be assigned to
// (or passed as an argument of) a variable of type dst.
func AssignCompatible(dst, src ast.Type) bool {
	dst, src = underlying(dst), underlying(src)
	if Identical(dst, src) {
		return true
	}

	dstBase, dstIsBase := dst.(*ast.BaseType)
	srcBase, srcIsBase := src.(*ast.BaseType)
	if dstIsBase && srcIsBase {
		if isNumeric(dstBase.Kind) && isNumeric(srcBase.Kind) {
			return numericRank[srcBase.Kind] <= numericRank[dstBase.Kind]
		}
		if dstBase.Kind == ast.WCHAR && srcBase.Kind == ast.CHAR {
			return true
		}
		if dstBase.Kind == ast.WSTRING && srcBase.Kind == ast.STRING {
			return true
		}
		return false
	}

	// A pointer or procedure variable may receive NIL.
	if srcIsBase && srcBase.Kind == ast.NILTYPE {
		switch dst.(type) {
		case *ast.Pointer, *ast.ProcType:
			return true
		}
		return false
	}

	// An open-array formal accepts a fixed array of the same element type.
	if dstArr, ok := dst.(*ast.Array); ok && dstArr.Open {
		if srcArr, ok := src.(*ast.Array); ok {
			return Identical(dstArr.Elem, srcArr.Elem)
		}
	}

	// A pointer to a derived record may be assigned to a pointer to its base.
	if dstPtr, ok := dst.(*ast.Pointer); ok {
		if srcPtr, ok := src.(*ast.Pointer); ok {
			return Extends(srcPtr.To, dstPtr.To)
		}
	}

	return Extends(src, dst)
}

// ExpressionCompatible reports whether a and b may meet as the two operands
// of an equality or ordering comparison: either one is assignment-compatible
// with the other, so the relation is symmetric rather than directional.
func ExpressionCompatible(a, b ast.Type) bool {
	return AssignCompatible(a, b) || AssignCompatible(b, a)
}
