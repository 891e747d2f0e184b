package typesys

import (
	"errors"

	"github.com/obc-lang/obc/ast"
)

// ErrOperatorDuplicate is returned by OperatorRegistry.Register when the
// same operator symbol and operand-type signature is already registered.
var ErrOperatorDuplicate = errors.New("operator already registered for this signature")

// ErrOperatorNil is returned when Register is given a nil signature.
var ErrOperatorNil = errors.New("cannot register a nil operator signature")

// OperatorSignature binds an operator symbol over a fixed operand-type
// tuple to the procedure that implements it, plus the result type a call
// resolves to. Binding names the implementing procedure (its qualified
// name, e.g. "Vectors.AddV"); the registry stores it as a string and does
// not resolve it to an *ast.Procedure.
type OperatorSignature struct {
	Operator     string
	OperandTypes []ast.Type
	ResultType   ast.Type
	Binding      string
}

// OperatorRegistry resolves operator-overload calls: binary or unary
// operators applied to record types that declare their own "+", "=", etc.
// via a bound procedure, the way Oberon-2 extensions and several
// preload-library modules let a record customize arithmetic on itself.
type OperatorRegistry struct {
	bySymbol map[string][]*OperatorSignature
}

// NewOperatorRegistry creates an empty registry.
func NewOperatorRegistry() *OperatorRegistry {
	return &OperatorRegistry{bySymbol: make(map[string][]*OperatorSignature)}
}

// Register adds sig, rejecting an exact duplicate of operator and operand
// types.
func (r *OperatorRegistry) Register(sig *OperatorSignature) error {
	if sig == nil {
		return ErrOperatorNil
	}
	for _, existing := range r.bySymbol[sig.Operator] {
		if sameOperands(existing.OperandTypes, sig.OperandTypes) {
			return ErrOperatorDuplicate
		}
	}
	r.bySymbol[sig.Operator] = append(r.bySymbol[sig.Operator], sig)
	return nil
}

// Lookup finds the signature registered for operator over operands,
// using Identical type matching; no widened operand combination is tried.
func (r *OperatorRegistry) Lookup(operator string, operands []ast.Type) (*OperatorSignature, bool) {
	for _, sig := range r.bySymbol[operator] {
		if sameOperands(sig.OperandTypes, operands) {
			return sig, true
		}
	}
	return nil, false
}

func sameOperands(a, b []ast.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}

// isOperatorSymbol reports whether s is one of the symbols a record may
// overload.
func isOperatorSymbol(s string) bool {
	switch s {
	case "+", "-", "*", "/", "=", "#", "<", "<=", ">", ">=", "IN":
		return true
	default:
		return false
	}
}
