package ast

import "github.com/obc-lang/obc/lexer"

// sentinelType backs the checker's two pseudo-types: a node's type is set
// to one of these by identity, never by structural comparison, so Identical
// and AssignCompatible never need to special-case them beyond a pointer
// check.
type sentinelType struct{ label string }

func (s *sentinelType) Pos() lexer.Position { return lexer.Position{} }
func (s *sentinelType) Kind() Kind          { return KindInvalid }
func (s *sentinelType) String() string      { return s.label }
func (s *sentinelType) typeNode()           {}

// ErrorType is assigned to an expression after a local type error so that
// checking can continue without a nil Type reaching later passes or the
// printer.
var ErrorType Type = &sentinelType{"<error>"}

// VoidType is the type of a call to a proper procedure (no RETURN value)
// used in a statement position.
var VoidType Type = &sentinelType{"<void>"}

// IsError reports whether t is the error sentinel.
func IsError(t Type) bool { return t == ErrorType }

// IsVoid reports whether t is the void sentinel.
func IsVoid(t Type) bool { return t == VoidType }

// ModuleRef is the pseudo-type of an identifier that denotes an imported
// module, e.g. the M in M.x. It appears only as the static type of an
// IdentLeaf resolving to an Import, consumed by IdentSel's qualified-access
// check; nothing may be assigned to or from it.
type ModuleRef struct {
	Target *Module
}

func (m *ModuleRef) Pos() lexer.Position { return lexer.Position{} }
func (m *ModuleRef) Kind() Kind          { return KindModuleRef }
func (m *ModuleRef) String() string {
	if m.Target == nil {
		return "<module>"
	}
	return "MODULE " + m.Target.Name
}
func (m *ModuleRef) typeNode() {}
