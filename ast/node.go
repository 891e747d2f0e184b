package ast

import "github.com/obc-lang/obc/lexer"

// Kind tags every node with its concrete variant, letting callers do a
// cheap switch without a type assertion when they only need to branch on
// shape.
type Kind int

const (
	KindInvalid Kind = iota

	// Types
	KindBaseType
	KindPointer
	KindArray
	KindRecord
	KindProcType
	KindQualiType
	KindEnumeration

	// Named entities
	KindVariable
	KindLocalVar
	KindParameter
	KindField
	KindConst
	KindNamedType
	KindProcedure
	KindImport
	KindBuiltIn
	KindGenericName
	KindModule

	// Statements
	KindCall
	KindReturn
	KindExit
	KindAssign
	KindIfLoop
	KindForLoop
	KindCaseStmt

	// Expressions
	KindLiteral
	KindSetExpr
	KindIdentLeaf
	KindIdentSel
	KindUnExpr
	KindArgExpr
	KindBinExpr

	// Pseudo-types produced by the checker, never by the parser.
	KindModuleRef
)

// Node is the base interface every AST node satisfies.
type Node interface {
	Pos() lexer.Position
	Kind() Kind
	String() string
}

// Type is any node that can appear in type position: BaseType, Pointer,
// Array, Record, ProcType, QualiType, Enumeration.
type Type interface {
	Node
	typeNode()
}

// Expression is any node that yields a value.
type Expression interface {
	Node
	exprNode()
	// GetType returns the expression's inferred type, nil until the
	// checker (package check) has run.
	GetType() Type
	SetType(Type)
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	stmtNode()
}

// Entity is any named, scope-owned declaration: Variable, LocalVar,
// Parameter, Field, Const, NamedType, Procedure, Import, BuiltIn,
// GenericName, Module.
type Entity interface {
	Node
	entityNode()
	EntityName() string
}

// Visibility classifies how an entity may be referenced from outside its
// declaring module.
type Visibility int

const (
	VisNotApplicable Visibility = iota
	VisPrivate
	VisReadWrite
	VisReadOnly
)

func (v Visibility) String() string {
	switch v {
	case VisPrivate:
		return "private"
	case VisReadWrite:
		return "read-write"
	case VisReadOnly:
		return "read-only"
	default:
		return "n/a"
	}
}

// Role annotates a single identifier occurrence with its syntactic use,
// assigned by the checker during traversal.
type Role int

const (
	RoleNone Role = iota
	RoleDecl
	RoleLHS
	RoleVarArg
	RoleRHS
	RoleSuper
	RoleSub
	RoleCall
	RoleImport
	RoleThis
	RoleMethod
	RoleString
)
