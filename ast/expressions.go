package ast

import (
	"strconv"
	"strings"

	"github.com/obc-lang/obc/lexer"
)

// LitKind discriminates the variants of a Literal node.
type LitKind int

const (
	LitInt LitKind = iota
	LitReal
	LitBool
	LitString
	LitByteString
	LitChar
	LitNil
)

// Literal is a typed constant value. StrLen records the string's codepoint
// count plus one for the trailing zero, used by the checker without
// re-walking the literal text.
type Literal struct {
	Value  interface{}
	Type   Type
	Token  lexer.Token
	LKind  LitKind
	StrLen int
}

func (l *Literal) Pos() lexer.Position { return l.Token.Pos }
func (l *Literal) Kind() Kind          { return KindLiteral }
func (l *Literal) String() string      { return l.Token.Literal }
func (l *Literal) exprNode()           {}
func (l *Literal) GetType() Type       { return l.Type }
func (l *Literal) SetType(t Type)      { l.Type = t }

// SetElem is one element of a SetExpr: either a single value or a range.
type SetElem struct {
	Low  Expression
	High Expression // nil unless this element is a range
}

// SetExpr is a set literal: a list of elements or ranges, e.g. {1, 3..5}.
type SetExpr struct {
	Type  Type
	Token lexer.Token
	Elems []SetElem
}

func (s *SetExpr) Pos() lexer.Position { return s.Token.Pos }
func (s *SetExpr) Kind() Kind          { return KindSetExpr }
func (s *SetExpr) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, e := range s.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.Low.String())
		if e.High != nil {
			sb.WriteString("..")
			sb.WriteString(e.High.String())
		}
	}
	sb.WriteString("}")
	return sb.String()
}
func (s *SetExpr) exprNode()      {}
func (s *SetExpr) GetType() Type  { return s.Type }
func (s *SetExpr) SetType(t Type) { s.Type = t }

// IdentLeaf is an unqualified name use. Target is filled in by the checker
// once resolution succeeds; Role records the syntactic use.
type IdentLeaf struct {
	Type   Type
	Target Entity
	Name   string
	Token  lexer.Token
	Role   Role
}

func (i *IdentLeaf) Pos() lexer.Position { return i.Token.Pos }
func (i *IdentLeaf) Kind() Kind          { return KindIdentLeaf }
func (i *IdentLeaf) String() string      { return i.Name }
func (i *IdentLeaf) exprNode()           {}
func (i *IdentLeaf) GetType() Type       { return i.Type }
func (i *IdentLeaf) SetType(t Type)      { i.Type = t }

// IdentSel is a selection x.f: a unary expression carrying the selected
// name. Sub is the base expression (a record, pointer-to-record, or module
// reference).
type IdentSel struct {
	Type   Type
	Sub    Expression
	Target Entity
	Name   string
	Token  lexer.Token
	Role   Role
}

func (s *IdentSel) Pos() lexer.Position { return s.Token.Pos }
func (s *IdentSel) Kind() Kind          { return KindIdentSel }
func (s *IdentSel) String() string      { return s.Sub.String() + "." + s.Name }
func (s *IdentSel) exprNode()           {}
func (s *IdentSel) GetType() Type       { return s.Type }
func (s *IdentSel) SetType(t Type)      { s.Type = t }

// UnOp enumerates unary operators.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
	OpDeref
	OpAddrOf
)

func (op UnOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "~"
	case OpDeref:
		return "^"
	case OpAddrOf:
		return "@"
	default:
		return "?"
	}
}

// UnExpr is a unary operation: negate, logical-not, dereference, or
// address-of.
type UnExpr struct {
	Type     Type
	Operand  Expression
	Token    lexer.Token
	Operator UnOp
}

func (u *UnExpr) Pos() lexer.Position { return u.Token.Pos }
func (u *UnExpr) Kind() Kind          { return KindUnExpr }
func (u *UnExpr) String() string {
	if u.Operator == OpDeref {
		return u.Operand.String() + "^"
	}
	return u.Operator.String() + u.Operand.String()
}
func (u *UnExpr) exprNode()      {}
func (u *UnExpr) GetType() Type  { return u.Type }
func (u *UnExpr) SetType(t Type) { u.Type = t }

// ArgKind discriminates the three ArgExpr forms.
type ArgKind int

const (
	ArgCall ArgKind = iota
	ArgIndex
	ArgGuard // type-guard v(T)
)

// ArgExpr is a call, index, or type-guard expression: a callee/base plus
// an argument list. For ArgGuard, GuardTy carries the guard type directly
// and Args is empty.
type ArgExpr struct {
	Type     Type
	Callee   Expression
	GuardTy  Type // set only when AKind == ArgGuard
	Token    lexer.Token
	Args     []Expression
	AKind    ArgKind
}

func (a *ArgExpr) Pos() lexer.Position { return a.Token.Pos }
func (a *ArgExpr) Kind() Kind          { return KindArgExpr }
func (a *ArgExpr) String() string {
	var sb strings.Builder
	sb.WriteString(a.Callee.String())
	open, close := "(", ")"
	if a.AKind == ArgIndex {
		open, close = "[", "]"
	}
	sb.WriteString(open)
	for i, arg := range a.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteString(close)
	return sb.String()
}
func (a *ArgExpr) exprNode()      {}
func (a *ArgExpr) GetType() Type  { return a.Type }
func (a *ArgExpr) SetType(t Type) { a.Type = t }

// BinOp enumerates binary operators.
type BinOp int

const (
	OpRange BinOp = iota
	OpEQ
	OpNEQ
	OpLT
	OpLE
	OpGT
	OpGE
	OpIn
	OpIs
	OpAdd
	OpSub
	OpOr
	OpMul
	OpDiv
	OpMod
	OpFDiv
	OpAnd
)

var binOpNames = map[BinOp]string{
	OpRange: "..", OpEQ: "=", OpNEQ: "#", OpLT: "<", OpLE: "<=",
	OpGT: ">", OpGE: ">=", OpIn: "IN", OpIs: "IS", OpAdd: "+", OpSub: "-",
	OpOr: "OR", OpMul: "*", OpDiv: "DIV", OpMod: "MOD", OpFDiv: "/", OpAnd: "AND",
}

func (op BinOp) String() string { return binOpNames[op] }

// BinExpr is a binary operation.
type BinExpr struct {
	Type     Type
	Left     Expression
	Right    Expression
	Token    lexer.Token
	Operator BinOp
}

func (b *BinExpr) Pos() lexer.Position { return b.Token.Pos }
func (b *BinExpr) Kind() Kind          { return KindBinExpr }
func (b *BinExpr) String() string {
	return "(" + b.Left.String() + " " + b.Operator.String() + " " + b.Right.String() + ")"
}
func (b *BinExpr) exprNode()      {}
func (b *BinExpr) GetType() Type  { return b.Type }
func (b *BinExpr) SetType(t Type) { b.Type = t }

// quoteString renders s as a double-quoted Go string literal. Literal.String
// does not call it; it returns the token's source text.
func quoteString(s string) string {
	return strconv.Quote(s)
}
