package ast

import (
	"strconv"
	"strings"

	"github.com/obc-lang/obc/lexer"
)

// BasePrimitive enumerates the predeclared primitive type kinds. They are
// not lexer keywords: they are ordinary identifiers
// resolved through the universe scope, and singleton BaseType values are
// interned (one *BaseType per kind, process-wide) so type-identity
// comparisons are pointer comparisons.
type BasePrimitive int

const (
	BOOLEAN BasePrimitive = iota
	CHAR
	WCHAR
	BYTE
	SHORTINT
	INTEGER
	LONGINT
	REAL
	LONGREAL
	SET
	STRING
	WSTRING
	NILTYPE
	ANY
)

var basePrimitiveNames = [...]string{
	"BOOLEAN", "CHAR", "WCHAR", "BYTE", "SHORTINT", "INTEGER", "LONGINT",
	"REAL", "LONGREAL", "SET", "STRING", "WSTRING", "NIL", "ANY",
}

func (b BasePrimitive) String() string {
	if int(b) < len(basePrimitiveNames) {
		return basePrimitiveNames[b]
	}
	return "?"
}

// BaseType is a primitive type. Instances are interned: use the package
// level Base(kind) accessor rather than constructing one directly, so that
// BaseType equality can be tested with ==.
type BaseType struct {
	Kind BasePrimitive
}

func (b *BaseType) Pos() lexer.Position { return lexer.Position{} }
func (b *BaseType) Kind_() Kind         { return KindBaseType }
func (b *BaseType) Kind() Kind          { return KindBaseType }
func (b *BaseType) String() string      { return b.Kind.String() }
func (b *BaseType) typeNode()           {}

var baseSingletons = func() [int(ANY) + 1]*BaseType {
	var arr [int(ANY) + 1]*BaseType
	for k := BOOLEAN; k <= ANY; k++ {
		arr[k] = &BaseType{Kind: k}
	}
	return arr
}()

// Base returns the process-wide singleton BaseType for kind.
func Base(kind BasePrimitive) *BaseType { return baseSingletons[kind] }

// Pointer is an indirection to a Record or Array, never to a primitive.
// The back-link from an anonymous target record to its pointer is the
// record's own Binding field.
type Pointer struct {
	To    Type
	Token lexer.Token
}

func (p *Pointer) Pos() lexer.Position { return p.Token.Pos }
func (p *Pointer) Kind() Kind          { return KindPointer }
func (p *Pointer) String() string {
	if p.To == nil {
		return "POINTER TO ?"
	}
	return "POINTER TO " + p.To.String()
}
func (p *Pointer) typeNode() {}

// Array is a fixed-length (Length >= 1) or open (Length == 0, Open true)
// array of Elem.
type Array struct {
	Elem   Type
	Token  lexer.Token
	Length int
	Open   bool
}

func (a *Array) Pos() lexer.Position { return a.Token.Pos }
func (a *Array) Kind() Kind          { return KindArray }
func (a *Array) String() string {
	if a.Open {
		return "ARRAY OF " + a.Elem.String()
	}
	return "ARRAY " + strconv.Itoa(a.Length) + " OF " + a.Elem.String()
}
func (a *Array) typeNode() {}

// Record is a product type of named Fields, optionally extending Base.
// BaseRef is the syntactic base reference as parsed — a QualiType, or a
// Pointer to one, since the source syntax allows "RECORD (T) ... END"
// where T may itself be a pointer-to-record; the type resolver consumes
// BaseRef and fills in Base. SubRecs is a weak (non-owning) back-reference
// list populated by the same pass as each descendant resolves its base.
type Record struct {
	Name       string // empty for an anonymous record
	BaseRef    Type   // unresolved syntactic base, nil if this record has none
	Base       *Record
	SubRecs    []*Record
	Binding    *Pointer // back-link to the unique pointer bound to this record; no pass in this repository sets it
	Fields     []*Field
	Methods    []*Procedure
	GenericOf  *Record // non-nil if this record is an instantiation of a generic template
	TypeParams []*GenericName
	TypeArgs   []Type // actuals, set on instantiated records
	Token      lexer.Token
}

func (r *Record) Pos() lexer.Position { return r.Token.Pos }
func (r *Record) Kind() Kind          { return KindRecord }
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString("RECORD")
	if r.Base != nil {
		sb.WriteString(" (")
		sb.WriteString(r.Base.Name)
		sb.WriteString(")")
	}
	sb.WriteString(" ")
	for i, f := range r.Fields {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		if f.Type != nil {
			sb.WriteString(f.Type.String())
		}
	}
	sb.WriteString(" END")
	return sb.String()
}
func (r *Record) typeNode() {}

// Extends reports whether r's base chain transitively contains other.
// A record extends itself.
func (r *Record) Extends(other *Record) bool {
	for cur := r; cur != nil; cur = cur.Base {
		if cur == other {
			return true
		}
	}
	return false
}

// FindMethod looks up a method by name along the base chain, returning the
// most-derived declaration and the record that declares it.
func (r *Record) FindMethod(name string) (*Procedure, *Record) {
	for cur := r; cur != nil; cur = cur.Base {
		for _, m := range cur.Methods {
			if m.Name == name {
				return m, cur
			}
		}
	}
	return nil, nil
}

// FindField looks up a field by name along the base chain.
func (r *Record) FindField(name string) (*Field, *Record) {
	for cur := r; cur != nil; cur = cur.Base {
		for _, f := range cur.Fields {
			if f.Name == name {
				return f, cur
			}
		}
	}
	return nil, nil
}

// ProcType is the signature of a procedure: ordered formals plus an
// optional return type (nil means a proper procedure, not a function).
type ProcType struct {
	Return  Type
	Formals []*Parameter
	Token   lexer.Token
}

func (pt *ProcType) Pos() lexer.Position { return pt.Token.Pos }
func (pt *ProcType) Kind() Kind          { return KindProcType }
func (pt *ProcType) String() string {
	var sb strings.Builder
	sb.WriteString("PROCEDURE (")
	for i, f := range pt.Formals {
		if i > 0 {
			sb.WriteString("; ")
		}
		if f.ByRef {
			sb.WriteString("VAR ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		if f.Type != nil {
			sb.WriteString(f.Type.String())
		}
	}
	sb.WriteString(")")
	if pt.Return != nil {
		sb.WriteString(": ")
		sb.WriteString(pt.Return.String())
	}
	return sb.String()
}
func (pt *ProcType) typeNode() {}

// QualiType is a named-type reference. Before resolution Resolved is nil;
// after resolution it points at the concrete target, or SelfRef is true
// when the reference names the very NamedType currently being resolved
// (legal only inside a Pointer or as part of a record/procedure
// composition).
type QualiType struct {
	Import   string // alias, empty for an unqualified reference
	Name     string
	Actuals  []Type // generic actual type arguments, if any
	Resolved Type
	SelfRef  bool
	Token    lexer.Token
}

func (q *QualiType) Pos() lexer.Position { return q.Token.Pos }
func (q *QualiType) Kind() Kind          { return KindQualiType }
func (q *QualiType) String() string {
	var sb strings.Builder
	if q.Import != "" {
		sb.WriteString(q.Import)
		sb.WriteString(".")
	}
	sb.WriteString(q.Name)
	if len(q.Actuals) > 0 {
		sb.WriteString("(")
		for i, a := range q.Actuals {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteString(")")
	}
	return sb.String()
}
func (q *QualiType) typeNode() {}

// Enumeration is an ordered set of named constants.
type Enumeration struct {
	Name         string
	OrderedNames []string
	Token        lexer.Token
}

func (e *Enumeration) Pos() lexer.Position { return e.Token.Pos }
func (e *Enumeration) Kind() Kind          { return KindEnumeration }
func (e *Enumeration) String() string {
	return "(" + strings.Join(e.OrderedNames, ", ") + ")"
}
func (e *Enumeration) typeNode() {}

// IndexOf returns the ordinal value of name, or -1 if name is not a member.
func (e *Enumeration) IndexOf(name string) int {
	for i, n := range e.OrderedNames {
		if n == name {
			return i
		}
	}
	return -1
}
