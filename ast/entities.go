package ast

import "github.com/obc-lang/obc/lexer"

// Variable is a module-level variable declaration.
type Variable struct {
	Type       Type
	Scope      Entity // owning Module
	Name       string
	Visibility Visibility
	Token      lexer.Token
}

func (v *Variable) Pos() lexer.Position { return v.Token.Pos }
func (v *Variable) Kind() Kind          { return KindVariable }
func (v *Variable) String() string      { return v.Name }
func (v *Variable) entityNode()         {}
func (v *Variable) EntityName() string  { return v.Name }

// LocalVar is a procedure-local variable.
type LocalVar struct {
	Type  Type
	Scope Entity // owning Procedure
	Name  string
	Token lexer.Token
}

func (l *LocalVar) Pos() lexer.Position { return l.Token.Pos }
func (l *LocalVar) Kind() Kind          { return KindLocalVar }
func (l *LocalVar) String() string      { return l.Name }
func (l *LocalVar) entityNode()         {}
func (l *LocalVar) EntityName() string  { return l.Name }

// Parameter is a formal parameter of a procedure.
type Parameter struct {
	Type       Type
	Scope      Entity
	Name       string
	Token      lexer.Token
	ByRef      bool // VAR parameter
	ByConstRef bool // VAR with no writes allowed inside the callee
	IsReceiver bool // the implicit self/receiver parameter of a method
	Open       bool // open-array formal
}

func (p *Parameter) Pos() lexer.Position { return p.Token.Pos }
func (p *Parameter) Kind() Kind          { return KindParameter }
func (p *Parameter) String() string      { return p.Name }
func (p *Parameter) entityNode()         {}
func (p *Parameter) EntityName() string  { return p.Name }

// Field is a record member.
type Field struct {
	Type       Type
	Owner      *Record
	Name       string
	Visibility Visibility
	Token      lexer.Token
}

func (f *Field) Pos() lexer.Position { return f.Token.Pos }
func (f *Field) Kind() Kind          { return KindField }
func (f *Field) String() string      { return f.Name }
func (f *Field) entityNode()         {}
func (f *Field) EntityName() string  { return f.Name }

// Const is a compile-time constant.
type Const struct {
	Type       Type
	Scope      Entity
	Value      interface{} // int64, float64, bool, string, rune — folded by the producing parser
	Name       string
	Visibility Visibility
	Token      lexer.Token
}

func (c *Const) Pos() lexer.Position { return c.Token.Pos }
func (c *Const) Kind() Kind          { return KindConst }
func (c *Const) String() string      { return c.Name }
func (c *Const) entityNode()         {}
func (c *Const) EntityName() string  { return c.Name }

// NamedType is a type declaration. It is itself a scope so it may carry
// generic type parameters.
type NamedType struct {
	Declared   Type
	Scope      Entity
	Name       string
	Visibility Visibility
	TypeParams []*GenericName
	Token      lexer.Token
}

func (n *NamedType) Pos() lexer.Position { return n.Token.Pos }
func (n *NamedType) Kind() Kind          { return KindNamedType }
func (n *NamedType) String() string      { return n.Name }
func (n *NamedType) entityNode()         {}
func (n *NamedType) EntityName() string  { return n.Name }
func (n *NamedType) IsGeneric() bool     { return len(n.TypeParams) > 0 }

// Procedure is a scope with a body; it may be bound as a method to a
// Record via Receiver.
type Procedure struct {
	Sig        *ProcType
	Scope      Entity // enclosing scope (Module or outer Procedure)
	Receiver   *Parameter
	Body       []Statement
	Locals     []Entity
	Name       string
	Visibility Visibility
	Token      lexer.Token

	// Override bookkeeping, populated by the validator.
	Overrides *Procedure
}

func (p *Procedure) Pos() lexer.Position { return p.Token.Pos }
func (p *Procedure) Kind() Kind          { return KindProcedure }
func (p *Procedure) String() string      { return p.Name }
func (p *Procedure) entityNode()         {}
func (p *Procedure) EntityName() string  { return p.Name }
func (p *Procedure) IsMethod() bool      { return p.Receiver != nil }

// Import is a resolved IMPORT clause: an optional alias bound to a target
// Module.
type Import struct {
	Target       *Module
	Scope        Entity
	Alias        string
	TargetPath   string
	Actuals      []Type // generic actuals applied to the imported module, if any
	Token        lexer.Token
	UsedFromLive bool // set by the checker when an identifier resolves through this import
}

func (i *Import) Pos() lexer.Position { return i.Token.Pos }
func (i *Import) Kind() Kind          { return KindImport }
func (i *Import) String() string      { return i.Alias }
func (i *Import) entityNode()         {}
func (i *Import) EntityName() string  { return i.Alias }

// BuiltIn is a compiler-intrinsic procedure (LEN, NEW, ORD, CHR, ...).
type BuiltIn struct {
	Sig   *ProcType
	Name  string
	Token lexer.Token
}

func (b *BuiltIn) Pos() lexer.Position { return b.Token.Pos }
func (b *BuiltIn) Kind() Kind          { return KindBuiltIn }
func (b *BuiltIn) String() string      { return b.Name }
func (b *BuiltIn) entityNode()         {}
func (b *BuiltIn) EntityName() string  { return b.Name }

// GenericName is a generic type parameter bound within a NamedType's or
// Record's own scope.
type GenericName struct {
	Constraint Type // optional bound, nil if unconstrained
	Name       string
	Token      lexer.Token
}

func (g *GenericName) Pos() lexer.Position { return g.Token.Pos }
func (g *GenericName) Kind() Kind          { return KindGenericName }
func (g *GenericName) String() string      { return g.Name }
func (g *GenericName) typeNode()           {} // a generic parameter stands for a type inside its scope
func (g *GenericName) entityNode()         {}
func (g *GenericName) EntityName() string  { return g.Name }

// Module is the top-level compilation and visibility unit.
type Module struct {
	Path       string // logical module path the registry keyed this unit under
	Name       string
	Imports    []*Import
	Consts     []*Const
	Types      []*NamedType
	Vars       []*Variable
	Procedures []*Procedure
	Body       []Statement // module initializer statements
	Token      lexer.Token

	HasErrors bool
}

func (m *Module) Pos() lexer.Position { return m.Token.Pos }
func (m *Module) Kind() Kind          { return KindModule }
func (m *Module) String() string      { return "MODULE " + m.Name }
func (m *Module) entityNode()         {}
func (m *Module) EntityName() string  { return m.Name }
