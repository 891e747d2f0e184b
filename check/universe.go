package check

import (
	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/lexer"
	"github.com/obc-lang/obc/scope"
)

// builtinPrimitives lists every BasePrimitive under the identifier the
// universe scope binds it to. They are ordinary identifiers resolved
// through this scope, not lexer keywords — see ast.BasePrimitive.
var builtinPrimitives = []ast.BasePrimitive{
	ast.BOOLEAN, ast.CHAR, ast.WCHAR, ast.BYTE, ast.SHORTINT, ast.INTEGER,
	ast.LONGINT, ast.REAL, ast.LONGREAL, ast.SET, ast.STRING, ast.WSTRING,
	ast.ANY,
}

// builtinProcedureNames lists the compiler-intrinsic procedures every module
// sees without an IMPORT: LEN, NEW, INC, DEC, ORD, CHR, ABS, ODD, ASSERT,
// HALT. Each is bound as an ast.BuiltIn with a nil Sig because BuiltIn is
// not itself generic — CheckerPass special-cases each by name rather than
// type-checking the call against a signature like an ordinary procedure
// call.
var builtinProcedureNames = []string{
	"LEN", "NEW", "INC", "DEC", "ORD", "CHR", "ABS", "ODD", "ASSERT", "HALT",
}

// NewUniverseScope creates the root scope every module scope nests under:
// the primitive type names and the standard intrinsic procedures.
func NewUniverseScope() *scope.Scope {
	u := scope.NewScope("universe")
	for _, kind := range builtinPrimitives {
		nt := &ast.NamedType{Name: kind.String(), Declared: ast.Base(kind), Visibility: ast.VisReadWrite}
		_ = u.Define(kind.String(), nt)
	}
	nilType := &ast.NamedType{Name: "NIL", Declared: ast.Base(ast.NILTYPE), Visibility: ast.VisReadWrite}
	_ = u.Define("NIL", nilType)

	for _, name := range builtinProcedureNames {
		b := &ast.BuiltIn{Name: name, Token: lexer.Token{}}
		_ = u.Define(name, b)
	}
	return u
}
