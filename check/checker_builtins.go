package check

import (
	"fmt"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/typesys"
)

// checkBuiltinCall type-checks a call to one of the compiler-intrinsic
// procedures bound in the universe scope. Each is special-cased by name
// rather than matched against a ProcType, since their arity or argument
// types aren't uniform enough to express as one ordinary signature (LEN
// accepts any array, INC/DEC take an optional second argument, ...).
func checkBuiltinCall(ctx *Context, a *ast.ArgExpr, b *ast.BuiltIn) ast.Type {
	args := a.Args
	argTypes := make([]ast.Type, len(args))
	for i, arg := range args {
		argTypes[i] = checkExpr(ctx, arg)
	}

	arityErr := func(want string) {
		ctx.Sink.Report(&diag.Diagnostic{
			Kind: diag.AssignIncompatible, Pos: a.Pos(), Name: b.Name,
			Message: fmt.Sprintf("%s expects %s argument(s), got %d", b.Name, want, len(args)),
		})
	}

	switch b.Name {
	case "LEN":
		if len(args) != 1 {
			arityErr("1")
			return ast.ErrorType
		}
		base := typesys.Underlying(argTypes[0])
		if ptr, ok := base.(*ast.Pointer); ok {
			base = typesys.Underlying(ptr.To)
		}
		if _, ok := base.(*ast.Array); !ok {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[0].Pos(), Message: "LEN requires an array argument"})
			return ast.ErrorType
		}
		return ast.Base(ast.INTEGER)

	case "NEW":
		if len(args) != 1 {
			arityErr("1")
			return ast.VoidType
		}
		if !isLvalue(args[0]) {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[0].Pos(), Message: "NEW requires an addressable pointer variable"})
			return ast.VoidType
		}
		if _, ok := typesys.Underlying(argTypes[0]).(*ast.Pointer); !ok {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[0].Pos(), Message: "NEW requires a pointer-typed argument"})
		}
		return ast.VoidType

	case "INC", "DEC":
		if len(args) < 1 || len(args) > 2 {
			arityErr("1 or 2")
			return ast.VoidType
		}
		if !isLvalue(args[0]) || !isIntegerType(argTypes[0]) {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[0].Pos(), Message: fmt.Sprintf("%s requires an integer variable", b.Name)})
		}
		if len(args) == 2 && !isIntegerType(argTypes[1]) {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[1].Pos(), Message: fmt.Sprintf("%s step must be integer-compatible", b.Name)})
		}
		return ast.VoidType

	case "ORD":
		if len(args) != 1 {
			arityErr("1")
			return ast.ErrorType
		}
		if !isCharType(argTypes[0]) && !isBooleanType(argTypes[0]) && !isIntegerType(argTypes[0]) {
			if _, ok := typesys.Underlying(argTypes[0]).(*ast.Enumeration); !ok {
				ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[0].Pos(), Message: "ORD requires an ordinal argument"})
			}
		}
		return ast.Base(ast.INTEGER)

	case "CHR":
		if len(args) != 1 {
			arityErr("1")
			return ast.ErrorType
		}
		if !isIntegerType(argTypes[0]) {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[0].Pos(), Message: "CHR requires an integer argument"})
		}
		return ast.Base(ast.CHAR)

	case "ABS":
		if len(args) != 1 {
			arityErr("1")
			return ast.ErrorType
		}
		if !isNumericType(argTypes[0]) {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[0].Pos(), Message: "ABS requires a numeric argument"})
			return ast.ErrorType
		}
		return argTypes[0]

	case "ODD":
		if len(args) != 1 {
			arityErr("1")
			return ast.ErrorType
		}
		if !isIntegerType(argTypes[0]) {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[0].Pos(), Message: "ODD requires an integer argument"})
		}
		return ast.Base(ast.BOOLEAN)

	case "ASSERT":
		if len(args) < 1 || len(args) > 2 {
			arityErr("1 or 2")
			return ast.VoidType
		}
		if !isBooleanType(argTypes[0]) {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[0].Pos(), Message: "ASSERT requires a boolean condition"})
		}
		return ast.VoidType

	case "HALT":
		if len(args) > 1 {
			arityErr("0 or 1")
			return ast.VoidType
		}
		if len(args) == 1 && !isIntegerType(argTypes[0]) {
			ctx.Sink.Report(&diag.Diagnostic{Kind: diag.AssignIncompatible, Pos: args[0].Pos(), Message: "HALT requires an integer exit code"})
		}
		return ast.VoidType

	default:
		return ast.ErrorType
	}
}
