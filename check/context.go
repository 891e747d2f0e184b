// Package check implements the declaration pass, type resolver wiring,
// expression/statement checker, and validator: the passes that turn a
// parsed-but-unresolved module into one where every expression has a type,
// every identifier use has a resolved target, and every statement is
// well-formed.
package check

import (
	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/scope"
	"github.com/obc-lang/obc/typesys"
)

// Context carries the state shared across one module's passes: the scope
// tree DeclarationPass builds, the resolver TypeResolutionPass constructs
// and CheckerPass reuses for inline type references (guard types, case
// labels, WITH narrowing), and the diagnostic sink every pass reports into.
type Context struct {
	Sink       *diag.Sink
	Universe   *scope.Scope
	Module     *scope.Scope
	ModuleEnt  *ast.Module
	ProcScopes map[*ast.Procedure]*scope.Scope
	Resolver   *typesys.Resolver

	loopDepth int
	proc      *ast.Procedure // the procedure CheckerPass is currently walking, nil at module level
}

// NewContext creates a Context for checking mod against universe.
func NewContext(mod *ast.Module, universe *scope.Scope, sink *diag.Sink) *Context {
	return &Context{
		Sink:       sink,
		Universe:   universe,
		ModuleEnt:  mod,
		ProcScopes: make(map[*ast.Procedure]*scope.Scope),
	}
}

// scopeFor returns the scope CheckerPass should resolve identifiers
// against at the current point of the walk: a procedure's scope while
// inside its body, the module scope otherwise.
func (ctx *Context) scopeFor() *scope.Scope {
	if ctx.proc != nil {
		return ctx.ProcScopes[ctx.proc]
	}
	return ctx.Module
}
