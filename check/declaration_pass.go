package check

import (
	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/scope"
)

// DeclarationPass introduces mod's named entities into a fresh lexical
// scope tree rooted at ctx.Universe: imports, constants, type names,
// variables, and procedures go into the module scope; each procedure gets
// its own nested scope for its receiver, formals, and locals. A name
// declared twice at the same level is reported as diag.DuplicateName and
// keeps its first binding, per scope.Scope.Define.
func DeclarationPass(ctx *Context, mod *ast.Module) {
	ctx.Module = scope.NewEnclosedScope(ctx.Universe, "module")

	for _, imp := range mod.Imports {
		imp.Scope = mod
		name := imp.Alias
		if name == "" {
			name = imp.TargetPath
		}
		defineEnt(ctx.Sink, ctx.Module, name, imp)
	}
	for _, c := range mod.Consts {
		c.Scope = mod
		defineEnt(ctx.Sink, ctx.Module, c.Name, c)
	}
	for _, t := range mod.Types {
		t.Scope = mod
		defineEnt(ctx.Sink, ctx.Module, t.Name, t)
	}
	for _, v := range mod.Vars {
		v.Scope = mod
		defineEnt(ctx.Sink, ctx.Module, v.Name, v)
	}
	for _, p := range mod.Procedures {
		p.Scope = mod
		defineEnt(ctx.Sink, ctx.Module, p.Name, p)
		declareProcScope(ctx, p)
	}
}

// declareProcScope builds p's own nested scope (receiver, formals, locals)
// and records it in ctx.ProcScopes so TypeResolutionPass and CheckerPass
// resolve identifiers in p's body against it.
func declareProcScope(ctx *Context, p *ast.Procedure) {
	ps := scope.NewEnclosedScope(ctx.Module, "procedure")
	ctx.ProcScopes[p] = ps

	if p.Receiver != nil {
		p.Receiver.Scope = p
		defineEnt(ctx.Sink, ps, p.Receiver.Name, p.Receiver)
	}
	if p.Sig != nil {
		for _, f := range p.Sig.Formals {
			f.Scope = p
			defineEnt(ctx.Sink, ps, f.Name, f)
		}
	}
	for _, loc := range p.Locals {
		defineEnt(ctx.Sink, ps, loc.EntityName(), loc)
	}
}

func defineEnt(sink *diag.Sink, s *scope.Scope, name string, ent ast.Entity) {
	if err := s.Define(name, ent); err != nil {
		sink.Report(&diag.Diagnostic{
			Kind: diag.DuplicateName, Pos: ent.Pos(), Name: name,
			Message: err.Error(),
		})
	}
}
