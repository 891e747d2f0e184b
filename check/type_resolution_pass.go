package check

import (
	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/typesys"
)

// TypeResolutionPass resolves every QualiType reachable from mod's
// declaration lists: type declarations, constant/variable types, and
// procedure signatures (receiver, formals, return, locals). It builds the
// typesys.Resolver that CheckerPass reuses afterward for type references
// embedded inside expressions and statements (type guards, CASE type
// labels, WITH narrowing) so generic instantiation stays memoized across
// both passes.
func TypeResolutionPass(ctx *Context, mod *ast.Module) {
	ctx.Resolver = typesys.NewResolver(ctx.Sink)
	r := ctx.Resolver

	for _, t := range mod.Types {
		t.Declared = r.Resolve(t.Declared, ctx.Module)
	}
	for _, c := range mod.Consts {
		if c.Type != nil {
			c.Type = r.Resolve(c.Type, ctx.Module)
		}
	}
	for _, v := range mod.Vars {
		v.Type = r.Resolve(v.Type, ctx.Module)
	}
	for _, p := range mod.Procedures {
		resolveProcedureTypes(r, ctx, p)
	}
}

func resolveProcedureTypes(r *typesys.Resolver, ctx *Context, p *ast.Procedure) {
	ps := ctx.ProcScopes[p]

	if p.Receiver != nil {
		p.Receiver.Type = r.Resolve(p.Receiver.Type, ps)
	}
	if p.Sig != nil {
		for _, f := range p.Sig.Formals {
			f.Type = r.Resolve(f.Type, ps)
		}
		if p.Sig.Return != nil {
			p.Sig.Return = r.Resolve(p.Sig.Return, ps)
		}
	}
	for _, loc := range p.Locals {
		if lv, ok := loc.(*ast.LocalVar); ok {
			lv.Type = r.Resolve(lv.Type, ps)
		}
	}
}
