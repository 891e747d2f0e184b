package typesys

import (
	"fmt"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/scope"
)

// MaxExtensionDepth bounds a record's base chain length. The language
// design recommends at least 15; exceeding it is reported as
// diag.ExtensionTooDeep rather than followed indefinitely.
const MaxExtensionDepth = 32

// Resolver turns QualiType references into concrete types and memoizes
// generic instantiations so that two uses of the same template with the
// same actual arguments share one *ast.Record.
type Resolver struct {
	sink      *diag.Sink
	instances map[string]*ast.Record
	inflight  map[*ast.NamedType]bool // cycle guard for self-referential NamedTypes
}

// NewResolver creates a Resolver reporting into sink.
func NewResolver(sink *diag.Sink) *Resolver {
	return &Resolver{
		sink:      sink,
		instances: make(map[string]*ast.Record),
		inflight:  make(map[*ast.NamedType]bool),
	}
}

// Resolve walks t, resolving every QualiType it reaches (directly or
// nested inside a Pointer/Array/ProcType/Record field) against sc, and
// returns the type to use in t's place. Already-resolved types are
// returned unchanged.
//
// A direct embedding (a record field declared with the very type being
// resolved, an array of itself) is not an indirection, so a self-ref
// encountered there is illegal; a reference reached through a Pointer or
// a procedure-type formal/return is indirect and therefore legal.
func (r *Resolver) Resolve(t ast.Type, sc *scope.Scope) ast.Type {
	return r.resolve(t, sc, false)
}

func (r *Resolver) resolve(t ast.Type, sc *scope.Scope, indirect bool) ast.Type {
	if t == nil {
		return nil
	}
	switch n := t.(type) {
	case *ast.QualiType:
		return r.resolveQuali(n, sc, indirect)
	case *ast.Pointer:
		n.To = r.resolve(n.To, sc, true)
		if n.To != nil {
			switch n.To.(type) {
			case *ast.Record, *ast.Array:
			default:
				r.sink.Report(&diag.Diagnostic{
					Kind: diag.PointerBaseIllegal, Pos: n.Pos(), Severity: diag.SeverityStructural,
					Message: fmt.Sprintf("pointer target must be a record or array, got %s", n.To.String()),
				})
			}
		}
		return n
	case *ast.Array:
		n.Elem = r.resolve(n.Elem, sc, indirect)
		if !n.Open && n.Length < 1 {
			r.sink.Report(&diag.Diagnostic{
				Kind: diag.ArrayLengthError, Pos: n.Pos(),
				Message: fmt.Sprintf("array length must be a compile-time constant >= 1, got %d", n.Length),
			})
		}
		return n
	case *ast.ProcType:
		for _, f := range n.Formals {
			f.Type = r.resolve(f.Type, sc, true)
		}
		if n.Return != nil {
			n.Return = r.resolve(n.Return, sc, true)
		}
		return n
	case *ast.Record:
		r.resolveRecordBase(n, sc)
		for _, f := range n.Fields {
			f.Type = r.resolve(f.Type, sc, false)
		}
		return n
	default:
		return t
	}
}

// resolveRecordBase resolves rec's syntactic BaseRef (if any) to a
// concrete *ast.Record, dereferencing a pointer-to-record base, links rec
// onto the base's SubRecs, and flags an overlong extension chain.
func (r *Resolver) resolveRecordBase(rec *ast.Record, sc *scope.Scope) {
	if rec.BaseRef == nil || rec.Base != nil {
		return
	}

	resolved := r.resolve(rec.BaseRef, sc, true)
	if ptr, ok := resolved.(*ast.Pointer); ok {
		resolved = ptr.To
	}
	base, ok := resolved.(*ast.Record)
	if !ok {
		r.sink.Report(&diag.Diagnostic{
			Kind: diag.PointerBaseIllegal, Pos: rec.Pos(), Severity: diag.SeverityStructural,
			Message: fmt.Sprintf("record base must resolve to a record, got %s", describeType(resolved)),
		})
		return
	}

	depth := 1
	for cur := base; cur != nil; cur = cur.Base {
		depth++
		if depth > MaxExtensionDepth {
			r.sink.Report(&diag.Diagnostic{
				Kind: diag.ExtensionTooDeep, Pos: rec.Pos(), Severity: diag.SeverityStructural,
				Message: fmt.Sprintf("extension chain exceeds %d levels", MaxExtensionDepth),
			})
			return
		}
	}

	rec.Base = base
	base.SubRecs = append(base.SubRecs, rec)
}

func describeType(t ast.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}

func (r *Resolver) resolveQuali(q *ast.QualiType, sc *scope.Scope, indirect bool) ast.Type {
	if q.Resolved != nil {
		return q.Resolved
	}

	var named scope.Named
	var ok bool
	if q.Import != "" {
		imp, found := sc.Resolve(q.Import)
		if !found {
			r.sink.Report(&diag.Diagnostic{
				Kind: diag.UnresolvedIdent, Pos: q.Pos(), Name: q.Import,
				Message: fmt.Sprintf("unresolved import alias %q", q.Import),
			})
			return q
		}
		impEnt, isImport := imp.(*ast.Import)
		if !isImport || impEnt.Target == nil {
			r.sink.Report(&diag.Diagnostic{
				Kind: diag.UnresolvedIdent, Pos: q.Pos(), Name: q.Import,
				Message: fmt.Sprintf("%q does not name an imported module", q.Import),
			})
			return q
		}
		named, ok = lookupExported(impEnt.Target, q.Name)
	} else {
		named, ok = sc.Resolve(q.Name)
	}

	if !ok {
		r.sink.Report(&diag.Diagnostic{
			Kind: diag.UnresolvedIdent, Pos: q.Pos(), Name: q.Name,
			Message: fmt.Sprintf("unresolved type %q", q.Name),
		})
		return q
	}

	switch ent := named.(type) {
	case *ast.NamedType:
		if r.inflight[ent] {
			q.SelfRef = true
			if !indirect {
				r.sink.Report(&diag.Diagnostic{
					Kind: diag.IllegalSelfRef, Pos: q.Pos(), Name: q.Name, Severity: diag.SeverityStructural,
					Message: fmt.Sprintf("%q directly references itself; self-reference is only legal through a pointer or procedure type", q.Name),
				})
			}
			return ent.Declared
		}
		resolved := r.resolveNamedType(ent, sc)
		if len(q.Actuals) > 0 {
			resolved = r.instantiate(ent, resolved, q.Actuals, sc)
		}
		q.Resolved = resolved
		return resolved
	case *ast.GenericName:
		q.Resolved = ent.Constraint
		return ent
	default:
		r.sink.Report(&diag.Diagnostic{
			Kind: diag.UnresolvedIdent, Pos: q.Pos(), Name: q.Name,
			Message: fmt.Sprintf("%q does not name a type", q.Name),
		})
		return q
	}
}

// resolveNamedType forces a NamedType's Declared type through resolve,
// marking it in-flight for the duration so a nested self-reference is
// detected by resolveQuali rather than recursing forever.
func (r *Resolver) resolveNamedType(nt *ast.NamedType, sc *scope.Scope) ast.Type {
	r.inflight[nt] = true
	defer delete(r.inflight, nt)
	nt.Declared = r.resolve(nt.Declared, sc, false)
	return nt.Declared
}

// LookupExported looks up name among m's exported (non-private) top-level
// declarations. Exported so package check can resolve a qualified access
// m.x the same way the resolver resolves an imported type reference.
func LookupExported(m *ast.Module, name string) (scope.Named, bool) {
	return lookupExported(m, name)
}

func lookupExported(m *ast.Module, name string) (scope.Named, bool) {
	for _, t := range m.Types {
		if t.Name == name && t.Visibility != ast.VisPrivate {
			return t, true
		}
	}
	for _, c := range m.Consts {
		if c.Name == name && c.Visibility != ast.VisPrivate {
			return c, true
		}
	}
	for _, v := range m.Vars {
		if v.Name == name && v.Visibility != ast.VisPrivate {
			return v, true
		}
	}
	for _, p := range m.Procedures {
		if p.Name == name && p.Visibility != ast.VisPrivate {
			return p, true
		}
	}
	return nil, false
}

// instantiateKey identifies one generic instantiation: the template's
// declaring position plus the string rendering of its actual arguments.
// Position disambiguates two distinct generic records that happen to
// share a name in different modules.
func instantiateKey(nt *ast.NamedType, actuals []ast.Type) string {
	key := fmt.Sprintf("%s@%s", nt.Name, nt.Pos().String())
	for _, a := range actuals {
		key += "," + a.String()
	}
	return key
}

// instantiate substitutes actuals for template's type parameters,
// returning a memoized copy so repeated uses of List(INTEGER) share one
// *ast.Record rather than allocating a fresh one per reference.
func (r *Resolver) instantiate(nt *ast.NamedType, declared ast.Type, actuals []ast.Type, sc *scope.Scope) ast.Type {
	rec, ok := declared.(*ast.Record)
	if !ok {
		// Only record templates are instantiated; anything else (a generic
		// alias to an array, say) is used as declared.
		return declared
	}
	if len(nt.TypeParams) != len(actuals) {
		r.sink.Report(&diag.Diagnostic{
			Kind: diag.UnresolvedIdent, Pos: nt.Pos(), Name: nt.Name,
			Message: fmt.Sprintf("%s expects %d type argument(s), got %d",
				nt.Name, len(nt.TypeParams), len(actuals)),
		})
		return rec
	}

	key := instantiateKey(nt, actuals)
	if cached, found := r.instances[key]; found {
		return cached
	}

	sub := make(map[string]ast.Type, len(actuals))
	for i, p := range nt.TypeParams {
		sub[p.Name] = actuals[i]
	}

	instance := &ast.Record{
		Name:      rec.Name,
		Base:      rec.Base,
		GenericOf: rec,
		TypeArgs:  actuals,
		Token:     rec.Token,
	}
	// Registered before fields are substituted. substitute does not resolve
	// nested type references, so a field naming List(T) itself is copied as
	// written rather than bound to this instance.
	r.instances[key] = instance

	instance.Fields = make([]*ast.Field, len(rec.Fields))
	for i, f := range rec.Fields {
		instance.Fields[i] = &ast.Field{
			Name: f.Name, Visibility: f.Visibility, Owner: instance,
			Type: substitute(f.Type, sub), Token: f.Token,
		}
	}
	instance.Methods = rec.Methods

	return instance
}

// substitute replaces every GenericName-backed QualiType in t that names
// one of sub's keys with its actual type, leaving everything else as is.
func substitute(t ast.Type, sub map[string]ast.Type) ast.Type {
	switch n := t.(type) {
	case *ast.QualiType:
		if n.Import == "" {
			if actual, ok := sub[n.Name]; ok {
				return actual
			}
		}
		return n
	case *ast.Pointer:
		return &ast.Pointer{To: substitute(n.To, sub), Token: n.Token}
	case *ast.Array:
		return &ast.Array{Elem: substitute(n.Elem, sub), Length: n.Length, Open: n.Open, Token: n.Token}
	default:
		return t
	}
}
