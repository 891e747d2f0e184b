// Package frontend is the host-facing entry point: it buffers source
// files and preload libraries, drives the registry's module graph
// resolution, and runs the four check package passes over every module in
// reverse topological import order.
package frontend

import (
	"fmt"
	"sort"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/check"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/scope"
	"github.com/obc-lang/obc/units"
)

// Frontend is one compilation session: a unit registry, the shared
// universe scope every module's DeclarationPass nests under, and the
// modules resolved by the most recent ParseFiles call.
type Frontend struct {
	registry *units.Registry
	universe *scope.Scope
	sink     *diag.Sink

	pending map[string]string // path -> source, added but not yet parsed
	modules map[string]*ast.Module
}

// New creates a Frontend that parses source with parse and searches
// searchPaths, in order, to locate a bare IMPORT name's source file.
func New(parse units.ParseFunc, searchPaths []string) *Frontend {
	r := units.NewUnitRegistry(searchPaths)
	r.SetParser(parse)
	return &Frontend{
		registry: r,
		universe: check.NewUniverseScope(),
		sink:     diag.NewSink(),
		pending:  make(map[string]string),
		modules:  make(map[string]*ast.Module),
	}
}

// AddFile buffers source under path for a later ParseFiles call. It does
// not parse: the only error it can produce is a duplicate path.
func (f *Frontend) AddFile(path, source string) error {
	if _, exists := f.pending[path]; exists {
		return fmt.Errorf("frontend: %q was already added", path)
	}
	f.pending[path] = source
	return nil
}

// AddPreload parses and registers a preload library module immediately
// (bypassing the filesystem search AddFile's buffered files go through
// later), since a library bundled with the front-end should fail fast on
// a parse error rather than waiting for ParseFiles.
func (f *Frontend) AddPreload(name, source string) error {
	_, err := f.registry.RegisterPreload(name, source)
	return err
}

// ParseFiles registers every buffered path named in paths (each must have
// been added via AddFile first), resolves their transitive IMPORT closure
// through the registry, wires each Import.Target, and runs
// DeclarationPass, TypeResolutionPass, CheckerPass, and ValidationPass
// over every module reached, in reverse topological order. It returns the
// resolved modules in that same order; a non-nil error means the module
// graph itself could not be built (a missing file, a parse error, or an
// import cycle) — individual checker/validator findings are reported to
// Sink and reflected in each ast.Module's HasErrors flag instead of
// aborting the call.
func (f *Frontend) ParseFiles(paths []string) ([]*ast.Module, error) {
	for _, p := range paths {
		src, ok := f.pending[p]
		if !ok {
			return nil, fmt.Errorf("frontend: %q was not added via AddFile", p)
		}
		if _, err := f.registry.RegisterSource(p, p, src, nil); err != nil {
			return nil, err
		}
		delete(f.pending, p)
	}

	order, err := f.registry.ComputeInitializationOrder()
	if err != nil {
		return nil, err
	}

	for _, name := range order {
		u, _ := f.registry.GetUnit(name)
		wireImports(f, u.Module)
	}

	resolved := make([]*ast.Module, 0, len(order))
	for _, name := range order {
		u, _ := f.registry.GetUnit(name)
		mod := u.Module

		modSink := diag.NewSink()
		ctx := check.NewContext(mod, f.universe, modSink)
		check.DeclarationPass(ctx, mod)
		check.TypeResolutionPass(ctx, mod)
		check.CheckerPass(ctx, mod)
		check.ValidationPass(ctx, mod)

		mod.HasErrors = mod.HasErrors || modSink.HasErrors()
		f.sink.Merge(modSink)
		f.modules[mod.Name] = mod
		resolved = append(resolved, mod)
	}
	return resolved, nil
}

// wireImports resolves mod's Import entries against the registry, now
// that every unit in the compilation's closure is registered. A name that
// doesn't resolve to a registered unit is import-broken: the module's own
// passes still run, but any reference through that import types as error.
func wireImports(f *Frontend, mod *ast.Module) {
	for _, imp := range mod.Imports {
		name := imp.TargetPath
		if name == "" {
			name = imp.Alias
		}
		dep, ok := f.registry.GetUnit(name)
		if !ok {
			f.sink.Report(&diag.Diagnostic{
				Kind: diag.ImportBroken, Pos: imp.Pos(), Name: name, Severity: diag.SeverityStructural,
				Message: fmt.Sprintf("import %q could not be resolved", name),
			})
			mod.HasErrors = true
			continue
		}
		imp.Target = dep.Module
	}
}

// GetModules returns every module resolved by the most recent ParseFiles
// call, in reverse topological import order.
func (f *Frontend) GetModules() []*ast.Module {
	names := make([]string, 0, len(f.modules))
	for name := range f.modules {
		names = append(names, name)
	}
	order, err := f.registry.ComputeInitializationOrder()
	if err != nil {
		sort.Strings(names)
		mods := make([]*ast.Module, len(names))
		for i, n := range names {
			mods[i] = f.modules[n]
		}
		return mods
	}
	mods := make([]*ast.Module, 0, len(order))
	for _, name := range order {
		if m, ok := f.modules[name]; ok {
			mods = append(mods, m)
		}
	}
	return mods
}

// Sink returns the aggregate diagnostic sink accumulated across every
// ParseFiles call since the last Clear.
func (f *Frontend) Sink() *diag.Sink { return f.sink }

// Clear discards every registered unit, buffered file, resolved module,
// and diagnostic, returning the Frontend to its initial state. The
// universe scope is immutable and is not recreated.
func (f *Frontend) Clear() {
	f.registry.Clear()
	f.pending = make(map[string]string)
	f.modules = make(map[string]*ast.Module)
	f.sink = diag.NewSink()
}
