package units

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/obc-lang/obc/ast"
)

// ParseFunc parses module source text into an *ast.Module. The registry
// never parses source itself — the host injects this function, so package
// units depends on no parser package.
type ParseFunc func(file, source string) (*ast.Module, []error)

// Registry is the module graph: every unit reachable from a compilation's
// entry points, keyed case-insensitively by name, plus the search paths
// used to locate a unit's source file from a bare IMPORT name.
type Registry struct {
	units       map[string]*Unit
	loading     map[string]bool
	searchPaths []string
	parse       ParseFunc
	cache       *Cache
}

// NewUnitRegistry creates a registry that searches searchPaths, in order,
// for a unit's source file. A nil slice defaults to the current directory;
// an empty non-nil slice is kept as is, so no directory is searched.
func NewUnitRegistry(searchPaths []string) *Registry {
	paths := searchPaths
	if paths == nil {
		paths = []string{"."}
	}
	return &Registry{
		units:       make(map[string]*Unit),
		loading:     make(map[string]bool),
		searchPaths: paths,
		cache:       NewUnitCache(),
	}
}

// GetCache returns the registry's unit cache.
func (r *Registry) GetCache() *Cache { return r.cache }

// InvalidateCache drops name's cached entry, forcing the next LoadUnit to
// reparse it from disk.
func (r *Registry) InvalidateCache(name string) { r.cache.Invalidate(key(name)) }

// ClearCache empties the unit cache without touching the live registry.
func (r *Registry) ClearCache() { r.cache.Clear() }

// SetParser installs the parse function LoadUnit uses to turn a unit's
// source text into an *ast.Module. Must be called before LoadUnit.
func (r *Registry) SetParser(p ParseFunc) { r.parse = p }

func key(name string) string { return strings.ToLower(name) }

// RegisterUnit admits unit into the registry under name. It is an error to
// register two units under the same normalized name, even if they differ
// only in case.
func (r *Registry) RegisterUnit(name string, unit *Unit) error {
	k := key(name)
	if _, exists := r.units[k]; exists {
		return fmt.Errorf("unit %q is already registered", name)
	}
	r.units[k] = unit
	return nil
}

// RegisterPreload admits a preload library module directly from source,
// bypassing FindUnit's filesystem search. Used for modules bundled with
// the front-end (e.g. a Strings or Math helper library) rather than
// discovered on disk.
func (r *Registry) RegisterPreload(name, source string) (*Unit, error) {
	return r.RegisterSource(name, "<preload:"+name+">", source, nil)
}

// RegisterSource admits a unit whose source the host already holds in
// memory (path and bytes supplied directly, as frontend.ParseFiles does
// for files buffered with AddFile),
// parsing it and recursively resolving its imports the same way LoadUnit
// does for a unit discovered on disk. paths overrides the registry's
// default search paths when an import must still be located on disk.
func (r *Registry) RegisterSource(name, filePath, source string, paths []string) (*Unit, error) {
	if r.parse == nil {
		return nil, fmt.Errorf("units: no parser installed")
	}
	mod, errs := r.parse(filePath, source)
	if len(errs) > 0 {
		return nil, fmt.Errorf("unit %q: parse errors: %v", name, errs)
	}

	unit := NewUnit(mod.Name, filePath)
	unit.Module = mod
	for _, imp := range mod.Imports {
		depName := targetName(imp)
		unit.Uses = append(unit.Uses, depName)
		if _, ok := r.GetUnit(depName); ok {
			continue
		}
		if _, err := r.LoadUnit(depName, paths); err != nil {
			return nil, fmt.Errorf("unit %q: %w", name, err)
		}
	}

	if err := r.RegisterUnit(unit.Name, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// GetUnit retrieves a previously registered or loaded unit by name,
// case-insensitively.
func (r *Registry) GetUnit(name string) (*Unit, bool) {
	u, ok := r.units[key(name)]
	return u, ok
}

// UnregisterUnit removes a unit from the registry.
func (r *Registry) UnregisterUnit(name string) {
	delete(r.units, key(name))
}

// Clear removes every registered unit.
func (r *Registry) Clear() {
	r.units = make(map[string]*Unit)
	r.loading = make(map[string]bool)
}

// ListUnits returns the names of all registered units, in no particular
// order.
func (r *Registry) ListUnits() []string {
	names := make([]string, 0, len(r.units))
	for _, u := range r.units {
		names = append(names, u.Name)
	}
	return names
}

// resolveUnitPath locates a unit's source file by name across paths
// (falling back to the registry's own search paths when paths is nil).
func (r *Registry) resolveUnitPath(name string, paths []string) (string, error) {
	dirs := paths
	if dirs == nil {
		dirs = r.searchPaths
	}
	path, err := FindUnit(name, dirs)
	if err != nil {
		return "", fmt.Errorf("cannot load unit %q: %w", name, err)
	}
	return path, nil
}

// LoadUnit returns the named unit, loading and recursively resolving its
// IMPORT dependencies first if it is not already registered. paths
// overrides the registry's default search paths for this call only.
func (r *Registry) LoadUnit(name string, paths []string) (*Unit, error) {
	if u, ok := r.GetUnit(name); ok {
		return u, nil
	}

	k := key(name)
	if r.loading[k] {
		return nil, fmt.Errorf("circular dependency detected while loading unit %q", name)
	}

	filePath, err := r.resolveUnitPath(name, paths)
	if err != nil {
		return nil, err
	}

	if cached, ok := r.cache.Get(k); ok {
		if err := r.RegisterUnit(cached.Name, cached); err != nil {
			return nil, err
		}
		return cached, nil
	}

	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot load unit %q: %w", name, err)
	}

	if r.parse == nil {
		return nil, fmt.Errorf("units: no parser installed")
	}

	r.loading[k] = true
	defer delete(r.loading, k)

	mod, errs := r.parse(filePath, string(src))
	if len(errs) > 0 {
		return nil, fmt.Errorf("unit %q: parse errors: %v", name, errs)
	}

	unit := NewUnit(mod.Name, filePath)
	unit.Module = mod
	for _, imp := range mod.Imports {
		depName := targetName(imp)
		unit.Uses = append(unit.Uses, depName)
		if _, err := r.LoadUnit(depName, paths); err != nil {
			return nil, fmt.Errorf("unit %q: %w", name, err)
		}
	}

	if err := r.RegisterUnit(unit.Name, unit); err != nil {
		return nil, err
	}
	r.cache.Put(k, unit, filePath)
	return unit, nil
}

func targetName(imp *ast.Import) string {
	if imp.TargetPath != "" {
		return imp.TargetPath
	}
	return imp.Alias
}

// ComputeInitializationOrder returns every registered unit's name ordered
// so that each unit follows everything it depends on (a reverse
// topological sort over Unit.Uses), or an error if the dependency graph
// contains a cycle.
func (r *Registry) ComputeInitializationOrder() ([]string, error) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(r.units))
	var order []string

	var visit func(k string) error
	visit = func(k string) error {
		switch color[k] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("circular dependency detected involving unit %q", k)
		}
		color[k] = gray
		unit := r.units[k]
		for _, dep := range unit.Uses {
			depKey := key(dep)
			if _, ok := r.units[depKey]; !ok {
				continue // dependency outside this registry's closure (e.g. a preload not loaded here)
			}
			if err := visit(depKey); err != nil {
				return err
			}
		}
		color[k] = black
		order = append(order, unit.Name)
		return nil
	}

	keys := make([]string, 0, len(r.units))
	for k := range r.units {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := visit(k); err != nil {
			return nil, err
		}
	}
	return order, nil
}
