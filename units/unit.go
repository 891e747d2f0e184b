// Package units implements the module graph: locating, loading, caching,
// and ordering the modules a compilation reaches through IMPORT.
package units

import (
	"strings"

	"github.com/obc-lang/obc/ast"
)

// Unit wraps one loaded module with the bookkeeping the registry needs:
// its source location, its declared dependency names (before they are
// resolved to *ast.Import entries), and the resolved AST once parsing and
// checking have run.
type Unit struct {
	Name     string
	FilePath string
	Uses     []string // names from IMPORT clauses, in source order
	Module   *ast.Module
}

// NewUnit creates an empty Unit ready to be populated by the registry.
func NewUnit(name, filePath string) *Unit {
	return &Unit{
		Name:     name,
		FilePath: filePath,
		Uses:     []string{},
	}
}

// NormalizedName returns the name used for registry lookups. Module names
// are case-sensitive identifiers in the language itself, but the registry
// key is lower-cased so that two source files spelling an import
// differently never silently create two units — this mirrors how a
// case-preserving file system still needs one canonical cache key.
func (u *Unit) NormalizedName() string {
	return strings.ToLower(u.Name)
}

// HasDependency reports whether name appears in Uses, case-insensitively.
func (u *Unit) HasDependency(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, dep := range u.Uses {
		if strings.ToLower(dep) == lower {
			return true
		}
	}
	return false
}

func (u *Unit) String() string {
	var sb strings.Builder
	sb.WriteString("MODULE ")
	sb.WriteString(u.Name)
	sb.WriteString(";\n")
	if len(u.Uses) > 0 {
		sb.WriteString("  IMPORT ")
		sb.WriteString(strings.Join(u.Uses, ", "))
		sb.WriteString(";\n")
	}
	sb.WriteString("END ")
	sb.WriteString(u.Name)
	sb.WriteString(".")
	return sb.String()
}
