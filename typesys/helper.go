package typesys

import (
	"fmt"

	"github.com/obc-lang/obc/ast"
)

// HelperType attaches extension methods to an existing type without
// modifying it: a type declared elsewhere gets additional procedures that
// HelperRegistry.FindMethod looks up by For's type. Selector resolution in
// package check does not consult helpers.
type HelperType struct {
	Name    string
	For     interface{} // the ast.Type key this helper extends; compared with typeKey
	Methods map[string]*ast.Procedure
	Sealed  bool // true once a subtype helper has been derived; reserved for future use
}

// NewHelperType creates an empty helper named name extending forType.
func NewHelperType(name string, forType interface{}, sealed bool) *HelperType {
	return &HelperType{
		Name:    name,
		For:     forType,
		Methods: make(map[string]*ast.Procedure),
		Sealed:  sealed,
	}
}

// HelperRegistry indexes HelperType values by name and by extended type,
// preserving per-type registration order so FindMethod resolves ties in
// favor of the helper declared first.
type HelperRegistry struct {
	byName map[string]*HelperType
	byType map[string][]*HelperType
}

// NewHelperRegistry creates an empty registry.
func NewHelperRegistry() *HelperRegistry {
	return &HelperRegistry{
		byName: make(map[string]*HelperType),
		byType: make(map[string][]*HelperType),
	}
}

func (r *HelperRegistry) HelperCount() int { return len(r.byName) }
func (r *HelperRegistry) TypeCount() int   { return len(r.byType) }

// RegisterHelper adds h to the registry. Helper names are unique
// case-insensitively within the registry, unlike Oberon identifiers, which
// are matched case-sensitively.
func (r *HelperRegistry) RegisterHelper(h *HelperType) error {
	if h == nil {
		return fmt.Errorf("cannot register a nil helper")
	}
	key := canon(h.Name)
	if _, exists := r.byName[key]; exists {
		return fmt.Errorf("helper %q is already registered", h.Name)
	}
	r.byName[key] = h
	tk := typeKey(h.For)
	r.byType[tk] = append(r.byType[tk], h)
	return nil
}

// GetHelperByName looks up a helper by name, case-insensitively.
func (r *HelperRegistry) GetHelperByName(name string) (*HelperType, bool) {
	h, ok := r.byName[canon(name)]
	return h, ok
}

// GetHelpersForType returns every helper registered against t, in
// registration order. Returns nil for a nil t.
func (r *HelperRegistry) GetHelpersForType(t interface{}) []*HelperType {
	if t == nil {
		return nil
	}
	return r.byType[typeKey(t)]
}

// FindMethod searches every helper registered against t for a method
// named name, case-insensitively, returning the first match in
// registration order.
func (r *HelperRegistry) FindMethod(t interface{}, name string) (*ast.Procedure, *HelperType, bool) {
	want := canon(name)
	for _, h := range r.GetHelpersForType(t) {
		for mname, m := range h.Methods {
			if canon(mname) == want {
				return m, h, true
			}
		}
	}
	return nil, nil, false
}

func canon(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// typeKey renders t into a stable map key. *ast.BaseType singletons key by
// their Kind so BYTE and BYTE always collide regardless of pointer
// identity; everything else keys by its String() rendering.
func typeKey(t interface{}) string {
	if bt, ok := t.(*ast.BaseType); ok {
		return fmt.Sprintf("base:%d", bt.Kind)
	}
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", t)
}
