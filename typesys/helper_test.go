package typesys

import (
	"testing"

	"github.com/obc-lang/obc/ast"
)

func TestNewHelperRegistry(t *testing.T) {
	r := NewHelperRegistry()
	if r.HelperCount() != 0 || r.TypeCount() != 0 {
		t.Fatal("a new registry should have no helpers and no types")
	}
}

func TestRegisterHelper(t *testing.T) {
	r := NewHelperRegistry()
	h := NewHelperType("StringHelper", ast.Base(ast.STRING), false)
	h.Methods["ToUpper"] = &ast.Procedure{Name: "ToUpper"}

	if err := r.RegisterHelper(h); err != nil {
		t.Fatalf("RegisterHelper: %v", err)
	}
	if r.HelperCount() != 1 || r.TypeCount() != 1 {
		t.Fatalf("expected 1 helper over 1 type, got %d/%d", r.HelperCount(), r.TypeCount())
	}

	got, ok := r.GetHelperByName("StringHelper")
	if !ok || got.Name != "StringHelper" {
		t.Fatal("could not retrieve helper by name")
	}
}

func TestRegisterHelperCaseInsensitiveLookup(t *testing.T) {
	r := NewHelperRegistry()
	r.RegisterHelper(NewHelperType("StringHelper", ast.Base(ast.STRING), false))

	for _, name := range []string{"stringhelper", "STRINGHELPER", "StRiNgHeLpEr"} {
		if _, ok := r.GetHelperByName(name); !ok {
			t.Errorf("expected to find helper with lookup name %q", name)
		}
	}
}

func TestRegisterHelperDuplicateName(t *testing.T) {
	r := NewHelperRegistry()
	r.RegisterHelper(NewHelperType("H", ast.Base(ast.STRING), false))
	if err := r.RegisterHelper(NewHelperType("H", ast.Base(ast.INTEGER), false)); err == nil {
		t.Fatal("expected an error registering a duplicate helper name")
	}
}

func TestRegisterHelperNil(t *testing.T) {
	r := NewHelperRegistry()
	if err := r.RegisterHelper(nil); err == nil {
		t.Fatal("expected an error registering a nil helper")
	}
}

func TestRegisterMultipleHelpersForSameType(t *testing.T) {
	r := NewHelperRegistry()
	h1 := NewHelperType("StringHelper1", ast.Base(ast.STRING), false)
	h2 := NewHelperType("StringHelper2", ast.Base(ast.STRING), false)
	r.RegisterHelper(h1)
	r.RegisterHelper(h2)

	if r.HelperCount() != 2 || r.TypeCount() != 1 {
		t.Fatalf("expected 2 helpers over 1 type, got %d/%d", r.HelperCount(), r.TypeCount())
	}

	helpers := r.GetHelpersForType(ast.Base(ast.STRING))
	if len(helpers) != 2 || helpers[0].Name != "StringHelper1" || helpers[1].Name != "StringHelper2" {
		t.Errorf("expected helpers in registration order, got %v", helpers)
	}
}

func TestGetHelpersForTypeNil(t *testing.T) {
	r := NewHelperRegistry()
	if got := r.GetHelpersForType(nil); got != nil {
		t.Errorf("expected nil for a nil type, got %v", got)
	}
}

func TestFindMethodCaseInsensitive(t *testing.T) {
	r := NewHelperRegistry()
	h := NewHelperType("StringHelper", ast.Base(ast.STRING), false)
	h.Methods["ToUpper"] = &ast.Procedure{Name: "ToUpper"}
	r.RegisterHelper(h)

	for _, name := range []string{"toupper", "TOUPPER", "ToUpper"} {
		_, found, ok := r.FindMethod(ast.Base(ast.STRING), name)
		if !ok || found.Name != "StringHelper" {
			t.Errorf("expected to find method %q via StringHelper", name)
		}
	}
}
