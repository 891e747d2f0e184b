package units

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/lexer"
)

func TestNewUnitRegistry(t *testing.T) {
	t.Run("with search paths", func(t *testing.T) {
		r := NewUnitRegistry([]string{"/path1", "/path2"})
		if len(r.searchPaths) != 2 {
			t.Errorf("expected 2 search paths, got %d", len(r.searchPaths))
		}
	})

	t.Run("nil defaults to current directory", func(t *testing.T) {
		r := NewUnitRegistry(nil)
		if len(r.searchPaths) != 1 || r.searchPaths[0] != "." {
			t.Errorf("expected default search path [.], got %v", r.searchPaths)
		}
	})

	t.Run("empty slice stays empty", func(t *testing.T) {
		r := NewUnitRegistry([]string{})
		if len(r.searchPaths) != 0 {
			t.Errorf("expected 0 search paths, got %d", len(r.searchPaths))
		}
	})
}

func TestRegisterUnitDuplicateAndCase(t *testing.T) {
	r := NewUnitRegistry([]string{"."})

	u1 := NewUnit("Lists", "/a.obc")
	if err := r.RegisterUnit("Lists", u1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := r.GetUnit("LISTS")
	if !ok || got != u1 {
		t.Fatal("expected case-insensitive lookup to find the registered unit")
	}

	u2 := NewUnit("Lists", "/b.obc")
	err := r.RegisterUnit("lists", u2)
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected an already-registered error, got %v", err)
	}
}

func TestUnregisterAndClear(t *testing.T) {
	r := NewUnitRegistry([]string{"."})
	r.RegisterUnit("A", NewUnit("A", "/a.obc"))
	r.RegisterUnit("B", NewUnit("B", "/b.obc"))

	r.UnregisterUnit("A")
	if _, ok := r.GetUnit("A"); ok {
		t.Error("expected A to be unregistered")
	}

	r.Clear()
	if len(r.ListUnits()) != 0 {
		t.Error("expected registry to be empty after Clear")
	}
}

func stubParser(mods map[string]*ast.Module) ParseFunc {
	return func(file, source string) (*ast.Module, []error) {
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if mod, ok := mods[base]; ok {
			return mod, nil
		}
		return nil, []error{&parseStubError{file}}
	}
}

type parseStubError struct{ file string }

func (e *parseStubError) Error() string { return "no stub module for " + e.file }

func moduleWithImports(name string, imports ...string) *ast.Module {
	mod := &ast.Module{Name: name, Token: lexer.Token{}}
	for _, imp := range imports {
		mod.Imports = append(mod.Imports, &ast.Import{Alias: imp, TargetPath: imp})
	}
	return mod
}

func TestLoadUnitResolvesTransitiveImports(t *testing.T) {
	tempDir := t.TempDir()
	for _, name := range []string{"Leaf", "Mid", "Top"} {
		path := filepath.Join(tempDir, name+".obc")
		if err := os.WriteFile(path, []byte("MODULE "+name+"; BEGIN END "+name+"."), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	mods := map[string]*ast.Module{
		"Leaf": moduleWithImports("Leaf"),
		"Mid":  moduleWithImports("Mid", "Leaf"),
		"Top":  moduleWithImports("Top", "Mid"),
	}

	r := NewUnitRegistry([]string{tempDir})
	r.SetParser(stubParser(mods))

	unit, err := r.LoadUnit("Top", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit.Name != "Top" {
		t.Fatalf("expected unit Top, got %s", unit.Name)
	}
	if _, ok := r.GetUnit("Mid"); !ok {
		t.Error("expected transitively-imported Mid to be registered")
	}
	if _, ok := r.GetUnit("Leaf"); !ok {
		t.Error("expected transitively-imported Leaf to be registered")
	}
}

func TestLoadUnitCircularDependency(t *testing.T) {
	tempDir := t.TempDir()
	for _, name := range []string{"A", "B"} {
		path := filepath.Join(tempDir, name+".obc")
		if err := os.WriteFile(path, []byte("MODULE "+name+"; BEGIN END "+name+"."), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	mods := map[string]*ast.Module{
		"A": moduleWithImports("A", "B"),
		"B": moduleWithImports("B", "A"),
	}

	r := NewUnitRegistry([]string{tempDir})
	r.SetParser(stubParser(mods))

	_, err := r.LoadUnit("A", nil)
	if err == nil || !strings.Contains(err.Error(), "circular dependency") {
		t.Fatalf("expected a circular dependency error, got %v", err)
	}
}

func TestLoadUnitNotFound(t *testing.T) {
	tempDir := t.TempDir()
	r := NewUnitRegistry([]string{tempDir})
	r.SetParser(stubParser(nil))

	_, err := r.LoadUnit("Missing", nil)
	if err == nil || !strings.Contains(err.Error(), "cannot load unit") {
		t.Fatalf("expected a cannot-load-unit error, got %v", err)
	}
}

func TestComputeInitializationOrderLinear(t *testing.T) {
	r := NewUnitRegistry([]string{"."})

	unitA := NewUnit("A", "/a.obc")
	unitB := NewUnit("B", "/b.obc")
	unitB.Uses = []string{"A"}
	unitC := NewUnit("C", "/c.obc")
	unitC.Uses = []string{"B"}

	r.RegisterUnit("A", unitA)
	r.RegisterUnit("B", unitB)
	r.RegisterUnit("C", unitC)

	order, err := r.ComputeInitializationOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"A", "B", "C"}
	for i, name := range expected {
		if order[i] != name {
			t.Errorf("position %d: expected %q, got %q", i, name, order[i])
		}
	}
}

func TestComputeInitializationOrderDiamond(t *testing.T) {
	r := NewUnitRegistry([]string{"."})

	unitA := NewUnit("A", "/a.obc")
	unitB := NewUnit("B", "/b.obc")
	unitB.Uses = []string{"A"}
	unitC := NewUnit("C", "/c.obc")
	unitC.Uses = []string{"A"}
	unitD := NewUnit("D", "/d.obc")
	unitD.Uses = []string{"B", "C"}

	r.RegisterUnit("A", unitA)
	r.RegisterUnit("B", unitB)
	r.RegisterUnit("C", unitC)
	r.RegisterUnit("D", unitD)

	order, err := r.ComputeInitializationOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order[0] != "A" || order[3] != "D" {
		t.Fatalf("expected A first and D last, got %v", order)
	}
}

func TestComputeInitializationOrderCycle(t *testing.T) {
	r := NewUnitRegistry([]string{"."})

	unitA := NewUnit("A", "/a.obc")
	unitA.Uses = []string{"C"}
	unitB := NewUnit("B", "/b.obc")
	unitB.Uses = []string{"A"}
	unitC := NewUnit("C", "/c.obc")
	unitC.Uses = []string{"B"}

	r.RegisterUnit("A", unitA)
	r.RegisterUnit("B", unitB)
	r.RegisterUnit("C", unitC)

	_, err := r.ComputeInitializationOrder()
	if err == nil || !strings.Contains(err.Error(), "circular") {
		t.Fatalf("expected a circular dependency error, got %v", err)
	}
}

func TestRegisterPreload(t *testing.T) {
	r := NewUnitRegistry([]string{"."})
	r.SetParser(func(file, source string) (*ast.Module, []error) {
		return moduleWithImports("Strings"), nil
	})

	unit, err := r.RegisterPreload("Strings", "MODULE Strings; BEGIN END Strings.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit.FilePath != "<preload:Strings>" {
		t.Errorf("expected synthetic preload path, got %q", unit.FilePath)
	}
	if _, ok := r.GetUnit("Strings"); !ok {
		t.Error("expected preload to be registered")
	}
}

func TestRegisterSourceResolvesImportsFromDisk(t *testing.T) {
	tempDir := t.TempDir()
	os.WriteFile(filepath.Join(tempDir, "Leaf.obc"), []byte("MODULE Leaf; BEGIN END Leaf."), 0644)

	mods := map[string]*ast.Module{"Leaf": moduleWithImports("Leaf")}
	r := NewUnitRegistry([]string{tempDir})
	r.SetParser(stubParser(mods))

	top := moduleWithImports("Top", "Leaf")
	r.parse = func(file, source string) (*ast.Module, []error) {
		if file == "<memory:Top>" {
			return top, nil
		}
		return stubParser(mods)(file, source)
	}

	unit, err := r.RegisterSource("Top", "<memory:Top>", "MODULE Top; IMPORT Leaf; BEGIN END Top.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit.Name != "Top" {
		t.Fatalf("expected unit Top, got %s", unit.Name)
	}
	if _, ok := r.GetUnit("Leaf"); !ok {
		t.Error("expected Leaf to be loaded from disk to satisfy Top's import")
	}
}

func TestRegisterSourceDuplicatePath(t *testing.T) {
	r := NewUnitRegistry([]string{"."})
	r.SetParser(func(file, source string) (*ast.Module, []error) {
		return moduleWithImports("Dup"), nil
	})

	if _, err := r.RegisterSource("Dup", "<memory:Dup>", "MODULE Dup; BEGIN END Dup.", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.RegisterSource("Dup", "<memory:Dup>", "MODULE Dup; BEGIN END Dup.", nil); err == nil {
		t.Fatal("expected an already-registered error on the second RegisterSource")
	}
}
