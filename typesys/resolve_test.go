package typesys

import (
	"fmt"
	"testing"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/scope"
)

func TestResolveSimpleQualiType(t *testing.T) {
	sink := diag.NewSink()
	sc := scope.NewScope("module")

	rec := &ast.Record{Name: "TPoint", Fields: []*ast.Field{
		{Name: "x", Type: ast.Base(ast.INTEGER)},
	}}
	nt := &ast.NamedType{Name: "TPoint", Declared: rec}
	if err := sc.Define("TPoint", nt); err != nil {
		t.Fatalf("Define: %v", err)
	}

	q := &ast.QualiType{Name: "TPoint"}
	r := NewResolver(sink)
	resolved := r.Resolve(q, sc)

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.String())
	}
	if resolved != rec {
		t.Errorf("expected resolution to the declared record, got %v", resolved)
	}
	if q.Resolved != rec {
		t.Error("QualiType.Resolved should be cached after resolution")
	}
}

func TestResolveUnresolvedIdentifier(t *testing.T) {
	sink := diag.NewSink()
	sc := scope.NewScope("module")
	r := NewResolver(sink)

	q := &ast.QualiType{Name: "Missing"}
	r.Resolve(q, sc)

	if !sink.HasErrors() {
		t.Fatal("expected a diagnostic for an unresolved type name")
	}
	if sink.Diagnostics()[0].Kind != diag.UnresolvedIdent {
		t.Errorf("expected UnresolvedIdent, got %v", sink.Diagnostics()[0].Kind)
	}
}

func TestResolvePointerToSelf(t *testing.T) {
	sink := diag.NewSink()
	sc := scope.NewScope("module")
	r := NewResolver(sink)

	rec := &ast.Record{Name: "TNode"}
	nt := &ast.NamedType{Name: "TNode", Declared: rec}
	sc.Define("TNode", nt)
	rec.Fields = []*ast.Field{
		{Name: "next", Type: &ast.Pointer{To: &ast.QualiType{Name: "TNode"}}},
	}

	resolved := r.Resolve(nt.Declared, sc)
	got, ok := resolved.(*ast.Record)
	if !ok {
		t.Fatalf("expected *ast.Record, got %T", resolved)
	}
	ptr, ok := got.Fields[0].Type.(*ast.Pointer)
	if !ok {
		t.Fatalf("expected field type to remain a pointer, got %T", got.Fields[0].Type)
	}
	if ptr.To != rec {
		t.Error("self-referential pointer field should resolve back to the same record")
	}
}

func TestInstantiateGenericRecordIsMemoized(t *testing.T) {
	sink := diag.NewSink()
	sc := scope.NewScope("module")
	r := NewResolver(sink)

	elemParam := &ast.GenericName{Name: "T"}
	template := &ast.Record{
		Name:   "List",
		Fields: []*ast.Field{{Name: "value", Type: &ast.QualiType{Name: "T"}}},
	}
	nt := &ast.NamedType{Name: "List", Declared: template, TypeParams: []*ast.GenericName{elemParam}}
	sc.Define("List", nt)

	q1 := &ast.QualiType{Name: "List", Actuals: []ast.Type{ast.Base(ast.INTEGER)}}
	q2 := &ast.QualiType{Name: "List", Actuals: []ast.Type{ast.Base(ast.INTEGER)}}

	inst1 := r.Resolve(q1, sc)
	inst2 := r.Resolve(q2, sc)

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.String())
	}
	if inst1 != inst2 {
		t.Error("two instantiations with identical actuals should be memoized to the same record")
	}
	rec := inst1.(*ast.Record)
	if !Identical(rec.Fields[0].Type, ast.Base(ast.INTEGER)) {
		t.Errorf("expected value field substituted to INTEGER, got %v", rec.Fields[0].Type)
	}
}

func TestResolvePointerToNonRecordIsIllegal(t *testing.T) {
	sink := diag.NewSink()
	sc := scope.NewScope("module")
	r := NewResolver(sink)

	ptr := &ast.Pointer{To: ast.Base(ast.INTEGER)}
	r.Resolve(ptr, sc)

	if !sink.HasErrors() {
		t.Fatal("expected a diagnostic for a pointer to a non-record, non-array type")
	}
	if sink.Diagnostics()[0].Kind != diag.PointerBaseIllegal {
		t.Errorf("expected PointerBaseIllegal, got %v", sink.Diagnostics()[0].Kind)
	}
}

func TestResolveArrayLengthError(t *testing.T) {
	sink := diag.NewSink()
	sc := scope.NewScope("module")
	r := NewResolver(sink)

	arr := &ast.Array{Elem: ast.Base(ast.INTEGER), Length: 0}
	r.Resolve(arr, sc)

	if !sink.HasErrors() {
		t.Fatal("expected a diagnostic for a zero-length fixed array")
	}
	if sink.Diagnostics()[0].Kind != diag.ArrayLengthError {
		t.Errorf("expected ArrayLengthError, got %v", sink.Diagnostics()[0].Kind)
	}

	sinkOK := diag.NewSink()
	rOK := NewResolver(sinkOK)
	open := &ast.Array{Elem: ast.Base(ast.INTEGER), Open: true}
	rOK.Resolve(open, sc)
	if sinkOK.HasErrors() {
		t.Errorf("an open array must not report a length error, got %s", sinkOK.String())
	}
}

func TestResolveRecordBasePopulatesBaseAndSubRecs(t *testing.T) {
	sink := diag.NewSink()
	sc := scope.NewScope("module")
	r := NewResolver(sink)

	base := &ast.Record{Name: "TBase"}
	sc.Define("TBase", &ast.NamedType{Name: "TBase", Declared: base})

	derived := &ast.Record{Name: "TDerived", BaseRef: &ast.QualiType{Name: "TBase"}}
	r.Resolve(derived, sc)

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.String())
	}
	if derived.Base != base {
		t.Errorf("expected derived.Base to resolve to the base record, got %v", derived.Base)
	}
	if len(base.SubRecs) != 1 || base.SubRecs[0] != derived {
		t.Errorf("expected base.SubRecs to list derived, got %v", base.SubRecs)
	}
}

func TestResolveRecordBaseThroughPointer(t *testing.T) {
	sink := diag.NewSink()
	sc := scope.NewScope("module")
	r := NewResolver(sink)

	base := &ast.Record{Name: "TBase"}
	sc.Define("TBase", &ast.NamedType{Name: "TBase", Declared: base})

	derived := &ast.Record{Name: "TDerived", BaseRef: &ast.Pointer{To: &ast.QualiType{Name: "TBase"}}}
	r.Resolve(derived, sc)

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.String())
	}
	if derived.Base != base {
		t.Errorf("expected a pointer-to-record BaseRef to dereference to the base record, got %v", derived.Base)
	}
}

func TestResolveExtensionChainTooDeep(t *testing.T) {
	sink := diag.NewSink()
	sc := scope.NewScope("module")
	r := NewResolver(sink)

	var prev *ast.Record
	for i := 0; i <= MaxExtensionDepth+2; i++ {
		name := fmt.Sprintf("T%d", i)
		rec := &ast.Record{Name: name}
		if prev != nil {
			rec.Base = prev
		}
		sc.Define(name, &ast.NamedType{Name: name, Declared: rec})
		prev = rec
	}

	derived := &ast.Record{Name: "TTooDeep", BaseRef: &ast.QualiType{Name: prev.Name}}
	r.Resolve(derived, sc)

	var found bool
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.ExtensionTooDeep {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an ExtensionTooDeep diagnostic, got: %s", sink.String())
	}
}

func TestInstantiateGenericRecordDifferentActuals(t *testing.T) {
	sink := diag.NewSink()
	sc := scope.NewScope("module")
	r := NewResolver(sink)

	elemParam := &ast.GenericName{Name: "T"}
	template := &ast.Record{
		Name:   "List",
		Fields: []*ast.Field{{Name: "value", Type: &ast.QualiType{Name: "T"}}},
	}
	nt := &ast.NamedType{Name: "List", Declared: template, TypeParams: []*ast.GenericName{elemParam}}
	sc.Define("List", nt)

	intList := r.Resolve(&ast.QualiType{Name: "List", Actuals: []ast.Type{ast.Base(ast.INTEGER)}}, sc)
	strList := r.Resolve(&ast.QualiType{Name: "List", Actuals: []ast.Type{ast.Base(ast.STRING)}}, sc)

	if intList == strList {
		t.Error("List(INTEGER) and List(STRING) must not be memoized to the same instance")
	}
}
