package typesys

import (
	"testing"

	"github.com/obc-lang/obc/ast"
)

func TestOperatorRegisterAndLookup(t *testing.T) {
	r := NewOperatorRegistry()
	sig := &OperatorSignature{
		Operator:     "+",
		OperandTypes: []ast.Type{ast.Base(ast.INTEGER), ast.Base(ast.INTEGER)},
		ResultType:   ast.Base(ast.INTEGER),
		Binding:      "AddInt",
	}
	if err := r.Register(sig); err != nil {
		t.Fatalf("Register: %v", err)
	}
	found, ok := r.Lookup("+", []ast.Type{ast.Base(ast.INTEGER), ast.Base(ast.INTEGER)})
	if !ok {
		t.Fatal("expected to find the registered operator")
	}
	if !Identical(found.ResultType, ast.Base(ast.INTEGER)) {
		t.Errorf("expected result type INTEGER, got %v", found.ResultType)
	}
}

func TestOperatorRegisterDuplicate(t *testing.T) {
	r := NewOperatorRegistry()
	sig := &OperatorSignature{Operator: "+", OperandTypes: []ast.Type{ast.Base(ast.INTEGER), ast.Base(ast.INTEGER)}}
	if err := r.Register(sig); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := r.Register(sig); err != ErrOperatorDuplicate {
		t.Errorf("expected ErrOperatorDuplicate, got %v", err)
	}
}

func TestOperatorRegisterNil(t *testing.T) {
	r := NewOperatorRegistry()
	if err := r.Register(nil); err == nil {
		t.Fatal("expected an error registering a nil signature")
	}
}

func TestOperatorLookupMissing(t *testing.T) {
	r := NewOperatorRegistry()
	if _, ok := r.Lookup("+", []ast.Type{ast.Base(ast.INTEGER), ast.Base(ast.INTEGER)}); ok {
		t.Error("expected no match in an empty registry")
	}
}

func TestOperatorOverloadsBySignature(t *testing.T) {
	r := NewOperatorRegistry()
	rec := &ast.Record{Name: "TVector"}
	intSig := &OperatorSignature{Operator: "+", OperandTypes: []ast.Type{ast.Base(ast.INTEGER), ast.Base(ast.INTEGER)}, ResultType: ast.Base(ast.INTEGER)}
	vecSig := &OperatorSignature{Operator: "+", OperandTypes: []ast.Type{rec, rec}, ResultType: rec}

	r.Register(intSig)
	r.Register(vecSig)

	if found, ok := r.Lookup("+", []ast.Type{ast.Base(ast.INTEGER), ast.Base(ast.INTEGER)}); !ok || !Identical(found.ResultType, ast.Base(ast.INTEGER)) {
		t.Error("expected the integer overload")
	}
	if found, ok := r.Lookup("+", []ast.Type{rec, rec}); !ok || found.ResultType != rec {
		t.Error("expected the vector overload")
	}
}

func TestIsOperatorSymbol(t *testing.T) {
	for _, sym := range []string{"+", "-", "*", "/", "=", "#", "<", "<=", ">", ">=", "IN"} {
		if !isOperatorSymbol(sym) {
			t.Errorf("expected %q to be recognized as an operator symbol", sym)
		}
	}
	if isOperatorSymbol("AND") {
		t.Error("AND is a keyword, not an overloadable operator symbol")
	}
}
