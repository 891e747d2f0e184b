package typesys

import (
	"errors"

	"github.com/obc-lang/obc/ast"
)

// ConversionKind distinguishes a conversion the checker inserts
// automatically from one a program must request explicitly (e.g. via a
// type-guard or an explicit conversion procedure call).
type ConversionKind int

const (
	ConversionImplicit ConversionKind = iota
	ConversionExplicit
)

// ErrConversionDuplicate is returned when a From/To/Kind triple is
// already registered.
var ErrConversionDuplicate = errors.New("conversion already registered for this signature")

// ErrConversionNil is returned when Register is given a nil signature.
var ErrConversionNil = errors.New("cannot register a nil conversion signature")

// ConversionSignature records one user-defined conversion between two
// types, beyond the built-in numeric widenings AssignCompatible already
// grants. Binding names the implementing procedure.
type ConversionSignature struct {
	From    ast.Type
	To      ast.Type
	Kind    ConversionKind
	Binding string
}

// ConversionRegistry indexes ConversionSignature values by direction and
// kind, keeping implicit conversions apart from explicit ones. They are
// found only through FindImplicit and FindExplicit; AssignCompatible does
// not consult the registry.
type ConversionRegistry struct {
	implicit []*ConversionSignature
	explicit []*ConversionSignature
}

// NewConversionRegistry creates an empty registry.
func NewConversionRegistry() *ConversionRegistry {
	return &ConversionRegistry{}
}

// Register adds sig to the registry under its Kind, rejecting an exact
// From/To/Kind duplicate.
func (r *ConversionRegistry) Register(sig *ConversionSignature) error {
	if sig == nil {
		return ErrConversionNil
	}
	list := r.listFor(sig.Kind)
	for _, existing := range *list {
		if Identical(existing.From, sig.From) && Identical(existing.To, sig.To) {
			return ErrConversionDuplicate
		}
	}
	*list = append(*list, sig)
	return nil
}

func (r *ConversionRegistry) listFor(kind ConversionKind) *[]*ConversionSignature {
	if kind == ConversionImplicit {
		return &r.implicit
	}
	return &r.explicit
}

// FindImplicit looks up a registered implicit conversion from from to to.
// A nil registry behaves as empty, so callers need not guard a
// not-yet-populated checker state.
func (r *ConversionRegistry) FindImplicit(from, to ast.Type) (*ConversionSignature, bool) {
	if r == nil {
		return nil, false
	}
	return find(r.implicit, from, to)
}

// FindExplicit looks up a registered explicit conversion from from to to.
func (r *ConversionRegistry) FindExplicit(from, to ast.Type) (*ConversionSignature, bool) {
	if r == nil {
		return nil, false
	}
	return find(r.explicit, from, to)
}

func find(list []*ConversionSignature, from, to ast.Type) (*ConversionSignature, bool) {
	for _, sig := range list {
		if Identical(sig.From, from) && Identical(sig.To, to) {
			return sig, true
		}
	}
	return nil, false
}
