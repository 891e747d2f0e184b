package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/obc-lang/obc/ast"
	"github.com/obc-lang/obc/lexer"
	"github.com/obc-lang/obc/units"
)

// moduleDoc is the JSON shape a module document must have: obc has no
// parser of its own, so this is the front-end's input contract, the same
// one any real Oberon parser would target when implementing
// units.ParseFunc.
type moduleDoc struct {
	Name    string      `json:"name"`
	Imports []importDoc `json:"imports"`
	Consts  []constDoc  `json:"consts"`
	Vars    []varDoc    `json:"vars"`
	Body    []stmtDoc   `json:"body"`
}

type importDoc struct {
	Alias      string `json:"alias"`
	TargetPath string `json:"targetPath"`
}

type constDoc struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

type varDoc struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Visibility string `json:"visibility"`
}

type exprDoc struct {
	Kind    string      `json:"kind"` // "ident", "sel", or "literal"
	Name    string      `json:"name"`
	Sub     *exprDoc    `json:"sub"`
	LitKind string      `json:"litKind"`
	Value   interface{} `json:"value"`
}

type stmtDoc struct {
	Kind string  `json:"kind"` // "assign"
	LHS  exprDoc `json:"lhs"`
	RHS  exprDoc `json:"rhs"`
}

// parseDocument implements units.ParseFunc over moduleDoc JSON rather than
// Oberon source text.
func parseDocument(file, source string) (*ast.Module, []error) {
	var doc moduleDoc
	if err := json.Unmarshal([]byte(source), &doc); err != nil {
		return nil, []error{fmt.Errorf("%s: %w", file, err)}
	}

	mod := &ast.Module{Name: doc.Name, Token: lexer.Token{Pos: lexer.Position{File: file}}}
	for _, id := range doc.Imports {
		mod.Imports = append(mod.Imports, &ast.Import{Alias: id.Alias, TargetPath: id.TargetPath})
	}
	for _, cd := range doc.Consts {
		ty, err := baseTypeByName(cd.Type)
		if err != nil {
			return nil, []error{fmt.Errorf("%s: const %s: %w", file, cd.Name, err)}
		}
		mod.Consts = append(mod.Consts, &ast.Const{Name: cd.Name, Type: ty, Value: cd.Value})
	}
	for _, vd := range doc.Vars {
		ty, err := baseTypeByName(vd.Type)
		if err != nil {
			return nil, []error{fmt.Errorf("%s: var %s: %w", file, vd.Name, err)}
		}
		mod.Vars = append(mod.Vars, &ast.Variable{Name: vd.Name, Type: ty, Visibility: visibilityByName(vd.Visibility)})
	}
	for _, sd := range doc.Body {
		stmt, err := buildStmt(sd)
		if err != nil {
			return nil, []error{fmt.Errorf("%s: %w", file, err)}
		}
		mod.Body = append(mod.Body, stmt)
	}
	return mod, nil
}

func buildStmt(s stmtDoc) (ast.Statement, error) {
	switch s.Kind {
	case "assign":
		lhs, err := buildExpr(s.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := buildExpr(s.RHS)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{LHS: lhs, RHS: rhs}, nil
	default:
		return nil, fmt.Errorf("unknown statement kind %q", s.Kind)
	}
}

func buildExpr(e exprDoc) (ast.Expression, error) {
	switch e.Kind {
	case "ident":
		return &ast.IdentLeaf{Name: e.Name}, nil
	case "sel":
		if e.Sub == nil {
			return nil, fmt.Errorf("selection %q has no sub-expression", e.Name)
		}
		sub, err := buildExpr(*e.Sub)
		if err != nil {
			return nil, err
		}
		return &ast.IdentSel{Sub: sub, Name: e.Name}, nil
	case "literal":
		return buildLiteral(e)
	default:
		return nil, fmt.Errorf("unknown expression kind %q", e.Kind)
	}
}

func buildLiteral(e exprDoc) (*ast.Literal, error) {
	switch e.LitKind {
	case "int":
		n, ok := e.Value.(float64)
		if !ok {
			return nil, fmt.Errorf("literal %v is not a number", e.Value)
		}
		return &ast.Literal{LKind: ast.LitInt, Value: int64(n)}, nil
	case "real":
		n, ok := e.Value.(float64)
		if !ok {
			return nil, fmt.Errorf("literal %v is not a number", e.Value)
		}
		return &ast.Literal{LKind: ast.LitReal, Value: n}, nil
	case "bool":
		b, ok := e.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("literal %v is not a boolean", e.Value)
		}
		return &ast.Literal{LKind: ast.LitBool, Value: b}, nil
	default:
		return nil, fmt.Errorf("unknown literal kind %q", e.LitKind)
	}
}

func baseTypeByName(name string) (ast.Type, error) {
	switch name {
	case "BOOLEAN":
		return ast.Base(ast.BOOLEAN), nil
	case "CHAR":
		return ast.Base(ast.CHAR), nil
	case "BYTE":
		return ast.Base(ast.BYTE), nil
	case "INTEGER":
		return ast.Base(ast.INTEGER), nil
	case "LONGINT":
		return ast.Base(ast.LONGINT), nil
	case "REAL":
		return ast.Base(ast.REAL), nil
	case "LONGREAL":
		return ast.Base(ast.LONGREAL), nil
	case "SET":
		return ast.Base(ast.SET), nil
	default:
		return nil, fmt.Errorf("unsupported primitive type %q", name)
	}
}

func visibilityByName(name string) ast.Visibility {
	switch name {
	case "private":
		return ast.VisPrivate
	case "readonly":
		return ast.VisReadOnly
	case "readwrite":
		return ast.VisReadWrite
	default:
		return ast.VisReadWrite
	}
}

var _ units.ParseFunc = parseDocument
