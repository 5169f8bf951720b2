// Package loader reads a ProgramDocument off disk. Files are written in a
// small wire format — YAML or TOML, picked by file extension — that
// mirrors domain.Statement's shape but spells expressions, patterns and
// built-in predicates as plain string references instead of live
// Expression values, since neither format can carry a Go closure. Loading
// resolves every reference against a domain.ExpressionResolver (see
// internal/builtins) before handing back a domain.ProgramDocument the
// interpreter can compile directly.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tocque/eventflow/domain"
)

// wireValue is a Value as written on disk: either a literal or a named
// expression reference, never both.
type wireValue struct {
	Literal any    `yaml:"literal,omitempty" toml:"literal,omitempty"`
	Expr    string `yaml:"expr,omitempty" toml:"expr,omitempty"`
}

type wireBranch struct {
	Condition string          `yaml:"condition,omitempty" toml:"condition,omitempty"`
	Body      []wireStatement `yaml:"body" toml:"body"`
}

// wireStatement mirrors domain.Statement field for field, substituting
// string references for every Expression-typed field.
type wireStatement struct {
	Kind string `yaml:"kind" toml:"kind"`

	Expr  string `yaml:"expr,omitempty" toml:"expr,omitempty"`
	Async bool   `yaml:"async,omitempty" toml:"async,omitempty"`

	Name    string               `yaml:"name,omitempty" toml:"name,omitempty"`
	Params  map[string]wireValue `yaml:"params,omitempty" toml:"params,omitempty"`
	BuiltIn bool                 `yaml:"builtin,omitempty" toml:"builtin,omitempty"`

	Value *wireValue `yaml:"value,omitempty" toml:"value,omitempty"`

	Pattern   string          `yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	Branches  []wireBranch    `yaml:"branches,omitempty" toml:"branches,omitempty"`
	Otherwise []wireStatement `yaml:"otherwise,omitempty" toml:"otherwise,omitempty"`

	Init             string          `yaml:"init,omitempty" toml:"init,omitempty"`
	Cond             string          `yaml:"cond,omitempty" toml:"cond,omitempty"`
	Iter             string          `yaml:"iter,omitempty" toml:"iter,omitempty"`
	Label            string          `yaml:"label,omitempty" toml:"label,omitempty"`
	Body             []wireStatement `yaml:"body,omitempty" toml:"body,omitempty"`
	SkipInitialCheck bool            `yaml:"skip_initial_check,omitempty" toml:"skip_initial_check,omitempty"`

	BreakLabel string `yaml:"break_label,omitempty" toml:"break_label,omitempty"`
}

type wireDocument struct {
	Main    []wireStatement            `yaml:"main" toml:"main"`
	Globals map[string][]wireStatement `yaml:"globals,omitempty" toml:"globals,omitempty"`
}

// Loader reads ProgramDocuments from disk, resolving expression references
// through exprs. It implements domain.ProgramLoader.
type Loader struct {
	exprs domain.ExpressionResolver
}

// New builds a Loader that resolves expression references against exprs.
func New(exprs domain.ExpressionResolver) *Loader {
	return &Loader{exprs: exprs}
}

// Load reads and converts the program document at path. The format is
// chosen by file extension: .yaml/.yml or .toml.
func (l *Loader) Load(path string) (*domain.ProgramDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("eventflow: failed to read %s: %w", path, err)
	}

	var wire wireDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("eventflow: failed to parse %s as YAML: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("eventflow: failed to parse %s as TOML: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("eventflow: unsupported program document extension %q", filepath.Ext(path))
	}

	return l.convertDocument(&wire)
}

func (l *Loader) convertDocument(wire *wireDocument) (*domain.ProgramDocument, error) {
	ctx := context.Background()

	main, err := l.convertBlock(ctx, wire.Main)
	if err != nil {
		return nil, fmt.Errorf("eventflow: main: %w", err)
	}

	globals := make(map[string]domain.Block, len(wire.Globals))
	for name, stmts := range wire.Globals {
		block, err := l.convertBlock(ctx, stmts)
		if err != nil {
			return nil, fmt.Errorf("eventflow: global %q: %w", name, err)
		}
		globals[name] = block
	}

	return &domain.ProgramDocument{Main: main, Globals: globals}, nil
}

func (l *Loader) convertBlock(ctx context.Context, stmts []wireStatement) (domain.Block, error) {
	block := make(domain.Block, len(stmts))
	for i, s := range stmts {
		stmt, err := l.convertStatement(ctx, s)
		if err != nil {
			return nil, err
		}
		block[i] = stmt
	}
	return block, nil
}

func (l *Loader) convertStatement(ctx context.Context, s wireStatement) (*domain.Statement, error) {
	kind, err := parseKind(s.Kind)
	if err != nil {
		return nil, err
	}

	stmt := &domain.Statement{
		Kind:             kind,
		Async:            s.Async,
		Name:             s.Name,
		BuiltIn:          s.BuiltIn,
		Label:            s.Label,
		SkipInitialCheck: s.SkipInitialCheck,
		BreakLabel:       s.BreakLabel,
	}

	var err2 error
	if stmt.Expr, err2 = l.resolve(ctx, s.Expr); err2 != nil {
		return nil, err2
	}
	if stmt.Pattern, err2 = l.resolve(ctx, s.Pattern); err2 != nil {
		return nil, err2
	}
	if stmt.Init, err2 = l.resolve(ctx, s.Init); err2 != nil {
		return nil, err2
	}
	if stmt.Cond, err2 = l.resolve(ctx, s.Cond); err2 != nil {
		return nil, err2
	}
	if stmt.Iter, err2 = l.resolve(ctx, s.Iter); err2 != nil {
		return nil, err2
	}

	if s.Params != nil {
		params := make(map[string]domain.Value, len(s.Params))
		for name, v := range s.Params {
			value, err := l.convertValue(ctx, v)
			if err != nil {
				return nil, fmt.Errorf("param %q: %w", name, err)
			}
			params[name] = value
		}
		stmt.Params = params
	}

	if s.Value != nil {
		value, err := l.convertValue(ctx, *s.Value)
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		stmt.Value = &value
	}

	for _, b := range s.Branches {
		condition, err := l.resolve(ctx, b.Condition)
		if err != nil {
			return nil, err
		}
		body, err := l.convertBlock(ctx, b.Body)
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, domain.Branch{Condition: condition, Body: body})
	}

	if s.Otherwise != nil {
		otherwise, err := l.convertBlock(ctx, s.Otherwise)
		if err != nil {
			return nil, err
		}
		stmt.Otherwise = otherwise
	}

	if s.Body != nil {
		body, err := l.convertBlock(ctx, s.Body)
		if err != nil {
			return nil, err
		}
		stmt.Body = body
	}

	return stmt, nil
}

func (l *Loader) convertValue(ctx context.Context, v wireValue) (domain.Value, error) {
	if v.Expr == "" {
		return domain.Value{Literal: v.Literal}, nil
	}
	expr, err := l.resolve(ctx, v.Expr)
	if err != nil {
		return domain.Value{}, err
	}
	return domain.Value{Expr: expr}, nil
}

func (l *Loader) resolve(ctx context.Context, ref string) (domain.Expression, error) {
	if ref == "" {
		return nil, nil
	}
	return l.exprs.Resolve(ctx, ref)
}

func parseKind(s string) (domain.StatementKind, error) {
	switch s {
	case "expression":
		return domain.StmtExpression, nil
	case "call":
		return domain.StmtCall, nil
	case "return":
		return domain.StmtReturn, nil
	case "if":
		return domain.StmtIf, nil
	case "switch":
		return domain.StmtSwitch, nil
	case "loop":
		return domain.StmtLoop, nil
	case "break":
		return domain.StmtBreak, nil
	case "continue":
		return domain.StmtContinue, nil
	case "exit":
		return domain.StmtExit, nil
	default:
		return 0, fmt.Errorf("eventflow: unknown statement kind %q", s)
	}
}
