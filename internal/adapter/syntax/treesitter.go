// Package syntax adapts tree-sitter parse trees to port.SyntaxNode.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"ragchunk/internal/port"
)

var (
	ErrUnparseable         = errors.New("unparseable source")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// grammars maps file extensions to tree-sitter languages. JSX goes through
// the TSX grammar so both produce the same jsx_* node kinds.
var grammars = map[string]func() *sitter.Language{
	".tsx": tsx.GetLanguage,
	".jsx": tsx.GetLanguage,
	".ts":  typescript.GetLanguage,
	".mts": typescript.GetLanguage,
	".cts": typescript.GetLanguage,
	".js":  javascript.GetLanguage,
	".mjs": javascript.GetLanguage,
	".cjs": javascript.GetLanguage,
}

// TreeSitterProvider parses TypeScript-family sources. A new sitter.Parser
// is created per call, so one provider may be shared across goroutines.
type TreeSitterProvider struct {
	strict bool
}

// NewTreeSitterProvider creates a provider. With strict set, trees that
// contain ERROR nodes are rejected instead of being chunked best-effort.
func NewTreeSitterProvider(strict bool) *TreeSitterProvider {
	return &TreeSitterProvider{strict: strict}
}

// Language returns the grammar name used for path, or "" if none applies.
func Language(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return "tsx"
	case ".ts", ".mts", ".cts":
		return "typescript"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	default:
		return ""
	}
}

func (p *TreeSitterProvider) Supports(path string) bool {
	_, ok := grammars[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (p *TreeSitterProvider) Parse(ctx context.Context, path string, source []byte) (port.SyntaxTree, error) {
	lang, ok := grammars[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filepath.Ext(path))
	}
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrUnparseable, path)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang())

	t, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	root := t.RootNode()
	if root == nil {
		t.Close()
		return nil, fmt.Errorf("%w: %s produced no tree", ErrUnparseable, path)
	}
	if p.strict && root.HasError() {
		t.Close()
		return nil, fmt.Errorf("%w: %s has syntax errors", ErrUnparseable, path)
	}

	return &tree{t: t, src: source}, nil
}

type tree struct {
	t   *sitter.Tree
	src []byte
}

func (t *tree) Root() port.SyntaxNode { return wrap(t.t.RootNode()) }

func (t *tree) Source() []byte { return t.src }

func (t *tree) Close() { t.t.Close() }

type node struct {
	n *sitter.Node
}

// wrap keeps absent children as an untyped nil so callers can compare
// against nil directly.
func wrap(n *sitter.Node) port.SyntaxNode {
	if n == nil || n.IsNull() {
		return nil
	}
	return node{n: n}
}

func (n node) Kind() string   { return n.n.Type() }
func (n node) StartLine() int { return int(n.n.StartPoint().Row) + 1 }
func (n node) EndLine() int   { return int(n.n.EndPoint().Row) + 1 }
func (n node) StartByte() int { return int(n.n.StartByte()) }
func (n node) EndByte() int   { return int(n.n.EndByte()) }

func (n node) Children() []port.SyntaxNode {
	count := int(n.n.ChildCount())
	children := make([]port.SyntaxNode, 0, count)
	for i := 0; i < count; i++ {
		if c := wrap(n.n.Child(i)); c != nil {
			children = append(children, c)
		}
	}
	return children
}

func (n node) Field(name string) port.SyntaxNode {
	return wrap(n.n.ChildByFieldName(name))
}
