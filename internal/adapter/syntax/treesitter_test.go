package syntax

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchunk/internal/port"
)

func TestParse_TSX(t *testing.T) {
	src := []byte("function Button() {\n  return <div/>;\n}\n")
	tree, err := NewTreeSitterProvider(false).Parse(context.Background(), "Button.tsx", src)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, "program", root.Kind())
	assert.Equal(t, src, tree.Source())

	children := root.Children()
	require.Len(t, children, 1)
	fn := children[0]
	assert.Equal(t, "function_declaration", fn.Kind())
	assert.Equal(t, 1, fn.StartLine())
	assert.Equal(t, 3, fn.EndLine())

	name := fn.Field("name")
	require.NotNil(t, name)
	assert.Equal(t, "identifier", name.Kind())
	assert.Equal(t, "Button", string(src[name.StartByte():name.EndByte()]))

	assert.Nil(t, fn.Field("no_such_field"))
}

func TestParse_ReturnJSXKinds(t *testing.T) {
	src := []byte("function A() { return <b/>; }")
	tree, err := NewTreeSitterProvider(false).Parse(context.Background(), "A.tsx", src)
	require.NoError(t, err)
	defer tree.Close()

	var kinds []string
	var visit func(n port.SyntaxNode)
	visit = func(n port.SyntaxNode) {
		if n.Kind() == "return_statement" {
			for _, c := range n.Children() {
				kinds = append(kinds, c.Kind())
			}
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(tree.Root())

	assert.Contains(t, kinds, "jsx_self_closing_element")
}

func TestParse_Errors(t *testing.T) {
	p := NewTreeSitterProvider(false)

	_, err := p.Parse(context.Background(), "README.md", []byte("# readme"))
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))

	_, err = p.Parse(context.Background(), "x.ts", []byte{0xc3, 0x28})
	assert.True(t, errors.Is(err, ErrUnparseable))
}

func TestParse_Strict(t *testing.T) {
	broken := []byte("function Broken( { return <div>; }")

	tree, err := NewTreeSitterProvider(false).Parse(context.Background(), "Broken.tsx", broken)
	require.NoError(t, err)
	tree.Close()

	_, err = NewTreeSitterProvider(true).Parse(context.Background(), "Broken.tsx", broken)
	assert.True(t, errors.Is(err, ErrUnparseable))
}

func TestLanguageAndSupports(t *testing.T) {
	p := NewTreeSitterProvider(false)
	tests := []struct {
		path     string
		lang     string
		supports bool
	}{
		{"a/Button.tsx", "tsx", true},
		{"a/Button.JSX", "tsx", true},
		{"a/util.ts", "typescript", true},
		{"a/index.mjs", "javascript", true},
		{"a/style.css", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.lang, Language(tt.path), tt.path)
		assert.Equal(t, tt.supports, p.Supports(tt.path), tt.path)
	}
}
