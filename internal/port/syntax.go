package port

import "context"

// SyntaxNode is a read-only view of one parse tree node.
type SyntaxNode interface {
	Kind() string
	// StartLine and EndLine are 1-based.
	StartLine() int
	EndLine() int
	StartByte() int
	EndByte() int
	Children() []SyntaxNode
	// Field returns the named child, or nil when the grammar has none.
	Field(name string) SyntaxNode
}

// SyntaxTree is valid until Close is called.
type SyntaxTree interface {
	Root() SyntaxNode
	Source() []byte
	Close()
}

type SyntaxTreeProvider interface {
	Parse(ctx context.Context, path string, source []byte) (SyntaxTree, error)
	Supports(path string) bool
}
