package chunker

import (
	"fmt"
	"strings"

	"ragchunk/internal/domain"
	"ragchunk/internal/port"
)

// Classifier extracts logic and view units from one declaration's subtree.
// A classified node is emitted whole and never descended into.
type Classifier struct {
	prefix    string
	viewKinds map[string]struct{}
	locator   *Locator
}

func NewClassifier(opts Options, locator *Locator) *Classifier {
	return &Classifier{
		prefix:    opts.LogicPrefix,
		viewKinds: toSet(opts.ViewKinds),
		locator:   locator,
	}
}

// Classify returns the logic and view chunks under decl in document order.
func (c *Classifier) Classify(decl port.SyntaxNode, parent string, src []byte) []domain.Chunk {
	var chunks []domain.Chunk
	c.visit(decl, decl, parent, src, &chunks)
	return chunks
}

func (c *Classifier) visit(n, decl port.SyntaxNode, parent string, src []byte, out *[]domain.Chunk) {
	// A nested component owns its own units; the locator reaches it separately.
	if n != decl && c.locator != nil && c.locator.accepts(n, src) {
		return
	}

	if c.isLogicUnit(n, src) {
		*out = append(*out, newChunk(domain.KindLogic, parent, n, src))
		return
	}

	if n.Kind() == kindReturn {
		for _, child := range n.Children() {
			if has(c.viewKinds, child.Kind()) {
				*out = append(*out, newChunk(domain.KindView, parent, child, src))
				return
			}
		}
	}

	for _, child := range n.Children() {
		c.visit(child, decl, parent, src, out)
	}
}

func (c *Classifier) isLogicUnit(n port.SyntaxNode, src []byte) bool {
	if n.Kind() != kindCall || c.prefix == "" {
		return false
	}
	callee := n.Field(fieldCallee)
	if callee == nil {
		return false
	}
	return strings.HasPrefix(nodeText(callee, src), c.prefix)
}

func newChunk(kind domain.ChunkKind, parent string, n port.SyntaxNode, src []byte) domain.Chunk {
	return domain.Chunk{
		ID:        chunkID(parent, kind, n.StartLine()),
		Kind:      kind,
		Parent:    parent,
		Content:   nodeText(n, src),
		Line:      n.StartLine(),
		EndLine:   n.EndLine(),
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
	}
}

func chunkID(parent string, kind domain.ChunkKind, line int) string {
	return fmt.Sprintf("%s_%s_%d", parent, kind, line)
}
