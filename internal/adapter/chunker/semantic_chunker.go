package chunker

import (
	"context"
	"fmt"

	"ragchunk/internal/domain"
	"ragchunk/internal/port"
)

// SemanticChunker parses a file and assembles its component chunks.
type SemanticChunker struct {
	provider  port.SyntaxTreeProvider
	assembler *Assembler
	tokenizer port.Tokenizer
}

func NewSemanticChunker(provider port.SyntaxTreeProvider, opts Options, tokenizer port.Tokenizer) *SemanticChunker {
	return &SemanticChunker{
		provider:  provider,
		assembler: NewAssembler(opts),
		tokenizer: tokenizer,
	}
}

// Chunk returns the file's chunks with FilePath and TokenCount filled in.
// The parse tree is released before returning.
func (c *SemanticChunker) Chunk(ctx context.Context, doc domain.Document, source []byte) ([]domain.Chunk, error) {
	tree, err := c.provider.Parse(ctx, doc.Path, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", doc.RelPath, err)
	}
	defer tree.Close()

	chunks := c.assembler.Assemble(tree.Root(), tree.Source())
	for i := range chunks {
		chunks[i].FilePath = doc.RelPath
		if c.tokenizer != nil {
			chunks[i].TokenCount = c.tokenizer.CountTokens(chunks[i].Content)
		}
	}
	return chunks, nil
}

// Declarations parses source and lists every declaration candidate.
func (c *SemanticChunker) Declarations(ctx context.Context, doc domain.Document, source []byte) ([]domain.Declaration, error) {
	tree, err := c.provider.Parse(ctx, doc.Path, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", doc.RelPath, err)
	}
	defer tree.Close()

	return c.assembler.Declarations(tree.Root(), tree.Source()), nil
}
