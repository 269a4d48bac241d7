package port

import (
	"context"

	"ragchunk/internal/domain"
)

// SemanticChunker turns one source file into component-scoped chunks.
type SemanticChunker interface {
	Chunk(ctx context.Context, doc domain.Document, source []byte) ([]domain.Chunk, error)
}

// BaselineChunker splits text into fixed-size windows with no structure.
type BaselineChunker interface {
	Chunk(doc domain.Document, content string) []domain.BaselineChunk
}
