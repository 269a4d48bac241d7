package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"ragchunk/internal/domain"
	"ragchunk/internal/port"
)

// FixedChunker is the structure-blind baseline: fixed windows of runes
// with a constant overlap.
type FixedChunker struct {
	size      int
	overlap   int
	minLength int
	tokenizer port.Tokenizer
}

func NewFixedChunker(size, overlap, minLength int, tokenizer port.Tokenizer) (*FixedChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("baseline chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("baseline overlap must be in [0, %d), got %d", size, overlap)
	}
	return &FixedChunker{
		size:      size,
		overlap:   overlap,
		minLength: minLength,
		tokenizer: tokenizer,
	}, nil
}

// Chunk windows content every size-overlap runes. Windows shorter than
// minLength, which only happen at the tail, are dropped as noise.
func (c *FixedChunker) Chunk(doc domain.Document, content string) []domain.BaselineChunk {
	runes := []rune(content)
	step := c.size - c.overlap

	var chunks []domain.BaselineChunk
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		if end-start < c.minLength {
			continue
		}

		text := string(runes[start:end])
		chunk := domain.BaselineChunk{
			ID:       generateChunkID(doc.ID, start, end),
			Kind:     domain.BaselineKind,
			Content:  text,
			Offset:   start,
			Metadata: domain.BaselineMetadata,
			FilePath: doc.RelPath,
		}
		if c.tokenizer != nil {
			chunk.TokenCount = c.tokenizer.CountTokens(text)
		}
		chunks = append(chunks, chunk)
	}

	return chunks
}

func generateChunkID(docID string, start, end int) string {
	data := fmt.Sprintf("%s:%d-%d", docID, start, end)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}
