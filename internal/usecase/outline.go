package usecase

import (
	"bytes"
	"context"
	"fmt"

	"ragchunk/internal/domain"
	"ragchunk/internal/port"
)

// DeclarationLister lists every declaration candidate in a source file.
type DeclarationLister interface {
	Declarations(ctx context.Context, doc domain.Document, source []byte) ([]domain.Declaration, error)
}

// OutlineEntry is a declaration candidate with its first source line.
type OutlineEntry struct {
	domain.Declaration
	FirstLine string
}

type OutlineUseCase struct {
	reader port.FileReader
	lister DeclarationLister
}

func NewOutlineUseCase(reader port.FileReader, lister DeclarationLister) *OutlineUseCase {
	return &OutlineUseCase{reader: reader, lister: lister}
}

// Outline lists accepted and rejected declarations of one file in source order.
func (u *OutlineUseCase) Outline(ctx context.Context, path string) ([]OutlineEntry, error) {
	file, err := statFile("", path)
	if err != nil {
		return nil, err
	}
	source, err := u.reader.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	decls, err := u.lister.Declarations(ctx, newDocument(file), source)
	if err != nil {
		return nil, err
	}

	lines := bytes.Split(source, []byte("\n"))
	entries := make([]OutlineEntry, 0, len(decls))
	for _, d := range decls {
		entry := OutlineEntry{Declaration: d}
		if d.StartLine >= 1 && d.StartLine <= len(lines) {
			entry.FirstLine = string(bytes.TrimSpace(lines[d.StartLine-1]))
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
