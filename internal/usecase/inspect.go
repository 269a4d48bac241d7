package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ragchunk/internal/domain"
	"ragchunk/internal/port"
)

// skipMarkers rule a file out as an inspect sample.
var skipMarkers = []string{".spec.", ".test.", "index.", "demo"}

// InspectUseCase chunks a single file without writing any dataset.
type InspectUseCase struct {
	walker   port.FileWalker
	reader   port.FileReader
	semantic port.SemanticChunker
}

func NewInspectUseCase(walker port.FileWalker, reader port.FileReader, semantic port.SemanticChunker) *InspectUseCase {
	return &InspectUseCase{
		walker:   walker,
		reader:   reader,
		semantic: semantic,
	}
}

// InspectResult holds one file's semantic chunks.
type InspectResult struct {
	File   string
	Chunks []domain.Chunk
	Counts map[domain.ChunkKind]int
}

// Pick chooses a representative file under root: the first .tsx file that
// is not a test, spec, index or demo file, else the first file found.
func (u *InspectUseCase) Pick(root string) (port.FileInfo, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return port.FileInfo{}, fmt.Errorf("failed to walk directory: %w", err)
	}
	if len(files) == 0 {
		return port.FileInfo{}, fmt.Errorf("%s: %w", root, ErrNoFiles)
	}

	for _, f := range files {
		if filepath.Ext(f.RelPath) == ".tsx" && !hasSkipMarker(f.RelPath) {
			return f, nil
		}
	}
	return files[0], nil
}

// Inspect chunks path, or a picked file under root when path is empty.
func (u *InspectUseCase) Inspect(ctx context.Context, root, path string) (*InspectResult, error) {
	var file port.FileInfo
	if path == "" {
		picked, err := u.Pick(root)
		if err != nil {
			return nil, err
		}
		file = picked
	} else {
		f, err := statFile(root, path)
		if err != nil {
			return nil, err
		}
		file = f
	}

	source, err := u.reader.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	chunks, err := u.semantic.Chunk(ctx, newDocument(file), source)
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.ChunkKind]int)
	for _, c := range chunks {
		counts[c.Kind]++
	}
	return &InspectResult{File: file.RelPath, Chunks: chunks, Counts: counts}, nil
}

func hasSkipMarker(path string) bool {
	for _, marker := range skipMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// statFile describes path, naming it relative to root when it lies inside.
func statFile(root, path string) (port.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return port.FileInfo{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return port.FileInfo{}, err
	}
	if info.IsDir() {
		return port.FileInfo{}, fmt.Errorf("%s is a directory", path)
	}

	rel := filepath.Base(abs)
	if root != "" {
		if absRoot, err := filepath.Abs(root); err == nil {
			if r, err := filepath.Rel(absRoot, abs); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
	}

	return port.FileInfo{
		Path:    abs,
		RelPath: filepath.ToSlash(rel),
		ModTime: info.ModTime().UnixNano(),
		Size:    info.Size(),
	}, nil
}
