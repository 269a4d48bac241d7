package usecase

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path"
	"strings"

	"ragchunk/internal/domain"
	"ragchunk/internal/port"
)

const (
	compareBaselineLimit = 3
	comparePreviewWidth  = 75
)

var ErrFileNotInDataset = errors.New("file not in dataset")

// preferredMarkers make a file a more interesting comparison sample.
var preferredMarkers = []string{"use", "Provider"}

type CompareUseCase struct {
	source port.DatasetSource
}

func NewCompareUseCase(source port.DatasetSource) *CompareUseCase {
	return &CompareUseCase{source: source}
}

// CompareOptions selects the file to compare. File wins over Seed.
type CompareOptions struct {
	File   string
	Seed   uint64
	Seeded bool
}

// Comparison shows one file as each dataset sees it.
type Comparison struct {
	File          string
	Baseline      []domain.BaselineChunk
	BaselineTotal int
	Semantic      []domain.Chunk
}

func (u *CompareUseCase) Compare(opts CompareOptions) (*Comparison, error) {
	ds, _, err := u.source.Load()
	if err != nil {
		return nil, err
	}

	files := datasetFiles(ds)
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	var file string
	if opts.File != "" {
		file, err = matchFile(files, opts.File)
		if err != nil {
			return nil, err
		}
	} else {
		file = pickFile(files, opts)
	}

	cmp := &Comparison{File: file}
	for _, c := range ds.Baseline {
		if c.FilePath != file {
			continue
		}
		cmp.BaselineTotal++
		if len(cmp.Baseline) < compareBaselineLimit {
			cmp.Baseline = append(cmp.Baseline, c)
		}
	}
	for _, c := range ds.Semantic {
		if c.FilePath == file {
			cmp.Semantic = append(cmp.Semantic, c)
		}
	}
	return cmp, nil
}

// datasetFiles lists file paths in order of first appearance.
func datasetFiles(ds domain.Datasets) []string {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if p == "" {
			return
		}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}
	for _, c := range ds.Semantic {
		add(c.FilePath)
	}
	for _, c := range ds.Baseline {
		add(c.FilePath)
	}
	return files
}

func matchFile(files []string, want string) (string, error) {
	for _, f := range files {
		if f == want {
			return f, nil
		}
	}
	for _, f := range files {
		if path.Base(f) == want {
			return f, nil
		}
	}
	return "", fmt.Errorf("%s: %w", want, ErrFileNotInDataset)
}

func pickFile(files []string, opts CompareOptions) string {
	var preferred []string
	for _, f := range files {
		base := path.Base(f)
		for _, marker := range preferredMarkers {
			if strings.Contains(base, marker) {
				preferred = append(preferred, f)
				break
			}
		}
	}
	if len(preferred) > 0 {
		files = preferred
	}

	if opts.Seeded {
		r := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
		return files[r.IntN(len(files))]
	}
	return files[rand.IntN(len(files))]
}

// Preview flattens content to one line of at most comparePreviewWidth runes.
func Preview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= comparePreviewWidth {
		return flat
	}
	return string(runes[:comparePreviewWidth]) + "..."
}
