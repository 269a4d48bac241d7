package fs

import (
	"github.com/rs/zerolog/log"

	"ragchunk/internal/port"
)

// Selection is the outcome of file selection for one build.
type Selection struct {
	Files    []port.FileInfo
	Fallback bool
}

// Selector applies the primary walker and widens to the fallback walker
// when the primary finds fewer than minFiles files.
type Selector struct {
	primary  port.FileWalker
	fallback port.FileWalker
	minFiles int
}

func NewSelector(primary, fallback port.FileWalker, minFiles int) *Selector {
	return &Selector{primary: primary, fallback: fallback, minFiles: minFiles}
}

func (s *Selector) Select(root string) (Selection, error) {
	files, err := s.primary.Walk(root)
	if err != nil {
		return Selection{}, err
	}
	if len(files) >= s.minFiles || s.fallback == nil {
		return Selection{Files: files}, nil
	}

	log.Info().Int("selected", len(files)).Int("min_files", s.minFiles).Msg("too few source files, widening selection")
	wider, err := s.fallback.Walk(root)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Files: wider, Fallback: true}, nil
}
