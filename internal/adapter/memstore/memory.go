package memstore

import (
	"sync"

	"ragchunk/internal/domain"
)

// MemoryStore is a process-local chunk cache, used when the on-disk cache
// is disabled.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]domain.FileChunks
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files: make(map[string]domain.FileChunks),
	}
}

func (s *MemoryStore) Get(path string, modTime int64, configHash string) (domain.FileChunks, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.files[path]
	if !ok || entry.ModTime != modTime || entry.ConfigHash != configHash {
		return domain.FileChunks{}, false, nil
	}
	return entry, true, nil
}

func (s *MemoryStore) Put(entry domain.FileChunks) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[entry.Path] = entry
	return nil
}

func (s *MemoryStore) Prune(keep map[string]struct{}) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for path := range s.files {
		if _, ok := keep[path]; !ok {
			delete(s.files, path)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

func (s *MemoryStore) Close() error {
	return nil
}
