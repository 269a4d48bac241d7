package port

import "ragchunk/internal/domain"

// ChunkCache remembers per-file chunk output between builds.
type ChunkCache interface {
	// Get returns the cached entry when path, modTime and configHash all match.
	Get(path string, modTime int64, configHash string) (domain.FileChunks, bool, error)

	Put(entry domain.FileChunks) error

	// Prune drops entries whose path is not in keep and reports how many were removed.
	Prune(keep map[string]struct{}) (int, error)

	Close() error
}
