package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"ragchunk/internal/domain"
)

var (
	bucketFiles = []byte("files")
	bucketMeta  = []byte("meta")
)

// BoltStore caches per-file chunk output between builds, keyed by the
// file's path relative to the build root.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketFiles, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Get returns the cached entry for path when it was built from the same
// file version under the same chunking configuration.
func (s *BoltStore) Get(path string, modTime int64, configHash string) (domain.FileChunks, bool, error) {
	var entry domain.FileChunks
	var found bool

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFiles).Get([]byte(path))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return fmt.Errorf("decode cache entry %s: %w", path, err)
		}
		found = entry.ModTime == modTime && entry.ConfigHash == configHash
		return nil
	})
	if err != nil || !found {
		return domain.FileChunks{}, false, err
	}
	return entry, true, nil
}

func (s *BoltStore) Put(entry domain.FileChunks) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).Put([]byte(entry.Path), data)
	})
}

// Prune drops entries for files no longer selected and reports how many
// were removed.
func (s *BoltStore) Prune(keep map[string]struct{}) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		var stale [][]byte
		err := b.ForEach(func(k, _ []byte) error {
			if _, ok := keep[string(k)]; !ok {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Len returns the number of cached files.
func (s *BoltStore) Len() (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketFiles).Stats().KeyN
		return nil
	})
	return n, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
