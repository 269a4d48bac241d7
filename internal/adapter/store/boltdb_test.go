package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchunk/internal/domain"
)

func openStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func entry(path string, modTime int64, hash string) domain.FileChunks {
	return domain.FileChunks{
		Path:       path,
		ModTime:    modTime,
		ConfigHash: hash,
		Semantic: []domain.Chunk{{
			ID:      "Button_signature_1",
			Kind:    domain.KindSignature,
			Parent:  "Button",
			Content: "Component: Button",
			Line:    1,
			EndLine: 1,
		}},
		Baseline: []domain.BaselineChunk{{
			ID:       "abc",
			Kind:     domain.BaselineKind,
			Content:  "export function Button() {}",
			Metadata: domain.BaselineMetadata,
		}},
	}
}

func TestBoltStore_GetPut(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.Get("src/Button.tsx", 1, "h")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(entry("src/Button.tsx", 1, "h")))

	got, ok, err := s.Get("src/Button.tsx", 1, "h")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry("src/Button.tsx", 1, "h"), got)

	_, ok, err = s.Get("src/Button.tsx", 2, "h")
	require.NoError(t, err)
	assert.False(t, ok, "stale mod time must miss")

	_, ok, err = s.Get("src/Button.tsx", 1, "other")
	require.NoError(t, err)
	assert.False(t, ok, "different config hash must miss")
}

func TestBoltStore_Prune(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put(entry("a.tsx", 1, "h")))
	require.NoError(t, s.Put(entry("b.tsx", 1, "h")))
	require.NoError(t, s.Put(entry("c.tsx", 1, "h")))

	removed, err := s.Prune(map[string]struct{}{"b.tsx": {}})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBoltStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(entry("a.tsx", 5, "h")))
	require.NoError(t, s.Close())

	s, err = NewBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("a.tsx", 5, "h")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBoltStore_Migrate(t *testing.T) {
	s := openStore(t)

	result, err := s.Migrate("h1")
	require.NoError(t, err)
	assert.False(t, result.NeedsClear)
	assert.Equal(t, 0, result.OldVersion)

	require.NoError(t, s.Put(entry("a.tsx", 1, "h1")))

	result, err = s.Migrate("h1")
	require.NoError(t, err)
	assert.False(t, result.NeedsClear)
	n, _ := s.Len()
	assert.Equal(t, 1, n)

	result, err = s.Migrate("h2")
	require.NoError(t, err)
	assert.True(t, result.NeedsClear)
	assert.Equal(t, "chunking configuration changed", result.Reason)
	n, _ = s.Len()
	assert.Equal(t, 0, n)

	info, err := s.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
	assert.Equal(t, "h2", info.ConfigHash)
}

func TestBoltStore_MigrateSchemaChange(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.SetSchemaInfo(&SchemaInfo{Version: CurrentSchemaVersion + 1, ConfigHash: "h"}))
	require.NoError(t, s.Put(entry("a.tsx", 1, "h")))

	result, err := s.Migrate("h")
	require.NoError(t, err)
	assert.True(t, result.NeedsClear)
	n, _ := s.Len()
	assert.Equal(t, 0, n)
}
