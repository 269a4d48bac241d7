package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ragchunk/internal/domain"
)

const (
	BaselineFile = "dataset_baseline.json"
	SemanticFile = "dataset_ours.json"
	ManifestFile = "manifest.json"
)

var ErrDatasetNotFound = errors.New("dataset not found")

// JSONStore writes and reads the two datasets and the run manifest as
// indented JSON files in one directory.
type JSONStore struct {
	dir string
}

func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

func (s *JSONStore) Dir() string {
	return s.dir
}

func (s *JSONStore) Write(ds domain.Datasets, manifest domain.Manifest) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	baseline := ds.Baseline
	if baseline == nil {
		baseline = []domain.BaselineChunk{}
	}
	semantic := ds.Semantic
	if semantic == nil {
		semantic = []domain.Chunk{}
	}

	if err := writeJSON(filepath.Join(s.dir, BaselineFile), baseline); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(s.dir, SemanticFile), semantic); err != nil {
		return err
	}
	return writeJSON(filepath.Join(s.dir, ManifestFile), manifest)
}

func (s *JSONStore) Load() (domain.Datasets, domain.Manifest, error) {
	var ds domain.Datasets
	var manifest domain.Manifest

	if err := readJSON(filepath.Join(s.dir, BaselineFile), &ds.Baseline); err != nil {
		return ds, manifest, err
	}
	if err := readJSON(filepath.Join(s.dir, SemanticFile), &ds.Semantic); err != nil {
		return ds, manifest, err
	}
	// Datasets produced without a manifest are still usable.
	if err := readJSON(filepath.Join(s.dir, ManifestFile), &manifest); err != nil && !errors.Is(err, ErrDatasetNotFound) {
		return ds, manifest, err
	}
	return ds, manifest, nil
}

func writeJSON(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrDatasetNotFound)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
