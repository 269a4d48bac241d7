package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ragchunk/internal/adapter/fs"
	"ragchunk/internal/adapter/syntax"
	"ragchunk/internal/domain"
	"ragchunk/internal/port"
)

var ErrNoFiles = errors.New("no source files found")

// ProgressFunc is called once per finished file. It may be called from
// several goroutines.
type ProgressFunc func(done, total int)

// BuildUseCase runs the pipeline: select files, chunk each one both ways,
// and write the two datasets.
type BuildUseCase struct {
	selector   *fs.Selector
	reader     port.FileReader
	semantic   port.SemanticChunker
	baseline   port.BaselineChunker
	cache      port.ChunkCache
	sink       port.DatasetSink
	configHash string
	workers    int
}

// NewBuildUseCase creates a build use case. cache may be nil.
func NewBuildUseCase(
	selector *fs.Selector,
	reader port.FileReader,
	semantic port.SemanticChunker,
	baseline port.BaselineChunker,
	cache port.ChunkCache,
	sink port.DatasetSink,
	configHash string,
	workers int,
) *BuildUseCase {
	if workers <= 0 {
		workers = 1
	}
	return &BuildUseCase{
		selector:   selector,
		reader:     reader,
		semantic:   semantic,
		baseline:   baseline,
		cache:      cache,
		sink:       sink,
		configHash: configHash,
		workers:    workers,
	}
}

// BuildResult contains the results of a build.
type BuildResult struct {
	Manifest       domain.Manifest
	FilesProcessed int
	FilesCached    int
	FilesFailed    int
	FilesPruned    int
	BaselineChunks int
	SemanticChunks int
	Fallback       bool
	Errors         []string
	Duration       time.Duration
}

type fileResult struct {
	entry  domain.FileChunks
	cached bool
	err    error
}

// Build chunks every selected file under root. A file that cannot be read
// or parsed is skipped and reported in Errors; the batch continues.
func (u *BuildUseCase) Build(ctx context.Context, root string, progress ProgressFunc) (*BuildResult, error) {
	start := time.Now()

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	selection, err := u.selector.Select(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	if len(selection.Files) == 0 {
		return nil, fmt.Errorf("%s: %w", root, ErrNoFiles)
	}
	files := selection.Files

	// One slot per file keeps output in file order regardless of scheduling.
	results := make([]fileResult, len(files))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, cached, err := u.processFile(gctx, file)
			results[i] = fileResult{entry: entry, cached: cached, err: err}
			if progress != nil {
				progress(int(done.Add(1)), len(files))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BuildResult{Fallback: selection.Fallback}
	var ds domain.Datasets
	keep := make(map[string]struct{}, len(files))

	for i, r := range results {
		keep[files[i].RelPath] = struct{}{}
		if r.err != nil {
			log.Warn().Err(r.err).Str("file", files[i].RelPath).Msg("skipping file")
			result.FilesFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", files[i].RelPath, r.err))
			continue
		}
		if r.cached {
			result.FilesCached++
		} else {
			result.FilesProcessed++
		}
		ds.Baseline = append(ds.Baseline, r.entry.Baseline...)
		ds.Semantic = append(ds.Semantic, r.entry.Semantic...)
	}

	if u.cache != nil {
		pruned, err := u.cache.Prune(keep)
		if err != nil {
			log.Warn().Err(err).Msg("failed to prune chunk cache")
		}
		result.FilesPruned = pruned
	}

	result.BaselineChunks = len(ds.Baseline)
	result.SemanticChunks = len(ds.Semantic)
	result.Manifest = domain.Manifest{
		RunID:          uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Root:           root,
		Files:          result.FilesProcessed + result.FilesCached,
		FilesFailed:    result.FilesFailed,
		BaselineChunks: result.BaselineChunks,
		SemanticChunks: result.SemanticChunks,
		ConfigHash:     u.configHash,
		Fallback:       selection.Fallback,
	}

	if err := u.sink.Write(ds, result.Manifest); err != nil {
		return nil, fmt.Errorf("failed to write datasets: %w", err)
	}

	result.Duration = time.Since(start)
	log.Debug().
		Int("processed", result.FilesProcessed).
		Int("cached", result.FilesCached).
		Int("failed", result.FilesFailed).
		Dur("took", result.Duration).
		Msg("build finished")

	return result, nil
}

// processFile returns the file's chunks, reusing the cache when the file
// is unchanged. A parse failure drops the file from both datasets.
func (u *BuildUseCase) processFile(ctx context.Context, file port.FileInfo) (domain.FileChunks, bool, error) {
	if u.cache != nil {
		entry, ok, err := u.cache.Get(file.RelPath, file.ModTime, u.configHash)
		if err != nil {
			log.Warn().Err(err).Str("file", file.RelPath).Msg("chunk cache lookup failed")
		} else if ok {
			return entry, true, nil
		}
	}

	source, err := u.reader.ReadFile(file.Path)
	if err != nil {
		return domain.FileChunks{}, false, fmt.Errorf("failed to read file: %w", err)
	}

	doc := newDocument(file)
	semantic, err := u.semantic.Chunk(ctx, doc, source)
	if err != nil {
		return domain.FileChunks{}, false, err
	}

	entry := domain.FileChunks{
		Path:       file.RelPath,
		ModTime:    file.ModTime,
		ConfigHash: u.configHash,
		Baseline:   u.baseline.Chunk(doc, string(source)),
		Semantic:   semantic,
	}

	if u.cache != nil {
		if err := u.cache.Put(entry); err != nil {
			log.Warn().Err(err).Str("file", file.RelPath).Msg("failed to cache chunks")
		}
	}
	return entry, false, nil
}

func newDocument(file port.FileInfo) domain.Document {
	return domain.Document{
		ID:      generateDocID(file.RelPath),
		Path:    file.Path,
		RelPath: file.RelPath,
		ModTime: time.Unix(0, file.ModTime),
		Lang:    syntax.Language(file.Path),
	}
}

// generateDocID creates a stable ID for a document based on its path.
func generateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}
