package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"ragchunk/internal/adapter/analyzer"
	"ragchunk/internal/adapter/chunker"
	"ragchunk/internal/adapter/dataset"
	"ragchunk/internal/adapter/fs"
	"ragchunk/internal/adapter/memstore"
	"ragchunk/internal/adapter/store"
	"ragchunk/internal/port"
	"ragchunk/internal/usecase"
)

var (
	buildOut     string
	buildWorkers int
	buildNoCache bool
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Build the baseline and semantic datasets",
	Long: `Chunk every selected source file under path twice, once with fixed-size
windows and once by component, and write the results as
dataset_baseline.json, dataset_ours.json and manifest.json.

Unchanged files are served from .ragchunk/cache.db unless --no-cache is set.

Examples:
  ragchunk build .                  # Build from current directory
  ragchunk build ./src -o out       # Write datasets to ./src/out
  ragchunk build --workers 8 --no-cache`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output directory (default from config)")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (default from config)")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "ignore and do not update the chunk cache")
}

func runBuild(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()
	if buildOut != "" {
		cfg.Output.Dir = buildOut
	}
	if buildWorkers > 0 {
		cfg.Index.Workers = buildWorkers
	}

	cache, err := openCache(path, !buildNoCache && cfg.Cache.Enabled)
	if err != nil {
		return err
	}
	defer cache.Close()

	tokenizer := analyzer.NewTokenizer(true)
	baseline, err := chunker.NewFixedChunker(cfg.Baseline.Size, cfg.Baseline.Overlap, cfg.Baseline.MinLength, tokenizer)
	if err != nil {
		return err
	}

	selector := fs.NewSelector(
		fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes),
		fs.NewWalker(cfg.Index.Includes, cfg.Index.FallbackExcludes),
		cfg.Index.MinFiles,
	)
	sink := dataset.NewJSONStore(cfg.OutputDir(path))

	buildUC := usecase.NewBuildUseCase(
		selector,
		fs.OSReader{},
		newSemanticChunker(cfg),
		baseline,
		cache,
		sink,
		cfg.Hash(),
		cfg.Index.Workers,
	)

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progressCallback := func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Chunking[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(done)

		elapsed := time.Since(startTime)
		if rate := float64(done) / elapsed.Seconds(); rate > 0 {
			eta := time.Duration(float64(total-done)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]Chunking[reset] ETA: %s", formatDuration(eta)))
		}
	}

	result, err := buildUC.Build(cmd.Context(), path, progressCallback)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("\nBuild complete:\n")
	fmt.Printf("  Files chunked:   %d\n", result.FilesProcessed)
	fmt.Printf("  Files cached:    %d (unchanged)\n", result.FilesCached)
	fmt.Printf("  Files skipped:   %d (unparseable)\n", result.FilesFailed)
	fmt.Printf("  Baseline chunks: %d\n", result.BaselineChunks)
	fmt.Printf("  Semantic chunks: %d\n", result.SemanticChunks)
	if result.Fallback {
		fmt.Printf("  Selection:       widened (fewer than %d files matched)\n", cfg.Index.MinFiles)
	}
	fmt.Printf("  Took:            %s\n", formatDuration(result.Duration))

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("\nDatasets written to: %s\n", sink.Dir())
	return nil
}

// openCache opens the on-disk chunk cache, migrating it to the current
// configuration. A disabled cache is replaced by a process-local one.
func openCache(root string, enabled bool) (port.ChunkCache, error) {
	cfg := GetConfig()
	if !enabled {
		return memstore.NewMemoryStore(), nil
	}

	if err := cfg.EnsureCacheDir(root); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := cfg.CacheDBPath(root)
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk cache: %w", err)
	}

	migration, err := st.Migrate(cfg.Hash())
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to migrate chunk cache: %w", err)
	}
	if migration.NeedsClear {
		log.Info().Str("reason", migration.Reason).Msg("chunk cache cleared")
	}
	return st, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
