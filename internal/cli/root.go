package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ragchunk/config"
	"ragchunk/internal/adapter/analyzer"
	"ragchunk/internal/adapter/chunker"
	"ragchunk/internal/adapter/syntax"
)

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "ragchunk",
	Short: "Build fixed-size and component-aware chunk datasets from React sources",
	Long: `ragchunk walks a React/TypeScript source tree and writes two parallel
datasets for retrieval experiments: a fixed-size baseline that ignores
structure, and a semantic dataset with one signature, logic and view chunk
per component.

Example usage:
  ragchunk build ./src               # Write dataset/dataset_*.json
  ragchunk inspect                   # Chunk one representative file
  ragchunk outline src/Button.tsx    # List declaration candidates
  ragchunk compare --seed 42         # View one file in both datasets`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		return setupLogging(cfg.Logging.Level)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./ragchunk.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	return nil
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func chunkerOptions(cfg *config.Config) chunker.Options {
	return chunker.Options{
		LogicPrefix:   cfg.Chunking.LogicPrefix,
		ViewKinds:     cfg.Chunking.ViewKinds,
		FunctionKinds: cfg.Chunking.FunctionKinds,
		BindingKinds:  cfg.Chunking.BindingKinds,
		BindingNode:   cfg.Chunking.BindingNode,
	}
}

func newSemanticChunker(cfg *config.Config) *chunker.SemanticChunker {
	return chunker.NewSemanticChunker(
		syntax.NewTreeSitterProvider(cfg.Chunking.StrictSyntax),
		chunkerOptions(cfg),
		analyzer.NewTokenizer(true),
	)
}
