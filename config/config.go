package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "RAGCHUNK"

// Config holds all configuration for the dataset builder.
type Config struct {
	Index    IndexConfig    `yaml:"index"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Baseline BaselineConfig `yaml:"baseline"`
	Output   OutputConfig   `yaml:"output"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// IndexConfig controls which files are selected.
type IndexConfig struct {
	Includes []string `yaml:"includes" ignored:"true"`
	Excludes []string `yaml:"excludes" ignored:"true"`
	// FallbackExcludes replaces Excludes when fewer than MinFiles are selected.
	FallbackExcludes []string `yaml:"fallback_excludes" ignored:"true"`
	MinFiles         int      `yaml:"min_files" envconfig:"MIN_FILES"`
	Workers          int      `yaml:"workers" envconfig:"WORKERS"`
}

// ChunkingConfig holds the semantic chunker vocabulary.
type ChunkingConfig struct {
	LogicPrefix   string   `yaml:"logic_prefix" envconfig:"LOGIC_PREFIX"`
	ViewKinds     []string `yaml:"view_kinds" envconfig:"VIEW_KINDS"`
	FunctionKinds []string `yaml:"function_kinds" envconfig:"FUNCTION_KINDS"`
	BindingKinds  []string `yaml:"binding_kinds" envconfig:"BINDING_KINDS"`
	BindingNode   string   `yaml:"binding_node" envconfig:"BINDING_NODE"`
	StrictSyntax  bool     `yaml:"strict_syntax" envconfig:"STRICT_SYNTAX"`
}

// BaselineConfig holds the fixed-size chunker settings, in runes.
type BaselineConfig struct {
	Size      int `yaml:"size" envconfig:"BASELINE_SIZE"`
	Overlap   int `yaml:"overlap" envconfig:"BASELINE_OVERLAP"`
	MinLength int `yaml:"min_length" envconfig:"BASELINE_MIN_LENGTH"`
}

// OutputConfig holds dataset output settings.
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"OUTPUT_DIR"`
}

// CacheConfig holds incremental build cache settings.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"CACHE_ENABLED"`
	Path    string `yaml:"path" envconfig:"CACHE_PATH"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Includes:         []string{"**/*.tsx"},
			Excludes:         []string{"**/node_modules/**", "**/*.test.*", "**/*.spec.*", "**/docs/**", "**/.git/**"},
			FallbackExcludes: []string{"**/node_modules/**", "**/*.test.*", "**/.git/**"},
			MinFiles:         10,
			Workers:          4,
		},
		Chunking: ChunkingConfig{
			LogicPrefix:   "use",
			ViewKinds:     []string{"parenthesized_expression", "jsx_element", "jsx_self_closing_element", "jsx_fragment"},
			FunctionKinds: []string{"function_declaration"},
			BindingKinds:  []string{"lexical_declaration"},
			BindingNode:   "variable_declarator",
			StrictSyntax:  false,
		},
		Baseline: BaselineConfig{
			Size:      500,
			Overlap:   50,
			MinLength: 50,
		},
		Output: OutputConfig{
			Dir: "dataset",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, then applies RAGCHUNK_*
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFromDir loads configuration from a directory (looks for ragchunk.yaml).
func LoadFromDir(dir string) (*Config, error) {
	for _, path := range []string{
		filepath.Join(dir, "ragchunk.yaml"),
		filepath.Join(dir, ".ragchunk", "config.yaml"),
	} {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := DefaultConfig()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides scalar settings from the environment. Flat field
// names keep variables short, e.g. RAGCHUNK_LOG_LEVEL.
func applyEnv(cfg *Config) error {
	for _, section := range []any{&cfg.Index, &cfg.Chunking, &cfg.Baseline, &cfg.Output, &cfg.Cache, &cfg.Logging} {
		if err := envconfig.Process(envPrefix, section); err != nil {
			return fmt.Errorf("env override: %w", err)
		}
	}
	return nil
}

// Validate rejects settings the chunkers cannot work with.
func (c *Config) Validate() error {
	if c.Baseline.Size <= 0 {
		return fmt.Errorf("baseline.size must be positive, got %d", c.Baseline.Size)
	}
	if c.Baseline.Overlap < 0 || c.Baseline.Overlap >= c.Baseline.Size {
		return fmt.Errorf("baseline.overlap must be in [0, %d), got %d", c.Baseline.Size, c.Baseline.Overlap)
	}
	if c.Index.Workers <= 0 {
		return fmt.Errorf("index.workers must be positive, got %d", c.Index.Workers)
	}
	if len(c.Chunking.FunctionKinds)+len(c.Chunking.BindingKinds) == 0 {
		return fmt.Errorf("chunking needs at least one function or binding kind")
	}
	if len(c.Chunking.BindingKinds) > 0 && c.Chunking.BindingNode == "" {
		return fmt.Errorf("chunking.binding_node is required when binding_kinds are set")
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Hash fingerprints every setting that changes chunk output. Cached chunks
// built under a different hash are discarded.
func (c *Config) Hash() string {
	relevant := struct {
		Chunking ChunkingConfig `json:"chunking"`
		Baseline BaselineConfig `json:"baseline"`
	}{c.Chunking, c.Baseline}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// OutputDir resolves the dataset directory against the build root.
func (c *Config) OutputDir(root string) string {
	if filepath.IsAbs(c.Output.Dir) {
		return c.Output.Dir
	}
	return filepath.Join(root, c.Output.Dir)
}

// CacheDBPath returns the path to the chunk cache database.
func (c *Config) CacheDBPath(root string) string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return filepath.Join(root, ".ragchunk", "cache.db")
}

// EnsureCacheDir ensures the directory holding the cache database exists.
func (c *Config) EnsureCacheDir(root string) error {
	return os.MkdirAll(filepath.Dir(c.CacheDBPath(root)), 0755)
}
