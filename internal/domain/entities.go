package domain

import "time"

type Document struct {
	ID      string
	Path    string
	RelPath string
	ModTime time.Time
	Lang    string
}

// ChunkKind tags what a semantic chunk represents.
type ChunkKind string

const (
	KindSignature ChunkKind = "signature"
	KindLogic     ChunkKind = "logic"
	KindView      ChunkKind = "view"
)

// DeclarationForm distinguishes `function X() {}` from `const X = ...`.
type DeclarationForm string

const (
	FunctionForm DeclarationForm = "function-form"
	BindingForm  DeclarationForm = "binding-form"
)

// Declaration is a named candidate found by the locator. Only accepted
// declarations (uppercase-first names) own chunks.
type Declaration struct {
	Name      string          `json:"name"`
	Form      DeclarationForm `json:"form"`
	NodeKind  string          `json:"node_kind"`
	StartLine int             `json:"start_line"`
	EndLine   int             `json:"end_line"`
	StartByte int             `json:"start_byte"`
	EndByte   int             `json:"end_byte"`
	Accepted  bool            `json:"accepted"`
}

// Chunk is one record of the semantic dataset.
type Chunk struct {
	ID         string    `json:"id"`
	Kind       ChunkKind `json:"type"`
	Parent     string    `json:"parent_component"`
	Content    string    `json:"content"`
	Line       int       `json:"line"`
	EndLine    int       `json:"end_line"`
	StartByte  int       `json:"start_byte"`
	EndByte    int       `json:"end_byte"`
	TokenCount int       `json:"token_count,omitempty"`
	FilePath   string    `json:"filepath,omitempty"`
}

const (
	BaselineKind     = "baseline"
	BaselineMetadata = "None (Context Lost)"
)

// BaselineChunk is one record of the fixed-size dataset. It carries no
// structural metadata by construction.
type BaselineChunk struct {
	ID         string `json:"id"`
	Kind       string `json:"type"`
	Content    string `json:"content"`
	Offset     int    `json:"offset"`
	Metadata   string `json:"metadata"`
	TokenCount int    `json:"token_count,omitempty"`
	FilePath   string `json:"filepath,omitempty"`
}

// Datasets holds the two parallel outputs of one build. They are compared,
// never merged.
type Datasets struct {
	Baseline []BaselineChunk
	Semantic []Chunk
}

type Manifest struct {
	RunID          string    `json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
	Root           string    `json:"root"`
	Files          int       `json:"files"`
	FilesFailed    int       `json:"files_failed"`
	BaselineChunks int       `json:"baseline_chunks"`
	SemanticChunks int       `json:"semantic_chunks"`
	ConfigHash     string    `json:"config_hash"`
	Fallback       bool      `json:"fallback_selection"`
}

// FileChunks is the per-file unit cached between builds.
type FileChunks struct {
	Path       string          `json:"path"`
	ModTime    int64           `json:"mod_time"`
	ConfigHash string          `json:"config_hash"`
	Baseline   []BaselineChunk `json:"baseline"`
	Semantic   []Chunk         `json:"semantic"`
}
