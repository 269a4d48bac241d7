package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ragchunk/internal/adapter/fs"
	"ragchunk/internal/domain"
	"ragchunk/internal/usecase"
)

var inspectSummary bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Chunk a single file and print its semantic chunks",
	Long: `Run the semantic chunker on one file and print the chunk records as JSON.
Without a file argument, the first .tsx file under the root directory that
is not a test, spec, index or demo file is used.

Examples:
  ragchunk inspect
  ragchunk inspect src/components/Button.tsx
  ragchunk inspect --summary`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectSummary, "summary", false, "print chunk counts instead of records")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	var path string
	if len(args) > 0 {
		path = args[0]
	}

	walker := fs.NewWalker([]string{"**/*.tsx", "**/*.jsx", "**/*.ts", "**/*.js"}, cfg.Index.FallbackExcludes)
	inspectUC := usecase.NewInspectUseCase(walker, fs.OSReader{}, newSemanticChunker(cfg))

	result, err := inspectUC.Inspect(cmd.Context(), GetRootDir(), path)
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	if inspectSummary {
		fmt.Printf("File: %s\n", result.File)
		fmt.Printf("  Signatures: %d\n", result.Counts[domain.KindSignature])
		fmt.Printf("  Logic:      %d\n", result.Counts[domain.KindLogic])
		fmt.Printf("  View:       %d\n", result.Counts[domain.KindView])
		return nil
	}

	fmt.Fprintf(os.Stderr, "Inspecting %s (%d chunks)\n", result.File, len(result.Chunks))
	chunks := result.Chunks
	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(chunks)
}
