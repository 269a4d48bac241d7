package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ragchunk/internal/adapter/fs"
	"ragchunk/internal/usecase"
)

var outlineComponentsOnly bool

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "List the declarations the chunker considers in a file",
	Long: `Print every function and binding declaration found in a file with its
line range and first source line. Declarations whose names do not start
with an uppercase letter are not components and are marked as skipped.

Examples:
  ragchunk outline src/components/Button.tsx
  ragchunk outline -c src/hooks/useToggle.ts`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	outlineCmd.Flags().BoolVarP(&outlineComponentsOnly, "components", "c", false, "hide skipped declarations")
}

func runOutline(cmd *cobra.Command, args []string) error {
	outlineUC := usecase.NewOutlineUseCase(fs.OSReader{}, newSemanticChunker(GetConfig()))

	entries, err := outlineUC.Outline(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("outline failed: %w", err)
	}

	components := 0
	for _, e := range entries {
		status := "component"
		if !e.Accepted {
			if outlineComponentsOnly {
				continue
			}
			status = "skipped"
		} else {
			components++
		}
		fmt.Printf("%-10s %-24s L%d-%d  %s\n", status, e.Name, e.StartLine, e.EndLine, e.FirstLine)
	}

	fmt.Printf("\n%d declarations, %d components\n", len(entries), components)
	return nil
}
