package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ragchunk/internal/adapter/dataset"
	"ragchunk/internal/domain"
	"ragchunk/internal/usecase"
)

var statsOut string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize and compare the two datasets",
	Long: `Print chunk counts, token sizes and how many chunks cut through a
bracketed block, for the baseline and the semantic dataset.

Examples:
  ragchunk stats
  ragchunk stats -o out`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsOut, "out", "o", "", "dataset directory (default from config)")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if statsOut != "" {
		cfg.Output.Dir = statsOut
	}

	ds, manifest, err := dataset.NewJSONStore(cfg.OutputDir(GetRootDir())).Load()
	if err != nil {
		return fmt.Errorf("failed to load datasets: %w", err)
	}
	report := usecase.Summarize(ds)

	fmt.Println("DATASET COMPARISON")
	fmt.Println(strings.Repeat("=", 70))
	if manifest.RunID != "" {
		fmt.Printf("Run: %s (%s)\n", manifest.RunID, manifest.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("Root: %s\n", manifest.Root)
		fmt.Println()
	}

	fmt.Printf("%-22s %12s %12s\n", "", "baseline", "semantic")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("%-22s %12d %12d\n", "Chunks", report.Baseline.Chunks, report.Semantic.Chunks)
	fmt.Printf("%-22s %12d %12d\n", "Files", report.Baseline.Files, report.Semantic.Files)
	fmt.Printf("%-22s %12.1f %12.1f\n", "Avg tokens", report.Baseline.AvgTokens, report.Semantic.AvgTokens)
	fmt.Printf("%-22s %12d %12d\n", "Max tokens", report.Baseline.MaxTokens, report.Semantic.MaxTokens)
	fmt.Printf("%-22s %11.1f%% %11.1f%%\n", "Split blocks", report.Baseline.UnbalancedRate()*100, report.Semantic.UnbalancedRate()*100)

	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Components: %d\n", report.Components)
	fmt.Printf("  signature: %d  logic: %d  view: %d\n",
		report.Kinds[domain.KindSignature], report.Kinds[domain.KindLogic], report.Kinds[domain.KindView])
	return nil
}
