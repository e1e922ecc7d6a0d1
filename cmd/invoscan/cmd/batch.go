package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/invoscan/invoscan/internal/batch"
	"github.com/invoscan/invoscan/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file-or-dir>...",
	Short: "Process many PDF invoices in parallel",
	Long: `Process every PDF found in the given files and directories on a bounded
worker pool. Results come back in input order; one unreadable document
does not affect the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	addPipelineFlags(batchCmd)
	batchCmd.Flags().IntP("workers", "w", 0, "parallel workers (default: number of CPU cores)")
	batchCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories")
	batchCmd.Flags().StringSlice("include", nil, "only process files matching these patterns, e.g. 'INV-*.pdf'")
	batchCmd.Flags().StringSlice("exclude", nil, "skip files matching these patterns")
	batchCmd.Flags().String("output-dir", "", "write one JSON record per document into this directory")
	batchCmd.Flags().Bool("progress", false, "show a console progress bar")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Batch.Workers = workers
	}

	var progress pipeline.ProgressCallback
	if showProgress, _ := cmd.Flags().GetBool("progress"); showProgress {
		progress = pipeline.NewConsoleProgress(os.Stderr, "Processing: ")
	}

	p, err := buildPipeline(cmd, cfg, progress)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	runCfg := batch.DefaultConfig()
	runCfg.Workers = cfg.Batch.Workers
	runCfg.Recursive, _ = cmd.Flags().GetBool("recursive")
	if !runCfg.Recursive {
		runCfg.Recursive = cfg.Batch.Recursive
	}
	runCfg.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	runCfg.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	runCfg.Format = outputFormat(cmd, cfg)
	runCfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
	if runCfg.OutputDir == "" {
		runCfg.OutputDir = cfg.Output.Dir
	}

	result, err := batch.Run(cmd.Context(), p, args, runCfg)
	if err != nil {
		return err
	}

	out, err := batch.FormatResult(result, runCfg.Format)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
		return err
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", result.Failed, len(result.Items))
	}
	return nil
}
