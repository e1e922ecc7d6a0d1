package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/invoscan/invoscan/internal/invoice"
)

var processCmd = &cobra.Command{
	Use:   "process <file.pdf>",
	Short: "Extract fields from a single PDF invoice",
	Long: `Process one PDF invoice and print the extracted record.

The record contains the company name, invoice number and date, FSSAI
license number, the product line items and per-field confidence scores.
Fields that could not be extracted are reported as "N/A" with a zero
confidence.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	addPipelineFlags(processCmd)
	processCmd.Flags().StringP("output", "o", "", "write the record to a file instead of stdout")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := buildPipeline(cmd, cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	record, err := p.ProcessContext(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("process %s: %w", args[0], err)
	}

	out, err := renderRecord(record, outputFormat(cmd, cfg))
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		return os.WriteFile(path, []byte(out), 0o600)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func renderRecord(record *invoice.ExtractionRecord, format string) (string, error) {
	if format == "text" {
		out := fmt.Sprintf("company:  %s\ninvoice:  %s\ndate:     %s\nfssai:    %s\nproducts: %d\noverall:  %.2f",
			record.CompanyName, record.InvoiceNumber, record.InvoiceDate,
			record.FSSAINumber, len(record.Products), record.ConfidenceScores.Overall())
		return out, nil
	}
	raw, err := record.MarshalIndented()
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	return string(raw), nil
}
