package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoscan/invoscan/internal/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the registered invoice layout templates",
	Long: `List the built-in invoice layout templates plus any custom templates
loaded from --template-dir. Each template carries one or more header
variants; classification picks the variant whose headers best cover the
document text.`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

func init() {
	templatesCmd.Flags().String("template-dir", "", "directory with custom layout templates (*.yaml)")
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	registry := template.NewRegistry()

	if dir, _ := cmd.Flags().GetString("template-dir"); dir != "" {
		n, err := template.LoadDir(registry, dir)
		if err != nil {
			return fmt.Errorf("load templates: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d custom templates from %s\n\n", n, dir)
	}

	for _, tpl := range registry.All() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s", tpl.Name)
		if tpl.Description != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " - %s", tpl.Description)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		for _, v := range tpl.Variants {
			fmt.Fprintf(cmd.OutOrStdout(), "  %.2f %v\n", v.Confidence, v.Headers)
		}
	}
	return nil
}
