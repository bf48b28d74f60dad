// Import command for the stockroom CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var inDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore products and the activity log from an export",
		Long:  "Read products.jsonl and activity_log.jsonl from --in into an empty store.\nMalformed lines are skipped and counted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := attachBackend(a.dataDir)
			if err != nil {
				return err
			}
			defer backend.Detach()

			stats, err := backend.ImportJSONL(cmd.Context(), inDir)
			if err != nil {
				return fmt.Errorf("import jsonl: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products and %d activity entries (%d skipped)\n",
				stats.Products, stats.Activity, stats.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&inDir, "in", ".", "directory holding the JSONL files")
	return cmd
}
