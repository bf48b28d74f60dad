// Export command for the stockroom CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/inventory"
	"github.com/mesh-intelligence/stockroom/internal/web"
)

func newExportCmd(a *app) *cobra.Command {
	var outDir, xlsxPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export products and the activity log",
		Long:  "Write products.jsonl and activity_log.jsonl to --out. With --xlsx, also write\nthe product list as an Excel workbook.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := attachBackend(a.dataDir)
			if err != nil {
				return err
			}
			defer backend.Detach()

			ctx := cmd.Context()
			if err := backend.ExportJSONL(ctx, outDir); err != nil {
				return fmt.Errorf("export jsonl: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Exported to", outDir)

			if xlsxPath == "" {
				return nil
			}
			products, err := inventory.NewService(backend).Inventory(ctx)
			if err != nil {
				return err
			}
			f, err := os.Create(xlsxPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", xlsxPath, err)
			}
			if err := web.WriteInventoryXLSX(f, products); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", xlsxPath, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", xlsxPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "directory for the JSONL files")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the product list to this .xlsx file")
	return cmd
}
