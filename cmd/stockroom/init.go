// Init command for the stockroom CLI.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/sqlite"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and the inventory database",
		Long:  "Create the configuration directory with a default config.yaml, then create the\ndata directory and both tables. Existing files and rows are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The config directory and config.yaml were created while loading.
			backend, err := attachBackend(a.dataDir)
			if err != nil {
				return err
			}
			dbPath := filepath.Join(backend.DataDir(), sqlite.DatabaseFile)
			if err := backend.Detach(); err != nil {
				return fmt.Errorf("detach backend: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Stockroom initialized successfully")
			fmt.Fprintln(out, "  config:", a.configDir)
			fmt.Fprintln(out, "  data:  ", a.dataDir)
			fmt.Fprintln(out, "  db:    ", dbPath)
			return nil
		},
	}
}
