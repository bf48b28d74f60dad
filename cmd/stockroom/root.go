package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/paths"
	"github.com/mesh-intelligence/stockroom/pkg/stockroom"
)

// app carries flag values and the loaded settings to every subcommand.
type app struct {
	flagConfigDir string
	flagDataDir   string

	configDir string
	dataDir   string
	settings  settings
}

// newRootCmd creates the top-level command. Run without a subcommand it
// serves the pages.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "stockroom",
		Short:   "Stockroom is a single-user inventory tracker",
		Long:    "Stockroom records products, stock changes and sales in a local SQLite\ndatabase and serves them as a small set of HTML pages.",
		Version: stockroom.Version,
		Args:    cobra.NoArgs,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
		RunE:              a.runServe,
	}

	root.PersistentFlags().StringVar(&a.flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir/stockroom)")
	root.PersistentFlags().StringVar(&a.flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.stockroom-db)")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newPasswdCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// load resolves both directories and reads the configuration.
func (a *app) load(cmd *cobra.Command, args []string) error {
	// Skip for commands that need no configuration.
	switch cmd.Name() {
	case "version", "passwd", "help":
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flagConfigDir)
	if err != nil {
		return err
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	dataDir, err := paths.ResolveDataDir(a.flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return err
	}

	a.configDir = configDir
	a.dataDir = dataDir
	a.settings = settingsFrom(v)
	return nil
}
