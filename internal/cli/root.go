// Package cli implements the satchel command-line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "satchel" command with global
// flags and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "satchel",
		Short: "A personal knowledge store with a canonical query API",
		Long: "Satchel manages a typed knowledge base of models, traits,\n" +
			"attributes, and relations, and serves it over HTTP with every\n" +
			"response standardized to a canonical shape.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .satchel)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: from config)")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigDir returns the config directory from flag, env, or
// default.
func resolveConfigDir() string {
	if flags.configDir != "" {
		return flags.configDir
	}
	if v := os.Getenv("SATCHEL_CONFIG_DIR"); v != "" {
		return v
	}
	return ".satchel"
}
