// Command mdview inspects .NET module metadata through the facade API.
// It ships a built-in sample image so every subcommand works out of the
// box; the source doubles as a reference for embedding the library.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halcyonlab/clr-metadata/metadata"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "mdview",
	Short: "Browse .NET module metadata",
	Long: `mdview walks the metadata of a .NET module through the reader facade.

It provides commands to:
  - Print module identity, headers and derived state (info)
  - List type definitions in both name spellings (types)
  - Browse metadata tables interactively (browse)`,
	PersistentPreRunE: setupLogging,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log row materialization to stderr")

	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newBrowseCmd())
}

func setupLogging(_ *cobra.Command, _ []string) error {
	if !flagVerbose {
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	metadata.SetLogger(logger)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
