package main

import (
	"os"

	"github.com/aretw0/txgraph/internal/cli"
	"github.com/aretw0/txgraph/internal/config"
	"github.com/aretw0/txgraph/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "txgraph",
	Short: "txgraph builds payer/recipient graphs around Bitcoin addresses",
	Long: `txgraph resolves address and transaction records from Blockchair (or a local cache),
walks a bounded neighbourhood of each seed address and writes Graphviz DOT documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// It is the single place where a failed run terminates the process.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		tui.NewPrinter(os.Stderr).Error(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("data", "", "Directory for cached records and graph output (overrides data_dir)")
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Path to the optional YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable verbose debug logging to stderr")
}

// baseOptions reads the persistent flags shared by every command.
func baseOptions(cmd *cobra.Command) cli.RunOptions {
	dataDir, _ := cmd.Flags().GetString("data")
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.RunOptions{
		DataDir:    dataDir,
		ConfigPath: configPath,
		Debug:      debug,
	}
}
