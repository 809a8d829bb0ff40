package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of txgraph",
	Run: func(cmd *cobra.Command, args []string) {
		banner, _ := cmd.Flags().GetBool("banner")
		if banner {
			tui.NewPrinter(os.Stdout).Banner(strings.TrimSpace(txgraph.Version))
			return
		}
		fmt.Printf("txgraph version %s\n", strings.TrimSpace(txgraph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the ASCII banner")
}
