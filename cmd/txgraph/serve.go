package main

import (
	"context"
	"os"

	"github.com/aretw0/txgraph/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP graph server",
	Long: `Exposes GET /graph/{address}?format=dot|mermaid|json, GET /healthz and GET /metrics.
With the redis store, concurrent requests for the same seed are serialized.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := baseOptions(cmd)
		opts.Source, _ = cmd.Flags().GetString("source")
		opts.Time, _ = cmd.Flags().GetString("time")
		opts.BTC, _ = cmd.Flags().GetBool("btc")
		opts.USD, _ = cmd.Flags().GetBool("usd")
		opts.Lenient, _ = cmd.Flags().GetBool("lenient")
		addr, _ := cmd.Flags().GetString("addr")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		return cli.Serve(ctx, opts, addr, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addEngineFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides serve.addr)")
}

// addEngineFlags registers the expansion flags shared by long-running commands.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "local", "Record source: offline, local or network")
	cmd.Flags().String("time", "none", "Annotate edges with time: none, full or date")
	cmd.Flags().Bool("btc", false, "Annotate edges with the BTC value")
	cmd.Flags().Bool("usd", false, "Annotate edges with the USD value")
	cmd.Flags().Bool("lenient", false, "Skip records missing from the cache in offline mode")
}
