package main

import (
	"context"
	"os"

	"github.com/aretw0/txgraph/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes address tracing as the MCP tool "trace_address".

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := baseOptions(cmd)
		opts.Source, _ = cmd.Flags().GetString("source")
		opts.Time, _ = cmd.Flags().GetString("time")
		opts.BTC, _ = cmd.Flags().GetBool("btc")
		opts.USD, _ = cmd.Flags().GetBool("usd")
		opts.Lenient, _ = cmd.Flags().GetBool("lenient")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		return cli.RunMCP(ctx, opts, transport, port, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	addEngineFlags(mcpCmd)
	mcpCmd.Flags().String("transport", cli.TransportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
