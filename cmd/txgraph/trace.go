package main

import (
	"context"
	"os"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/internal/cli"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace [addresses...]",
	Short: "Build the transaction graph of one or more seed addresses",
	Long: `Resolves each seed address, expands its neighbourhood for a bounded number of
iterations and writes <data>/<seed>.dot. With several seeds (or --truncate) the
documents are merged into <data>/merged-<runstamp>.dot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := baseOptions(cmd)
		opts.Seeds = args
		opts.File, _ = cmd.Flags().GetString("file")
		opts.Source, _ = cmd.Flags().GetString("source")
		opts.Time, _ = cmd.Flags().GetString("time")
		opts.BTC, _ = cmd.Flags().GetBool("btc")
		opts.USD, _ = cmd.Flags().GetBool("usd")
		opts.Truncate, _ = cmd.Flags().GetBool("truncate")
		opts.Highlight, _ = cmd.Flags().GetBool("highlight")
		opts.Lenient, _ = cmd.Flags().GetBool("lenient")
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.KafkaTopic, _ = cmd.Flags().GetString("kafka-topic")
		opts.Render, _ = cmd.Flags().GetString("render")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		err := cli.Execute(ctx, opts, os.Stdout, os.Stderr)
		if err != nil && ctx.Signal() != nil && cli.IsInterrupted(err) {
			return errInterrupted{sig: ctx.Signal()}
		}
		return err
	},
}

type errInterrupted struct {
	sig os.Signal
}

func (e errInterrupted) Error() string {
	return "interrupted by " + e.sig.String()
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().StringP("file", "f", "", "File with one seed address per line")
	traceCmd.Flags().StringP("source", "s", "local", "Record source: offline, local or network")
	traceCmd.Flags().String("time", "none", "Annotate edges with time: none, full or date")
	traceCmd.Flags().Bool("btc", false, "Annotate edges with the BTC value")
	traceCmd.Flags().Bool("usd", false, "Annotate edges with the USD value")
	traceCmd.Flags().Bool("truncate", false, "Drop edges touching addresses outside the seed set")
	traceCmd.Flags().Bool("highlight", false, "Highlight seed addresses in the merged graph")
	traceCmd.Flags().Bool("lenient", false, "Skip records missing from the cache in offline mode")
	traceCmd.Flags().String("format", txgraph.FormatDOT, "Output format: dot or mermaid (mermaid also writes .dot)")
	traceCmd.Flags().String("kafka-topic", "", "Publish edges to this Kafka topic (overrides kafka.topic)")
	traceCmd.Flags().String("render", "", "Also render documents with Graphviz: svg, png or pdf")
}
