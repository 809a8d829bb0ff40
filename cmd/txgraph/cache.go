package main

import (
	"os"

	"github.com/aretw0/txgraph/internal/cli"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached address and transaction records",
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls <kind>",
	Short: "List cached hashes of a kind (address or transaction)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(c *cli.CacheSession) error {
			return cli.ListCache(cmd.Context(), c.Store, args[0], os.Stdout)
		})
	},
}

var cacheInspectCmd = &cobra.Command{
	Use:   "inspect <kind> <hash>",
	Short: "Print a cached record as indented JSON",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(c *cli.CacheSession) error {
			return cli.InspectCache(cmd.Context(), c.Store, args[0], args[1], os.Stdout)
		})
	},
}

var cacheRmCmd = &cobra.Command{
	Use:   "rm <kind> <hash>...",
	Short: "Delete cached records",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(c *cli.CacheSession) error {
			return cli.RemoveCache(cmd.Context(), c.Store, args[0], args[1:], os.Stdout)
		})
	},
}

func withStore(cmd *cobra.Command, fn func(*cli.CacheSession) error) error {
	c, err := cli.OpenCache(baseOptions(cmd), os.Stderr)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheLsCmd, cacheInspectCmd, cacheRmCmd)
}
