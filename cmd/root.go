// Package cmd wires the CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "restmcp",
	Short: "MCP bridge for resource handlers",
	Long: `restmcp exposes registered resource handlers as MCP tools over a
JSON-RPC 2.0 endpoint. Each handler action becomes an independently
invocable tool with a generated input schema.

Run "restmcp serve" to start the endpoint.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
