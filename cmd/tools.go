package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/restmcp/restmcp/internal/demo"
	"github.com/restmcp/restmcp/internal/registry"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the endpoint would expose",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTools()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools() error {
	if err := demo.Register(registry.Default); err != nil {
		return fmt.Errorf("registering demo handlers: %w", err)
	}
	for _, tool := range registry.Default.GetAll() {
		fmt.Printf("%-24s %s\n", tool.Name, tool.Description)
	}
	return nil
}
