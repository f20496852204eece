package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/restmcp/restmcp/internal/config"
	"github.com/restmcp/restmcp/internal/demo"
	"github.com/restmcp/restmcp/internal/log"
	"github.com/restmcp/restmcp/internal/mcp"
	"github.com/restmcp/restmcp/internal/registry"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides configuration)")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	store, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settings := store.Current()

	logger := log.New(log.Config{Level: settings.SlogLevel(), JSON: settings.LogJSON})

	if err := demo.Register(registry.Default); err != nil {
		return fmt.Errorf("registering demo handlers: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = settings.ListenAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	handler := mcp.NewHandler(registry.Default, store, logger)
	server := mcp.NewServer(handler, logger)

	logger.Info("serving",
		"addr", addr,
		"tools", registry.Default.Len(),
		"server_name", settings.ServerName,
		"server_version", settings.ServerVersion,
	)
	return server.Run(ctx, addr)
}
