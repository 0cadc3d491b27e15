package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/content-studio/internal/server"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the generation actions as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gw, closeGW, err := a.gateway(ctx)
			if err != nil {
				return err
			}
			defer closeGW()

			store, closeStore, err := a.profiles(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			s := server.NewMCPServer(gw, store, version)
			a.logger.Info("mcp server listening on stdio")
			return mcpserver.NewStdioServer(s).Listen(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
