package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/content-studio/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the generation gateway and profile API server",
		Long:  `Start an HTTP server exposing POST /api/gemini-proxy and the profile REST endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
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

			srv := server.New(server.Config{
				Port:               a.cfg.Port,
				RateLimitPerMinute: a.cfg.RateLimit(),
				Logger:             a.logger,
			}, gw, store)
			if err := srv.Start(ctx); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default from config, 8080)")
	return cmd
}
