// Package main provides the content_studio command: the generation gateway server, an MCP
// server, and CLI access to profiles, hooks, scripts and the ad-copy consultant.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonathan/content-studio/internal/config"
	"github.com/jonathan/content-studio/internal/gateway"
	"github.com/jonathan/content-studio/internal/kv"
	"github.com/jonathan/content-studio/internal/llm"
	"github.com/jonathan/content-studio/internal/observability"
	"github.com/jonathan/content-studio/internal/profile"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// app carries what every command needs. Its constructors are fields so tests can
// swap the model client and the store.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger

	newLLM    func(ctx context.Context, cfg *config.Config) (llm.Client, error)
	openStore func(ctx context.Context, cfg kv.Config) (kv.Store, error)
}

func newApp() *app {
	return &app{
		newLLM: func(ctx context.Context, cfg *config.Config) (llm.Client, error) {
			llmCfg, err := cfg.LLMConfig()
			if err != nil {
				return nil, err
			}
			return llm.NewClient(ctx, llmCfg, cfg.APIKey)
		},
		openStore: kv.Open,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "content_studio",
		Short:         "Content marketing assistant",
		Long:          "content_studio builds brand profiles and generates short-video hooks, scripts and ad copy with a hosted language model.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config.json file")

	root.AddCommand(
		newServeCmd(a),
		newMCPCmd(a),
		newProfileCmd(a),
		newHooksCmd(a),
		newScriptCmd(a),
		newScriptsCmd(a),
		newAdsCmd(a),
	)
	return root
}

// loadConfig resolves configuration and installs the default logger.
func (a *app) loadConfig(logOut io.Writer) error {
	cfg, err := config.Resolve(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	a.cfg = cfg
	a.logger = observability.NewLogger(level, cfg.LogFormat, logOut)
	slog.SetDefault(a.logger)
	return nil
}

// profiles opens the configured store and loads the profile state from it.
func (a *app) profiles(ctx context.Context) (*profile.Store, func(), error) {
	backend, err := a.openStore(ctx, a.cfg.StoreConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	store, err := profile.Load(ctx, backend)
	if err != nil {
		_ = backend.Close()
		return nil, nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return store, func() { _ = backend.Close() }, nil
}

// gateway builds the in-process gateway. A missing credential is fatal.
func (a *app) gateway(ctx context.Context) (*gateway.Gateway, func(), error) {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}
	client, err := a.newLLM(ctx, a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return gateway.New(client), func() { _ = client.Close() }, nil
}

// printer writes human output to the command's stdout.
func printer(cmd *cobra.Command) *observability.Printer {
	return observability.NewPrinter(cmd.OutOrStdout())
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
