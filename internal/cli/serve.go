package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"spotimcp/internal/config"
	"spotimcp/internal/mcp"
	"spotimcp/internal/player"
	"spotimcp/internal/spotify"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP tools over stdio",
	Long:  "Speaks newline-delimited JSON-RPC on stdin/stdout. All logging goes to stderr so stdout stays a clean protocol channel.",
	RunE:  runServe,
}

var serveVerbose bool

func init() {
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "log at debug level")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateCredentials(); err != nil {
		if !IsTTY() {
			return err
		}
		cfg, err = promptForCredentials(cfg)
		if err != nil {
			return err
		}
	}

	level := slog.LevelInfo
	if serveVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	catalog := spotify.NewClient(cfg)
	bridge := player.New(cfg.Player.App)
	server := mcp.NewServer(catalog, bridge, version, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("serving MCP tools on stdio", "app", cfg.Player.App)
	err = server.Serve(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// promptForCredentials asks for the client id/secret pair and persists
// both to .env.local so the next run starts without prompting.
func promptForCredentials(cfg config.Config) (config.Config, error) {
	fmt.Fprintln(os.Stderr, "Spotify API credentials are not configured.")

	id, err := ReadSecret("Client ID: ")
	if err != nil {
		return cfg, err
	}
	secret, err := ReadSecret("Client secret: ")
	if err != nil {
		return cfg, err
	}
	if id == "" || secret == "" {
		return cfg, errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
	}

	if err := config.SaveSecret("SPOTIFY_CLIENT_ID", id); err != nil {
		return cfg, err
	}
	if err := config.SaveSecret("SPOTIFY_CLIENT_SECRET", secret); err != nil {
		return cfg, err
	}

	cfg.ClientID = id
	cfg.ClientSecret = secret
	return cfg, nil
}
