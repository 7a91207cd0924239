package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/funny-combination/internal/config"
	"github.com/vovakirdan/funny-combination/internal/platform/httpapi"
	"github.com/vovakirdan/funny-combination/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session and game.
Scores are stored per-server (all users share the same leaderboard).
With --http, the leaderboard is also served as JSON.

Host key handling:
  - Uses --host-key or server.host_key from config
  - The key is generated on first start if the file does not exist

Examples:
  combo serve                           # Listen on :2222
  combo serve --ssh :23234              # Listen on port 23234
  combo serve --http :8080              # Also expose GET /api/scores
  combo serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP leaderboard address (empty = disabled)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting")
}

// applyServeFlags copies serve flags the user set onto cfg.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd != serveCmd {
		return nil
	}
	flags := cmd.Flags()
	if flags.Changed("ssh") {
		cfg.Server.SSHAddress = flagSSHAddr
	}
	if flags.Changed("http") {
		cfg.Server.HTTPAddress = flagHTTPAddr
	}
	if flags.Changed("host-key") {
		cfg.Server.HostKey = flagHostKey
	}
	if flags.Changed("idle-timeout") {
		if flagIdleTimeout < 0 {
			return errors.New("--idle-timeout must not be negative")
		}
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr, "combo-serve")
	if err != nil {
		return err
	}

	store, prefs, closeStores := openStores(logger)
	defer closeStores()

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     appConfig.Server.SSHAddress,
		HostKeyPath: config.ExpandHome(appConfig.Server.HostKey),
		IdleTimeout: appConfig.Server.IdleTimeout,
		Game:        gameOptions(),
		Seed:        flagSeed,
	}, store, prefs, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})
	if addr := appConfig.Server.HTTPAddress; addr != "" {
		api := httpapi.New(store, logger)
		g.Go(func() error {
			return api.ListenAndServe(ctx, addr)
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Connect with: ssh localhost -p %s\n", portOf(appConfig.Server.SSHAddress))
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
