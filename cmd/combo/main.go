// combo is a terminal memory game: watch a growing sequence of symbols,
// then repeat it.
//
// Usage:
//
//	combo                  - Same as combo play
//	combo play             - Play in this terminal
//	combo scores           - Print the leaderboard
//	combo serve            - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.funnycombination/config.yaml, ./configs/combo.yaml)
//	--db <path>         - Set database path (default: ~/.funnycombination/scores.db)
//	--seed <value>      - Set RNG seed for reproducible sequences
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/funny-combination/internal/config"
	"github.com/vovakirdan/funny-combination/internal/platform/tui"
	"github.com/vovakirdan/funny-combination/internal/score"
	"github.com/vovakirdan/funny-combination/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string

	// Loaded in PersistentPreRunE
	appConfig config.Config
)

func main() {
	// Optional .env; real environment wins
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "combo",
	Short: "Funny Combination - a memory game for your terminal",
	Long: `Funny Combination shows a sequence of symbols one at a time.
Repeat it with the number keys 1-5. Each level adds one more symbol,
and the run ends on the first mistake.

Available commands:
  play     - Play in this terminal (default)
  scores   - View high scores
  serve    - Start SSH server for remote play

Examples:
  combo
  combo scores --limit 5
  combo serve --ssh :2222 --http :8080`,
	PersistentPreRunE: loadConfig,
	RunE:              runPlay,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := applyServeFlags(cmd, &cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg
	return nil
}

// newLogger builds a charmbracelet logger writing to w at the configured level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})

	level, err := log.ParseLevel(appConfig.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)
	return logger, nil
}

// openLogFile opens the local session log file for appending.
func openLogFile(path string) (*os.File, error) {
	path = config.ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// openStores opens the SQLite database. If it cannot be opened the game
// continues with in-memory storage.
func openStores(logger *log.Logger) (score.Store, tui.Preferences, func()) {
	db, err := storage.Open(appConfig.Storage.Path)
	if err != nil {
		logger.Warn("could not open scores database, scores will not persist", "error", err)
		return score.NewMemoryStore(), tui.NewMemoryPreferences(), func() {}
	}
	return db, db, func() {
		if err := db.Close(); err != nil {
			logger.Warn("closing database", "error", err)
		}
	}
}

// gameOptions maps display config onto the game screen.
func gameOptions() tui.GameOptions {
	return tui.GameOptions{
		Glyphs:        tui.NewGlyphs(appConfig.Display.Glyphs),
		TapFlash:      appConfig.Display.TapFlash,
		GameOverDelay: appConfig.Display.GameOverDelay,
	}
}
