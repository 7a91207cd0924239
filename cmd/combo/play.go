package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/funny-combination/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a local session. The first launch shows a short walkthrough.

Controls:
  1-5        - Tap a symbol (during your turn)
  Up/Down    - Navigate menus
  Enter      - Select
  Esc/B      - Back
  Q/Ctrl+C   - Quit

Examples:
  combo play
  combo play --seed 42
  combo play --db ./scores.db`,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	// stdout belongs to the alt screen, so logs go to a file
	var logOut io.Writer = io.Discard
	if appConfig.Log.File != "" {
		f, err := openLogFile(appConfig.Log.File)
		if err == nil {
			defer f.Close()
			logOut = f
		}
	}
	logger, err := newLogger(logOut, "combo")
	if err != nil {
		return err
	}

	store, prefs, closeStores := openStores(logger)
	defer closeStores()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	logger.Info("session started", "width", width, "height", height, "seed", flagSeed)
	err = tui.Run(tui.SessionOptions{
		Store:       store,
		Preferences: prefs,
		Game:        gameOptions(),
		Seed:        flagSeed,
		Logger:      logger,
		Width:       width,
		Height:      height,
	})
	logger.Info("session ended", "error", err)
	return err
}
