package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/funny-combination/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display recorded runs, longest sequence first, followed by totals.

Examples:
  combo scores
  combo scores --limit 5`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to show (0 = all)")
}

func runScores(cmd *cobra.Command, _ []string) error {
	if flagLimit < 0 {
		return errors.New("--limit must not be negative")
	}

	store, err := storage.Open(appConfig.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	return printScores(ctx, cmd.OutOrStdout(), store, flagLimit)
}

// printScores writes the leaderboard and totals to w.
func printScores(ctx context.Context, w io.Writer, store *storage.Store, limit int) error {
	entries, err := store.TopEntries(ctx, limit)
	if err != nil {
		return err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "High Scores - Funny Combination")
	fmt.Fprintln(w)

	if len(entries) == 0 {
		fmt.Fprintln(w, "No scores yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'combo play' to set the first high score!")
		return nil
	}

	fmt.Fprintf(w, "  %-4s  %-6s  %s\n", "Rank", "Length", "Date")
	fmt.Fprintf(w, "  %-4s  %-6s  %s\n", "----", "------", "----")
	for i, e := range entries {
		fmt.Fprintf(w, "  %-4d  %-6d  %s\n", i+1, e.SequenceLength, e.Date)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Best: %d  Runs: %d  Average: %.1f  Last played: %s\n",
		stats.Best, stats.Runs, stats.AvgLength, stats.LastPlayed)
	return nil
}
