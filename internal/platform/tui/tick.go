// Package tui provides the Bubble Tea screens for Funny Combination.
// It handles the terminal UI loop, input mapping, and session flow.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/funny-combination/internal/games/combo"
)

// snapshotMsg carries a game snapshot into the update loop. game identifies
// the Game instance so messages from a closed one can be dropped.
type snapshotMsg struct {
	game int
	snap combo.Snapshot
}

// feedClosedMsg is sent when a game's snapshot channel closes.
type feedClosedMsg struct {
	game int
}

// flashDoneMsg ends a tap echo.
type flashDoneMsg struct {
	seq int
}

// gameOverReadyMsg fires game_over_delay after a run ends.
type gameOverReadyMsg struct {
	game int
	run  uint64
}

// listenCmd waits for the next snapshot on ch.
func listenCmd(game int, ch <-chan combo.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return feedClosedMsg{game: game}
		}
		return snapshotMsg{game: game, snap: snap}
	}
}

// flashCmd ends the tap echo after d.
func flashCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return flashDoneMsg{seq: seq}
	})
}

// gameOverCmd schedules the transition to the game over screen.
func gameOverCmd(d time.Duration, game int, run uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return gameOverReadyMsg{game: game, run: run}
	})
}
