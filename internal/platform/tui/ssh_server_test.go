package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/funny-combination/internal/games/combo"
	"github.com/vovakirdan/funny-combination/internal/score"
)

var escKey = tea.KeyMsg{Type: tea.KeyEsc}

// waitClosed drains ch until it is closed.
func waitClosed(t *testing.T, ch <-chan combo.Snapshot) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("Expected subscription to be closed")
		}
	}
}

func TestSessionEndClosesGame(t *testing.T) {
	m := NewSessionModel(SessionOptions{Preferences: completedPrefs(t), Seed: 3, Width: 80, Height: 24})

	m, _ = send(t, m, enter)
	gm := m.Game()
	if gm == nil {
		t.Fatal("Expected a running game")
	}

	ctx, cancel := context.WithCancel(context.Background())
	closeWhenDone(ctx, m.Close)
	cancel()

	waitClosed(t, gm.feed)

	// The game refuses to restart once closed
	gm.game.Start()
	if snap := gm.game.Snapshot(); snap.Run != 1 {
		t.Errorf("Closed game should not start a new run, got run %d", snap.Run)
	}
}

func TestSessionCloseStopsLaterGames(t *testing.T) {
	m := NewSessionModel(SessionOptions{Preferences: completedPrefs(t), Seed: 3})
	m.Close()

	m, _ = send(t, m, enter)
	if m.Game() == nil {
		t.Fatal("Expected game screen")
	}
	waitClosed(t, m.Game().feed)
}

func TestSessionCloseAfterLeavingGame(t *testing.T) {
	m := NewSessionModel(SessionOptions{Preferences: completedPrefs(t), Seed: 3})

	m, _ = send(t, m, enter)
	m, _ = send(t, m, escKey)
	if m.Game() != nil {
		t.Fatal("Expected menu after leaving the game")
	}

	// Nothing is running; Close must not block or panic
	m.Close()
	m.Close()
}

func TestSSHSessionOptions(t *testing.T) {
	s := &SSHServer{
		config: SSHServerConfig{Seed: 42, Game: testGameOptions},
		store:  score.NewMemoryStore(),
		prefs:  NewMemoryPreferences(),
		logger: log.New(io.Discard),
	}

	opts := s.sessionOptions("alice", 100, 40)
	if opts.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", opts.Seed)
	}
	if opts.Width != 100 || opts.Height != 40 {
		t.Errorf("Expected 100x40, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Game != testGameOptions {
		t.Errorf("Expected game options to be passed through, got %+v", opts.Game)
	}
	prefs, ok := opts.Preferences.(userPreferences)
	if !ok || prefs.user != "alice" {
		t.Errorf("Expected preferences scoped to alice, got %+v", opts.Preferences)
	}
}
