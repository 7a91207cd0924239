package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/funny-combination/internal/score"
	"github.com/vovakirdan/funny-combination/internal/storage"
)

func send(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Expected SessionModel, got %T", next)
	}
	return sm, cmd
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestSessionOnboardingFirstLaunch(t *testing.T) {
	prefs := NewMemoryPreferences()
	m := NewSessionModel(SessionOptions{Preferences: prefs, Width: 80, Height: 24})

	if m.Screen() != ScreenOnboarding {
		t.Fatalf("Expected onboarding on first launch, got %v", m.Screen())
	}
	if !strings.Contains(m.View(), "Welcome to Funny Combination") {
		t.Error("First page should be the welcome page")
	}

	for range len(OnboardingPages) {
		m, _ = send(t, m, enter)
	}

	if m.Screen() != ScreenMenu {
		t.Fatalf("Expected menu after onboarding, got %v", m.Screen())
	}
	done, _ := prefs.Flag(context.Background(), storage.OnboardingCompleted)
	if !done {
		t.Error("Finishing onboarding should set the completed flag")
	}

	again := NewSessionModel(SessionOptions{Preferences: prefs})
	if again.Screen() != ScreenMenu {
		t.Errorf("Later launches should skip onboarding, got %v", again.Screen())
	}
}

func TestOnboardingPrevious(t *testing.T) {
	o := NewOnboardingModel(80, 24)
	o, _ = o.Update(tea.KeyMsg{Type: tea.KeyRight})
	o, _ = o.Update(tea.KeyMsg{Type: tea.KeyRight})
	o, _ = o.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if o.Page() != 1 {
		t.Errorf("Expected page 1, got %d", o.Page())
	}

	o, _ = o.Update(tea.KeyMsg{Type: tea.KeyLeft})
	o, _ = o.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if o.Page() != 0 {
		t.Errorf("Previous on first page should stay, got %d", o.Page())
	}
	if o.Finished() {
		t.Error("Onboarding should not be finished")
	}
}

func completedPrefs(t *testing.T) Preferences {
	t.Helper()
	prefs := NewMemoryPreferences()
	if err := prefs.SetFlag(context.Background(), storage.OnboardingCompleted, true); err != nil {
		t.Fatal(err)
	}
	return prefs
}

func TestSessionHighScores(t *testing.T) {
	store := score.NewMemoryStore()
	ctx := context.Background()
	store.Insert(ctx, score.Record{Date: "2026-10-13", SequenceLength: 4})
	store.Insert(ctx, score.Record{Date: "2026-10-14", SequenceLength: 9})

	m := NewSessionModel(SessionOptions{Store: store, Preferences: completedPrefs(t), Width: 100, Height: 30})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := send(t, m, enter)
	if m.Screen() != ScreenScores {
		t.Fatalf("Expected scores screen, got %v", m.Screen())
	}
	if cmd == nil {
		t.Fatal("Expected a load command")
	}

	m, _ = send(t, m, cmd())
	view := m.View()
	if !strings.Contains(view, "HIGH SCORES") || !strings.Contains(view, "🥇") {
		t.Error("Scoreboard should show the title and medals")
	}
	if len(m.scores.records) != 2 || m.scores.records[0].SequenceLength != 9 {
		t.Errorf("Expected records longest first, got %+v", m.scores.records)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Screen() != ScreenMenu {
		t.Errorf("Expected menu after back, got %v", m.Screen())
	}
}

func TestScoreboardEmpty(t *testing.T) {
	sb := NewScoreboardModel(score.NewMemoryStore(), 80, 24)
	sb, _ = sb.Update(sb.Init()())
	if !strings.Contains(sb.View(), "No scores yet") {
		t.Error("Empty scoreboard should say so")
	}
}

func TestSessionPrivacy(t *testing.T) {
	m := NewSessionModel(SessionOptions{Preferences: completedPrefs(t), Width: 80, Height: 24})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(t, m, enter)
	if m.Screen() != ScreenPrivacy {
		t.Fatalf("Expected privacy screen, got %v", m.Screen())
	}
	if !strings.Contains(m.View(), "Privacy Policy") {
		t.Error("Privacy view should show its title")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Screen() != ScreenMenu {
		t.Errorf("Expected menu after back, got %v", m.Screen())
	}
}

func TestSessionPlayAndLeave(t *testing.T) {
	m := NewSessionModel(SessionOptions{Preferences: completedPrefs(t), Seed: 3, Width: 80, Height: 24})

	m, cmd := send(t, m, enter)
	if m.Screen() != ScreenGame || m.Game() == nil {
		t.Fatalf("Expected game screen, got %v", m.Screen())
	}
	if cmd == nil {
		t.Error("Expected the snapshot listener command")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Screen() != ScreenMenu || m.Game() != nil {
		t.Errorf("Expected menu with no game after back, got %v", m.Screen())
	}
}

func TestSessionExit(t *testing.T) {
	m := NewSessionModel(SessionOptions{Preferences: completedPrefs(t)})

	for range len(menuItems) - 1 {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m, cmd := send(t, m, enter)
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Exit should quit the program")
	}
	if m.View() != "" {
		t.Error("Quitting session should render nothing")
	}
}

func TestUserPreferencesAreScoped(t *testing.T) {
	shared := NewMemoryPreferences()
	alice := userPreferences{prefs: shared, user: "alice"}
	bob := userPreferences{prefs: shared, user: "bob"}
	ctx := context.Background()

	if err := alice.SetFlag(ctx, storage.OnboardingCompleted, true); err != nil {
		t.Fatal(err)
	}
	if done, _ := bob.Flag(ctx, storage.OnboardingCompleted); done {
		t.Error("One user's flag should not leak to another")
	}
	if done, _ := alice.Flag(ctx, storage.OnboardingCompleted); !done {
		t.Error("Expected alice's flag to be set")
	}
}
