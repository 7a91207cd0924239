package tui

import (
	"context"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/funny-combination/internal/games/combo"
	"github.com/vovakirdan/funny-combination/internal/score"
	"github.com/vovakirdan/funny-combination/internal/storage"
)

// Preferences is a key/value store of boolean player settings.
type Preferences interface {
	Flag(ctx context.Context, key string) (bool, error)
	SetFlag(ctx context.Context, key string, value bool) error
}

// MemoryPreferences keeps settings for the life of the process.
type MemoryPreferences struct {
	mu    sync.Mutex
	flags map[string]bool
}

// NewMemoryPreferences creates empty preferences.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{flags: make(map[string]bool)}
}

// Flag reads a setting. Missing keys read as false.
func (p *MemoryPreferences) Flag(_ context.Context, key string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flags[key], nil
}

// SetFlag writes a setting.
func (p *MemoryPreferences) SetFlag(_ context.Context, key string, value bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flags[key] = value
	return nil
}

var (
	_ Preferences = (*MemoryPreferences)(nil)
	_ Preferences = (*storage.Store)(nil)
)

// activeGame tracks the running game of a session so it can be closed from
// outside the program loop. Shared by every copy of a SessionModel.
type activeGame struct {
	mu     sync.Mutex
	game   *combo.Game
	closed bool
}

func (a *activeGame) set(g *combo.Game) {
	a.mu.Lock()
	closed := a.closed
	if !closed {
		a.game = g
	}
	a.mu.Unlock()

	if closed {
		g.Close()
	}
}

func (a *activeGame) clear(g *combo.Game) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.game == g {
		a.game = nil
	}
}

// Close stops the running game and any game started afterwards.
func (a *activeGame) Close() {
	a.mu.Lock()
	g := a.game
	a.game = nil
	a.closed = true
	a.mu.Unlock()

	if g != nil {
		g.Close()
	}
}

// Screen identifies the active screen of a session.
type Screen int

const (
	ScreenOnboarding Screen = iota
	ScreenMenu
	ScreenGame
	ScreenScores
	ScreenPrivacy
)

const prefsTimeout = 2 * time.Second

// SessionOptions configures a session.
type SessionOptions struct {
	Store       score.Store
	Preferences Preferences
	Game        GameOptions
	Seed        int64 // 0 picks a time-based seed per game
	Logger      *log.Logger
	Width       int
	Height      int
}

// SessionModel manages the full session flow:
// onboarding -> menu -> game / scores / privacy -> menu.
type SessionModel struct {
	opts   SessionOptions
	screen Screen
	width  int
	height int
	games  int // number of games created, used as GameModel id

	onboarding OnboardingModel
	menu       MenuModel
	game       *GameModel
	scores     ScoreboardModel
	privacy    PrivacyModel
	quitting   bool
	active     *activeGame
}

// NewSessionModel creates a session. It opens on onboarding unless the
// completed flag is already set.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Store == nil {
		opts.Store = score.NewMemoryStore()
	}
	if opts.Preferences == nil {
		opts.Preferences = NewMemoryPreferences()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := SessionModel{
		opts:   opts,
		width:  opts.Width,
		height: opts.Height,
		menu:   NewMenuModel(opts.Game.Glyphs, opts.Width, opts.Height),
		screen: ScreenMenu,
		active: &activeGame{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), prefsTimeout)
	defer cancel()
	done, err := opts.Preferences.Flag(ctx, storage.OnboardingCompleted)
	if err != nil {
		opts.Logger.Warn("cannot read onboarding flag", "err", err)
	}
	if !done {
		m.screen = ScreenOnboarding
		m.onboarding = NewOnboardingModel(opts.Width, opts.Height)
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Keep inactive screens sized for when they are shown
		m.menu, _ = m.menu.Update(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
	}

	switch m.screen {
	case ScreenOnboarding:
		return m.updateOnboarding(msg)
	case ScreenGame:
		return m.updateGame(msg)
	case ScreenScores:
		return m.updateScores(msg)
	case ScreenPrivacy:
		return m.updatePrivacy(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateOnboarding(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.onboarding, cmd = m.onboarding.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && m.onboarding.keys.MapKeyToMenuAction(key) == MenuActionQuit {
		return m.quit()
	}

	if m.onboarding.Finished() {
		ctx, cancel := context.WithTimeout(context.Background(), prefsTimeout)
		defer cancel()
		if err := m.opts.Preferences.SetFlag(ctx, storage.OnboardingCompleted, true); err != nil {
			m.opts.Logger.Warn("cannot save onboarding flag", "err", err)
		}
		m.screen = ScreenMenu
	}
	return m, cmd
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.WindowSizeMsg); !ok {
		m.menu, _ = m.menu.Update(msg)
	}

	switch m.menu.Selected() {
	case ChoicePlay:
		m.menu.selected = ChoiceNone
		return m.startGame()
	case ChoiceScores:
		m.menu.selected = ChoiceNone
		m.scores = NewScoreboardModel(m.opts.Store, m.width, m.height)
		m.screen = ScreenScores
		return m, m.scores.Init()
	case ChoicePrivacy:
		m.menu.selected = ChoiceNone
		m.privacy = NewPrivacyModel(m.width, m.height)
		m.screen = ScreenPrivacy
		return m, nil
	case ChoiceExit:
		return m.quit()
	}
	return m, nil
}

func (m SessionModel) startGame() (tea.Model, tea.Cmd) {
	seed := m.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m.games++
	game := combo.New(combo.Options{
		Seed:   seed,
		Store:  m.opts.Store,
		Logger: m.opts.Logger,
	})
	m.active.set(game)
	gm := NewGameModel(game, m.games, m.opts.Game, m.width, m.height)
	m.game = &gm
	m.screen = ScreenGame
	return m, gm.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.game == nil {
		m.screen = ScreenMenu
		return m, nil
	}

	gm, cmd := m.game.Update(msg)
	m.game = &gm

	if gm.BackToMenu() {
		gm.Close()
		m.active.clear(gm.game)
		m.game = nil
		m.screen = ScreenMenu
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.scores, cmd = m.scores.Update(msg)
	if m.scores.Back() {
		m.screen = ScreenMenu
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updatePrivacy(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.privacy, cmd = m.privacy.Update(msg)
	if m.privacy.Back() {
		m.screen = ScreenMenu
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	if m.game != nil {
		m.game.Close()
		m.active.clear(m.game.game)
		m.game = nil
	}
	m.quitting = true
	return m, tea.Quit
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case ScreenOnboarding:
		return m.onboarding.View()
	case ScreenGame:
		if m.game != nil {
			return m.game.View()
		}
	case ScreenScores:
		return m.scores.View()
	case ScreenPrivacy:
		return m.privacy.View()
	}
	return m.menu.View()
}

// Screen returns the active screen.
func (m SessionModel) Screen() Screen {
	return m.screen
}

// Game returns the active game screen, or nil.
func (m SessionModel) Game() *GameModel {
	return m.game
}

// Close stops the session's running game. It is safe to call from any
// goroutine and more than once; games started afterwards are closed at once.
func (m SessionModel) Close() {
	m.active.Close()
}

// Run starts a local session and blocks until the player exits.
func Run(opts SessionOptions) error {
	model := NewSessionModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err := p.Run()
	model.Close()
	return err
}
