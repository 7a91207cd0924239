package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/funny-combination/internal/games/combo"
)

// GameOptions carries display tuning into the game screen.
type GameOptions struct {
	Glyphs        Glyphs
	TapFlash      time.Duration
	GameOverDelay time.Duration
}

// GameModel renders a running combo.Game and forwards taps to it.
// The game owns all rules; this model only mirrors published snapshots.
type GameModel struct {
	game   *combo.Game
	id     int // distinguishes messages from earlier Game instances
	feed   <-chan combo.Snapshot
	cancel func()
	snap   combo.Snapshot
	opts   GameOptions
	keys   KeyMap
	help   help.Model
	width  int
	height int

	flash    combo.Symbol // echoed tap, SymbolNone when idle
	flashSeq int

	overRun  uint64 // run whose game over screen is due
	showOver bool
	cursor   int // game over screen selection
	choice   gameOverChoice
}

type gameOverChoice int

const (
	overNone gameOverChoice = iota
	overPlayAgain
	overMainMenu
)

// NewGameModel subscribes to game. id must differ from any earlier model's.
func NewGameModel(game *combo.Game, id int, opts GameOptions, width, height int) GameModel {
	feed, cancel := game.Subscribe()
	return GameModel{
		game:   game,
		id:     id,
		feed:   feed,
		cancel: cancel,
		snap:   game.Snapshot(),
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
}

// Init starts the first run and begins listening for snapshots.
func (m GameModel) Init() tea.Cmd {
	m.game.Start()
	return listenCmd(m.id, m.feed)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (GameModel, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.game != m.id {
			return m, nil
		}
		return m.handleSnapshot(msg.snap)

	case feedClosedMsg:
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = combo.SymbolNone
		}
		return m, nil

	case gameOverReadyMsg:
		if msg.game == m.id && msg.run == m.overRun && m.snap.GameOver() && m.snap.Run == msg.run {
			m.showOver = true
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		if m.showOver {
			return m.handleGameOverKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m GameModel) handleSnapshot(snap combo.Snapshot) (GameModel, tea.Cmd) {
	prev := m.snap
	m.snap = snap

	cmds := []tea.Cmd{listenCmd(m.id, m.feed)}
	if snap.GameOver() && !(prev.GameOver() && prev.Run == snap.Run) {
		m.overRun = snap.Run
		cmds = append(cmds, gameOverCmd(m.opts.GameOverDelay, m.id, snap.Run))
	}
	if snap.Run != prev.Run {
		m.showOver = false
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input during a run.
func (m GameModel) handleKey(msg tea.KeyMsg) (GameModel, tea.Cmd) {
	if sym, ok := m.keys.MapKeyToSymbol(msg); ok {
		if !m.snap.AcceptsInput() {
			return m, nil
		}
		m.game.Submit(sym)
		m.flash = sym
		m.flashSeq++
		return m, flashCmd(m.opts.TapFlash, m.flashSeq)
	}

	switch m.keys.MapKeyToMenuAction(msg) {
	case MenuActionBack, MenuActionQuit:
		m.choice = overMainMenu
	}
	return m, nil
}

// handleGameOverKey navigates the game over options.
func (m GameModel) handleGameOverKey(msg tea.KeyMsg) (GameModel, tea.Cmd) {
	switch m.keys.MapKeyToMenuAction(msg) {
	case MenuActionUp, MenuActionPrev:
		m.cursor = 0
	case MenuActionDown, MenuActionNext:
		m.cursor = 1
	case MenuActionSelect:
		if m.cursor == 0 {
			m.flash = combo.SymbolNone
			m.showOver = false
			m.game.Reset()
			return m, nil
		}
		m.choice = overMainMenu
	case MenuActionBack, MenuActionQuit:
		m.choice = overMainMenu
	}
	return m, nil
}

// BackToMenu returns true if the player left the game.
func (m GameModel) BackToMenu() bool {
	return m.choice == overMainMenu
}

// Close releases the subscription and stops the game.
func (m GameModel) Close() {
	m.cancel()
	m.game.Close()
}

// Snapshot returns the last snapshot received.
func (m GameModel) Snapshot() combo.Snapshot {
	return m.snap
}

// ShowingGameOver reports whether the game over screen is displayed.
func (m GameModel) ShowingGameOver() bool {
	return m.showOver
}

// View renders the game.
func (m GameModel) View() string {
	if m.showOver {
		return center(m.width, m.height, m.renderGameOver())
	}
	return center(m.width, m.height, m.renderBoard())
}

func (m GameModel) renderBoard() string {
	g := m.opts.Glyphs

	tile := tileStyle
	face := g.Hidden()
	if sym, ok := m.snap.Shown(); ok {
		face = g.Symbol(sym)
	} else if m.flash != combo.SymbolNone {
		face = g.Symbol(m.flash)
		tile = echoTileStyle
	}

	status := "Watch..."
	switch {
	case m.snap.Pacing:
		status = "Well done!"
	case m.snap.AcceptsInput():
		status = fmt.Sprintf("Your turn  %d/%d", m.snap.Progress, m.snap.Level)
	case m.snap.GameOver():
		status = "Oops!"
	}

	buttons := make([]string, len(combo.Alphabet))
	for i, sym := range combo.Alphabet {
		label := fmt.Sprintf("%s\n%d", g.Symbol(sym), i+1)
		if m.snap.AcceptsInput() {
			buttons[i] = activeButtonStyle.Render(label)
		} else {
			buttons[i] = buttonStyle.Faint(true).Render(label)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(fmt.Sprintf("Level: %d", m.snap.Level)),
		"",
		tile.Render(face),
		"",
		status,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...),
		"",
		subtleStyle.Render(m.help.View(helpKeys{m.keys.Symbols, m.keys.Back})),
	)
}

func (m GameModel) renderGameOver() string {
	lines := []string{titleStyle.Render("Game Over"), ""}

	out := m.snap.Outcome
	if !out.Ready {
		lines = append(lines, subtleStyle.Render("Saving result..."), "")
	} else if out.NewHighScore {
		lines = append(lines, bannerStyle.Render("New High Score!"), "")
	}

	lines = append(lines,
		fmt.Sprintf("Level: %d", m.snap.Level),
		fmt.Sprintf("Completed: %d", m.snap.LastCompletedLength),
	)
	if out.Ready {
		best := "none"
		if out.Best > 0 {
			best = fmt.Sprintf("%d", out.Best)
		}
		lines = append(lines, fmt.Sprintf("Best Score: %s", best))
		if out.Err != nil {
			lines = append(lines, "", warnStyle.Render("Warning: "+out.Err.Error()))
		}
	}
	lines = append(lines, "")

	options := []string{"Play Again", "Main Menu"}
	var b strings.Builder
	for i, opt := range options {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + opt))
		} else {
			b.WriteString(itemStyle.Render("  " + opt))
		}
		if i < len(options)-1 {
			b.WriteString("\n")
		}
	}
	lines = append(lines, b.String(), "",
		subtleStyle.Render(m.help.View(helpKeys{m.keys.Up, m.keys.Down, m.keys.Select})))

	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}
