package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PrivacyPolicy is the static policy text.
const PrivacyPolicy = `1. General Information

This privacy policy describes how we collect, use, and protect your information when playing Funny Combination.

2. Information Collection

The game stores only game results (the date and sequence length of each run) in a local database for display in the leaderboard. No personal information is collected or shared with third parties.

3. Information Usage

Saved game results are used exclusively for game functionality and leaderboard display.

4. Data Protection

All data is stored on the machine running the game. When you play over SSH, results are stored on the server you connected to and are anonymous.

5. Policy Changes

We reserve the right to update this privacy policy. Any changes will be published on this screen.

6. Contact

If you have any questions about this privacy policy, please contact the server operator.`

// PrivacyModel shows PrivacyPolicy in a scrollable viewport.
type PrivacyModel struct {
	viewport viewport.Model
	width    int
	height   int
	keys     KeyMap
	help     help.Model
	back     bool
}

// NewPrivacyModel creates the policy screen.
func NewPrivacyModel(width, height int) PrivacyModel {
	m := PrivacyModel{
		keys: DefaultKeyMap(),
		help: help.New(),
	}
	m.resize(width, height)
	return m
}

func (m *PrivacyModel) resize(width, height int) {
	m.width = width
	m.height = height

	w := min(max(width-6, 20), 72)
	h := max(height-8, 5)
	m.viewport = viewport.New(w, h)
	m.viewport.SetContent(lipgloss.NewStyle().Width(w).Render(PrivacyPolicy))
}

// Update handles messages for the policy screen.
func (m PrivacyModel) Update(msg tea.Msg) (PrivacyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keys.MapKeyToMenuAction(msg) {
		case MenuActionBack, MenuActionQuit, MenuActionSelect:
			m.back = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the policy screen.
func (m PrivacyModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Privacy Policy"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(m.help.View(helpKeys{m.keys.Up, m.keys.Down, m.keys.Back})))

	return center(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center, strings.Split(b.String(), "\n")...))
}

// Back reports whether the player left the screen.
func (m PrivacyModel) Back() bool {
	return m.back
}
