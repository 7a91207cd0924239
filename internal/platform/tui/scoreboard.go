package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/funny-combination/internal/score"
)

// Scoreboard layout constants
const (
	tableMinHeight = 5
	loadTimeout    = 5 * time.Second
)

var medals = [...]string{"🥇", "🥈", "🥉"}

// Rank formats a 1-based leaderboard position.
func Rank(pos int) string {
	if pos >= 1 && pos <= len(medals) {
		return medals[pos-1]
	}
	return fmt.Sprintf("#%d", pos)
}

// scoresLoadedMsg delivers the leaderboard read.
type scoresLoadedMsg struct {
	records []score.Record
	err     error
}

// ScoreboardModel is the high score screen.
type ScoreboardModel struct {
	store   score.Store
	records []score.Record
	err     error
	loaded  bool
	table   table.Model
	help    help.Model
	keys    KeyMap
	width   int
	height  int
	back    bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store score.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	return m
}

// Init loads the leaderboard.
func (m ScoreboardModel) Init() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		records, err := store.AllDescending(ctx)
		return scoresLoadedMsg{records: records, err: err}
	}
}

// createTable creates a new table sized to the terminal.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Length", Width: 8},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, tableMinHeight)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows updates the table with current records.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		rows[i] = table.Row{
			Rank(i + 1),
			fmt.Sprintf("%d", r.SequenceLength),
			r.Date,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (ScoreboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case scoresLoadedMsg:
		m.loaded = true
		m.records = msg.records
		m.err = msg.err
		m.updateTableRows()
		return m, nil

	case tea.KeyMsg:
		switch m.keys.MapKeyToMenuAction(msg) {
		case MenuActionBack, MenuActionQuit:
			m.back = true
			return m, nil
		case MenuActionUp, MenuActionDown:
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("HIGH SCORES"))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(warnStyle.Render("Could not load scores: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(subtleStyle.Render(m.help.View(helpKeys{m.keys.Up, m.keys.Down, m.keys.Back})))

	return center(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center, strings.Split(b.String(), "\n")...))
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if !m.loaded {
		return subtleStyle.Render("Loading...")
	}
	if len(m.records) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No scores yet\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// Back reports whether the player left the screen.
func (m ScoreboardModel) Back() bool {
	return m.back
}
