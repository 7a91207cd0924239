package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// MenuChoice identifies a main menu entry.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceScores
	ChoicePrivacy
	ChoiceExit
)

// MenuItem is a selectable menu entry.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

var menuItems = []MenuItem{
	{Choice: ChoicePlay, Title: "Play"},
	{Choice: ChoiceScores, Title: "High Scores"},
	{Choice: ChoicePrivacy, Title: "Privacy Policy"},
	{Choice: ChoiceExit, Title: "Exit"},
}

// MenuModel is the main menu screen.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	glyphs   Glyphs
	keys     KeyMap
	help     help.Model
	selected MenuChoice
}

// NewMenuModel creates a new menu model.
func NewMenuModel(glyphs Glyphs, width, height int) MenuModel {
	return MenuModel{
		items:  menuItems,
		width:  width,
		height: height,
		glyphs: glyphs,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keys.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.selected = ChoiceExit
		case MenuActionUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case MenuActionDown:
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case MenuActionSelect:
			m.selected = m.items[m.cursor].Choice
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString(m.glyphs.Alphabet())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("F U N N Y   C O M B I N A T I O N"))
	b.WriteString("\n\n")

	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + item.Title))
		} else {
			b.WriteString(itemStyle.Render("  " + item.Title))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(m.help.View(helpKeys{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Quit})))

	return center(m.width, m.height, b.String())
}

// Selected returns the chosen entry, or ChoiceNone.
func (m MenuModel) Selected() MenuChoice {
	return m.selected
}
