package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// OnboardingPage is one page of the first-launch walkthrough.
type OnboardingPage struct {
	Icon        string
	Title       string
	Description string
}

// OnboardingPages is the walkthrough shown until it is completed once.
var OnboardingPages = []OnboardingPage{
	{
		Icon:        "🎮",
		Title:       "Welcome to Funny Combination",
		Description: "Test your memory by repeating sequences of emojis. Watch carefully and remember the pattern!",
	},
	{
		Icon:        "👀",
		Title:       "Watch the Sequence",
		Description: "Emojis will appear one by one every second. Pay attention to the order!",
	},
	{
		Icon:        "🎯",
		Title:       "Repeat the Pattern",
		Description: "After the sequence ends, press the keys for the emojis in the same order. Each level adds one more emoji!",
	},
	{
		Icon:        "🏆",
		Title:       "Beat Your High Score",
		Description: "The game continues until you make a mistake. Try to reach the highest level possible!",
	},
}

// OnboardingModel pages through OnboardingPages.
type OnboardingModel struct {
	page     int
	width    int
	height   int
	keys     KeyMap
	help     help.Model
	finished bool
}

// NewOnboardingModel creates a walkthrough at the first page.
func NewOnboardingModel(width, height int) OnboardingModel {
	return OnboardingModel{
		width:  width,
		height: height,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

// Update handles messages for the walkthrough.
func (m OnboardingModel) Update(msg tea.Msg) (OnboardingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keys.MapKeyToMenuAction(msg) {
		case MenuActionPrev, MenuActionUp:
			if m.page > 0 {
				m.page--
			}
		case MenuActionNext, MenuActionDown, MenuActionSelect:
			if m.page < len(OnboardingPages)-1 {
				m.page++
			} else {
				m.finished = true
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

// View renders the current page.
func (m OnboardingModel) View() string {
	p := OnboardingPages[m.page]

	width := 50
	if m.width > 0 && m.width-4 < width {
		width = max(m.width-4, 20)
	}

	var b strings.Builder
	b.WriteString(p.Icon)
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(p.Description))
	b.WriteString("\n\n")

	dots := make([]string, len(OnboardingPages))
	for i := range dots {
		dots[i] = "○"
		if i == m.page {
			dots[i] = "●"
		}
	}
	b.WriteString(strings.Join(dots, " "))
	b.WriteString("\n\n")

	next := "Next"
	if m.page == len(OnboardingPages)-1 {
		next = "Get Started"
	}
	nav := fmt.Sprintf("Page %d/%d  ·  enter: %s", m.page+1, len(OnboardingPages), next)
	b.WriteString(subtleStyle.Render(nav))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(m.help.View(helpKeys{m.keys.Prev, m.keys.Next, m.keys.Quit})))

	return center(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center, strings.Split(b.String(), "\n")...))
}

// Page returns the zero-based page index.
func (m OnboardingModel) Page() int {
	return m.page
}

// Finished reports whether the last page was confirmed.
func (m OnboardingModel) Finished() bool {
	return m.finished
}
