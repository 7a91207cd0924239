package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/funny-combination/internal/config"
	"github.com/vovakirdan/funny-combination/internal/games/combo"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("11")).
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("57")).
			Width(9).
			Height(3).
			Align(lipgloss.Center, lipgloss.Center)

	echoTileStyle = tileStyle.
			BorderForeground(lipgloss.Color("10"))

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeButtonStyle = buttonStyle.
				BorderForeground(lipgloss.Color("229"))
)

// Glyphs renders symbols in the configured set.
type Glyphs struct {
	set config.GlyphSet
}

// NewGlyphs creates a renderer for set. Unknown sets render as emoji.
func NewGlyphs(set config.GlyphSet) Glyphs {
	return Glyphs{set: set}
}

// Symbol returns the glyph for s.
func (g Glyphs) Symbol(s combo.Symbol) string {
	if g.set == config.GlyphsASCII {
		return s.ASCII()
	}
	return s.Emoji()
}

// Hidden returns the placeholder shown while no symbol is revealed.
func (g Glyphs) Hidden() string {
	return "?"
}

// Alphabet renders every symbol separated by spaces.
func (g Glyphs) Alphabet() string {
	parts := make([]string, len(combo.Alphabet))
	for i, s := range combo.Alphabet {
		parts[i] = g.Symbol(s)
	}
	return strings.Join(parts, " ")
}

// center places a block in the middle of the terminal.
func center(width, height int, block string) string {
	if width <= 0 || height <= 0 {
		return block
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
