package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kittclouds/loredump/pkg/lore"
)

// palette maps lore colors onto terminal colors.
var palette = map[lore.Color]lipgloss.Color{
	lore.Purple: lipgloss.Color("#c4a7e7"),
	lore.Green:  lipgloss.Color("#a6da95"),
	lore.Blue:   lipgloss.Color("#8aadf4"),
	lore.Orange: lipgloss.Color("#f5a97f"),
	lore.Teal:   lipgloss.Color("#8bd5ca"),
	lore.Pink:   lipgloss.Color("#f5bde6"),
	lore.Amber:  lipgloss.Color("#eed49f"),
	lore.Slate:  lipgloss.Color("#a5adcb"),
}

var (
	colorText    = lipgloss.Color("#cad3f5")
	colorSubtext = lipgloss.Color("#8087a2")
	colorAdded   = lipgloss.Color("#a6da95")
	colorChanged = lipgloss.Color("#eed49f")
	colorDeleted = lipgloss.Color("#ed8796")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorSubtext).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText).MarginTop(1)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(palette[lore.Purple])
	detailStyle  = lipgloss.NewStyle().Foreground(colorSubtext).PaddingLeft(8)
	oldStyle     = lipgloss.NewStyle().Foreground(colorDeleted).PaddingLeft(8)
	newStyle     = lipgloss.NewStyle().Foreground(colorAdded).PaddingLeft(8)
	helpStyle    = lipgloss.NewStyle().Foreground(colorSubtext).MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(colorDeleted).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(colorAdded).Bold(true)

	kindStyles = map[string]lipgloss.Style{
		"added":    lipgloss.NewStyle().Foreground(colorAdded).Width(9),
		"modified": lipgloss.NewStyle().Foreground(colorChanged).Width(9),
		"deleted":  lipgloss.NewStyle().Foreground(colorDeleted).Width(9),
	}
)

// ColorOf returns the terminal color for a lore color.
func ColorOf(c lore.Color) lipgloss.Color {
	if tc, ok := palette[lore.NormalizeColor(c)]; ok {
		return tc
	}
	return palette[lore.DefaultColor]
}

// Chip renders a tag name in its color.
func Chip(name string, c lore.Color) string {
	return lipgloss.NewStyle().Foreground(ColorOf(c)).Render(name)
}

// Chips renders an entry's tag references.
func Chips(refs lore.TagRefs) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = Chip(r.Name, r.Color)
	}
	return strings.Join(parts, " ")
}
