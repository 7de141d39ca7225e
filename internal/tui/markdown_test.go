package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownPlain(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderMarkdown("The **gate** opens.\n\n- Hero\n- Nox", 60)
	assert.Contains(t, out, "gate")
	assert.Contains(t, out, "Hero")
	assert.NotContains(t, out, "**")

	assert.Equal(t, "", RenderMarkdown("  \n", 60))
}

func TestApplyColorProfileNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	ApplyColorProfile()
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())
}
