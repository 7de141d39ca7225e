package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kittclouds/loredump/internal/reconcile"
)

// =============================================================================
// Update
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.state = stateAborted
			return m, tea.Quit
		}
		if m.state != stateReviewing {
			return m, nil
		}
		return m.handleKey(msg.String())

	case publishedMsg:
		if msg.err != nil {
			// Back to the review so the user can retry.
			m.err = msg.err
			m.state = stateReviewing
			return m, nil
		}
		m.err = nil
		m.result = msg.result
		m.state = stateDone
		return m, tea.Quit

	case spinner.TickMsg:
		if m.state != statePublishing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	changes := m.review.Changes()
	switch key {
	case "q", "esc":
		m.state = stateAborted
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(changes)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "x":
		if len(changes) > 0 {
			_, _ = m.review.Toggle(changes[m.cursor].ID)
		}
	case "a":
		m.review.SetAll(!m.review.AllSelected())
	case "enter":
		if m.review.Empty() {
			m.state = stateAborted
			return m, tea.Quit
		}
		m.state = statePublishing
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.publishCmd())
	}
	return m, nil
}

// =============================================================================
// View
// =============================================================================

var sectionTitles = map[reconcile.Category]string{
	reconcile.CategoryEntries: "Lore Entries",
	reconcile.CategoryTags:    "Tags",
	reconcile.CategoryArcs:    "Arcs",
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	changes := m.review.Changes()
	selected := len(m.review.Selected())
	b.WriteString(headerStyle.Render(fmt.Sprintf("Publish changes  %d/%d selected", selected, len(changes))))
	b.WriteString("\n")

	if len(changes) == 0 {
		b.WriteString("No changes detected.\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	var current reconcile.Category
	for i, c := range changes {
		if c.Category != current {
			current = c.Category
			b.WriteString(sectionStyle.Render(sectionTitles[current]))
			b.WriteString("\n")
		}

		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if c.Selected {
			box = "[x]"
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", pointer, box, kindStyles[string(c.Kind)].Render(string(c.Kind)), c.Label)

		if c.Kind == reconcile.Modified && len(c.Detail) == 2 {
			b.WriteString(oldStyle.Render("- "+c.Detail[0]) + "\n")
			b.WriteString(newStyle.Render("+ "+c.Detail[1]) + "\n")
			continue
		}
		for _, line := range c.Detail {
			b.WriteString(detailStyle.Render(line) + "\n")
		}
	}

	switch m.state {
	case statePublishing:
		b.WriteString("\n" + m.spinner.View() + " Publishing...\n")
	case stateDone:
		b.WriteString("\n" + okStyle.Render(fmt.Sprintf("Published %d change(s).", m.result.Published)) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("Failed to publish changes: "+m.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("j/k move  space toggle  a all  enter publish  q quit"))
	return b.String()
}
