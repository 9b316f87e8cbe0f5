package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/billsplit/internal/calculator"
)

func (m Model) View() string {
	paneWidth := m.width/2 - 4
	if paneWidth < 30 {
		paneWidth = 30
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.pane(itemsPane, "Items", m.itemsView(), paneWidth),
		m.pane(peoplePane, "People", m.peopleView(), paneWidth),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		m.pane(assignPane, "Assign", m.assignView(), paneWidth),
		m.pane(splitPane, "Split", m.splitView(), paneWidth),
	)

	sections := []string{top, bottom}
	if m.mode != noInput {
		sections = append(sections, m.inputView())
	}
	if line := m.statusLine(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, helpStyle.Render(m.help()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) pane(p pane, title, body string, width int) string {
	style := paneStyle
	if m.focus == p && m.mode == noInput {
		style = focusedPaneStyle
	}
	return style.Width(width).Render(titleStyle.Render(title) + "\n" + body)
}

func (m Model) cursor(p pane, i, at int) string {
	if m.focus == p && i == at {
		return selectedStyle.Render(">") + " "
	}
	return "  "
}

func (m Model) itemsView() string {
	items := m.board.snap.Items
	if len(items) == 0 {
		return mutedStyle.Render("No items yet. Press i to add one.")
	}
	lines := make([]string, 0, len(items))
	for i, item := range items {
		assigned := pendingStyle.Render("unassigned")
		if n := len(item.AssignedTo); n > 0 {
			assigned = successStyle.Render(fmt.Sprintf("%d sharing", n))
		}
		lines = append(lines, fmt.Sprintf("%s%s  %d × %s = %s  %s",
			m.cursor(itemsPane, i, m.itemCursor),
			item.Name,
			item.Quantity,
			calculator.FormatAmount(item.Price),
			calculator.FormatAmount(item.Total()),
			assigned,
		))
	}
	return strings.Join(lines, "\n")
}

func (m Model) peopleView() string {
	people := m.board.snap.Participants
	if len(people) == 0 {
		return mutedStyle.Render("No people yet. Press p to add one.")
	}
	lines := make([]string, 0, len(people))
	for i, name := range people {
		lines = append(lines, m.cursor(peoplePane, i, m.personCursor)+name)
	}
	return strings.Join(lines, "\n")
}

// assignView shows a checkbox per participant for the selected item.
func (m Model) assignView() string {
	snap := m.board.snap
	if len(snap.Items) == 0 || len(snap.Participants) == 0 {
		return mutedStyle.Render("Add items and people to assign them.")
	}
	item := snap.Items[m.itemCursor]

	lines := []string{accentStyle.Render(item.Name)}
	for i, name := range snap.Participants {
		box := mutedStyle.Render(boxUnchecked)
		if item.IsAssigned(name) {
			box = successStyle.Render(boxChecked)
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", m.cursor(assignPane, i, m.assignCursor), box, name))
	}
	return strings.Join(lines, "\n")
}

func (m Model) splitView() string {
	if len(m.board.splits) == 0 {
		return mutedStyle.Render("Nobody to split with.")
	}
	lines := make([]string, 0, len(m.board.splits)+3)
	for _, split := range m.board.splits {
		lines = append(lines, fmt.Sprintf("%s: %s", split.Participant, calculator.FormatAmount(split.Total)))
	}

	sum := m.board.summary
	lines = append(lines, "", mutedStyle.Render("Bill total: "+calculator.FormatAmount(sum.Total)))
	if sum.Unallocated != 0 {
		lines = append(lines, pendingStyle.Render(fmt.Sprintf("Not split: %s (%d unassigned items)",
			calculator.FormatAmount(sum.Unallocated), sum.UnassignedItems)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) inputView() string {
	var title, body string
	switch m.mode {
	case addItemInput:
		title = "Add item"
		views := make([]string, len(m.itemFields))
		for i, f := range m.itemFields {
			views[i] = f.View()
		}
		body = strings.Join(views, " ")
	case addPersonInput:
		title = "Add participant"
		body = m.ti.View()
	case scanPathInput:
		title = "Scan bill"
		body = m.ti.View()
	}
	if m.inputErr != "" {
		title += "  " + errorStyle.Render(m.inputErr)
	}
	return paneStyle.Render(title + "\n" + body)
}

func (m Model) statusLine() string {
	if m.statusMsg == "" {
		return ""
	}
	if m.status.IsError() {
		return errorStyle.Render("✖ " + m.statusMsg)
	}
	if m.scanning {
		return pendingStyle.Render("• " + m.statusMsg)
	}
	return successStyle.Render("✔ " + m.statusMsg)
}

func (m Model) help() string {
	if m.mode == addItemInput {
		return "tab next field • enter add • esc cancel"
	}
	if m.mode != noInput {
		return "enter confirm • esc cancel"
	}
	keys := []string{"tab switch pane", "↑/↓ move", "i add item", "p add person", "d remove", "space toggle"}
	if m.scanner != nil {
		keys = append(keys, "s scan")
	}
	return strings.Join(append(keys, "q quit"), " • ")
}
