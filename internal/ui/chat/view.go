// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dkiselev/gigachat-tui/internal/ui/styles"
	"github.com/dkiselev/gigachat-tui/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.input.View(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

// renderHeader draws the top bar with identity and backend address.
func (m Model) renderHeader() string {
	left := fmt.Sprintf("GigaChat  %s@%s", m.session.Username, m.session.Client.BaseURL())
	return styles.Header.Width(m.width).Render(util.TruncateWidth(left, m.width-2))
}

// renderSidebar draws the dialog list with the current one highlighted.
func (m Model) renderSidebar() string {
	dialogs := m.store.All()
	cur := m.store.CurrentID()

	rows := []string{styles.SenderLabel.Render("Dialogs")}
	for _, d := range dialogs {
		name := util.TruncateWidth(d.Name, sidebarWidth-4)
		if d.ID == cur {
			rows = append(rows, styles.SidebarSelected.Render(styles.IndicatorActive+" "+name))
		} else {
			rows = append(rows, styles.SidebarItem.Render("  "+name))
		}
	}

	height := m.height - 2
	if height < 3 {
		height = 3
	}
	return styles.Sidebar.Width(sidebarWidth - 2).Height(height).
		Render(strings.Join(rows, "\n"))
}

// renderStatusBar draws the bottom hint line, or the typing indicator
// while an exchange is running.
func (m Model) renderStatusBar() string {
	var text string
	if m.busy {
		text = m.spin.View() + " assistant is typing..."
	} else {
		text = "enter send • ctrl+n new dialog • ctrl+j/k switch • ctrl+l logout • ctrl+c quit"
	}
	return styles.StatusBar.Width(m.width).Render(util.TruncateWidth(text, m.width-2))
}
