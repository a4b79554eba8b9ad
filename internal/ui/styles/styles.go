// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// SHARED STYLES
// =============================================================================

// Header styles the top bar with the username and backend address.
var Header = lipgloss.NewStyle().
	Background(SurfaceDim).
	Foreground(TextPrimary).
	Bold(true).
	Padding(0, 1)

// StatusBar styles the bottom hint line.
var StatusBar = lipgloss.NewStyle().
	Background(SurfaceDim).
	Foreground(TextMuted).
	Padding(0, 1)

// Sidebar frames the dialog list.
var Sidebar = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), false, true, false, false).
	BorderForeground(Overlay).
	Padding(0, 1)

// SidebarItem is an unselected dialog row.
var SidebarItem = lipgloss.NewStyle().
	Foreground(TextSecondary)

// SidebarSelected is the current dialog row.
var SidebarSelected = lipgloss.NewStyle().
	Background(SelectionBg).
	Foreground(TextPrimary).
	Bold(true)

// =============================================================================
// MESSAGE STYLES
// =============================================================================

// UserBubble frames a user message.
var UserBubble = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(UserBubbleBorder).
	Foreground(UserBubbleFg).
	Padding(0, 1)

// AssistantBubble frames an assistant message.
var AssistantBubble = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(AssistantBubbleBorder).
	Foreground(AssistantBubbleFg).
	Padding(0, 1)

// ErrorBubble frames an error message.
var ErrorBubble = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ErrorBubbleBorder).
	Foreground(ErrorBubbleFg).
	Padding(0, 1)

// SenderLabel styles the name line above a bubble.
var SenderLabel = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Bold(true)

// Timestamp styles message times.
var Timestamp = lipgloss.NewStyle().
	Foreground(TextMuted)

// StreamingIndicator styles the typing marker on an unfinished message.
var StreamingIndicator = lipgloss.NewStyle().
	Foreground(Amber)

// =============================================================================
// FORM STYLES
// =============================================================================

// FormTitle heads the login form.
var FormTitle = lipgloss.NewStyle().
	Foreground(Teal).
	Bold(true).
	MarginBottom(1)

// FormLabel styles input field labels.
var FormLabel = lipgloss.NewStyle().
	Foreground(TextSecondary)

// FormError styles validation and login failure text.
var FormError = lipgloss.NewStyle().
	Foreground(Rose)

// FormBox frames the centered login panel.
var FormBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Overlay).
	Padding(1, 3)

// =============================================================================
// TOAST STYLES
// =============================================================================

// ToastInfo frames an informational toast.
var ToastInfo = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Blue).
	Foreground(TextPrimary).
	Padding(0, 1)

// ToastSuccess frames a success toast.
var ToastSuccess = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Emerald).
	Foreground(TextPrimary).
	Padding(0, 1)

// ToastWarning frames a warning toast.
var ToastWarning = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Amber).
	Foreground(TextPrimary).
	Padding(0, 1)

// ToastError frames an error toast.
var ToastError = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Rose).
	Foreground(TextPrimary).
	Bold(true).
	Padding(0, 1)
