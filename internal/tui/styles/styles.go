// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines consistent visual styling for TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the styles used in the TUI.
type Styles struct {
	// Color palette
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color
	Muted     lipgloss.Color

	// Component styles
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Card           lipgloss.Style
	SelectedCard   lipgloss.Style
	Button         lipgloss.Style
	DisabledButton lipgloss.Style
	Selected       lipgloss.Style
	Unselected     lipgloss.Style
	GroupHeader    lipgloss.Style
	Banner         lipgloss.Style
	Focused        lipgloss.Style

	// Text styles (cached for performance)
	MutedText   lipgloss.Style
	PrimaryText lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style

	// Layout styles
	Container lipgloss.Style
}

// New creates a new Styles instance with default Tokyo Night theme.
func New() *Styles {
	// Tokyo Night color palette
	primary := lipgloss.Color("#7aa2f7")    // Blue
	secondary := lipgloss.Color("#bb9af7")  // Purple
	success := lipgloss.Color("#9ece6a")    // Green
	warning := lipgloss.Color("#e0af68")    // Yellow
	errorColor := lipgloss.Color("#f7768e") // Red
	info := lipgloss.Color("#7dcfff")       // Cyan
	muted := lipgloss.Color("#565f89")      // Gray

	background := lipgloss.Color("#1a1b26") // Dark background
	foreground := lipgloss.Color("#c0caf5") // Light foreground

	return &Styles{
		Primary:   primary,
		Secondary: secondary,
		Success:   success,
		Warning:   warning,
		Error:     errorColor,
		Info:      info,
		Muted:     muted,

		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(secondary).
			Italic(true),

		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(muted).
			PaddingLeft(1),

		SelectedCard: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(primary).
			PaddingLeft(1),

		Button: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Bold(true).
			Padding(0, 2),

		DisabledButton: lipgloss.NewStyle().
			Background(muted).
			Foreground(foreground).
			Padding(0, 2),

		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Padding(0, 1),

		Unselected: lipgloss.NewStyle().
			Foreground(foreground).
			Padding(0, 1),

		GroupHeader: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true).
			Padding(0, 1),

		Banner: lipgloss.NewStyle().
			Foreground(errorColor).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Padding(0, 1),

		Focused: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),

		// Cached text styles
		MutedText: lipgloss.NewStyle().
			Foreground(muted),

		PrimaryText: lipgloss.NewStyle().
			Foreground(primary),

		SuccessText: lipgloss.NewStyle().
			Foreground(success),

		ErrorText: lipgloss.NewStyle().
			Foreground(errorColor),

		WarningText: lipgloss.NewStyle().
			Foreground(warning),

		Container: lipgloss.NewStyle().
			Padding(1, 2),
	}
}

// StatusIcon returns styled status icons.
func (s *Styles) StatusIcon(status string) string {
	style := s.Unselected

	var icon string

	switch status {
	case "success":
		style = lipgloss.NewStyle().Foreground(s.Success)
		icon = "✓"
	case "error":
		style = lipgloss.NewStyle().Foreground(s.Error)
		icon = "✗"
	case "warning":
		style = lipgloss.NewStyle().Foreground(s.Warning)
		icon = "!"
	case "info":
		style = lipgloss.NewStyle().Foreground(s.Info)
		icon = "i"
	case "rating":
		style = lipgloss.NewStyle().Foreground(s.Warning)
		icon = "★"
	default:
		icon = "•"
	}

	return style.Render(icon)
}

// Keybinding returns styled keybinding text.
func (s *Styles) Keybinding(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Primary).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(s.Muted)

	return keyStyle.Render("["+key+"]") + " " + descStyle.Render(desc)
}
