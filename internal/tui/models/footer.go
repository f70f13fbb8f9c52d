// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models implements TUI screen models using Bubble Tea.
package models

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/tui/styles"
)

// FooterAction is a key binding shown in a screen footer. Action names a
// footer.<Action> message.
type FooterAction struct {
	Key    string
	Action string
}

// Footer action names.
const (
	actionMove      = "move"
	actionJump      = "jump"
	actionChoose    = "choose"
	actionCancel    = "cancel"
	actionSearch    = "search"
	actionNextField = "next_field"
	actionDetails   = "details"
	actionEditQuery = "edit_query"
	actionSettings  = "settings"
	actionQuit      = "quit"
	actionNext      = "next"
	actionBack      = "back"
	actionHelp      = "help"
)

// footerLabels are the English labels used when a catalog lacks a key.
var footerLabels = map[string]string{ //nolint:gochecknoglobals
	actionMove:      "Move",
	actionJump:      "Jump",
	actionChoose:    "Choose",
	actionCancel:    "Cancel",
	actionSearch:    "Search",
	actionNextField: "Next field",
	actionDetails:   "Details",
	actionEditQuery: "Edit query",
	actionSettings:  "Settings",
	actionQuit:      "Quit",
	actionNext:      "Next",
	actionBack:      "Back",
	actionHelp:      "Help",
}

func footerLabel(loc domain.Localizer, action string) string {
	fallback, ok := footerLabels[action]
	if !ok {
		fallback = action
	}

	if loc == nil {
		return fallback
	}

	return loc.T("footer."+action, fallback)
}

// RenderFooter draws the key bindings of a screen as "[key] label" pairs
// under a rule. includeHelp appends the "?" binding.
func RenderFooter(styleConfig *styles.Styles, loc domain.Localizer, width int, actions []FooterAction, includeHelp bool) string {
	bracket := lipgloss.NewStyle().Bold(true).Foreground(styleConfig.Primary)
	label := lipgloss.NewStyle().Foreground(styleConfig.Muted)

	binding := func(key lipgloss.Style, text, action string) string {
		return bracket.Render("[") + key.Render(text) + bracket.Render("]") + " " +
			label.Render(footerLabel(loc, action))
	}

	parts := make([]string, 0, len(actions)+1)
	for _, action := range actions {
		parts = append(parts, binding(bracket, action.Key, action.Action))
	}

	if includeHelp {
		parts = append(parts, binding(lipgloss.NewStyle().Bold(true).Foreground(styleConfig.Warning), "?", actionHelp))
	}

	return lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(lipgloss.Color("240")).
		Width(width).
		Render(strings.Join(parts, "   "))
}
