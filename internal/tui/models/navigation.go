// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models defines shared navigation messages between UI screens.
package models

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/appscout/internal/domain"
)

// NavigateMsg is a message sent to request navigation to a specific screen.
type NavigateMsg struct {
	Screen int
	Data   any // Optional data to pass to the new screen
}

// Screen constants for navigation.
const (
	SearchScreen = iota
	DetailScreen
	SettingsScreen
	HelpScreen
)

// Key constants shared by all screens.
const (
	KeyCtrlC = "ctrl+c"
	KeyEnter = "enter"
	KeyEsc   = "esc"
	KeyTab   = "tab"
)

// GoodbyeMessage is rendered once the program is quitting.
const GoodbyeMessage = "Goodbye!\n"

// DetailData is the navigation payload of the detail screen.
type DetailData struct {
	Result  domain.SearchResult
	Country domain.CountryCode
}

// AccountsLoadedMsg carries the accounts read at startup.
type AccountsLoadedMsg struct {
	Accounts []domain.Account
	Err      error
}

// SettingsSavedMsg reports the outcome of saving settings.
type SettingsSavedMsg struct {
	Settings domain.Settings
	Err      error
}

func navigate(screen int, data any) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen, Data: data}
	}
}
