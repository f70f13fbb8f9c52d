// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/appscout/internal/tui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp_Sections(t *testing.T) {
	t.Parallel()

	m := NewHelp(styles.New())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Contains(t, m.View(), "Searching")

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.currentSection)

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.currentSection, "section navigation stops at the first section")
}

func TestHelp_EscapeReturnsToSearch(t *testing.T) {
	t.Parallel()

	m := NewHelp(styles.New())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	nav, ok := cmd().(NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, SearchScreen, nav.Screen)
}
