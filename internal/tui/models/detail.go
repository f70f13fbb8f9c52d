// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/render"
	"github.com/janderssonse/appscout/internal/tui/styles"
)

// Detail shows one search result in full.
type Detail struct {
	styles   *styles.Styles
	loc      domain.Localizer
	data     DetailData
	row      render.Row
	width    int
	height   int
	quitting bool
}

// NewDetail creates the detail screen for a result found in a country.
func NewDetail(styleConfig *styles.Styles, loc domain.Localizer, data DetailData) *Detail {
	return &Detail{
		styles: styleConfig,
		loc:    loc,
		data:   data,
		row:    render.NewRow(data.Result, loc),
	}
}

// Init initializes the detail model.
func (m *Detail) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail model.
func (m *Detail) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case KeyCtrlC, "q":
			m.quitting = true

			return m, tea.Quit
		case KeyEsc, "backspace", "h", "left":
			return m, navigate(SearchScreen, nil)
		case "?":
			return m, navigate(HelpScreen, nil)
		}
	}

	return m, nil
}

// View renders the detail screen.
func (m *Detail) View() string {
	if m.quitting {
		return GoodbyeMessage
	}

	result := m.data.Result
	storeURL := m.row.StoreURL

	if storeURL == "" {
		storeURL = m.row.Link
	}

	fields := []struct {
		key   string
		label string
		value string
	}{
		{"detail.developer", "Developer", result.ArtistName},
		{"detail.genre", "Genre", result.PrimaryGenreName},
		{"detail.price", "Price", m.row.Price},
		{"detail.rating", "Rating", m.row.Rating},
		{"detail.version", "Version", result.Version},
		{"detail.bundle", "Bundle ID", result.BundleID},
		{"search.country", "Region", countryLabel(m.loc, m.data.Country)},
		{"detail.link", "Store page", storeURL},
	}

	labels := make([]string, 0, len(fields))
	values := make([]string, 0, len(fields))

	for _, field := range fields {
		if field.value == "" {
			continue
		}

		labels = append(labels, m.styles.MutedText.Render(m.loc.T(field.key, field.label)))
		values = append(values, field.value)
	}

	table := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().PaddingRight(2).Render(strings.Join(labels, "\n")),
		strings.Join(values, "\n"),
	)

	card := m.styles.SelectedCard.Render(table)
	if m.width > 0 {
		card = m.styles.SelectedCard.Width(max(m.width-6, 20)).Render(table)
	}

	return m.styles.Container.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Subtitle.Render(m.loc.T("detail.title", "App details")),
		m.styles.Title.Render(m.row.Name),
		card,
		"",
		RenderFooter(m.styles, m.loc, m.width, []FooterAction{
			{Key: "Esc", Action: actionBack},
			{Key: "q", Action: actionQuit},
		}, true),
	))
}
