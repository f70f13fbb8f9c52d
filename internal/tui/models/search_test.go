// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/i18n"
	"github.com/janderssonse/appscout/internal/regions"
	"github.com/janderssonse/appscout/internal/search"
	"github.com/janderssonse/appscout/internal/storefront"
	"github.com/janderssonse/appscout/internal/testutil"
	"github.com/janderssonse/appscout/internal/tui/styles"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSearch(t *testing.T, svc domain.SearchService) *Search {
	t.Helper()

	m := NewSearch(context.Background(), styles.New(), SearchConfig{
		Service:   svc,
		Builder:   regions.NewBuilder(storefront.Default()),
		Localizer: i18n.New("en"),
		Logger:    zerolog.Nop(),
		Settings:  domain.Settings{DefaultCountry: "US", ResultLimit: 10},
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}

		return out
	}

	return []tea.Msg{msg}
}

func outcomeOf(t *testing.T, cmd tea.Cmd) SearchOutcomeMsg {
	t.Helper()

	for _, msg := range collect(cmd) {
		if outcome, ok := msg.(SearchOutcomeMsg); ok {
			return outcome
		}
	}

	t.Fatal("command produced no search outcome")

	return SearchOutcomeMsg{}
}

func typeAndSubmit(m *Search, term string) tea.Cmd {
	m.Update(keyRunes(term))
	_, cmd := m.Update(keyType(tea.KeyEnter))

	return cmd
}

func TestSearch_SubmitAndResolve(t *testing.T) {
	t.Parallel()

	svc := &testutil.MockSearchService{}
	svc.On("Search", mock.Anything, domain.SearchQuery{
		Term: "shadowgun", Country: "US", Entity: domain.EntityIPhone, Limit: 10,
	}).Return(testutil.Results(3), nil).Once()

	m := newTestSearch(t, svc)
	assert.Contains(t, m.View(), "No results", "idle state shows the placeholder")

	cmd := typeAndSubmit(m, "shadowgun")
	require.NotNil(t, cmd)
	assert.True(t, m.State().Loading())
	assert.Contains(t, m.View(), "Searching…")
	assert.NotContains(t, m.View(), "No results")

	m.Update(outcomeOf(t, cmd))

	assert.Equal(t, search.PhaseSucceeded, m.State().Phase())
	assert.Len(t, m.rows, 3)
	assert.Contains(t, m.View(), "App A")
	svc.AssertExpectations(t)
}

func TestSearch_IgnoresBlankAndConcurrentSubmissions(t *testing.T) {
	t.Parallel()

	svc := &testutil.MockSearchService{}
	m := newTestSearch(t, svc)

	_, cmd := m.Update(keyType(tea.KeyEnter))
	assert.Nil(t, cmd, "blank term is not submitted")
	assert.Equal(t, search.PhaseIdle, m.State().Phase())

	first := typeAndSubmit(m, "   ")
	assert.Nil(t, first, "whitespace term is not submitted")

	m.input.SetValue("maps")

	_, first = m.Update(keyType(tea.KeyEnter))
	require.NotNil(t, first)

	_, second := m.Update(keyType(tea.KeyEnter))
	assert.Nil(t, second, "submissions while loading are ignored")
}

func TestSearch_DropsStaleOutcomes(t *testing.T) {
	t.Parallel()

	m := newTestSearch(t, &testutil.MockSearchService{})
	m.input.SetValue("maps")

	_, cmd := m.Update(keyType(tea.KeyEnter))
	require.NotNil(t, cmd)

	m.Update(SearchOutcomeMsg{Outcome: search.Outcome{Seq: 99, Results: testutil.Results(5)}})

	assert.True(t, m.State().Loading())
	assert.Empty(t, m.rows)
}

func TestSearch_FailureShowsBanner(t *testing.T) {
	t.Parallel()

	svc := &testutil.MockSearchService{}
	svc.On("Search", mock.Anything, mock.Anything).Return(nil, &domain.SearchError{
		Op:      "search",
		Message: "Network connection failed",
		Err:     errors.Join(domain.ErrNetworkFailure, errors.New("dial tcp")),
	}).Once()

	m := newTestSearch(t, svc)
	cmd := typeAndSubmit(m, "maps")
	m.Update(outcomeOf(t, cmd))

	assert.Equal(t, search.PhaseFailed, m.State().Phase())
	assert.Contains(t, m.View(), "Network connection failed")
	assert.NotContains(t, m.View(), "No results")
	assert.Empty(t, m.rows)
}

func TestSearch_EmptyResultsShowPlaceholder(t *testing.T) {
	t.Parallel()

	svc := &testutil.MockSearchService{}
	svc.On("Search", mock.Anything, mock.Anything).Return([]domain.SearchResult{}, nil).Once()

	m := newTestSearch(t, svc)
	cmd := typeAndSubmit(m, "zzzz")
	m.Update(outcomeOf(t, cmd))

	assert.Contains(t, m.View(), "No results")
}

func TestSearch_AccountsSelectInitialCountry(t *testing.T) {
	t.Parallel()

	m := newTestSearch(t, &testutil.MockSearchService{})
	assert.Equal(t, domain.CountryCode("US"), m.Country())

	m.Update(AccountsLoadedMsg{Accounts: []domain.Account{
		{Email: "a@example.com", Store: "000000"},
		{Email: "b@example.com", Store: "143456-2,32"},
	}})

	assert.Equal(t, domain.CountryCode("SE"), m.Country())
	assert.Equal(t, []domain.CountryCode{"SE"}, m.lists.Available)

	m.Update(AccountsLoadedMsg{Err: errors.New("boom")})
	assert.Equal(t, domain.CountryCode("SE"), m.Country(), "load failures keep the current selection")
}

func TestSearch_CountryPicker(t *testing.T) {
	t.Parallel()

	m := newTestSearch(t, &testutil.MockSearchService{})
	m.Update(AccountsLoadedMsg{Accounts: []domain.Account{{Email: "a@example.com", Store: "143456"}}})

	m.Update(keyType(tea.KeyTab))
	require.Equal(t, focusCountry, m.focus)

	m.Update(keyType(tea.KeyEnter))
	require.NotNil(t, m.picker)
	assert.Contains(t, m.View(), "Available Regions")
	assert.Contains(t, m.View(), "Sweden (SE)")

	m.Update(keyRunes("g"))
	code, ok := m.picker.selected()
	require.True(t, ok)

	m.Update(keyType(tea.KeyEnter))
	assert.Nil(t, m.picker)
	assert.Equal(t, code, m.Country())

	m.Update(keyType(tea.KeyEnter))
	m.Update(keyType(tea.KeyDown))
	m.Update(keyType(tea.KeyEsc))
	assert.Nil(t, m.picker)
	assert.Equal(t, code, m.Country(), "escape keeps the previous choice")
}

func TestSearch_EntityToggle(t *testing.T) {
	t.Parallel()

	m := newTestSearch(t, &testutil.MockSearchService{})
	assert.Equal(t, domain.EntityIPhone, m.Entity())

	m.Update(keyType(tea.KeyTab))
	m.Update(keyType(tea.KeyTab))
	require.Equal(t, focusEntity, m.focus)

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, domain.EntityIPad, m.Entity())

	m.Update(keyType(tea.KeyRight))
	assert.Equal(t, domain.EntityIPhone, m.Entity())
}

func TestSearch_OpenDetailCarriesSearchCountry(t *testing.T) {
	t.Parallel()

	svc := &testutil.MockSearchService{}
	svc.On("Search", mock.Anything, mock.Anything).Return(testutil.Results(2), nil).Once()

	m := newTestSearch(t, svc)
	cmd := typeAndSubmit(m, "maps")

	// Changing the region after submitting does not relabel the results.
	m.country = "DE"

	m.Update(outcomeOf(t, cmd))
	m.setFocus(focusResults)

	m.Update(keyType(tea.KeyDown))
	_, cmd = m.Update(keyType(tea.KeyEnter))
	require.NotNil(t, cmd)

	nav, ok := cmd().(NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, DetailScreen, nav.Screen)

	data, ok := nav.Data.(DetailData)
	require.True(t, ok)
	assert.Equal(t, "App B", data.Result.Name)
	assert.Equal(t, domain.CountryCode("US"), data.Country)
}

func TestSearch_SettingsSavedUpdatesDefaults(t *testing.T) {
	t.Parallel()

	m := newTestSearch(t, &testutil.MockSearchService{})
	m.Update(SettingsSavedMsg{Settings: domain.Settings{
		DefaultCountry: "DE",
		DefaultEntity:  domain.EntityIPad,
		ResultLimit:    5,
	}})

	assert.Equal(t, domain.CountryCode("DE"), m.Country())
	assert.Equal(t, domain.EntityIPad, m.Entity())

	req, ok := m.session.Submit("maps", m.Country(), m.Entity())
	require.True(t, ok)
	assert.Equal(t, 5, req.Query.Limit)
}

func TestSearch_Navigation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		keys   []tea.KeyMsg
		screen int
	}{
		{"f1 opens help from the query", []tea.KeyMsg{keyType(tea.KeyF1)}, HelpScreen},
		{"ctrl+s opens settings", []tea.KeyMsg{keyType(tea.KeyCtrlS)}, SettingsScreen},
		{"? opens help outside the query", []tea.KeyMsg{keyType(tea.KeyTab), keyRunes("?")}, HelpScreen},
		{"s opens settings outside the query", []tea.KeyMsg{keyType(tea.KeyTab), keyRunes("s")}, SettingsScreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newTestSearch(t, &testutil.MockSearchService{})

			var cmd tea.Cmd
			for _, key := range tt.keys {
				_, cmd = m.Update(key)
			}

			require.NotNil(t, cmd)

			nav, ok := cmd().(NavigateMsg)
			require.True(t, ok)
			assert.Equal(t, tt.screen, nav.Screen)
		})
	}
}

func TestSearch_QueryKeepsLetters(t *testing.T) {
	t.Parallel()

	m := newTestSearch(t, &testutil.MockSearchService{})
	m.Update(keyRunes("qs?"))

	assert.Equal(t, "qs?", m.input.Value())
	assert.False(t, m.quitting)
}

func TestSearch_UserChoiceSurvivesLaterDefaults(t *testing.T) {
	t.Parallel()

	m := newTestSearch(t, &testutil.MockSearchService{})

	m.Update(keyType(tea.KeyTab))
	m.Update(keyType(tea.KeyEnter))
	require.NotNil(t, m.picker)
	m.Update(keyRunes("j"))
	m.Update(keyType(tea.KeyEnter))
	require.Equal(t, domain.CountryCode("JP"), m.Country())

	m.Update(keyType(tea.KeyTab))
	m.Update(keyType(tea.KeyRight))
	require.Equal(t, domain.EntityIPad, m.Entity())

	m.Update(AccountsLoadedMsg{Accounts: []domain.Account{{Email: "a@example.com", Store: "143456"}}})
	assert.Equal(t, domain.CountryCode("JP"), m.Country(), "accounts arriving late keep the chosen region")
	assert.Equal(t, []domain.CountryCode{"SE"}, m.lists.Available)

	m.Update(SettingsSavedMsg{Settings: domain.Settings{
		DefaultCountry: "DE",
		DefaultEntity:  domain.EntityIPhone,
		ResultLimit:    5,
	}})
	assert.Equal(t, domain.CountryCode("JP"), m.Country(), "new defaults keep the chosen region")
	assert.Equal(t, domain.EntityIPad, m.Entity(), "new defaults keep the chosen device")

	req, ok := m.session.Submit("maps", m.Country(), m.Entity())
	require.True(t, ok)
	assert.Equal(t, 5, req.Query.Limit, "the limit still follows settings")
}
