// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

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
	"github.com/janderssonse/appscout/internal/tui/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, accounts domain.AccountStore) *App {
	t.Helper()

	app := NewApp(context.Background(), Deps{
		Service:   &testutil.MockSearchService{},
		Accounts:  accounts,
		Settings:  &testutil.MockSettingsStore{},
		Builder:   regions.NewBuilder(storefront.Default()),
		Localizer: i18n.New("en"),
		Logger:    zerolog.Nop(),
		Defaults:  domain.Settings{DefaultCountry: "US"},
	})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	return app
}

func TestNewApp(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	assert.Equal(t, SearchScreen, app.GetCurrentScreen())
	assert.Same(t, app.search, app.GetContentModel())
	assert.NotNil(t, app.styles)
	assert.Contains(t, app.View(), "Search")
}

func TestApp_LoadsAccountsOnInit(t *testing.T) {
	t.Parallel()

	store := &testutil.MockAccountStore{}
	store.On("Accounts", mock.Anything).Return([]domain.Account{{Email: "a@example.com", Store: "143443"}}, nil).Once()

	app := newTestApp(t, store)

	msg := app.loadAccounts()()
	app.Update(msg)

	assert.Equal(t, domain.CountryCode("DE"), app.search.Country())
	store.AssertExpectations(t)
}

func TestApp_Navigation(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	app.Update(models.NavigateMsg{Screen: models.HelpScreen})
	assert.Equal(t, HelpScreen, app.GetCurrentScreen())

	app.Update(models.NavigateMsg{Screen: models.SettingsScreen})
	assert.Equal(t, SettingsScreen, app.GetCurrentScreen())
	assert.IsType(t, &models.Settings{}, app.GetContentModel())

	app.Update(models.NavigateMsg{Screen: models.DetailScreen, Data: "not detail data"})
	assert.Equal(t, SettingsScreen, app.GetCurrentScreen(), "detail without data is ignored")

	app.Update(models.NavigateMsg{Screen: models.DetailScreen, Data: models.DetailData{
		Result:  domain.SearchResult{ID: 7, Name: "Seven"},
		Country: "SE",
	}})
	assert.Equal(t, DetailScreen, app.GetCurrentScreen())
	assert.Contains(t, app.View(), "Seven")

	app.Update(models.NavigateMsg{Screen: models.SearchScreen})
	assert.Same(t, app.search, app.GetContentModel(), "the search screen keeps its state")
}

func TestApp_SearchOutcomeReachesSearchFromOtherScreens(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	app.search.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("maps")})
	_, cmd := app.search.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, app.search.State().Loading())

	app.Update(models.NavigateMsg{Screen: models.HelpScreen})
	app.Update(models.SearchOutcomeMsg{Outcome: search.Outcome{Seq: 1, Results: testutil.Results(2)}})

	assert.Equal(t, search.PhaseSucceeded, app.search.State().Phase())
	assert.Equal(t, HelpScreen, app.GetCurrentScreen())
}

func TestApp_SettingsSaved(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)
	app.Update(models.NavigateMsg{Screen: models.SettingsScreen})

	app.Update(models.SettingsSavedMsg{Err: errors.New("disk full")})
	assert.Equal(t, SettingsScreen, app.GetCurrentScreen(), "failed saves stay on the form")

	app.Update(models.SettingsSavedMsg{Settings: domain.Settings{DefaultCountry: "DE", DefaultEntity: domain.EntityIPad}})
	assert.Equal(t, SearchScreen, app.GetCurrentScreen())
	assert.Equal(t, domain.CountryCode("DE"), app.search.Country())
	assert.Equal(t, domain.CountryCode("DE"), app.settings.DefaultCountry)
}

func TestApp_CtrlCQuits(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, models.GoodbyeMessage, app.View())
}
