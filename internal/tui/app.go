// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui implements the interactive App Store search interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/regions"
	"github.com/janderssonse/appscout/internal/tui/models"
	"github.com/janderssonse/appscout/internal/tui/styles"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

// Screen represents different TUI screens.
type Screen int

// Define screen constants (use models constants for compatibility).
const (
	SearchScreen   Screen = Screen(models.SearchScreen)
	DetailScreen   Screen = Screen(models.DetailScreen)
	SettingsScreen Screen = Screen(models.SettingsScreen)
	HelpScreen     Screen = Screen(models.HelpScreen)
)

// Deps are the collaborators of the interactive interface.
type Deps struct {
	Service   domain.SearchService
	Accounts  domain.AccountStore
	Settings  domain.SettingsStore
	Builder   *regions.Builder
	Localizer domain.Localizer
	Logger    zerolog.Logger
	Defaults  domain.Settings
}

// helpPreloadedMsg is sent when help content has been pre-rendered.
type helpPreloadedMsg struct {
	model tea.Model
}

// App represents the main TUI application following tree-of-models pattern.
// The search screen is long lived; detail and settings screens are created
// on every visit.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type App struct {
	width         int
	height        int
	styles        *styles.Styles
	currentScreen Screen
	contentModel  tea.Model
	search        *models.Search
	models        map[Screen]tea.Model // Cache of long lived models
	ctx           context.Context
	deps          Deps
	settings      domain.Settings

	quitting bool
}

// NewApp creates a new TUI application starting on the search screen.
func NewApp(ctx context.Context, deps Deps) *App {
	app := &App{
		styles:        styles.New(),
		currentScreen: SearchScreen,
		models:        make(map[Screen]tea.Model),
		ctx:           ctx,
		deps:          deps,
		settings:      deps.Defaults.WithDefaults(),
	}

	app.search = models.NewSearch(ctx, app.styles, models.SearchConfig{
		Service:   deps.Service,
		Builder:   deps.Builder,
		Localizer: deps.Localizer,
		Logger:    deps.Logger,
		Settings:  app.settings,
	})
	app.contentModel = app.search
	app.models[SearchScreen] = app.search

	return app
}

// Run starts the TUI application with the provided context.
func (a *App) Run(ctx context.Context) error {
	program := tea.NewProgram(
		a,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
		tea.WithContext(ctx),      // Use the provided context
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI application failed: %w", err)
	}

	return nil
}

// Init implements the tea.Model interface.
func (a *App) Init() tea.Cmd {
	preloadCmd := func() tea.Msg {
		return helpPreloadedMsg{model: models.NewHelp(a.styles)}
	}

	return tea.Batch(a.contentModel.Init(), a.loadAccounts(), preloadCmd)
}

// Update implements the tea.Model interface with global navigation handling.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case helpPreloadedMsg:
		a.models[HelpScreen] = msg.model

		return a, nil
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		var cmd tea.Cmd

		a.contentModel, cmd = a.contentModel.Update(msg)
		if a.currentScreen != SearchScreen {
			a.search.Update(msg)
		}

		return a, cmd
	case models.NavigateMsg:
		return a.handleNavigation(msg)
	case models.AccountsLoadedMsg, models.SearchOutcomeMsg, spinner.TickMsg:
		// Search state advances even while another screen is shown.
		_, cmd := a.search.Update(msg)

		return a, cmd
	case models.SettingsSavedMsg:
		return a.handleSettingsSaved(msg)
	case tea.KeyMsg:
		if msg.String() == models.KeyCtrlC {
			a.quitting = true

			return a, tea.Quit
		}
	}

	var cmd tea.Cmd

	a.contentModel, cmd = a.contentModel.Update(msg)

	return a, cmd
}

// View implements the tea.Model interface.
func (a *App) View() string {
	if a.quitting {
		return models.GoodbyeMessage
	}

	return a.contentModel.View()
}

// GetCurrentScreen returns the current screen (for testing).
func (a *App) GetCurrentScreen() Screen {
	return a.currentScreen
}

// GetContentModel returns the current content model (for testing).
func (a *App) GetContentModel() tea.Model {
	return a.contentModel
}

// LaunchInteractive starts the interactive TUI interface.
func LaunchInteractive(ctx context.Context, deps Deps) error {
	if !isTerminal() {
		return fmt.Errorf("terminal check failed: %w", ErrNoTerminal)
	}

	return NewApp(ctx, deps).Run(ctx)
}

func (a *App) loadAccounts() tea.Cmd {
	store := a.deps.Accounts
	ctx := a.ctx

	return func() tea.Msg {
		if store == nil {
			return models.AccountsLoadedMsg{}
		}

		accounts, err := store.Accounts(ctx)

		return models.AccountsLoadedMsg{Accounts: accounts, Err: err}
	}
}

func (a *App) handleSettingsSaved(msg models.SettingsSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.deps.Logger.Warn().Err(msg.Err).Msg("failed to save settings")

		var cmd tea.Cmd

		a.contentModel, cmd = a.contentModel.Update(msg)

		return a, cmd
	}

	a.settings = msg.Settings.WithDefaults()
	a.search.Update(msg)

	return a.handleNavigation(models.NavigateMsg{Screen: models.SearchScreen})
}

// handleNavigation switches the content model.
func (a *App) handleNavigation(msg models.NavigateMsg) (tea.Model, tea.Cmd) {
	var (
		next tea.Model
		cmd  tea.Cmd
	)

	screen := Screen(msg.Screen)

	switch screen {
	case SearchScreen:
		next = a.search
		cmd = a.search.Resume()
	case DetailScreen:
		data, ok := msg.Data.(models.DetailData)
		if !ok {
			return a, nil
		}

		next = models.NewDetail(a.styles, a.deps.Localizer, data)
	case SettingsScreen:
		next = models.NewSettings(a.ctx, a.styles, a.deps.Settings, a.deps.Builder, a.deps.Localizer, a.settings)
		cmd = next.Init()
	case HelpScreen:
		cached, ok := a.models[HelpScreen]
		if !ok {
			cached = models.NewHelp(a.styles)
			a.models[HelpScreen] = cached
		}

		next = cached
	default:
		return a, nil
	}

	a.currentScreen = screen
	a.contentModel = next

	if a.width > 0 && a.height > 0 {
		var sizeCmd tea.Cmd

		a.contentModel, sizeCmd = a.contentModel.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		cmd = tea.Batch(cmd, sizeCmd)
	}

	return a, cmd
}

// isTerminal checks if stdin and stdout are connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
