// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/regions"
	"github.com/janderssonse/appscout/internal/tui/styles"
)

var errInvalidLimit = fmt.Errorf("enter a number between 1 and %d", domain.MaxResultLimit)

// Settings edits the search defaults with a huh form.
//
//nolint:containedctx // Saving runs under the program context
type Settings struct {
	ctx     context.Context
	styles  *styles.Styles
	store   domain.SettingsStore
	loc     domain.Localizer
	current domain.Settings
	codes   []domain.CountryCode

	form   *huh.Form
	values settingsValues
	err    error

	width    int
	height   int
	quitting bool
}

// settingsValues are the form bindings.
type settingsValues struct {
	country string
	entity  string
	locale  string
	limit   string
}

// NewSettings creates the settings screen for the current settings.
func NewSettings(
	ctx context.Context,
	styleConfig *styles.Styles,
	store domain.SettingsStore,
	builder *regions.Builder,
	loc domain.Localizer,
	current domain.Settings,
) *Settings {
	current = current.WithDefaults()

	m := &Settings{
		ctx:     ctx,
		styles:  styleConfig,
		store:   store,
		loc:     loc,
		current: current,
		codes:   builder.Lists(nil, loc).All,
		values: settingsValues{
			country: current.DefaultCountry.String(),
			entity:  string(current.DefaultEntity),
			locale:  current.Locale,
			limit:   strconv.Itoa(current.ResultLimit),
		},
	}

	m.form = m.buildForm()

	return m
}

func (m *Settings) buildForm() *huh.Form {
	countries := make([]huh.Option[string], 0, len(m.codes))
	for _, code := range m.codes {
		countries = append(countries, huh.NewOption(countryLabel(m.loc, code), code.String()))
	}

	entities := make([]huh.Option[string], 0, len(domain.Entities()))
	for _, entity := range domain.Entities() {
		entities = append(entities, huh.NewOption(string(entity), string(entity)))
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(m.loc.T("settings.country", "Default region")).
			Options(countries...).
			Height(8).
			Value(&m.values.country),
		huh.NewSelect[string]().
			Title(m.loc.T("settings.entity", "Default device")).
			Options(entities...).
			Value(&m.values.entity),
		huh.NewInput().
			Title("Locale").
			Description("BCP 47 tag such as sv-SE; empty follows the environment").
			Value(&m.values.locale),
		huh.NewInput().
			Title("Result limit").
			Value(&m.values.limit).
			Validate(validateLimit),
	)).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func validateLimit(value string) error {
	limit, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || limit < 1 || limit > domain.MaxResultLimit {
		return errInvalidLimit
	}

	return nil
}

// Init initializes the settings form.
func (m *Settings) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the settings model.
func (m *Settings) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form = m.form.WithWidth(max(msg.Width-4, 20))
	case SettingsSavedMsg:
		// Successful saves are routed to the search screen by the app.
		m.err = msg.Err
		m.form = m.buildForm()

		return m, m.form.Init()
	case tea.KeyMsg:
		switch msg.String() {
		case KeyCtrlC:
			m.quitting = true

			return m, tea.Quit
		case KeyEsc:
			return m, navigate(SearchScreen, nil)
		}
	}

	return m.handleFormUpdate(msg)
}

// View renders the settings screen.
func (m *Settings) View() string {
	if m.quitting {
		return GoodbyeMessage
	}

	sections := []string{m.styles.Title.Render(m.loc.T("settings.title", "Settings"))}

	if m.err != nil {
		sections = append(sections, m.styles.Banner.Render(m.styles.StatusIcon("error")+" "+m.err.Error()))
	}

	sections = append(sections,
		m.form.View(),
		RenderFooter(m.styles, m.loc, m.width, []FooterAction{
			{Key: "Enter", Action: actionNext},
			{Key: "Esc", Action: actionBack},
		}, false),
	)

	return m.styles.Container.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Settings) handleFormUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f

		if m.form.State == huh.StateCompleted {
			return m, tea.Batch(cmd, m.save())
		}
	}

	return m, cmd
}

// Values returns the settings the form currently describes.
func (m *Settings) Values() (domain.Settings, error) {
	settings := m.current

	code := domain.NormalizeCountry(m.values.country)
	if code == "" {
		return domain.Settings{}, domain.ErrUnknownCountry
	}

	entity, err := domain.ParseEntity(m.values.entity)
	if err != nil {
		return domain.Settings{}, err
	}

	if err := validateLimit(m.values.limit); err != nil {
		return domain.Settings{}, err
	}

	limit, _ := strconv.Atoi(strings.TrimSpace(m.values.limit))

	settings.DefaultCountry = code
	settings.DefaultEntity = entity
	settings.Locale = strings.TrimSpace(m.values.locale)
	settings.ResultLimit = limit

	return settings.WithDefaults(), nil
}

func (m *Settings) save() tea.Cmd {
	ctx := m.ctx
	store := m.store
	settings, err := m.Values()

	return func() tea.Msg {
		if err != nil {
			return SettingsSavedMsg{Err: err}
		}

		if store == nil {
			return SettingsSavedMsg{Err: errors.New("settings are read-only")}
		}

		if err := store.Save(ctx, settings); err != nil {
			return SettingsSavedMsg{Settings: settings, Err: err}
		}

		return SettingsSavedMsg{Settings: settings}
	}
}
