// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/regions"
	"github.com/janderssonse/appscout/internal/render"
	"github.com/janderssonse/appscout/internal/search"
	"github.com/janderssonse/appscout/internal/tui/styles"
	"github.com/rs/zerolog"
)

// Layout constants for the search screen.
const (
	cardHeight   = 3 // Lines per result card
	cardStride   = cardHeight + 1
	formHeight   = 12 // Title, form rows, button and banner
	footerHeight = 2
	minResults   = 3
)

type focusArea int

const (
	focusTerm focusArea = iota
	focusCountry
	focusEntity
	focusSubmit
	focusResults
	focusCount
)

// SearchConfig wires the search screen to its collaborators.
type SearchConfig struct {
	Service   domain.SearchService
	Builder   *regions.Builder
	Localizer domain.Localizer
	Logger    zerolog.Logger
	Settings  domain.Settings
}

// SearchOutcomeMsg carries the completion of a dispatched search.
type SearchOutcomeMsg struct {
	Outcome search.Outcome
}

// Search is the search screen: the query form and the result list.
//
//nolint:containedctx // Dispatched searches inherit the program context
type Search struct {
	ctx    context.Context
	styles *styles.Styles
	cfg    SearchConfig
	loc    domain.Localizer

	session  *search.Session
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	picker   *countryPicker

	accounts []domain.Account
	lists    regions.Lists
	country  domain.CountryCode
	entity   domain.Entity

	// Set once the user chooses; later defaults no longer apply.
	countryChosen bool
	entityChosen  bool

	// Country of the query that produced the current results.
	resultCountry domain.CountryCode
	rows          []render.Row
	results       []domain.SearchResult
	cursor        int

	focus    focusArea
	width    int
	height   int
	quitting bool
}

// NewSearch creates the search screen with the settings defaults selected.
func NewSearch(ctx context.Context, styleConfig *styles.Styles, cfg SearchConfig) *Search {
	settings := cfg.Settings.WithDefaults()
	cfg.Settings = settings

	input := textinput.New()
	input.Placeholder = cfg.Localizer.T("search.placeholder", "Search the App Store")
	input.Prompt = "› "
	input.CharLimit = 200
	input.Width = 40
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styleConfig.Primary)),
	)

	m := &Search{
		ctx:    ctx,
		styles: styleConfig,
		cfg:    cfg,
		loc:    cfg.Localizer,
		session: search.NewSession(
			search.WithLogger(cfg.Logger),
			search.WithLimit(settings.ResultLimit),
		),
		input:    input,
		spinner:  spin,
		viewport: viewport.New(80, minResults*cardStride),
		country:  settings.DefaultCountry,
		entity:   settings.DefaultEntity,
		focus:    focusTerm,
	}

	m.lists = cfg.Builder.Lists(nil, m.loc)

	return m
}

// Init initializes the search model.
func (m *Search) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the search model.
func (m *Search) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSizeMsg(msg)

		return m, nil
	case AccountsLoadedMsg:
		m.applyAccounts(msg)

		return m, nil
	case SettingsSavedMsg:
		m.applySettings(msg.Settings)

		return m, nil
	case SearchOutcomeMsg:
		if m.session.Resolve(msg.Outcome) {
			m.refreshResults()
		}

		return m, nil
	case spinner.TickMsg:
		if !m.session.State().Loading() {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// View renders the search screen.
func (m *Search) View() string {
	if m.quitting {
		return GoodbyeMessage
	}

	sections := []string{
		m.styles.Title.Render(m.loc.T("app.title", "appscout") + " · " + m.loc.T("search.title", "Search")),
		m.renderForm(),
	}

	if message := m.session.State().Error(); message != "" {
		sections = append(sections, m.styles.Banner.Render(m.styles.StatusIcon("error")+" "+message))
	}

	sections = append(sections, "", m.renderResults(), m.renderFooter())

	return m.styles.Container.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// State returns the query lifecycle state.
func (m *Search) State() search.State {
	return m.session.State()
}

// Country returns the selected search country.
func (m *Search) Country() domain.CountryCode {
	return m.country
}

// Entity returns the selected entity.
func (m *Search) Entity() domain.Entity {
	return m.entity
}

// Resume is called when the screen becomes active again.
func (m *Search) Resume() tea.Cmd {
	if m.session.State().Loading() {
		return m.spinner.Tick
	}

	if m.focus == focusTerm {
		return m.input.Focus()
	}

	return nil
}

func (m *Search) handleWindowSizeMsg(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	m.input.Width = max(msg.Width-20, 20)
	m.viewport.Width = max(msg.Width-4, 20)
	m.viewport.Height = max(msg.Height-formHeight-footerHeight, minResults*cardStride)

	if m.picker != nil {
		m.picker.setHeight(m.viewport.Height - 2)
	}

	m.refreshContent()
}

func (m *Search) applyAccounts(msg AccountsLoadedMsg) {
	if msg.Err != nil {
		m.cfg.Logger.Warn().Err(msg.Err).Msg("failed to load accounts")

		return
	}

	m.accounts = msg.Accounts
	m.lists = m.cfg.Builder.Lists(m.accounts, m.loc)

	if !m.countryChosen {
		m.country = regions.InitialCountry(m.accounts, m.cfg.Builder.Catalog(), m.cfg.Settings.DefaultCountry)
	}
}

func (m *Search) applySettings(settings domain.Settings) {
	settings = settings.WithDefaults()
	m.cfg.Settings = settings
	m.session.SetLimit(settings.ResultLimit)

	if !m.countryChosen {
		m.country = settings.DefaultCountry
	}

	if !m.entityChosen {
		m.entity = settings.DefaultEntity
	}
}

//nolint:cyclop // Key routing depends on the focused control
func (m *Search) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker != nil {
		return m.handlePickerKey(msg)
	}

	switch msg.String() {
	case KeyCtrlC:
		m.quitting = true

		return m, tea.Quit
	case KeyTab:
		return m, m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case "f1":
		return m, navigate(HelpScreen, nil)
	case "ctrl+s":
		return m, navigate(SettingsScreen, nil)
	}

	if m.focus == focusTerm {
		return m.handleTermKey(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true

		return m, tea.Quit
	case "?":
		return m, navigate(HelpScreen, nil)
	case "s":
		return m, navigate(SettingsScreen, nil)
	case KeyEsc, "/":
		return m, m.setFocus(focusTerm)
	}

	switch m.focus {
	case focusCountry:
		if msg.String() == KeyEnter || msg.String() == " " {
			m.openPicker()
		}
	case focusEntity:
		switch msg.String() {
		case KeyEnter, " ", "left", "right", "h", "l":
			m.toggleEntity()
		}
	case focusSubmit:
		if msg.String() == KeyEnter || msg.String() == " " {
			return m, m.submit()
		}
	case focusResults:
		return m.handleResultsKey(msg)
	case focusTerm, focusCount:
	}

	return m, nil
}

func (m *Search) handleTermKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyEnter {
		return m, m.submit()
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *Search) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-max(m.viewport.Height/cardStride, 1))
	case "pgdown":
		m.moveCursor(max(m.viewport.Height/cardStride, 1))
	case "home", "g":
		m.moveCursor(-len(m.rows))
	case "end", "G":
		m.moveCursor(len(m.rows))
	case KeyEnter:
		if m.cursor < len(m.results) {
			return m, navigate(DetailScreen, DetailData{
				Result:  m.results[m.cursor],
				Country: m.resultCountry,
			})
		}
	}

	return m, nil
}

func (m *Search) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyCtrlC:
		m.quitting = true

		return m, tea.Quit
	case KeyEsc:
		m.picker = nil
	case KeyEnter, " ":
		if code, ok := m.picker.selected(); ok {
			m.country = code
			m.countryChosen = true
		}

		m.picker = nil
	case "up", "ctrl+p":
		m.picker.move(-1)
	case "down", "ctrl+n":
		m.picker.move(1)
	case "pgup":
		m.picker.move(-m.picker.height)
	case "pgdown":
		m.picker.move(m.picker.height)
	case "home":
		m.picker.home()
	case "end":
		m.picker.end()
	default:
		if msg.Type == tea.KeyRunes {
			m.picker.jump(string(msg.Runes))
		}
	}

	return m, nil
}

func (m *Search) setFocus(focus focusArea) tea.Cmd {
	m.focus = focus
	m.refreshContent()

	if focus == focusTerm {
		return m.input.Focus()
	}

	m.input.Blur()

	return nil
}

func (m *Search) openPicker() {
	m.picker = newCountryPicker(m.lists, m.loc, m.country)
	m.picker.setHeight(m.viewport.Height - 2)
}

func (m *Search) toggleEntity() {
	m.entityChosen = true

	entities := domain.Entities()
	for i, entity := range entities {
		if entity == m.entity {
			m.entity = entities[(i+1)%len(entities)]

			return
		}
	}

	m.entity = entities[0]
}

// submit starts a search unless the session rejects the submission.
func (m *Search) submit() tea.Cmd {
	req, ok := m.session.Submit(m.input.Value(), m.country, m.entity)
	if !ok {
		return nil
	}

	m.resultCountry = req.Query.Country

	ctx := m.ctx
	svc := m.cfg.Service

	dispatch := func() tea.Msg {
		return SearchOutcomeMsg{Outcome: search.Dispatch(ctx, svc, req)}
	}

	return tea.Batch(m.spinner.Tick, dispatch)
}

func (m *Search) refreshResults() {
	m.results = m.session.State().Results()
	m.rows = render.Rows(m.results, m.loc)
	m.cursor = 0

	if len(m.rows) > 0 && m.focus == focusSubmit {
		m.focus = focusResults
	}

	m.viewport.GotoTop()
	m.refreshContent()
}

func (m *Search) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.refreshContent()

	top := m.cursor * cardStride
	if top < m.viewport.YOffset {
		m.viewport.SetYOffset(top)
	}

	if bottom := top + cardHeight; bottom > m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

func (m *Search) refreshContent() {
	width := max(m.viewport.Width-4, 10)
	cards := make([]string, 0, len(m.rows))

	for i, row := range m.rows {
		style := m.styles.Card
		if i == m.cursor && m.focus == focusResults {
			style = m.styles.SelectedCard
		}

		name := lipgloss.NewStyle().Bold(true).Render(render.Truncate(row.Name, width))
		byline := m.styles.MutedText.Render(render.Truncate(joinNonEmpty(" · ", row.Artist, row.Genre), width))
		facts := m.styles.PrimaryText.Render(row.Price) + "  " +
			m.styles.StatusIcon("rating") + " " + row.Rating

		cards = append(cards, style.Render(name+"\n"+byline+"\n"+facts))
	}

	m.viewport.SetContent(strings.Join(cards, "\n\n"))
}

func (m *Search) renderForm() string {
	state := m.session.State()

	label := func(focus focusArea, text string) string {
		if m.focus == focus {
			return m.styles.Focused.Render(text)
		}

		return m.styles.MutedText.Render(text)
	}

	country := label(focusCountry, m.loc.T("search.country", "Region")+":") + " " +
		countryLabel(m.loc, m.country)

	entities := make([]string, 0, len(domain.Entities()))
	for _, entity := range domain.Entities() {
		if entity == m.entity {
			entities = append(entities, m.styles.Selected.Render(string(entity)))
		} else {
			entities = append(entities, m.styles.Unselected.Render(string(entity)))
		}
	}

	entity := label(focusEntity, m.loc.T("search.entity", "Device")+":") + " " +
		lipgloss.JoinHorizontal(lipgloss.Top, entities...)

	button := m.styles.DisabledButton.Render(m.loc.T("search.button", "Search"))
	if m.session.CanSubmit(m.input.Value()) {
		button = m.styles.Button.Render(m.loc.T("search.button", "Search"))
	}

	if m.focus == focusSubmit {
		button = label(focusSubmit, "▸") + " " + button
	}

	if state.Loading() {
		button += "  " + m.spinner.View() + " " + m.loc.T("search.searching", "Searching…")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		"",
		country,
		entity,
		"",
		button,
	)
}

func (m *Search) renderResults() string {
	if m.picker != nil {
		return m.picker.view(m.styles, m.width)
	}

	state := m.session.State()

	if render.ShowEmpty(state) {
		return m.styles.MutedText.Render(m.loc.T("search.empty", "No results"))
	}

	if len(m.rows) == 0 {
		return ""
	}

	return m.viewport.View()
}

func (m *Search) renderFooter() string {
	if m.picker != nil {
		return RenderFooter(m.styles, m.loc, m.width, []FooterAction{
			{Key: "↑↓", Action: actionMove},
			{Key: "a-z", Action: actionJump},
			{Key: "Enter", Action: actionChoose},
			{Key: "Esc", Action: actionCancel},
		}, false)
	}

	actions := []FooterAction{
		{Key: "Enter", Action: actionSearch},
		{Key: "Tab", Action: actionNextField},
	}

	if m.focus == focusResults {
		actions = []FooterAction{
			{Key: "↑↓", Action: actionMove},
			{Key: "Enter", Action: actionDetails},
			{Key: "Esc", Action: actionEditQuery},
		}
	}

	actions = append(actions,
		FooterAction{Key: "Ctrl+S", Action: actionSettings},
		FooterAction{Key: "Ctrl+C", Action: actionQuit},
	)

	return RenderFooter(m.styles, m.loc, m.width, actions, m.focus != focusTerm)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}

	return strings.Join(kept, sep)
}
