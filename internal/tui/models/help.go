// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/appscout/internal/tui/styles"
)

// HelpSection represents a help documentation section.
type HelpSection struct {
	Title   string
	Content string
}

// Help represents the help screen model.
type Help struct {
	styles         *styles.Styles
	width          int
	height         int
	sections       []HelpSection
	viewport       viewport.Model
	renderer       *glamour.TermRenderer
	currentSection int
	quitting       bool
	keyMap         HelpKeyMap
}

// HelpKeyMap defines key bindings for the help screen.
type HelpKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Tab      key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// DefaultHelpKeyMap returns the default key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous section"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next section"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup/b", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f"),
			key.WithHelp("pgdn/f", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "go to bottom"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next section"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to search"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewHelp creates a new help model.
func NewHelp(styleConfig *styles.Styles) *Help {
	sections := []HelpSection{
		{
			Title: "Searching",
			Content: `# Searching the App Store

Type a term and press **Enter**. The search runs against the storefront of
the selected region and is filtered to the selected device.

While a search is running the button is disabled and further submissions
are ignored. A failed search shows the reason in a banner above the
results; the previous results are cleared.

| Key | Action |
|-----|--------|
| Enter | Search, or open the focused control |
| Tab / Shift+Tab | Move between query, region, device, button and results |
| ↑/↓ or j/k | Move through results |
| Enter on a result | Show app details |
| Esc or / | Back to the query |
| Ctrl+S | Settings |
| F1 or ? | This help |
| Ctrl+C | Quit |`,
		},
		{
			Title: "Regions",
			Content: `# Regions

The region picker has two groups.

- **Available Regions** lists the storefronts of your accounts. The group
  is hidden when no account is configured.
- **All Regions** lists every App Store storefront.

Both groups are sorted by the localized country name. Type a letter to
jump to the next region starting with it.

Accounts are read from ` + "`accounts.toml`" + ` in the configuration directory:

` + "```toml" + `
[[accounts]]
email = "anna@example.com"
store = "143456-2,32"
` + "```" + `

Accounts whose storefront is unknown are ignored.`,
		},
		{
			Title: "Settings",
			Content: `# Settings

The settings screen edits the defaults used when appscout starts:

- **Default region** is preselected when no account is configured
- **Default device** is iPhone or iPad
- **Locale** selects the language of the interface
- **Result limit** caps the number of results per search

Environment variables override the settings file:

| Variable | Setting |
|----------|---------|
| ` + "`APPSCOUT_DEFAULT_COUNTRY`" + ` | Default region |
| ` + "`APPSCOUT_DEFAULT_ENTITY`" + ` | Default device |
| ` + "`APPSCOUT_LOCALE`" + ` | Locale |
| ` + "`APPSCOUT_RESULT_LIMIT`" + ` | Result limit |
| ` + "`APPSCOUT_HTTP_TIMEOUT`" + ` | Request timeout |`,
		},
		{
			Title: "CLI Reference",
			Content: `# Command Line Interface Reference

` + "```bash" + `
# Interactive interface
appscout tui

# Search a storefront
appscout search --country se --entity ipad shadowgun

# Region lists
appscout regions
appscout regions --available

# Accounts
appscout accounts list
appscout accounts add --email anna@example.com --store se
appscout accounts remove anna@example.com

# Settings
appscout settings show
appscout settings set --country de --entity ipad
` + "```" + `

## Global Options

| Option | Description |
|--------|-------------|
| ` + "`--verbose`" + ` | Show detailed progress messages |
| ` + "`--json`" + ` | Output structured JSON results |
| ` + "`--plain`" + ` | Plain text output for scripts |
| ` + "`--locale`" + ` | Interface language |

## Exit Codes

| Code | Meaning |
|------|---------|
| 0 | Success |
| 1 | General error |
| 2 | Usage error |
| 3 | Configuration error |
| 5 | Not found error |
| 11 | Network error |
| 13 | Timeout |
| 20 | Search service error |`,
		},
	}

	// Create Glamour renderer with Tokyo Night style
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to default renderer
		renderer, _ = glamour.NewTermRenderer()
	}

	// Create viewport for scrolling
	viewPort := viewport.New(80, 20)
	viewPort.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styleConfig.Primary).
		Padding(1)

	helpModel := &Help{
		styles:         styleConfig,
		sections:       sections,
		viewport:       viewPort,
		renderer:       renderer,
		currentSection: 0,
		keyMap:         DefaultHelpKeyMap(),
	}

	// Render initial content
	helpModel.updateContent()

	return helpModel
}

// Init initializes the help model.
func (m *Help) Init() tea.Cmd {
	return nil
}

// Update handles messages for the Help model.
func (m *Help) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)
	}

	return m, nil
}

// View renders the help screen.
func (m *Help) View() string {
	if m.quitting {
		return GoodbyeMessage
	}

	var builder strings.Builder

	// Header with navigation
	header := m.renderHeader()
	builder.WriteString(header)
	builder.WriteString("\n\n")

	// Main content viewport
	builder.WriteString(m.viewport.View())
	builder.WriteString("\n\n")

	// Footer with keybindings
	footer := m.renderFooter()
	builder.WriteString(footer)

	return builder.String()
}

// handleKeyMsg processes keyboard input for the help screen.
func (m *Help) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true

		return m, tea.Quit
	case key.Matches(msg, m.keyMap.Back):
		return m, func() tea.Msg {
			return NavigateMsg{Screen: SearchScreen}
		}
	case key.Matches(msg, m.keyMap.Left):
		return m.handleSectionNavigation(-1)
	case key.Matches(msg, m.keyMap.Right), key.Matches(msg, m.keyMap.Tab):
		return m.handleSectionNavigation(1)
	case key.Matches(msg, m.keyMap.Home):
		m.viewport.GotoTop()

		return m, nil
	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()

		return m, nil
	default:
		var cmd tea.Cmd

		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}
}

// handleSectionNavigation moves between help sections.
func (m *Help) handleSectionNavigation(direction int) (tea.Model, tea.Cmd) {
	newSection := m.currentSection + direction
	if newSection >= 0 && newSection < len(m.sections) {
		m.currentSection = newSection
		m.updateContent()
	}

	return m, nil
}

// handleWindowSizeMsg processes window resize messages.
func (m *Help) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Update viewport size
	header := m.renderHeader()
	footer := m.renderFooter()
	verticalMargins := lipgloss.Height(header) + lipgloss.Height(footer)

	m.viewport.Width = msg.Width
	m.viewport.Height = msg.Height - verticalMargins

	// Update content with new dimensions
	m.updateContent()

	return m, nil
}

// renderHeader creates the header with section navigation.
func (m *Help) renderHeader() string {
	var builder strings.Builder

	// Title
	title := m.styles.Title.Render("Help")
	builder.WriteString(title)
	builder.WriteString("\n")

	// Section tabs
	tabs := make([]string, 0, len(m.sections))

	for i, section := range m.sections {
		var style lipgloss.Style
		if i == m.currentSection {
			style = m.styles.Selected.
				Padding(0, 1).
				MarginRight(1)
		} else {
			style = m.styles.Unselected.
				Padding(0, 1).
				MarginRight(1).
				Faint(true)
		}

		tabs = append(tabs, style.Render(section.Title))
	}

	tabsLine := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	builder.WriteString(tabsLine)

	return builder.String()
}

// renderFooter creates the footer with keybindings.
func (m *Help) renderFooter() string {
	var keybindings []string

	keybindings = append(keybindings, m.styles.Keybinding("↑↓/jk", "scroll"))
	keybindings = append(keybindings, m.styles.Keybinding("←→/hl", "sections"))
	keybindings = append(keybindings, m.styles.Keybinding("tab", "next section"))
	keybindings = append(keybindings, m.styles.Keybinding("g/G", "top/bottom"))
	keybindings = append(keybindings, m.styles.Keybinding("esc", "back"))
	keybindings = append(keybindings, m.styles.Keybinding("q", "quit"))

	return lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(m.styles.Muted).
		Render(strings.Join(keybindings, "  "))
}

// updateContent renders the current section content and updates the viewport.
func (m *Help) updateContent() {
	if m.currentSection >= len(m.sections) {
		return
	}

	section := m.sections[m.currentSection]

	// Render markdown content using Glamour
	rendered, err := m.renderer.Render(section.Content)
	if err != nil {
		// Fallback to plain text if rendering fails
		rendered = section.Content
	}

	// Set content in viewport
	m.viewport.SetContent(rendered)
}
