// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/regions"
	"github.com/janderssonse/appscout/internal/tui/styles"
)

const defaultPickerHeight = 10

// pickerEntry is either a group header or a selectable country.
type pickerEntry struct {
	header string
	code   domain.CountryCode
	label  string
}

func (e pickerEntry) selectable() bool {
	return e.header == ""
}

// countryPicker is the grouped region list. The Available group is left
// out entirely when the user has no accounts.
type countryPicker struct {
	entries []pickerEntry
	cursor  int
	offset  int
	height  int
}

func countryLabel(loc domain.Localizer, code domain.CountryCode) string {
	return loc.T("countries."+string(code), string(code)) + " (" + string(code) + ")"
}

func newCountryPicker(lists regions.Lists, loc domain.Localizer, selected domain.CountryCode) *countryPicker {
	entries := make([]pickerEntry, 0, len(lists.Available)+len(lists.All)+2)

	if len(lists.Available) > 0 {
		entries = append(entries, pickerEntry{header: loc.T("regions.available", "Available Regions")})
		for _, code := range lists.Available {
			entries = append(entries, pickerEntry{code: code, label: countryLabel(loc, code)})
		}
	}

	entries = append(entries, pickerEntry{header: loc.T("regions.all", "All Regions")})
	for _, code := range lists.All {
		entries = append(entries, pickerEntry{code: code, label: countryLabel(loc, code)})
	}

	picker := &countryPicker{entries: entries, height: defaultPickerHeight}
	picker.cursor = picker.indexOf(selected)
	picker.scrollToCursor()

	return picker
}

// indexOf returns the first selectable entry for code, or the first
// selectable entry when code is not listed.
func (p *countryPicker) indexOf(code domain.CountryCode) int {
	first := -1

	for i, entry := range p.entries {
		if !entry.selectable() {
			continue
		}

		if first < 0 {
			first = i
		}

		if entry.code == code {
			return i
		}
	}

	return max(first, 0)
}

func (p *countryPicker) selected() (domain.CountryCode, bool) {
	if p.cursor < 0 || p.cursor >= len(p.entries) || !p.entries[p.cursor].selectable() {
		return "", false
	}

	return p.entries[p.cursor].code, true
}

// move steps the cursor by delta selectable entries, clamped to the list.
func (p *countryPicker) move(delta int) {
	step := 1
	if delta < 0 {
		step = -1
		delta = -delta
	}

	for ; delta > 0; delta-- {
		next := p.cursor + step
		for next >= 0 && next < len(p.entries) && !p.entries[next].selectable() {
			next += step
		}

		if next < 0 || next >= len(p.entries) {
			break
		}

		p.cursor = next
	}

	p.scrollToCursor()
}

func (p *countryPicker) home() {
	p.cursor = p.indexOf("")
	p.offset = 0
}

func (p *countryPicker) end() {
	for i := len(p.entries) - 1; i >= 0; i-- {
		if p.entries[i].selectable() {
			p.cursor = i

			break
		}
	}

	p.scrollToCursor()
}

// jump moves to the next entry whose label starts with prefix, wrapping.
func (p *countryPicker) jump(prefix string) {
	prefix = strings.ToLower(prefix)

	for i := 1; i <= len(p.entries); i++ {
		index := (p.cursor + i) % len(p.entries)

		entry := p.entries[index]
		if entry.selectable() && strings.HasPrefix(strings.ToLower(entry.label), prefix) {
			p.cursor = index
			p.scrollToCursor()

			return
		}
	}
}

func (p *countryPicker) setHeight(height int) {
	p.height = max(height, 3)
	p.scrollToCursor()
}

func (p *countryPicker) scrollToCursor() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}

	if p.cursor >= p.offset+p.height {
		p.offset = p.cursor - p.height + 1
	}

	// Keep the group header above the first entry visible.
	if p.offset > 0 && !p.entries[p.offset-1].selectable() && p.cursor-p.offset+1 < p.height {
		p.offset--
	}
}

func (p *countryPicker) view(styleConfig *styles.Styles, width int) string {
	end := min(p.offset+p.height, len(p.entries))
	lines := make([]string, 0, end-p.offset)

	for i := p.offset; i < end; i++ {
		entry := p.entries[i]

		switch {
		case !entry.selectable():
			lines = append(lines, styleConfig.GroupHeader.Render(entry.header))
		case i == p.cursor:
			lines = append(lines, styleConfig.Selected.Render("▸ "+entry.label))
		default:
			lines = append(lines, styleConfig.Unselected.Render("  "+entry.label))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styleConfig.Primary).
		Width(max(width-4, 20)).
		Render(strings.Join(lines, "\n"))
}
