// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"testing"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/i18n"
	"github.com/janderssonse/appscout/internal/regions"
	"github.com/janderssonse/appscout/internal/tui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLists() regions.Lists {
	return regions.Lists{
		Available: []domain.CountryCode{"SE"},
		All:       []domain.CountryCode{"DE", "SE", "US"},
	}
}

func TestCountryPicker_Groups(t *testing.T) {
	t.Parallel()

	loc := i18n.New("en")

	picker := newCountryPicker(testLists(), loc, "SE")
	require.Len(t, picker.entries, 6)
	assert.Equal(t, "Available Regions", picker.entries[0].header)
	assert.Equal(t, "Sweden (SE)", picker.entries[1].label)
	assert.Equal(t, "All Regions", picker.entries[2].header)
	assert.Equal(t, 1, picker.cursor, "selection prefers the Available group")

	empty := newCountryPicker(regions.Lists{All: testLists().All}, loc, "US")
	require.Len(t, empty.entries, 4)
	assert.Equal(t, "All Regions", empty.entries[0].header)

	code, ok := empty.selected()
	require.True(t, ok)
	assert.Equal(t, domain.CountryCode("US"), code)
}

func TestCountryPicker_MoveSkipsHeaders(t *testing.T) {
	t.Parallel()

	picker := newCountryPicker(testLists(), i18n.New("en"), "SE")

	picker.move(-1)
	assert.Equal(t, 1, picker.cursor, "the first entry is the top")

	picker.move(1)
	code, _ := picker.selected()
	assert.Equal(t, domain.CountryCode("DE"), code)

	picker.move(10)
	code, _ = picker.selected()
	assert.Equal(t, domain.CountryCode("US"), code)

	picker.home()
	assert.Equal(t, 1, picker.cursor)

	picker.end()
	assert.Equal(t, 5, picker.cursor)
}

func TestCountryPicker_Jump(t *testing.T) {
	t.Parallel()

	picker := newCountryPicker(testLists(), i18n.New("en"), "SE")

	picker.jump("u")
	code, _ := picker.selected()
	assert.Equal(t, domain.CountryCode("US"), code)

	picker.jump("s")
	assert.Equal(t, 1, picker.cursor, "jump wraps around")

	picker.jump("x")
	assert.Equal(t, 1, picker.cursor, "no match keeps the cursor")
}

func TestCountryPicker_ScrollsWithCursor(t *testing.T) {
	t.Parallel()

	codes := []domain.CountryCode{"AU", "BR", "CA", "DE", "FR", "GB", "JP", "SE", "US"}
	picker := newCountryPicker(regions.Lists{All: codes}, i18n.New("en"), "AU")
	picker.setHeight(3)

	picker.end()
	assert.Equal(t, len(picker.entries)-3, picker.offset)

	picker.home()
	assert.Equal(t, 0, picker.offset)

	view := picker.view(styles.New(), 60)
	assert.Contains(t, view, "All Regions")
	assert.Contains(t, view, "Australia (AU)")
	assert.Contains(t, view, "Brazil (BR)")
	assert.NotContains(t, view, "Canada (CA)")
}
