// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package handlers

import (
	"context"
	"strconv"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/storefront"
)

// SettingsHandler shows and edits user settings.
type SettingsHandler struct {
	*BaseHandler

	Store     domain.SettingsStore
	Catalog   *storefront.Catalog
	Localizer domain.Localizer
}

// SettingsUpdate holds the fields given on the command line; empty means unchanged.
type SettingsUpdate struct {
	Country string
	Entity  string
	Locale  string
	Limit   int
}

type settingsView struct {
	DefaultCountry domain.CountryCode `json:"defaultCountry"`
	DefaultEntity  domain.Entity      `json:"defaultEntity"`
	Locale         string             `json:"locale"`
	ResultLimit    int                `json:"resultLimit"`
	HTTPTimeout    string             `json:"httpTimeout"`
}

// Show prints the effective settings.
func (h *SettingsHandler) Show(ctx context.Context) error {
	settings, err := h.Store.Load(ctx)
	if err != nil {
		return domain.NewExitError(domain.ExitConfigError, "Failed to read settings", err)
	}

	return h.print(settings)
}

// Set applies update and saves.
func (h *SettingsHandler) Set(ctx context.Context, update SettingsUpdate) error {
	settings, err := h.Store.Load(ctx)
	if err != nil {
		return domain.NewExitError(domain.ExitConfigError, "Failed to read settings", err)
	}

	if update.Country != "" {
		code := domain.NormalizeCountry(update.Country)
		if !h.Catalog.Contains(code) {
			return domain.NewExitError(domain.ExitUsageError, "Unknown country or region: "+update.Country,
				domain.ErrUnknownCountry)
		}

		settings.DefaultCountry = code
	}

	if update.Entity != "" {
		entity, err := domain.ParseEntity(update.Entity)
		if err != nil {
			return domain.NewExitError(domain.ExitUsageError, "Unknown device type: "+update.Entity, err)
		}

		settings.DefaultEntity = entity
	}

	if update.Locale != "" {
		settings.Locale = update.Locale
	}

	if update.Limit > 0 {
		settings.ResultLimit = update.Limit
	}

	if err := h.Store.Save(ctx, settings); err != nil {
		return domain.NewExitError(domain.ExitConfigError, "Failed to save settings", err)
	}

	if !h.JSON {
		_ = h.GetOutput().Success(h.Localizer.T("settings.saved", "Settings saved"), nil)
	}

	return h.print(settings.WithDefaults())
}

func (h *SettingsHandler) print(settings domain.Settings) error {
	view := settingsView{
		DefaultCountry: settings.DefaultCountry,
		DefaultEntity:  settings.DefaultEntity,
		Locale:         settings.Locale,
		ResultLimit:    settings.ResultLimit,
		HTTPTimeout:    settings.HTTPTimeout.String(),
	}

	output := h.GetOutput()
	if h.JSON {
		return output.Success("", view)
	}

	locale := view.Locale
	if locale == "" {
		locale = "(from environment)"
	}

	return output.Table([]string{"Setting", "Value"}, [][]string{
		{"default_country", string(view.DefaultCountry)},
		{"default_entity", string(view.DefaultEntity)},
		{"locale", locale},
		{"result_limit", strconv.Itoa(view.ResultLimit)},
		{"http_timeout", view.HTTPTimeout},
	})
}
