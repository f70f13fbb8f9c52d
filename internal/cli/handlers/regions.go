// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package handlers

import (
	"context"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/regions"
)

// RegionsHandler prints the region lists.
type RegionsHandler struct {
	*BaseHandler

	Accounts  domain.AccountStore
	Builder   *regions.Builder
	Localizer domain.Localizer
}

// Execute lists available regions, and all regions unless availableOnly.
func (h *RegionsHandler) Execute(ctx context.Context, availableOnly bool) error {
	accounts, err := h.Accounts.Accounts(ctx)
	if err != nil {
		return domain.NewExitError(domain.ExitConfigError, "Failed to read accounts", err)
	}

	lists := h.Builder.Lists(accounts, h.Localizer)
	names := regions.LocalizedNames(h.Localizer)

	result := domain.RegionsOutput{Available: entries(lists.Available, names)}
	if !availableOnly {
		result.All = entries(lists.All, names)
	}

	output := h.GetOutput()
	if h.JSON {
		return output.Success("", result)
	}

	headers := []string{"Code", "Name", "Group"}
	rows := make([][]string, 0, len(result.Available)+len(result.All))

	availableLabel := h.Localizer.T("regions.available", "Available Regions")
	for _, entry := range result.Available {
		rows = append(rows, []string{string(entry.Code), entry.Name, availableLabel})
	}

	allLabel := h.Localizer.T("regions.all", "All Regions")
	for _, entry := range result.All {
		rows = append(rows, []string{string(entry.Code), entry.Name, allLabel})
	}

	return output.Table(headers, rows)
}

func entries(codes []domain.CountryCode, names regions.NameResolver) []domain.RegionEntry {
	out := make([]domain.RegionEntry, 0, len(codes))
	for _, code := range codes {
		out = append(out, domain.RegionEntry{Code: code, Name: names(code)})
	}

	return out
}
