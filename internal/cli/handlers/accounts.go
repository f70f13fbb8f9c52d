// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/storefront"
)

// AccountsHandler lists and edits stored accounts.
type AccountsHandler struct {
	*BaseHandler

	Store     domain.AccountStore
	Catalog   *storefront.Catalog
	Localizer domain.Localizer
}

type accountView struct {
	Email   string             `json:"email"`
	Name    string             `json:"name,omitempty"`
	Store   string             `json:"store"`
	Country domain.CountryCode `json:"country,omitempty"`
}

// List prints every account with the country of its storefront.
func (h *AccountsHandler) List(ctx context.Context) error {
	accounts, err := h.Store.Accounts(ctx)
	if err != nil {
		return domain.NewExitError(domain.ExitConfigError, "Failed to read accounts", err)
	}

	views := make([]accountView, 0, len(accounts))
	for _, account := range accounts {
		view := accountView{Email: account.Email, Name: account.Name, Store: account.Store}
		if code, ok := h.Catalog.CountryForStore(account.Store); ok {
			view.Country = code
		}

		views = append(views, view)
	}

	output := h.GetOutput()
	if h.JSON {
		return output.Success("", map[string]any{"accounts": views})
	}

	if len(views) == 0 {
		return output.Info("No accounts configured")
	}

	rows := make([][]string, 0, len(views))
	for _, view := range views {
		country := "?"
		if view.Country != "" {
			country = h.Localizer.T("countries."+string(view.Country), string(view.Country))
		}

		rows = append(rows, []string{view.Email, view.Name, view.Store, country})
	}

	return output.Table([]string{"Email", "Name", "Store", "Region"}, rows)
}

// Add stores an account. store may be a storefront id or a country code.
func (h *AccountsHandler) Add(ctx context.Context, email, name, store string) error {
	store = strings.TrimSpace(store)

	if id, ok := h.Catalog.StoreID(domain.NormalizeCountry(store)); ok {
		store = id
	} else if _, known := h.Catalog.CountryForStore(store); !known {
		return domain.NewExitError(domain.ExitUsageError, "Unknown storefront: "+store, domain.ErrUnknownCountry)
	}

	err := h.Store.Add(ctx, domain.Account{Email: email, Name: name, Store: store})

	switch {
	case errors.Is(err, domain.ErrAccountExists):
		return domain.NewExitError(domain.ExitUsageError, "Account already exists: "+email, err)
	case errors.Is(err, domain.ErrInvalidAccount):
		return domain.NewExitError(domain.ExitUsageError, "An account needs an email address", err)
	case err != nil:
		return domain.NewExitError(domain.ExitConfigError, "Failed to save account", err)
	}

	return h.GetOutput().Success("Account added: "+email, map[string]string{"added": email})
}

// Remove deletes the account with email.
func (h *AccountsHandler) Remove(ctx context.Context, email string) error {
	err := h.Store.Remove(ctx, email)

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return domain.NewExitError(domain.ExitNotFoundError, "No account with email "+email, err)
	case err != nil:
		return domain.NewExitError(domain.ExitConfigError, "Failed to save accounts", err)
	}

	return h.GetOutput().Success("Account removed: "+email, map[string]string{"removed": email})
}
