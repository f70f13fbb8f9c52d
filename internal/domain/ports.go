// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"context"
)

// SearchService looks up apps in a storefront.
// Implemented by adapters for the App Store search API.
type SearchService interface {
	// Search returns results for the query in upstream relevance order.
	// It must be safe to call repeatedly with the same query.
	Search(ctx context.Context, query SearchQuery) ([]SearchResult, error)
}

// AccountStore defines the interface for reading and editing accounts.
type AccountStore interface {
	// Accounts returns a snapshot of all accounts in insertion order.
	Accounts(ctx context.Context) ([]Account, error)

	// Add stores a new account. Emails are unique.
	Add(ctx context.Context, account Account) error

	// Remove deletes the account with the given email.
	Remove(ctx context.Context, email string) error
}

// SettingsStore defines the interface for user preferences.
type SettingsStore interface {
	// Load returns the current settings, with defaults applied.
	Load(ctx context.Context) (Settings, error)

	// Save persists settings.
	Save(ctx context.Context, settings Settings) error
}

// Localizer resolves translated strings. T never fails: a missing key
// resolves to the first fallback, or to the key itself.
type Localizer interface {
	T(key string, fallback ...string) string

	// Locale returns the BCP 47 tag of the active language.
	Locale() string
}
