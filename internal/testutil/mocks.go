// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil provides testify mocks for the domain ports.
package testutil

import (
	"context"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockSearchService mocks the SearchService port for testing.
type MockSearchService struct {
	mock.Mock
}

// Search mocks an App Store search.
func (m *MockSearchService) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	args := m.Called(ctx, query)
	if result := args.Get(0); result != nil {
		res, ok := result.([]domain.SearchResult)
		if !ok {
			return nil, args.Error(1)
		}

		return res, args.Error(1)
	}

	return nil, args.Error(1)
}

// MockAccountStore mocks the AccountStore port for testing.
type MockAccountStore struct {
	mock.Mock
}

// Accounts mocks listing accounts.
func (m *MockAccountStore) Accounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if result := args.Get(0); result != nil {
		res, ok := result.([]domain.Account)
		if !ok {
			return nil, args.Error(1)
		}

		return res, args.Error(1)
	}

	return nil, args.Error(1)
}

// Add mocks adding an account.
func (m *MockAccountStore) Add(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

// Remove mocks removing an account.
func (m *MockAccountStore) Remove(ctx context.Context, email string) error {
	args := m.Called(ctx, email)

	return args.Error(0)
}

// MockSettingsStore mocks the SettingsStore port for testing.
type MockSettingsStore struct {
	mock.Mock
}

// Load mocks loading settings.
func (m *MockSettingsStore) Load(ctx context.Context) (domain.Settings, error) {
	args := m.Called(ctx)

	settings, ok := args.Get(0).(domain.Settings)
	if !ok {
		return domain.Settings{}, args.Error(1)
	}

	return settings, args.Error(1)
}

// Save mocks saving settings.
func (m *MockSettingsStore) Save(ctx context.Context, settings domain.Settings) error {
	args := m.Called(ctx, settings)

	return args.Error(0)
}

// Results builds n distinct search results for tests.
func Results(n int) []domain.SearchResult {
	results := make([]domain.SearchResult, n)
	for i := range results {
		results[i] = domain.SearchResult{
			ID:                int64(1000 + i),
			Name:              "App " + string(rune('A'+i%26)),
			ArtistName:        "Madfinger Games",
			PrimaryGenreName:  "Games",
			AverageUserRating: 4.25,
			UserRatingCount:   i,
		}
	}

	return results
}
