// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// Accounts is a domain.AccountStore backed by a TOML file.
type Accounts struct {
	path     string
	lockPath string
}

var _ domain.AccountStore = (*Accounts)(nil)

type accountsFile struct {
	Accounts []domain.Account `toml:"accounts"`
}

// NewAccounts returns a store reading path and locking lockPath on writes.
func NewAccounts(path, lockPath string) *Accounts {
	return &Accounts{path: path, lockPath: lockPath}
}

// Accounts returns all accounts in file order. A missing file is empty.
func (s *Accounts) Accounts(_ context.Context) ([]domain.Account, error) {
	return s.load()
}

// Add appends account. Emails compare case-insensitively.
func (s *Accounts) Add(ctx context.Context, account domain.Account) error {
	account.Email = strings.TrimSpace(account.Email)
	account.Store = strings.TrimSpace(account.Store)

	if account.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidAccount)
	}

	return withLock(ctx, s.lockPath, func() error {
		accounts, err := s.load()
		if err != nil {
			return err
		}

		if indexOf(accounts, account.Email) >= 0 {
			return fmt.Errorf("%w: %s", domain.ErrAccountExists, account.Email)
		}

		return s.save(append(accounts, account))
	})
}

// Remove deletes the account with email.
func (s *Accounts) Remove(ctx context.Context, email string) error {
	return withLock(ctx, s.lockPath, func() error {
		accounts, err := s.load()
		if err != nil {
			return err
		}

		idx := indexOf(accounts, strings.TrimSpace(email))
		if idx < 0 {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, email)
		}

		return s.save(slices.Delete(accounts, idx, idx+1))
	})
}

func (s *Accounts) load() ([]domain.Account, error) {
	data, err := readFile(s.path)
	if err != nil || data == nil {
		return []domain.Account{}, err
	}

	var file accountsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	if file.Accounts == nil {
		return []domain.Account{}, nil
	}

	return file.Accounts, nil
}

func (s *Accounts) save(accounts []domain.Account) error {
	data, err := toml.Marshal(accountsFile{Accounts: accounts})
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}

	return writeFileAtomic(s.path, data)
}

func indexOf(accounts []domain.Account, email string) int {
	return slices.IndexFunc(accounts, func(a domain.Account) bool {
		return strings.EqualFold(a.Email, email)
	})
}
