// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccounts(t *testing.T) *Accounts {
	t.Helper()

	dir := t.TempDir()

	return NewAccounts(filepath.Join(dir, "accounts.toml"), filepath.Join(dir, "state", "appscout.lock"))
}

func TestAccounts_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	accounts, err := newAccounts(t).Accounts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestAccounts_AddListRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newAccounts(t)

	require.NoError(t, store.Add(ctx, domain.Account{Email: "anna@example.com", Store: "143456-2,32", Name: "Anna"}))
	require.NoError(t, store.Add(ctx, domain.Account{Email: " bob@example.com ", Store: "143441"}))

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "anna@example.com", accounts[0].Email)
	assert.Equal(t, "Anna", accounts[0].Name)
	assert.Equal(t, "bob@example.com", accounts[1].Email)

	err = store.Add(ctx, domain.Account{Email: "ANNA@example.com", Store: "143441"})
	require.ErrorIs(t, err, domain.ErrAccountExists)

	require.NoError(t, store.Remove(ctx, "anna@example.com"))
	require.ErrorIs(t, store.Remove(ctx, "anna@example.com"), domain.ErrAccountNotFound)

	accounts, err = store.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "143441", accounts[0].Store)
}

func TestAccounts_RequiresEmail(t *testing.T) {
	t.Parallel()

	err := newAccounts(t).Add(context.Background(), domain.Account{Store: "143441"})
	require.ErrorIs(t, err, domain.ErrInvalidAccount)
}

func TestAccounts_ConcurrentAdds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newAccounts(t)

	var wg sync.WaitGroup

	emails := []string{"a@x.se", "b@x.se", "c@x.se", "d@x.se", "e@x.se", "f@x.se"}
	for _, email := range emails {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, store.Add(ctx, domain.Account{Email: email, Store: "143456"}))
		}()
	}

	wg.Wait()

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, len(emails))
}

func TestAccounts_ReadsHandWrittenFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[accounts]]
email = "anna@example.com"
store = "143456-2,32"

[[accounts]]
email = "bob@example.com"
name = "Bob"
store = "143441-1,29"
`), 0o600))

	accounts, err := NewAccounts(path, filepath.Join(dir, "lock")).Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Bob", accounts[1].Name)
	assert.Equal(t, "143441-1,29", accounts[1].Store)
}

func TestAccounts_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[accounts]\nemail ="), 0o600))

	_, err := NewAccounts(path, filepath.Join(dir, "lock")).Accounts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestSettings_DefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewSettings(filepath.Join(dir, "settings.toml"), filepath.Join(dir, "lock"),
		WithEnvironment(map[string]string{}))

	settings, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCountry, settings.DefaultCountry)
	assert.Equal(t, domain.EntityIPhone, settings.DefaultEntity)
	assert.Equal(t, domain.DefaultResultLimit, settings.ResultLimit)
	assert.Equal(t, domain.DefaultHTTPTimeout, settings.HTTPTimeout)
}

func TestSettings_SaveAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	store := NewSettings(path, filepath.Join(dir, "lock"), WithEnvironment(map[string]string{}))

	require.NoError(t, store.Save(ctx, domain.Settings{
		DefaultCountry: "se",
		DefaultEntity:  domain.EntityIPad,
		Locale:         "sv-SE",
		ResultLimit:    30,
		HTTPTimeout:    20 * time.Second,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_country = 'SE'")
	assert.Contains(t, string(data), "http_timeout = '20s'")

	settings, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CountryCode("SE"), settings.DefaultCountry)
	assert.Equal(t, domain.EntityIPad, settings.DefaultEntity)
	assert.Equal(t, "sv-SE", settings.Locale)
	assert.Equal(t, 30, settings.ResultLimit)
	assert.Equal(t, 20*time.Second, settings.HTTPTimeout)
}

func TestSettings_EnvironmentOverrides(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("default_country = 'SE'\ndefault_entity = 'iPhone'\n"), 0o600))

	store := NewSettings(path, filepath.Join(dir, "lock"), WithEnvironment(map[string]string{
		"APPSCOUT_DEFAULT_ENTITY": "ipad",
		"APPSCOUT_RESULT_LIMIT":   "10",
		"APPSCOUT_HTTP_TIMEOUT":   "3s",
		"DEFAULT_COUNTRY":         "DE",
	}))

	settings, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CountryCode("SE"), settings.DefaultCountry, "unprefixed variables are ignored")
	assert.Equal(t, domain.EntityIPad, settings.DefaultEntity)
	assert.Equal(t, 10, settings.ResultLimit)
	assert.Equal(t, 3*time.Second, settings.HTTPTimeout)
}

func TestSettings_InvalidEnvironment(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewSettings(filepath.Join(dir, "settings.toml"), filepath.Join(dir, "lock"),
		WithEnvironment(map[string]string{"APPSCOUT_RESULT_LIMIT": "lots"}))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APPSCOUT_")
}

func TestSettings_InvalidTimeoutInFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("http_timeout = 'soon'\n"), 0o600))

	_, err := NewSettings(path, filepath.Join(dir, "lock"), WithEnvironment(map[string]string{})).
		Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http_timeout")
}

func TestWithLock_RespectsContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lockPath := filepath.Join(dir, "lock")

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = withLock(context.Background(), lockPath, func() error {
			close(holding)
			<-release

			return nil
		})
	}()

	<-holding

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := withLock(ctx, lockPath, func() error { return nil })
	require.Error(t, err)

	close(release)
	<-done

	require.NoError(t, withLock(context.Background(), lockPath, func() error { return nil }))
}
