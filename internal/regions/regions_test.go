// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package regions

import (
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/i18n"
	"github.com/janderssonse/appscout/internal/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// countingLocalizer records how often names are resolved.
type countingLocalizer struct {
	inner *i18n.Localizer
	calls atomic.Int64
}

func (c *countingLocalizer) T(key string, fallback ...string) string {
	c.calls.Add(1)

	return c.inner.T(key, fallback...)
}

func (c *countingLocalizer) Locale() string {
	return c.inner.Locale()
}

func testCatalog() *storefront.Catalog {
	return storefront.New(map[domain.CountryCode]string{
		"US": "143441",
		"GB": "143444",
		"DE": "143443",
		"SE": "143456",
		"AT": "143445",
	})
}

func account(store string) domain.Account {
	return domain.Account{Email: store + "@example.com", Store: store}
}

func TestBuild_SortsByLocalizedName(t *testing.T) {
	t.Parallel()

	english := i18n.New("en")
	lists := Build(nil, testCatalog(), LocalizedNames(english), language.English)

	// Austria, Germany, Sweden, United Kingdom, United States
	assert.Equal(t, []domain.CountryCode{"AT", "DE", "SE", "GB", "US"}, lists.All)
	assert.Empty(t, lists.Available)

	german := i18n.New("de")
	lists = Build(nil, testCatalog(), LocalizedNames(german), language.German)

	// Deutschland, Österreich, Schweden, then the two "Vereinigte..." names.
	assert.Equal(t, []domain.CountryCode{"DE", "AT", "SE"}, lists.All[:3])
	assert.ElementsMatch(t, []domain.CountryCode{"US", "GB"}, lists.All[3:])
}

func TestBuild_AvailableFromAccounts(t *testing.T) {
	t.Parallel()

	accounts := []domain.Account{
		account("143441-1,29"), // US
		account("143456"),      // SE
		account("999999"),      // unknown, skipped
		account("143441-2,32"), // US again
		account(""),            // no store
	}

	lists := Build(accounts, testCatalog(), LocalizedNames(i18n.New("en")), language.English)

	assert.Equal(t, []domain.CountryCode{"SE", "US"}, lists.Available)
}

func TestBuild_TiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	same := func(domain.CountryCode) string { return "Same" }
	accounts := []domain.Account{account("143456"), account("143441"), account("143444")}

	lists := Build(accounts, testCatalog(), same, language.English)

	assert.Equal(t, []domain.CountryCode{"SE", "US", "GB"}, lists.Available)
	assert.Equal(t, testCatalog().Codes(), lists.All)
}

func TestBuild_AvailableIsSubsetOfAllWithoutDuplicates(t *testing.T) {
	t.Parallel()

	catalog := storefront.Default()
	codes := catalog.Codes()
	names := LocalizedNames(i18n.New("en"))
	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec

	for range 200 {
		accounts := make([]domain.Account, rng.IntN(12))
		for i := range accounts {
			if rng.IntN(4) == 0 {
				accounts[i] = account("000000")

				continue
			}

			store, _ := catalog.StoreID(codes[rng.IntN(len(codes))])
			accounts[i] = account(store)
		}

		lists := Build(accounts, catalog, names, language.English)

		seen := make(map[domain.CountryCode]bool)
		for _, code := range lists.Available {
			require.False(t, seen[code], "duplicate %s", code)
			seen[code] = true
			require.True(t, slices.Contains(lists.All, code), "%s missing from all", code)
		}

		require.Len(t, lists.All, catalog.Len())
	}
}

func TestInitialCountry(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()

	assert.Equal(t, domain.CountryCode("FR"), InitialCountry(nil, catalog, "FR"))
	assert.Equal(t, domain.CountryCode("SE"),
		InitialCountry([]domain.Account{account("999999"), account("143456"), account("143441")}, catalog, "FR"))
}

func TestBuilder_Memoizes(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(testCatalog())
	loc := &countingLocalizer{inner: i18n.New("en")}
	accounts := []domain.Account{account("143441")}

	first := builder.Lists(accounts, loc)
	calls := loc.calls.Load()
	require.Positive(t, calls)

	second := builder.Lists(accounts, loc)
	assert.Equal(t, first, second)
	assert.Equal(t, calls, loc.calls.Load(), "cached lists must not resolve names again")

	// Mutating a returned list must not leak into the cache.
	second.All[0] = "XX"
	assert.NotEqual(t, domain.CountryCode("XX"), builder.Lists(accounts, loc).All[0])
}

func TestBuilder_RecomputesOnInputChange(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(testCatalog())
	loc := &countingLocalizer{inner: i18n.New("en")}

	before := builder.Lists([]domain.Account{account("143441")}, loc)
	after := builder.Lists([]domain.Account{account("143441"), account("143456")}, loc)

	assert.Equal(t, []domain.CountryCode{"US"}, before.Available)
	assert.Equal(t, []domain.CountryCode{"SE", "US"}, after.Available)

	german := builder.Lists([]domain.Account{account("143441")}, &countingLocalizer{inner: i18n.New("de")})
	assert.Equal(t, domain.CountryCode("DE"), german.All[0])
}
