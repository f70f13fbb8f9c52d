// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package regions derives the ordered country lists offered to the user:
// the countries of their own accounts, and every storefront in the catalog.
package regions

import (
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/storefront"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const defaultCacheSize = 16

// Lists are the two country sequences shown in the region picker.
type Lists struct {
	// Available holds the countries of the user's accounts. May be empty.
	Available []domain.CountryCode
	// All holds every storefront country.
	All []domain.CountryCode
}

// NameResolver returns the display name of a country code.
type NameResolver func(code domain.CountryCode) string

// LocalizedNames resolves names through a localizer, falling back to the code.
func LocalizedNames(loc domain.Localizer) NameResolver {
	return func(code domain.CountryCode) string {
		return loc.T("countries."+string(code), string(code))
	}
}

// Build derives both lists. Accounts whose storefront is not in the catalog
// are skipped. Both lists are sorted by display name using the collation
// rules of locale; equal names keep their input order.
func Build(accounts []domain.Account, catalog *storefront.Catalog, names NameResolver, locale language.Tag) Lists {
	seen := make(map[domain.CountryCode]bool, len(accounts))
	available := make([]domain.CountryCode, 0, len(accounts))

	for _, account := range accounts {
		code, ok := catalog.CountryForStore(account.Store)
		if !ok || seen[code] {
			continue
		}

		seen[code] = true
		available = append(available, code)
	}

	all := catalog.Codes()

	sortByName(available, names, locale)
	sortByName(all, names, locale)

	return Lists{Available: available, All: all}
}

// InitialCountry picks the country preselected in the search form: the first
// account whose storefront is known, otherwise the settings default.
func InitialCountry(accounts []domain.Account, catalog *storefront.Catalog, fallback domain.CountryCode) domain.CountryCode {
	for _, account := range accounts {
		if code, ok := catalog.CountryForStore(account.Store); ok {
			return code
		}
	}

	return fallback
}

func sortByName(codes []domain.CountryCode, names NameResolver, locale language.Tag) {
	collator := collate.New(locale)

	keys := make(map[domain.CountryCode]string, len(codes))
	for _, code := range codes {
		keys[code] = names(code)
	}

	slices.SortStableFunc(codes, func(a, b domain.CountryCode) int {
		return collator.CompareString(keys[a], keys[b])
	})
}

// Builder memoizes Build keyed on its inputs. It is safe for concurrent use.
type Builder struct {
	catalog *storefront.Catalog
	cache   *lru.Cache
}

// NewBuilder creates a memoizing builder over a catalog.
func NewBuilder(catalog *storefront.Catalog) *Builder {
	cache, err := lru.New(defaultCacheSize)
	if err != nil {
		// Only a non-positive size fails.
		panic(err)
	}

	return &Builder{catalog: catalog, cache: cache}
}

// Catalog returns the catalog the builder derives from.
func (b *Builder) Catalog() *storefront.Catalog {
	return b.catalog
}

// Lists returns the memoized lists for the accounts in the localizer's
// language, computing them on first use.
func (b *Builder) Lists(accounts []domain.Account, loc domain.Localizer) Lists {
	locale := language.Make(loc.Locale())
	key := b.cacheKey(accounts, locale)

	if cached, ok := b.cache.Get(key); ok {
		if lists, ok := cached.(Lists); ok {
			return cloneLists(lists)
		}
	}

	lists := Build(accounts, b.catalog, LocalizedNames(loc), locale)
	b.cache.Add(key, lists)

	return cloneLists(lists)
}

func (b *Builder) cacheKey(accounts []domain.Account, locale language.Tag) string {
	var key strings.Builder

	key.WriteString(locale.String())
	key.WriteByte('|')
	key.WriteString(b.catalog.Digest())

	for _, account := range accounts {
		key.WriteByte('|')
		key.WriteString(account.Store)
	}

	return key.String()
}

func cloneLists(lists Lists) Lists {
	return Lists{Available: slices.Clone(lists.Available), All: slices.Clone(lists.All)}
}
