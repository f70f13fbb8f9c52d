// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package storefront holds the static catalog of App Store storefronts.
package storefront

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/janderssonse/appscout/internal/domain"
)

// Catalog maps country codes to App Store storefront identifiers.
type Catalog struct {
	byCountry map[domain.CountryCode]string
	byStore   map[string]domain.CountryCode
	codes     []domain.CountryCode
	digest    string
}

// storefronts is the set of regional storefronts appscout can search.
// The identifier is the numeric prefix of an account's store front header.
var storefronts = map[domain.CountryCode]string{ //nolint:gochecknoglobals
	"AE": "143481", "AR": "143505", "AT": "143445", "AU": "143460",
	"BE": "143446", "BR": "143503", "CA": "143455", "CH": "143459",
	"CL": "143483", "CN": "143465", "CO": "143501", "CZ": "143489",
	"DE": "143443", "DK": "143458", "EG": "143516", "ES": "143454",
	"FI": "143447", "FR": "143442", "GB": "143444", "GR": "143448",
	"HK": "143463", "HU": "143482", "ID": "143476", "IE": "143449",
	"IL": "143491", "IN": "143467", "IT": "143450", "JP": "143462",
	"KR": "143466", "KZ": "143517", "MO": "143515", "MX": "143468",
	"MY": "143473", "NG": "143561", "NL": "143452", "NO": "143457",
	"NZ": "143461", "PE": "143507", "PH": "143474", "PK": "143477",
	"PL": "143478", "PT": "143453", "RO": "143487", "RU": "143469",
	"SA": "143479", "SE": "143456", "SG": "143464", "TH": "143475",
	"TR": "143480", "TW": "143470", "UA": "143492", "US": "143441",
	"VN": "143471", "ZA": "143472",
}

// Default returns the built-in storefront catalog.
func Default() *Catalog {
	return New(storefronts)
}

// New builds a catalog from a country to storefront mapping.
func New(mapping map[domain.CountryCode]string) *Catalog {
	catalog := &Catalog{
		byCountry: make(map[domain.CountryCode]string, len(mapping)),
		byStore:   make(map[string]domain.CountryCode, len(mapping)),
		codes:     make([]domain.CountryCode, 0, len(mapping)),
	}

	for code, store := range mapping {
		normalized := domain.NormalizeCountry(string(code))
		catalog.byCountry[normalized] = store
		catalog.byStore[store] = normalized
		catalog.codes = append(catalog.codes, normalized)
	}

	slices.Sort(catalog.codes)

	hash := sha256.New()
	for _, code := range catalog.codes {
		hash.Write([]byte(string(code) + "=" + catalog.byCountry[code] + ";"))
	}

	catalog.digest = hex.EncodeToString(hash.Sum(nil))[:16]

	return catalog
}

// Codes returns every country code in the catalog, in code order.
func (c *Catalog) Codes() []domain.CountryCode {
	return slices.Clone(c.codes)
}

// Contains reports whether the catalog knows the country.
func (c *Catalog) Contains(code domain.CountryCode) bool {
	_, ok := c.byCountry[code]

	return ok
}

// StoreID returns the storefront identifier for a country.
func (c *Catalog) StoreID(code domain.CountryCode) (string, bool) {
	store, ok := c.byCountry[domain.NormalizeCountry(string(code))]

	return store, ok
}

// CountryForStore maps an account store value such as "143441-1,29" to its
// country. Unknown storefronts report false.
func (c *Catalog) CountryForStore(store string) (domain.CountryCode, bool) {
	id := strings.TrimSpace(store)
	if prefix, _, found := strings.Cut(id, "-"); found {
		id = prefix
	}

	if id == "" {
		return "", false
	}

	code, ok := c.byStore[id]

	return code, ok
}

// Digest identifies the catalog contents; it changes whenever the mapping does.
func (c *Catalog) Digest() string {
	return c.digest
}

// Len returns the number of storefronts.
func (c *Catalog) Len() int {
	return len(c.codes)
}
