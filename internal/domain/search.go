// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"fmt"
	"strings"
	"time"
)

// CountryCode is an ISO 3166-1 alpha-2 storefront country, upper case.
type CountryCode string

// NormalizeCountry trims and upper-cases a user supplied code.
func NormalizeCountry(code string) CountryCode {
	return CountryCode(strings.ToUpper(strings.TrimSpace(code)))
}

func (c CountryCode) String() string {
	return string(c)
}

// Entity is the device class a search is filtered to.
type Entity string

// Supported entities.
const (
	EntityIPhone Entity = "iPhone"
	EntityIPad   Entity = "iPad"
)

// Entities lists every supported entity in display order.
func Entities() []Entity {
	return []Entity{EntityIPhone, EntityIPad}
}

// ParseEntity accepts an entity name case-insensitively.
func ParseEntity(value string) (Entity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "iphone", "software":
		return EntityIPhone, nil
	case "ipad", "ipadsoftware":
		return EntityIPad, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownEntity, value)
}

// APIValue returns the entity name the App Store search API expects.
func (e Entity) APIValue() string {
	if e == EntityIPad {
		return "iPadSoftware"
	}

	return "software"
}

// SearchQuery is a validated search submission.
type SearchQuery struct {
	Term    string
	Country CountryCode
	Entity  Entity
	Limit   int
}

// NewSearchQuery trims the term and rejects blank terms.
func NewSearchQuery(term string, country CountryCode, entity Entity) (SearchQuery, error) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return SearchQuery{}, ErrEmptyTerm
	}

	return SearchQuery{Term: trimmed, Country: country, Entity: entity}, nil
}

// SearchResult is one app returned by the search service.
type SearchResult struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	ArtistName        string  `json:"artistName"`
	ArtworkURL        string  `json:"artworkUrl"`
	FormattedPrice    *string `json:"formattedPrice,omitempty"`
	PrimaryGenreName  string  `json:"primaryGenreName"`
	AverageUserRating float64 `json:"averageUserRating"`
	UserRatingCount   int     `json:"userRatingCount"`

	BundleID     string `json:"bundleId,omitempty"`
	Version      string `json:"version,omitempty"`
	TrackViewURL string `json:"trackViewUrl,omitempty"`
}

// Account is a user's store account; only its storefront matters here.
type Account struct {
	Email string `toml:"email"`
	Name  string `toml:"name,omitempty"`
	Store string `toml:"store"`
}

// Settings are the user's search defaults.
type Settings struct {
	DefaultCountry CountryCode   `env:"DEFAULT_COUNTRY"`
	DefaultEntity  Entity        `env:"DEFAULT_ENTITY"`
	Locale         string        `env:"LOCALE"`
	ResultLimit    int           `env:"RESULT_LIMIT"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT"`
}

// Default settings values.
const (
	DefaultCountry     CountryCode = "US"
	DefaultEntity                  = EntityIPhone
	DefaultResultLimit             = 50
	MaxResultLimit                 = 200
	DefaultHTTPTimeout             = 15 * time.Second
)

// WithDefaults fills zero fields with the package defaults.
func (s Settings) WithDefaults() Settings {
	if s.DefaultCountry == "" {
		s.DefaultCountry = DefaultCountry
	}

	s.DefaultCountry = NormalizeCountry(string(s.DefaultCountry))

	if entity, err := ParseEntity(string(s.DefaultEntity)); err == nil {
		s.DefaultEntity = entity
	} else {
		s.DefaultEntity = DefaultEntity
	}

	if s.ResultLimit <= 0 {
		s.ResultLimit = DefaultResultLimit
	}

	if s.ResultLimit > MaxResultLimit {
		s.ResultLimit = MaxResultLimit
	}

	if s.HTTPTimeout <= 0 {
		s.HTTPTimeout = DefaultHTTPTimeout
	}

	return s
}
