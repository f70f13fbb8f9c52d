// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package i18n resolves translated UI strings and localized country names.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	countryPrefix = "countries."
	defaultLocale = "en"
)

//go:embed locales/*.toml
var catalogFS embed.FS

var (
	loadOnce  sync.Once           //nolint:gochecknoglobals
	catalogs  map[string]messages //nolint:gochecknoglobals
	supported []language.Tag      //nolint:gochecknoglobals
	loadErr   error               //nolint:gochecknoglobals
)

type messages map[string]string

// Localizer implements domain.Localizer over the embedded catalogs.
type Localizer struct {
	requested language.Tag
	messages  messages
	fallback  messages
	regions   display.Namer
}

// New returns a localizer for a BCP 47 or POSIX locale ("sv_SE.UTF-8").
// Unknown or empty locales fall back to English.
func New(locale string) *Localizer {
	if err := loadCatalogs(); err != nil {
		// Catalogs are embedded; a parse failure is a build defect, and T
		// still answers with fallbacks.
		return &Localizer{requested: language.English, regions: display.Regions(language.English)}
	}

	requested := ParseLocale(locale)
	matcher := language.NewMatcher(supported)
	_, index, _ := matcher.Match(requested)
	matched, _ := supported[index].Base()

	return &Localizer{
		requested: requested,
		messages:  catalogs[matched.String()],
		fallback:  catalogs[defaultLocale],
		regions:   display.Regions(requested),
	}
}

// FromEnvironment builds a localizer from LC_ALL, LC_MESSAGES or LANG.
func FromEnvironment() *Localizer {
	return New(EnvironmentLocale())
}

// EnvironmentLocale returns the first locale set in LC_ALL, LC_MESSAGES, LANG.
func EnvironmentLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}

	return ""
}

// ParseLocale accepts BCP 47 tags and POSIX locale names.
func ParseLocale(locale string) language.Tag {
	value := strings.TrimSpace(locale)
	if before, _, found := strings.Cut(value, "."); found {
		value = before
	}

	if before, _, found := strings.Cut(value, "@"); found {
		value = before
	}

	value = strings.ReplaceAll(value, "_", "-")
	if value == "" || value == "C" || value == "POSIX" {
		return language.English
	}

	tag, err := language.Parse(value)
	if err != nil {
		return language.English
	}

	return tag
}

// T resolves key in the active language, then English, then the fallback
// argument, then the key itself. Keys under "countries." additionally fall
// back to the CLDR region name for the active locale.
func (l *Localizer) T(key string, fallback ...string) string {
	if value, ok := l.messages[key]; ok {
		return value
	}

	if code, found := strings.CutPrefix(key, countryPrefix); found {
		if name := l.regionName(code); name != "" {
			return name
		}
	}

	if value, ok := l.fallback[key]; ok {
		return value
	}

	if len(fallback) > 0 {
		return fallback[0]
	}

	return key
}

// Locale returns the requested language tag.
func (l *Localizer) Locale() string {
	return l.requested.String()
}

// Tag returns the requested language tag.
func (l *Localizer) Tag() language.Tag {
	return l.requested
}

// CountryName is shorthand for T("countries.<code>", code).
func (l *Localizer) CountryName(code string) string {
	return l.T(countryPrefix+code, code)
}

func (l *Localizer) regionName(code string) string {
	if l.regions == nil {
		return ""
	}

	region, err := language.ParseRegion(code)
	if err != nil {
		return ""
	}

	return l.regions.Name(region)
}

func loadCatalogs() error {
	loadOnce.Do(func() {
		entries, err := catalogFS.ReadDir("locales")
		if err != nil {
			loadErr = fmt.Errorf("failed to read locale catalogs: %w", err)

			return
		}

		catalogs = make(map[string]messages, len(entries))
		// English first so the matcher uses it as the default.
		supported = []language.Tag{language.English}

		for _, entry := range entries {
			name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))

			data, err := catalogFS.ReadFile(path.Join("locales", entry.Name()))
			if err != nil {
				loadErr = fmt.Errorf("failed to read catalog %s: %w", entry.Name(), err)

				return
			}

			parsed, err := parseCatalog(data)
			if err != nil {
				loadErr = fmt.Errorf("failed to parse catalog %s: %w", entry.Name(), err)

				return
			}

			catalogs[name] = parsed

			if name != defaultLocale {
				supported = append(supported, language.Make(name))
			}
		}
	})

	return loadErr
}

// parseCatalog flattens nested TOML tables into dotted keys.
func parseCatalog(data []byte) (messages, error) {
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	flat := make(messages)
	flatten("", tree, flat)

	return flat, nil
}

func flatten(prefix string, tree map[string]any, out messages) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		switch typed := value.(type) {
		case map[string]any:
			flatten(full, typed, out)
		case string:
			out[full] = typed
		default:
			out[full] = fmt.Sprint(typed)
		}
	}
}
