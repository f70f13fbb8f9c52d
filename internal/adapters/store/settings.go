// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every settings environment override.
const EnvPrefix = "APPSCOUT_"

// Settings is a domain.SettingsStore backed by a TOML file with
// APPSCOUT_* environment overrides applied on load.
type Settings struct {
	path     string
	lockPath string
	environ  map[string]string
}

var _ domain.SettingsStore = (*Settings)(nil)

// SettingsOption configures a Settings store.
type SettingsOption func(*Settings)

// WithEnvironment replaces the process environment, for tests.
func WithEnvironment(environ map[string]string) SettingsOption {
	return func(s *Settings) {
		s.environ = environ
	}
}

// NewSettings returns a settings store for path.
func NewSettings(path, lockPath string, opts ...SettingsOption) *Settings {
	s := &Settings{path: path, lockPath: lockPath}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// settingsFile is the on-disk shape; durations are written as "15s".
type settingsFile struct {
	DefaultCountry string `toml:"default_country"`
	DefaultEntity  string `toml:"default_entity"`
	Locale         string `toml:"locale,omitempty"`
	ResultLimit    int    `toml:"result_limit,omitempty"`
	HTTPTimeout    string `toml:"http_timeout,omitempty"`
}

// Load reads the file, applies environment overrides, then defaults.
func (s *Settings) Load(_ context.Context) (domain.Settings, error) {
	settings, err := s.loadFile()
	if err != nil {
		return domain.Settings{}, err
	}

	opts := env.Options{Prefix: EnvPrefix}
	if s.environ != nil {
		opts.Environment = s.environ
	}

	if err := env.ParseWithOptions(&settings, opts); err != nil {
		return domain.Settings{}, fmt.Errorf("invalid %s environment: %w", EnvPrefix, err)
	}

	return settings.WithDefaults(), nil
}

// Save writes settings, with defaults applied, to the file.
func (s *Settings) Save(ctx context.Context, settings domain.Settings) error {
	settings = settings.WithDefaults()

	file := settingsFile{
		DefaultCountry: settings.DefaultCountry.String(),
		DefaultEntity:  string(settings.DefaultEntity),
		Locale:         settings.Locale,
		ResultLimit:    settings.ResultLimit,
		HTTPTimeout:    settings.HTTPTimeout.String(),
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return withLock(ctx, s.lockPath, func() error {
		return writeFileAtomic(s.path, data)
	})
}

func (s *Settings) loadFile() (domain.Settings, error) {
	data, err := readFile(s.path)
	if err != nil || data == nil {
		return domain.Settings{}, err
	}

	var file settingsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	settings := domain.Settings{
		DefaultCountry: domain.CountryCode(file.DefaultCountry),
		DefaultEntity:  domain.Entity(file.DefaultEntity),
		Locale:         file.Locale,
		ResultLimit:    file.ResultLimit,
	}

	if file.HTTPTimeout != "" {
		timeout, err := time.ParseDuration(file.HTTPTimeout)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("invalid http_timeout in %s: %w", s.path, err)
		}

		settings.HTTPTimeout = timeout
	}

	return settings, nil
}
