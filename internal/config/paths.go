// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config resolves where appscout keeps its files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppName names the per-user directories.
const AppName = "appscout"

// File names inside the config and state directories.
const (
	AccountsFileName = "accounts.toml"
	SettingsFileName = "settings.toml"
	LogFileName      = "appscout.log"
	LockFileName     = "appscout.lock"
)

// Paths holds the resolved directories.
type Paths struct {
	ConfigDir string
	StateDir  string
}

// Resolve reads APPSCOUT_PATH, XDG_CONFIG_HOME and XDG_STATE_HOME.
func Resolve() Paths {
	return ResolveWithEnv(
		os.Getenv("APPSCOUT_PATH"),
		os.Getenv("XDG_CONFIG_HOME"),
		os.Getenv("XDG_STATE_HOME"),
	)
}

// ResolveWithEnv resolves paths with explicit environment values for testing.
// A non-empty appscoutPath holds everything, with state in a subdirectory.
func ResolveWithEnv(appscoutPath, xdgConfigHome, xdgStateHome string) Paths {
	if appscoutPath != "" {
		return Paths{
			ConfigDir: appscoutPath,
			StateDir:  filepath.Join(appscoutPath, "state"),
		}
	}

	return Paths{
		ConfigDir: filepath.Join(XDGConfigHomeWithEnv(xdgConfigHome), AppName),
		StateDir:  filepath.Join(XDGStateHomeWithEnv(xdgStateHome), AppName),
	}
}

// XDGConfigHomeWithEnv returns XDG config directory with custom environment override for testing.
func XDGConfigHomeWithEnv(xdgConfigHome string) string {
	if xdgConfigHome != "" {
		return xdgConfigHome
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}

	return ""
}

// XDGStateHomeWithEnv returns XDG state directory with custom environment override for testing.
func XDGStateHomeWithEnv(xdgStateHome string) string {
	if xdgStateHome != "" {
		return xdgStateHome
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state")
	}

	return ""
}

// AccountsFile is the accounts list.
func (p Paths) AccountsFile() string {
	return filepath.Join(p.ConfigDir, AccountsFileName)
}

// SettingsFile is the user settings.
func (p Paths) SettingsFile() string {
	return filepath.Join(p.ConfigDir, SettingsFileName)
}

// LogFile is the structured log.
func (p Paths) LogFile() string {
	return filepath.Join(p.StateDir, LogFileName)
}

// LockFile guards writes to the config directory.
func (p Paths) LockFile() string {
	return filepath.Join(p.StateDir, LockFileName)
}

// Ensure creates both directories.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.ConfigDir, p.StateDir} {
		if dir == "" {
			return fmt.Errorf("%w: cannot determine home directory", os.ErrNotExist)
		}

		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return nil
}
