// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWithEnv(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name          string
		appscoutPath  string
		xdgConfigHome string
		xdgStateHome  string
		want          Paths
	}{
		{
			name:         "APPSCOUT_PATH holds everything",
			appscoutPath: "/custom/appscout",
			xdgStateHome: "/ignored",
			want:         Paths{ConfigDir: "/custom/appscout", StateDir: "/custom/appscout/state"},
		},
		{
			name:          "XDG directories when set",
			xdgConfigHome: "/xdg/config",
			xdgStateHome:  "/xdg/state",
			want:          Paths{ConfigDir: "/xdg/config/appscout", StateDir: "/xdg/state/appscout"},
		},
		{
			name: "falls back to home directory",
			want: Paths{
				ConfigDir: filepath.Join(home, ".config", "appscout"),
				StateDir:  filepath.Join(home, ".local", "state", "appscout"),
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := ResolveWithEnv(testCase.appscoutPath, testCase.xdgConfigHome, testCase.xdgStateHome)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestPaths_Files(t *testing.T) {
	t.Parallel()

	paths := Paths{ConfigDir: "/c", StateDir: "/s"}

	assert.Equal(t, "/c/accounts.toml", paths.AccountsFile())
	assert.Equal(t, "/c/settings.toml", paths.SettingsFile())
	assert.Equal(t, "/s/appscout.log", paths.LogFile())
	assert.Equal(t, "/s/appscout.lock", paths.LockFile())
}

func TestPaths_Ensure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	paths := ResolveWithEnv(filepath.Join(root, "nested"), "", "")

	require.NoError(t, paths.Ensure())

	for _, dir := range []string{paths.ConfigDir, paths.StateDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	assert.Error(t, Paths{}.Ensure())
}
