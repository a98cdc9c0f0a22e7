// SPDX-License-Identifier: MPL-2.0

// Package config resolves the anchor home directory layout and loads the
// optional user settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "anchor"
	// SettingsFileName is the name of the settings file inside the home dir.
	SettingsFileName = "settings.toml"
	// HooksFileName is the name of the hooks file inside the home dir.
	HooksFileName = "hooks.toml"
	// ToolchainFileName is the user-level active-versions state file.
	ToolchainFileName = "toolchain.toml"
)

// Settings holds the user-tunable defaults read from settings.toml. All
// fields have working defaults; the file is optional.
type Settings struct {
	// NodeIndexURL is the default metadata index for Node versions.
	NodeIndexURL string `mapstructure:"node_index_url"`
	// YarnIndexURL is the default metadata index for Yarn versions.
	YarnIndexURL string `mapstructure:"yarn_index_url"`
	// Telemetry enables session event collection.
	Telemetry bool `mapstructure:"telemetry"`
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() *Settings {
	return &Settings{
		NodeIndexURL: "https://nodejs.org/dist/index.json",
		YarnIndexURL: "https://api.github.com/repos/yarnpkg/yarn/releases",
		Telemetry:    true,
	}
}

// Home returns the anchor home directory. Resolution order: test override,
// the ANCHOR_HOME environment variable, then a platform default
// (%LOCALAPPDATA%\Anchor on Windows, ~/.anchor elsewhere).
func Home() (string, error) {
	if homeOverride != "" {
		return homeOverride, nil
	}

	if env := os.Getenv("ANCHOR_HOME"); env != "" {
		return env, nil
	}

	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "Anchor"), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "."+AppName), nil
}

// HooksFile returns the path of the hooks configuration file.
func HooksFile() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, HooksFileName), nil
}

// ToolchainFile returns the path of the user-level toolchain state file.
func ToolchainFile() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ToolchainFileName), nil
}

// CacheDir returns the archive cache directory for the given tool.
func CacheDir(tool string) (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "cache", tool), nil
}

// EnsureHome creates the home directory tree if it does not exist.
func EnsureHome() error {
	for _, tool := range []string{"node", "yarn"} {
		dir, err := CacheDir(tool)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
	}
	return nil
}

// LoadSettings reads settings.toml from the home directory, falling back to
// defaults when the file does not exist.
func LoadSettings() (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("node_index_url", defaults.NodeIndexURL)
	v.SetDefault("yarn_index_url", defaults.YarnIndexURL)
	v.SetDefault("telemetry", defaults.Telemetry)

	home, err := Home()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(home, SettingsFileName)
	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading settings file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	return &s, nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
