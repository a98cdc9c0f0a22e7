// SPDX-License-Identifier: MPL-2.0

package config

// homeOverride allows tests to override the anchor home directory. This is
// necessary because os.UserHomeDir() doesn't reliably respect the HOME
// environment variable on all platforms (e.g., macOS in CI).
var homeOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	homeOverride = ""
}

// SetHomeOverride sets a custom anchor home directory path, bypassing
// ANCHOR_HOME and the platform default. Primarily intended for testing.
func SetHomeOverride(dir string) {
	homeOverride = dir
}
