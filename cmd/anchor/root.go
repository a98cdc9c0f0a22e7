// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for anchor.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"

	// verbose enables verbose error output
	verbose bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "anchor",
		Short: "A toolchain manager for Node and Yarn",
		Long: TitleStyle.Render("anchor") + SubtitleStyle.Render(" - a toolchain manager for Node and Yarn") + `

anchor fetches, caches, activates, and pins Node and Yarn versions
per-project or per-user. Project pins live in package.json and fully
override your user-level defaults whenever you work inside the project.

Download and metadata URLs can be redirected (e.g. to an internal
mirror) through hooks configured in $ANCHOR_HOME/hooks.toml.

` + SubtitleStyle.Render("Examples:") + `
  anchor install node@18.17.1   Make Node 18.17.1 your user default
  anchor install yarn           Install the latest Yarn
  anchor pin node@20.11.0       Pin Node for the current project
  anchor fetch node@18.17.1     Fetch into the cache without activating
  anchor current                Show the effective toolchain`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose error output")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(hooksCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). Command handlers terminate
// through the Session exit protocol, so an error return here is the
// fallback path only.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
