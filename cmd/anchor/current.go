// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"anchor-cli/internal/session"
)

// currentCmd prints the effective toolchain: the project pin when inside a
// pinned project, else the user-level default.
var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the effective Node and Yarn versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		sess, err := session.New()
		if err != nil {
			return err
		}

		sess.AddEventStart(session.ActivityCurrent)
		finish(sess, session.ActivityCurrent, runCurrent(sess))
		return nil
	},
}

func runCurrent(sess *session.Session) error {
	spec := sess.CurrentPlatform()
	if spec == nil {
		fmt.Println("no active toolchain (run 'anchor install node' to set one)")
		return nil
	}

	source := "default"
	if sess.ProjectPlatform() != nil {
		source = "project"
	}

	fmt.Printf("node: %s (npm %s) [%s]\n", spec.Node.Runtime, spec.Node.Npm, source)
	if spec.Yarn != "" {
		fmt.Printf("yarn: %s [%s]\n", spec.Yarn, source)
	}
	return nil
}
