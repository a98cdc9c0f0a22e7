// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"anchor-cli/internal/session"
)

// installCmd fetches a tool version and makes it the user-level default.
var installCmd = &cobra.Command{
	Use:   "install <tool>[@<version>]",
	Short: "Install a tool version as your user-level default",
	Example: `  # Install a specific Node version
  anchor install node@18.17.1

  # Install the latest Yarn
  anchor install yarn`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		sess, err := session.New()
		if err != nil {
			return err
		}

		sess.AddEventStart(session.ActivityInstall)
		finish(sess, session.ActivityInstall, runInstall(sess, args[0]))
		return nil
	},
}

func runInstall(sess *session.Session, arg string) error {
	tool, spec, err := parseToolSpec(arg)
	if err != nil {
		return err
	}

	switch tool {
	case toolNode:
		if err := sess.InstallNode(spec); err != nil {
			return err
		}
	case toolYarn:
		if err := sess.InstallYarn(spec); err != nil {
			return err
		}
	}

	fmt.Println(SuccessStyle.Render("Installed ") + arg)
	return nil
}
