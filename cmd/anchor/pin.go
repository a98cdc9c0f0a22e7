// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"anchor-cli/internal/session"
)

// pinCmd fetches a tool version and persists it into the current project's
// package.json, overriding the user default inside the project.
var pinCmd = &cobra.Command{
	Use:   "pin <tool>[@<version>]",
	Short: "Pin a tool version in the current project's package.json",
	Example: `  # Pin Node for this project
  anchor pin node@20.11.0

  # Pin the latest Yarn for this project
  anchor pin yarn`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		sess, err := session.New()
		if err != nil {
			return err
		}

		sess.AddEventStart(session.ActivityPin)
		finish(sess, session.ActivityPin, runPin(sess, args[0]))
		return nil
	},
}

func runPin(sess *session.Session, arg string) error {
	tool, spec, err := parseToolSpec(arg)
	if err != nil {
		return err
	}

	switch tool {
	case toolNode:
		if err := sess.PinNode(spec); err != nil {
			return err
		}
	case toolYarn:
		if err := sess.PinYarn(spec); err != nil {
			return err
		}
	}

	fmt.Println(SuccessStyle.Render("Pinned ") + arg)
	return nil
}
