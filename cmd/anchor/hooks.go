// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"anchor-cli/internal/hook"
	"anchor-cli/internal/session"
)

// hooksCmd prints the effective hook configuration, tool by tool.
var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Show the configured resolution and publish hooks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		sess, err := session.New()
		if err != nil {
			return err
		}

		sess.AddEventStart(session.ActivityAnchor)
		finish(sess, session.ActivityAnchor, runHooks(sess))
		return nil
	},
}

func runHooks(sess *session.Session) error {
	hooks, err := sess.Hooks()
	if err != nil {
		return err
	}

	printToolHooks("node", hooks.Node)
	printToolHooks("yarn", hooks.Yarn)

	if hooks.Publish != nil {
		fmt.Printf("events.publish: %s\n", hooks.Publish)
	} else {
		fmt.Println("events.publish: (none)")
	}
	return nil
}

func printToolHooks(tool string, th hook.ToolHooks) {
	if th.Distro != nil {
		fmt.Printf("%s.distro: %s\n", tool, th.Distro)
	} else {
		fmt.Printf("%s.distro: (default)\n", tool)
	}
	if th.Metadata != nil {
		fmt.Printf("%s.metadata: %s\n", tool, th.Metadata)
	} else {
		fmt.Printf("%s.metadata: (default)\n", tool)
	}
}
