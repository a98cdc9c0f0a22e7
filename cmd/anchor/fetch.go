// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"anchor-cli/internal/session"
)

// fetchCmd downloads a tool version into the local cache without changing
// any active version.
var fetchCmd = &cobra.Command{
	Use:   "fetch <tool>[@<version>]",
	Short: "Fetch a tool version into the local cache",
	Example: `  # Fetch a specific Node version
  anchor fetch node@18.17.1

  # Fetch the latest Yarn
  anchor fetch yarn`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		sess, err := session.New()
		if err != nil {
			return err
		}

		sess.AddEventStart(session.ActivityFetch)
		finish(sess, session.ActivityFetch, runFetch(sess, args[0]))
		return nil
	},
}

func runFetch(sess *session.Session, arg string) error {
	tool, spec, err := parseToolSpec(arg)
	if err != nil {
		return err
	}

	switch tool {
	case toolNode:
		fetched, err := sess.FetchNode(spec)
		if err != nil {
			return err
		}
		reportFetched("node", fetched.Version.String(), fetched.AlreadyFetched)
	case toolYarn:
		fetched, err := sess.FetchYarn(spec)
		if err != nil {
			return err
		}
		reportFetched("yarn", fetched.Version, fetched.AlreadyFetched)
	}

	return nil
}

func reportFetched(tool, version string, already bool) {
	if already {
		fmt.Printf("%s@%s is already in the cache\n", tool, version)
		return
	}
	fmt.Println(SuccessStyle.Render("Fetched ") + tool + "@" + version)
}
