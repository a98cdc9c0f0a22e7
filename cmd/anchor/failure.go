// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"anchor-cli/internal/hook"
	"anchor-cli/internal/inventory"
	"anchor-cli/internal/issue"
	"anchor-cli/internal/session"
	"anchor-cli/internal/version"
)

// exitCodeFor classifies an error into the session exit-code taxonomy.
func exitCodeFor(err error) session.ExitCode {
	switch {
	case errors.Is(err, session.ErrNotInProject),
		errors.Is(err, hook.ErrInvalidCommand),
		errors.Is(err, hook.ErrAmbiguousHook):
		return session.ExitConfigurationError
	case errors.Is(err, version.ErrNoMatch),
		errors.Is(err, version.ErrInvalidVersion):
		return session.ExitNoVersionMatch
	case errors.Is(err, inventory.ErrDownloadFailed):
		return session.ExitNetworkError
	case errors.Is(err, ErrUnknownTool):
		return session.ExitInvalidArguments
	default:
		return session.ExitUnknownError
	}
}

// issueFor maps an error to its catalog entry, or 0 when none applies.
func issueFor(err error) issue.Id {
	switch {
	case errors.Is(err, session.ErrNotInProject):
		return issue.NotInProjectId
	case errors.Is(err, hook.ErrInvalidCommand):
		return issue.HookCommandFailedId
	case errors.Is(err, hook.ErrAmbiguousHook):
		return issue.HooksParseErrorId
	case errors.Is(err, version.ErrNoMatch):
		return issue.VersionNotFoundId
	case errors.Is(err, inventory.ErrDownloadFailed):
		return issue.DownloadFailedId
	default:
		return 0
	}
}

// renderFailure prints an error to stderr, with the catalog help text for
// recognized failures. ActionableErrors use their own formatting.
func renderFailure(err error) {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+ae.Format(verbose))
	} else {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
	}

	id := issueFor(err)
	if id == 0 {
		return
	}

	if entry := issue.Get(id); entry != nil {
		rendered, renderErr := entry.Render("dark")
		if renderErr == nil {
			fmt.Fprint(os.Stderr, rendered)
		}
	}
}

// finish records the end-of-activity event, renders any failure, and
// terminates through the session exit protocol.
func finish(sess *session.Session, kind session.ActivityKind, err error) {
	if err != nil {
		sess.AddEventError(kind, err)
		renderFailure(err)
		code := exitCodeFor(err)
		sess.AddEventEnd(kind, code)
		sess.Exit(code)
		return
	}

	sess.AddEventEnd(kind, session.ExitSuccess)
	sess.Exit(session.ExitSuccess)
}
