// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"anchor-cli/internal/hook"
	"anchor-cli/internal/inventory"
	"anchor-cli/internal/issue"
	"anchor-cli/internal/session"
	"anchor-cli/internal/version"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want session.ExitCode
	}{
		{"not in project", session.ErrNotInProject, session.ExitConfigurationError},
		{"invalid hook command", hook.ErrInvalidCommand, session.ExitConfigurationError},
		{"ambiguous hook", hook.ErrAmbiguousHook, session.ExitConfigurationError},
		{"no version match", version.ErrNoMatch, session.ExitNoVersionMatch},
		{"invalid version", version.ErrInvalidVersion, session.ExitNoVersionMatch},
		{"download failed", inventory.ErrDownloadFailed, session.ExitNetworkError},
		{"unknown tool", ErrUnknownTool, session.ExitInvalidArguments},
		{"anything else", errors.New("boom"), session.ExitUnknownError},
		{"wrapped sentinel", fmt.Errorf("fetching: %w", version.ErrNoMatch), session.ExitNoVersionMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIssueFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"not in project", session.ErrNotInProject, issue.NotInProjectId},
		{"invalid hook command", hook.ErrInvalidCommand, issue.HookCommandFailedId},
		{"ambiguous hook", hook.ErrAmbiguousHook, issue.HooksParseErrorId},
		{"no version match", version.ErrNoMatch, issue.VersionNotFoundId},
		{"download failed", fmt.Errorf("fetch node: %w", inventory.ErrDownloadFailed), issue.DownloadFailedId},
		{"unmapped error", errors.New("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := issueFor(tt.err); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
