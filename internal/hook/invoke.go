// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"mvdan.cc/sh/v3/shell"
)

// ErrInvalidCommand is the sentinel error wrapped by InvalidCommandError.
var ErrInvalidCommand = errors.New("invalid hook command")

// InvalidCommandError is returned when a hook command string yields no
// program name: it is empty or all whitespace after trimming.
type InvalidCommandError struct {
	Command string
}

// Error implements the error interface.
func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid hook command: %q", e.Command)
}

// Unwrap returns ErrInvalidCommand so callers can use errors.Is.
func (e *InvalidCommandError) Unwrap() error { return ErrInvalidCommand }

// Invoke runs the program described by command and returns its trimmed
// stdout. The command string is split into a program name and arguments with
// POSIX shell word-splitting (quoting and backslash escaping; parameter
// references expand to the empty string, no environment is consulted). Any
// extra arguments are appended after the lexed ones.
//
// The child runs with stdin closed; stderr is captured but not inspected on
// the success path. The call blocks until the child exits with no timeout,
// so a hanging hook command blocks the whole invocation. A nonzero exit
// status is reported as an error.
func Invoke(command string, extra ...string) (string, error) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return "", &InvalidCommandError{Command: command}
	}

	fields, err := shell.Fields(trimmed, func(string) string { return "" })
	if err != nil {
		return "", fmt.Errorf("parsing hook command: %w", err)
	}
	if len(fields) == 0 {
		return "", &InvalidCommandError{Command: command}
	}

	args := append(fields[1:], extra...)

	cmd := exec.Command(fields[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running hook command %q: %w", fields[0], err)
	}

	if !utf8.Valid(stdout.Bytes()) {
		return "", fmt.Errorf("hook command %q produced non-UTF-8 output", fields[0])
	}

	return strings.TrimSpace(stdout.String()), nil
}
