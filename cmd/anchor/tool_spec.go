// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"anchor-cli/internal/version"
)

// Tool names accepted by the fetch/install/pin commands.
const (
	toolNode = "node"
	toolYarn = "yarn"
)

// ErrUnknownTool indicates a tool argument other than node or yarn.
var ErrUnknownTool = errors.New("unknown tool")

// parseToolSpec splits a "tool@version" argument into the tool name and a
// version spec. A bare tool name means latest.
func parseToolSpec(arg string) (string, version.Spec, error) {
	tool, rawVersion, _ := strings.Cut(arg, "@")

	if tool != toolNode && tool != toolYarn {
		return "", version.Spec{}, fmt.Errorf("%w: %q (expected node or yarn)", ErrUnknownTool, tool)
	}

	spec, err := version.Parse(rawVersion)
	if err != nil {
		return "", version.Spec{}, err
	}

	return tool, spec, nil
}
