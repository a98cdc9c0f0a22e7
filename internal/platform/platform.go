// SPDX-License-Identifier: MPL-2.0

// Package platform defines the resolved toolchain snapshot types and the
// precedence rules that merge project-pinned and user-level tool versions.
package platform

import "runtime"

type (
	// NodeVersion is a fully resolved Node version together with the npm
	// version bundled with it. The runtime version is the identity of the
	// pair; the npm version travels alongside it.
	NodeVersion struct {
		Runtime string // e.g. "18.17.1"
		Npm     string // e.g. "9.6.7"
	}

	// Spec is one fully resolved toolchain snapshot: the active Node version
	// and, optionally, an active Yarn version. A Spec without a Node version
	// is meaningless and must never be constructed; an empty Yarn field is
	// valid and means "no Yarn override".
	Spec struct {
		Node NodeVersion
		Yarn string
	}
)

// String returns the canonical version string of the runtime component.
func (v NodeVersion) String() string { return v.Runtime }

// Current computes the effective platform from a project pin and the
// user-level active versions.
//
// A project pin fully overrides user state; there is no field-by-field
// merging.
// Without a pin, the user's active Node version gates everything: when it is
// absent the result is nil even if a user-level Yarn version is set.
func Current(pinned *Spec, node *NodeVersion, yarn string) *Spec {
	if pinned != nil {
		return pinned
	}

	if node != nil {
		return &Spec{Node: *node, Yarn: yarn}
	}

	return nil
}

// OS and Arch are the identifiers substituted for the {os} and {arch} hook
// template tokens. They follow the naming used by Node distribution
// artifacts rather than Go's runtime naming.
var (
	OS   = nodeOS(runtime.GOOS)
	Arch = nodeArch(runtime.GOARCH)
)

// nodeOS maps a GOOS value to the Node distribution OS identifier.
func nodeOS(goos string) string {
	if goos == "windows" {
		return "win"
	}
	return goos
}

// nodeArch maps a GOARCH value to the Node distribution arch identifier.
func nodeArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	default:
		return goarch
	}
}
