// SPDX-License-Identifier: MPL-2.0

// Package hook implements the pluggable URL-resolution strategies used during
// tool acquisition. A hook turns a tool version (or a metadata lookup) into a
// concrete URL using one of three strategies: a fixed prefix, a template with
// platform tokens, or delegation to an externally configured program.
package hook

import (
	"strings"

	"anchor-cli/internal/platform"
)

// Tokens recognized in template hooks. {version} is only substituted for
// distro hooks; metadata lookups are not version-scoped.
const (
	archToken    = "{arch}"
	osToken      = "{os}"
	versionToken = "{version}"
)

type strategy int

const (
	strategyPrefix strategy = iota + 1
	strategyTemplate
	strategyBin
)

func (s strategy) String() string {
	switch s {
	case strategyPrefix:
		return "prefix"
	case strategyTemplate:
		return "template"
	case strategyBin:
		return "bin"
	default:
		return "unknown"
	}
}

type (
	// DistroHook resolves the download URL for a specific tool version.
	// The zero value is invalid; construct through DistroPrefix,
	// DistroTemplate, or DistroBin. Immutable once constructed.
	DistroHook struct {
		strategy strategy
		value    string
	}

	// MetadataHook resolves the URL of the index document describing the
	// versions available for a tool. Same shape as DistroHook, configured
	// independently.
	MetadataHook struct {
		strategy strategy
		value    string
	}
)

// DistroPrefix returns a hook that prepends a fixed prefix to the default
// artifact filename.
func DistroPrefix(prefix string) DistroHook {
	return DistroHook{strategy: strategyPrefix, value: prefix}
}

// DistroTemplate returns a hook that substitutes the {os}, {arch}, and
// {version} tokens in the given template.
func DistroTemplate(template string) DistroHook {
	return DistroHook{strategy: strategyTemplate, value: template}
}

// DistroBin returns a hook that obtains the URL by running an external
// command, passing the version string as the final argument.
func DistroBin(command string) DistroHook {
	return DistroHook{strategy: strategyBin, value: command}
}

// MetadataPrefix returns a hook that prepends a fixed prefix to the default
// index filename.
func MetadataPrefix(prefix string) MetadataHook {
	return MetadataHook{strategy: strategyPrefix, value: prefix}
}

// MetadataTemplate returns a hook that substitutes the {os} and {arch}
// tokens in the given template. A literal {version} token is left verbatim.
func MetadataTemplate(template string) MetadataHook {
	return MetadataHook{strategy: strategyTemplate, value: template}
}

// MetadataBin returns a hook that obtains the URL by running an external
// command with no extra arguments.
func MetadataBin(command string) MetadataHook {
	return MetadataHook{strategy: strategyBin, value: command}
}

// String returns the hook in "strategy value" form for display.
func (h DistroHook) String() string { return h.strategy.String() + " " + h.value }

// String returns the hook in "strategy value" form for display.
func (h MetadataHook) String() string { return h.strategy.String() + " " + h.value }

// Resolve produces the download URL for the given canonical version string
// and default artifact filename.
func (h DistroHook) Resolve(version, filename string) (string, error) {
	return resolve(h.strategy, h.value, filename, &version)
}

// Resolve produces the metadata URL for the given default index filename.
func (h MetadataHook) Resolve(filename string) (string, error) {
	return resolve(h.strategy, h.value, filename, nil)
}

// resolve is the engine shared by both hook kinds, parameterized by whether a
// version applies: distro resolution substitutes {version} and appends the
// version as the trailing Bin argument, metadata resolution does neither.
func resolve(s strategy, value, filename string, version *string) (string, error) {
	switch s {
	case strategyPrefix:
		return value + filename, nil
	case strategyTemplate:
		url := strings.ReplaceAll(value, archToken, platform.Arch)
		url = strings.ReplaceAll(url, osToken, platform.OS)
		if version != nil {
			url = strings.ReplaceAll(url, versionToken, *version)
		}
		return url, nil
	case strategyBin:
		if version != nil {
			return Invoke(value, *version)
		}
		return Invoke(value)
	default:
		// Unreachable for hooks built through the constructors. The
		// strategies form a closed set; a new one must be handled here.
		panic("hook: unknown resolution strategy")
	}
}
