// SPDX-License-Identifier: MPL-2.0

// Package version defines version specs, the constraint-matching collaborator
// contract, and semver helpers shared by the inventory and session layers.
package version

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidVersion indicates a version string that is not valid semver.
var ErrInvalidVersion = errors.New("invalid semantic version")

// ErrNoMatch indicates that no available version satisfies a spec.
var ErrNoMatch = errors.New("no matching version found")

type specKind int

const (
	kindLatest specKind = iota
	kindExact
)

type (
	// Spec is a requested tool version: either an exact version or "latest".
	// Range requirements (e.g. "^18", ">=1.22") are deliberately not modeled
	// here; range resolution belongs to a Matcher implementation supplied by
	// the caller.
	Spec struct {
		kind specKind
		ver  string
	}

	// Matcher selects a concrete version from the set of available versions
	// for a given spec. Implementations own the constraint-matching
	// semantics; the core only invokes this contract.
	Matcher interface {
		Match(spec Spec, available []string) (string, error)
	}

	// Fetched reports the outcome of a fetch operation: the resolved version
	// and whether it was already present in the local inventory.
	Fetched[V any] struct {
		Version        V
		AlreadyFetched bool
	}
)

// Latest returns a Spec matching the newest available version.
func Latest() Spec { return Spec{kind: kindLatest} }

// Exact returns a Spec matching exactly the given canonical version.
func Exact(v string) Spec { return Spec{kind: kindExact, ver: v} }

// Parse interprets a user-supplied version string. An empty string or
// "latest" yields the latest spec; anything else must be a valid semantic
// version and yields an exact spec.
func Parse(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "latest" {
		return Latest(), nil
	}

	canon, err := Canonical(s)
	if err != nil {
		return Spec{}, err
	}
	return Exact(canon), nil
}

// IsLatest reports whether the spec requests the newest available version.
func (s Spec) IsLatest() bool { return s.kind == kindLatest }

// IsExact returns the exact version requested and whether the spec is exact.
func (s Spec) IsExact() (string, bool) {
	return s.ver, s.kind == kindExact
}

// String returns the user-facing form of the spec.
func (s Spec) String() string {
	if s.kind == kindLatest {
		return "latest"
	}
	return s.ver
}

// Canonical validates v and returns it in canonical form without the "v"
// prefix (e.g. "18.17.1"). Returns ErrInvalidVersion for malformed input.
func Canonical(v string) (string, error) {
	norm := v
	if !strings.HasPrefix(norm, "v") {
		norm = "v" + norm
	}
	if !semver.IsValid(norm) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return strings.TrimPrefix(norm, "v"), nil
}

// SortDesc sorts canonical versions in descending semver order, in place.
func SortDesc(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		return semver.Compare("v"+b, "v"+a)
	})
}

// basicMatcher resolves exact and latest specs only. It is the matcher the
// toolchain ships with; richer range matching can be plugged in through the
// Matcher contract.
type basicMatcher struct{}

// NewMatcher returns the default exact/latest matcher.
func NewMatcher() Matcher { return basicMatcher{} }

// Match implements Matcher. An exact spec must be a member of available; a
// latest spec selects the highest version by semver ordering.
func (basicMatcher) Match(spec Spec, available []string) (string, error) {
	if v, ok := spec.IsExact(); ok {
		if slices.Contains(available, v) {
			return v, nil
		}
		return "", fmt.Errorf("version %s: %w", v, ErrNoMatch)
	}

	if len(available) == 0 {
		return "", ErrNoMatch
	}

	sorted := slices.Clone(available)
	SortDesc(sorted)
	return sorted[0], nil
}
