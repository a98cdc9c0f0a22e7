// SPDX-License-Identifier: MPL-2.0

// Package toolchain tracks the user-level (non-project-scoped) active tool
// versions, persisted as a TOML state file in the anchor home directory.
package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"anchor-cli/internal/config"
	"anchor-cli/internal/platform"
)

type (
	// Toolchain is the handle to the user's active versions. Reads are
	// served from the in-memory state; every mutation writes through to the
	// state file.
	Toolchain struct {
		path  string
		state state
	}

	state struct {
		Node *nodeEntry `toml:"node,omitempty"`
		Yarn string     `toml:"yarn,omitempty"`
	}

	nodeEntry struct {
		Runtime string `toml:"runtime"`
		Npm     string `toml:"npm"`
	}
)

// Current loads the user toolchain state from the anchor home directory. A
// missing state file yields an empty toolchain.
func Current() (*Toolchain, error) {
	path, err := config.ToolchainFile()
	if err != nil {
		return nil, err
	}
	return load(path)
}

func load(path string) (*Toolchain, error) {
	tc := &Toolchain{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return tc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading toolchain state %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &tc.state); err != nil {
		return nil, fmt.Errorf("parsing toolchain state %s: %w", path, err)
	}

	return tc, nil
}

// ActiveNode returns the user's active Node version, or nil if none is set.
func (t *Toolchain) ActiveNode() *platform.NodeVersion {
	if t.state.Node == nil {
		return nil
	}
	return &platform.NodeVersion{Runtime: t.state.Node.Runtime, Npm: t.state.Node.Npm}
}

// ActiveYarn returns the user's active Yarn version, or "" if none is set.
func (t *Toolchain) ActiveYarn() string {
	return t.state.Yarn
}

// SetActiveNode makes v the user's active Node version and persists the
// change.
func (t *Toolchain) SetActiveNode(v platform.NodeVersion) error {
	t.state.Node = &nodeEntry{Runtime: v.Runtime, Npm: v.Npm}
	return t.save()
}

// SetActiveYarn makes v the user's active Yarn version and persists the
// change.
func (t *Toolchain) SetActiveYarn(v string) error {
	t.state.Yarn = v
	return t.save()
}

// save writes the state file atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (t *Toolchain) save() error {
	data, err := toml.Marshal(t.state)
	if err != nil {
		return fmt.Errorf("encoding toolchain state: %w", err)
	}

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "toolchain-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing toolchain state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("closing temp state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), t.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing toolchain state: %w", err)
	}

	return nil
}
