// SPDX-License-Identifier: MPL-2.0

// Package project locates the Node project containing the current directory
// and reads/writes its pinned toolchain section in package.json.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"anchor-cli/internal/platform"
)

// manifestName is the project marker probed for when walking up from the
// current directory.
const manifestName = "package.json"

// pinKey is the top-level package.json key holding the pinned toolchain.
const pinKey = "anchor"

// Project is a shared, read-mostly handle to a Node project root and its
// manifest. Pinning is an explicit write-through operation against the
// manifest file; the handle itself is never mutated in place beyond
// refreshing its cached manifest bytes.
type Project struct {
	root     string
	manifest []byte
}

// ForCurrentDirectory probes the working directory and its ancestors for a
// package.json. Returns (nil, nil) when no project is found.
func ForCurrentDirectory() (*Project, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}
	return ForDirectory(dir)
}

// ForDirectory probes dir and its ancestors for a package.json. Returns
// (nil, nil) when no project is found.
func ForDirectory(dir string) (*Project, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory %s: %w", dir, err)
	}

	for {
		manifestPath := filepath.Join(dir, manifestName)
		data, err := os.ReadFile(manifestPath)
		if err == nil {
			return &Project{root: dir, manifest: data}, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", manifestPath, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Root returns the project root directory.
func (p *Project) Root() string { return p.root }

// ManifestPath returns the path of the project's package.json.
func (p *Project) ManifestPath() string {
	return filepath.Join(p.root, manifestName)
}

// Platform returns the project's pinned platform, or nil when the manifest
// has no pin. A pin without a Node version is treated as no pin at all.
func (p *Project) Platform() *platform.Spec {
	pin := gjson.GetBytes(p.manifest, pinKey)
	if !pin.Exists() {
		return nil
	}

	node := pin.Get("node")
	if !node.Exists() || node.String() == "" {
		return nil
	}

	return &platform.Spec{
		Node: platform.NodeVersion{
			Runtime: node.String(),
			Npm:     pin.Get("npm").String(),
		},
		Yarn: pin.Get("yarn").String(),
	}
}

// PinNode persists v into the manifest's pinned toolchain section, creating
// the section if necessary. The rest of the manifest text is preserved.
func (p *Project) PinNode(v platform.NodeVersion) error {
	updated, err := sjson.SetBytes(p.manifest, pinKey+".node", v.Runtime)
	if err != nil {
		return fmt.Errorf("pinning node version: %w", err)
	}
	updated, err = sjson.SetBytes(updated, pinKey+".npm", v.Npm)
	if err != nil {
		return fmt.Errorf("pinning npm version: %w", err)
	}
	return p.writeManifest(updated)
}

// PinYarn persists v into the manifest's pinned toolchain section.
func (p *Project) PinYarn(v string) error {
	updated, err := sjson.SetBytes(p.manifest, pinKey+".yarn", v)
	if err != nil {
		return fmt.Errorf("pinning yarn version: %w", err)
	}
	return p.writeManifest(updated)
}

func (p *Project) writeManifest(data []byte) error {
	if err := os.WriteFile(p.ManifestPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", p.ManifestPath(), err)
	}
	p.manifest = data
	return nil
}
