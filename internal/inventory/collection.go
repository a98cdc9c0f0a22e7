// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

var (
	nodeArchiveRe = regexp.MustCompile(`^node-v(\d+\.\d+\.\d+)-[a-z0-9]+-[a-z0-9]+\.tar\.gz$`)
	yarnArchiveRe = regexp.MustCompile(`^yarn-v(\d+\.\d+\.\d+)\.tar\.gz$`)
)

// Collection is the set of versions of one tool present in a cache
// directory, derived from the archive filenames found there.
type Collection struct {
	dir      string
	versions map[string]struct{}
}

// Contains reports whether the exact version is present.
func (c *Collection) Contains(v string) bool {
	_, ok := c.versions[v]
	return ok
}

// Versions returns the cached versions in unspecified order.
func (c *Collection) Versions() []string {
	out := make([]string, 0, len(c.versions))
	for v := range c.versions {
		out = append(out, v)
	}
	return out
}

func (c *Collection) add(v string) {
	c.versions[v] = struct{}{}
}

// scanCollection builds a Collection by listing dir and extracting versions
// from filenames that match the tool's archive naming. A missing directory
// yields an empty collection.
func scanCollection(dir string, parse func(name string) (string, bool)) (*Collection, error) {
	c := &Collection{dir: dir, versions: make(map[string]struct{})}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning cache directory %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if v, ok := parse(e.Name()); ok {
			c.versions[v] = struct{}{}
		}
	}

	return c, nil
}

// nodeArchiveVersion extracts the runtime version from a Node archive name.
func nodeArchiveVersion(name string) (string, bool) {
	m := nodeArchiveRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// yarnArchiveVersion extracts the version from a Yarn archive name.
func yarnArchiveVersion(name string) (string, bool) {
	m := yarnArchiveRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// catalogFileName records the npm version bundled with each cached Node
// runtime, so cached exact fetches need no metadata lookup.
const catalogFileName = "catalog.toml"

type nodeCatalog struct {
	path    string
	entries map[string]string // runtime version -> npm version
}

func loadNodeCatalog(dir string) (*nodeCatalog, error) {
	c := &nodeCatalog{
		path:    filepath.Join(dir, catalogFileName),
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading node catalog: %w", err)
	}

	var raw struct {
		Npm map[string]string `toml:"npm"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing node catalog: %w", err)
	}
	if raw.Npm != nil {
		c.entries = raw.Npm
	}

	return c, nil
}

func (c *nodeCatalog) npm(runtime string) (string, bool) {
	npm, ok := c.entries[runtime]
	return npm, ok && npm != ""
}

func (c *nodeCatalog) record(runtime, npm string) error {
	c.entries[runtime] = npm

	raw := struct {
		Npm map[string]string `toml:"npm"`
	}{Npm: c.entries}

	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding node catalog: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing node catalog: %w", err)
	}

	return nil
}
