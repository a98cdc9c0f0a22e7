// SPDX-License-Identifier: MPL-2.0

// Package inventory tracks which tool versions are present in the local
// archive cache and fetches missing ones, consulting the hook resolver to
// discover metadata and download URLs.
package inventory

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"anchor-cli/internal/config"
	"anchor-cli/internal/hook"
	"anchor-cli/internal/platform"
	"anchor-cli/internal/version"
)

// ErrDownloadFailed indicates a tool archive could not be retrieved or
// stored.
var ErrDownloadFailed = errors.New("archive download failed")

const (
	// nodeIndexFilename is the default filename appended to prefix-style
	// node metadata hooks.
	nodeIndexFilename = "index.json"

	// yarnIndexFilename is the default filename appended to prefix-style
	// yarn metadata hooks.
	yarnIndexFilename = "releases"
)

type (
	// Inventory is the local collection of fetched tool archives plus the
	// machinery to fetch missing versions.
	Inventory struct {
		Node *Collection
		Yarn *Collection

		client   *http.Client
		matcher  version.Matcher
		settings *config.Settings
		catalog  *nodeCatalog
	}

	// Option configures an Inventory during construction.
	Option func(*Inventory)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxies.
func WithHTTPClient(c *http.Client) Option {
	return func(i *Inventory) {
		i.client = c
	}
}

// WithMatcher overrides the version matcher used to resolve specs against
// the available version list.
func WithMatcher(m version.Matcher) Option {
	return func(i *Inventory) {
		i.matcher = m
	}
}

// WithSettings overrides the settings used for default index URLs.
func WithSettings(s *config.Settings) Option {
	return func(i *Inventory) {
		i.settings = s
	}
}

// Current loads the inventory from the anchor home cache directories,
// creating the home layout on first use.
func Current(opts ...Option) (*Inventory, error) {
	if err := config.EnsureHome(); err != nil {
		return nil, err
	}

	nodeDir, err := config.CacheDir("node")
	if err != nil {
		return nil, err
	}
	yarnDir, err := config.CacheDir("yarn")
	if err != nil {
		return nil, err
	}

	inv := &Inventory{}
	for _, opt := range opts {
		opt(inv)
	}

	if inv.client == nil {
		inv.client = http.DefaultClient
	}
	if inv.matcher == nil {
		inv.matcher = version.NewMatcher()
	}
	if inv.settings == nil {
		s, err := config.LoadSettings()
		if err != nil {
			return nil, err
		}
		inv.settings = s
	}

	if inv.Node, err = scanCollection(nodeDir, nodeArchiveVersion); err != nil {
		return nil, err
	}
	if inv.Yarn, err = scanCollection(yarnDir, yarnArchiveVersion); err != nil {
		return nil, err
	}

	if inv.catalog, err = loadNodeCatalog(nodeDir); err != nil {
		return nil, err
	}

	return inv, nil
}

// ContainsNode reports whether the exact Node runtime version is cached.
func (i *Inventory) ContainsNode(v string) bool { return i.Node.Contains(v) }

// ContainsYarn reports whether the exact Yarn version is cached.
func (i *Inventory) ContainsYarn(v string) bool { return i.Yarn.Contains(v) }

// FetchNode resolves spec against the Node metadata index and ensures the
// resolved version's archive is cached, downloading it when missing. The
// hooks argument steers both the index lookup and the download URL.
func (i *Inventory) FetchNode(spec version.Spec, hooks *hook.Set) (version.Fetched[platform.NodeVersion], error) {
	var none version.Fetched[platform.NodeVersion]

	// Exact versions already in the cache short-circuit the index lookup
	// when the bundled npm version is known locally.
	if v, ok := spec.IsExact(); ok && i.Node.Contains(v) {
		if npm, ok := i.catalog.npm(v); ok {
			return version.Fetched[platform.NodeVersion]{
				Version:        platform.NodeVersion{Runtime: v, Npm: npm},
				AlreadyFetched: true,
			}, nil
		}
	}

	entries, err := i.fetchNodeIndex(hooks)
	if err != nil {
		return none, err
	}

	available := make([]string, 0, len(entries))
	npmByVersion := make(map[string]string, len(entries))
	for _, e := range entries {
		available = append(available, e.runtime)
		npmByVersion[e.runtime] = e.npm
	}

	resolved, err := i.matcher.Match(spec, available)
	if err != nil {
		return none, err
	}

	nv := platform.NodeVersion{Runtime: resolved, Npm: npmByVersion[resolved]}

	if i.Node.Contains(resolved) {
		return version.Fetched[platform.NodeVersion]{Version: nv, AlreadyFetched: true}, nil
	}

	filename := nodeArchiveName(resolved)
	url, err := nodeDistroURL(hooks, resolved, filename)
	if err != nil {
		return none, err
	}

	if err := i.download(url, i.Node.dir, filename); err != nil {
		return none, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	i.Node.add(resolved)
	if err := i.catalog.record(resolved, nv.Npm); err != nil {
		return none, err
	}

	return version.Fetched[platform.NodeVersion]{Version: nv}, nil
}

// FetchYarn resolves spec against the Yarn release index and ensures the
// resolved version's archive is cached, downloading it when missing.
func (i *Inventory) FetchYarn(spec version.Spec, hooks *hook.Set) (version.Fetched[string], error) {
	var none version.Fetched[string]

	if v, ok := spec.IsExact(); ok && i.Yarn.Contains(v) {
		return version.Fetched[string]{Version: v, AlreadyFetched: true}, nil
	}

	available, err := i.fetchYarnIndex(hooks)
	if err != nil {
		return none, err
	}

	resolved, err := i.matcher.Match(spec, available)
	if err != nil {
		return none, err
	}

	if i.Yarn.Contains(resolved) {
		return version.Fetched[string]{Version: resolved, AlreadyFetched: true}, nil
	}

	filename := yarnArchiveName(resolved)
	url, err := yarnDistroURL(hooks, resolved, filename)
	if err != nil {
		return none, err
	}

	if err := i.download(url, i.Yarn.dir, filename); err != nil {
		return none, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	i.Yarn.add(resolved)
	return version.Fetched[string]{Version: resolved}, nil
}

// nodeArchiveName is the artifact filename for a Node runtime version on the
// current platform.
func nodeArchiveName(v string) string {
	return fmt.Sprintf("node-v%s-%s-%s.tar.gz", v, platform.OS, platform.Arch)
}

// yarnArchiveName is the artifact filename for a Yarn version.
func yarnArchiveName(v string) string {
	return fmt.Sprintf("yarn-v%s.tar.gz", v)
}

// nodeDistroURL resolves the download URL for a Node archive through the
// distro hook when configured, else the default distribution mirror.
func nodeDistroURL(hooks *hook.Set, v, filename string) (string, error) {
	if hooks != nil && hooks.Node.Distro != nil {
		return hooks.Node.Distro.Resolve(v, filename)
	}
	return fmt.Sprintf("https://nodejs.org/dist/v%s/%s", v, filename), nil
}

// yarnDistroURL resolves the download URL for a Yarn archive through the
// distro hook when configured, else the GitHub release asset URL.
func yarnDistroURL(hooks *hook.Set, v, filename string) (string, error) {
	if hooks != nil && hooks.Yarn.Distro != nil {
		return hooks.Yarn.Distro.Resolve(v, filename)
	}
	return fmt.Sprintf("https://github.com/yarnpkg/yarn/releases/download/v%s/%s", v, filename), nil
}

// download fetches url into dir/filename via a temp file in the same
// directory, so the final rename is an atomic same-filesystem move.
func (i *Inventory) download(url, dir, filename string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	body, err := i.get(url)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	tmp, err := os.CreateTemp(dir, "download-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if err := copyAndClose(tmp, body); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, filename)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("storing archive: %w", err)
	}

	return nil
}
