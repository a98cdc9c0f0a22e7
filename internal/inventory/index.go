// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"anchor-cli/internal/hook"
	"anchor-cli/internal/version"
)

const (
	// maxJSONResponseBytes is the upper bound on index response size (10 MB).
	// Prevents unbounded memory consumption from malformed responses.
	maxJSONResponseBytes = 10 << 20
)

// nodeIndexEntry is one resolved entry of the Node version index.
type nodeIndexEntry struct {
	runtime string
	npm     string
}

// nodeIndexRecord is the JSON wire format of one nodejs.org dist index entry.
type nodeIndexRecord struct {
	Version string `json:"version"` // tagged form, e.g. "v18.17.1"
	Npm     string `json:"npm"`
}

// yarnReleaseRecord is the JSON wire format of one GitHub release entry.
type yarnReleaseRecord struct {
	TagName    string `json:"tag_name"` // tagged form, e.g. "v1.22.19"
	Prerelease bool   `json:"prerelease"`
	Draft      bool   `json:"draft"`
}

// fetchNodeIndex downloads and decodes the Node version index, using the
// metadata hook to discover its URL when one is configured.
func (i *Inventory) fetchNodeIndex(hooks *hook.Set) ([]nodeIndexEntry, error) {
	url := i.settings.NodeIndexURL
	if hooks != nil && hooks.Node.Metadata != nil {
		resolved, err := hooks.Node.Metadata.Resolve(nodeIndexFilename)
		if err != nil {
			return nil, err
		}
		url = resolved
	}

	body, err := i.get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching node index: %w", err)
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	var records []nodeIndexRecord
	if err := json.NewDecoder(io.LimitReader(body, maxJSONResponseBytes)).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding node index: %w", err)
	}

	entries := make([]nodeIndexEntry, 0, len(records))
	for _, r := range records {
		canon, err := version.Canonical(r.Version)
		if err != nil {
			// Entries with unparseable versions are skipped, not fatal.
			continue
		}
		entries = append(entries, nodeIndexEntry{runtime: canon, npm: r.Npm})
	}

	return entries, nil
}

// fetchYarnIndex downloads and decodes the Yarn release list, filtered to
// stable releases, using the metadata hook when one is configured.
func (i *Inventory) fetchYarnIndex(hooks *hook.Set) ([]string, error) {
	url := i.settings.YarnIndexURL
	if hooks != nil && hooks.Yarn.Metadata != nil {
		resolved, err := hooks.Yarn.Metadata.Resolve(yarnIndexFilename)
		if err != nil {
			return nil, err
		}
		url = resolved
	}

	body, err := i.get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching yarn index: %w", err)
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	var records []yarnReleaseRecord
	if err := json.NewDecoder(io.LimitReader(body, maxJSONResponseBytes)).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding yarn index: %w", err)
	}

	available := make([]string, 0, len(records))
	for _, r := range records {
		if r.Draft || r.Prerelease {
			continue
		}
		canon, err := version.Canonical(r.TagName)
		if err != nil {
			continue
		}
		available = append(available, canon)
	}

	return available, nil
}

// get issues a plain GET and returns the body on a 200 response.
func (i *Inventory) get(url string) (io.ReadCloser, error) {
	resp, err := i.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("requesting %s: unexpected status %d", url, resp.StatusCode)
	}

	return resp.Body, nil
}

// copyAndClose streams body into f, reporting close errors as write errors.
func copyAndClose(f io.WriteCloser, body io.Reader) error {
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}
