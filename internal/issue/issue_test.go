// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestCatalog(t *testing.T) {
	ids := []Id{
		NotInProjectId,
		HooksParseErrorId,
		VersionNotFoundId,
		DownloadFailedId,
		HookCommandFailedId,
	}

	if got := len(Values()); got != len(ids) {
		t.Errorf("catalog has %d entries, want %d", got, len(ids))
	}

	for _, id := range ids {
		entry := Get(id)
		if entry == nil {
			t.Errorf("Get(%d) = nil", id)
			continue
		}
		if entry.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, entry.Id())
		}
	}

	if Get(0) != nil {
		t.Error("Get(0) must return nil for an unknown id")
	}
}

func TestRenderIncludesDocLinks(t *testing.T) {
	orig := render
	render = func(in string, stylePath string) (string, error) { return in, nil }
	defer func() { render = orig }()

	entry := &Issue{
		id:       NotInProjectId,
		mdMsg:    "# Broken!",
		docLinks: []string{"https://example.com/docs"},
	}

	out, err := entry.Render("dark")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "https://example.com/docs") {
		t.Errorf("rendered output %q is missing the doc link", out)
	}
}
