// SPDX-License-Identifier: MPL-2.0

// Package issue holds the catalog of user-facing guidance for anchor's known
// failure modes, plus the ActionableError type the CLI layer renders.
package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies one catalog entry.
type Id int

const (
	NotInProjectId Id = iota + 1
	HooksParseErrorId
	VersionNotFoundId
	DownloadFailedId
	HookCommandFailedId
)

// Issue is one catalog entry: a markdown help text shown when the matching
// failure reaches the user.
type Issue struct {
	id       Id
	mdMsg    string
	docLinks []string
}

// Id returns the catalog ID.
func (i *Issue) Id() Id { return i.id }

// DocLinks returns the documentation links attached to the entry.
func (i *Issue) DocLinks() []string { return slices.Clone(i.docLinks) }

// Render renders the issue's markdown with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	md := i.mdMsg
	if len(i.docLinks) > 0 {
		md += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			md += "- " + link + "\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	notInProjectIssue = &Issue{
		id: NotInProjectId,
		mdMsg: `
# Not in a node package!

Pinning a tool version writes into the project's package.json, so it only
works inside a Node project.

## Things you can try:
- Change into a directory containing a package.json
- Create one first:
~~~
$ npm init -y
~~~
- To set your user-level default instead of a project pin:
~~~
$ anchor install node@<version>
~~~`,
	}

	hooksParseErrorIssue = &Issue{
		id: HooksParseErrorId,
		mdMsg: `
# Failed to parse hooks.toml!

Your hooks configuration contains syntax errors or an invalid hook table.

## Common issues:
- A hook table setting more than one of prefix, template, bin
- Invalid TOML syntax

## Example of a valid hook:
~~~toml
[node.distro]
template = "https://mirror.example.com/node/{os}/{arch}/{version}/node.tar.gz"

[yarn.metadata]
prefix = "https://mirror.example.com/yarn/"
~~~`,
	}

	versionNotFoundIssue = &Issue{
		id: VersionNotFoundId,
		mdMsg: `
# Version not found!

No release matching the requested version exists in the version index.

## Things you can try:
- Check the version for typos
- Use ` + "`latest`" + ` to pick the newest release:
~~~
$ anchor install node@latest
~~~
- If you use a metadata hook, verify the mirror's index is up to date`,
	}

	downloadFailedIssue = &Issue{
		id: DownloadFailedId,
		mdMsg: `
# Download failed!

The tool archive could not be downloaded.

## Things you can try:
- Check your network connection and proxy settings
- If you use a distro hook, verify the resolved URL is reachable
- Retry, transient mirror failures are common`,
	}

	hookCommandFailedIssue = &Issue{
		id: HookCommandFailedId,
		mdMsg: `
# Hook command failed!

A configured ` + "`bin`" + ` hook could not be executed.

## Things you can try:
- Verify the command exists and is on your PATH
- Run the command manually with the same arguments
- Check the quoting in your hooks.toml entry`,
	}

	issues = map[Id]*Issue{
		notInProjectIssue.Id():      notInProjectIssue,
		hooksParseErrorIssue.Id():   hooksParseErrorIssue,
		versionNotFoundIssue.Id():   versionNotFoundIssue,
		downloadFailedIssue.Id():    downloadFailedIssue,
		hookCommandFailedIssue.Id(): hookCommandFailedIssue,
	}
)

// Values returns all catalog entries in unspecified order.
func Values() []*Issue {
	return maps.Values(issues)
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
