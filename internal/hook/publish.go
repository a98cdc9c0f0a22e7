// SPDX-License-Identifier: MPL-2.0

package hook

type publishKind int

const (
	publishURL publishKind = iota + 1
	publishBin
)

// Publish describes where session telemetry is sent on exit: either an HTTP
// endpoint receiving the event batch as JSON, or an external command that
// receives it as its final argument. Construct through PublishURL or
// PublishBin.
type Publish struct {
	kind  publishKind
	value string
}

// PublishURL returns a publish hook targeting an HTTP endpoint.
func PublishURL(url string) Publish {
	return Publish{kind: publishURL, value: url}
}

// PublishBin returns a publish hook delegating to an external command.
func PublishBin(command string) Publish {
	return Publish{kind: publishBin, value: command}
}

// String returns the hook in "kind value" form for display.
func (p Publish) String() string {
	if p.kind == publishBin {
		return "bin " + p.value
	}
	return "url " + p.value
}

// URL returns the endpoint and true when the hook targets an HTTP endpoint.
func (p Publish) URL() (string, bool) {
	return p.value, p.kind == publishURL
}

// Bin returns the command and true when the hook delegates to a program.
func (p Publish) Bin() (string, bool) {
	return p.value, p.kind == publishBin
}
