// SPDX-License-Identifier: MPL-2.0

package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchor-cli/internal/config"
	"anchor-cli/internal/hook"
	"anchor-cli/internal/issue"
	"anchor-cli/internal/platform"
	"anchor-cli/internal/version"
)

// fakeInventory counts fetch calls and marks fetched versions as contained,
// like the real inventory does.
type fakeInventory struct {
	node map[string]string // runtime -> npm
	yarn map[string]bool

	fetchNodeCalls int
	fetchYarnCalls int
	fetchErr       error
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{node: map[string]string{}, yarn: map[string]bool{}}
}

func (f *fakeInventory) ContainsNode(v string) bool {
	_, ok := f.node[v]
	return ok
}

func (f *fakeInventory) ContainsYarn(v string) bool { return f.yarn[v] }

func (f *fakeInventory) FetchNode(spec version.Spec, hooks *hook.Set) (version.Fetched[platform.NodeVersion], error) {
	f.fetchNodeCalls++
	if f.fetchErr != nil {
		return version.Fetched[platform.NodeVersion]{}, f.fetchErr
	}

	v, ok := spec.IsExact()
	if !ok {
		v = "20.11.0"
	}
	npm, cached := f.node[v]
	if !cached {
		npm = "10.2.4"
		f.node[v] = npm
	}
	return version.Fetched[platform.NodeVersion]{
		Version:        platform.NodeVersion{Runtime: v, Npm: npm},
		AlreadyFetched: cached,
	}, nil
}

func (f *fakeInventory) FetchYarn(spec version.Spec, hooks *hook.Set) (version.Fetched[string], error) {
	f.fetchYarnCalls++
	if f.fetchErr != nil {
		return version.Fetched[string]{}, f.fetchErr
	}

	v, ok := spec.IsExact()
	if !ok {
		v = "1.22.19"
	}
	cached := f.yarn[v]
	f.yarn[v] = true
	return version.Fetched[string]{Version: v, AlreadyFetched: cached}, nil
}

type fakeToolchain struct {
	node   *platform.NodeVersion
	yarn   string
	setErr error
}

func (f *fakeToolchain) ActiveNode() *platform.NodeVersion { return f.node }
func (f *fakeToolchain) ActiveYarn() string                { return f.yarn }

func (f *fakeToolchain) SetActiveNode(v platform.NodeVersion) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.node = &v
	return nil
}

func (f *fakeToolchain) SetActiveYarn(v string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.yarn = v
	return nil
}

type fakeProject struct {
	spec       *platform.Spec
	pinnedNode *platform.NodeVersion
	pinnedYarn string
	pinErr     error
}

func (f *fakeProject) Platform() *platform.Spec { return f.spec }

func (f *fakeProject) PinNode(v platform.NodeVersion) error {
	if f.pinErr != nil {
		return f.pinErr
	}
	f.pinnedNode = &v
	return nil
}

func (f *fakeProject) PinYarn(v string) error {
	if f.pinErr != nil {
		return f.pinErr
	}
	f.pinnedYarn = v
	return nil
}

type fakeEventLog struct {
	activities []string
	names      []string
	published  int
	lastHook   *hook.Publish
	publishErr error
}

func (f *fakeEventLog) AddEventStart(activity string) { f.record(activity, "start") }
func (f *fakeEventLog) AddEventEnd(activity string, exitCode int) {
	f.record(activity, "end")
}
func (f *fakeEventLog) AddEventToolEnd(activity string, exitCode int) {
	f.record(activity, "tool_end")
}
func (f *fakeEventLog) AddEventError(activity string, err error) { f.record(activity, "error") }

func (f *fakeEventLog) record(activity, name string) {
	f.activities = append(f.activities, activity)
	f.names = append(f.names, name)
}

func (f *fakeEventLog) Publish(p *hook.Publish) error {
	f.published++
	f.lastHook = p
	return f.publishErr
}

func emptyHooksLoader() (*hook.Set, error) { return &hook.Set{}, nil }

// newTestSession builds a session with all collaborators faked out and no
// project unless one is supplied.
func newTestSession(t *testing.T, inv *fakeInventory, opts ...Option) *Session {
	t.Helper()

	base := []Option{
		WithHooksLoader(emptyHooksLoader),
		WithInventoryLoader(func() (Inventory, error) { return inv, nil }),
		WithToolchain(&fakeToolchain{}),
		WithProject(nil),
		WithEventLog(&fakeEventLog{}),
		WithSettings(config.DefaultSettings()),
		WithExitFunc(func(code int) {}),
	}

	s, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func TestEnsureNodeSkipsCachedVersion(t *testing.T) {
	inv := newFakeInventory()
	inv.node["18.17.1"] = "9.6.7"
	s := newTestSession(t, inv)

	require.NoError(t, s.EnsureNode("18.17.1"))
	require.NoError(t, s.EnsureNode("18.17.1"))

	assert.Zero(t, inv.fetchNodeCalls, "a cached version must not be fetched")
}

func TestEnsureNodeFetchesMissingOnce(t *testing.T) {
	inv := newFakeInventory()
	s := newTestSession(t, inv)

	require.NoError(t, s.EnsureNode("18.17.1"))
	require.NoError(t, s.EnsureNode("18.17.1"))

	assert.Equal(t, 1, inv.fetchNodeCalls, "the second ensure must see the cached version")
}

func TestEnsureYarnSkipsCachedVersion(t *testing.T) {
	inv := newFakeInventory()
	inv.yarn["1.22.19"] = true
	s := newTestSession(t, inv)

	require.NoError(t, s.EnsureYarn("1.22.19"))

	assert.Zero(t, inv.fetchYarnCalls)
}

func TestPinOutsideProject(t *testing.T) {
	inv := newFakeInventory()
	s := newTestSession(t, inv)

	err := s.PinNode(version.Exact("18.17.1"))
	assert.ErrorIs(t, err, ErrNotInProject)

	err = s.PinYarn(version.Latest())
	assert.ErrorIs(t, err, ErrNotInProject)

	// The project check precedes any fetch.
	assert.Zero(t, inv.fetchNodeCalls)
	assert.Zero(t, inv.fetchYarnCalls)
}

func TestPinNodeWritesThroughProject(t *testing.T) {
	inv := newFakeInventory()
	proj := &fakeProject{}
	s := newTestSession(t, inv, WithProject(proj))

	require.NoError(t, s.PinNode(version.Exact("18.17.1")))

	require.NotNil(t, proj.pinnedNode)
	assert.Equal(t, platform.NodeVersion{Runtime: "18.17.1", Npm: "10.2.4"}, *proj.pinnedNode)
	assert.Equal(t, 1, inv.fetchNodeCalls)
}

func TestInstallNodeActivates(t *testing.T) {
	inv := newFakeInventory()
	tc := &fakeToolchain{}
	s := newTestSession(t, inv, WithToolchain(tc))

	require.NoError(t, s.InstallNode(version.Latest()))

	require.NotNil(t, tc.node)
	assert.Equal(t, "20.11.0", tc.node.Runtime)
}

func TestInstallYarnActivates(t *testing.T) {
	inv := newFakeInventory()
	tc := &fakeToolchain{}
	s := newTestSession(t, inv, WithToolchain(tc))

	require.NoError(t, s.InstallYarn(version.Exact("1.22.19")))

	assert.Equal(t, "1.22.19", tc.yarn)
}

func TestCurrentPlatformPrecedence(t *testing.T) {
	pinned := &platform.Spec{Node: platform.NodeVersion{Runtime: "20.11.0", Npm: "10.2.4"}}
	userNode := &platform.NodeVersion{Runtime: "18.17.1", Npm: "9.6.7"}

	t.Run("project pin wins", func(t *testing.T) {
		s := newTestSession(t, newFakeInventory(),
			WithToolchain(&fakeToolchain{node: userNode, yarn: "1.22.19"}),
			WithProject(&fakeProject{spec: pinned}))

		assert.Equal(t, pinned, s.CurrentPlatform())
	})

	t.Run("user platform without a project", func(t *testing.T) {
		s := newTestSession(t, newFakeInventory(),
			WithToolchain(&fakeToolchain{node: userNode, yarn: "1.22.19"}))

		got := s.CurrentPlatform()
		require.NotNil(t, got)
		assert.Equal(t, *userNode, got.Node)
		assert.Equal(t, "1.22.19", got.Yarn)
	})

	t.Run("no node means no platform", func(t *testing.T) {
		s := newTestSession(t, newFakeInventory(),
			WithToolchain(&fakeToolchain{yarn: "1.22.19"}))

		assert.Nil(t, s.CurrentPlatform())
	})
}

func TestHooksLoadedOnceAndFailureCached(t *testing.T) {
	calls := 0
	loadErr := errors.New("bad hooks file")
	s := newTestSession(t, newFakeInventory(), WithHooksLoader(func() (*hook.Set, error) {
		calls++
		return nil, loadErr
	}))

	_, err := s.Hooks()
	assert.ErrorIs(t, err, loadErr)

	// The failed load is cached for the session lifetime.
	_, err = s.Hooks()
	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, 1, calls)
}

func TestInventoryLoadedOnce(t *testing.T) {
	calls := 0
	inv := newFakeInventory()
	s := newTestSession(t, inv, WithInventoryLoader(func() (Inventory, error) {
		calls++
		return inv, nil
	}))

	require.NoError(t, s.EnsureNode("18.17.1"))
	require.NoError(t, s.EnsureYarn("1.22.19"))

	assert.Equal(t, 1, calls)
}

func TestExitPublishesEvents(t *testing.T) {
	publish := hook.PublishURL("http://localhost/events")
	events := &fakeEventLog{}

	var exitCode int
	s := newTestSession(t, newFakeInventory(),
		WithHooksLoader(func() (*hook.Set, error) {
			return &hook.Set{Publish: &publish}, nil
		}),
		WithEventLog(events),
		WithExitFunc(func(code int) { exitCode = code }))

	s.AddEventStart(ActivityFetch)
	s.Exit(ExitSuccess)

	assert.Equal(t, int(ExitSuccess), exitCode)
	assert.Equal(t, 1, events.published)
	assert.Same(t, &publish, events.lastHook)
}

func TestExitSurvivesBrokenHooks(t *testing.T) {
	events := &fakeEventLog{}

	var exitCode int
	s := newTestSession(t, newFakeInventory(),
		WithHooksLoader(func() (*hook.Set, error) {
			return nil, errors.New("bad hooks file")
		}),
		WithEventLog(events),
		WithExitFunc(func(code int) { exitCode = code }))

	s.Exit(ExitConfigurationError)

	assert.Equal(t, int(ExitConfigurationError), exitCode)
	assert.Zero(t, events.published, "publication is skipped when hooks cannot load")
}

func TestExitSurvivesPublishFailure(t *testing.T) {
	events := &fakeEventLog{publishErr: errors.New("endpoint down")}

	var exitCode int
	s := newTestSession(t, newFakeInventory(),
		WithEventLog(events),
		WithExitFunc(func(code int) { exitCode = code }))

	s.Exit(ExitSuccess)

	assert.Equal(t, int(ExitSuccess), exitCode)
	assert.Equal(t, 1, events.published)
}

func TestExitSkipsPublishWhenTelemetryDisabled(t *testing.T) {
	publish := hook.PublishURL("http://localhost/events")
	events := &fakeEventLog{}

	var exitCode int
	s := newTestSession(t, newFakeInventory(),
		WithHooksLoader(func() (*hook.Set, error) {
			return &hook.Set{Publish: &publish}, nil
		}),
		WithEventLog(events),
		WithSettings(&config.Settings{Telemetry: false}),
		WithExitFunc(func(code int) { exitCode = code }))

	s.AddEventStart(ActivityFetch)
	s.Exit(ExitSuccess)

	assert.Equal(t, int(ExitSuccess), exitCode)
	assert.Zero(t, events.published, "disabled telemetry must suppress publication")
}

func TestPinNodeWriteFailureIsActionable(t *testing.T) {
	cause := errors.New("permission denied")
	proj := &fakeProject{pinErr: cause}
	s := newTestSession(t, newFakeInventory(), WithProject(proj))

	err := s.PinNode(version.Exact("18.17.1"))

	var ae *issue.ActionableError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "pin node version", ae.Operation)
	assert.ErrorIs(t, err, cause)
}

func TestInstallNodeActivationFailureIsActionable(t *testing.T) {
	cause := errors.New("read-only file system")
	tc := &fakeToolchain{setErr: cause}
	s := newTestSession(t, newFakeInventory(), WithToolchain(tc))

	err := s.InstallNode(version.Latest())

	var ae *issue.ActionableError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "activate node version", ae.Operation)
	assert.ErrorIs(t, err, cause)
}

func TestExitToolUsesRawCode(t *testing.T) {
	var exitCode int
	s := newTestSession(t, newFakeInventory(),
		WithExitFunc(func(code int) { exitCode = code }))

	s.ExitTool(42)

	assert.Equal(t, 42, exitCode)
}

func TestActivityEventsUseStringLabels(t *testing.T) {
	events := &fakeEventLog{}
	s := newTestSession(t, newFakeInventory(), WithEventLog(events))

	s.AddEventStart(ActivityInstall)
	s.AddEventError(ActivityInstall, errors.New("boom"))
	s.AddEventEnd(ActivityInstall, ExitUnknownError)
	s.AddEventToolEnd(ActivityNode, 0)

	assert.Equal(t, []string{"install", "install", "install", "node"}, events.activities)
	assert.Equal(t, []string{"start", "error", "end", "tool_end"}, events.names)
}
