// SPDX-License-Identifier: MPL-2.0

// Package session provides the per-invocation façade coordinating hooks,
// inventory, project, toolchain, and telemetry state. One Session exists per
// process invocation; hooks and inventory are materialized lazily on first
// use and cached for the rest of the session.
package session

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"anchor-cli/internal/config"
	"anchor-cli/internal/event"
	"anchor-cli/internal/hook"
	"anchor-cli/internal/inventory"
	"anchor-cli/internal/issue"
	"anchor-cli/internal/platform"
	"anchor-cli/internal/project"
	"anchor-cli/internal/toolchain"
	"anchor-cli/internal/version"
)

// ErrNotInProject is returned when an operation requires a project context
// (pinning) and the current directory is not inside a Node package.
var ErrNotInProject = errors.New("not in a node package")

type (
	// Inventory is the collaborator tracking locally fetched tool versions
	// and fetching missing ones.
	Inventory interface {
		ContainsNode(version string) bool
		ContainsYarn(version string) bool
		FetchNode(spec version.Spec, hooks *hook.Set) (version.Fetched[platform.NodeVersion], error)
		FetchYarn(spec version.Spec, hooks *hook.Set) (version.Fetched[string], error)
	}

	// Toolchain is the collaborator tracking the user's active tool
	// versions outside any project.
	Toolchain interface {
		ActiveNode() *platform.NodeVersion
		ActiveYarn() string
		SetActiveNode(v platform.NodeVersion) error
		SetActiveYarn(v string) error
	}

	// Project is the collaborator for the containing Node package: its
	// pinned platform and the write-through pin operations.
	Project interface {
		Platform() *platform.Spec
		PinNode(v platform.NodeVersion) error
		PinYarn(v string) error
	}

	// EventLog is the collaborator buffering telemetry events and
	// publishing them on session exit.
	EventLog interface {
		AddEventStart(activity string)
		AddEventEnd(activity string, exitCode int)
		AddEventToolEnd(activity string, exitCode int)
		AddEventError(activity string, err error)
		Publish(p *hook.Publish) error
	}

	// Session is the user's state during one anchor invocation: the
	// containing project (if any), the hook settings, the local inventory,
	// the user toolchain, and the event log.
	Session struct {
		hooks     lazySlot[*hook.Set]
		inventory lazySlot[Inventory]

		loadHooks     func() (*hook.Set, error)
		loadInventory func() (Inventory, error)

		toolchain  Toolchain
		project    Project // nil outside a Node package
		projectSet bool    // true when WithProject was supplied, even with nil
		events     EventLog
		settings   *config.Settings
		logger     *log.Logger
		exit       func(code int)
	}

	// Option configures a Session during construction. Nil collaborators
	// are replaced with production defaults by New.
	Option func(*Session)
)

// WithHooksLoader overrides how the hook configuration is loaded.
func WithHooksLoader(load func() (*hook.Set, error)) Option {
	return func(s *Session) {
		s.loadHooks = load
	}
}

// WithInventoryLoader overrides how the inventory is loaded.
func WithInventoryLoader(load func() (Inventory, error)) Option {
	return func(s *Session) {
		s.loadInventory = load
	}
}

// WithToolchain overrides the user toolchain collaborator.
func WithToolchain(t Toolchain) Option {
	return func(s *Session) {
		s.toolchain = t
	}
}

// WithProject overrides the project handle and suppresses directory probing.
// Passing nil means "no project".
func WithProject(p Project) Option {
	return func(s *Session) {
		s.project = p
		s.projectSet = true
	}
}

// WithEventLog overrides the event log collaborator.
func WithEventLog(l EventLog) Option {
	return func(s *Session) {
		s.events = l
	}
}

// WithSettings overrides the user settings.
func WithSettings(settings *config.Settings) Option {
	return func(s *Session) {
		s.settings = settings
	}
}

// WithExitFunc overrides process termination, primarily for tests.
func WithExitFunc(exit func(code int)) Option {
	return func(s *Session) {
		s.exit = exit
	}
}

// New constructs a Session for the current process invocation. The project
// handle is resolved once, by probing the working directory upward for a
// package.json; hooks and inventory stay unloaded until first use.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "anchor"}),
		exit:   os.Exit,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.loadHooks == nil {
		s.loadHooks = defaultHooksLoader
	}
	if s.loadInventory == nil {
		s.loadInventory = defaultInventoryLoader
	}
	if s.events == nil {
		s.events = event.NewLog()
	}

	if s.settings == nil {
		settings, err := config.LoadSettings()
		if err != nil {
			return nil, err
		}
		s.settings = settings
	}

	if s.toolchain == nil {
		tc, err := toolchain.Current()
		if err != nil {
			return nil, err
		}
		s.toolchain = tc
	}

	if s.project == nil && !s.projectSet {
		p, err := project.ForCurrentDirectory()
		if err != nil {
			return nil, err
		}
		if p != nil {
			s.project = p
		}
	}

	return s, nil
}

func defaultHooksLoader() (*hook.Set, error) {
	path, err := config.HooksFile()
	if err != nil {
		return nil, err
	}
	return hook.Load(path)
}

func defaultInventoryLoader() (Inventory, error) {
	return inventory.Current()
}

// Hooks returns the hook configuration, loading it on first access.
func (s *Session) Hooks() (*hook.Set, error) {
	return s.hooks.get(s.loadHooks)
}

// Inventory returns the inventory, loading it on first access.
func (s *Session) Inventory() (Inventory, error) {
	return s.inventory.get(s.loadInventory)
}

// Project returns the containing project handle, or nil outside a package.
func (s *Session) Project() Project {
	return s.project
}

// CurrentPlatform returns the effective platform: the project pin when one
// exists, else the user-level platform.
func (s *Session) CurrentPlatform() *platform.Spec {
	return platform.Current(s.ProjectPlatform(), s.toolchain.ActiveNode(), s.toolchain.ActiveYarn())
}

// UserPlatform returns the platform built from the user toolchain alone.
func (s *Session) UserPlatform() *platform.Spec {
	return platform.Current(nil, s.toolchain.ActiveNode(), s.toolchain.ActiveYarn())
}

// ProjectPlatform returns the current project's pinned platform, if any.
func (s *Session) ProjectPlatform() *platform.Spec {
	if s.project == nil {
		return nil
	}
	return s.project.Platform()
}

// FetchNode fetches a Node version matching spec into the inventory.
func (s *Session) FetchNode(spec version.Spec) (version.Fetched[platform.NodeVersion], error) {
	var none version.Fetched[platform.NodeVersion]

	inv, err := s.Inventory()
	if err != nil {
		return none, err
	}
	hooks, err := s.Hooks()
	if err != nil {
		return none, err
	}
	return inv.FetchNode(spec, hooks)
}

// InstallNode fetches a Node version matching spec and makes it the user's
// active version.
func (s *Session) InstallNode(spec version.Spec) error {
	fetched, err := s.FetchNode(spec)
	if err != nil {
		return err
	}
	if err := s.toolchain.SetActiveNode(fetched.Version); err != nil {
		return issue.NewErrorContext().
			WithOperation("activate node version").
			WithResource(fetched.Version.String()).
			WithSuggestion("check that the anchor home directory is writable").
			Wrap(err).
			BuildError()
	}
	return nil
}

// PinNode fetches a Node version matching spec and persists it into the
// project manifest. Fails with ErrNotInProject outside a package; the
// project check happens before any network-affecting call.
func (s *Session) PinNode(spec version.Spec) error {
	if s.project == nil {
		return ErrNotInProject
	}

	fetched, err := s.FetchNode(spec)
	if err != nil {
		return err
	}
	if err := s.project.PinNode(fetched.Version); err != nil {
		return issue.NewErrorContext().
			WithOperation("pin node version").
			WithResource(fetched.Version.String()).
			WithSuggestion("check that package.json is writable").
			Wrap(err).
			BuildError()
	}
	return nil
}

// EnsureNode makes sure the exact Node version is present in the inventory,
// fetching only when it is missing.
func (s *Session) EnsureNode(v string) error {
	inv, err := s.Inventory()
	if err != nil {
		return err
	}

	if inv.ContainsNode(v) {
		return nil
	}

	hooks, err := s.Hooks()
	if err != nil {
		return err
	}
	_, err = inv.FetchNode(version.Exact(v), hooks)
	return err
}

// FetchYarn fetches a Yarn version matching spec into the inventory.
func (s *Session) FetchYarn(spec version.Spec) (version.Fetched[string], error) {
	var none version.Fetched[string]

	inv, err := s.Inventory()
	if err != nil {
		return none, err
	}
	hooks, err := s.Hooks()
	if err != nil {
		return none, err
	}
	return inv.FetchYarn(spec, hooks)
}

// InstallYarn fetches a Yarn version matching spec and makes it the user's
// active version.
func (s *Session) InstallYarn(spec version.Spec) error {
	fetched, err := s.FetchYarn(spec)
	if err != nil {
		return err
	}
	if err := s.toolchain.SetActiveYarn(fetched.Version); err != nil {
		return issue.NewErrorContext().
			WithOperation("activate yarn version").
			WithResource(fetched.Version).
			WithSuggestion("check that the anchor home directory is writable").
			Wrap(err).
			BuildError()
	}
	return nil
}

// PinYarn fetches a Yarn version matching spec and persists it into the
// project manifest. Fails with ErrNotInProject outside a package, before
// any fetch.
func (s *Session) PinYarn(spec version.Spec) error {
	if s.project == nil {
		return ErrNotInProject
	}

	fetched, err := s.FetchYarn(spec)
	if err != nil {
		return err
	}
	if err := s.project.PinYarn(fetched.Version); err != nil {
		return issue.NewErrorContext().
			WithOperation("pin yarn version").
			WithResource(fetched.Version).
			WithSuggestion("check that package.json is writable").
			Wrap(err).
			BuildError()
	}
	return nil
}

// EnsureYarn makes sure the exact Yarn version is present in the inventory,
// fetching only when it is missing.
func (s *Session) EnsureYarn(v string) error {
	inv, err := s.Inventory()
	if err != nil {
		return err
	}

	if inv.ContainsYarn(v) {
		return nil
	}

	hooks, err := s.Hooks()
	if err != nil {
		return err
	}
	_, err = inv.FetchYarn(version.Exact(v), hooks)
	return err
}

// AddEventStart records the beginning of an activity.
func (s *Session) AddEventStart(kind ActivityKind) {
	s.events.AddEventStart(kind.String())
}

// AddEventEnd records the completion of an activity.
func (s *Session) AddEventEnd(kind ActivityKind, code ExitCode) {
	s.events.AddEventEnd(kind.String(), int(code))
}

// AddEventToolEnd records the completion of a delegated tool run.
func (s *Session) AddEventToolEnd(kind ActivityKind, code int) {
	s.events.AddEventToolEnd(kind.String(), code)
}

// AddEventError records a failure during an activity.
func (s *Session) AddEventError(kind ActivityKind, err error) {
	s.events.AddEventError(kind.String(), err)
}

// Exit publishes the event log and terminates the process with code. This
// and ExitTool are the only sanctioned termination paths.
func (s *Session) Exit(code ExitCode) {
	s.publishToEventLog()
	s.exit(int(code))
}

// ExitTool publishes the event log and terminates with a delegated tool's
// raw exit code.
func (s *Session) ExitTool(code int) {
	s.publishToEventLog()
	s.exit(code)
}

// publishToEventLog flushes buffered events through the configured publish
// hook. Failures here must never prevent termination with the intended exit
// code: a hooks-load failure is downgraded to a warning, as is a publish
// transport failure. Nothing leaves the process when telemetry is disabled
// in settings.toml.
func (s *Session) publishToEventLog() {
	if !s.settings.Telemetry {
		return
	}

	hooks, err := s.hooks.get(s.loadHooks)
	if err != nil {
		s.logger.Warn("invalid hooks configuration, skipping event publication", "error", err)
		return
	}

	if err := s.events.Publish(hooks.Publish); err != nil {
		s.logger.Warn("failed to publish session events", "error", err)
	}
}
