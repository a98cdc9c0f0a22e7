// SPDX-License-Identifier: MPL-2.0

// Package event records session activity events and publishes them through a
// configured publish hook when the session terminates.
package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"anchor-cli/internal/hook"
)

// Names of the recorded event kinds.
const (
	nameStart   = "start"
	nameEnd     = "end"
	nameToolEnd = "tool_end"
	nameError   = "error"
)

type (
	// Event is one recorded activity event.
	Event struct {
		Timestamp time.Time `json:"timestamp"`
		Activity  string    `json:"activity"`
		Name      string    `json:"name"`
		ExitCode  int       `json:"exit_code,omitempty"`
		Error     string    `json:"error,omitempty"`
	}

	// Log buffers events for the lifetime of a session. Recording is pure
	// bookkeeping; nothing leaves the process until Publish is called.
	Log struct {
		events []Event
		client *http.Client
		now    func() time.Time
	}

	// Option configures a Log during construction.
	Option func(*Log)
)

// WithHTTPClient sets a custom HTTP client for URL publish hooks.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Log) {
		l.client = c
	}
}

// WithClock overrides the timestamp source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

// NewLog creates an empty event log.
func NewLog(opts ...Option) *Log {
	l := &Log{
		client: http.DefaultClient,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Events returns the recorded events in order.
func (l *Log) Events() []Event {
	return l.events
}

// AddEventStart records the beginning of an activity.
func (l *Log) AddEventStart(activity string) {
	l.add(Event{Activity: activity, Name: nameStart})
}

// AddEventEnd records the completion of an activity with its exit code.
func (l *Log) AddEventEnd(activity string, exitCode int) {
	l.add(Event{Activity: activity, Name: nameEnd, ExitCode: exitCode})
}

// AddEventToolEnd records the completion of a delegated tool run with the
// tool's raw exit code.
func (l *Log) AddEventToolEnd(activity string, exitCode int) {
	l.add(Event{Activity: activity, Name: nameToolEnd, ExitCode: exitCode})
}

// AddEventError records a failure during an activity.
func (l *Log) AddEventError(activity string, err error) {
	l.add(Event{Activity: activity, Name: nameError, Error: err.Error()})
}

func (l *Log) add(e Event) {
	e.Timestamp = l.now()
	l.events = append(l.events, e)
}

// Publish sends the buffered events through the given publish hook. A nil
// hook or an empty buffer is a no-op. URL hooks receive the batch as a JSON
// POST body; Bin hooks receive it as the command's final argument.
func (l *Log) Publish(p *hook.Publish) error {
	if p == nil || len(l.events) == 0 {
		return nil
	}

	payload, err := json.Marshal(l.events)
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}

	if url, ok := p.URL(); ok {
		resp, err := l.client.Post(url, "application/json", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("publishing events to %s: %w", url, err)
		}
		defer func() { _ = resp.Body.Close() }() // response body unused
		if resp.StatusCode >= 300 {
			return fmt.Errorf("publishing events to %s: unexpected status %d", url, resp.StatusCode)
		}
		return nil
	}

	if command, ok := p.Bin(); ok {
		if _, err := hook.Invoke(command, string(payload)); err != nil {
			return fmt.Errorf("publishing events: %w", err)
		}
	}

	return nil
}
