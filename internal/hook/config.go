// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrAmbiguousHook indicates a hook table that does not set exactly one of
// its prefix/template/bin fields.
var ErrAmbiguousHook = errors.New("hook must set exactly one of prefix, template, bin")

type (
	// ToolHooks holds the optional distro and metadata hooks configured for
	// one tool. Nil fields mean the default resolution applies.
	ToolHooks struct {
		Distro   *DistroHook
		Metadata *MetadataHook
	}

	// Set aggregates all hooks configured for a session: per-tool resolution
	// hooks plus the optional telemetry publish hook.
	Set struct {
		Node    ToolHooks
		Yarn    ToolHooks
		Publish *Publish
	}
)

// TOML wire types for hooks.toml. Each hook table carries exactly one of the
// three strategy fields.
type (
	rawSet struct {
		Node   rawToolHooks `toml:"node"`
		Yarn   rawToolHooks `toml:"yarn"`
		Events rawEvents    `toml:"events"`
	}

	rawToolHooks struct {
		Distro   *rawHook `toml:"distro"`
		Metadata *rawHook `toml:"metadata"`
	}

	rawHook struct {
		Prefix   string `toml:"prefix"`
		Template string `toml:"template"`
		Bin      string `toml:"bin"`
	}

	rawEvents struct {
		Publish *rawPublish `toml:"publish"`
	}

	rawPublish struct {
		URL string `toml:"url"`
		Bin string `toml:"bin"`
	}
)

// Load reads the hook configuration from the TOML file at path. A missing
// file is not an error: it yields an empty Set, meaning default resolution
// everywhere.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Set{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading hooks file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates hook configuration from TOML bytes.
func Parse(data []byte) (*Set, error) {
	var raw rawSet
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hooks config: %w", err)
	}

	set := &Set{}

	var err error
	if set.Node, err = buildToolHooks("node", raw.Node); err != nil {
		return nil, err
	}
	if set.Yarn, err = buildToolHooks("yarn", raw.Yarn); err != nil {
		return nil, err
	}
	if set.Publish, err = buildPublish(raw.Events.Publish); err != nil {
		return nil, err
	}

	return set, nil
}

func buildToolHooks(tool string, raw rawToolHooks) (ToolHooks, error) {
	var hooks ToolHooks

	if raw.Distro != nil {
		s, value, err := pickStrategy(*raw.Distro)
		if err != nil {
			return ToolHooks{}, fmt.Errorf("%s.distro: %w", tool, err)
		}
		h := DistroHook{strategy: s, value: value}
		hooks.Distro = &h
	}

	if raw.Metadata != nil {
		s, value, err := pickStrategy(*raw.Metadata)
		if err != nil {
			return ToolHooks{}, fmt.Errorf("%s.metadata: %w", tool, err)
		}
		h := MetadataHook{strategy: s, value: value}
		hooks.Metadata = &h
	}

	return hooks, nil
}

// pickStrategy enforces the exactly-one-variant invariant of a hook table.
func pickStrategy(raw rawHook) (strategy, string, error) {
	var (
		s     strategy
		value string
		count int
	)

	if raw.Prefix != "" {
		s, value, count = strategyPrefix, raw.Prefix, count+1
	}
	if raw.Template != "" {
		s, value, count = strategyTemplate, raw.Template, count+1
	}
	if raw.Bin != "" {
		s, value, count = strategyBin, raw.Bin, count+1
	}

	if count != 1 {
		return 0, "", ErrAmbiguousHook
	}
	return s, value, nil
}

func buildPublish(raw *rawPublish) (*Publish, error) {
	if raw == nil {
		return nil, nil
	}

	switch {
	case raw.URL != "" && raw.Bin == "":
		p := PublishURL(raw.URL)
		return &p, nil
	case raw.Bin != "" && raw.URL == "":
		p := PublishBin(raw.Bin)
		return &p, nil
	default:
		return nil, fmt.Errorf("events.publish: %w", errors.New("publish hook must set exactly one of url, bin"))
	}
}
