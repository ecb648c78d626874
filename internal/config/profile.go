// Package config loads conversion profiles: YAML documents carrying the
// same knobs as the convert command's flags, so a recurring conversion can
// be pinned in a file and shared.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile mirrors the convert command's flags. Explicit flags take
// precedence over profile values.
type Profile struct {
	// GTKW is a GTKWave save file to derive the column selection from.
	// Relative paths resolve against the profile's directory.
	GTKW string `yaml:"gtkw,omitempty"`

	// Signals is an explicit column list (scalar or bus-bit names).
	Signals []string `yaml:"signals,omitempty"`

	// TMin and TMax are inclusive time bounds, time-spec syntax.
	TMin string `yaml:"tmin,omitempty"`
	TMax string `yaml:"tmax,omitempty"`

	// UniformStep switches to uniform-grid emission, time-spec syntax.
	UniformStep string `yaml:"uniform_step,omitempty"`

	// IgnoreMissing downgrades missing-signal resolution to a warning.
	IgnoreMissing bool `yaml:"ignore_missing,omitempty"`

	// SQLite, when set, also records the run into this database.
	// Relative paths resolve against the profile's directory.
	SQLite string `yaml:"sqlite,omitempty"`
}

// Load reads and parses a profile YAML file. Unknown fields are rejected
// (catches typos like "signal:" vs "signals:"); relative file paths are
// resolved against the profile's own directory.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}

	base := filepath.Dir(path)
	if p.GTKW != "" && !filepath.IsAbs(p.GTKW) {
		p.GTKW = filepath.Join(base, p.GTKW)
	}
	if p.SQLite != "" && !filepath.IsAbs(p.SQLite) {
		p.SQLite = filepath.Join(base, p.SQLite)
	}
	return &p, nil
}
