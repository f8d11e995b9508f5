/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package config loads the optional per-checkout configuration file. The
// format is deliberately loose: any "key: value" line is accepted so the
// file can double as sparse YAML, and a missing or damaged file degrades to
// built-in defaults rather than failing the run.
package config

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rancher-sandbox/cocoup/pkg/defaults"
)

// Values is the flat key-value mapping read from the config file. It holds
// only what the file contained; defaults are applied by the accessors.
type Values map[string]string

// Load reads defaults.ConfigFileName from dir. Absence of the file is not
// an error: an empty mapping is returned and every lookup falls back.
func Load(dir string) Values {
	values := Values{}
	path := filepath.Join(dir, defaults.ConfigFileName)

	f, err := os.Open(path)
	if err != nil {
		slog.Warn("config file not found, using defaults", "path", path)
		return values
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		values[strings.TrimSpace(key)] = unquote(value)
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("config file only partially read", "path", path, "error", err)
	}

	slog.Debug("config loaded", "path", path, "keys", len(values))
	return values
}

// unquote trims whitespace and one layer of surrounding single or double
// quotes, matching how hand-written "key: \"value\"" lines are meant.
func unquote(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	return strings.Trim(s, `'`)
}

// GetDefault returns the value for key, or fallback when the key is absent
// or empty.
func (v Values) GetDefault(key, fallback string) string {
	if val, ok := v[key]; ok && val != "" {
		return val
	}
	return fallback
}

// Version resolves a version-valued key with fallback. Values that do not
// parse as a semantic version are still returned, since kustomize refs and
// image tags accept arbitrary strings, but the mismatch is logged.
func (v Values) Version(key, fallback string) string {
	val := v.GetDefault(key, fallback)
	if _, err := semver.NewVersion(val); err != nil {
		slog.Warn("configured version is not a semantic version tag", "key", key, "value", val)
	}
	return val
}
