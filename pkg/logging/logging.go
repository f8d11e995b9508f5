/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// LevelEnvVar is the environment variable controlling log verbosity when no
// explicit level is provided.
const LevelEnvVar = "LOG_LEVEL"

// ParseLevel maps a level name to a slog.Level. Empty or unrecognized values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger builds the JSON logger against an arbitrary writer so tests can
// capture output.
func newLogger(w io.Writer, name, version, level string) *slog.Logger {
	lvl := ParseLevel(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	})
	return slog.New(handler).With(
		slog.String("module", name),
		slog.String("version", version),
		slog.String("run_id", uuid.NewString()),
	)
}

// NewStructuredLogger returns a JSON logger writing to stderr with module,
// version, and a per-invocation run_id attached to every record. Debug level
// enables source locations.
func NewStructuredLogger(name, version, level string) *slog.Logger {
	return newLogger(os.Stderr, name, version, level)
}

// SetDefaultStructuredLogger installs the structured logger as the process
// default, taking the level from LOG_LEVEL.
func SetDefaultStructuredLogger(name, version string) {
	SetDefaultStructuredLoggerWithLevel(name, version, os.Getenv(LevelEnvVar))
}

// SetDefaultStructuredLoggerWithLevel installs the structured logger as the
// process default with an explicit level. An empty level falls back to
// LOG_LEVEL.
func SetDefaultStructuredLoggerWithLevel(name, version, level string) {
	if strings.TrimSpace(level) == "" {
		level = os.Getenv(LevelEnvVar)
	}
	slog.SetDefault(NewStructuredLogger(name, version, level))
}
