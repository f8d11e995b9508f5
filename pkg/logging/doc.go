/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package logging configures structured logging for cocoup.
//
// It wraps the standard library slog package with repo-wide conventions:
// JSON records on stderr, module and version attributes on every record, a
// per-invocation run_id for correlating records from one command run, and
// source locations at debug level. Stdout stays reserved for command output
// so reports remain pipeable.
//
// The LOG_LEVEL environment variable selects verbosity (debug, info, warn,
// error; case-insensitive) when no explicit level is given. Unset or
// unrecognized values mean info.
//
// Typical use in main:
//
//	logging.SetDefaultStructuredLogger("cocoup", version)
//	slog.Info("starting", "dir", dir)
package logging
