/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package serializer renders command reports in JSON, YAML, or table form.
//
// Reports go to stdout by default so they stay pipeable; logs go to stderr.
// The --output flag routes a report to a file instead, with a stdout
// fallback when the file cannot be created so a long validate run never
// loses its result to a bad path.
//
// Table output flattens nested structs into dotted FIELD/VALUE rows, which
// is enough for the small, flat-ish reports cocoup produces. It is
// write-only; JSON or YAML are the formats to use when the output feeds
// another tool.
package serializer
