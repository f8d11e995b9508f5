/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package defaults centralizes the pinned versions, cluster-side names,
// image references, and timing constants shared across cocoup commands.
//
// Versions are pinned rather than tracking latest: operator releases after
// OperatorVersion have shipped without arm64 index images, and the payload
// build is only exercised against PayloadVersion. Overrides come from the
// optional config.yaml file, never from code.
package defaults
