/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package payload

import _ "embed"

// Generated artifacts written into every build context. Content is fixed;
// only the directory they land in varies.

//go:embed artifacts/enclave-cc.yaml
var runtimeClassArtifact string

//go:embed artifacts/config.json
var bundleSpecArtifact string

//go:embed artifacts/shim-rune-config.toml
var shimConfigArtifact string
