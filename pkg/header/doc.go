/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package header stamps cocoup's machine-readable reports with kind and
// provenance metadata, following the Kubernetes resource convention.
//
// Report types embed Header inline, so serialized documents open with:
//
//	kind: ValidationReport
//	apiVersion: cocoup.rancher-sandbox.io/v1
//	metadata:
//	  timestamp: "2025-08-25T10:30:00Z"
//	  version: v0.3.0
//
// A saved report therefore identifies itself without the filename or the
// command that produced it. Consumers should check Kind before parsing the
// rest of the document.
package header
