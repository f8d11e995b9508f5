/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package oci packages the payload build context as an OCI 1.1 artifact and
// pushes it to a registry with ORAS.
//
// The payload image itself never leaves the local containerd namespace; what
// publish ships is the build context (Dockerfile plus generated artifacts),
// so another machine can reproduce the exact image with nerdctl or docker.
// Package stages the context into a local OCI image layout first, then
// PushFromStore copies that layout to the remote repository. Splitting the
// two keeps the layout on disk for inspection and makes retrying a failed
// push cheap.
//
// Staging is reproducible: tars are deterministic and the manifest created
// timestamp is pinned, so the same context always yields the same digest.
package oci
