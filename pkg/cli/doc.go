/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the cocoup command-line interface.
//
// # Overview
//
// cocoup deploys Confidential Containers (CoCo) onto the Kubernetes cluster
// embedded in Rancher Desktop and verifies the result. It wraps the full
// lifecycle: host prerequisite checks, payload image build, operator and
// runtime installation, and an end-to-end probe pod validation.
//
// # Commands
//
// check-prereqs - Verify host tooling and cluster reachability:
//
//	cocoup check-prereqs [--output FILE] [--format yaml|json|table]
//
// Confirms kubectl is present (offering a one-shot install when it is not),
// the cluster answers, and /dev/kvm is usable on Linux hosts.
//
// build - Build the custom payload image:
//
//	cocoup build [--dir DIR] [--publish --registry HOST --repository PATH]
//
// Generates the payload build context and runs nerdctl against the cluster's
// containerd namespace, so the image is visible to the cluster without a
// registry pull. With --publish the build context is also packaged as an
// OCI artifact and pushed.
//
// setup - Install the CoCo operator and runtime:
//
//	cocoup setup [--dir DIR] [--kubeconfig FILE] [--context NAME]
//
// Labels nodes, applies the operator release, waits for the CcRuntime CRD,
// and applies the CcRuntime pointing at the locally built payload.
//
// validate - Validate the installation with a test pod:
//
//	cocoup validate [--output FILE] [--format yaml|json|table]
//
// Picks the best registered runtime class, deploys a probe pod pinned to it,
// and reports whether the pod reaches Running.
//
// # Global Flags
//
//	--log-level   Log verbosity: debug, info, warn, error (default: info)
//	--no-color    Disable colored status output
//
// Every command re-runs the prerequisite checks before acting, matching the
// behavior operators rely on: a broken host fails fast instead of midway
// through a cluster mutation.
package cli
