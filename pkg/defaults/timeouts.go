/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package defaults

import "time"

// Polling cadence for asynchronous cluster state transitions.
const (
	// PollInterval is the spacing between successive readiness checks.
	PollInterval = 5 * time.Second

	// CRDEstablishTimeout bounds the wait for the CcRuntime CRD to report
	// the Established condition after the operator manifests are applied.
	CRDEstablishTimeout = 60 * time.Second

	// PodRunningTimeout bounds the wait for the probe pod to reach Running.
	// The first start pulls the guest image and boots a VM, which is slow.
	PodRunningTimeout = 300 * time.Second

	// RuntimeClassAttempts is how many PollInterval-spaced existence checks
	// validate makes before concluding a runtime class never registered.
	RuntimeClassAttempts = 24
)

// RuntimeClassTimeout is the runtime-class attempt budget as a duration.
const RuntimeClassTimeout = RuntimeClassAttempts * PollInterval

// Bounds on external process executions.
const (
	// KubectlTimeout bounds a single kubectl invocation. It must cover a
	// remote kustomize fetch on a slow network; polling loops issue many
	// short calls rather than one long one.
	KubectlTimeout = 120 * time.Second

	// BuildTimeout bounds the payload image build. Multi-stage builds compile
	// the shim from source on a cold cache.
	BuildTimeout = 30 * time.Minute

	// DownloadTimeout bounds the kubectl binary download in the install
	// fallback.
	DownloadTimeout = 5 * time.Minute
)
