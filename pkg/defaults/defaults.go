/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package defaults

// Pinned component versions.
const (
	// OperatorVersion is the Confidential Containers operator release applied
	// during setup when config.yaml does not override it.
	OperatorVersion = "v0.12.0"

	// PayloadVersion is the enclave-cc payload release baked into the image
	// build when config.yaml does not override it.
	PayloadVersion = "v0.11.0"

	// KubectlVersion is the release fetched by the kubectl install fallback.
	KubectlVersion = "v1.29.0"
)

// Cluster-side names fixed by the operator contract.
const (
	// OperatorNamespace holds the operator deployment and the CcRuntime.
	OperatorNamespace = "confidential-containers-system"

	// CcRuntimeName is the name of the CcRuntime custom resource.
	CcRuntimeName = "cc-runtime"

	// CcRuntimeCRD is the CustomResourceDefinition the operator registers.
	// Setup waits for its Established condition before applying the runtime.
	CcRuntimeCRD = "ccruntimes.confidentialcontainers.org"

	// OperatorKustomizeBase is the remote kustomize base for operator
	// releases. The release ref is appended as ?ref=<version>.
	OperatorKustomizeBase = "github.com/confidential-containers/operator/config/release"
)

// Node labels applied before installing the operator. Values include the
// key=value form kubectl label expects.
const (
	// NodeLabelWorker marks nodes as workers so the operator daemonset has a
	// schedulable target on single-node clusters.
	NodeLabelWorker = "node-role.kubernetes.io/worker="

	// NodeLabelCocoEnabled opts a node into CoCo runtime installation.
	NodeLabelCocoEnabled = "confidentialcontainers.org/enabled=true"
)

// Payload image identity. Images stay in the local containerd namespace;
// nothing is pushed to a registry by default.
const (
	// PayloadImageRepo is the repository part of the payload reference. The
	// CcRuntime manifest pins PayloadImageRepo:PayloadImageTag verbatim, so
	// changing either requires re-running setup.
	PayloadImageRepo = "k8s.io/coco-payload-arm64"

	// PayloadImageTag is the fixed tag the CcRuntime manifest pins.
	PayloadImageTag = "local"

	// ContainerdNamespace is the containerd namespace images are built into
	// so the embedded cluster sees them without a registry pull.
	ContainerdNamespace = "k8s.io"
)

// Probe pod identity used by validate.
const (
	ProbePodName       = "coco-smoke-test"
	ProbePodNamespace  = "default"
	ProbePodLabelKey   = "app"
	ProbePodLabelValue = "coco-smoke"
	ProbePodImage      = "nginx:alpine"
)

// Publish targets for build --publish. ttl.sh hosts images for a bounded
// lifetime and needs no credentials, which suits sharing a payload context
// between workstations without standing up a registry.
const (
	PublishRegistry   = "ttl.sh"
	PublishRepository = "rancher-sandbox/coco-payload"
)

// ConfigFileName is the optional per-checkout configuration file, resolved
// relative to the directory passed via --dir.
const ConfigFileName = "config.yaml"

// Keys recognized in ConfigFileName. Unknown keys are preserved but unused.
const (
	ConfigKeyOperatorVersion = "coco_operator_version"
	ConfigKeyPayloadVersion  = "coco_payload_version"
)
