/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package ccruntime builds the CcRuntime custom resource that tells the
// Confidential Containers operator to install the enclave-cc runtime from
// the locally built payload image.
package ccruntime

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/rancher-sandbox/cocoup/pkg/defaults"
	"github.com/rancher-sandbox/cocoup/pkg/script"
)

// Group, version, and kind of the operator's custom resource.
const (
	APIVersion = "confidentialcontainers.org/v1beta1"
	Kind       = "CcRuntime"
)

// Manifest mirrors the operator's CcRuntime schema for the fields this
// deployment sets.
type Manifest struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec Spec `json:"spec"`
}

// Spec selects the nodes and runtime the operator manages.
type Spec struct {
	RuntimeName    string                `json:"runtimeName"`
	CcNodeSelector *metav1.LabelSelector `json:"ccNodeSelector,omitempty"`
	Config         InstallConfig         `json:"config"`
}

// InstallConfig describes the install payload and the commands the operator
// runs inside the installer daemonset.
type InstallConfig struct {
	InstallType           string               `json:"installType"`
	PayloadImage          string               `json:"payloadImage"`
	ImagePullPolicy       corev1.PullPolicy    `json:"imagePullPolicy,omitempty"`
	InstallCmd            []string             `json:"installCmd,omitempty"`
	UninstallCmd          []string             `json:"uninstallCmd,omitempty"`
	CleanupCmd            []string             `json:"cleanupCmd,omitempty"`
	InstallerVolumes      []corev1.Volume      `json:"installerVolumes,omitempty"`
	InstallerVolumeMounts []corev1.VolumeMount `json:"installerVolumeMounts,omitempty"`
	EnvironmentVariables  []corev1.EnvVar      `json:"environmentVariables,omitempty"`
	RuntimeClasses        []RuntimeClass       `json:"runtimeClasses,omitempty"`
}

// RuntimeClass names one runtime class the operator creates and the
// containerd snapshotter it maps to.
type RuntimeClass struct {
	Name        string `json:"name"`
	Snapshotter string `json:"snapshotter,omitempty"`
	Pulltype    string `json:"pulltype,omitempty"`
}

// New assembles the CcRuntime resource for a local enclave-cc install. The
// payload image reference is pinned to the tag the build command produces;
// the two must agree or the installer pod has nothing to run.
func New() *Manifest {
	return &Manifest{
		TypeMeta: metav1.TypeMeta{APIVersion: APIVersion, Kind: Kind},
		ObjectMeta: metav1.ObjectMeta{
			Name:      defaults.CcRuntimeName,
			Namespace: defaults.OperatorNamespace,
		},
		Spec: Spec{
			RuntimeName: "kata",
			// The operator's stock selector keys on TEE hardware labels an
			// emulated cluster never carries.
			CcNodeSelector: &metav1.LabelSelector{
				MatchLabels: map[string]string{"kubernetes.io/os": "linux"},
			},
			Config: InstallConfig{
				InstallType:     "bundle",
				PayloadImage:    defaults.PayloadImageRepo + ":" + defaults.PayloadImageTag,
				ImagePullPolicy: corev1.PullIfNotPresent,
				// The payload lays artifacts out under /opt/enclave-cc-artifacts,
				// not where the operator's default install expects them, so all
				// three lifecycle commands are spelled out.
				InstallCmd:   []string{"/bin/sh", "-c", script.Render(script.InstallSequence())},
				UninstallCmd: []string{script.DeployScript, "uninstall"},
				CleanupCmd:   []string{script.DeployScript, "cleanup"},
				InstallerVolumes: []corev1.Volume{
					hostPathVolume("host-opt-cc", "/opt/confidential-containers"),
					hostPathVolume("host-etc-enclave-cc", "/etc/enclave-cc"),
					hostPathVolume("host-etc-containerd", "/etc/containerd"),
				},
				InstallerVolumeMounts: []corev1.VolumeMount{
					{Name: "host-opt-cc", MountPath: "/opt/confidential-containers"},
					{Name: "host-etc-enclave-cc", MountPath: "/etc/enclave-cc"},
					{Name: "host-etc-containerd", MountPath: "/etc/containerd"},
				},
				// enclave-cc-deploy.sh exits when either variable is unset.
				// "e30=" is an empty JSON object, base64 encoded.
				EnvironmentVariables: []corev1.EnvVar{
					{Name: "DECRYPT_CONFIG", Value: "e30="},
					{Name: "OCICRYPT_CONFIG", Value: "e30="},
				},
				RuntimeClasses: []RuntimeClass{
					{Name: "kata", Snapshotter: "overlayfs", Pulltype: "auth"},
					{Name: "kata-qemu", Snapshotter: "overlayfs", Pulltype: "auth"},
					{Name: "kata-clh", Snapshotter: "overlayfs", Pulltype: "auth"},
				},
			},
		},
	}
}

// hostPathVolume mounts a host directory into the installer pod, creating
// it when missing so installs survive the container exiting.
func hostPathVolume(name, path string) corev1.Volume {
	return corev1.Volume{
		Name: name,
		VolumeSource: corev1.VolumeSource{
			HostPath: &corev1.HostPathVolumeSource{
				Path: path,
				Type: ptr.To(corev1.HostPathDirectoryOrCreate),
			},
		},
	}
}

// Marshal renders the manifest as YAML for kubectl apply -f -.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}
