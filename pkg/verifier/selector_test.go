/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rancher-sandbox/cocoup/pkg/platform"
)

func TestSelectRuntimeClass(t *testing.T) {
	arm := platform.Info{OS: platform.OSLinux, Arch: platform.ArchARM64}
	amd := platform.Info{OS: platform.OSLinux, Arch: platform.ArchAMD64}

	tests := []struct {
		name      string
		available []string
		info      platform.Info
		want      string
	}{
		{
			name:      "enclave-cc wins over everything",
			available: []string{"kata", "kata-qemu", "enclave-cc"},
			info:      arm,
			want:      "enclave-cc",
		},
		{
			name:      "kata-qemu preferred on arm64",
			available: []string{"kata-qemu", "kata"},
			info:      arm,
			want:      "kata-qemu",
		},
		{
			name:      "kata-qemu not preferred on amd64",
			available: []string{"kata-qemu", "kata"},
			info:      amd,
			want:      "kata",
		},
		{
			name:      "kata-qemu preferred on unclassified arch",
			available: []string{"kata-qemu", "kata"},
			info:      platform.Info{OS: platform.OSLinux, Arch: platform.ArchOther},
			want:      "kata-qemu",
		},
		{
			name:      "generic kata as last resort",
			available: []string{"kata"},
			info:      arm,
			want:      "kata",
		},
		{
			name:      "order of candidates is irrelevant",
			available: []string{"enclave-cc", "kata"},
			info:      amd,
			want:      "enclave-cc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectRuntimeClass(tt.available, tt.info)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectRuntimeClassNoCandidates(t *testing.T) {
	info := platform.Info{OS: platform.OSLinux, Arch: platform.ArchARM64}

	for _, available := range [][]string{nil, {}, {"runc", "crun"}} {
		_, err := SelectRuntimeClass(available, info)

		assert.ErrorIs(t, err, ErrNoRuntimeClass, "available=%v", available)
	}
}

func TestSelectRuntimeClassKataQemuAloneOnAMD64(t *testing.T) {
	// On x86 the QEMU variant is never offered, and with no generic class
	// present nothing matches, so selection fails rather than guessing.
	info := platform.Info{OS: platform.OSLinux, Arch: platform.ArchAMD64}

	_, err := SelectRuntimeClass([]string{"kata-qemu"}, info)

	assert.ErrorIs(t, err, ErrNoRuntimeClass)
}
