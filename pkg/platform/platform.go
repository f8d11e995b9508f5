/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package platform classifies the host environment once per invocation.
// Every component that branches on host capability consumes the resulting
// Info value instead of re-probing.
package platform

import (
	"os"
	"runtime"
	"strings"

	"github.com/coreos/go-systemd/v22/util"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
)

// OS is the host operating system family. WSL is reported as its own family
// because install paths and virtualization checks differ from bare Linux.
type OS string

const (
	OSLinux  OS = "linux"
	OSDarwin OS = "darwin"
	OSWSL    OS = "wsl"
	OSOther  OS = "other"
)

// Arch is the host CPU architecture family.
type Arch string

const (
	ArchAMD64 Arch = "amd64"
	ArchARM64 Arch = "arm64"
	ArchOther Arch = "other"
)

// InitSystem is the host service manager family. The CcRuntime install
// script bridges hosts whose cluster VM is not systemd-managed.
type InitSystem string

const (
	InitSystemd InitSystem = "systemd"
	InitOther   InitSystem = "other"
)

// Info is the immutable per-invocation host classification.
type Info struct {
	OS         OS         `json:"os" yaml:"os"`
	Arch       Arch       `json:"arch" yaml:"arch"`
	InitSystem InitSystem `json:"initSystem" yaml:"initSystem"`
}

// Detect classifies the current host. It never fails; unrecognized values
// map to the Other members of each enum.
func Detect() Info {
	wsl := runtime.GOOS == "linux" && wslKernel()
	return Info{
		OS:         classifyOS(runtime.GOOS, wsl),
		Arch:       classifyArch(runtime.GOARCH),
		InitSystem: detectInitSystem(),
	}
}

func classifyOS(goos string, wsl bool) OS {
	switch goos {
	case "linux":
		if wsl {
			return OSWSL
		}
		return OSLinux
	case "darwin":
		return OSDarwin
	default:
		return OSOther
	}
}

func classifyArch(goarch string) Arch {
	switch goarch {
	case "amd64":
		return ArchAMD64
	case "arm64":
		return ArchARM64
	default:
		return ArchOther
	}
}

func detectInitSystem() InitSystem {
	if util.IsRunningSystemd() {
		return InitSystemd
	}
	return InitOther
}

// kernelReleaseFiles are checked in order for the WSL kernel marker.
var kernelReleaseFiles = []string{"/proc/sys/kernel/osrelease", "/proc/version"}

func wslKernel() bool {
	for _, path := range kernelReleaseFiles {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if isMicrosoftKernel(string(b)) {
			return true
		}
	}
	return false
}

// isMicrosoftKernel reports whether a kernel release string identifies a WSL
// kernel. Both WSL1 and WSL2 embed "microsoft" in the release.
func isMicrosoftKernel(release string) bool {
	return strings.Contains(strings.ToLower(release), "microsoft")
}

// BuildArch resolves the payload image build architecture. Anything that is
// not arm64 builds the amd64 payload.
func (i Info) BuildArch() string {
	if i.Arch == ArchARM64 {
		return "arm64"
	}
	return "amd64"
}

// OCIPlatform is the payload image target platform. Payloads are linux
// images regardless of the host OS running the cluster VM.
func (i Info) OCIPlatform() ociv1.Platform {
	return ociv1.Platform{
		OS:           "linux",
		Architecture: i.BuildArch(),
	}
}

// VirtualizationDevice is the KVM device node checked during prerequisite
// verification on Linux and WSL hosts.
const VirtualizationDevice = "/dev/kvm"
