/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyOS(t *testing.T) {
	tests := []struct {
		name string
		goos string
		wsl  bool
		want OS
	}{
		{"bare linux", "linux", false, OSLinux},
		{"wsl kernel", "linux", true, OSWSL},
		{"darwin", "darwin", false, OSDarwin},
		{"windows", "windows", false, OSOther},
		{"freebsd", "freebsd", false, OSOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyOS(tt.goos, tt.wsl))
		})
	}
}

func TestClassifyArch(t *testing.T) {
	tests := []struct {
		goarch string
		want   Arch
	}{
		{"amd64", ArchAMD64},
		{"arm64", ArchARM64},
		{"riscv64", ArchOther},
		{"386", ArchOther},
	}

	for _, tt := range tests {
		t.Run(tt.goarch, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyArch(tt.goarch))
		})
	}
}

func TestDetectReturnsClosedEnums(t *testing.T) {
	info := Detect()

	assert.Contains(t, []OS{OSLinux, OSDarwin, OSWSL, OSOther}, info.OS)
	assert.Contains(t, []Arch{ArchAMD64, ArchARM64, ArchOther}, info.Arch)
	assert.Contains(t, []InitSystem{InitSystemd, InitOther}, info.InitSystem)
}

func TestIsMicrosoftKernel(t *testing.T) {
	tests := []struct {
		name    string
		release string
		want    bool
	}{
		{"wsl2", "5.15.167.4-microsoft-standard-WSL2\n", true},
		{"wsl1 mixed case", "4.4.0-19041-Microsoft", true},
		{"bare linux", "6.8.0-45-generic", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isMicrosoftKernel(tt.release))
		})
	}
}

func TestBuildArch(t *testing.T) {
	tests := []struct {
		arch Arch
		want string
	}{
		{ArchARM64, "arm64"},
		{ArchAMD64, "amd64"},
		{ArchOther, "amd64"},
	}

	for _, tt := range tests {
		t.Run(string(tt.arch), func(t *testing.T) {
			assert.Equal(t, tt.want, Info{Arch: tt.arch}.BuildArch())
		})
	}
}

func TestOCIPlatformAlwaysLinux(t *testing.T) {
	for _, osFam := range []OS{OSLinux, OSDarwin, OSWSL, OSOther} {
		p := Info{OS: osFam, Arch: ArchARM64}.OCIPlatform()
		assert.Equal(t, "linux", p.OS)
		assert.Equal(t, "arm64", p.Architecture)
	}
}
