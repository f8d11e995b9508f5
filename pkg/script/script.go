/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package script models the CcRuntime install command as an ordered
// sequence of typed steps. Step ordering and the idempotence guard are
// testable as data; shell text exists only at the Render boundary.
package script

import (
	"fmt"
	"strings"
)

// Step is one shell directive of an install sequence. Render returns the
// directive as a single POSIX shell command without a trailing separator.
type Step interface {
	Render() string
}

// Echo prints a progress marker into the installer pod log.
type Echo struct {
	Message string
}

func (s Echo) Render() string {
	return fmt.Sprintf("echo '%s'", s.Message)
}

// MakeDir creates a directory tree, succeeding when it already exists.
type MakeDir struct {
	Path string
}

func (s MakeDir) Render() string {
	return "mkdir -p " + s.Path
}

// Copy stages a file. Force overwrites a read-only destination left behind
// by a previous install.
type Copy struct {
	Src   string
	Dst   string
	Force bool
}

func (s Copy) Render() string {
	if s.Force {
		return fmt.Sprintf("cp -f %s %s", s.Src, s.Dst)
	}
	return fmt.Sprintf("cp %s %s", s.Src, s.Dst)
}

// Chmod sets file permissions. Build artifacts arrive without the execute
// bit, so staging steps must set it explicitly.
type Chmod struct {
	Mode string
	Path string
}

func (s Chmod) Render() string {
	return fmt.Sprintf("chmod %s %s", s.Mode, s.Path)
}

// HostExec runs a command inside the host mount namespace by entering the
// init process. Anything the host container runtime must see, binaries,
// links, permission bits, has to happen there rather than in the install
// container's own namespace.
type HostExec struct {
	Command string
}

func (s HostExec) Render() string {
	return "nsenter --target 1 --mount -- " + s.Command
}

// AppendOnce appends Block to File inside the host namespace unless Guard
// already occurs in the file, so repeated installs leave the file
// unchanged.
type AppendOnce struct {
	File  string
	Guard string
	Block string
}

func (s AppendOnce) Render() string {
	return fmt.Sprintf("nsenter --target 1 --mount -- sh -c 'grep -q \"%s\" %s || cat <<EOF >> %s\n%s\nEOF'",
		s.Guard, s.File, s.File, s.Block)
}

// WouldModify reports whether applying the step against a file with the
// given content would append anything.
func (s AppendOnce) WouldModify(content string) bool {
	return !strings.Contains(content, s.Guard)
}

// ServiceRestart restarts a host service through OpenRC. The operator's
// stock install script calls systemctl, which does not exist on the Alpine
// cluster VM.
type ServiceRestart struct {
	Service string
}

func (s ServiceRestart) Render() string {
	return fmt.Sprintf("nsenter --target 1 --mount -- rc-service %s restart", s.Service)
}

// BlockForever keeps the install container alive after a successful
// install. The operator treats installer exit as failure.
type BlockForever struct{}

func (BlockForever) Render() string {
	return "sleep infinity"
}

// Render joins steps into the single command line handed to sh -c in the
// CcRuntime installCmd.
func Render(steps []Step) string {
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		parts = append(parts, s.Render())
	}
	return strings.Join(parts, " && ")
}
