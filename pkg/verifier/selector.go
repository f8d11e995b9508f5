/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"errors"

	"github.com/rancher-sandbox/cocoup/pkg/platform"
)

// ErrNoRuntimeClass reports that none of the runtime classes the operator
// registers are present on the cluster.
var ErrNoRuntimeClass = errors.New("no CoCo runtime classes (enclave-cc, kata*) found")

// Runtime class names the operator registers.
const (
	classEnclaveCC = "enclave-cc"
	classKataQemu  = "kata-qemu"
	classKata      = "kata"
)

// SelectRuntimeClass picks the class the probe pod requests. The simulation
// class wins whenever present: it only exists when the payload install
// actually finished. The QEMU variant is preferred on anything but x86, and
// the generic kata class is the last resort. An empty candidate set is an
// error, never a silent default.
func SelectRuntimeClass(available []string, info platform.Info) (string, error) {
	have := make(map[string]bool, len(available))
	for _, name := range available {
		have[name] = true
	}

	switch {
	case have[classEnclaveCC]:
		return classEnclaveCC, nil
	case have[classKataQemu] && info.Arch != platform.ArchAMD64:
		return classKataQemu, nil
	case have[classKata]:
		return classKata, nil
	default:
		return "", ErrNoRuntimeClass
	}
}
