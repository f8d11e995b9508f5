/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package script

// Image-side artifact locations baked into the payload build.
const (
	artifactsRoot = "/opt/enclave-cc-artifacts"
	agentBinary   = artifactsRoot + "/agent/enclave-agent"
	bundleSpec    = artifactsRoot + "/config.json"
	shimConfigSrc = artifactsRoot + "/shim-rune-config.toml"
	shimBinary    = artifactsRoot + "/shim/containerd-shim-rune-v2"
)

// DeployScript ships in the payload image and handles the teardown paths
// the operator may invoke.
const DeployScript = artifactsRoot + "/scripts/enclave-cc-deploy.sh"

// Host-side destinations. All live under the installer volume mounts so
// they persist after the install container exits.
const (
	runtimeShare     = "/opt/confidential-containers/share"
	agentInstanceDir = runtimeShare + "/enclave-cc-agent-instance"
	bootInstanceDir  = runtimeShare + "/enclave-cc-boot-instance"
	shimConfigDir    = "/etc/enclave-cc"
	runtimeBinDir    = "/opt/confidential-containers/bin"
	hostShimPath     = "/usr/bin/containerd-shim-rune-v2"
	containerdConfig = "/etc/containerd/config.toml"
)

// containerdRuntimeBlock registers the rune shim with containerd's CRI
// plugin. containerdGuard keys the append-once check.
const (
	containerdGuard        = "enclave-cc"
	containerdRuntimeBlock = "[plugins.\"io.containerd.grpc.v1.cri\".containerd.runtimes.enclave-cc]\n" +
		"  runtime_type = \"io.containerd.rune.v2\"\n" +
		"  cri_handler = \"cc\""
)

// InstallSequence is the enclave-cc install script as typed steps. The
// order is load-bearing: binaries and configuration must be staged before
// the containerd restart picks up the runtime registration, and the final
// BlockForever keeps the installer alive as the operator's success signal.
func InstallSequence() []Step {
	return []Step{
		Echo{"Installing CoCo artifacts..."},

		MakeDir{agentInstanceDir + "/rootfs/bin"},
		Copy{Src: agentBinary, Dst: agentInstanceDir + "/rootfs/bin/enclave-agent"},
		Chmod{Mode: "+x", Path: agentInstanceDir + "/rootfs/bin/enclave-agent"},
		Copy{Src: bundleSpec, Dst: agentInstanceDir + "/"},

		MakeDir{bootInstanceDir + "/rootfs/bin"},
		Copy{Src: agentBinary, Dst: bootInstanceDir + "/rootfs/bin/enclave-agent"},
		Chmod{Mode: "+x", Path: bootInstanceDir + "/rootfs/bin/enclave-agent"},

		MakeDir{shimConfigDir},
		Copy{Src: shimConfigSrc, Dst: shimConfigDir + "/config.toml"},

		MakeDir{runtimeBinDir},
		Copy{Src: shimBinary, Dst: runtimeBinDir + "/containerd-shim-rune-v2", Force: true},
		HostExec{"ln -sf " + runtimeBinDir + "/containerd-shim-rune-v2 " + hostShimPath},
		HostExec{"chmod 755 " + hostShimPath},

		Echo{"Configuring containerd..."},
		AppendOnce{File: containerdConfig, Guard: containerdGuard, Block: containerdRuntimeBlock},

		Echo{"Restarting containerd..."},
		ServiceRestart{"containerd"},

		Echo{"Installation complete. Sleeping..."},
		BlockForever{},
	}
}
