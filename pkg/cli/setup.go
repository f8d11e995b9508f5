/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/rancher-sandbox/cocoup/pkg/config"
	"github.com/rancher-sandbox/cocoup/pkg/defaults"
	"github.com/rancher-sandbox/cocoup/pkg/installer"
	"github.com/rancher-sandbox/cocoup/pkg/kubectl"
)

func setupCmd() *cli.Command {
	return &cli.Command{
		Name:                  "setup",
		EnableShellCompletion: true,
		Usage:                 "Install Operator and Runtime",
		Description: `Install the Confidential Containers operator and runtime.

Setup labels every node for the operator, applies the operator kustomize
manifests pinned to the configured release, waits for the CcRuntime CRD to
register, and then applies a CcRuntime that installs the enclave-cc runtime
from the locally built payload image. Run 'cocoup build' first so the
payload image exists in containerd.

The operator version comes from ` + defaults.ConfigFileName + ` in the
checkout directory (key ` + defaults.ConfigKeyOperatorVersion + `) and falls
back to the built-in default.

The command is idempotent: re-running it reapplies the same manifests and
kubectl leaves unchanged objects alone.

# Examples

Install into the current context:
  cocoup setup

Install into a named context without prompts:
  cocoup setup --context rancher-desktop -y`,
		Flags: []cli.Flag{
			dirFlag,
			kubeconfigFlag,
			contextFlag,
			yesFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p := newPrinter(cmd)
			if _, _, err := checkPrereqs(ctx, cmd, p); err != nil {
				return err
			}

			cfg := config.Load(cmd.String("dir"))
			operatorVersion := cfg.Version(defaults.ConfigKeyOperatorVersion, defaults.OperatorVersion)

			runner, err := kubectl.New(kubectl.Options{
				Kubeconfig: cmd.String("kubeconfig"),
				Context:    cmd.String("context"),
			})
			if err != nil {
				return err
			}

			kubeconfig := kubectl.ResolveKubeconfig(cmd.String("kubeconfig"))
			kubeContext := cmd.String("context")
			if kubeContext == "" {
				kubeContext = kubectl.CurrentContext(kubeconfig)
			}
			slog.Info("installing operator",
				"version", operatorVersion,
				"kubeconfig", kubeconfig,
				"context", kubeContext)

			inst := installer.Installer{
				Runner:          runner,
				Printer:         p,
				OperatorVersion: operatorVersion,
			}
			return inst.Setup(ctx)
		},
	}
}
