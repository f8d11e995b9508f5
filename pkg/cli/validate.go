/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/rancher-sandbox/cocoup/pkg/kubectl"
	"github.com/rancher-sandbox/cocoup/pkg/verifier"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Validate installation with a test pod",
		Description: `Validate the installation end to end with a smoke-test pod.

Validation lists the cluster's runtime classes, picks the best confidential
one for the host architecture (enclave-cc over kata-qemu over kata), waits
for it to register if the operator is still converging, and schedules a
short-lived pod on it. The pod must reach Running; when validation can
reach the pod it also reports the guest kernel version as evidence the
workload runs inside the enclave VM.

On failure the pod's describe output and recent events are printed so the
cause is visible without a second kubectl session. The smoke-test pod is
deleted before each run but intentionally left behind after success.

# Examples

Validate the current cluster:
  cocoup validate

Validate and capture a machine-readable report:
  cocoup validate -t json -o validation.json`,
		Flags: []cli.Flag{
			kubeconfigFlag,
			contextFlag,
			yesFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p := newPrinter(cmd)
			_, info, err := checkPrereqs(ctx, cmd, p)
			if err != nil {
				return err
			}

			runner, err := kubectl.New(kubectl.Options{
				Kubeconfig: cmd.String("kubeconfig"),
				Context:    cmd.String("context"),
			})
			if err != nil {
				return err
			}

			v := verifier.Verifier{
				Runner:   runner,
				Printer:  p,
				Platform: info,
				Version:  version,
			}
			report, runErr := v.Run(ctx)

			// The report is still worth writing when validation fails; it
			// records how far the run got.
			if report != nil {
				if wErr := writeReport(cmd, report); wErr != nil {
					slog.Warn("failed to write validation report", "error", wErr)
				}
			}
			return runErr
		},
	}
}
