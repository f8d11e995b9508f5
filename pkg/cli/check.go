/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
)

func checkPrereqsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "check-prereqs",
		EnableShellCompletion: true,
		Usage:                 "Check prerequisites",
		Description: `Verify the host is ready to install Confidential Containers.

The checks run in order:
  1. Host platform is supported (linux or darwin on amd64/arm64)
  2. kubectl is installed, or can be installed after confirmation
  3. A kubeconfig exists and names a usable context
  4. The cluster answers kubectl version

Failing a check stops the command with a non-zero exit. Checks that are
recoverable (missing kubectl) prompt before changing anything on the host;
pass --yes to accept all prompts.

# Examples

Check against the default cluster:
  cocoup check-prereqs

Check a specific context without prompts:
  cocoup check-prereqs --context rancher-desktop --yes

Capture the report for automation:
  cocoup check-prereqs -t json -o report.json`,
		Flags: []cli.Flag{
			kubeconfigFlag,
			contextFlag,
			yesFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p := newPrinter(cmd)

			report, _, err := checkPrereqs(ctx, cmd, p)
			if report != nil {
				if wErr := writeReport(cmd, report); wErr != nil {
					return wErr
				}
			}
			if err != nil {
				return err
			}

			slog.Info("prerequisites satisfied",
				"platform", report.Platform,
				"kubectl", report.KubectlPath,
				"context", report.Context)
			return nil
		},
	}
}
