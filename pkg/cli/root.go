/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/rancher-sandbox/cocoup/pkg/logging"
)

const (
	name           = "cocoup"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// New assembles the cocoup command tree.
func New() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Confidential Containers on Rancher Desktop clusters",
		Version: version,
		Description: fmt.Sprintf(`cocoup - Confidential Containers (CoCo) deployment for Rancher Desktop

Version: %s
Commit:  %s
Built:   %s

Installs the Confidential Containers operator and a custom enclave-cc payload
onto the Kubernetes cluster embedded in Rancher Desktop, then verifies the
runtime end to end with a probe pod.

Typical flow:
  cocoup check-prereqs
  cocoup build
  cocoup setup
  cocoup validate`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored status output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Info("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"logLevel", cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			checkPrereqsCmd(),
			buildCmd(),
			setupCmd(),
			validateCmd(),
		},
	}
}

// Execute runs the command tree with an interrupt-aware context.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := New().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
