/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/rancher-sandbox/cocoup/pkg/config"
	"github.com/rancher-sandbox/cocoup/pkg/defaults"
	"github.com/rancher-sandbox/cocoup/pkg/oci"
	"github.com/rancher-sandbox/cocoup/pkg/payload"
)

// buildCmdOptions holds parsed options for the build command.
type buildCmdOptions struct {
	dir         string
	publish     bool
	registry    string
	repository  string
	tag         string
	plainHTTP   bool
	insecureTLS bool
}

// parseBuildCmdOptions parses and validates command options.
func parseBuildCmdOptions(cmd *cli.Command) (*buildCmdOptions, error) {
	opts := &buildCmdOptions{
		dir:         cmd.String("dir"),
		publish:     cmd.Bool("publish"),
		registry:    cmd.String("registry"),
		repository:  cmd.String("repository"),
		tag:         cmd.String("tag"),
		plainHTTP:   cmd.Bool("plain-http"),
		insecureTLS: cmd.Bool("insecure-tls"),
	}

	// The publish flags only matter with --publish; reject obviously bad
	// combinations before any build work starts.
	if !opts.publish {
		for _, name := range []string{"registry", "repository", "tag", "plain-http", "insecure-tls"} {
			if cmd.IsSet(name) {
				return nil, fmt.Errorf("--%s requires --publish", name)
			}
		}
		return opts, nil
	}

	if opts.registry == "" {
		return nil, fmt.Errorf("--registry is required with --publish")
	}
	if opts.repository == "" {
		return nil, fmt.Errorf("--repository is required with --publish")
	}
	if err := oci.ValidateRegistryReference(opts.registry, opts.repository); err != nil {
		return nil, fmt.Errorf("invalid OCI reference: %w", err)
	}
	return opts, nil
}

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:                  "build",
		EnableShellCompletion: true,
		Usage:                 "Build Custom Payload (Multi-Arch, Dockerized)",
		Description: `Build the enclave-cc payload image for the host architecture.

The build regenerates a scratch context under <dir>/rancher-desktop/, writes
the runtime configuration artifacts into it, and runs a multi-stage nerdctl
build straight into the cluster's containerd namespace. No registry is
involved; the image is immediately visible to the kubelet.

The payload version comes from ` + defaults.ConfigFileName + ` in the checkout
directory (key ` + defaults.ConfigKeyPayloadVersion + `) and falls back to the
built-in default.

With --publish the build context is additionally packaged as an OCI artifact
and pushed, so other machines can reproduce the exact same build. The
default target is an ephemeral registry; artifacts expire there after the
tag's TTL.

# Examples

Build from the current checkout:
  cocoup build

Build a different checkout without prompts:
  cocoup build -d ~/src/coco-infra -y

Build and publish the build context:
  cocoup build --publish

Publish to a local registry over HTTP:
  cocoup build --publish --registry localhost:5000 --plain-http`,
		Flags: []cli.Flag{
			dirFlag,
			kubeconfigFlag,
			contextFlag,
			yesFlag,
			&cli.BoolFlag{
				Name:  "publish",
				Usage: "push the build context to an OCI registry after building",
			},
			&cli.StringFlag{
				Name:  "registry",
				Value: defaults.PublishRegistry,
				Usage: "OCI registry host to publish to",
			},
			&cli.StringFlag{
				Name:  "repository",
				Value: defaults.PublishRepository,
				Usage: "repository path within the registry",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "tag for the published artifact (default: payload version)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "use HTTP instead of HTTPS for the registry connection",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "skip TLS certificate verification for the registry",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseBuildCmdOptions(cmd)
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			_, info, err := checkPrereqs(ctx, cmd, p)
			if err != nil {
				return err
			}

			cfg := config.Load(opts.dir)
			payloadVersion := cfg.Version(defaults.ConfigKeyPayloadVersion, defaults.PayloadVersion)

			layout := payload.Layout{Dir: opts.dir}
			builder := payload.Builder{
				Platform: info,
				Printer:  p,
				Layout:   layout,
				Version:  payloadVersion,
			}
			if err := builder.Build(ctx); err != nil {
				return err
			}

			if !opts.publish {
				return nil
			}

			tag := opts.tag
			if tag == "" {
				tag = payloadVersion
			}

			ocip := info.OCIPlatform()
			annotations := oci.DefaultAnnotations(payloadVersion)
			annotations[oci.AnnotationTargetPlatform] = ocip.OS + "/" + ocip.Architecture

			p.Section("publishing payload build context")
			result, err := oci.Publish(ctx, oci.PublishOptions{
				SourceDir:   layout.BuildContext(),
				OutputDir:   layout.PublishStore(),
				Registry:    opts.registry,
				Repository:  opts.repository,
				Tag:         tag,
				Version:     payloadVersion,
				PlainHTTP:   opts.plainHTTP,
				InsecureTLS: opts.insecureTLS,
				Annotations: annotations,
			})
			if err != nil {
				return err
			}

			p.Infof("Published %s", result.Reference)
			p.Infof("Pull with: oras pull %s", result.Reference)
			slog.Info("build context published",
				"reference", result.Reference,
				"digest", result.Digest,
				"platform", annotations[oci.AnnotationTargetPlatform])
			return nil
		},
	}
}
