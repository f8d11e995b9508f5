/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/rancher-sandbox/cocoup/pkg/defaults"
)

func TestParseBuildCmdOptions(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantError bool
		errMsg    string
		validate  func(*testing.T, *buildCmdOptions)
	}{
		{
			name: "defaults without publish",
			args: []string{"cmd"},
			validate: func(t *testing.T, o *buildCmdOptions) {
				if o.dir != "." {
					t.Errorf("dir = %q, want .", o.dir)
				}
				if o.publish {
					t.Error("publish = true, want false")
				}
			},
		},
		{
			name: "publish with default targets",
			args: []string{"cmd", "--publish"},
			validate: func(t *testing.T, o *buildCmdOptions) {
				if !o.publish {
					t.Error("publish = false, want true")
				}
				if o.registry != defaults.PublishRegistry {
					t.Errorf("registry = %q, want %q", o.registry, defaults.PublishRegistry)
				}
				if o.repository != defaults.PublishRepository {
					t.Errorf("repository = %q, want %q", o.repository, defaults.PublishRepository)
				}
				if o.tag != "" {
					t.Errorf("tag = %q, want empty (resolved later)", o.tag)
				}
			},
		},
		{
			name: "publish to local registry",
			args: []string{"cmd", "--publish", "--registry", "localhost:5000", "--tag", "dev", "--plain-http"},
			validate: func(t *testing.T, o *buildCmdOptions) {
				if o.registry != "localhost:5000" {
					t.Errorf("registry = %q, want localhost:5000", o.registry)
				}
				if o.tag != "dev" {
					t.Errorf("tag = %q, want dev", o.tag)
				}
				if !o.plainHTTP {
					t.Error("plainHTTP = false, want true")
				}
			},
		},
		{
			name:      "registry without publish",
			args:      []string{"cmd", "--registry", "localhost:5000"},
			wantError: true,
			errMsg:    "--registry requires --publish",
		},
		{
			name:      "plain-http without publish",
			args:      []string{"cmd", "--plain-http"},
			wantError: true,
			errMsg:    "--plain-http requires --publish",
		},
		{
			name:      "publish with empty registry",
			args:      []string{"cmd", "--publish", "--registry", ""},
			wantError: true,
			errMsg:    "--registry is required",
		},
		{
			name:      "publish with empty repository",
			args:      []string{"cmd", "--publish", "--repository", ""},
			wantError: true,
			errMsg:    "--repository is required",
		},
		{
			name:      "publish with invalid repository",
			args:      []string{"cmd", "--publish", "--repository", "Has Spaces"},
			wantError: true,
			errMsg:    "invalid OCI reference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedOpts *buildCmdOptions
			var capturedErr error

			testCmd := &cli.Command{
				Name: "test",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "."},
					&cli.BoolFlag{Name: "publish"},
					&cli.StringFlag{Name: "registry", Value: defaults.PublishRegistry},
					&cli.StringFlag{Name: "repository", Value: defaults.PublishRepository},
					&cli.StringFlag{Name: "tag"},
					&cli.BoolFlag{Name: "plain-http"},
					&cli.BoolFlag{Name: "insecure-tls"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					capturedOpts, capturedErr = parseBuildCmdOptions(cmd)
					return capturedErr
				},
			}

			err := testCmd.Run(context.Background(), tt.args)

			if tt.wantError {
				if err == nil && capturedErr == nil {
					t.Error("expected error but got nil")
					return
				}
				errToCheck := err
				if capturedErr != nil {
					errToCheck = capturedErr
				}
				if tt.errMsg != "" && !strings.Contains(errToCheck.Error(), tt.errMsg) {
					t.Errorf("error = %v, want error containing %v", errToCheck, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, capturedOpts)
			}
		})
	}
}
