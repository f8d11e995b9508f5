/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/rancher-sandbox/cocoup/pkg/serializer"
	"github.com/rancher-sandbox/cocoup/pkg/ui"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{
			name:       "valid yaml format",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "valid json format",
			format:     "json",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:       "valid table format",
			format:     "table",
			wantFormat: serializer.FormatTable,
		},
		{
			name:    "invalid format xml",
			format:  "xml",
			wantErr: true,
		},
		{
			name:    "invalid format csv",
			format:  "csv",
			wantErr: true,
		},
		{
			name:    "empty format",
			format:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestParseOutputFormatErrorListsSupported(t *testing.T) {
	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: "xml"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			_, err := parseOutputFormat(c)
			if err == nil {
				t.Fatal("expected error for xml format")
			}
			for _, want := range []string{"xml", "json", "yaml", "table"} {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
		t.Fatalf("failed to run command: %v", err)
	}
}

func TestNewConfirmer(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantAsk bool
	}{
		{
			name:    "interactive by default",
			args:    []string{"test"},
			wantAsk: true,
		},
		{
			name: "always yes with flag",
			args: []string{"test", "--yes"},
		},
		{
			name: "always yes with alias",
			args: []string{"test", "-y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					p := ui.NewPrinter(ui.Options{Mode: ui.ColorNever})
					confirm := newConfirmer(c, p)
					_, isAsk := confirm.(*ui.AskConfirmer)
					if isAsk != tt.wantAsk {
						t.Errorf("confirmer = %T, wantAsk %v", confirm, tt.wantAsk)
					}
					if !tt.wantAsk {
						ok, err := confirm.Confirm("proceed?")
						if err != nil || !ok {
							t.Errorf("Confirm() = %v, %v, want true, nil", ok, err)
						}
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestWriteReportSkippedWithoutFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")

	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: "yaml"},
			&cli.StringFlag{Name: "output"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			return writeReport(c, map[string]string{"key": "value"})
		},
	}

	if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
		t.Fatalf("failed to run command: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("report file should not exist without --format or --output")
	}
}

func TestWriteReportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")

	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: "yaml"},
			&cli.StringFlag{Name: "output"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			return writeReport(c, map[string]string{"kernel": "6.1.62-coco-guest"})
		},
	}

	if err := cmd.Run(context.Background(), []string{"test", "--output", path}); err != nil {
		t.Fatalf("failed to run command: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "kernel: 6.1.62-coco-guest") {
		t.Errorf("report = %q, want kernel entry", data)
	}
}

func TestWriteReportRejectsUnknownFormat(t *testing.T) {
	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format"},
			&cli.StringFlag{Name: "output"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			err := writeReport(c, map[string]string{"key": "value"})
			if err == nil {
				t.Error("expected error for unknown format")
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), []string{"test", "--format", "xml"}); err != nil {
		t.Fatalf("failed to run command: %v", err)
	}
}
