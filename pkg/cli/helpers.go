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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rancher-sandbox/cocoup/pkg/platform"
	"github.com/rancher-sandbox/cocoup/pkg/prereq"
	"github.com/rancher-sandbox/cocoup/pkg/serializer"
	"github.com/rancher-sandbox/cocoup/pkg/ui"
)

// Flags shared across subcommands. Declared once so names, aliases, and
// usage strings stay consistent.
var (
	dirFlag = &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Value:   ".",
		Usage:   "infrastructure checkout directory (contains containers/coco-payload)",
		Sources: cli.EnvVars("COCOUP_DIR"),
	}

	kubeconfigFlag = &cli.StringFlag{
		Name:  "kubeconfig",
		Usage: "path to the kubeconfig file (default: standard kubectl resolution)",
	}

	contextFlag = &cli.StringFlag{
		Name:  "context",
		Usage: "kubeconfig context to target (default: current-context)",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "answer yes to every prompt (non-interactive use)",
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write the report to this file instead of stdout",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   "report format: yaml, json, or table",
	}
)

// parseOutputFormat reads and validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q (supported: %s)",
			format, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return format, nil
}

// newPrinter builds the status printer honoring the root --no-color flag.
func newPrinter(cmd *cli.Command) *ui.Printer {
	mode := ui.ColorAuto
	if cmd.Root().Bool("no-color") {
		mode = ui.ColorNever
	}
	return ui.NewPrinter(ui.Options{Mode: mode})
}

// newConfirmer answers prompts from stdin, or always-yes under --yes.
func newConfirmer(cmd *cli.Command, p *ui.Printer) prereq.Confirmer {
	if cmd.Bool("yes") {
		return ui.AnswerConfirmer(true)
	}
	return &ui.AskConfirmer{In: os.Stdin, Printer: p}
}

// checkPrereqs runs the prerequisite gate every subcommand starts with.
// The detected platform is returned for reuse so commands never probe the
// host twice.
func checkPrereqs(ctx context.Context, cmd *cli.Command, p *ui.Printer) (*prereq.Report, platform.Info, error) {
	info := platform.Detect()
	checker := prereq.Checker{
		Platform:   info,
		Printer:    p,
		Confirm:    newConfirmer(cmd, p),
		Kubeconfig: cmd.String("kubeconfig"),
		Context:    cmd.String("context"),
		Version:    version,
	}
	report, err := checker.Run(ctx)
	return report, info, err
}

// writeReport serializes a command report when the user asked for one via
// --format or --output. Human-readable status always goes through the
// printer; this is the machine-readable channel.
func writeReport(cmd *cli.Command, report any) error {
	if !cmd.IsSet("format") && !cmd.IsSet("output") {
		return nil
	}

	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	w := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			slog.Warn("failed to close report writer", "error", closeErr)
		}
	}()

	if err := w.Serialize(report); err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	return nil
}
