/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package ui renders human-facing command output. All state is carried by an
// explicit Printer value so color behavior is decided once at construction
// and never through process-wide globals.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode selects how a Printer decides whether to emit ANSI colors.
type ColorMode string

const (
	// ColorAuto enables color only when the writer is an interactive
	// terminal and NO_COLOR is unset.
	ColorAuto ColorMode = "auto"
	// ColorAlways enables color unconditionally.
	ColorAlways ColorMode = "always"
	// ColorNever disables color unconditionally.
	ColorNever ColorMode = "never"
)

// Options configure a Printer. The zero value writes plain text to stderr
// unless stderr is a terminal.
type Options struct {
	// Writer receives all output. Defaults to os.Stderr, keeping stdout free
	// for machine-readable reports.
	Writer io.Writer
	// Mode controls color emission. Defaults to ColorAuto.
	Mode ColorMode
}

// Printer writes prefixed status lines and section banners.
type Printer struct {
	out    io.Writer
	info   *color.Color
	warn   *color.Color
	fail   *color.Color
	ask    *color.Color
	banner *color.Color
}

// NewPrinter resolves color state from opts and returns a ready Printer.
func NewPrinter(opts Options) *Printer {
	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}

	var enabled bool
	switch opts.Mode {
	case ColorAlways:
		enabled = true
	case ColorNever:
		enabled = false
	default:
		enabled = wantColor(out)
	}

	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}

	return &Printer{
		out:    out,
		info:   mk(color.FgGreen),
		warn:   mk(color.FgYellow),
		fail:   mk(color.FgRed),
		ask:    mk(color.FgYellow),
		banner: mk(color.FgBlue),
	}
}

// wantColor reports whether out is an interactive terminal with NO_COLOR
// unset.
func wantColor(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Infof writes an informational status line.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.info.Sprint("[INFO]"), fmt.Sprintf(format, args...))
}

// Warnf writes a warning line for advisory conditions the run survives.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.warn.Sprint("[WARN]"), fmt.Sprintf(format, args...))
}

// Errorf writes an error line. It does not terminate anything; the caller
// decides what the error means.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.fail.Sprint("[ERROR]"), fmt.Sprintf(format, args...))
}

// Promptf writes a question prefix without a trailing newline so input can
// be read on the same line.
func (p *Printer) Promptf(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s", p.ask.Sprint("[?]"), fmt.Sprintf(format, args...))
}

// Plainf writes a line with no prefix or color, for relaying raw output
// from other tools.
func (p *Printer) Plainf(format string, args ...any) {
	fmt.Fprintf(p.out, "%s\n", fmt.Sprintf(format, args...))
}

// sectionWidth is the banner rule width.
const sectionWidth = 60

// Section writes a banner announcing a new phase of work. Lowercase titles
// are normalized through TitleCase.
func (p *Printer) Section(title string) {
	rule := strings.Repeat("=", sectionWidth)
	fmt.Fprintf(p.out, "\n%s\n", p.banner.Sprint(rule))
	fmt.Fprintf(p.out, "%s\n", p.banner.Sprint("  "+TitleCase(title)))
	fmt.Fprintf(p.out, "%s\n\n", p.banner.Sprint(rule))
}
