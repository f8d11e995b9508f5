/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package ui

import (
	"bufio"
	"io"
	"strings"
)

// AskConfirmer asks yes/no questions interactively, re-asking until the
// answer parses as yes or no.
type AskConfirmer struct {
	In      io.Reader
	Printer *Printer
}

// Confirm prompts with question and reads the answer from In. A closed input
// stream returns io.EOF so headless callers fail loudly instead of hanging
// on a default.
func (c *AskConfirmer) Confirm(question string) (bool, error) {
	scanner := bufio.NewScanner(c.In)
	for {
		c.Printer.Promptf("%s (y/n): ", question)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, err
			}
			return false, io.EOF
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// AnswerConfirmer answers every question the same way without prompting.
// AnswerConfirmer(true) backs the --yes flag.
type AnswerConfirmer bool

// Confirm returns the fixed answer.
func (c AnswerConfirmer) Confirm(string) (bool, error) {
	return bool(c), nil
}
