/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package kubectl is the single boundary between cocoup and the cluster.
// Every cluster interaction, declarative or imperative, funnels through a
// Runner so output capture, rate limiting, and failure reporting live in
// one place. The kubectl binary is used rather than a client library
// because setup depends on remote kustomize application and validate on
// in-pod command execution.
package kubectl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/time/rate"

	"github.com/rancher-sandbox/cocoup/pkg/defaults"
)

// binaryName is the cluster CLI resolved from PATH.
const binaryName = "kubectl"

// Invocation rate cap. Polling loops and diagnostics fan out many short
// calls; the cap keeps a misconfigured interval from hammering the local
// API server.
const (
	rateLimit = rate.Limit(5)
	rateBurst = 5
)

// Commander executes a binary with optional stdin and returns the captured
// streams. Tests substitute this seam to simulate cluster responses.
type Commander func(ctx context.Context, stdin, name string, args ...string) (stdout, stderr []byte, err error)

// Options configure a Runner. Zero values defer to kubectl's own kubeconfig
// and context resolution.
type Options struct {
	// Kubeconfig is forwarded as --kubeconfig when set.
	Kubeconfig string
	// Context is forwarded as --context when set.
	Context string
}

// Runner invokes kubectl with shared global arguments, a per-call timeout,
// and captured output.
type Runner struct {
	bin     string
	opts    Options
	limiter *rate.Limiter
	run     Commander
}

// LookPath reports where the kubectl binary resolves from PATH.
func LookPath() (string, error) {
	return exec.LookPath(binaryName)
}

// New resolves kubectl from PATH and returns a Runner around it.
func New(opts Options) (*Runner, error) {
	bin, err := LookPath()
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", binaryName, err)
	}
	return &Runner{
		bin:     bin,
		opts:    opts,
		limiter: rate.NewLimiter(rateLimit, rateBurst),
		run:     execCommander,
	}, nil
}

// NewWithCommander builds a Runner around an explicit command executor,
// skipping PATH resolution. Tests use it to substitute the process boundary.
func NewWithCommander(opts Options, run Commander) *Runner {
	return &Runner{
		bin:     binaryName,
		opts:    opts,
		limiter: rate.NewLimiter(rateLimit, rateBurst),
		run:     run,
	}
}

// Run invokes kubectl with args and returns trimmed stdout. A non-zero exit
// yields an error carrying the captured stderr.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	return r.RunInput(ctx, "", args...)
}

// RunInput is Run with manifest text supplied on stdin, for apply -f -.
func (r *Runner) RunInput(ctx context.Context, stdin string, args ...string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("kubectl invoked without arguments")
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	full := r.globalArgs()
	full = append(full, args...)

	ctx, cancel := context.WithTimeout(ctx, defaults.KubectlTimeout)
	defer cancel()

	slog.Debug("kubectl", "args", strings.Join(args, " "))
	stdout, stderr, err := r.run(ctx, stdin, r.bin, full...)
	if err != nil {
		return strings.TrimSpace(string(stdout)),
			fmt.Errorf("kubectl %s failed: %w: %s", args[0], err, strings.TrimSpace(string(stderr)))
	}
	return strings.TrimSpace(string(stdout)), nil
}

// GetInto runs kubectl get with JSON output and decodes the response into
// out, which should be a pointer to the matching API type.
func (r *Runner) GetInto(ctx context.Context, out any, args ...string) error {
	full := append([]string{"get"}, args...)
	full = append(full, "-o", "json")

	stdout, err := r.Run(ctx, full...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stdout), out); err != nil {
		return fmt.Errorf("failed to parse kubectl get output: %w", err)
	}
	return nil
}

// ApplyStdin applies manifest text with create-or-update semantics.
func (r *Runner) ApplyStdin(ctx context.Context, manifest string) error {
	_, err := r.RunInput(ctx, manifest, "apply", "-f", "-")
	return err
}

// ApplyKustomize applies a kustomize target, local path or remote URL.
func (r *Runner) ApplyKustomize(ctx context.Context, target string) error {
	_, err := r.Run(ctx, "apply", "-k", target)
	return err
}

func (r *Runner) globalArgs() []string {
	var args []string
	if r.opts.Kubeconfig != "" {
		args = append(args, "--kubeconfig", r.opts.Kubeconfig)
	}
	if r.opts.Context != "" {
		args = append(args, "--context", r.opts.Context)
	}
	return args
}

// execCommander is the production Commander.
func execCommander(ctx context.Context, stdin, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
