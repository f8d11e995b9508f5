/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package prereq verifies the workstation can run the deployment workflow.
// Missing kubectl and an unreachable cluster are fatal; virtualization
// findings degrade to warnings so an install can still be attempted.
package prereq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/rancher-sandbox/cocoup/pkg/header"
	"github.com/rancher-sandbox/cocoup/pkg/kubectl"
	"github.com/rancher-sandbox/cocoup/pkg/platform"
	"github.com/rancher-sandbox/cocoup/pkg/ui"
)

// Confirmer answers the yes/no prompts that gate privileged fixes.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Report is the machine-readable outcome of a prerequisite run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Platform         platform.Info `json:"platform" yaml:"platform"`
	KubectlPath      string        `json:"kubectlPath" yaml:"kubectlPath"`
	KubectlInstalled bool          `json:"kubectlInstalled" yaml:"kubectlInstalled"`
	Kubeconfig       string        `json:"kubeconfig,omitempty" yaml:"kubeconfig,omitempty"`
	Context          string        `json:"context,omitempty" yaml:"context,omitempty"`
	ClusterReachable bool          `json:"clusterReachable" yaml:"clusterReachable"`
	Warnings         []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Checker runs the prerequisite checks in order. The function fields
// default to the real implementations when nil.
type Checker struct {
	Platform   platform.Info
	Printer    *ui.Printer
	Confirm    Confirmer
	Kubeconfig string
	Context    string

	// Version is stamped into the report header. Empty is fine.
	Version string

	lookPath    func() (string, error)
	clusterInfo func(ctx context.Context) error
	install     func(ctx context.Context) error
	access      func(path string, mode uint32) error
	runCmd      func(ctx context.Context, name string, args ...string) error
}

func (c *Checker) init() {
	if c.lookPath == nil {
		c.lookPath = kubectl.LookPath
	}
	if c.clusterInfo == nil {
		c.clusterInfo = c.kubectlClusterInfo
	}
	if c.install == nil {
		c.install = c.installKubectl
	}
	if c.access == nil {
		c.access = unix.Access
	}
	if c.runCmd == nil {
		c.runCmd = runCommand
	}
}

// Run checks kubectl presence, cluster connectivity, and host
// virtualization. A missing kubectl triggers a confirmed install attempt
// before failing.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	c.init()
	c.Printer.Section("checking prerequisites")

	report := &Report{Platform: c.Platform}
	report.Init(header.KindPrereqReport, c.Version)

	path, installed, err := c.ensureKubectl(ctx)
	if err != nil {
		return report, err
	}
	report.KubectlPath = path
	report.KubectlInstalled = installed
	c.Printer.Infof("kubectl found.")

	report.Kubeconfig = kubectl.ResolveKubeconfig(c.Kubeconfig)
	report.Context = c.Context
	if report.Context == "" {
		report.Context = kubectl.CurrentContext(report.Kubeconfig)
	}

	if err := c.clusterInfo(ctx); err != nil {
		return report, fmt.Errorf("cannot connect to the Kubernetes cluster (is Rancher Desktop running?): %w", err)
	}
	report.ClusterReachable = true
	c.Printer.Infof("Connected to Kubernetes cluster.")

	c.Printer.Infof("Detected Platform: OS=%s, Arch=%s", c.Platform.OS, c.Platform.Arch)
	slog.Debug("platform classified",
		slog.String("os", string(c.Platform.OS)),
		slog.String("arch", string(c.Platform.Arch)),
		slog.String("init_system", string(c.Platform.InitSystem)))

	c.checkVirtualization(ctx, report)

	return report, nil
}

func (c *Checker) ensureKubectl(ctx context.Context) (path string, installed bool, err error) {
	path, err = c.lookPath()
	if err == nil {
		return path, false, nil
	}

	c.Printer.Warnf("kubectl not found in PATH.")
	ok, err := c.Confirm.Confirm("Do you want to attempt to install kubectl automatically?")
	if err != nil {
		return "", false, fmt.Errorf("reading confirmation: %w", err)
	}
	if !ok {
		return "", false, errors.New("kubectl is required, install it and re-run")
	}

	if err := c.install(ctx); err != nil {
		return "", false, err
	}
	path, err = c.lookPath()
	if err != nil {
		return "", false, errors.New("kubectl still not in PATH after install, install it manually")
	}
	return path, true, nil
}

func (c *Checker) kubectlClusterInfo(ctx context.Context) error {
	run, err := kubectl.New(kubectl.Options{Kubeconfig: c.Kubeconfig, Context: c.Context})
	if err != nil {
		return err
	}
	_, err = run.Run(ctx, "cluster-info")
	return err
}

// checkVirtualization inspects the KVM device node on hosts where the
// cluster VM depends on it. Findings never fail the run.
func (c *Checker) checkVirtualization(ctx context.Context, report *Report) {
	switch c.Platform.OS {
	case platform.OSLinux:
		if c.access(platform.VirtualizationDevice, unix.W_OK) == nil {
			return
		}
		c.Printer.Warnf("%s is not writable by the current user.", platform.VirtualizationDevice)
		report.Warnings = append(report.Warnings, "kvm device not writable by current user")
		c.offerKVMGroupFix(ctx)
	case platform.OSWSL:
		if c.access(platform.VirtualizationDevice, unix.R_OK) == nil {
			c.Printer.Infof("KVM device node found (%s).", platform.VirtualizationDevice)
			return
		}
		c.Printer.Warnf("%s not readable. Ensure 'nestedVirtualization=true' is set in .wslconfig.", platform.VirtualizationDevice)
		report.Warnings = append(report.Warnings, "kvm device not readable, set nestedVirtualization=true in .wslconfig")
	}
}

func (c *Checker) offerKVMGroupFix(ctx context.Context) {
	user := os.Getenv("USER")
	ok, err := c.Confirm.Confirm(fmt.Sprintf("Add user '%s' to 'kvm' group? (Requires sudo)", user))
	if err != nil || !ok {
		c.Printer.Warnf("Skipping KVM permission fix. CoCo may fail.")
		return
	}
	if err := c.runCmd(ctx, "sudo", "usermod", "-aG", "kvm", user); err != nil {
		c.Printer.Errorf("Failed to add user to kvm group: %v", err)
		return
	}
	c.Printer.Infof("User added to the kvm group. Log out and back in for it to take effect.")
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s failed: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
