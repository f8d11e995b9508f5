/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package payload assembles the enclave-cc payload image: a scratch build
// context with generated configuration artifacts, handed to nerdctl so the
// image lands directly in the cluster's containerd namespace without a
// registry round trip.
package payload

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/distribution/reference"

	"github.com/rancher-sandbox/cocoup/pkg/defaults"
	"github.com/rancher-sandbox/cocoup/pkg/platform"
	"github.com/rancher-sandbox/cocoup/pkg/ui"
)

// Layout anchors every path the build touches at the workspace directory.
type Layout struct {
	Dir string
}

// PayloadDir holds the Dockerfile and its static inputs. It ships with the
// checkout and is never generated.
func (l Layout) PayloadDir() string {
	return filepath.Join(l.Dir, "containers", "coco-payload")
}

// Dockerfile is the multi-stage build definition inside PayloadDir.
func (l Layout) Dockerfile() string {
	return filepath.Join(l.PayloadDir(), "Dockerfile")
}

// BuildContext is the scratch directory recreated on every build and left
// behind afterward for inspection.
func (l Layout) BuildContext() string {
	return filepath.Join(l.Dir, "rancher-desktop", "payload-build-ctx")
}

// ArtifactsDir receives the generated configuration files inside the build
// context.
func (l Layout) ArtifactsDir() string {
	return filepath.Join(l.BuildContext(), "artifacts")
}

// PublishStore is the OCI layout directory build --publish stages into
// before pushing. Kept next to the build context so both survive for
// inspection.
func (l Layout) PublishStore() string {
	return filepath.Join(l.Dir, "rancher-desktop", "payload-oci-store")
}

// ImageRef is the fixed reference the CcRuntime manifest pulls. Build and
// manifest must agree on it.
func ImageRef() string {
	return defaults.PayloadImageRepo + ":" + defaults.PayloadImageTag
}

func versionRef(version string) string {
	return defaults.PayloadImageRepo + ":" + version
}

// Commander runs the external build tool with output streamed through to
// the user. Swapped in tests.
type Commander func(ctx context.Context, name string, args ...string) error

// Builder produces the payload image for the detected platform.
type Builder struct {
	Platform platform.Info
	Printer  *ui.Printer
	Layout   Layout

	// Version is the payload release passed to the build as COCO_VERSION
	// and applied as an extra image tag.
	Version string

	run Commander
}

func (b *Builder) init() {
	if b.run == nil {
		b.run = streamCommander
	}
}

// Prepare recreates the scratch build context and writes the generated
// artifacts. Any previous context is discarded first.
func (b *Builder) Prepare() error {
	ctxDir := b.Layout.BuildContext()
	if err := os.RemoveAll(ctxDir); err != nil {
		return fmt.Errorf("clearing build context %s: %w", ctxDir, err)
	}
	artifacts := b.Layout.ArtifactsDir()
	if err := os.MkdirAll(artifacts, 0o755); err != nil {
		return fmt.Errorf("creating build context %s: %w", artifacts, err)
	}

	b.Printer.Infof("Generating configuration files in %s/...", artifacts)
	files := map[string]string{
		"enclave-cc.yaml":       runtimeClassArtifact,
		"config.json":           bundleSpecArtifact,
		"shim-rune-config.toml": shimConfigArtifact,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(artifacts, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing artifact %s: %w", name, err)
		}
	}
	return nil
}

// Build prepares the context and runs the image build. A non-zero exit from
// the build tool is fatal; the scratch context stays on disk either way.
func (b *Builder) Build(ctx context.Context) error {
	b.init()
	b.Printer.Section("building custom coco payload")

	b.Printer.Infof("Detected Platform for Build: OS=%s, Arch=%s", b.Platform.OS, b.Platform.Arch)

	if _, err := os.Stat(b.Layout.PayloadDir()); err != nil {
		return fmt.Errorf("payload directory not found at %s: %w", b.Layout.PayloadDir(), err)
	}

	arch := b.Platform.BuildArch()
	b.Printer.Infof("Target Architecture: %s", arch)

	image := ImageRef()
	alias := versionRef(b.Version)
	for _, ref := range []string{image, alias} {
		if _, err := reference.Parse(ref); err != nil {
			return fmt.Errorf("invalid image reference %s: %w", ref, err)
		}
	}

	if err := b.Prepare(); err != nil {
		return err
	}

	b.Printer.Infof("Starting Multi-Stage Image Build (Version: %s)...", b.Version)
	ctx, cancel := context.WithTimeout(ctx, defaults.BuildTimeout)
	defer cancel()

	args := []string{
		"--namespace", defaults.ContainerdNamespace, "build",
		"--build-arg", "TARGETARCH=" + arch,
		"--build-arg", "COCO_VERSION=" + b.Version,
		"-f", b.Layout.Dockerfile(),
		"-t", image,
	}
	if alias != image {
		args = append(args, "-t", alias)
	}
	args = append(args, b.Layout.BuildContext())

	if err := b.run(ctx, "nerdctl", args...); err != nil {
		return fmt.Errorf("payload image build failed: %w", err)
	}

	b.Printer.Infof("Build Successful.")
	b.Printer.Infof("Skipping push for local image (%s). It should be available in '%s' namespace.", image, defaults.ContainerdNamespace)
	b.Printer.Infof("Verify with: nerdctl -n %s images | grep coco", defaults.ContainerdNamespace)
	return nil
}

func streamCommander(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
