/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"fmt"
	"log/slog"
)

// PublishOptions configures the package-and-push workflow.
type PublishOptions struct {
	// SourceDir is the directory containing artifacts to publish.
	SourceDir string
	// OutputDir is where the local OCI Image Layout will be created.
	OutputDir string
	// Registry is the OCI registry host.
	Registry string
	// Repository is the image repository path.
	Repository string
	// Tag is the image tag.
	Tag string
	// Version is used for the org.opencontainers.image.version annotation.
	Version string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// Annotations are additional manifest annotations. If nil, default
	// cocoup annotations are used.
	Annotations map[string]string
}

// PublishResult contains the result of a successful publish.
type PublishResult struct {
	// Digest is the SHA256 digest of the pushed artifact.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
	// StorePath is the path to the local OCI Image Layout directory.
	StorePath string
}

// Publish packages SourceDir as an OCI artifact and pushes it to a registry.
// The local layout under OutputDir survives the push, so a failed upload can
// be retried without re-staging.
func Publish(ctx context.Context, opts PublishOptions) (*PublishResult, error) {
	if err := ValidateRegistryReference(opts.Registry, opts.Repository); err != nil {
		return nil, err
	}
	if opts.Tag == "" {
		return nil, fmt.Errorf("tag is required to publish OCI artifact")
	}

	annotations := opts.Annotations
	if annotations == nil {
		annotations = DefaultAnnotations(opts.Version)
	}

	slog.Info("packaging build context as OCI artifact",
		"registry", opts.Registry,
		"repository", opts.Repository,
		"tag", opts.Tag,
	)

	packageResult, err := Package(ctx, PackageOptions{
		SourceDir:   opts.SourceDir,
		OutputDir:   opts.OutputDir,
		Registry:    opts.Registry,
		Repository:  opts.Repository,
		Tag:         opts.Tag,
		Annotations: annotations,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to package OCI artifact: %w", err)
	}

	slog.Info("OCI artifact packaged locally",
		"reference", packageResult.Reference,
		"digest", packageResult.Digest,
		"store_path", packageResult.StorePath,
	)

	pushResult, err := PushFromStore(ctx, packageResult.StorePath, PushOptions{
		Registry:    opts.Registry,
		Repository:  opts.Repository,
		Tag:         opts.Tag,
		PlainHTTP:   opts.PlainHTTP,
		InsecureTLS: opts.InsecureTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to push OCI artifact to registry: %w", err)
	}

	slog.Info("OCI artifact pushed",
		"reference", pushResult.Reference,
		"digest", pushResult.Digest,
	)

	return &PublishResult{
		Digest:    pushResult.Digest,
		Reference: pushResult.Reference,
		StorePath: packageResult.StorePath,
	}, nil
}

// DefaultAnnotations returns the standard manifest annotations applied to
// published artifacts.
func DefaultAnnotations(version string) map[string]string {
	return map[string]string{
		"org.opencontainers.image.version": version,
		"org.opencontainers.image.vendor":  "SUSE",
		"org.opencontainers.image.title":   "CoCo payload build context",
		"org.opencontainers.image.source":  "https://github.com/rancher-sandbox/cocoup",
	}
}
