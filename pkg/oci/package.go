/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"golang.org/x/sync/errgroup"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/content/oci"
)

// ArtifactType is the media type for cocoup OCI artifacts.
const ArtifactType = "application/vnd.rancher.cocoup.artifact"

// AnnotationTargetPlatform records which platform the packaged build
// context targets. Payload artifacts differ per architecture, so consumers
// need this to pick the right one.
const AnnotationTargetPlatform = "com.rancher.cocoup.target-platform"

// reproducibleCreated pins the manifest created annotation so identical
// build contexts produce identical digests. Callers can override it through
// PackageOptions.Annotations.
const reproducibleCreated = "1970-01-01T00:00:00Z"

// PackageOptions configures packaging a directory into a local OCI layout.
type PackageOptions struct {
	// SourceDir is the directory containing artifacts to package.
	SourceDir string
	// OutputDir is where the OCI Image Layout will be created.
	OutputDir string
	// Registry is the OCI registry host (e.g., "ttl.sh", "localhost:5000").
	Registry string
	// Repository is the image repository path (e.g., "rancher-sandbox/coco-payload").
	Repository string
	// Tag is the image tag (e.g., "v0.11.0").
	Tag string
	// Annotations are manifest annotations to include.
	Annotations map[string]string
}

// PackageResult contains the result of a successful packaging operation.
type PackageResult struct {
	// Digest is the SHA256 digest of the packaged manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
	// StorePath is the path to the local OCI Image Layout directory.
	StorePath string
}

// Package stages every top-level entry of SourceDir as a layer, packs an
// OCI 1.1 manifest around them, and copies the result into an OCI Image
// Layout under OutputDir. Nothing touches the network.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	if opts.Tag == "" {
		return nil, fmt.Errorf("tag is required for OCI packaging")
	}
	if opts.Registry == "" {
		return nil, fmt.Errorf("registry is required for OCI packaging")
	}
	if opts.Repository == "" {
		return nil, fmt.Errorf("repository is required for OCI packaging")
	}

	absSourceDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}
	absOutputDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	registryHost := stripProtocol(opts.Registry)
	refString := fmt.Sprintf("%s/%s:%s", registryHost, opts.Repository, opts.Tag)
	if _, parseErr := reference.ParseNormalizedNamed(refString); parseErr != nil {
		return nil, fmt.Errorf("invalid image reference '%s': %w", refString, parseErr)
	}

	entries, err := os.ReadDir(absSourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("source directory %s is empty", absSourceDir)
	}

	fs, err := file.New(absSourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	// Make tars deterministic for reproducible digests
	fs.TarReproducible = true

	// Stage entries concurrently; the indexed slice keeps layer order
	// matching the (sorted) directory listing.
	layers := make([]ociv1.Descriptor, len(entries))
	g, groupCtx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		g.Go(func() error {
			desc, addErr := fs.Add(groupCtx, entry.Name(), entryMediaType(entry), filepath.Join(absSourceDir, entry.Name()))
			if addErr != nil {
				return fmt.Errorf("failed to stage %s: %w", entry.Name(), addErr)
			}
			layers[i] = desc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	if _, ok := annotations[ociv1.AnnotationCreated]; !ok {
		annotations[ociv1.AnnotationCreated] = reproducibleCreated
	}

	packOpts := oras.PackManifestOptions{
		Layers:              layers,
		ManifestAnnotations: annotations,
	}
	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, packOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}

	if tagErr := fs.Tag(ctx, manifestDesc, opts.Tag); tagErr != nil {
		return nil, fmt.Errorf("failed to tag manifest in file store: %w", tagErr)
	}

	store, err := oci.New(absOutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCI layout store: %w", err)
	}

	desc, err := oras.Copy(ctx, fs, opts.Tag, store, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to copy artifact to OCI layout: %w", err)
	}

	return &PackageResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
		StorePath: absOutputDir,
	}, nil
}

// entryMediaType picks the layer media type for a staged entry. Directories
// become gzipped tars; plain files keep the file store's default.
func entryMediaType(entry os.DirEntry) string {
	if entry.IsDir() {
		return ociv1.MediaTypeImageLayerGzip
	}
	return ""
}
