/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package prereq

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rancher-sandbox/cocoup/pkg/defaults"
	"github.com/rancher-sandbox/cocoup/pkg/platform"
)

var downloadBaseURL = "https://dl.k8s.io/release"

// kubectlInstallPath is where the fallback installer places the binary.
const kubectlInstallPath = "/usr/local/bin/kubectl"

// downloadURL resolves the pinned kubectl release binary for the host.
// WSL downloads the linux build.
func downloadURL(info platform.Info) (string, error) {
	var goos string
	switch info.OS {
	case platform.OSDarwin:
		goos = "darwin"
	case platform.OSLinux, platform.OSWSL:
		goos = "linux"
	default:
		return "", fmt.Errorf("automatic kubectl install is not supported on %s/%s", info.OS, info.Arch)
	}

	arch := "amd64"
	if info.Arch == platform.ArchARM64 {
		arch = "arm64"
	}

	return fmt.Sprintf("%s/%s/bin/%s/%s/kubectl", downloadBaseURL, defaults.KubectlVersion, goos, arch), nil
}

// installKubectl downloads the pinned release into a temp file and moves it
// onto the system path with sudo. A failed download never leaves a partial
// binary on the PATH.
func (c *Checker) installKubectl(ctx context.Context) error {
	url, err := downloadURL(c.Platform)
	if err != nil {
		return err
	}

	c.Printer.Infof("Downloading kubectl from %s...", url)
	tmp, err := c.download(ctx, url)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	c.Printer.Infof("Moving kubectl to %s (may ask for a sudo password)...", kubectlInstallPath)
	if err := c.runCmd(ctx, "sudo", "mv", tmp, kubectlInstallPath); err != nil {
		return fmt.Errorf("installing kubectl to %s: %w", kubectlInstallPath, err)
	}

	c.Printer.Infof("kubectl installed successfully.")
	return nil
}

// download fetches url into a temp file marked executable and returns its
// path. The caller removes the file.
func (c *Checker) download(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading kubectl: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading kubectl: unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp("", "kubectl-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing kubectl binary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing kubectl binary: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o755); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("marking kubectl executable: %w", err)
	}

	return tmp.Name(), nil
}
