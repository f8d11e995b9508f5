/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rancher-sandbox/cocoup/pkg/header"
	"github.com/rancher-sandbox/cocoup/pkg/kubectl"
	"github.com/rancher-sandbox/cocoup/pkg/platform"
	"github.com/rancher-sandbox/cocoup/pkg/ui"
)

type call struct {
	stdin string
	args  []string
}

// scriptedRunner records every kubectl invocation and delegates responses to
// handle, which receives the space-joined argument list as its key.
func scriptedRunner(calls *[]call, handle func(key, stdin string) (string, error)) *kubectl.Runner {
	return kubectl.NewWithCommander(kubectl.Options{},
		func(_ context.Context, stdin, _ string, args ...string) ([]byte, []byte, error) {
			*calls = append(*calls, call{stdin: stdin, args: args})
			out, err := handle(strings.Join(args, " "), stdin)
			if err != nil {
				return nil, []byte(err.Error()), err
			}
			return []byte(out), nil, nil
		})
}

func testVerifier(calls *[]call, out *bytes.Buffer, handle func(key, stdin string) (string, error)) *Verifier {
	return &Verifier{
		Runner:       scriptedRunner(calls, handle),
		Printer:      ui.NewPrinter(ui.Options{Writer: out, Mode: ui.ColorNever}),
		Platform:     platform.Info{OS: platform.OSLinux, Arch: platform.ArchARM64},
		pollInterval: time.Millisecond,
		classTimeout: 50 * time.Millisecond,
		podTimeout:   50 * time.Millisecond,
	}
}

func runtimeClassList(names ...string) string {
	items := make([]string, 0, len(names))
	for _, name := range names {
		items = append(items, fmt.Sprintf(`{"metadata":{"name":%q},"handler":%q}`, name, name))
	}
	return fmt.Sprintf(`{"apiVersion":"node.k8s.io/v1","kind":"RuntimeClassList","items":[%s]}`,
		strings.Join(items, ","))
}

func podList(phase string) string {
	return fmt.Sprintf(`{"apiVersion":"v1","kind":"PodList","items":[{"metadata":{"name":"coco-smoke-test"},"status":{"phase":%q}}]}`, phase)
}

func TestRunNoRuntimeClassesCreatesNoPod(t *testing.T) {
	var calls []call
	var out bytes.Buffer
	v := testVerifier(&calls, &out, func(key, _ string) (string, error) {
		if key == "get runtimeclass -o json" {
			return runtimeClassList("runc"), nil
		}
		return "", errors.New("unexpected call: " + key)
	})

	report, err := v.Run(context.Background())

	require.ErrorIs(t, err, ErrNoRuntimeClass)
	assert.Equal(t, []string{"runc"}, report.Available)
	assert.Empty(t, report.RuntimeClass)
	assert.False(t, report.PodRunning)
	for _, c := range calls {
		assert.NotEqual(t, "delete", c.args[0], "no pod operations without a runtime class")
		assert.NotEqual(t, "apply", c.args[0], "no pod operations without a runtime class")
	}
	assert.Contains(t, out.String(), "Run 'cocoup setup' first")
}

func TestRunListingFailureDegradesToNoClasses(t *testing.T) {
	var calls []call
	var out bytes.Buffer
	v := testVerifier(&calls, &out, func(key, _ string) (string, error) {
		return "", errors.New("connection refused")
	})

	report, err := v.Run(context.Background())

	require.ErrorIs(t, err, ErrNoRuntimeClass)
	assert.Empty(t, report.Available)
}

func TestRunFullSuccess(t *testing.T) {
	var calls []call
	var out bytes.Buffer
	v := testVerifier(&calls, &out, func(key, _ string) (string, error) {
		switch {
		case key == "get runtimeclass -o json":
			return runtimeClassList("kata", "enclave-cc"), nil
		case key == "get runtimeclass enclave-cc":
			return "enclave-cc", nil
		case strings.HasPrefix(key, "delete pod"):
			return "", nil
		case key == "apply -f -":
			return "pod/coco-smoke-test created", nil
		case strings.HasPrefix(key, "get pods"):
			return podList("Running"), nil
		case strings.HasPrefix(key, "exec"):
			return "6.1.62-coco-guest", nil
		}
		return "", errors.New("unexpected call: " + key)
	})

	report, err := v.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "enclave-cc", report.RuntimeClass)
	assert.Equal(t, "coco-smoke-test", report.PodName)
	assert.True(t, report.PodRunning)
	assert.Equal(t, "6.1.62-coco-guest", report.Kernel)
	assert.Equal(t, header.KindValidationReport, report.Kind)

	// The old probe pod is removed before the new one is applied.
	var deleteIdx, applyIdx = -1, -1
	var manifest string
	for i, c := range calls {
		switch c.args[0] {
		case "delete":
			deleteIdx = i
			assert.Contains(t, c.args, "--ignore-not-found=true")
		case "apply":
			applyIdx = i
			manifest = c.stdin
		}
	}
	require.GreaterOrEqual(t, deleteIdx, 0)
	require.Greater(t, applyIdx, deleteIdx)
	assert.Contains(t, manifest, "runtimeClassName: enclave-cc")
	assert.Contains(t, manifest, "name: coco-smoke-test")
	assert.Contains(t, manifest, "image: nginx:alpine")

	assert.Contains(t, out.String(), "Verification Successful")
}

func TestRunProbeTimeoutDumpsDiagnostics(t *testing.T) {
	var calls []call
	var out bytes.Buffer
	v := testVerifier(&calls, &out, func(key, _ string) (string, error) {
		switch {
		case key == "get runtimeclass -o json":
			return runtimeClassList("kata"), nil
		case key == "get runtimeclass kata":
			return "kata", nil
		case strings.HasPrefix(key, "delete pod"):
			return "", nil
		case key == "apply -f -":
			return "", nil
		case strings.HasPrefix(key, "get pods"):
			return podList("Pending"), nil
		case strings.HasPrefix(key, "describe pod"):
			return "Name: coco-smoke-test\nStatus: Pending\nEvents:\n  FailedCreatePodSandBox", nil
		case strings.HasPrefix(key, "get events"):
			return `{"apiVersion":"v1","kind":"EventList","items":[{"type":"Warning","reason":"FailedCreatePodSandBox","message":"runtime handler kata not found"}]}`, nil
		}
		return "", errors.New("unexpected call: " + key)
	})

	report, err := v.Run(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "did not reach Running")
	assert.ErrorContains(t, err, "Pending")
	assert.False(t, report.PodRunning)
	assert.Equal(t, "kata", report.RuntimeClass)

	text := out.String()
	assert.Contains(t, text, "Pod Description")
	assert.Contains(t, text, "FailedCreatePodSandBox")
	assert.Contains(t, text, "runtime handler kata not found")
}

func TestRunRuntimeClassNeverAppears(t *testing.T) {
	var calls []call
	var out bytes.Buffer
	v := testVerifier(&calls, &out, func(key, _ string) (string, error) {
		switch {
		case key == "get runtimeclass -o json":
			return runtimeClassList("kata"), nil
		case key == "get runtimeclass kata":
			return "", errors.New(`runtimeclasses.node.k8s.io "kata" not found`)
		}
		return "", errors.New("unexpected call: " + key)
	})

	report, err := v.Run(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "runtime class kata not found after waiting")
	assert.Equal(t, "kata", report.RuntimeClass)
	for _, c := range calls {
		assert.NotEqual(t, "apply", c.args[0], "probe pod must not be created")
	}
}

func TestRunKernelProbeFailureIsWarnOnly(t *testing.T) {
	var calls []call
	var out bytes.Buffer
	v := testVerifier(&calls, &out, func(key, _ string) (string, error) {
		switch {
		case key == "get runtimeclass -o json":
			return runtimeClassList("enclave-cc"), nil
		case key == "get runtimeclass enclave-cc":
			return "enclave-cc", nil
		case strings.HasPrefix(key, "delete pod"):
			return "", nil
		case key == "apply -f -":
			return "", nil
		case strings.HasPrefix(key, "get pods"):
			return podList("Running"), nil
		case strings.HasPrefix(key, "exec"):
			return "", errors.New("container not ready for exec")
		}
		return "", errors.New("unexpected call: " + key)
	})

	report, err := v.Run(context.Background())

	require.NoError(t, err, "kernel inspection is advisory")
	assert.True(t, report.PodRunning)
	assert.Empty(t, report.Kernel)
	assert.Contains(t, out.String(), "Could not check kernel version")
}

func TestProbePodManifest(t *testing.T) {
	pod := probePod("enclave-cc")

	assert.Equal(t, "coco-smoke-test", pod.Name)
	assert.Equal(t, "default", pod.Namespace)
	assert.Equal(t, "coco-smoke", pod.Labels["app"])
	require.NotNil(t, pod.Spec.RuntimeClassName)
	assert.Equal(t, "enclave-cc", *pod.Spec.RuntimeClassName)
	require.Len(t, pod.Spec.Containers, 1)
	assert.Equal(t, "nginx:alpine", pod.Spec.Containers[0].Image)
}

func TestTailLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, tailLines("a\nb", 5))
	assert.Equal(t, []string{"d", "e"}, tailLines("a\nb\nc\nd\ne", 2))
}
