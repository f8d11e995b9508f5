/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package verifier validates an installed CoCo runtime end to end: it picks
// the best registered runtime class, deploys a minimal probe pod pinned to
// it, and watches the pod reach Running. The pod phase is the sole
// pass/fail criterion; everything else is diagnostics.
package verifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	nodev1 "k8s.io/api/node/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/rancher-sandbox/cocoup/pkg/defaults"
	"github.com/rancher-sandbox/cocoup/pkg/header"
	"github.com/rancher-sandbox/cocoup/pkg/kubectl"
	"github.com/rancher-sandbox/cocoup/pkg/platform"
	"github.com/rancher-sandbox/cocoup/pkg/poller"
	"github.com/rancher-sandbox/cocoup/pkg/ui"
)

// describeTailLines is how much of the pod description is relayed when the
// probe times out.
const describeTailLines = 20

// Report is the machine-readable outcome of a validation run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Platform     platform.Info `json:"platform" yaml:"platform"`
	Available    []string      `json:"availableRuntimeClasses,omitempty" yaml:"availableRuntimeClasses,omitempty"`
	RuntimeClass string        `json:"runtimeClass,omitempty" yaml:"runtimeClass,omitempty"`
	PodName      string        `json:"podName,omitempty" yaml:"podName,omitempty"`
	PodRunning   bool          `json:"podRunning" yaml:"podRunning"`
	Kernel       string        `json:"kernel,omitempty" yaml:"kernel,omitempty"`
}

// Verifier runs the validation sequence against the cluster.
type Verifier struct {
	Runner   *kubectl.Runner
	Printer  *ui.Printer
	Platform platform.Info

	// Version is stamped into the report header. Empty is fine.
	Version string

	pollInterval time.Duration
	classTimeout time.Duration
	podTimeout   time.Duration
}

func (v *Verifier) init() {
	if v.pollInterval == 0 {
		v.pollInterval = defaults.PollInterval
	}
	if v.classTimeout == 0 {
		v.classTimeout = defaults.RuntimeClassTimeout
	}
	if v.podTimeout == 0 {
		v.podTimeout = defaults.PodRunningTimeout
	}
}

// Run validates the installation. No probe pod is created unless a runtime
// class was selected first.
func (v *Verifier) Run(ctx context.Context) (*Report, error) {
	v.init()
	v.Printer.Section("validating coco installation")

	report := &Report{Platform: v.Platform}
	report.Init(header.KindValidationReport, v.Version)

	v.Printer.Infof("Checking available RuntimeClasses...")
	available := v.listRuntimeClasses(ctx)
	report.Available = available
	v.Printer.Infof("Found RuntimeClasses: %v", available)

	class, err := SelectRuntimeClass(available, v.Platform)
	if err != nil {
		v.Printer.Errorf("No CoCo RuntimeClasses (enclave-cc, kata*) found.")
		v.Printer.Errorf("It seems CoCo is not installed or the operator failed.")
		v.Printer.Errorf("Run 'cocoup setup' first.")
		return report, err
	}
	report.RuntimeClass = class
	v.logSelection(class)

	if err := v.waitForRuntimeClass(ctx, class); err != nil {
		return report, err
	}

	report.PodName = defaults.ProbePodName
	if err := v.deployProbePod(ctx, class); err != nil {
		return report, err
	}

	res := v.waitForProbeRunning(ctx)
	if !res.Succeeded {
		v.Printer.Errorf("Pod '%s' failed to start or timed out.", defaults.ProbePodName)
		v.dumpDiagnostics(ctx)
		return report, fmt.Errorf("probe pod %s did not reach Running within %s (last observed: %s)",
			defaults.ProbePodName, v.podTimeout, res.LastObserved)
	}
	report.PodRunning = true
	v.Printer.Infof("Pod '%s' is RUNNING!", defaults.ProbePodName)

	v.inspectKernel(ctx, report)
	v.Printer.Infof("Verification Successful: Pod started with CoCo runtime.")
	return report, nil
}

// listRuntimeClasses returns the names of every runtime class the cluster
// reports. Errors degrade to an empty list; selection handles the rest.
func (v *Verifier) listRuntimeClasses(ctx context.Context) []string {
	var list nodev1.RuntimeClassList
	if err := v.Runner.GetInto(ctx, &list, "runtimeclass"); err != nil {
		slog.Debug("runtime class listing failed", "error", err)
		return nil
	}
	names := make([]string, 0, len(list.Items))
	for _, rc := range list.Items {
		names = append(names, rc.Name)
	}
	return names
}

func (v *Verifier) logSelection(class string) {
	switch class {
	case classEnclaveCC:
		v.Printer.Infof("Selection: Using 'enclave-cc' (detected from CoCo installation).")
	case classKataQemu:
		v.Printer.Infof("Selection: Using 'kata-qemu' (optimized for ARM64/Emulation).")
	default:
		v.Printer.Infof("Selection: Using generic 'kata'.")
	}
	v.Printer.Infof("Target RuntimeClass: %s", class)
}

// waitForRuntimeClass re-checks the selected class still exists. The
// operator registers classes asynchronously, so the earlier listing may
// predate registration of the one we want.
func (v *Verifier) waitForRuntimeClass(ctx context.Context, class string) error {
	v.Printer.Infof("Waiting for RuntimeClass '%s' to be available...", class)

	res := poller.Until(ctx, "runtime-class", v.pollInterval, v.classTimeout,
		func(ctx context.Context) (bool, string, error) {
			if _, err := v.Runner.Run(ctx, "get", "runtimeclass", class); err != nil {
				return false, "", err
			}
			return true, class, nil
		})
	if !res.Succeeded {
		return fmt.Errorf("runtime class %s not found after waiting, is the operator pod running without errors?", class)
	}
	return nil
}

// deployProbePod replaces any previous probe pod with a fresh one pinned to
// the selected class.
func (v *Verifier) deployProbePod(ctx context.Context, class string) error {
	v.Printer.Infof("Deploying test pod '%s'...", defaults.ProbePodName)

	if _, err := v.Runner.Run(ctx, "delete", "pod", defaults.ProbePodName,
		"-n", defaults.ProbePodNamespace, "--ignore-not-found=true", "--wait=true"); err != nil {
		return fmt.Errorf("removing previous probe pod: %w", err)
	}

	data, err := yaml.Marshal(probePod(class))
	if err != nil {
		return fmt.Errorf("rendering probe pod manifest: %w", err)
	}
	if err := v.Runner.ApplyStdin(ctx, string(data)); err != nil {
		return fmt.Errorf("creating probe pod: %w", err)
	}
	return nil
}

// probePod is the minimal workload exercising a runtime class end to end.
func probePod(class string) *corev1.Pod {
	return &corev1.Pod{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Pod"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      defaults.ProbePodName,
			Namespace: defaults.ProbePodNamespace,
			Labels:    map[string]string{defaults.ProbePodLabelKey: defaults.ProbePodLabelValue},
		},
		Spec: corev1.PodSpec{
			RestartPolicy:    corev1.RestartPolicyNever,
			RuntimeClassName: ptr.To(class),
			Containers: []corev1.Container{
				{Name: "nginx", Image: defaults.ProbePodImage},
			},
		},
	}
}

func (v *Verifier) waitForProbeRunning(ctx context.Context) poller.Result {
	selector := defaults.ProbePodLabelKey + "=" + defaults.ProbePodLabelValue
	v.Printer.Infof("Waiting for pod with label %s in %s to be Running...", selector, defaults.ProbePodNamespace)

	return poller.Until(ctx, "probe-pod-running", v.pollInterval, v.podTimeout,
		func(ctx context.Context) (bool, string, error) {
			var pods corev1.PodList
			if err := v.Runner.GetInto(ctx, &pods, "pods",
				"-n", defaults.ProbePodNamespace, "-l", selector); err != nil {
				return false, "", err
			}
			if len(pods.Items) == 0 {
				return false, "Missing", nil
			}
			phase := pods.Items[0].Status.Phase
			return phase == corev1.PodRunning, string(phase), nil
		})
}

// inspectKernel reports the kernel release inside the pod. A CoCo runtime
// boots its own guest kernel, so a version differing from the host is the
// human-readable confirmation. Never a pass/fail gate.
func (v *Verifier) inspectKernel(ctx context.Context, report *Report) {
	out, err := v.Runner.Run(ctx, "exec", defaults.ProbePodName,
		"-n", defaults.ProbePodNamespace, "--", "uname", "-r")
	if err != nil {
		v.Printer.Warnf("Could not check kernel version inside pod.")
		return
	}
	report.Kernel = out
	v.Printer.Infof("Pod Kernel: %s", out)
}

// dumpDiagnostics relays the tail of the pod description and the pod's
// events. Failures here are swallowed; diagnostics never mask the timeout.
func (v *Verifier) dumpDiagnostics(ctx context.Context) {
	if out, err := v.Runner.Run(ctx, "describe", "pod", defaults.ProbePodName,
		"-n", defaults.ProbePodNamespace); err == nil {
		v.Printer.Infof("Pod Description (last %d lines):", describeTailLines)
		for _, line := range tailLines(out, describeTailLines) {
			v.Printer.Plainf("%s", line)
		}
	}

	var events corev1.EventList
	if err := v.Runner.GetInto(ctx, &events, "events",
		"-n", defaults.ProbePodNamespace,
		"--field-selector", "involvedObject.name="+defaults.ProbePodName); err != nil || len(events.Items) == 0 {
		return
	}
	v.Printer.Infof("Pod Events:")
	for _, e := range events.Items {
		v.Printer.Plainf("%s\t%s\t%s", e.Type, e.Reason, e.Message)
	}
}

func tailLines(s string, n int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
