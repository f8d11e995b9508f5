/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package installer drives the setup operation: node labeling, operator
// installation, and CcRuntime submission, waiting for the operator's CRD
// between the two applies.
package installer

import (
	"context"
	"fmt"
	"time"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/rancher-sandbox/cocoup/pkg/ccruntime"
	"github.com/rancher-sandbox/cocoup/pkg/defaults"
	"github.com/rancher-sandbox/cocoup/pkg/kubectl"
	"github.com/rancher-sandbox/cocoup/pkg/poller"
	"github.com/rancher-sandbox/cocoup/pkg/ui"
)

// Installer applies the Confidential Containers stack to the cluster.
// Mutations are declarative; convergence is the poller's job.
type Installer struct {
	Runner  *kubectl.Runner
	Printer *ui.Printer

	// OperatorVersion is the release ref appended to the remote kustomize
	// base.
	OperatorVersion string

	pollInterval time.Duration
	crdTimeout   time.Duration
}

func (i *Installer) init() {
	if i.pollInterval == 0 {
		i.pollInterval = defaults.PollInterval
	}
	if i.crdTimeout == 0 {
		i.crdTimeout = defaults.CRDEstablishTimeout
	}
}

// Setup runs the full install pipeline. Operator and CcRuntime failures
// abort; node labeling never does.
func (i *Installer) Setup(ctx context.Context) error {
	i.Printer.Section("setting up confidential containers")

	i.LabelNodes(ctx)
	if err := i.ApplyOperator(ctx); err != nil {
		return err
	}
	if err := i.WaitForCRD(ctx); err != nil {
		return err
	}
	if err := i.ApplyCcRuntime(ctx, ccruntime.New()); err != nil {
		return err
	}

	i.Printer.Infof("Setup complete. The operator will now install the runtime classes.")
	i.Printer.Infof("You can check progress with: kubectl get pods -n %s", defaults.OperatorNamespace)
	return nil
}

// LabelNodes marks every node for CoCo eligibility. Failures only warn;
// the labels may already exist or the user may lack node permissions.
func (i *Installer) LabelNodes(ctx context.Context) {
	i.Printer.Infof("Labeling nodes for CoCo eligibility...")
	for _, label := range []string{defaults.NodeLabelWorker, defaults.NodeLabelCocoEnabled} {
		if _, err := i.Runner.Run(ctx, "label", "nodes", "--all", label, "--overwrite"); err != nil {
			i.Printer.Warnf("Failed to label nodes: %v. Ensure you have permissions or the nodes are already labeled.", err)
			applyOps.WithLabelValues("label-nodes", outcomeError).Inc()
			return
		}
	}
	applyOps.WithLabelValues("label-nodes", outcomeOK).Inc()
}

// ApplyOperator applies the pinned operator release from its remote
// kustomize base.
func (i *Installer) ApplyOperator(ctx context.Context) error {
	target := fmt.Sprintf("%s?ref=%s", defaults.OperatorKustomizeBase, i.OperatorVersion)
	i.Printer.Infof("Applying Operator from %s...", target)
	if err := i.Runner.ApplyKustomize(ctx, target); err != nil {
		applyOps.WithLabelValues("operator", outcomeError).Inc()
		return fmt.Errorf("applying operator %s: %w", i.OperatorVersion, err)
	}
	applyOps.WithLabelValues("operator", outcomeOK).Inc()
	return nil
}

// WaitForCRD blocks until the operator has registered the CcRuntime CRD
// and the apiserver reports it established.
func (i *Installer) WaitForCRD(ctx context.Context) error {
	i.init()
	i.Printer.Infof("Waiting for Operator to initialize...")

	res := poller.Until(ctx, "crd-established", i.pollInterval, i.crdTimeout,
		func(ctx context.Context) (bool, string, error) {
			var crd apiextensionsv1.CustomResourceDefinition
			if err := i.Runner.GetInto(ctx, &crd, "crd", defaults.CcRuntimeCRD); err != nil {
				return false, "", err
			}
			for _, cond := range crd.Status.Conditions {
				if cond.Type == apiextensionsv1.Established && cond.Status == apiextensionsv1.ConditionTrue {
					return true, string(cond.Type), nil
				}
			}
			return false, "NotEstablished", nil
		})
	if !res.Succeeded {
		return fmt.Errorf("CRD %s not ready, aborting setup", defaults.CcRuntimeCRD)
	}

	i.Printer.Infof("CRD %s is ready.", defaults.CcRuntimeCRD)
	return nil
}

// ApplyCcRuntime renders the manifest and submits it. The operator
// installation already applied is not rolled back on failure.
func (i *Installer) ApplyCcRuntime(ctx context.Context, m *ccruntime.Manifest) error {
	i.Printer.Infof("Applying CcRuntime configuration...")

	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("rendering CcRuntime manifest: %w", err)
	}
	if err := i.Runner.ApplyStdin(ctx, string(data)); err != nil {
		applyOps.WithLabelValues("ccruntime", outcomeError).Inc()
		return fmt.Errorf("applying CcRuntime: %w", err)
	}
	applyOps.WithLabelValues("ccruntime", outcomeOK).Inc()

	i.Printer.Infof("CcRuntime applied.")
	return nil
}
