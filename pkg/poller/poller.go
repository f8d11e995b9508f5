/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

// Package poller provides the one bounded-retry primitive used for every
// asynchronous cluster wait. Call sites differ only in condition, interval,
// and timeout, so wait tuning stays in one place.
package poller

import (
	"context"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Condition is a read-only readiness probe. It reports done when the
// awaited state is reached and may return an observed value for
// diagnostics. An error means "not yet ready": cluster reads are
// best-effort snapshots and transient failures must not abort a wait.
type Condition func(ctx context.Context) (done bool, observed string, err error)

// Result is the outcome of a bounded wait. It is never partially valid:
// either the condition converged within budget or the wait timed out.
type Result struct {
	Succeeded    bool   `json:"succeeded" yaml:"succeeded"`
	LastObserved string `json:"lastObserved,omitempty" yaml:"lastObserved,omitempty"`
}

// Until probes cond every interval until it reports done or timeout
// elapses. The first probe fires immediately. The name labels log records
// and metrics for this wait.
func Until(ctx context.Context, name string, interval, timeout time.Duration, cond Condition) Result {
	var last string
	start := time.Now()

	slog.Info("waiting for condition", "condition", name, "interval", interval, "timeout", timeout)

	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true,
		func(ctx context.Context) (bool, error) {
			done, observed, err := cond(ctx)
			if observed != "" {
				last = observed
			}
			switch {
			case err != nil:
				slog.Debug("condition probe failed, treating as pending",
					"condition", name, "error", err)
				pollAttempts.WithLabelValues(name, outcomeError).Inc()
				return false, nil
			case done:
				pollAttempts.WithLabelValues(name, outcomeReady).Inc()
				return true, nil
			default:
				pollAttempts.WithLabelValues(name, outcomePending).Inc()
				return false, nil
			}
		})

	waitDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		slog.Warn("condition did not converge within budget",
			"condition", name, "timeout", timeout, "last_observed", last)
		return Result{Succeeded: false, LastObserved: last}
	}

	slog.Info("condition met", "condition", name, "elapsed", time.Since(start).Round(time.Millisecond))
	return Result{Succeeded: true, LastObserved: last}
}
