/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package poller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe outcome labels.
const (
	outcomeReady   = "ready"
	outcomePending = "pending"
	outcomeError   = "error"
)

var (
	pollAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocoup_poll_attempts_total",
			Help: "Total readiness probe attempts",
		},
		[]string{"condition", "outcome"},
	)

	waitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cocoup_poll_wait_duration_seconds",
			Help:    "Time spent waiting for cluster conditions to converge",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"condition"},
	)
)
