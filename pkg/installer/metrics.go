/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package installer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mutation outcome labels.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var applyOps = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cocoup_apply_operations_total",
		Help: "Cluster mutations by operation and outcome",
	},
	[]string{"operation", "outcome"},
)
