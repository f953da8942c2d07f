// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconciler

import (
	m "github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	TickCount              prometheus.Counter
	ResolutionFailureCount prometheus.Counter
	PinAddCount            prometheus.Counter
	PinAddFailureCount     prometheus.Counter
	PinRemoveCount         prometheus.Counter
	PinRemoveFailureCount  prometheus.Counter
	PinListFailureCount    prometheus.Counter
	LastPassDuration       prometheus.Gauge
	LastPassTimestamp      prometheus.Gauge
}

func newMetrics() metrics {
	subsystem := "reconciler"

	return metrics{
		TickCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "tick_count",
			Help:      "Number of reconciliation ticks fired.",
		}),
		ResolutionFailureCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "resolution_failure_count",
			Help:      "Number of failed dnslink resolutions.",
		}),
		PinAddCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "pin_add_count",
			Help:      "Number of checkpoints objects pinned.",
		}),
		PinAddFailureCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "pin_add_failure_count",
			Help:      "Number of failed pin additions.",
		}),
		PinRemoveCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "pin_remove_count",
			Help:      "Number of stale pins removed during pruning.",
		}),
		PinRemoveFailureCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "pin_remove_failure_count",
			Help:      "Number of failed pin removals during pruning.",
		}),
		PinListFailureCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "pin_list_failure_count",
			Help:      "Number of failed pin set listings, each aborting one pruning step.",
		}),
		LastPassDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "last_pass_duration_seconds",
			Help:      "Duration of the last successful reconciliation pass.",
		}),
		LastPassTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "last_pass_timestamp_seconds",
			Help:      "Unix timestamp of the last successful reconciliation pass.",
		}),
	}
}

// Metrics returns the prometheus collectors for the reconciler.
func (r *Reconciler) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(r.metrics)
}
