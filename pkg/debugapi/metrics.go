// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi

import (
	"github.com/prometheus/client_golang/prometheus"

	helper "github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/metrics"
)

func newMetricsRegistry() (r *prometheus.Registry) {
	r = prometheus.NewRegistry()

	// register standard metrics
	r.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{
			Namespace: metrics.Namespace,
		}),
		prometheus.NewGoCollector(),
		prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metrics.Namespace,
			Name:      "info",
			Help:      "Checkpoints helper information.",
			ConstLabels: prometheus.Labels{
				"version": helper.Version,
			},
		}),
	)

	return r
}

// MustRegisterMetrics registers the collectors of dependent services
// with the debug API metrics registry.
func (s *Service) MustRegisterMetrics(cs ...prometheus.Collector) {
	s.metricsRegistry.MustRegister(cs...)
}
