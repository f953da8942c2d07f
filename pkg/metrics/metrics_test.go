// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics_test

import (
	"testing"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusCollectorsFromFields(t *testing.T) {
	s := newService()
	collectors := metrics.PrometheusCollectorsFromFields(s)

	if l := len(collectors); l != 2 {
		t.Fatalf("got %v collectors, want 2", l)
	}
}

type service struct {
	TickCount    prometheus.Counter
	ReleasedAt   prometheus.Gauge
	privateCount prometheus.Counter // unexported fields must not be discovered
	Name         string
}

func newService() (s service) {
	s = service{
		TickCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "tick_count",
			Help:      "Test counter.",
		}),
		ReleasedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metrics.Namespace,
			Name:      "released_at",
			Help:      "Test gauge.",
		}),
		privateCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "private_count",
			Help:      "Test private counter.",
		}),
		Name: "test",
	}
	return s
}
