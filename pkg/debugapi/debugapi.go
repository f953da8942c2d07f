// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package debugapi exposes the debug HTTP surface of the helper:
// health and readiness probes, prometheus metrics and pprof. It is
// purely observational; pin management stays with the reconciler.
package debugapi

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/logging"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/reconciler"
)

// Service implements http.Handler interface to be used in HTTP server.
type Service struct {
	logger          logging.Logger
	metricsRegistry *prometheus.Registry
	reconciler      *reconciler.Reconciler

	// handler is changed in the Configure method
	handler   http.Handler
	handlerMu sync.RWMutex
}

// New creates a new Service with only the basic routes enabled:
// /health, /metrics, pprof and vars. It is useful to expose these
// before all dependencies are constructed.
func New(logger logging.Logger) *Service {
	s := &Service{
		logger:          logger,
		metricsRegistry: newMetricsRegistry(),
	}
	s.setRouter(s.wrapRouter(s.newBasicRouter()))
	return s
}

// Configure injects the reconciler and enables the full set of
// routes, including /readiness.
func (s *Service) Configure(r *reconciler.Reconciler) {
	s.reconciler = r
	s.setRouter(s.wrapRouter(s.newRouter()))
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handlerMu.RLock()
	h := s.handler
	s.handlerMu.RUnlock()
	h.ServeHTTP(w, r)
}

func (s *Service) setRouter(router http.Handler) {
	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()
	s.handler = router
}
