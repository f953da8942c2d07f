// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reconciler provides the discovery and reconciliation loop
// keeping the local pin set in sync with the published checkpoints
// object. On every tick it resolves the current cid from DNSLink,
// pins it when it changed, and prunes every other explicit pin. The
// pruning step runs unconditionally so that pins left behind by an
// interrupted pass self-heal on the next tick.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/atomic"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/dnslink"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/logging"
)

const defaultInterval = 1 * time.Hour

// Options are the reconciler construction options.
type Options struct {
	// Domain is the DNSLink domain publishing the checkpoints cid.
	Domain string
	// Interval is the cadence of the reconciliation loop.
	Interval time.Duration
}

type Reconciler struct {
	resolver dnslink.Interface
	store    ipfs.Interface
	logger   logging.Logger
	domain   string
	interval time.Duration
	metrics  metrics

	// lastKnown is the cid of the last successfully pinned
	// checkpoints object. Only the reconciliation goroutine writes
	// it, after a successful pin-add.
	lastKnown *atomic.String

	subsMu sync.Mutex
	subs   []chan string

	startOnce sync.Once
	closeOnce sync.Once
	quit      chan struct{}
	wg        sync.WaitGroup
}

// New creates a new Reconciler. The loop is not running until Start
// is called; Reconcile can be driven directly instead.
func New(resolver dnslink.Interface, store ipfs.Interface, logger logging.Logger, o *Options) *Reconciler {
	if o == nil {
		o = new(Options)
	}
	if o.Interval <= 0 {
		o.Interval = defaultInterval
	}
	return &Reconciler{
		resolver:  resolver,
		store:     store,
		logger:    logger,
		domain:    o.Domain,
		interval:  o.Interval,
		metrics:   newMetrics(),
		lastKnown: atomic.NewString(""),
		quit:      make(chan struct{}),
	}
}

// Start launches the reconciliation loop: one immediate pass, then
// one pass per interval. Ticks never overlap since a single goroutine
// runs them back to back; a pass outlasting the interval simply
// delays the next one.
func (r *Reconciler) Start() {
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.manage()
	})
}

func (r *Reconciler) manage() {
	defer r.wg.Done()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-r.quit
		cancel()
	}()

	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick is the tick boundary: every error of a pass is logged within
// the pass at its proper severity and swallowed here, so transient
// failures are retried wholesale on the next scheduled tick and never
// terminate the process.
func (r *Reconciler) tick(ctx context.Context) {
	r.metrics.TickCount.Inc()
	start := time.Now()
	if err := r.Reconcile(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		r.logger.Debugf("reconciler: pass failed: %v", err)
		return
	}
	r.metrics.LastPassDuration.Set(time.Since(start).Seconds())
	r.metrics.LastPassTimestamp.SetToCurrentTime()
}

// Reconcile runs one full discovery-pin-prune pass. It is idempotent
// and convergent: at quiescence the explicit pin set is exactly the
// last known cid.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	cid, err := r.resolver.Resolve(ctx, r.domain)
	if err != nil {
		r.metrics.ResolutionFailureCount.Inc()
		r.logger.Errorf("reconciler: resolve %q: %v", r.domain, err)
		return fmt.Errorf("resolve %q: %w", r.domain, err)
	}

	if cid == r.lastKnown.Load() {
		r.logger.Debugf("reconciler: checkpoints object %s unchanged", cid)
	} else {
		r.logger.Infof("reconciler: new checkpoints object %s, pinning", cid)
		if err := r.store.AddPin(ctx, cid); err != nil {
			r.metrics.PinAddFailureCount.Inc()
			r.logger.Warningf("reconciler: pin %s: %v", cid, err)
			return fmt.Errorf("pin %q: %w", cid, err)
		}
		r.lastKnown.Store(cid)
		r.metrics.PinAddCount.Inc()
		r.logger.Infof("reconciler: pinned successfully: %s", cid)
		r.notifyPinned(cid)
	}

	return r.prune(ctx)
}

// prune removes every explicit pin other than the last known cid.
// Indirect pins are never targeted; removing their owning explicit
// pin releases them transitively. A failed listing aborts the whole
// step for this tick, a failed removal only skips that entry.
func (r *Reconciler) prune(ctx context.Context) error {
	pins, err := r.store.Pins(ctx)
	if err != nil {
		r.metrics.PinListFailureCount.Inc()
		r.logger.Errorf("reconciler: pin listing: %v", err)
		return fmt.Errorf("pin listing: %w", err)
	}

	keep := r.lastKnown.Load()
	var result *multierror.Error
	for _, p := range pins {
		if !p.Type.Explicit() || p.Cid == keep {
			continue
		}
		if err := r.store.RemovePin(ctx, p.Cid); err != nil {
			r.metrics.PinRemoveFailureCount.Inc()
			r.logger.Warningf("reconciler: unpin %s: %v", p.Cid, err)
			result = multierror.Append(result, fmt.Errorf("unpin %q: %w", p.Cid, err))
			continue
		}
		r.metrics.PinRemoveCount.Inc()
		r.logger.Warningf("reconciler: unpinned stale checkpoints object: %s", p.Cid)
	}
	return result.ErrorOrNil()
}

// LastKnown returns the cid of the last successfully pinned
// checkpoints object, or the empty string before the first success.
func (r *Reconciler) LastKnown() string {
	return r.lastKnown.Load()
}

// SubscribePinned returns a channel receiving the cid of every
// subsequent successful pin-add. The channel has a buffer of one and
// further notifications are dropped while it is full.
func (r *Reconciler) SubscribePinned() (c <-chan string, unsubscribe func()) {
	channel := make(chan string, 1)
	var closeOnce sync.Once

	r.subsMu.Lock()
	r.subs = append(r.subs, channel)
	r.subsMu.Unlock()

	unsubscribe = func() {
		r.subsMu.Lock()
		defer r.subsMu.Unlock()
		for i, cc := range r.subs {
			if cc == channel {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				break
			}
		}
		closeOnce.Do(func() { close(channel) })
	}

	return channel, unsubscribe
}

func (r *Reconciler) notifyPinned(cid string) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	for _, c := range r.subs {
		select {
		case c <- cid:
		default:
		}
	}
}

// Close stops the reconciliation loop, canceling the context of a
// pass in flight, and waits up to five seconds for the loop goroutine
// to wind down.
func (r *Reconciler) Close() error {
	r.closeOnce.Do(func() { close(r.quit) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		return errors.New("reconciler shutting down with running goroutines")
	}
	return nil
}
