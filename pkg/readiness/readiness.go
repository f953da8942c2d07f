// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package readiness gates startup of the reconciliation loop until
// the local node has joined the swarm. A node with no path to the
// network never becomes ready and callers block here indefinitely,
// which is intended: nothing the helper does is meaningful before
// the first peer connection.
package readiness

import (
	"context"
	"time"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/logging"
)

const defaultPollEvery = 5 * time.Second

// Options are the gate construction options.
type Options struct {
	PollEvery time.Duration
}

type Gate struct {
	store     ipfs.Interface
	logger    logging.Logger
	pollEvery time.Duration
}

// New creates a new readiness Gate over the given store.
func New(store ipfs.Interface, logger logging.Logger, o *Options) *Gate {
	if o == nil {
		o = &Options{PollEvery: defaultPollEvery}
	}
	if o.PollEvery <= 0 {
		o.PollEvery = defaultPollEvery
	}
	return &Gate{
		store:     store,
		logger:    logger,
		pollEvery: o.PollEvery,
	}
}

// Wait blocks until the store reports at least one connected peer.
// An error from the peer listing is treated the same as an empty
// peer list, both meaning not ready yet. The only early return is
// context cancellation.
func (g *Gate) Wait(ctx context.Context) error {
	for {
		peers, err := g.store.Peers(ctx)
		if err != nil {
			g.logger.Debugf("readiness: peer listing: %v", err)
		} else if len(peers) > 0 {
			g.logger.Infof("readiness: swarm joined, %d peers connected", len(peers))
			return nil
		} else {
			g.logger.Debugf("readiness: no peers yet")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.pollEvery):
		}
	}
}
