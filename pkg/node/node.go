// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package node wires the helper components together: the content
// store handle (remote RPC client or locally managed daemon), the
// swarm readiness gate, the dnslink resolver, the reconciler and the
// optional debug API server.
package node

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/debugapi"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/dnslink"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs/client"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs/daemon"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/logging"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/metrics"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/readiness"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/reconciler"
)

// Options are the node construction options.
type Options struct {
	// APIAddr is the RPC API address of a remote IPFS node. When
	// empty a local daemon is managed instead, and the swarm
	// readiness gate applies before reconciliation starts.
	APIAddr string
	// DataDir is the repository directory of the managed daemon.
	DataDir string
	// IPFSBinary overrides the daemon binary name.
	IPFSBinary string
	// Domain is the DNSLink domain publishing the checkpoints cid.
	Domain string
	// Interval is the reconciliation cadence.
	Interval time.Duration
	// ResolverAddr optionally overrides the DNS server.
	ResolverAddr string
	// DebugAPIAddr enables the debug API server when set.
	DebugAPIAddr string
}

// Node is a fully wired helper instance. The reconciliation loop is
// not running until Start is called on the reconciler.
type Node struct {
	logger         logging.Logger
	reconciler     *reconciler.Reconciler
	storeCloser    io.Closer
	debugAPIServer *http.Server
}

// New constructs the node. In local daemon mode it blocks until the
// daemon is up and the swarm is joined; remote mode assumes
// reachability and skips the readiness gate.
func New(ctx context.Context, logger logging.Logger, o Options) (*Node, error) {
	n := &Node{
		logger: logger,
	}

	var store ipfs.Interface
	if o.APIAddr != "" {
		logger.Infof("node: using remote ipfs node at %q", o.APIAddr)
		store = client.New(client.Options{APIAddr: o.APIAddr})
	} else {
		d, err := daemon.New(ctx, logger, daemon.Options{
			Binary:  o.IPFSBinary,
			DataDir: o.DataDir,
		})
		if err != nil {
			return nil, fmt.Errorf("ipfs daemon: %w", err)
		}
		store = d
		n.storeCloser = d

		gate := readiness.New(store, logger, nil)
		if err := gate.Wait(ctx); err != nil {
			_ = n.Shutdown()
			return nil, fmt.Errorf("readiness gate: %w", err)
		}
	}

	resolver, err := dnslink.New(dnslink.Options{ServerAddr: o.ResolverAddr})
	if err != nil {
		_ = n.Shutdown()
		return nil, fmt.Errorf("dnslink resolver: %w", err)
	}

	n.reconciler = reconciler.New(resolver, store, logger, &reconciler.Options{
		Domain:   o.Domain,
		Interval: o.Interval,
	})

	if o.DebugAPIAddr != "" {
		debugAPIListener, err := net.Listen("tcp", o.DebugAPIAddr)
		if err != nil {
			_ = n.Shutdown()
			return nil, fmt.Errorf("debug api listener: %w", err)
		}

		debugAPIService := debugapi.New(logger)
		debugAPIService.MustRegisterMetrics(n.reconciler.Metrics()...)
		if l, ok := logger.(metrics.Collector); ok {
			debugAPIService.MustRegisterMetrics(l.Metrics()...)
		}
		debugAPIService.Configure(n.reconciler)

		n.debugAPIServer = &http.Server{
			Handler: debugAPIService,
		}

		go func() {
			logger.Infof("node: debug api address: %s", debugAPIListener.Addr())
			if err := n.debugAPIServer.Serve(debugAPIListener); err != nil && err != http.ErrServerClosed {
				logger.Debugf("node: debug api server: %v", err)
				logger.Error("unable to serve debug api")
			}
		}()
	}

	return n, nil
}

// Reconciler returns the wired reconciler.
func (n *Node) Reconciler() *reconciler.Reconciler {
	return n.reconciler
}

// Shutdown stops the reconciliation loop, the debug API server and
// the managed daemon, in that order, collecting all errors.
func (n *Node) Shutdown() error {
	var mErr error

	if n.reconciler != nil {
		if err := n.reconciler.Close(); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("reconciler: %w", err))
		}
	}

	if n.debugAPIServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := n.debugAPIServer.Shutdown(ctx); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("debug api server: %w", err))
		}
	}

	if n.storeCloser != nil {
		if err := n.storeCloser.Close(); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("ipfs daemon: %w", err))
		}
	}

	return mErr
}
