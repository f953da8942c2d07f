// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ipfs defines the capability interface the helper needs from
// an IPFS node: peer inspection and pin management. Implementations
// exist for a remote node reachable over its RPC API and for a locally
// managed daemon.
package ipfs

import (
	"context"
	"errors"
)

// ErrPinNotFound is returned on removal of a pin the node does not hold.
var ErrPinNotFound = errors.New("pin not found")

// PinType is the retention class of a pin as reported by the node.
type PinType string

const (
	// PinRecursive marks an explicit retention root whose whole
	// graph is retained.
	PinRecursive PinType = "recursive"
	// PinDirect marks an explicit retention root retained shallowly.
	PinDirect PinType = "direct"
	// PinIndirect marks an object retained only because some
	// explicit pin references it. Indirect pins cannot be removed
	// on their own.
	PinIndirect PinType = "indirect"
)

// Explicit reports whether the pin type is an explicit retention root,
// as opposed to one implied by another pin.
func (t PinType) Explicit() bool {
	return t == PinRecursive || t == PinDirect
}

// Pin is a single entry of the node's pin set.
type Pin struct {
	Cid  string
	Type PinType
}

// Peer is a peer the node is connected to in the swarm.
type Peer struct {
	ID   string
	Addr string
}

// Interface is the content store handle consumed by the reconciler.
type Interface interface {
	// Peers returns the node's currently connected swarm peers.
	Peers(ctx context.Context) ([]Peer, error)
	// AddPin pins the given cid recursively. The call blocks until
	// the node has retrieved and stored the full content graph,
	// which can take a long time for a cold cid.
	// Repeating calls of this method are idempotent.
	AddPin(ctx context.Context, cid string) error
	// Pins returns the node's complete pin set. The result is read
	// fresh from the node on every call.
	Pins(ctx context.Context) ([]Pin, error)
	// RemovePin removes the explicit pin for the given cid.
	RemovePin(ctx context.Context, cid string) error
}
