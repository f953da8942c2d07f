// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mock

import (
	"context"
	"sync"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs"
)

var _ ipfs.Interface = (*Store)(nil)

// Store is a mock ipfs.Interface implementation keeping the pin set
// in memory. The zero behavior of every operation can be overridden
// with an option.
type Store struct {
	mu    sync.Mutex
	peers []ipfs.Peer
	pins  map[string]ipfs.PinType

	peersFunc     func(context.Context) ([]ipfs.Peer, error)
	addPinFunc    func(context.Context, string) error
	pinsFunc      func(context.Context) ([]ipfs.Pin, error)
	removePinFunc func(context.Context, string) error

	addCalls    []string
	removeCalls []string
}

// Option function sets an option on the mock Store.
type Option func(*Store)

// New creates a new mock Store.
func New(opts ...Option) *Store {
	s := &Store{
		pins: make(map[string]ipfs.PinType),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// WithPeers sets the connected peers the mock reports.
func WithPeers(peers ...ipfs.Peer) Option {
	return func(s *Store) {
		s.peers = peers
	}
}

// WithPins seeds the initial pin set.
func WithPins(pins ...ipfs.Pin) Option {
	return func(s *Store) {
		for _, p := range pins {
			s.pins[p.Cid] = p.Type
		}
	}
}

// WithPeersFunc overrides the Peers implementation.
func WithPeersFunc(f func(context.Context) ([]ipfs.Peer, error)) Option {
	return func(s *Store) {
		s.peersFunc = f
	}
}

// WithAddPinFunc overrides the AddPin implementation.
func WithAddPinFunc(f func(context.Context, string) error) Option {
	return func(s *Store) {
		s.addPinFunc = f
	}
}

// WithPinsFunc overrides the Pins implementation.
func WithPinsFunc(f func(context.Context) ([]ipfs.Pin, error)) Option {
	return func(s *Store) {
		s.pinsFunc = f
	}
}

// WithRemovePinFunc overrides the RemovePin implementation.
func WithRemovePinFunc(f func(context.Context, string) error) Option {
	return func(s *Store) {
		s.removePinFunc = f
	}
}

// Peers implements ipfs.Interface Peers method.
func (s *Store) Peers(ctx context.Context) ([]ipfs.Peer, error) {
	if s.peersFunc != nil {
		return s.peersFunc(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ipfs.Peer(nil), s.peers...), nil
}

// AddPin implements ipfs.Interface AddPin method.
func (s *Store) AddPin(ctx context.Context, cid string) error {
	s.mu.Lock()
	s.addCalls = append(s.addCalls, cid)
	s.mu.Unlock()
	if s.addPinFunc != nil {
		return s.addPinFunc(ctx, cid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins[cid] = ipfs.PinRecursive
	return nil
}

// Pins implements ipfs.Interface Pins method.
func (s *Store) Pins(ctx context.Context) ([]ipfs.Pin, error) {
	if s.pinsFunc != nil {
		return s.pinsFunc(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pins := make([]ipfs.Pin, 0, len(s.pins))
	for cid, t := range s.pins {
		pins = append(pins, ipfs.Pin{Cid: cid, Type: t})
	}
	return pins, nil
}

// RemovePin implements ipfs.Interface RemovePin method.
func (s *Store) RemovePin(ctx context.Context, cid string) error {
	s.mu.Lock()
	s.removeCalls = append(s.removeCalls, cid)
	s.mu.Unlock()
	if s.removePinFunc != nil {
		return s.removePinFunc(ctx, cid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pins[cid]; !ok {
		return ipfs.ErrPinNotFound
	}
	delete(s.pins, cid)
	return nil
}

// AddCalls returns the cids passed to AddPin in call order.
func (s *Store) AddCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.addCalls...)
}

// RemoveCalls returns the cids passed to RemovePin in call order.
func (s *Store) RemoveCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removeCalls...)
}

// ExplicitPins returns the cids of all currently held explicit pins.
func (s *Store) ExplicitPins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cids []string
	for cid, t := range s.pins {
		if t.Explicit() {
			cids = append(cids, cid)
		}
	}
	return cids
}
