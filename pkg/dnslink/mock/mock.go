// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mock

import (
	"context"
	"errors"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/dnslink"
)

var _ dnslink.Interface = (*Resolver)(nil)

// ErrNotImplemented denotes calling a mock without a resolve function set.
var ErrNotImplemented = errors.New("resolve function not implemented")

// Resolver is the mock dnslink.Interface implementation.
type Resolver struct {
	resolveFunc func(context.Context, string) (string, error)
}

// Option function sets the option on the mock Resolver.
type Option func(*Resolver)

// New creates a new mock Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// WithResolveFunc overrides the Resolve implementation.
func WithResolveFunc(f func(context.Context, string) (string, error)) Option {
	return func(r *Resolver) {
		r.resolveFunc = f
	}
}

// WithCid makes the mock always resolve to the given cid.
func WithCid(cid string) Option {
	return func(r *Resolver) {
		r.resolveFunc = func(context.Context, string) (string, error) {
			return cid, nil
		}
	}
}

// Resolve implements the dnslink.Interface.
func (r *Resolver) Resolve(ctx context.Context, domain string) (string, error) {
	if r.resolveFunc != nil {
		return r.resolveFunc(ctx, domain)
	}
	return "", ErrNotImplemented
}
