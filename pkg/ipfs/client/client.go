// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package client implements the ipfs.Interface against the RPC API of
// a running IPFS node (the /api/v0 HTTP interface).
package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs"
)

var _ ipfs.Interface = (*Client)(nil)

// Options are the client construction options.
type Options struct {
	// APIAddr is the base address of the node RPC API, for
	// example http://127.0.0.1:5001.
	APIAddr string
	// Timeout bounds short requests (peer and pin listing,
	// pin removal). Pin additions are never bounded by it.
	Timeout time.Duration
}

const defaultTimeout = 30 * time.Second

type Client struct {
	http *resty.Client
	// pin-add may fetch an entire content graph, so it goes
	// through a client without the request timeout
	slow *resty.Client
}

func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	base := strings.TrimRight(o.APIAddr, "/")
	return &Client{
		http: resty.New().SetBaseURL(base).SetTimeout(o.Timeout),
		slow: resty.New().SetBaseURL(base),
	}
}

type apiError struct {
	Message string `json:"Message"`
	Code    int    `json:"Code"`
	Type    string `json:"Type"`
}

type peersResponse struct {
	Peers []struct {
		Peer string `json:"Peer"`
		Addr string `json:"Addr"`
	} `json:"Peers"`
}

type pinsResponse struct {
	Keys map[string]struct {
		Type string `json:"Type"`
	} `json:"Keys"`
}

type pinChangeResponse struct {
	Pins []string `json:"Pins"`
}

// Peers implements ipfs.Interface Peers method.
func (c *Client) Peers(ctx context.Context) ([]ipfs.Peer, error) {
	var (
		out    peersResponse
		apiErr apiError
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/v0/swarm/peers")
	if err != nil {
		return nil, fmt.Errorf("swarm peers request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("swarm peers: %s", errorMessage(resp, apiErr))
	}
	peers := make([]ipfs.Peer, 0, len(out.Peers))
	for _, p := range out.Peers {
		peers = append(peers, ipfs.Peer{ID: p.Peer, Addr: p.Addr})
	}
	return peers, nil
}

// AddPin implements ipfs.Interface AddPin method. It blocks until the
// node has the complete graph, with no client-side timeout.
func (c *Client) AddPin(ctx context.Context, cid string) error {
	var apiErr apiError
	resp, err := c.slow.R().
		SetContext(ctx).
		SetQueryParam("arg", cid).
		SetError(&apiErr).
		Post("/api/v0/pin/add")
	if err != nil {
		return fmt.Errorf("pin add %q request: %w", cid, err)
	}
	if resp.IsError() {
		return fmt.Errorf("pin add %q: %s", cid, errorMessage(resp, apiErr))
	}
	return nil
}

// Pins implements ipfs.Interface Pins method.
func (c *Client) Pins(ctx context.Context) ([]ipfs.Pin, error) {
	var (
		out    pinsResponse
		apiErr apiError
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/v0/pin/ls")
	if err != nil {
		return nil, fmt.Errorf("pin ls request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("pin ls: %s", errorMessage(resp, apiErr))
	}
	pins := make([]ipfs.Pin, 0, len(out.Keys))
	for cid, v := range out.Keys {
		pins = append(pins, ipfs.Pin{Cid: cid, Type: ipfs.PinType(v.Type)})
	}
	return pins, nil
}

// RemovePin implements ipfs.Interface RemovePin method.
func (c *Client) RemovePin(ctx context.Context, cid string) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("arg", cid).
		SetError(&apiErr).
		Post("/api/v0/pin/rm")
	if err != nil {
		return fmt.Errorf("pin rm %q request: %w", cid, err)
	}
	if resp.IsError() {
		if strings.Contains(apiErr.Message, "not pinned") {
			return fmt.Errorf("pin rm %q: %w", cid, ipfs.ErrPinNotFound)
		}
		return fmt.Errorf("pin rm %q: %s", cid, errorMessage(resp, apiErr))
	}
	return nil
}

func errorMessage(resp *resty.Response, apiErr apiError) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return resp.Status()
}
