// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package client_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs/client"
)

func newClient(t *testing.T, handlers map[string]http.HandlerFunc) *client.Client {
	t.Helper()

	mux := http.NewServeMux()
	for path, h := range handlers {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return client.New(client.Options{APIAddr: srv.URL})
}

func TestPeers(t *testing.T) {
	c := newClient(t, map[string]http.HandlerFunc{
		"/api/v0/swarm/peers": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintln(w, `{"Peers":[{"Peer":"Qm1","Addr":"/ip4/10.0.0.1/tcp/4001"},{"Peer":"Qm2","Addr":"/ip4/10.0.0.2/tcp/4001"}]}`)
		},
	})

	peers, err := c.Peers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(peers) != 2 {
		t.Fatalf("got %d peers, want 2", len(peers))
	}
	if peers[0].ID != "Qm1" || peers[1].ID != "Qm2" {
		t.Fatalf("got peers %v", peers)
	}
}

func TestPeersError(t *testing.T) {
	c := newClient(t, map[string]http.HandlerFunc{
		"/api/v0/swarm/peers": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintln(w, `{"Message":"daemon is shutting down","Code":0,"Type":"error"}`)
		},
	})

	_, err := c.Peers(context.Background())
	if err == nil {
		t.Fatal("got nil error")
	}
}

func TestAddPin(t *testing.T) {
	var gotArg string
	c := newClient(t, map[string]http.HandlerFunc{
		"/api/v0/pin/add": func(w http.ResponseWriter, r *http.Request) {
			gotArg = r.URL.Query().Get("arg")
			fmt.Fprintf(w, `{"Pins":[%q]}`+"\n", gotArg)
		},
	})

	if err := c.AddPin(context.Background(), "QmXYZ"); err != nil {
		t.Fatal(err)
	}
	if gotArg != "QmXYZ" {
		t.Fatalf("got arg %q, want %q", gotArg, "QmXYZ")
	}
}

func TestPins(t *testing.T) {
	c := newClient(t, map[string]http.HandlerFunc{
		"/api/v0/pin/ls": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintln(w, `{"Keys":{"QmA":{"Type":"recursive"},"QmZ":{"Type":"indirect"}}}`)
		},
	})

	pins, err := c.Pins(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i].Cid < pins[j].Cid })
	if len(pins) != 2 {
		t.Fatalf("got %d pins, want 2", len(pins))
	}
	if pins[0].Cid != "QmA" || pins[0].Type != ipfs.PinRecursive {
		t.Fatalf("got pin %v", pins[0])
	}
	if pins[1].Cid != "QmZ" || pins[1].Type != ipfs.PinIndirect {
		t.Fatalf("got pin %v", pins[1])
	}
	if !pins[0].Type.Explicit() || pins[1].Type.Explicit() {
		t.Fatal("wrong explicit classification")
	}
}

func TestRemovePinNotFound(t *testing.T) {
	c := newClient(t, map[string]http.HandlerFunc{
		"/api/v0/pin/rm": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintln(w, `{"Message":"not pinned or pinned indirectly","Code":0,"Type":"error"}`)
		},
	})

	err := c.RemovePin(context.Background(), "QmGone")
	if !errors.Is(err, ipfs.ErrPinNotFound) {
		t.Fatalf("got error %v, want %v", err, ipfs.ErrPinNotFound)
	}
}
