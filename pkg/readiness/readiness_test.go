// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readiness_test

import (
	"context"
	"errors"
	"io/ioutil"
	"testing"
	"time"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs/mock"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/logging"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/readiness"
)

func TestWaitBecomesReady(t *testing.T) {
	var calls int
	store := mock.New(mock.WithPeersFunc(func(context.Context) ([]ipfs.Peer, error) {
		calls++
		switch calls {
		case 1:
			return nil, errors.New("api not up") // errors mean not ready
		case 2:
			return nil, nil
		default:
			return []ipfs.Peer{{ID: "Qm1"}}, nil
		}
	}))

	g := readiness.New(store, logging.New(ioutil.Discard, 0), &readiness.Options{
		PollEvery: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := g.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if calls < 3 {
		t.Fatalf("got %d peer listing calls, want at least 3", calls)
	}
}

func TestWaitCancel(t *testing.T) {
	store := mock.New() // no peers, never ready

	g := readiness.New(store, logging.New(ioutil.Discard, 0), &readiness.Options{
		PollEvery: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := g.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got error %v, want %v", err, context.DeadlineExceeded)
	}
}
