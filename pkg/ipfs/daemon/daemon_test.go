// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daemon_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs/daemon"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/logging"
)

// levelRecorder records the levels the daemon requests log writers
// for, so the routing of child process output can be asserted without
// running a child.
type levelRecorder struct {
	logging.Logger
	levels []logrus.Level
}

func (r *levelRecorder) WriterLevel(l logrus.Level) *io.PipeWriter {
	r.levels = append(r.levels, l)
	return r.Logger.WriterLevel(l)
}

func TestChildOutputLogLevels(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config"), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	logger := &levelRecorder{Logger: logging.New(io.Discard, logrus.DebugLevel)}

	_, err := daemon.New(context.Background(), logger, daemon.Options{
		Binary:  filepath.Join(dir, "no-such-binary"),
		DataDir: dir,
	})
	if err == nil {
		t.Fatal("got nil error, want start failure")
	}

	want := []logrus.Level{logrus.DebugLevel, logrus.WarnLevel}
	if !reflect.DeepEqual(logger.levels, want) {
		t.Errorf("got writer levels %v, want %v", logger.levels, want)
	}
}

func TestAPIURL(t *testing.T) {
	for _, tc := range []struct {
		maddr   string
		want    string
		wantErr bool
	}{
		{maddr: "/ip4/127.0.0.1/tcp/5001", want: "http://127.0.0.1:5001"},
		{maddr: "/ip6/::1/tcp/5001", want: "http://[::1]:5001"},
		{maddr: "/dns4/localhost/tcp/5001", wantErr: true},
		{maddr: "/ip4/127.0.0.1/udp/5001", wantErr: true},
		{maddr: "garbage", wantErr: true},
	} {
		got, err := daemon.APIURL(tc.maddr)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: got nil error, want failure", tc.maddr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tc.maddr, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.maddr, got, tc.want)
		}
	}
}
