// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/cmd/checkpoints-helper/cmd"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/logging"
)

func TestVerifyFirstPin(t *testing.T) {
	pinned := make(chan string, 1)
	pinned <- "QmX"

	var buf bytes.Buffer
	logger := logging.New(&buf, logrus.InfoLevel)

	if err := cmd.WaitFirstPin(pinned, time.Minute, time.Minute, logger); err != nil {
		t.Fatalf("got error %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "verify: pinned QmX") {
		t.Errorf("pin log line not found in output:\n%s", buf.String())
	}
}

func TestVerifyBudgetExpiry(t *testing.T) {
	pinned := make(chan string)

	var buf bytes.Buffer
	logger := logging.New(&buf, logrus.InfoLevel)

	err := cmd.WaitFirstPin(pinned, 100*time.Millisecond, 20*time.Millisecond, logger)
	if err == nil {
		t.Fatal("got nil error, want budget expiry")
	}
	if !strings.Contains(err.Error(), "no pin within") {
		t.Errorf("got error %q, want budget expiry", err)
	}
	if !strings.Contains(buf.String(), "still waiting for first pin") {
		t.Errorf("waiting report line not found in output:\n%s", buf.String())
	}
}
