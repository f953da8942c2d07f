// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package daemon implements the ipfs.Interface by managing a local
// IPFS daemon as a child process. The daemon keeps its repository in
// the configured data directory and is reached through its RPC API on
// the loopback interface, so the helper does not link the storage
// engine itself.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/ipfs/client"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/logging"
)

var _ ipfs.Interface = (*Daemon)(nil)

const (
	defaultBinary         = "ipfs"
	defaultStartupTimeout = 2 * time.Minute
	apiPollInterval       = 500 * time.Millisecond
	shutdownGrace         = 15 * time.Second
)

// Options are the daemon construction options.
type Options struct {
	// Binary is the IPFS binary to execute. Looked up on PATH
	// when not absolute.
	Binary string
	// DataDir is the repository directory, passed to the child
	// through IPFS_PATH. Initialized on first use.
	DataDir string
	// StartupTimeout bounds waiting for the RPC API to come up.
	StartupTimeout time.Duration
}

// Daemon is a running child IPFS node. All store operations are
// proxied to its RPC API.
type Daemon struct {
	*client.Client
	cmd    *exec.Cmd
	logger logging.Logger
}

// New initializes the repository if needed, starts the daemon child
// process and waits until its RPC API answers.
func New(ctx context.Context, logger logging.Logger, o Options) (*Daemon, error) {
	if o.Binary == "" {
		o.Binary = defaultBinary
	}
	if o.StartupTimeout <= 0 {
		o.StartupTimeout = defaultStartupTimeout
	}
	if o.DataDir == "" {
		return nil, fmt.Errorf("data directory not set")
	}

	env := append(os.Environ(), "IPFS_PATH="+o.DataDir)

	if _, err := os.Stat(filepath.Join(o.DataDir, "config")); os.IsNotExist(err) {
		logger.Infof("ipfs daemon: initializing repository at %q", o.DataDir)
		initCmd := exec.CommandContext(ctx, o.Binary, "init")
		initCmd.Env = env
		if out, err := initCmd.CombinedOutput(); err != nil {
			return nil, fmt.Errorf("ipfs init: %w: %s", err, strings.TrimSpace(string(out)))
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat repository: %w", err)
	}

	cmd := exec.Command(o.Binary, "daemon")
	cmd.Env = env
	cmd.Stdout = logger.WriterLevel(logrus.DebugLevel)
	cmd.Stderr = logger.WriterLevel(logrus.WarnLevel)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ipfs daemon: %w", err)
	}

	d := &Daemon{
		cmd:    cmd,
		logger: logger,
	}

	apiAddr, err := d.awaitAPI(ctx, o)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	logger.Infof("ipfs daemon: up, api at %q", apiAddr)

	d.Client = client.New(client.Options{APIAddr: apiAddr})
	return d, nil
}

// awaitAPI polls the repository api file the daemon writes once its
// RPC interface is listening.
func (d *Daemon) awaitAPI(ctx context.Context, o Options) (string, error) {
	apiFile := filepath.Join(o.DataDir, "api")
	deadline := time.Now().Add(o.StartupTimeout)
	for {
		if b, err := os.ReadFile(apiFile); err == nil {
			addr, err := apiURL(strings.TrimSpace(string(b)))
			if err != nil {
				return "", err
			}
			return addr, nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("ipfs daemon: api did not come up within %s", o.StartupTimeout)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(apiPollInterval):
		}
	}
}

// apiURL converts the multiaddr from the repository api file, such as
// /ip4/127.0.0.1/tcp/5001, into an HTTP base address.
func apiURL(maddr string) (string, error) {
	parts := strings.Split(strings.Trim(maddr, "/"), "/")
	if len(parts) != 4 || (parts[0] != "ip4" && parts[0] != "ip6") || parts[2] != "tcp" {
		return "", fmt.Errorf("unsupported api multiaddr %q", maddr)
	}
	host := parts[1]
	if parts[0] == "ip6" {
		host = "[" + host + "]"
	}
	return fmt.Sprintf("http://%s:%s", host, parts[3]), nil
}

// Close terminates the child daemon, first politely with an interrupt
// signal, then with a kill after the grace period.
func (d *Daemon) Close() error {
	if d.cmd.Process == nil {
		return nil
	}
	if err := d.cmd.Process.Signal(os.Interrupt); err != nil {
		return d.cmd.Process.Kill()
	}

	done := make(chan error, 1)
	go func() {
		done <- d.cmd.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-time.After(shutdownGrace):
		d.logger.Warningf("ipfs daemon: did not exit within %s, killing", shutdownGrace)
		return d.cmd.Process.Kill()
	}
}
