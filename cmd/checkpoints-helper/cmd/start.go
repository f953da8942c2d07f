// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	helper "github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/node"
)

func (c *command) initStartCmd() (err error) {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start keeping the checkpoints pin in sync",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(args) > 0 {
				return cmd.Help()
			}

			if err := c.config.BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			logger, err := newLogger(cmd, c.config.GetString(optionNameVerbosity))
			if err != nil {
				return err
			}
			logger.Infof("version: %v", helper.Version)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			n, err := node.New(ctx, logger, c.nodeOptions())
			if err != nil {
				return fmt.Errorf("node: %w", err)
			}

			n.Reconciler().Start()

			// Wait for termination or interrupt signals.
			// We want to clean up things at the end.
			interruptChannel := make(chan os.Signal, 1)
			signal.Notify(interruptChannel, syscall.SIGINT, syscall.SIGTERM)

			// Block main goroutine until it is interrupted
			sig := <-interruptChannel
			logger.Infof("received signal: %v", sig)
			logger.Info("shutting down")

			// Shutdown
			done := make(chan struct{})
			go func() {
				defer close(done)
				if err := n.Shutdown(); err != nil {
					logger.Errorf("shutdown: %v", err)
				}
			}()

			// If shutdown function is blocking too long,
			// allow process termination by receiving another signal.
			select {
			case sig := <-interruptChannel:
				logger.Infof("received signal: %v", sig)
			case <-done:
			}

			return nil
		},
	}

	c.setAllFlags(cmd)
	c.root.AddCommand(cmd)
	return nil
}

func (c *command) nodeOptions() node.Options {
	o := node.Options{
		APIAddr:      c.config.GetString(optionNameAPIAddr),
		DataDir:      c.config.GetString(optionNameDataDir),
		IPFSBinary:   c.config.GetString(optionNameIPFSBinary),
		Domain:       c.config.GetString(optionNameDNSLinkDomain),
		Interval:     c.config.GetDuration(optionNameInterval),
		ResolverAddr: c.config.GetString(optionNameResolverAddr),
	}
	if c.config.GetBool(optionNameDebugAPIEnable) {
		o.DebugAPIAddr = c.config.GetString(optionNameDebugAPIAddr)
	}
	return o
}
