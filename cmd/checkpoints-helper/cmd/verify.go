// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	helper "github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/logging"
	"github.com/Kulteam/MONCoin-Checkpoints-IPFS-Helper/pkg/node"
)

const optionNameVerifyBudget = "verify-budget"

// waitingReportEvery is the cadence of the "still waiting" diagnostic
// line while the first pin is outstanding.
const waitingReportEvery = 30 * time.Second

func (c *command) initVerifyCmd() (err error) {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Pin the published checkpoints object once and exit",
		Long: `Runs a single reconciliation against the published checkpoints
object and exits with success as soon as one pin-add went through. The
process fails when no pin succeeds within the time budget, signaling
an unmet dependency, most likely network reachability.`,
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

			budget := time.Duration(c.config.GetInt(optionNameVerifyBudget)) * time.Minute
			if budget <= 0 {
				return fmt.Errorf("verify budget must be positive")
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// A short tick interval keeps retrying resolution
			// within the budget instead of waiting out the
			// production cadence.
			o := c.nodeOptions()
			o.Interval = time.Minute

			n, err := node.New(ctx, logger, o)
			if err != nil {
				return fmt.Errorf("node: %w", err)
			}
			defer func() {
				if serr := n.Shutdown(); serr != nil {
					logger.Errorf("shutdown: %v", serr)
				}
			}()

			pinned, unsubscribe := n.Reconciler().SubscribePinned()
			defer unsubscribe()

			n.Reconciler().Start()

			return waitFirstPin(pinned, budget, waitingReportEvery, logger)
		},
	}

	c.setAllFlags(cmd)
	cmd.Flags().Int(optionNameVerifyBudget, 15, "time budget for the first successful pin, in minutes")

	c.root.AddCommand(cmd)
	return nil
}

// waitFirstPin blocks until the first pin-add notification arrives on
// pinned, reporting the outstanding wait every reportEvery. It fails
// when the budget runs out first.
func waitFirstPin(pinned <-chan string, budget, reportEvery time.Duration, logger logging.Logger) error {
	budgetTimer := time.NewTimer(budget)
	defer budgetTimer.Stop()
	report := time.NewTicker(reportEvery)
	defer report.Stop()

	start := time.Now()
	for {
		select {
		case cid := <-pinned:
			logger.Infof("verify: pinned %s after %s", cid, time.Since(start).Round(time.Second))
			return nil
		case <-report.C:
			logger.Infof("verify: still waiting for first pin after %s", time.Since(start).Round(time.Second))
		case <-budgetTimer.C:
			return fmt.Errorf("no pin within %s", budget)
		}
	}
}
