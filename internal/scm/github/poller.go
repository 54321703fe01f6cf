//
//  Copyright © Stackport Inc. All rights reserved.
//

package github

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/stackport/ownerengine/internal/envstore"
	"github.com/stackport/ownerengine/internal/logging"
	"github.com/stackport/ownerengine/pkg/core/config"
)

var logger = logging.GetLogger("ownerengine.scm.github")

const sweepTimeout = 2 * time.Minute

// Poller periodically sweeps integrated environments and records the latest
// GitHub Actions workflow status for each.
type Poller struct {
	client *Client
	store  *envstore.Store
	cron   *cron.Cron
}

// NewPoller returns a Poller backed by the provided client and store.
func NewPoller(client *Client, store *envstore.Store) *Poller {
	return &Poller{
		client: client,
		store:  store,
		cron:   cron.New(),
	}
}

// Start schedules the sweep per config.GithubPollSchedule and runs one sweep
// immediately so fresh deployments don't wait for the first tick.
func (p *Poller) Start() error {
	schedule := config.VConfig.GetString(config.GithubPollSchedule)

	if _, err := p.cron.AddFunc(schedule, p.sweep); err != nil {
		return errors.Wrapf(err, "invalid poll schedule %q", schedule)
	}

	p.cron.Start()
	logger.SysInfof("github status poller started (schedule %q)", schedule)

	go p.sweep()

	return nil
}

// Stop halts the scheduler. An in-flight sweep is allowed to finish.
func (p *Poller) Stop() {
	p.cron.Stop()
	logger.SysInfo("github status poller stopped")
}

func (p *Poller) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	environments, err := p.store.ListIntegrated(ctx)
	if err != nil {
		logger.SysErrorf("github sweep: listing environments: %+v", err)
		return
	}

	for _, env := range environments {
		status, err := p.client.LatestWorkflowStatus(ctx, env.GithubProjectSlug)
		if err != nil {
			// a single bad slug or API hiccup should not stall the sweep
			logger.Warnf(env.Application, "github-poll", "skipping %s/%s: %+v", env.Application, env.Name, err)
			continue
		}

		if status == "" || status == env.GithubStatus {
			continue
		}

		if err := p.store.RecordGithubStatus(ctx, env.ID, status); err != nil {
			logger.Warnf(env.Application, "github-poll", "recording status for %s/%s: %+v", env.Application, env.Name, err)
			continue
		}

		logger.Infof(env.Application, "github-poll", "environment %s/%s workflow status is now %q", env.Application, env.Name, status)
	}
}
