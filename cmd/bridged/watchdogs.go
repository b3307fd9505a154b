package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type watchdogTarget interface {
	CheckTransition(ctx context.Context, now time.Time) error
	CheckHeaderStall(ctx context.Context, now time.Time, maxAge time.Duration) error
	CheckStuckProposals(ctx context.Context, now time.Time, maxAge time.Duration) error
}

type watchdogs struct {
	target         watchdogTarget
	headerMaxAge   time.Duration
	proposalMaxAge time.Duration
	now            func() time.Time
	logger         *zap.Logger
}

// check runs every watchdog once. A failing watchdog does not skip the
// others.
func (w watchdogs) check(ctx context.Context) {
	now := w.now()
	if err := w.target.CheckTransition(ctx, now); err != nil {
		w.logger.Error("trustee transition check failed", zap.Error(err))
	}
	if err := w.target.CheckHeaderStall(ctx, now, w.headerMaxAge); err != nil {
		w.logger.Error("header stall check failed", zap.Error(err))
	}
	if err := w.target.CheckStuckProposals(ctx, now, w.proposalMaxAge); err != nil {
		w.logger.Error("stuck proposal check failed", zap.Error(err))
	}
}

func startWatchdogs(
	ctx context.Context,
	target watchdogTarget,
	schedule string,
	headerMaxAge, proposalMaxAge time.Duration,
	logger *zap.Logger,
) (func(), error) {
	w := watchdogs{
		target:         target,
		headerMaxAge:   headerMaxAge,
		proposalMaxAge: proposalMaxAge,
		now:            time.Now,
		logger:         logger.Named("watchdog"),
	}

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() { w.check(ctx) }); err != nil {
		return nil, fmt.Errorf("schedule watchdogs %q: %w", schedule, err)
	}
	c.Start()
	w.logger.Info("watchdogs scheduled", zap.String("schedule", schedule))

	return func() {
		<-c.Stop().Done()
	}, nil
}
