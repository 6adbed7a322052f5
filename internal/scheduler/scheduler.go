// Package scheduler runs the periodic maintenance tasks: blocklist reaping,
// subscription expiry and the monthly usage rollover.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
)

const (
	blacklistReapInterval  = time.Hour
	subscriptionSweepEvery = 24 * time.Hour
	taskTimeout            = 30 * time.Second
)

// Scheduler owns the background maintenance loops.
type Scheduler struct {
	blacklist     domainRepo.BlacklistRepository
	subscriptions domainRepo.SubscriptionRepository
	usage         *usecase.UsageService
	logger        *zap.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a new scheduler
func New(blacklist domainRepo.BlacklistRepository, subscriptions domainRepo.SubscriptionRepository, usage *usecase.UsageService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		blacklist:     blacklist,
		subscriptions: subscriptions,
		usage:         usage,
		logger:        logger,
	}
}

// Start launches the maintenance loops. Each task also runs once at startup
// so a long-stopped server catches up immediately.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.loop(ctx, blacklistReapInterval, s.reapBlacklist)
	s.loop(ctx, subscriptionSweepEvery, s.sweepSubscriptions)
	s.monthlyLoop(ctx, s.rolloverUsage)
}

// Stop terminates the loops and waits for in-flight tasks.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, task func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runTask(ctx, task)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runTask(ctx, task)
			}
		}
	}()
}

// monthlyLoop fires shortly after each calendar month boundary.
func (s *Scheduler) monthlyLoop(ctx context.Context, task func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			now := time.Now()
			_, nextMonth := usecase.MonthWindow(now)
			timer := time.NewTimer(nextMonth.Sub(now) + time.Minute)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				s.runTask(ctx, task)
			}
		}
	}()
}

func (s *Scheduler) runTask(ctx context.Context, task func(context.Context)) {
	taskCtx, cancel := context.WithTimeout(ctx, taskTimeout)
	defer cancel()
	task(taskCtx)
}

func (s *Scheduler) reapBlacklist(ctx context.Context) {
	removed, err := s.blacklist.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Blacklist reap failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("Expired blacklist entries removed", zap.Int64("count", removed))
	}
}

func (s *Scheduler) sweepSubscriptions(ctx context.Context) {
	changed, err := s.subscriptions.MarkExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Subscription sweep failed", zap.Error(err))
		return
	}
	if changed > 0 {
		s.logger.Info("Subscriptions marked expired", zap.Int64("count", changed))
	}
}

func (s *Scheduler) rolloverUsage(ctx context.Context) {
	if err := s.usage.ResetMonthly(ctx); err != nil {
		s.logger.Error("Monthly usage rollover failed", zap.Error(err))
	}
}
