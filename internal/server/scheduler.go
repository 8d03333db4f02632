package server

import (
	"context"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/redis/go-redis/v9"

	"docbot/internal/digest"
	"docbot/internal/profile"
	"docbot/internal/store"
)

// ProfileLister enumerates stored profiles for the scheduler sweep.
type ProfileLister interface {
	List(ctx context.Context) ([]profile.Profile, error)
}

// Scheduler generates due weekly digests in the background. It ticks every
// hour and relies on run history to decide which users are due.
type Scheduler struct {
	Profiles ProfileLister
	Engine   *digest.Engine
	Runs     *store.Store
	Rdb      *redis.Client // optional lock against duplicate runs
	Cron     string
	Stop     chan struct{}
	Logger   *log.Logger
}

func (s *Scheduler) Start() {
	ticker := time.NewTicker(1 * time.Hour)
	go func() {
		for {
			select {
			case <-s.Stop:
				ticker.Stop()
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

func (s *Scheduler) tick() {
	ctx := context.Background()
	profiles, err := s.Profiles.List(ctx)
	if err != nil {
		s.Logger.Printf("profile sweep failed: %v", err)
		return
	}

	for _, p := range profiles {
		if !p.Onboarded() {
			continue
		}
		last, err := s.Runs.LatestRunTime(ctx, p.UserID)
		if err != nil {
			continue
		}
		if !isDue(s.Cron, last) {
			continue
		}

		if s.Rdb != nil {
			lockKey := "sched:lock:" + p.UserID
			ok, _ := s.Rdb.SetNX(ctx, lockKey, "1", 2*time.Minute).Result()
			if !ok {
				continue
			}
		}

		runID, err := s.Runs.CreateRun(ctx, p.UserID)
		if err != nil {
			continue
		}
		d, err := s.Engine.WeeklyUpdate(ctx, p)
		if err != nil {
			msg := err.Error()
			_ = s.Runs.FinishRun(ctx, runID, store.RunStatusFailed, "", &msg)
			continue
		}
		observeDigest(d)
		_ = s.Runs.FinishRun(ctx, runID, store.RunStatusSucceeded, d.Text, nil)
		s.Logger.Printf("generated scheduled digest for %s", p.UserID)
	}
}

// isDue determines whether a digest governed by cronSpec should run now.
// Supports "@weekly", "@daily" and standard cron expressions.
func isDue(cronSpec string, last *time.Time) bool {
	now := time.Now()
	switch cronSpec {
	case "@weekly":
		if last == nil {
			return true
		}
		return now.Sub(*last) >= 7*24*time.Hour
	case "@daily":
		if last == nil {
			return true
		}
		return now.Sub(*last) >= 24*time.Hour
	default:
		expr, err := cronexpr.Parse(cronSpec)
		if err != nil {
			return false
		}
		if last == nil {
			return true
		}
		return expr.Next(*last).Before(now)
	}
}
