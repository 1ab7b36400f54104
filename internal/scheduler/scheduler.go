package scheduler

import (
	"context"
	"fmt"
	"time"

	"hl-portal/internal/config"
	"hl-portal/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 10 * time.Minute

// PropertySource loads every listing for reindexing.
type PropertySource interface {
	All(ctx context.Context) ([]models.Property, error)
}

// Indexer replaces the search index content.
type Indexer interface {
	Reindex(properties []models.Property) error
}

// VisitSource loads recent visit requests.
type VisitSource interface {
	VisitsSince(ctx context.Context, since time.Time) ([]models.Visit, error)
}

// DigestSender mails a visit digest.
type DigestSender interface {
	SendDigest(ctx context.Context, since time.Time, visits []models.Visit) error
}

// Sweeper drops idle rate limiter state.
type Sweeper interface {
	Sweep() int
}

// Jobs are the collaborators of the scheduled jobs. Nil fields disable their job.
type Jobs struct {
	Properties PropertySource
	Index      Indexer
	Visits     VisitSource
	Digest     DigestSender
	Limiter    Sweeper
}

// Scheduler runs the daily maintenance jobs
type Scheduler struct {
	cron      *cron.Cron
	jobs      Jobs
	config    config.SchedulerConfig
	logger    *zap.Logger
	now       func() time.Time
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(cfg config.SchedulerConfig, loc *time.Location, jobs Jobs, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		jobs:   jobs,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the enabled jobs and starts the cron loop
func (s *Scheduler) Start() error {
	if s.config.ReindexEnabled && s.jobs.Properties != nil && s.jobs.Index != nil {
		if err := s.addDaily("reindex", s.config.ReindexTime, s.RunReindex); err != nil {
			return err
		}
	}
	if s.config.DigestEnabled && s.jobs.Visits != nil && s.jobs.Digest != nil {
		if err := s.addDaily("visit digest", s.config.DigestTime, s.RunDigest); err != nil {
			return err
		}
	}
	if s.jobs.Limiter != nil {
		if _, err := s.cron.AddFunc("@every 15m", func() {
			if n := s.jobs.Limiter.Sweep(); n > 0 {
				s.logger.Debug("rate limiter sweep", zap.Int("removed", n))
			}
		}); err != nil {
			return err
		}
	}

	if len(s.cron.Entries()) == 0 {
		s.logger.Info("scheduler: no jobs enabled")
		return nil
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	return nil
}

func (s *Scheduler) addDaily(name, at string, run func(context.Context) error) error {
	spec, err := parseDailyRunTime(at)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	_, err = s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := s.now()
		if err := run(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job completed", zap.String("job", name), zap.Duration("took", s.now().Sub(start)))
	})
	if err != nil {
		return err
	}
	s.logger.Info("scheduled daily job", zap.String("job", name), zap.String("at", at), zap.String("cron", spec))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	if s.isRunning {
		<-s.cron.Stop().Done()
		s.isRunning = false
		s.logger.Info("scheduler stopped")
	}
}

// RunReindex rebuilds the search index from the database
func (s *Scheduler) RunReindex(ctx context.Context) error {
	properties, err := s.jobs.Properties.All(ctx)
	if err != nil {
		return fmt.Errorf("load properties: %w", err)
	}
	if err := s.jobs.Index.Reindex(properties); err != nil {
		return fmt.Errorf("reindex: %w", err)
	}
	s.logger.Info("search index rebuilt", zap.Int("properties", len(properties)))
	return nil
}

// RunDigest mails the visits of the last 24 hours
func (s *Scheduler) RunDigest(ctx context.Context) error {
	since := s.now().Add(-24 * time.Hour)
	visits, err := s.jobs.Visits.VisitsSince(ctx, since)
	if err != nil {
		return fmt.Errorf("load visits: %w", err)
	}
	if err := s.jobs.Digest.SendDigest(ctx, since, visits); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	s.logger.Info("visit digest sent", zap.Int("visits", len(visits)))
	return nil
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "02:00" -> "0 2 * * *" (run at 2:00 AM every day)
func parseDailyRunTime(timeStr string) (string, error) {
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		return "", fmt.Errorf("invalid daily run time %q, want HH:MM", timeStr)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
