// Package scheduler runs periodic housekeeping jobs, currently the
// nightly pruning of the API usage log.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dkovalenko/railgo/internal/service/audit"
)

type Config struct {
	// Enabled gates the whole scheduler; pruning is skipped when false.
	Enabled bool
	// RunAt is the daily run time in "HH:MM" (24h) format.
	RunAt string
	// Retention is how long api_usage rows are kept.
	Retention time.Duration
}

type Scheduler struct {
	cron    *cron.Cron
	audit   *audit.Service
	cfg     Config
	logger  *slog.Logger
	running bool
}

func New(auditSvc *audit.Service, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		audit:  auditSvc,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled, audit log pruning will not run")
		return nil
	}

	spec := dailySpec(s.cfg.RunAt, s.logger)

	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.pruneAuditLog(ctx); err != nil {
			s.logger.Error("audit log pruning failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("scheduler.Start: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started",
		"run_at", s.cfg.RunAt,
		"cron", spec,
		"retention", s.cfg.Retention.String(),
	)
	return nil
}

// Stop halts the cron loop. Jobs already in flight finish on their own.
func (s *Scheduler) Stop() {
	if s.running {
		s.cron.Stop()
		s.running = false
		s.logger.Info("scheduler stopped")
	}
}

// RunNow triggers a pruning pass outside the schedule, for manual use.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.pruneAuditLog(ctx)
}

func (s *Scheduler) pruneAuditLog(ctx context.Context) error {
	removed, err := s.audit.Prune(ctx, s.cfg.Retention)
	if err != nil {
		return err
	}
	s.logger.Info("audit log pruned", "removed", removed)
	return nil
}

// dailySpec converts "HH:MM" into a five-field cron spec, falling
// back to 03:00 when the value does not parse.
func dailySpec(runAt string, logger *slog.Logger) string {
	var hour, minute int
	if n, _ := fmt.Sscanf(runAt, "%d:%d", &hour, &minute); n == 2 &&
		hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}
	logger.Warn("invalid scheduler run time, using 03:00", "run_at", runAt)
	return "0 3 * * *"
}
