// Package housekeeping runs periodic maintenance jobs for the server.
package housekeeping

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SessionPurger removes expired login sessions.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// Scheduler runs the session purge on a cron schedule. Runs never overlap:
// a tick that fires while the previous purge is still running is skipped.
type Scheduler struct {
	cron    *cron.Cron
	purger  SessionPurger
	logger  *slog.Logger
	timeout time.Duration
}

// New registers the purge job on spec, a standard five field expression or
// a descriptor such as "@every 1h". The scheduler is idle until Start.
func New(spec string, purger SessionPurger, logger *slog.Logger) (*Scheduler, error) {
	if purger == nil {
		return nil, fmt.Errorf("housekeeping: purger is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "housekeeping")

	cronLogger := slogAdapter{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		purger:  purger,
		logger:  logger,
		timeout: time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("housekeeping: schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.RunOnce(ctx)
}

// RunOnce purges expired sessions immediately.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	removed, err := s.purger.PurgeExpiredSessions(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "session purge failed", "error", err)
		return 0, err
	}
	s.logger.DebugContext(ctx, "session purge finished", "removed", removed)
	return removed, nil
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("housekeeping started", "jobs", len(s.cron.Entries()))
}

// Stop halts the schedule and waits for a running purge to finish, or for
// ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("housekeeping stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("housekeeping: stop: %w", ctx.Err())
	}
}

// NextRun reports when the purge fires next. It is zero before Start.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// slogAdapter routes cron's internal logging through slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a slogAdapter) Error(err error, msg string, keysAndValues ...any) {
	a.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
