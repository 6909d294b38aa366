package stream

import (
	"context"
	"fmt"
	"time"

	rcron "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs periodic refresh jobs. Intervals are rounded down to whole
// seconds by cron; anything shorter than a second is rejected.
type Scheduler struct {
	cron    *rcron.Cron
	logger  *zap.Logger
	entries map[string]rcron.EntryID
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    rcron.New(rcron.WithChain(rcron.Recover(cronLogger{logger}), rcron.SkipIfStillRunning(cronLogger{logger}))),
		logger:  logger,
		entries: make(map[string]rcron.EntryID),
	}
}

// Every registers fn under name to run at the given interval. It must be
// called before Start.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) error {
	if interval < time.Second {
		return fmt.Errorf("job %s: interval %s is shorter than 1s", name, interval)
	}
	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("job %s already registered", name)
	}
	id := s.cron.Schedule(rcron.Every(interval), rcron.FuncJob(fn))
	s.entries[name] = id
	s.logger.Info("Scheduled job", zap.String("job", name), zap.Duration("interval", interval))
	return nil
}

// ScheduleFeed registers the metric and chart refresh jobs for feed.
func (s *Scheduler) ScheduleFeed(feed *Feed, metricsInterval, chartsInterval time.Duration) error {
	if err := s.Every("metrics", metricsInterval, func() { feed.RefreshMetrics() }); err != nil {
		return err
	}
	return s.Every("charts", chartsInterval, func() { feed.RefreshCharts() })
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.entries)))
}

// Stop halts the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for scheduler jobs: %w", ctx.Err())
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ l *zap.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
