// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package archive runs the scheduled audit log retention job.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/config"
)

// Retention defaults.
const (
	// DefaultSchedule runs the job daily at 03:00.
	DefaultSchedule = "0 3 * * *"
	// DefaultMaxAge keeps 90 days of active entries.
	DefaultMaxAge = 90 * 24 * time.Hour
)

// Archiver flags entries older than the retention cutoff on a cron schedule.
// Archived entries stay in the store and drop out of default reads; nothing
// is ever deleted.
type Archiver struct {
	logger   *slog.Logger
	logs     auditlog.Store
	schedule string
	maxAge   time.Duration

	cron *cron.Cron

	nowFn func() time.Time
}

// New creates a new Archiver.
func New(
	logger *slog.Logger,
	logs auditlog.Store,
	cfg config.Retention,
) *Archiver {
	maxAge := DefaultMaxAge
	if cfg.MaxAge != "" {
		if d, err := time.ParseDuration(cfg.MaxAge); err == nil && d > 0 {
			maxAge = d
		}
	}

	schedule := cfg.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}

	return &Archiver{
		logger:   logger,
		logs:     logs,
		schedule: schedule,
		maxAge:   maxAge,
		nowFn:    time.Now,
	}
}

// Start registers the job and starts the scheduler.
func (a *Archiver) Start(
	ctx context.Context,
) error {
	a.cron = cron.New()

	_, err := a.cron.AddFunc(a.schedule, func() {
		if runErr := a.RunOnce(ctx); runErr != nil {
			a.logger.Error(
				"retention run failed",
				slog.String("error", runErr.Error()),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling retention job: %w", err)
	}

	a.cron.Start()
	a.logger.Info(
		"retention archiver started",
		slog.String("schedule", a.schedule),
		slog.Duration("max_age", a.maxAge),
	)

	return nil
}

// Stop stops the scheduler and waits for an in-flight run.
func (a *Archiver) Stop() {
	if a.cron == nil {
		return
	}

	<-a.cron.Stop().Done()
	a.logger.Info("retention archiver stopped")
}

// RunOnce archives everything older than the cutoff.
func (a *Archiver) RunOnce(
	ctx context.Context,
) error {
	cutoff := a.nowFn().Add(-a.maxAge)

	archived, err := a.logs.ArchiveOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archiving entries: %w", err)
	}

	a.logger.Info(
		"retention run completed",
		slog.Int64("archived", archived),
		slog.Time("cutoff", cutoff),
	)

	return nil
}
