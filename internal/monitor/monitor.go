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

// Package monitor runs the periodic anomaly evaluation loop.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/config"
	"github.com/assetwatch-io/assetwatch/internal/detect"
	"github.com/assetwatch-io/assetwatch/internal/notify"
	"github.com/assetwatch-io/assetwatch/internal/rule"
	"github.com/assetwatch-io/assetwatch/internal/telemetry"
)

// Loop defaults. Overridable through the monitor config block.
const (
	// DefaultInterval between evaluation ticks.
	DefaultInterval = 10 * time.Second
	// DefaultDedupWindow suppresses re-raising an anomaly type seen within it.
	DefaultDedupWindow = 5 * time.Minute
	// DefaultLookbackFloor is the minimum log window fetched per tick.
	DefaultLookbackFloor = 10 * time.Minute
)

// systemActor stamps entries the monitor writes on its own behalf.
const (
	systemActorCode = "SYSTEM"
	systemActorName = "System Monitor"
)

// Monitor periodically evaluates recent audit activity against the rule
// registry, persists raised anomalies as ANOMALY_DETECTED entries, and fans
// them out to the notification sinks. Ticks run one at a time on the loop
// goroutine; a slow tick delays the next one rather than overlapping it.
type Monitor struct {
	logger  *slog.Logger
	logs    auditlog.Store
	rules   rule.Store
	fanout  *notify.Fanout
	metrics *telemetry.MonitorMetrics

	interval      time.Duration
	dedupWindow   time.Duration
	lookbackFloor time.Duration

	// nowFn and newID are swapped in tests.
	nowFn func() time.Time
	newID func() string
}

// New creates a new Monitor.
func New(
	logger *slog.Logger,
	logs auditlog.Store,
	rules rule.Store,
	fanout *notify.Fanout,
	metrics *telemetry.MonitorMetrics,
	cfg config.Monitor,
) *Monitor {
	return &Monitor{
		logger:        logger,
		logs:          logs,
		rules:         rules,
		fanout:        fanout,
		metrics:       metrics,
		interval:      durationOr(cfg.Interval, DefaultInterval),
		dedupWindow:   durationOr(cfg.DedupWindow, DefaultDedupWindow),
		lookbackFloor: durationOr(cfg.LookbackFloor, DefaultLookbackFloor),
		nowFn:         time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// Run ticks until the context is cancelled. Tick failures are logged and the
// loop continues; the monitor never stops on its own.
func (m *Monitor) Run(
	ctx context.Context,
) {
	m.logger.Info(
		"anomaly monitor started",
		slog.Duration("interval", m.interval),
		slog.Duration("dedup_window", m.dedupWindow),
	)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("anomaly monitor stopped")

			return
		case <-ticker.C:
			if err := m.Tick(ctx); err != nil {
				m.metrics.TickErrors.Add(ctx, 1)
				m.logger.Error(
					"monitor tick failed",
					slog.String("error", err.Error()),
				)
			}
			m.metrics.Ticks.Add(ctx, 1)
		}
	}
}

// Tick runs one evaluation cycle: re-read the rules, fetch the lookback
// window, evaluate, dedup, persist, fan out.
func (m *Monitor) Tick(
	ctx context.Context,
) error {
	now := m.nowFn()

	rules, err := m.rules.List(ctx)
	if err != nil {
		return fmt.Errorf("listing rules: %w", err)
	}

	lookback := m.lookback(rules)
	logs, err := m.logs.ListSince(ctx, now.Add(-lookback))
	if err != nil {
		return fmt.Errorf("listing recent logs: %w", err)
	}

	for _, event := range detect.Evaluate(logs, rules, now) {
		if err := m.raise(ctx, event, now); err != nil {
			// One failed anomaly does not abort the rest of the batch.
			m.logger.Error(
				"raising anomaly failed",
				slog.String("type", event.Type),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// raise persists one anomaly unless the dedup window suppresses it, then
// fans it out. Persistence comes first: an alert is only ever derived from a
// stored entry.
func (m *Monitor) raise(
	ctx context.Context,
	event detect.Event,
	now time.Time,
) error {
	seen, err := m.logs.HasAnomalySince(
		ctx,
		event.Type,
		now.Add(-m.dedupWindow),
	)
	if err != nil {
		return fmt.Errorf("checking dedup window: %w", err)
	}
	if seen {
		m.metrics.AnomaliesSuppressed.Add(ctx, 1)
		m.logger.Debug(
			"anomaly suppressed by dedup window",
			slog.String("type", event.Type),
		)

		return nil
	}

	entry := auditlog.Entry{
		ID:             m.newID(),
		OccurredAt:     now,
		ActorCode:      systemActorCode,
		ActorName:      systemActorName,
		ActionType:     auditlog.ActionAnomalyDetected,
		TargetType:     "audit_log",
		Result:         auditlog.ResultSuccess,
		Severity:       event.RiskLevel,
		ResponseStatus: auditlog.ResponsePending,
		Metadata: auditlog.Metadata{
			auditlog.MetaAnomalyType:   event.Type,
			auditlog.MetaDescription:   event.Description,
			auditlog.MetaRiskLevel:     string(event.RiskLevel),
			auditlog.MetaRelatedLogIDs: event.RelatedLogIDs,
			auditlog.MetaDetectedAt:    event.DetectedAt.Format(time.RFC3339),
		},
	}

	if err := m.logs.Append(ctx, entry); err != nil {
		return fmt.Errorf("persisting anomaly entry: %w", err)
	}

	m.metrics.AnomaliesRaised.Add(ctx, 1)
	m.logger.Warn(
		"anomaly detected",
		slog.String("type", event.Type),
		slog.String("risk_level", string(event.RiskLevel)),
		slog.String("description", event.Description),
		slog.Int("related_logs", len(event.RelatedLogIDs)),
	)

	alert := notify.Alert{
		EntryID:     entry.ID,
		Type:        event.Type,
		Description: event.Description,
		RiskLevel:   event.RiskLevel,
		ActorCode:   event.ActorCode,
		ActorName:   event.ActorName,
		TargetType:  entry.TargetType,
		DetectedAt:  event.DetectedAt,
	}
	if failed := m.fanout.Deliver(ctx, alert); failed > 0 {
		m.metrics.NotifyFailures.Add(ctx, int64(failed))
	}

	return nil
}

// lookback computes the fetch window: the widest window any enabled rule
// wants, never below the configured floor.
func (m *Monitor) lookback(
	rules []rule.Rule,
) time.Duration {
	lookback := m.lookbackFloor
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		if w := time.Duration(r.WindowMinutes()) * time.Minute; w > lookback {
			lookback = w
		}
	}

	return lookback
}

func durationOr(
	raw string,
	fallback time.Duration,
) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}
