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

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// Alert center sizing and display spans.
const (
	// maxRecentAlerts bounds the in-memory recent alert list.
	maxRecentAlerts = 50
	// defaultRepeatWindow tags a fresh alert as a repeat of a previous one
	// for the same actor and target type.
	defaultRepeatWindow = 30 * time.Second
	// defaultRefreshInterval is the poll cadence for unread reconciliation.
	defaultRefreshInterval = 30 * time.Second
)

// displaySpans maps severity to how long a transient alert stays surfaced.
// Critical alerts are sticky: they stay until dismissed.
var displaySpans = map[auditlog.Severity]time.Duration{
	auditlog.SeverityMedium: 10 * time.Second,
	auditlog.SeverityHigh:   30 * time.Second,
}

// CenterAlert is an Alert enriched with display state.
type CenterAlert struct {
	Alert
	// Repeat tags a consecutive anomaly (same actor and target type within
	// the repeat window). Repeats are tagged, not suppressed.
	Repeat bool `json:"repeat"`
	// Surfaced marks alerts that raise a transient banner (severity above
	// low).
	Surfaced bool `json:"surfaced"`
	// Sticky marks alerts that stay surfaced until dismissed (critical).
	Sticky bool `json:"sticky"`
	// ExpiresAt is when a non-sticky surfaced alert auto-expires.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Status is a point-in-time snapshot of the alert center.
type Status struct {
	// UnreadCount is the number of unacknowledged anomalies.
	UnreadCount int `json:"unread_count"`
	// MaxSeverity is the running maximum severity among unread anomalies.
	MaxSeverity auditlog.Severity `json:"max_severity,omitempty"`
	// Alerts lists recent alerts, newest first.
	Alerts []CenterAlert `json:"alerts"`
}

// ensure Center implements Notifier at compile time.
var _ Notifier = (*Center)(nil)

// Center is the process-wide in-app alert state: one unread counter, one
// running maximum severity, and the recent alert list. It has a single
// authoritative update path — push deliveries via Notify and poll
// reconciliation via Refresh — with last-writer-wins semantics.
type Center struct {
	mu sync.Mutex

	logger       *slog.Logger
	store        auditlog.Store
	repeatWindow time.Duration

	unread      int
	maxSeverity auditlog.Severity
	recent      []CenterAlert
	lastSeen    map[string]time.Time
}

// NewCenter creates a new Center. The store backs poll reconciliation; a nil
// store disables it.
func NewCenter(
	logger *slog.Logger,
	store auditlog.Store,
	repeatWindow time.Duration,
) *Center {
	if repeatWindow <= 0 {
		repeatWindow = defaultRepeatWindow
	}

	return &Center{
		logger:       logger,
		store:        store,
		repeatWindow: repeatWindow,
		lastSeen:     make(map[string]time.Time),
	}
}

// Notify applies one pushed alert: bumps the unread counter, raises the
// running maximum severity, and records display state.
func (c *Center) Notify(
	_ context.Context,
	alert Alert,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	repeatKey := alert.ActorCode + "|" + alert.TargetType
	previous, seen := c.lastSeen[repeatKey]
	c.lastSeen[repeatKey] = now

	ca := CenterAlert{
		Alert:  alert,
		Repeat: seen && now.Sub(previous) <= c.repeatWindow,
	}

	if alert.RiskLevel != auditlog.SeverityLow {
		ca.Surfaced = true
		if alert.RiskLevel == auditlog.SeverityCritical {
			ca.Sticky = true
		} else if span, ok := displaySpans[alert.RiskLevel]; ok {
			expires := now.Add(span)
			ca.ExpiresAt = &expires
		}
	}

	c.unread++
	if alert.RiskLevel.Rank() > c.maxSeverity.Rank() {
		c.maxSeverity = alert.RiskLevel
	}

	c.recent = append([]CenterAlert{ca}, c.recent...)
	if len(c.recent) > maxRecentAlerts {
		c.recent = c.recent[:maxRecentAlerts]
	}

	return nil
}

// Snapshot returns the current center state with expired alerts pruned.
func (c *Center) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	alerts := make([]CenterAlert, 0, len(c.recent))
	for _, ca := range c.recent {
		if ca.Surfaced && !ca.Sticky && ca.ExpiresAt != nil && now.After(*ca.ExpiresAt) {
			ca.Surfaced = false
		}
		alerts = append(alerts, ca)
	}
	c.recent = alerts

	return Status{
		UnreadCount: c.unread,
		MaxSeverity: c.maxSeverity,
		Alerts:      alerts,
	}
}

// Dismiss removes a sticky alert from the surfaced list.
func (c *Center) Dismiss(
	entryID string,
) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.recent {
		if c.recent[i].EntryID == entryID {
			c.recent[i].Surfaced = false
			c.recent[i].Sticky = false
		}
	}
}

// Refresh reconciles the unread counter and maximum severity against the
// store's unacknowledged anomalies. Push updates and poll refreshes share
// this state last-writer-wins; there is no merge logic.
func (c *Center) Refresh(
	ctx context.Context,
) error {
	if c.store == nil {
		return nil
	}

	acknowledged := false
	entries, total, err := c.store.List(ctx, auditlog.Filter{
		ActionTypes:  []auditlog.ActionType{auditlog.ActionAnomalyDetected},
		Acknowledged: &acknowledged,
		SortBy:       auditlog.SortByOccurredAt,
		SortDesc:     true,
		Limit:        maxRecentAlerts,
	})
	if err != nil {
		return err
	}

	maxSeverity := auditlog.Severity("")
	for _, e := range entries {
		if e.Severity.Rank() > maxSeverity.Rank() {
			maxSeverity = e.Severity
		}
	}

	c.mu.Lock()
	c.unread = total
	c.maxSeverity = maxSeverity
	c.mu.Unlock()

	return nil
}

// Run polls Refresh until the context is cancelled. Fetch failures are
// logged and the previous state is kept.
func (c *Center) Run(
	ctx context.Context,
	interval time.Duration,
) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.logger.Warn(
					"alert center refresh failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
