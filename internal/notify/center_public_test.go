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

package notify_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/notify"
)

type CenterPublicTestSuite struct {
	suite.Suite

	logger *slog.Logger
}

func (s *CenterPublicTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func alertOf(
	entryID string,
	severity auditlog.Severity,
	actor string,
) notify.Alert {
	return notify.Alert{
		EntryID:    entryID,
		Type:       "MULTIPLE_FAILED_LOGINS",
		RiskLevel:  severity,
		ActorCode:  actor,
		TargetType: "auth",
		DetectedAt: time.Now(),
	}
}

func (s *CenterPublicTestSuite) TestUnreadCountAndMaxSeverity() {
	c := notify.NewCenter(s.logger, nil, 0)

	s.NoError(c.Notify(context.Background(), alertOf("e-1", auditlog.SeverityMedium, "E001")))
	s.NoError(c.Notify(context.Background(), alertOf("e-2", auditlog.SeverityCritical, "E002")))
	s.NoError(c.Notify(context.Background(), alertOf("e-3", auditlog.SeverityLow, "E003")))

	status := c.Snapshot()

	s.Equal(3, status.UnreadCount)
	s.Equal(auditlog.SeverityCritical, status.MaxSeverity)
	s.Len(status.Alerts, 3)
	// Newest first.
	s.Equal("e-3", status.Alerts[0].EntryID)
}

func (s *CenterPublicTestSuite) TestRepeatTagging() {
	c := notify.NewCenter(s.logger, nil, 30*time.Second)

	s.NoError(c.Notify(context.Background(), alertOf("e-1", auditlog.SeverityHigh, "E001")))
	s.NoError(c.Notify(context.Background(), alertOf("e-2", auditlog.SeverityHigh, "E001")))
	s.NoError(c.Notify(context.Background(), alertOf("e-3", auditlog.SeverityHigh, "E099")))

	status := c.Snapshot()

	s.Require().Len(status.Alerts, 3)
	s.False(status.Alerts[2].Repeat, "first alert is never a repeat")
	s.True(status.Alerts[1].Repeat, "same actor and target within the window")
	s.False(status.Alerts[0].Repeat, "different actor starts a fresh sequence")
}

func (s *CenterPublicTestSuite) TestCriticalAlertsAreSticky() {
	c := notify.NewCenter(s.logger, nil, 0)

	s.NoError(c.Notify(context.Background(), alertOf("e-1", auditlog.SeverityCritical, "E001")))

	status := c.Snapshot()
	s.Require().Len(status.Alerts, 1)
	s.True(status.Alerts[0].Sticky)
	s.True(status.Alerts[0].Surfaced)
	s.Nil(status.Alerts[0].ExpiresAt)

	c.Dismiss("e-1")

	status = c.Snapshot()
	s.False(status.Alerts[0].Sticky)
	s.False(status.Alerts[0].Surfaced)
}

func (s *CenterPublicTestSuite) TestTransientAlertsCarryExpiry() {
	c := notify.NewCenter(s.logger, nil, 0)

	s.NoError(c.Notify(context.Background(), alertOf("e-1", auditlog.SeverityHigh, "E001")))
	s.NoError(c.Notify(context.Background(), alertOf("e-2", auditlog.SeverityLow, "E002")))

	status := c.Snapshot()
	s.Require().Len(status.Alerts, 2)

	low := status.Alerts[0]
	s.False(low.Surfaced, "low severity never raises a banner")

	high := status.Alerts[1]
	s.True(high.Surfaced)
	s.False(high.Sticky)
	s.NotNil(high.ExpiresAt)
}

func (s *CenterPublicTestSuite) TestRefreshReconcilesAgainstStore() {
	store := auditlog.NewMemoryStore()
	for _, e := range []auditlog.Entry{
		{
			ID:         "a-1",
			OccurredAt: time.Now(),
			ActionType: auditlog.ActionAnomalyDetected,
			Severity:   auditlog.SeverityMedium,
			Result:     auditlog.ResultSuccess,
		},
		{
			ID:         "a-2",
			OccurredAt: time.Now(),
			ActionType: auditlog.ActionAnomalyDetected,
			Severity:   auditlog.SeverityHigh,
			Result:     auditlog.ResultSuccess,
		},
		{
			ID:             "a-3",
			OccurredAt:     time.Now(),
			ActionType:     auditlog.ActionAnomalyDetected,
			Severity:       auditlog.SeverityCritical,
			Result:         auditlog.ResultSuccess,
			IsAcknowledged: true,
		},
	} {
		s.Require().NoError(store.Append(context.Background(), e))
	}

	c := notify.NewCenter(s.logger, store, 0)
	// Push state diverges from the store; the poll overwrites it.
	s.NoError(c.Notify(context.Background(), alertOf("e-x", auditlog.SeverityCritical, "E001")))

	s.Require().NoError(c.Refresh(context.Background()))

	status := c.Snapshot()
	s.Equal(2, status.UnreadCount, "acknowledged anomalies are not unread")
	s.Equal(auditlog.SeverityHigh, status.MaxSeverity)
}

func TestCenterPublicTestSuite(t *testing.T) {
	suite.Run(t, new(CenterPublicTestSuite))
}
