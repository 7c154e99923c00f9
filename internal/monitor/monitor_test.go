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

package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/config"
	"github.com/assetwatch-io/assetwatch/internal/notify"
	"github.com/assetwatch-io/assetwatch/internal/rule"
	"github.com/assetwatch-io/assetwatch/internal/telemetry"
)

// failingRuleStore breaks the rule read to exercise tick failure isolation.
type failingRuleStore struct{}

func (failingRuleStore) List(_ context.Context) ([]rule.Rule, error) {
	return nil, errors.New("registry unavailable")
}

func (failingRuleStore) Update(_ context.Context, _ string, _ rule.Patch) (*rule.Rule, error) {
	return nil, errors.New("registry unavailable")
}

func (failingRuleStore) Seed(_ context.Context, _ []rule.Rule) error {
	return errors.New("registry unavailable")
}

type MonitorTestSuite struct {
	suite.Suite

	logger *slog.Logger
	logs   *auditlog.MemoryStore
	rules  *rule.MemoryStore
	center *notify.Center
	now    time.Time
}

func (s *MonitorTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.logs = auditlog.NewMemoryStore()
	s.rules = rule.NewMemoryStore()
	s.center = notify.NewCenter(s.logger, nil, 0)
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	s.Require().NoError(s.rules.Seed(context.Background(), rule.DefaultRules()))
}

func (s *MonitorTestSuite) newMonitor(
	rules rule.Store,
) *Monitor {
	metrics, err := telemetry.NewMonitorMetrics()
	s.Require().NoError(err)

	fanout := notify.NewFanout(s.logger).Add("center", s.center)

	m := New(s.logger, s.logs, rules, fanout, metrics, config.Monitor{})
	m.nowFn = func() time.Time { return s.now }

	seq := 0
	m.newID = func() string {
		seq++
		return fmt.Sprintf("anomaly-%d", seq)
	}

	return m
}

func (s *MonitorTestSuite) seedFailedLogins(
	n int,
) {
	for i := 0; i < n; i++ {
		s.Require().NoError(s.logs.Append(context.Background(), auditlog.Entry{
			ID:         fmt.Sprintf("fail-%d", i),
			OccurredAt: s.now.Add(-time.Minute),
			ActorCode:  "E001",
			ActionType: auditlog.ActionLoginFailure,
			Result:     auditlog.ResultFailure,
		}))
	}
}

func (s *MonitorTestSuite) anomalies() []auditlog.Entry {
	entries, _, err := s.logs.List(context.Background(), auditlog.Filter{
		ActionTypes: []auditlog.ActionType{auditlog.ActionAnomalyDetected},
	})
	s.Require().NoError(err)

	return entries
}

func (s *MonitorTestSuite) TestTickRaisesAndPersists() {
	s.seedFailedLogins(5)
	m := s.newMonitor(s.rules)

	s.Require().NoError(m.Tick(context.Background()))

	anomalies := s.anomalies()
	s.Require().Len(anomalies, 1)

	got := anomalies[0]
	s.Equal(auditlog.ActionAnomalyDetected, got.ActionType)
	s.Equal("System Monitor", got.ActorName)
	s.Equal(auditlog.ResultSuccess, got.Result)
	s.Equal(auditlog.ResponsePending, got.ResponseStatus)
	s.Equal(string(rule.KeyMultipleFailedLogins), got.AnomalyType())
	s.Equal(auditlog.SeverityHigh, got.Severity)

	related, _ := got.Metadata[auditlog.MetaRelatedLogIDs].([]string)
	s.Len(related, 5)

	// The alert reached the in-app sink.
	s.Equal(1, s.center.Snapshot().UnreadCount)
}

func (s *MonitorTestSuite) TestAlertsCarryImplicatedActor() {
	s.seedFailedLogins(5)
	for i := 0; i < 10; i++ {
		s.Require().NoError(s.logs.Append(context.Background(), auditlog.Entry{
			ID:         fmt.Sprintf("upd-%d", i),
			OccurredAt: s.now.Add(-time.Minute),
			ActorCode:  "E999",
			ActionType: auditlog.ActionUpdate,
			Result:     auditlog.ResultSuccess,
		}))
	}
	m := s.newMonitor(s.rules)

	s.Require().NoError(m.Tick(context.Background()))

	alerts := s.center.Snapshot().Alerts
	s.Require().Len(alerts, 2)

	bulk, logins := alerts[0], alerts[1]
	s.Equal(string(rule.KeyBulkUpdate), bulk.Type)
	s.Equal("E999", bulk.ActorCode)
	s.Equal(string(rule.KeyMultipleFailedLogins), logins.Type)
	s.Equal("E001", logins.ActorCode)

	// Different actors within the repeat window stay independent sequences.
	s.False(bulk.Repeat)
	s.False(logins.Repeat)
}

func (s *MonitorTestSuite) TestDedupWindowSuppressesRepeats() {
	s.seedFailedLogins(5)
	m := s.newMonitor(s.rules)

	s.Require().NoError(m.Tick(context.Background()))

	// Second tick inside the dedup window sees the same failures plus the
	// persisted anomaly, and must not raise another one.
	s.now = s.now.Add(10 * time.Second)
	s.Require().NoError(m.Tick(context.Background()))
	s.Len(s.anomalies(), 1)

	// Past the window the anomaly is raised again.
	s.now = s.now.Add(6 * time.Minute)
	s.seedFailedLogins(5)
	s.Require().NoError(m.Tick(context.Background()))
	s.Len(s.anomalies(), 2)
}

func (s *MonitorTestSuite) TestTickIsIdempotentOnQuietWindow() {
	m := s.newMonitor(s.rules)

	s.Require().NoError(m.Tick(context.Background()))
	s.Require().NoError(m.Tick(context.Background()))

	s.Empty(s.anomalies())
}

func (s *MonitorTestSuite) TestTickFailureLeavesStoreUntouched() {
	m := s.newMonitor(failingRuleStore{})

	s.Error(m.Tick(context.Background()))
	s.Empty(s.anomalies())
}

func (s *MonitorTestSuite) TestRunStopsOnContextCancel() {
	m := s.newMonitor(s.rules)
	m.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("monitor did not stop on cancel")
	}
}

func (s *MonitorTestSuite) TestLookbackUsesWidestEnabledWindow() {
	m := s.newMonitor(s.rules)

	rules := []rule.Rule{
		{
			Key:     rule.KeyMultipleFailedLogins,
			Enabled: true,
			Params:  map[string]any{"window_minutes": 45},
		},
		{
			Key:     rule.KeyBulkUpdate,
			Enabled: false,
			Params:  map[string]any{"window_minutes": 120},
		},
	}

	s.Equal(45*time.Minute, m.lookback(rules))
	s.Equal(10*time.Minute, m.lookback(nil), "floor applies with no rules")
}

func TestMonitorTestSuite(t *testing.T) {
	suite.Run(t, new(MonitorTestSuite))
}
