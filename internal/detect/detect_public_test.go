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

package detect_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/detect"
	"github.com/assetwatch-io/assetwatch/internal/rule"
)

type DetectPublicTestSuite struct {
	suite.Suite

	now time.Time
}

func (s *DetectPublicTestSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
}

// loginFailures fabricates n LOGIN_FAILURE entries for one actor.
func (s *DetectPublicTestSuite) loginFailures(
	actor string,
	n int,
) []auditlog.Entry {
	entries := make([]auditlog.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, auditlog.Entry{
			ID:         fmt.Sprintf("%s-fail-%d", actor, i),
			OccurredAt: s.now.Add(time.Duration(-i) * time.Minute),
			ActorCode:  actor,
			ActionType: auditlog.ActionLoginFailure,
			Result:     auditlog.ResultFailure,
		})
	}

	return entries
}

// bulkOps fabricates n alternating UPDATE/DELETE entries at a daytime clock.
func (s *DetectPublicTestSuite) bulkOps(
	n int,
) []auditlog.Entry {
	entries := make([]auditlog.Entry, 0, n)
	for i := 0; i < n; i++ {
		action := auditlog.ActionUpdate
		if i%2 == 1 {
			action = auditlog.ActionDelete
		}
		entries = append(entries, auditlog.Entry{
			ID:         fmt.Sprintf("bulk-%d", i),
			OccurredAt: s.now.Add(time.Duration(-i) * time.Second),
			ActorCode:  "E010",
			ActionType: action,
			Result:     auditlog.ResultSuccess,
		})
	}

	return entries
}

func loginRule(
	enabled bool,
	threshold int,
) rule.Rule {
	return rule.Rule{
		ID:       "r-logins",
		Key:      rule.KeyMultipleFailedLogins,
		Enabled:  enabled,
		Severity: auditlog.SeverityHigh,
		Params:   map[string]any{"threshold": threshold, "window_minutes": 10},
	}
}

func bulkRule(
	threshold int,
) rule.Rule {
	return rule.Rule{
		ID:       "r-bulk",
		Key:      rule.KeyBulkUpdate,
		Enabled:  true,
		Severity: auditlog.SeverityMedium,
		Params:   map[string]any{"threshold": threshold},
	}
}

func afterHoursRule(
	start string,
	end string,
) rule.Rule {
	return rule.Rule{
		ID:       "r-hours",
		Key:      rule.KeyAfterHoursAccess,
		Enabled:  true,
		Severity: auditlog.SeverityMedium,
		Params:   map[string]any{"start": start, "end": end},
	}
}

func (s *DetectPublicTestSuite) TestMultipleFailedLogins() {
	tests := []struct {
		name       string
		logs       []auditlog.Entry
		rules      []rule.Rule
		wantEvents int
		wantIDs    int
	}{
		{
			name:       "threshold exact match raises one event",
			logs:       s.loginFailures("E001", 5),
			rules:      []rule.Rule{loginRule(true, 5)},
			wantEvents: 1,
			wantIDs:    5,
		},
		{
			name:       "below threshold raises nothing",
			logs:       s.loginFailures("E001", 4),
			rules:      []rule.Rule{loginRule(true, 5)},
			wantEvents: 0,
		},
		{
			name:       "disabled rule raises nothing regardless of count",
			logs:       s.loginFailures("E001", 10),
			rules:      []rule.Rule{loginRule(false, 5)},
			wantEvents: 0,
		},
		{
			name: "missing actor codes group under unknown bucket",
			logs: func() []auditlog.Entry {
				entries := s.loginFailures("", 5)
				return entries
			}(),
			rules:      []rule.Rule{loginRule(true, 5)},
			wantEvents: 1,
			wantIDs:    5,
		},
		{
			name: "actors are grouped independently",
			logs: append(
				s.loginFailures("E001", 5),
				s.loginFailures("E002", 3)...,
			),
			rules:      []rule.Rule{loginRule(true, 5)},
			wantEvents: 1,
			wantIDs:    5,
		},
		{
			name:       "malformed threshold degrades to default of five",
			logs:       s.loginFailures("E001", 5),
			rules:      []rule.Rule{{ID: "r", Key: rule.KeyMultipleFailedLogins, Enabled: true, Severity: auditlog.SeverityHigh, Params: map[string]any{"threshold": "lots"}}},
			wantEvents: 1,
			wantIDs:    5,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			events := detect.Evaluate(tt.logs, tt.rules, s.now)

			s.Len(events, tt.wantEvents)
			if tt.wantEvents == 1 {
				s.Equal(string(rule.KeyMultipleFailedLogins), events[0].Type)
				s.Equal(auditlog.SeverityHigh, events[0].RiskLevel)
				s.Len(events[0].RelatedLogIDs, tt.wantIDs)
				s.Equal(s.now, events[0].DetectedAt)
			}
		})
	}
}

func (s *DetectPublicTestSuite) TestBulkUpdate() {
	tests := []struct {
		name       string
		logs       []auditlog.Entry
		wantEvents int
	}{
		{
			name:       "threshold exact match raises one covering event",
			logs:       s.bulkOps(10),
			wantEvents: 1,
		},
		{
			name:       "one below threshold raises nothing",
			logs:       s.bulkOps(9),
			wantEvents: 0,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			events := detect.Evaluate(tt.logs, []rule.Rule{bulkRule(10)}, s.now)

			s.Len(events, tt.wantEvents)
			if tt.wantEvents == 1 {
				s.Len(events[0].RelatedLogIDs, len(tt.logs))
				s.Contains(events[0].Description, "10")
			}
		})
	}
}

func (s *DetectPublicTestSuite) TestAfterHoursAccess() {
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 14, hour, minute, 0, 0, time.Local)
	}

	tests := []struct {
		name       string
		entry      auditlog.Entry
		start      string
		end        string
		wantEvents int
	}{
		{
			name: "activity after start qualifies",
			entry: auditlog.Entry{
				ID: "l1", OccurredAt: at(23, 30), ActorCode: "E001",
				ActionType: auditlog.ActionUpdate, Result: auditlog.ResultSuccess,
			},
			start: "22:00", end: "06:00", wantEvents: 1,
		},
		{
			name: "activity before end qualifies",
			entry: auditlog.Entry{
				ID: "l2", OccurredAt: at(5, 0), ActorCode: "E001",
				ActionType: auditlog.ActionLoginSuccess, Result: auditlog.ResultSuccess,
			},
			start: "22:00", end: "06:00", wantEvents: 1,
		},
		{
			name: "daytime activity does not qualify",
			entry: auditlog.Entry{
				ID: "l3", OccurredAt: at(14, 0), ActorCode: "E001",
				ActionType: auditlog.ActionUpdate, Result: auditlog.ResultSuccess,
			},
			start: "22:00", end: "06:00", wantEvents: 0,
		},
		{
			name: "login failures are excluded",
			entry: auditlog.Entry{
				ID: "l4", OccurredAt: at(23, 30), ActorCode: "E001",
				ActionType: auditlog.ActionLoginFailure, Result: auditlog.ResultFailure,
			},
			start: "22:00", end: "06:00", wantEvents: 0,
		},
		{
			// The OR-based membership test treats start < end as "outside
			// [end, start)": 12:00 sits outside [17:00, 09:00) and matches.
			name: "permissive OR semantics when start precedes end",
			entry: auditlog.Entry{
				ID: "l5", OccurredAt: at(12, 0), ActorCode: "E001",
				ActionType: auditlog.ActionUpdate, Result: auditlog.ResultSuccess,
			},
			start: "09:00", end: "17:00", wantEvents: 1,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			events := detect.Evaluate(
				[]auditlog.Entry{tt.entry},
				[]rule.Rule{afterHoursRule(tt.start, tt.end)},
				s.now,
			)

			s.Len(events, tt.wantEvents)
			if tt.wantEvents == 1 {
				s.Equal([]string{tt.entry.ID}, events[0].RelatedLogIDs)
				s.Equal(tt.entry.ActorCode, events[0].ActorCode)
			}
		})
	}
}

func (s *DetectPublicTestSuite) TestEventActorAttribution() {
	mixedBulk := s.bulkOps(10)
	mixedBulk[3].ActorCode = "E011"

	tests := []struct {
		name      string
		logs      []auditlog.Entry
		rules     []rule.Rule
		wantActor string
	}{
		{
			name:      "failed logins carry the grouped actor",
			logs:      s.loginFailures("E001", 5),
			rules:     []rule.Rule{loginRule(true, 5)},
			wantActor: "E001",
		},
		{
			name:      "codeless failed logins carry the unknown bucket",
			logs:      s.loginFailures("", 5),
			rules:     []rule.Rule{loginRule(true, 5)},
			wantActor: "unknown",
		},
		{
			name:      "bulk burst from a single account is attributed",
			logs:      s.bulkOps(10),
			rules:     []rule.Rule{bulkRule(10)},
			wantActor: "E010",
		},
		{
			name:      "bulk burst across accounts is unattributed",
			logs:      mixedBulk,
			rules:     []rule.Rule{bulkRule(10)},
			wantActor: "",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			events := detect.Evaluate(tt.logs, tt.rules, s.now)

			s.Require().Len(events, 1)
			s.Equal(tt.wantActor, events[0].ActorCode)
		})
	}
}

func (s *DetectPublicTestSuite) TestEvaluateIsPure() {
	logs := append(s.loginFailures("E001", 6), s.bulkOps(12)...)
	rules := []rule.Rule{
		loginRule(true, 5),
		afterHoursRule("22:00", "06:00"),
		bulkRule(10),
	}

	first := detect.Evaluate(logs, rules, s.now)
	second := detect.Evaluate(logs, rules, s.now)

	s.Equal(first, second)
}

func (s *DetectPublicTestSuite) TestEvaluationOrderAndOverlap() {
	// A nighttime UPDATE burst trips both after-hours and bulk rules; the
	// same entries contribute to both.
	night := time.Date(2026, 3, 14, 23, 0, 0, 0, time.Local)
	logs := make([]auditlog.Entry, 0, 10)
	for i := 0; i < 10; i++ {
		logs = append(logs, auditlog.Entry{
			ID:         fmt.Sprintf("n-%d", i),
			OccurredAt: night,
			ActorCode:  "E009",
			ActionType: auditlog.ActionUpdate,
			Result:     auditlog.ResultSuccess,
		})
	}

	events := detect.Evaluate(
		logs,
		[]rule.Rule{afterHoursRule("22:00", "06:00"), bulkRule(10)},
		s.now,
	)

	s.Require().Len(events, 11)
	for _, ev := range events[:10] {
		s.Equal(string(rule.KeyAfterHoursAccess), ev.Type)
	}
	s.Equal(string(rule.KeyBulkUpdate), events[10].Type)
	s.Len(events[10].RelatedLogIDs, 10)
}

func (s *DetectPublicTestSuite) TestUnknownRuleContributesNothing() {
	logs := s.loginFailures("E001", 5)
	rules := []rule.Rule{{
		ID:       "r-unknown",
		Key:      rule.Key("GEO_VELOCITY"),
		Enabled:  true,
		Severity: auditlog.SeverityCritical,
		Params:   map[string]any{"threshold": 1},
	}}

	s.Empty(detect.Evaluate(logs, rules, s.now))
}

func TestDetectPublicTestSuite(t *testing.T) {
	suite.Run(t, new(DetectPublicTestSuite))
}
