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

// Package detect implements rule evaluation over a trailing audit log window.
package detect

import (
	"fmt"
	"sort"
	"time"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/rule"
)

// unknownActorBucket groups failed logins that carry no employee code.
const unknownActorBucket = "unknown"

// Event is one raised anomaly. Events are transient: the monitor translates
// them into ANOMALY_DETECTED audit entries, they are never persisted directly.
type Event struct {
	// Type is the firing rule's key.
	Type string `json:"type"`
	// Description is human-readable, interpolated with concrete numbers.
	Description string `json:"description"`
	// DetectedAt is the evaluation time.
	DetectedAt time.Time `json:"detected_at"`
	// RelatedLogIDs lists the contributing entries in occurrence order.
	RelatedLogIDs []string `json:"related_log_ids"`
	// RiskLevel is the firing rule's severity.
	RiskLevel auditlog.Severity `json:"risk_level"`
	// ActorCode and ActorName identify the implicated account when the rule
	// attributes the anomaly to a single actor. Empty for multi-actor events.
	ActorCode string `json:"actor_code,omitempty"`
	ActorName string `json:"actor_name,omitempty"`
}

// Evaluate scans the log window against the active rules and returns zero or
// more anomaly events. It is a pure function: identical inputs produce
// identical outputs. Rules are evaluated independently in a fixed order
// (failed logins, then after-hours access, then bulk updates) so a single log
// entry may contribute to several events.
func Evaluate(
	recentLogs []auditlog.Entry,
	rules []rule.Rule,
	now time.Time,
) []Event {
	events := make([]Event, 0)

	for _, key := range []rule.Key{
		rule.KeyMultipleFailedLogins,
		rule.KeyAfterHoursAccess,
		rule.KeyBulkUpdate,
	} {
		r, ok := enabledRule(rules, key)
		if !ok {
			continue
		}

		switch key {
		case rule.KeyMultipleFailedLogins:
			events = append(events, evaluateFailedLogins(recentLogs, r, now)...)
		case rule.KeyAfterHoursAccess:
			events = append(events, evaluateAfterHours(recentLogs, r, now)...)
		case rule.KeyBulkUpdate:
			events = append(events, evaluateBulkUpdate(recentLogs, r, now)...)
		}
	}

	return events
}

// enabledRule returns the first enabled rule for the key.
func enabledRule(
	rules []rule.Rule,
	key rule.Key,
) (rule.Rule, bool) {
	for _, r := range rules {
		if r.Key == key && r.Enabled {
			return r, true
		}
	}

	return rule.Rule{}, false
}

// evaluateFailedLogins groups LOGIN_FAILURE entries by actor code and raises
// one event per actor at or above the threshold. Entries without a code fall
// into a shared "unknown" bucket.
func evaluateFailedLogins(
	recentLogs []auditlog.Entry,
	r rule.Rule,
	now time.Time,
) []Event {
	params, _ := r.TypedParams().(rule.ThresholdParams)

	groups := make(map[string][]string)
	names := make(map[string]string)
	order := make([]string, 0)
	for _, e := range recentLogs {
		if e.ActionType != auditlog.ActionLoginFailure {
			continue
		}

		actor := e.ActorCode
		if actor == "" {
			actor = unknownActorBucket
		}

		if _, seen := groups[actor]; !seen {
			order = append(order, actor)
		}
		groups[actor] = append(groups[actor], e.ID)
		if names[actor] == "" {
			names[actor] = e.ActorName
		}
	}

	// First-seen order is already deterministic for a given window; sorting
	// keeps output stable when callers pre-group the window themselves.
	sort.Strings(order)

	events := make([]Event, 0)
	for _, actor := range order {
		ids := groups[actor]
		if len(ids) < params.Threshold {
			continue
		}

		events = append(events, Event{
			Type: string(r.Key),
			Description: fmt.Sprintf(
				"%d failed login attempts for account %s (threshold %d)",
				len(ids), actor, params.Threshold,
			),
			DetectedAt:    now,
			RelatedLogIDs: ids,
			RiskLevel:     r.Severity,
			ActorCode:     actor,
			ActorName:     names[actor],
		})
	}

	return events
}

// evaluateAfterHours raises one event per qualifying entry whose local clock
// time falls in the configured window. LOGIN_FAILURE entries are excluded;
// they belong to the failed-logins rule.
func evaluateAfterHours(
	recentLogs []auditlog.Entry,
	r rule.Rule,
	now time.Time,
) []Event {
	params, _ := r.TypedParams().(rule.ClockWindowParams)

	events := make([]Event, 0)
	for _, e := range recentLogs {
		if e.ActionType == auditlog.ActionLoginFailure {
			continue
		}

		clock := e.OccurredAt.Local().Format("15:04")
		if !params.Contains(clock) {
			continue
		}

		actor := e.ActorCode
		if actor == "" {
			actor = unknownActorBucket
		}

		events = append(events, Event{
			Type: string(r.Key),
			Description: fmt.Sprintf(
				"after-hours activity at %s by %s (%s, window %s-%s)",
				clock, actor, e.ActionType, params.Start, params.End,
			),
			DetectedAt:    now,
			RelatedLogIDs: []string{e.ID},
			RiskLevel:     r.Severity,
			ActorCode:     actor,
			ActorName:     e.ActorName,
		})
	}

	return events
}

// evaluateBulkUpdate counts UPDATE and DELETE entries across the whole window
// and raises a single event covering all of them at or above the threshold.
func evaluateBulkUpdate(
	recentLogs []auditlog.Entry,
	r rule.Rule,
	now time.Time,
) []Event {
	params, _ := r.TypedParams().(rule.ThresholdParams)

	ids := make([]string, 0)
	actorCode := ""
	actorName := ""
	uniform := true
	for _, e := range recentLogs {
		if e.ActionType != auditlog.ActionUpdate && e.ActionType != auditlog.ActionDelete {
			continue
		}
		ids = append(ids, e.ID)

		switch {
		case len(ids) == 1:
			actorCode = e.ActorCode
			actorName = e.ActorName
		case e.ActorCode != actorCode:
			uniform = false
		}
	}

	if len(ids) < params.Threshold {
		return nil
	}

	// Attribute the burst only when a single account produced all of it.
	if !uniform {
		actorCode = ""
		actorName = ""
	}

	return []Event{{
		Type: string(r.Key),
		Description: fmt.Sprintf(
			"%d update/delete operations in window (threshold %d)",
			len(ids), params.Threshold,
		),
		DetectedAt:    now,
		RelatedLogIDs: ids,
		RiskLevel:     r.Severity,
		ActorCode:     actorCode,
		ActorName:     actorName,
	}}
}
