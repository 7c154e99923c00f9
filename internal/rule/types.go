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

// Package rule provides the anomaly detection rule registry.
package rule

import (
	"context"
	"errors"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// Key is the stable identifier of a detection policy.
type Key string

// Known rule keys.
const (
	KeyMultipleFailedLogins Key = "MULTIPLE_FAILED_LOGINS"
	KeyAfterHoursAccess     Key = "AFTER_HOURS_ACCESS"
	KeyBulkUpdate           Key = "BULK_UPDATE"
)

// ErrNotFound is returned when no rule exists for the given ID.
var ErrNotFound = errors.New("rule not found")

// Rule is one named, toggleable detection policy. Params is an open bag as
// persisted; TypedParams interprets it per rule key.
type Rule struct {
	// ID is the unique identifier for this rule.
	ID string `json:"id"`
	// Key is the stable rule identifier. Conventionally unique by seed data;
	// no store-level uniqueness is enforced.
	Key Key `json:"rule_key"`
	// Enabled toggles evaluation.
	Enabled bool `json:"enabled"`
	// Severity is stamped on anomalies this rule raises.
	Severity auditlog.Severity `json:"severity"`
	// Params is the rule-specific parameter bag.
	Params map[string]any `json:"params,omitempty"`
}

// Patch is a partial rule update. Nil fields are left unchanged.
type Patch struct {
	Enabled  *bool              `json:"enabled,omitempty"`
	Severity *auditlog.Severity `json:"severity,omitempty"`
	Params   map[string]any     `json:"params,omitempty"`
}

// Store is the rule registry persistence contract. The monitor re-reads
// rules every cycle so registry changes take effect within one interval.
type Store interface {
	// List returns all rules ordered by rule key.
	List(ctx context.Context) ([]Rule, error)
	// Update applies a partial update by ID and returns the updated rule.
	Update(ctx context.Context, id string, patch Patch) (*Rule, error)
	// Seed inserts the given rules when the registry is empty.
	Seed(ctx context.Context, rules []Rule) error
}
