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

// Package notify delivers raised anomalies to the in-app alert center and
// the external chat webhook.
package notify

import (
	"context"
	"time"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// Alert is one anomaly on its way to operators. It is derived from the
// persisted ANOMALY_DETECTED entry, so a failed delivery never affects the
// audit trail.
type Alert struct {
	// EntryID is the persisted audit entry backing this alert.
	EntryID string `json:"entry_id"`
	// Type is the firing rule's key.
	Type string `json:"type"`
	// Description is the human-readable summary.
	Description string `json:"description"`
	// RiskLevel is the anomaly severity.
	RiskLevel auditlog.Severity `json:"risk_level"`
	// ActorCode and ActorName identify the implicated account, if known.
	ActorCode string `json:"actor_code,omitempty"`
	ActorName string `json:"actor_name,omitempty"`
	// TargetType names the kind of object involved.
	TargetType string `json:"target_type,omitempty"`
	// DetectedAt is when the evaluator raised the anomaly.
	DetectedAt time.Time `json:"detected_at"`
}

// Notifier is a single delivery sink.
type Notifier interface {
	// Notify delivers one alert. Implementations must not panic; errors are
	// reported to the caller and never abort the caller's loop.
	Notify(ctx context.Context, alert Alert) error
}
