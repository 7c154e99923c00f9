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

// Package auditlog provides the audit trail model and storage contracts.
package auditlog

import "time"

// ActionType tags what kind of activity a log entry records.
type ActionType string

// Known action types.
const (
	ActionLoginSuccess    ActionType = "LOGIN_SUCCESS"
	ActionLoginFailure    ActionType = "LOGIN_FAILURE"
	ActionLogout          ActionType = "LOGOUT"
	ActionCreate          ActionType = "CREATE"
	ActionUpdate          ActionType = "UPDATE"
	ActionDelete          ActionType = "DELETE"
	ActionExport          ActionType = "EXPORT"
	ActionImport          ActionType = "IMPORT"
	ActionAnomalyDetected ActionType = "ANOMALY_DETECTED"
	ActionAnomalyResponse ActionType = "ANOMALY_RESPONSE"
)

// Result records whether the audited action succeeded.
type Result string

// Result values.
const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Severity is the ordinal risk tag attached to detection rules and the
// anomalies they raise. Only meaningful on ANOMALY_DETECTED entries.
type Severity string

// Severity levels, lowest to highest.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the severity's ordinal position for comparisons.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Valid reports whether s is a known severity level.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// ResponseStatus is the operator triage state of an anomaly entry.
type ResponseStatus string

// Response workflow states. The forward path is pending -> investigating ->
// completed; pending -> completed is also allowed.
const (
	ResponsePending       ResponseStatus = "pending"
	ResponseInvestigating ResponseStatus = "investigating"
	ResponseCompleted     ResponseStatus = "completed"
)

// Metadata is the open structured payload carried by a log entry.
type Metadata map[string]any

// Metadata keys written by the anomaly monitor.
const (
	MetaAnomalyType   = "anomaly_type"
	MetaDescription   = "description"
	MetaRiskLevel     = "risk_level"
	MetaRelatedLogIDs = "related_log_ids"
	MetaDetectedAt    = "detected_at"
)

// Entry represents a single audited event. Entries are append-only: the
// acknowledgement workflow mutates the response fields, the archiver sets the
// archival flag, and nothing else ever writes to a persisted entry.
type Entry struct {
	// ID is the unique identifier for this entry.
	ID string `json:"id"`
	// OccurredAt is when the event happened.
	OccurredAt time.Time `json:"occurred_at"`
	// ActorCode is the employee code of the acting user, if known.
	ActorCode string `json:"actor_code,omitempty"`
	// ActorName is the acting user's display name, if known.
	ActorName string `json:"actor_name,omitempty"`
	// ActionType tags the activity.
	ActionType ActionType `json:"action_type"`
	// TargetType names the kind of object acted on (e.g. "device", "employee").
	TargetType string `json:"target_type,omitempty"`
	// TargetID identifies the object acted on.
	TargetID string `json:"target_id,omitempty"`
	// Result records success or failure.
	Result Result `json:"result"`
	// Severity is set on ANOMALY_DETECTED entries only.
	Severity Severity `json:"severity,omitempty"`
	// Metadata carries rule-specific detail.
	Metadata Metadata `json:"metadata,omitempty"`
	// IsAcknowledged marks a triaged anomaly.
	IsAcknowledged bool `json:"is_acknowledged"`
	// ResponseStatus is the triage state. Empty for non-anomaly entries.
	ResponseStatus ResponseStatus `json:"response_status,omitempty"`
	// ResponseNote is the operator's justification.
	ResponseNote string `json:"response_note,omitempty"`
	// AcknowledgedBy records who registered the response.
	AcknowledgedBy string `json:"acknowledged_by,omitempty"`
	// AcknowledgedAt records when the response was registered.
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	// Archived flags entries past the retention cutoff. Archived entries are
	// excluded from reads unless explicitly requested; they are never deleted.
	Archived bool `json:"archived,omitempty"`
	// ArchivedAt records when the entry was archived.
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// AnomalyType returns the anomaly type tag from metadata, or "" when the
// entry is not a monitor-raised anomaly.
func (e Entry) AnomalyType() string {
	if e.Metadata == nil {
		return ""
	}

	t, _ := e.Metadata[MetaAnomalyType].(string)

	return t
}
