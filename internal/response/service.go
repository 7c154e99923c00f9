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

// Package response implements the anomaly acknowledgement workflow.
package response

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// Workflow errors returned to the API layer.
var (
	// ErrInvalidStatus is returned for a status outside the workflow states.
	ErrInvalidStatus = errors.New("invalid response status")
	// ErrStatusRegression is returned when the requested status moves
	// backwards. The workflow is monotonic: pending -> investigating ->
	// completed, skipping investigating is allowed.
	ErrStatusRegression = errors.New("response status cannot move backwards")
	// ErrNoteRequired is returned when a note is required but absent.
	ErrNoteRequired = errors.New("response note is required")
	// ErrNotAnomaly is returned when the target entry is not an anomaly.
	ErrNotAnomaly = errors.New("entry is not an anomaly detection")
)

// statusRank orders the workflow states for the monotonicity check.
var statusRank = map[auditlog.ResponseStatus]int{
	auditlog.ResponsePending:       1,
	auditlog.ResponseInvestigating: 2,
	auditlog.ResponseCompleted:     3,
}

// Request is one operator response to a detected anomaly.
type Request struct {
	// Status is the requested workflow state.
	Status auditlog.ResponseStatus `json:"response_status" validate:"required"`
	// Note is the operator's justification. Required when completing, and for
	// any response to a high or critical anomaly.
	Note string `json:"response_note,omitempty"`
	// ActorCode and ActorName identify the responding operator.
	ActorCode string `json:"actor_code" validate:"required"`
	ActorName string `json:"actor_name,omitempty"`
}

// Service applies operator responses. All validation happens before any
// write, so a rejected request leaves the entry untouched.
type Service struct {
	logger *slog.Logger
	logs   auditlog.Store

	nowFn func() time.Time
	newID func() string
}

// NewService creates a new Service.
func NewService(
	logger *slog.Logger,
	logs auditlog.Store,
) *Service {
	return &Service{
		logger: logger,
		logs:   logs,
		nowFn:  time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Respond applies one response to the anomaly entry and returns the updated
// entry. Completing an anomaly acknowledges it and overwrites its result
// with success.
func (s *Service) Respond(
	ctx context.Context,
	entryID string,
	req Request,
) (*auditlog.Entry, error) {
	entry, err := s.logs.Get(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("loading entry: %w", err)
	}

	if err := validate(entry, req); err != nil {
		return nil, err
	}

	now := s.nowFn()
	update := auditlog.ResponseUpdate{
		Status:         req.Status,
		Note:           req.Note,
		AcknowledgedBy: req.ActorCode,
		AcknowledgedAt: now,
	}
	if req.Status == auditlog.ResponseCompleted {
		update.Acknowledge = true
		update.ForceResultSuccess = true
	}

	updated, err := s.logs.UpdateResponse(ctx, entryID, update)
	if err != nil {
		return nil, fmt.Errorf("updating response: %w", err)
	}

	s.logger.Info(
		"anomaly response registered",
		slog.String("entry_id", entryID),
		slog.String("status", string(req.Status)),
		slog.String("actor", req.ActorCode),
	)

	// The response itself is audited. A failed trail write does not undo the
	// response; it is logged and surfaced to operators through the log.
	trail := auditlog.Entry{
		ID:         s.newID(),
		OccurredAt: now,
		ActorCode:  req.ActorCode,
		ActorName:  req.ActorName,
		ActionType: auditlog.ActionAnomalyResponse,
		TargetType: "audit_log",
		TargetID:   entryID,
		Result:     auditlog.ResultSuccess,
		Metadata: auditlog.Metadata{
			auditlog.MetaAnomalyType: entry.AnomalyType(),
			"response_status":        string(req.Status),
		},
	}
	if err := s.logs.Append(ctx, trail); err != nil {
		s.logger.Error(
			"recording response trail failed",
			slog.String("entry_id", entryID),
			slog.String("error", err.Error()),
		)
	}

	return updated, nil
}

// validate enforces the workflow rules without touching the store.
func validate(
	entry *auditlog.Entry,
	req Request,
) error {
	if entry.ActionType != auditlog.ActionAnomalyDetected {
		return ErrNotAnomaly
	}

	rank, known := statusRank[req.Status]
	if !known {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	if entry.ResponseStatus == auditlog.ResponseCompleted {
		return auditlog.ErrFinalized
	}
	if current, ok := statusRank[entry.ResponseStatus]; ok && rank < current {
		return fmt.Errorf(
			"%w: %s -> %s",
			ErrStatusRegression, entry.ResponseStatus, req.Status,
		)
	}

	needsNote := req.Status == auditlog.ResponseCompleted ||
		entry.Severity == auditlog.SeverityHigh ||
		entry.Severity == auditlog.SeverityCritical
	if needsNote && req.Note == "" {
		return fmt.Errorf(
			"%w: status %s, severity %s",
			ErrNoteRequired, req.Status, entry.Severity,
		)
	}

	return nil
}
