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

package response_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/response"
)

type ServicePublicTestSuite struct {
	suite.Suite

	store   *auditlog.MemoryStore
	service *response.Service
}

func (s *ServicePublicTestSuite) SetupTest() {
	s.store = auditlog.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = response.NewService(logger, s.store)
}

func (s *ServicePublicTestSuite) seedAnomaly(
	id string,
	severity auditlog.Severity,
	status auditlog.ResponseStatus,
) {
	s.Require().NoError(s.store.Append(context.Background(), auditlog.Entry{
		ID:             id,
		OccurredAt:     time.Now(),
		ActorCode:      "SYSTEM",
		ActorName:      "System Monitor",
		ActionType:     auditlog.ActionAnomalyDetected,
		Result:         auditlog.ResultSuccess,
		Severity:       severity,
		ResponseStatus: status,
		Metadata: auditlog.Metadata{
			auditlog.MetaAnomalyType: "BULK_UPDATE",
		},
	}))
}

func (s *ServicePublicTestSuite) TestRespond() {
	tests := []struct {
		name     string
		severity auditlog.Severity
		status   auditlog.ResponseStatus
		req      response.Request
		wantErr  error
	}{
		{
			name:     "pending to investigating needs no note at medium",
			severity: auditlog.SeverityMedium,
			status:   auditlog.ResponsePending,
			req: response.Request{
				Status:    auditlog.ResponseInvestigating,
				ActorCode: "E100",
			},
		},
		{
			name:     "high severity requires a note at any step",
			severity: auditlog.SeverityHigh,
			status:   auditlog.ResponsePending,
			req: response.Request{
				Status:    auditlog.ResponseInvestigating,
				ActorCode: "E100",
			},
			wantErr: response.ErrNoteRequired,
		},
		{
			name:     "completing requires a note",
			severity: auditlog.SeverityMedium,
			status:   auditlog.ResponseInvestigating,
			req: response.Request{
				Status:    auditlog.ResponseCompleted,
				ActorCode: "E100",
			},
			wantErr: response.ErrNoteRequired,
		},
		{
			name:     "pending straight to completed is allowed with a note",
			severity: auditlog.SeverityMedium,
			status:   auditlog.ResponsePending,
			req: response.Request{
				Status:    auditlog.ResponseCompleted,
				Note:      "false positive, scheduled data migration",
				ActorCode: "E100",
			},
		},
		{
			name:     "investigating cannot regress to pending",
			severity: auditlog.SeverityMedium,
			status:   auditlog.ResponseInvestigating,
			req: response.Request{
				Status:    auditlog.ResponsePending,
				ActorCode: "E100",
			},
			wantErr: response.ErrStatusRegression,
		},
		{
			name:     "completed entries are finalized",
			severity: auditlog.SeverityMedium,
			status:   auditlog.ResponseCompleted,
			req: response.Request{
				Status:    auditlog.ResponseInvestigating,
				Note:      "reopening",
				ActorCode: "E100",
			},
			wantErr: auditlog.ErrFinalized,
		},
		{
			name:     "unknown status is rejected",
			severity: auditlog.SeverityMedium,
			status:   auditlog.ResponsePending,
			req: response.Request{
				Status:    auditlog.ResponseStatus("escalated"),
				ActorCode: "E100",
			},
			wantErr: response.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			s.seedAnomaly("a-1", tt.severity, tt.status)

			updated, err := s.service.Respond(context.Background(), "a-1", tt.req)

			if tt.wantErr != nil {
				s.ErrorIs(err, tt.wantErr)

				// Rejected requests leave the entry untouched.
				entry, getErr := s.store.Get(context.Background(), "a-1")
				s.Require().NoError(getErr)
				s.Equal(tt.status, entry.ResponseStatus)

				return
			}

			s.Require().NoError(err)
			s.Equal(tt.req.Status, updated.ResponseStatus)
			s.Equal(tt.req.Note, updated.ResponseNote)
			s.Equal("E100", updated.AcknowledgedBy)
		})
	}
}

func (s *ServicePublicTestSuite) TestCompletionForcesAcknowledgementAndSuccess() {
	s.Require().NoError(s.store.Append(context.Background(), auditlog.Entry{
		ID:             "a-2",
		OccurredAt:     time.Now(),
		ActionType:     auditlog.ActionAnomalyDetected,
		Result:         auditlog.ResultFailure,
		Severity:       auditlog.SeverityCritical,
		ResponseStatus: auditlog.ResponsePending,
	}))

	updated, err := s.service.Respond(context.Background(), "a-2", response.Request{
		Status:    auditlog.ResponseCompleted,
		Note:      "credentials rotated, account re-enabled",
		ActorCode: "E100",
	})

	s.Require().NoError(err)
	s.True(updated.IsAcknowledged)
	s.Equal(auditlog.ResultSuccess, updated.Result)
	s.NotNil(updated.AcknowledgedAt)
}

func (s *ServicePublicTestSuite) TestRespondRecordsTrailEntry() {
	s.seedAnomaly("a-3", auditlog.SeverityMedium, auditlog.ResponsePending)

	_, err := s.service.Respond(context.Background(), "a-3", response.Request{
		Status:    auditlog.ResponseInvestigating,
		ActorCode: "E100",
		ActorName: "Dana Okafor",
	})
	s.Require().NoError(err)

	trail, _, err := s.store.List(context.Background(), auditlog.Filter{
		ActionTypes: []auditlog.ActionType{auditlog.ActionAnomalyResponse},
	})
	s.Require().NoError(err)
	s.Require().Len(trail, 1)
	s.Equal("a-3", trail[0].TargetID)
	s.Equal("E100", trail[0].ActorCode)
}

func (s *ServicePublicTestSuite) TestRespondToNonAnomalyIsRejected() {
	s.Require().NoError(s.store.Append(context.Background(), auditlog.Entry{
		ID:         "plain-1",
		OccurredAt: time.Now(),
		ActionType: auditlog.ActionUpdate,
		Result:     auditlog.ResultSuccess,
	}))

	_, err := s.service.Respond(context.Background(), "plain-1", response.Request{
		Status:    auditlog.ResponseInvestigating,
		ActorCode: "E100",
	})

	s.ErrorIs(err, response.ErrNotAnomaly)
}

func (s *ServicePublicTestSuite) TestRespondToMissingEntry() {
	_, err := s.service.Respond(context.Background(), "nope", response.Request{
		Status:    auditlog.ResponseInvestigating,
		ActorCode: "E100",
	})

	s.ErrorIs(err, auditlog.ErrNotFound)
}

func TestServicePublicTestSuite(t *testing.T) {
	suite.Run(t, new(ServicePublicTestSuite))
}
