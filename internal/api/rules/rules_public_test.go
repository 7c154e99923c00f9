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

package rules_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	apirules "github.com/assetwatch-io/assetwatch/internal/api/rules"
	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/rule"
)

type RulesPublicTestSuite struct {
	suite.Suite

	echo    *echo.Echo
	store   *rule.MemoryStore
	handler *apirules.Rules
	ruleID  string
}

func (s *RulesPublicTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.echo = echo.New()
	s.store = rule.NewMemoryStore()
	s.handler = apirules.New(logger, s.store)

	s.Require().NoError(s.store.Seed(context.Background(), rule.DefaultRules()))

	rules, err := s.store.List(context.Background())
	s.Require().NoError(err)
	for _, r := range rules {
		if r.Key == rule.KeyMultipleFailedLogins {
			s.ruleID = r.ID
		}
	}
	s.Require().NotEmpty(s.ruleID)
}

func (s *RulesPublicTestSuite) TestGetRules() {
	req := httptest.NewRequest(http.MethodGet, "/audit/rules", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.Require().NoError(s.handler.GetRules(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp apirules.ListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Items, 3)
}

func (s *RulesPublicTestSuite) TestPatchRule() {
	tests := []struct {
		name     string
		id       string
		body     string
		wantCode int
		check    func(updated rule.Rule)
	}{
		{
			name:     "disable rule",
			body:     `{"enabled":false}`,
			wantCode: http.StatusOK,
			check: func(updated rule.Rule) {
				s.False(updated.Enabled)
			},
		},
		{
			name:     "raise threshold and severity",
			body:     `{"severity":"critical","params":{"threshold":8}}`,
			wantCode: http.StatusOK,
			check: func(updated rule.Rule) {
				s.Equal(auditlog.SeverityCritical, updated.Severity)
				params, _ := updated.TypedParams().(rule.ThresholdParams)
				s.Equal(8, params.Threshold)
			},
		},
		{
			name:     "invalid severity rejected",
			body:     `{"severity":"extreme"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "non-positive threshold rejected",
			body:     `{"params":{"threshold":0}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed clock bound rejected",
			body:     `{"params":{"start":"25:00"}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown rule id",
			id:       "missing",
			body:     `{"enabled":true}`,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			id := tt.id
			if id == "" {
				id = s.ruleID
			}

			req := httptest.NewRequest(
				http.MethodPatch, "/", strings.NewReader(tt.body),
			)
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := s.echo.NewContext(req, rec)
			c.SetPath("/audit/rules/:id")
			c.SetParamNames("id")
			c.SetParamValues(id)

			s.Require().NoError(s.handler.PatchRule(c))
			s.Equal(tt.wantCode, rec.Code)

			if tt.check != nil {
				var updated rule.Rule
				s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &updated))
				tt.check(updated)
			}
		})
	}
}

func TestRulesPublicTestSuite(t *testing.T) {
	suite.Run(t, new(RulesPublicTestSuite))
}
