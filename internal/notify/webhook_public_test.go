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
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/config"
	"github.com/assetwatch-io/assetwatch/internal/notify"
)

type WebhookPublicTestSuite struct {
	suite.Suite

	logger *slog.Logger
	alert  notify.Alert
}

func (s *WebhookPublicTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.alert = notify.Alert{
		EntryID:     "e-1",
		Type:        "MULTIPLE_FAILED_LOGINS",
		Description: "6 failed login attempts for account E001 (threshold 5)",
		RiskLevel:   auditlog.SeverityHigh,
		ActorCode:   "E001",
		ActorName:   "Dana Okafor",
		TargetType:  "auth",
		DetectedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func (s *WebhookPublicTestSuite) TestNotify() {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{
			name:   "accepted delivery returns nil",
			status: http.StatusOK,
		},
		{
			name:    "rejected delivery surfaces the status",
			status:  http.StatusBadGateway,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			var got map[string]any
			srv := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					body, _ := io.ReadAll(r.Body)
					_ = json.Unmarshal(body, &got)
					w.WriteHeader(tt.status)
				}))
			defer srv.Close()

			n := notify.NewWebhookNotifier(s.logger, config.Webhook{
				URL:     srv.URL,
				Channel: "#security-alerts",
			}, "test")

			err := n.Notify(context.Background(), s.alert)

			if tt.wantErr {
				s.Error(err)
				return
			}
			s.NoError(err)
			s.Equal("#security-alerts", got["channel"])
			s.Contains(got["text"], "MULTIPLE_FAILED_LOGINS")
			s.NotEmpty(got["attachments"])
		})
	}
}

func (s *WebhookPublicTestSuite) TestNotifyMockModeWithoutURL() {
	n := notify.NewWebhookNotifier(s.logger, config.Webhook{}, "test")

	s.NoError(n.Notify(context.Background(), s.alert))
}

func TestWebhookPublicTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookPublicTestSuite))
}
