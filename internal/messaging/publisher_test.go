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

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/notify"
)

type fakeConn struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeConn) Publish(
	subj string,
	data []byte,
) error {
	f.subject = subj
	f.data = data

	return f.err
}

type PublisherTestSuite struct {
	suite.Suite

	logger *slog.Logger
}

func (s *PublisherTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *PublisherTestSuite) TestNotifyPublishesAlertJSON() {
	conn := &fakeConn{}
	p := NewPublisher(s.logger, conn, "")

	alert := notify.Alert{
		EntryID:   "e-1",
		Type:      "AFTER_HOURS_ACCESS",
		RiskLevel: auditlog.SeverityMedium,
	}
	s.Require().NoError(p.Notify(context.Background(), alert))

	s.Equal(DefaultSubject, conn.subject)

	var got notify.Alert
	s.Require().NoError(json.Unmarshal(conn.data, &got))
	s.Equal(alert.EntryID, got.EntryID)
	s.Equal(alert.Type, got.Type)
}

func (s *PublisherTestSuite) TestNotifySurfacesPublishErrors() {
	conn := &fakeConn{err: errors.New("no responders")}
	p := NewPublisher(s.logger, conn, "alerts.custom")

	err := p.Notify(context.Background(), notify.Alert{Type: "BULK_UPDATE"})

	s.Error(err)
	s.Equal("alerts.custom", conn.subject)
}

func TestPublisherTestSuite(t *testing.T) {
	suite.Run(t, new(PublisherTestSuite))
}
