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
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/notify"
)

type recordingSink struct {
	calls int
	err   error
}

func (r *recordingSink) Notify(
	_ context.Context,
	_ notify.Alert,
) error {
	r.calls++

	return r.err
}

type FanoutPublicTestSuite struct {
	suite.Suite

	logger *slog.Logger
}

func (s *FanoutPublicTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *FanoutPublicTestSuite) TestDeliverIsolatesSinkFailures() {
	broken := &recordingSink{err: errors.New("connection refused")}
	healthy := &recordingSink{}

	f := notify.NewFanout(s.logger).
		Add("webhook", broken).
		Add("center", healthy)

	failed := f.Deliver(context.Background(), notify.Alert{
		EntryID:   "e-1",
		Type:      "BULK_UPDATE",
		RiskLevel: auditlog.SeverityMedium,
	})

	s.Equal(1, failed)
	s.Equal(1, broken.calls)
	s.Equal(1, healthy.calls, "later sinks still run after an earlier failure")
}

func (s *FanoutPublicTestSuite) TestDeliverWithNoSinks() {
	f := notify.NewFanout(s.logger)

	s.Equal(0, f.Deliver(context.Background(), notify.Alert{}))
}

func TestFanoutPublicTestSuite(t *testing.T) {
	suite.Run(t, new(FanoutPublicTestSuite))
}
