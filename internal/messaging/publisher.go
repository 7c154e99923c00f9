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
	"fmt"
	"log/slog"

	"github.com/assetwatch-io/assetwatch/internal/notify"
)

// publishConn is the slice of *nats.Conn the publisher needs.
type publishConn interface {
	Publish(subj string, data []byte) error
}

// ensure Publisher implements notify.Notifier at compile time.
var _ notify.Notifier = (*Publisher)(nil)

// Publisher pushes anomaly alerts onto the NATS subject so out-of-process
// consumers (the API server's alert center, dashboards) receive them without
// polling.
type Publisher struct {
	logger  *slog.Logger
	conn    publishConn
	subject string
}

// NewPublisher creates a new Publisher.
func NewPublisher(
	logger *slog.Logger,
	conn publishConn,
	subject string,
) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}

	return &Publisher{
		logger:  logger,
		conn:    conn,
		subject: subject,
	}
}

// Notify publishes the alert as JSON.
func (p *Publisher) Notify(
	_ context.Context,
	alert notify.Alert,
) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshaling alert: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publishing alert: %w", err)
	}

	p.logger.Debug(
		"alert published",
		slog.String("subject", p.subject),
		slog.String("type", alert.Type),
	)

	return nil
}
