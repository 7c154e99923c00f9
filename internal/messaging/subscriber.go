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

	"github.com/nats-io/nats.go"

	"github.com/assetwatch-io/assetwatch/internal/notify"
)

// subscribeConn is the slice of *nats.Conn the subscriber needs.
type subscribeConn interface {
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Subscriber feeds alerts published on the NATS subject into a local sink,
// typically the in-app alert center.
type Subscriber struct {
	logger  *slog.Logger
	conn    subscribeConn
	subject string
	sink    notify.Notifier

	sub *nats.Subscription
}

// NewSubscriber creates a new Subscriber.
func NewSubscriber(
	logger *slog.Logger,
	conn subscribeConn,
	subject string,
	sink notify.Notifier,
) *Subscriber {
	if subject == "" {
		subject = DefaultSubject
	}

	return &Subscriber{
		logger:  logger,
		conn:    conn,
		subject: subject,
		sink:    sink,
	}
}

// Start subscribes to the subject. Malformed messages are logged and dropped.
func (s *Subscriber) Start(
	ctx context.Context,
) error {
	sub, err := s.conn.Subscribe(s.subject, func(msg *nats.Msg) {
		var alert notify.Alert
		if err := json.Unmarshal(msg.Data, &alert); err != nil {
			s.logger.Warn(
				"dropping malformed alert message",
				slog.String("subject", s.subject),
				slog.String("error", err.Error()),
			)

			return
		}

		if err := s.sink.Notify(ctx, alert); err != nil {
			s.logger.Error(
				"delivering pushed alert failed",
				slog.String("type", alert.Type),
				slog.String("error", err.Error()),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", s.subject, err)
	}

	s.sub = sub
	s.logger.Info(
		"alert subscriber started",
		slog.String("subject", s.subject),
	)

	return nil
}

// Stop drains the subscription.
func (s *Subscriber) Stop() {
	if s.sub == nil {
		return
	}

	if err := s.sub.Drain(); err != nil {
		s.logger.Warn(
			"draining alert subscription failed",
			slog.String("error", err.Error()),
		)
	}
}
