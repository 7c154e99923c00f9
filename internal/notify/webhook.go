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

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/config"
)

// defaultWebhookTimeout bounds a single delivery attempt.
const defaultWebhookTimeout = 10 * time.Second

// ensure WebhookNotifier implements Notifier at compile time.
var _ Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier posts anomaly alerts to a chat incoming webhook. With no
// URL configured it runs in mock mode: deliveries are logged locally and
// reported as successful, so the system stays fully functional without the
// integration.
type WebhookNotifier struct {
	url         string
	channel     string
	environment string
	client      *http.Client
	logger      *slog.Logger
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(
	logger *slog.Logger,
	cfg config.Webhook,
	environment string,
) *WebhookNotifier {
	timeout := defaultWebhookTimeout
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err == nil {
			timeout = d
		}
	}

	return &WebhookNotifier{
		url:         cfg.URL,
		channel:     cfg.Channel,
		environment: environment,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// webhookMessage is the posted JSON document.
type webhookMessage struct {
	Channel     string              `json:"channel,omitempty"`
	Text        string              `json:"text"`
	Attachments []webhookAttachment `json:"attachments"`
}

// webhookAttachment is one structured block of the message.
type webhookAttachment struct {
	Color  string         `json:"color"`
	Title  string         `json:"title"`
	Text   string         `json:"text"`
	Fields []webhookField `json:"fields"`
	TS     int64          `json:"ts"`
}

// webhookField is one key/value pair in the context block.
type webhookField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Notify posts the alert. Delivery failures are returned to the caller for
// logging but never affect the already-persisted audit entry.
func (n *WebhookNotifier) Notify(
	ctx context.Context,
	alert Alert,
) error {
	if n.url == "" {
		n.logger.Info(
			"webhook not configured, logging alert locally",
			slog.String("type", alert.Type),
			slog.String("risk_level", string(alert.RiskLevel)),
			slog.String("description", alert.Description),
		)

		return nil
	}

	payload, err := json.Marshal(n.buildMessage(alert))
	if err != nil {
		return fmt.Errorf("marshaling webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		n.url,
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf(
			"webhook returned status %d: %s",
			resp.StatusCode, string(body),
		)
	}

	return nil
}

// buildMessage formats the structured chat message.
func (n *WebhookNotifier) buildMessage(
	alert Alert,
) webhookMessage {
	actor := alert.ActorName
	if actor == "" {
		actor = alert.ActorCode
	}
	if actor == "" {
		actor = "unknown"
	}

	target := alert.TargetType
	if target == "" {
		target = "-"
	}

	return webhookMessage{
		Channel: n.channel,
		Text:    fmt.Sprintf("Anomaly detected: %s", alert.Type),
		Attachments: []webhookAttachment{{
			Color: severityColor(alert.RiskLevel),
			Title: fmt.Sprintf("[%s] %s", alert.RiskLevel, alert.Type),
			Text:  alert.Description,
			Fields: []webhookField{
				{Title: "Actor", Value: actor, Short: true},
				{Title: "Target", Value: target, Short: true},
				{Title: "Type", Value: alert.Type, Short: true},
				{Title: "Detected", Value: alert.DetectedAt.Format(time.RFC3339), Short: true},
				{Title: "Environment", Value: n.environment, Short: true},
			},
			TS: alert.DetectedAt.Unix(),
		}},
	}
}

// severityColor maps a severity to an attachment color.
func severityColor(
	severity auditlog.Severity,
) string {
	switch severity {
	case auditlog.SeverityCritical:
		return "#d00000"
	case auditlog.SeverityHigh:
		return "#e85d04"
	case auditlog.SeverityMedium:
		return "#ffba08"
	default:
		return "#4cc9f0"
	}
}
