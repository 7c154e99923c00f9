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

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/notify"
	"github.com/assetwatch-io/assetwatch/internal/rule"
)

// AuditHandler defines an interface for interacting with audit client operations.
type AuditHandler interface {
	// GetAuditLogs retrieves a page of audit log entries via the REST API.
	GetAuditLogs(
		ctx context.Context,
		query ListQuery,
	) (*ListLogsResponse, error)
	// GetAuditLogByID retrieves a specific audit log entry by ID via the REST API.
	GetAuditLogByID(
		ctx context.Context,
		id string,
	) (*auditlog.Entry, error)
	// PostAuditLogResponse registers an anomaly response via the REST API.
	PostAuditLogResponse(
		ctx context.Context,
		id string,
		status string,
		note string,
	) (*auditlog.Entry, error)
}

// RuleHandler defines an interface for interacting with rule client operations.
type RuleHandler interface {
	// GetRules retrieves all detection rules via the REST API.
	GetRules(
		ctx context.Context,
	) ([]rule.Rule, error)
	// PatchRule applies a partial rule update via the REST API.
	PatchRule(
		ctx context.Context,
		id string,
		patch rule.Patch,
	) (*rule.Rule, error)
}

// AlertHandler defines an interface for interacting with alert client operations.
type AlertHandler interface {
	// GetAlertStatus retrieves the alert center snapshot via the REST API.
	GetAlertStatus(
		ctx context.Context,
	) (*notify.Status, error)
	// PostAlertDismiss dismisses a sticky alert via the REST API.
	PostAlertDismiss(
		ctx context.Context,
		id string,
	) error
}

// CombinedHandler is a superset of all smaller handler interfaces.
type CombinedHandler interface {
	AuditHandler
	RuleHandler
	AlertHandler
}

// Ensure Client implements CombinedHandler at compile time.
var _ CombinedHandler = (*Client)(nil)

// ListQuery narrows a GetAuditLogs read.
type ListQuery struct {
	Actor        string
	ActionType   string
	Result       string
	Acknowledged string
	From         string
	To           string
	Sort         string
	Order        string
	Limit        int
	Offset       int
}

// ListLogsResponse is the paginated list envelope.
type ListLogsResponse struct {
	TotalItems int              `json:"total_items"`
	Items      []auditlog.Entry `json:"items"`
}

// GetAuditLogs retrieves a page of audit log entries via the REST API.
func (c *Client) GetAuditLogs(
	ctx context.Context,
	query ListQuery,
) (*ListLogsResponse, error) {
	q := url.Values{}
	setIf(q, "actor", query.Actor)
	setIf(q, "action_type", query.ActionType)
	setIf(q, "result", query.Result)
	setIf(q, "acknowledged", query.Acknowledged)
	setIf(q, "from", query.From)
	setIf(q, "to", query.To)
	setIf(q, "sort", query.Sort)
	setIf(q, "order", query.Order)
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		q.Set("offset", strconv.Itoa(query.Offset))
	}

	var resp ListLogsResponse
	if err := c.do(ctx, http.MethodGet, "/audit/logs", q, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GetAuditLogByID retrieves a specific audit log entry by ID via the REST API.
func (c *Client) GetAuditLogByID(
	ctx context.Context,
	id string,
) (*auditlog.Entry, error) {
	var entry auditlog.Entry
	if err := c.do(ctx, http.MethodGet, "/audit/logs/"+id, nil, nil, &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

// PostAuditLogResponse registers an anomaly response via the REST API.
func (c *Client) PostAuditLogResponse(
	ctx context.Context,
	id string,
	status string,
	note string,
) (*auditlog.Entry, error) {
	body := map[string]string{
		"response_status": status,
		"response_note":   note,
	}

	var entry auditlog.Entry
	err := c.do(ctx, http.MethodPost, "/audit/logs/"+id+"/response", nil, body, &entry)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// rulesEnvelope mirrors the server's rule list response.
type rulesEnvelope struct {
	Items []rule.Rule `json:"items"`
}

// GetRules retrieves all detection rules via the REST API.
func (c *Client) GetRules(
	ctx context.Context,
) ([]rule.Rule, error) {
	var resp rulesEnvelope
	if err := c.do(ctx, http.MethodGet, "/audit/rules", nil, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Items, nil
}

// PatchRule applies a partial rule update via the REST API.
func (c *Client) PatchRule(
	ctx context.Context,
	id string,
	patch rule.Patch,
) (*rule.Rule, error) {
	var updated rule.Rule
	if err := c.do(ctx, http.MethodPatch, "/audit/rules/"+id, nil, patch, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// GetAlertStatus retrieves the alert center snapshot via the REST API.
func (c *Client) GetAlertStatus(
	ctx context.Context,
) (*notify.Status, error) {
	var status notify.Status
	if err := c.do(ctx, http.MethodGet, "/alerts/status", nil, nil, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

// PostAlertDismiss dismisses a sticky alert via the REST API.
func (c *Client) PostAlertDismiss(
	ctx context.Context,
	id string,
) error {
	return c.do(ctx, http.MethodPost, "/alerts/"+id+"/dismiss", nil, nil, nil)
}

func setIf(
	q url.Values,
	key string,
	value string,
) {
	if value != "" {
		q.Set(key, value)
	}
}
