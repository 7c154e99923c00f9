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

// Package audit provides the audit log REST handlers.
package audit

import (
	"log/slog"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/response"
)

// contextKeySubject matches the auth middleware's identity context key.
const contextKeySubject = "auth.subject"

// defaultPageSize bounds unqualified list reads.
const defaultPageSize = 20

// maxPageSize caps a single page.
const maxPageSize = 200

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListResponse is the paginated list envelope.
type ListResponse struct {
	TotalItems int              `json:"total_items"`
	Items      []auditlog.Entry `json:"items"`
}

// Audit handles audit log routes.
type Audit struct {
	logger    *slog.Logger
	store     auditlog.Store
	responder *response.Service
}

// New creates a new Audit handler.
func New(
	logger *slog.Logger,
	store auditlog.Store,
	responder *response.Service,
) *Audit {
	return &Audit{
		logger:    logger,
		store:     store,
		responder: responder,
	}
}
