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

package api

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// excludedAuditPaths lists path prefixes that should not generate audit entries.
var excludedAuditPaths = []string{
	"/health",
	"/metrics",
}

// methodActions maps mutating HTTP methods to audit action types. Reads are
// not audited; they would drown the trail.
var methodActions = map[string]auditlog.ActionType{
	"POST":   auditlog.ActionCreate,
	"PUT":    auditlog.ActionUpdate,
	"PATCH":  auditlog.ActionUpdate,
	"DELETE": auditlog.ActionDelete,
}

// auditMiddleware returns Echo middleware that records audit entries for
// authenticated mutating requests. Writes are asynchronous to avoid adding
// latency.
func auditMiddleware(
	store auditlog.Store,
	logger *slog.Logger,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			for _, prefix := range excludedAuditPaths {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			action, mutating := methodActions[c.Request().Method]
			if !mutating {
				return next(c)
			}

			start := time.Now()

			err := next(c)

			// Only audit authenticated requests.
			subject, _ := c.Get(ContextKeySubject).(string)
			if subject == "" {
				return err
			}

			result := auditlog.ResultSuccess
			if c.Response().Status >= 400 {
				result = auditlog.ResultFailure
			}

			entry := auditlog.Entry{
				ID:         uuid.New().String(),
				OccurredAt: start,
				ActorCode:  subject,
				ActionType: action,
				TargetType: "api",
				TargetID:   path,
				Result:     result,
				Metadata: auditlog.Metadata{
					"method":      c.Request().Method,
					"source_ip":   c.RealIP(),
					"status":      c.Response().Status,
					"duration_ms": time.Since(start).Milliseconds(),
				},
			}

			// The request context is cancelled once the response is sent;
			// detach so the async write can still complete.
			writeCtx := context.WithoutCancel(c.Request().Context())

			go func() {
				if writeErr := store.Append(writeCtx, entry); writeErr != nil {
					logger.Warn(
						"failed to write audit entry",
						slog.String("error", writeErr.Error()),
						slog.String("entry_id", entry.ID),
					)
				}
			}()

			return err
		}
	}
}
