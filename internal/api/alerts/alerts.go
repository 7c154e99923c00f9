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

// Package alerts provides the in-app alert center REST handlers.
package alerts

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assetwatch-io/assetwatch/internal/notify"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Alerts handles alert center routes.
type Alerts struct {
	logger *slog.Logger
	center *notify.Center
}

// New creates a new Alerts handler.
func New(
	logger *slog.Logger,
	center *notify.Center,
) *Alerts {
	return &Alerts{
		logger: logger,
		center: center,
	}
}

// GetAlertStatus returns the unread counter, maximum severity, and recent
// alerts.
func (a *Alerts) GetAlertStatus(
	c echo.Context,
) error {
	return c.JSON(http.StatusOK, a.center.Snapshot())
}

// PostAlertDismiss dismisses a sticky alert.
func (a *Alerts) PostAlertDismiss(
	c echo.Context,
) error {
	id := c.Param("id")
	a.center.Dismiss(id)

	a.logger.Debug("alert dismissed", slog.String("entry_id", id))

	return c.NoContent(http.StatusNoContent)
}
