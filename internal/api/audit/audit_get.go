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

package audit

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// errInvalidParam formats a query parameter rejection.
func errInvalidParam(
	name string,
	value string,
) error {
	return fmt.Errorf("invalid %s parameter: %q", name, value)
}

// GetAuditLog returns a single audit log entry by ID.
func (a *Audit) GetAuditLog(
	c echo.Context,
) error {
	id := c.Param("id")

	entry, err := a.store.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, auditlog.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "audit entry not found",
			})
		}

		a.logger.Error(
			"failed to get audit entry",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)

		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to get audit entry",
		})
	}

	return c.JSON(http.StatusOK, entry)
}
