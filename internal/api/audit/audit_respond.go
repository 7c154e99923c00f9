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
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/response"
	"github.com/assetwatch-io/assetwatch/internal/validation"
)

// respondRequest is the POST body for an anomaly response.
type respondRequest struct {
	Status auditlog.ResponseStatus `json:"response_status" validate:"required"`
	Note   string                  `json:"response_note"`
}

// PostAuditLogResponse registers an operator response on an anomaly entry.
func (a *Audit) PostAuditLogResponse(
	c echo.Context,
) error {
	id := c.Param("id")

	var body respondRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "malformed request body",
		})
	}
	if errMsg, ok := validation.Struct(body); !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: errMsg})
	}

	// Identity comes from the bearer token, never the request body.
	subject, _ := c.Get(contextKeySubject).(string)

	entry, err := a.responder.Respond(c.Request().Context(), id, response.Request{
		Status:    body.Status,
		Note:      body.Note,
		ActorCode: subject,
	})
	if err != nil {
		return a.respondError(c, id, err)
	}

	return c.JSON(http.StatusOK, entry)
}

// respondError maps workflow errors onto HTTP statuses.
func (a *Audit) respondError(
	c echo.Context,
	id string,
	err error,
) error {
	switch {
	case errors.Is(err, auditlog.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "audit entry not found",
		})
	case errors.Is(err, auditlog.ErrFinalized),
		errors.Is(err, response.ErrStatusRegression):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, response.ErrInvalidStatus),
		errors.Is(err, response.ErrNoteRequired),
		errors.Is(err, response.ErrNotAnomaly):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		a.logger.Error(
			"failed to register anomaly response",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)

		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to register anomaly response",
		})
	}
}
