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
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// GetAuditLogs returns a paginated list of audit log entries.
func (a *Audit) GetAuditLogs(
	c echo.Context,
) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	entries, total, err := a.store.List(c.Request().Context(), filter)
	if err != nil {
		a.logger.Error(
			"failed to list audit entries",
			slog.String("error", err.Error()),
		)

		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list audit entries",
		})
	}

	return c.JSON(http.StatusOK, ListResponse{
		TotalItems: total,
		Items:      entries,
	})
}

// parseFilter builds the store filter from query parameters.
func parseFilter(
	c echo.Context,
) (auditlog.Filter, error) {
	filter := auditlog.Filter{
		ActorCode:  c.QueryParam("actor"),
		TargetType: c.QueryParam("target_type"),
		SortBy:     c.QueryParam("sort"),
		Limit:      defaultPageSize,
	}

	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return filter, errInvalidParam("limit", v)
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
		filter.Limit = limit
	}

	if v := c.QueryParam("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, errInvalidParam("offset", v)
		}
		filter.Offset = offset
	}

	if v := c.QueryParam("action_type"); v != "" {
		filter.ActionTypes = []auditlog.ActionType{auditlog.ActionType(v)}
	}

	if v := c.QueryParam("result"); v != "" {
		if v != string(auditlog.ResultSuccess) && v != string(auditlog.ResultFailure) {
			return filter, errInvalidParam("result", v)
		}
		filter.Result = auditlog.Result(v)
	}

	if v := c.QueryParam("acknowledged"); v != "" {
		acked, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errInvalidParam("acknowledged", v)
		}
		filter.Acknowledged = &acked
	}

	if v := c.QueryParam("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidParam("from", v)
		}
		filter.From = &from
	}

	if v := c.QueryParam("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidParam("to", v)
		}
		filter.To = &to
	}

	if v := c.QueryParam("include_archived"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errInvalidParam("include_archived", v)
		}
		filter.IncludeArchived = include
	}

	filter.SortDesc = c.QueryParam("order") != "asc"

	return filter, nil
}
