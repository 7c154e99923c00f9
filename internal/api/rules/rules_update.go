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

package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assetwatch-io/assetwatch/internal/rule"
	"github.com/assetwatch-io/assetwatch/internal/validation"
)

// PatchRule applies a partial update to a detection rule.
func (r *Rules) PatchRule(
	c echo.Context,
) error {
	id := c.Param("id")

	var patch rule.Patch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "malformed request body",
		})
	}

	if err := validatePatch(patch); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	updated, err := r.store.Update(c.Request().Context(), id, patch)
	if err != nil {
		if errors.Is(err, rule.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "rule not found",
			})
		}

		r.logger.Error(
			"failed to update rule",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)

		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to update rule",
		})
	}

	r.logger.Info(
		"rule updated",
		slog.String("id", id),
		slog.String("key", string(updated.Key)),
	)

	return c.JSON(http.StatusOK, updated)
}

// validatePatch rejects values that would silently degrade to defaults at
// evaluation time. The registry stays the single place bad params are caught.
func validatePatch(
	patch rule.Patch,
) error {
	if patch.Severity != nil && !patch.Severity.Valid() {
		return fmt.Errorf("invalid severity: %q", *patch.Severity)
	}

	for _, key := range []string{"threshold", "window_minutes"} {
		raw, ok := patch.Params[key]
		if !ok {
			continue
		}

		n, isNum := asInt(raw)
		if !isNum || n < 1 {
			return fmt.Errorf("invalid %s: %v", key, raw)
		}
	}

	for _, key := range []string{"start", "end"} {
		raw, ok := patch.Params[key]
		if !ok {
			continue
		}

		s, isStr := raw.(string)
		if !isStr || !validation.IsClockHHMM(s) {
			return fmt.Errorf("invalid %s: %v, want HH:mm", key, raw)
		}
	}

	return nil
}

// asInt accepts ints decoded from JSON (float64) or native ints.
func asInt(
	v any,
) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
