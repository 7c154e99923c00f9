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

package health

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// GetHealth returns basic liveness.
func (h *Health) GetHealth(
	c echo.Context,
) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetHealthReady returns readiness once dependencies answer.
func (h *Health) GetHealthReady(
	c echo.Context,
) error {
	if err := h.Checker.CheckHealth(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// GetHealthStatus returns per-component health with uptime and version.
func (h *Health) GetHealthStatus(
	c echo.Context,
) error {
	components := map[string]ComponentHealth{}
	overall := "ok"

	checker, ok := h.Checker.(*DependencyChecker)
	if ok {
		components["database"] = componentOf(checker.CheckDB())
		if checker.NATSCheck != nil {
			components["nats"] = componentOf(checker.CheckNATS())
		}
		for _, component := range components {
			if component.Status != "ok" {
				overall = "degraded"
			}
		}
	}

	resp := StatusResponse{
		Status:     overall,
		Components: components,
		Version:    h.Version,
		Uptime:     time.Since(h.StartTime).Round(time.Second).String(),
	}

	if overall != "ok" {
		return c.JSON(http.StatusServiceUnavailable, resp)
	}

	return c.JSON(http.StatusOK, resp)
}

func componentOf(
	err error,
) ComponentHealth {
	if err != nil {
		return ComponentHealth{Status: "error", Error: err.Error()}
	}

	return ComponentHealth{Status: "ok"}
}
