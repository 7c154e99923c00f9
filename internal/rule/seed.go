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

package rule

import (
	"github.com/google/uuid"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// DefaultRules returns the seed rule set installed into an empty registry.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:       uuid.New().String(),
			Key:      KeyMultipleFailedLogins,
			Enabled:  true,
			Severity: auditlog.SeverityHigh,
			Params: map[string]any{
				"threshold":      DefaultLoginThreshold,
				"window_minutes": DefaultWindowMinutes,
			},
		},
		{
			ID:       uuid.New().String(),
			Key:      KeyAfterHoursAccess,
			Enabled:  true,
			Severity: auditlog.SeverityMedium,
			Params: map[string]any{
				"start": DefaultAfterHoursStart,
				"end":   DefaultAfterHoursEnd,
			},
		},
		{
			ID:       uuid.New().String(),
			Key:      KeyBulkUpdate,
			Enabled:  true,
			Severity: auditlog.SeverityMedium,
			Params: map[string]any{
				"threshold":      DefaultBulkThreshold,
				"window_minutes": DefaultWindowMinutes,
			},
		},
	}
}
