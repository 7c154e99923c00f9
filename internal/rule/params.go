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
	"github.com/assetwatch-io/assetwatch/internal/validation"
)

// Parameter defaults applied when a rule's params bag is missing or carries
// malformed values. Malformed params degrade to these instead of failing
// evaluation.
const (
	// DefaultLoginThreshold is the failed-login count that raises an anomaly.
	DefaultLoginThreshold = 5
	// DefaultBulkThreshold is the update/delete count that raises an anomaly.
	DefaultBulkThreshold = 10
	// DefaultWindowMinutes is the evaluation lookback floor in minutes.
	DefaultWindowMinutes = 10
	// DefaultAfterHoursStart begins the after-hours window.
	DefaultAfterHoursStart = "22:00"
	// DefaultAfterHoursEnd ends the after-hours window.
	DefaultAfterHoursEnd = "06:00"
)

// Params is the typed view of a rule's parameter bag. Exactly one concrete
// type applies per rule key.
type Params interface {
	isParams()
}

// ThresholdParams parameterizes count-over-window rules
// (MULTIPLE_FAILED_LOGINS, BULK_UPDATE).
type ThresholdParams struct {
	// Threshold is the event count at which the rule fires.
	Threshold int
	// WindowMinutes is the lookback span the rule wants evaluated.
	WindowMinutes int
}

func (ThresholdParams) isParams() {}

// ClockWindowParams parameterizes AFTER_HOURS_ACCESS with HH:mm clock bounds.
type ClockWindowParams struct {
	Start string
	End   string
}

func (ClockWindowParams) isParams() {}

// Contains reports whether the HH:mm clock string falls in the after-hours
// window using the permissive test `current >= start OR current <= end`.
// The OR keeps the test meaningful for windows spanning midnight; for
// start < end configurations it matches everything outside [end, start),
// which is carried forward as the established behavior.
func (p ClockWindowParams) Contains(
	clock string,
) bool {
	return clock >= p.Start || clock <= p.End
}

// TypedParams interprets the rule's raw params bag for its key, substituting
// defaults for absent or malformed values. Unknown keys return nil.
func (r Rule) TypedParams() Params {
	switch r.Key {
	case KeyMultipleFailedLogins:
		return thresholdParams(r.Params, DefaultLoginThreshold)
	case KeyBulkUpdate:
		return thresholdParams(r.Params, DefaultBulkThreshold)
	case KeyAfterHoursAccess:
		return clockWindowParams(r.Params)
	default:
		return nil
	}
}

// WindowMinutes returns the lookback span this rule wants, falling back to
// the default floor.
func (r Rule) WindowMinutes() int {
	if p, ok := r.TypedParams().(ThresholdParams); ok {
		return p.WindowMinutes
	}

	return DefaultWindowMinutes
}

func thresholdParams(
	raw map[string]any,
	defaultThreshold int,
) ThresholdParams {
	p := ThresholdParams{
		Threshold:     defaultThreshold,
		WindowMinutes: DefaultWindowMinutes,
	}

	if v, ok := intParam(raw, "threshold"); ok && v > 0 {
		p.Threshold = v
	}
	if v, ok := intParam(raw, "window_minutes"); ok && v > 0 {
		p.WindowMinutes = v
	}

	return p
}

func clockWindowParams(
	raw map[string]any,
) ClockWindowParams {
	p := ClockWindowParams{
		Start: DefaultAfterHoursStart,
		End:   DefaultAfterHoursEnd,
	}

	if v, ok := raw["start"].(string); ok && validation.IsClockHHMM(v) {
		p.Start = v
	}
	if v, ok := raw["end"].(string); ok && validation.IsClockHHMM(v) {
		p.End = v
	}

	return p
}

// intParam reads an integer param that may have been decoded from JSON as
// float64 or from YAML as int.
func intParam(
	raw map[string]any,
	key string,
) (int, bool) {
	switch v := raw[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
