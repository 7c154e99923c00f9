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

package config

import (
	"fmt"
	"time"

	"github.com/assetwatch-io/assetwatch/internal/validation"
)

// Validate checks the configuration against the schema's validate tags.
func Validate(
	cfg *Config,
) error {
	if err := validation.Instance().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for name, value := range map[string]string{
		"monitor.interval":       cfg.Monitor.Interval,
		"monitor.dedup_window":   cfg.Monitor.DedupWindow,
		"monitor.lookback_floor": cfg.Monitor.LookbackFloor,
		"notify.repeat_window":   cfg.Notify.RepeatWindow,
		"notify.webhook.timeout": cfg.Notify.Webhook.Timeout,
		"retention.max_age":      cfg.Retention.MaxAge,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid configuration: %s: %w", name, err)
		}
	}

	return nil
}
