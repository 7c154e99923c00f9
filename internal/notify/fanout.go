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

package notify

import (
	"context"
	"log/slog"
)

// Fanout delivers each alert to every sink sequentially. Sinks are
// failure-isolated: one sink's error is logged and the rest still run, and
// no error ever propagates back to the monitor loop.
type Fanout struct {
	logger *slog.Logger
	sinks  []namedSink
}

type namedSink struct {
	name string
	sink Notifier
}

// NewFanout creates a new Fanout.
func NewFanout(
	logger *slog.Logger,
) *Fanout {
	return &Fanout{logger: logger}
}

// Add registers a named sink. Order of registration is delivery order.
func (f *Fanout) Add(
	name string,
	sink Notifier,
) *Fanout {
	f.sinks = append(f.sinks, namedSink{name: name, sink: sink})

	return f
}

// Deliver sends the alert to every sink. Returns the number of failed sinks.
func (f *Fanout) Deliver(
	ctx context.Context,
	alert Alert,
) int {
	failed := 0
	for _, ns := range f.sinks {
		if err := ns.sink.Notify(ctx, alert); err != nil {
			failed++
			f.logger.Error(
				"notification delivery failed",
				slog.String("sink", ns.name),
				slog.String("type", alert.Type),
				slog.String("entry_id", alert.EntryID),
				slog.String("error", err.Error()),
			)

			continue
		}

		f.logger.Debug(
			"notification delivered",
			slog.String("sink", ns.name),
			slog.String("type", alert.Type),
		)
	}

	return failed
}
