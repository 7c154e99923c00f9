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

package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// encoder writes entries one at a time in a concrete format.
type encoder interface {
	Write(entry auditlog.Entry) error
	Flush() error
}

// csvHeader is the fixed column order of CSV exports.
var csvHeader = []string{
	"id",
	"occurred_at",
	"actor_code",
	"actor_name",
	"action_type",
	"target_type",
	"target_id",
	"result",
	"severity",
	"is_acknowledged",
	"response_status",
	"response_note",
}

type csvEncoder struct {
	w          *csv.Writer
	headerDone bool
}

func newCSVEncoder(
	w io.Writer,
) *csvEncoder {
	return &csvEncoder{w: csv.NewWriter(w)}
}

func (e *csvEncoder) Write(
	entry auditlog.Entry,
) error {
	if !e.headerDone {
		if err := e.w.Write(csvHeader); err != nil {
			return err
		}
		e.headerDone = true
	}

	return e.w.Write([]string{
		entry.ID,
		entry.OccurredAt.Format(time.RFC3339),
		entry.ActorCode,
		entry.ActorName,
		string(entry.ActionType),
		entry.TargetType,
		entry.TargetID,
		string(entry.Result),
		string(entry.Severity),
		strconv.FormatBool(entry.IsAcknowledged),
		string(entry.ResponseStatus),
		entry.ResponseNote,
	})
}

func (e *csvEncoder) Flush() error {
	if !e.headerDone {
		if err := e.w.Write(csvHeader); err != nil {
			return err
		}
	}
	e.w.Flush()

	return e.w.Error()
}

// jsonEncoder writes a single JSON array, one entry per element.
type jsonEncoder struct {
	w     io.Writer
	enc   *json.Encoder
	first bool
}

func newJSONEncoder(
	w io.Writer,
) *jsonEncoder {
	return &jsonEncoder{w: w, enc: json.NewEncoder(w), first: true}
}

func (e *jsonEncoder) Write(
	entry auditlog.Entry,
) error {
	sep := ",\n"
	if e.first {
		sep = "[\n"
		e.first = false
	}
	if _, err := io.WriteString(e.w, sep); err != nil {
		return err
	}

	return e.enc.Encode(entry)
}

func (e *jsonEncoder) Flush() error {
	if e.first {
		_, err := io.WriteString(e.w, "[]\n")

		return err
	}

	_, err := io.WriteString(e.w, "]\n")

	return err
}
