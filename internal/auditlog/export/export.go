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

// Package export writes filtered audit log slices to CSV or JSON files.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// pageSize is the List page fetched per round trip.
const pageSize = 500

// Format selects the output encoding.
type Format string

// Supported output formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied string to a Format.
func ParseFormat(
	s string,
) (Format, error) {
	switch strings.ToLower(s) {
	case "csv", "":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

// Source is the read surface the exporter needs.
type Source interface {
	List(ctx context.Context, filter auditlog.Filter) ([]auditlog.Entry, int, error)
}

// Exporter streams filtered entries page by page into an encoder.
type Exporter struct {
	logger *slog.Logger
	source Source
	fs     afero.Fs
}

// New creates a new Exporter.
func New(
	logger *slog.Logger,
	source Source,
	fs afero.Fs,
) *Exporter {
	return &Exporter{
		logger: logger,
		source: source,
		fs:     fs,
	}
}

// Run exports entries matching the filter to path and returns how many were
// written. Pagination keeps memory flat for large trails.
func (e *Exporter) Run(
	ctx context.Context,
	filter auditlog.Filter,
	format Format,
	path string,
) (int, error) {
	f, err := e.fs.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var enc encoder
	switch format {
	case FormatJSON:
		enc = newJSONEncoder(f)
	default:
		enc = newCSVEncoder(f)
	}

	written := 0
	filter.Limit = pageSize
	filter.Offset = 0

	for {
		entries, total, err := e.source.List(ctx, filter)
		if err != nil {
			return written, fmt.Errorf("listing entries: %w", err)
		}

		for _, entry := range entries {
			if err := enc.Write(entry); err != nil {
				return written, fmt.Errorf("encoding entry: %w", err)
			}
			written++
		}

		filter.Offset += len(entries)
		if len(entries) == 0 || filter.Offset >= total {
			break
		}
	}

	if err := enc.Flush(); err != nil {
		return written, fmt.Errorf("flushing export: %w", err)
	}

	e.logger.Info(
		"audit export completed",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("entries", written),
	)

	return written, nil
}
