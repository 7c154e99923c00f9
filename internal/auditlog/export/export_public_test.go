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

package export_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/auditlog/export"
)

type ExportPublicTestSuite struct {
	suite.Suite

	store *auditlog.MemoryStore
	fs    afero.Fs
}

func (s *ExportPublicTestSuite) SetupTest() {
	s.store = auditlog.NewMemoryStore()
	s.fs = afero.NewMemMapFs()
}

func (s *ExportPublicTestSuite) newExporter() *export.Exporter {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return export.New(logger, s.store, s.fs)
}

func (s *ExportPublicTestSuite) seed(
	n int,
) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.Require().NoError(s.store.Append(context.Background(), auditlog.Entry{
			ID:         fmt.Sprintf("e-%03d", i),
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
			ActorCode:  "E001",
			ActionType: auditlog.ActionUpdate,
			TargetType: "device",
			TargetID:   fmt.Sprintf("d-%d", i),
			Result:     auditlog.ResultSuccess,
		}))
	}
}

func (s *ExportPublicTestSuite) TestRunCSV() {
	s.seed(3)

	written, err := s.newExporter().Run(
		context.Background(),
		auditlog.Filter{},
		export.FormatCSV,
		"/tmp/audit.csv",
	)

	s.Require().NoError(err)
	s.Equal(3, written)

	data, err := afero.ReadFile(s.fs, "/tmp/audit.csv")
	s.Require().NoError(err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	s.Require().NoError(err)
	s.Len(records, 4, "header plus one row per entry")
	s.Equal("id", records[0][0])
	s.Equal("UPDATE", records[1][4])
}

func (s *ExportPublicTestSuite) TestRunJSON() {
	s.seed(2)

	written, err := s.newExporter().Run(
		context.Background(),
		auditlog.Filter{},
		export.FormatJSON,
		"/tmp/audit.json",
	)

	s.Require().NoError(err)
	s.Equal(2, written)

	data, err := afero.ReadFile(s.fs, "/tmp/audit.json")
	s.Require().NoError(err)

	var entries []auditlog.Entry
	s.Require().NoError(json.Unmarshal(data, &entries))
	s.Len(entries, 2)
}

func (s *ExportPublicTestSuite) TestRunEmptyResult() {
	written, err := s.newExporter().Run(
		context.Background(),
		auditlog.Filter{ActorCode: "nobody"},
		export.FormatJSON,
		"/tmp/empty.json",
	)

	s.Require().NoError(err)
	s.Equal(0, written)

	data, err := afero.ReadFile(s.fs, "/tmp/empty.json")
	s.Require().NoError(err)

	var entries []auditlog.Entry
	s.Require().NoError(json.Unmarshal(data, &entries))
	s.Empty(entries)
}

func (s *ExportPublicTestSuite) TestRunPaginatesLargeTrails() {
	s.seed(1200)

	written, err := s.newExporter().Run(
		context.Background(),
		auditlog.Filter{},
		export.FormatCSV,
		"/tmp/large.csv",
	)

	s.Require().NoError(err)
	s.Equal(1200, written)
}

func (s *ExportPublicTestSuite) TestParseFormat() {
	tests := []struct {
		input   string
		want    export.Format
		wantErr bool
	}{
		{input: "csv", want: export.FormatCSV},
		{input: "", want: export.FormatCSV},
		{input: "JSON", want: export.FormatJSON},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := export.ParseFormat(tt.input)
		if tt.wantErr {
			s.Error(err)
			continue
		}
		s.NoError(err)
		s.Equal(tt.want, got)
	}
}

func TestExportPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ExportPublicTestSuite))
}
