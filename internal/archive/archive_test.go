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

package archive

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/config"
)

type ArchiveTestSuite struct {
	suite.Suite

	store *auditlog.MemoryStore
	now   time.Time
}

func (s *ArchiveTestSuite) SetupTest() {
	s.store = auditlog.NewMemoryStore()
	s.now = time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)
}

func (s *ArchiveTestSuite) newArchiver(
	cfg config.Retention,
) *Archiver {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := New(logger, s.store, cfg)
	a.nowFn = func() time.Time { return s.now }

	return a
}

func (s *ArchiveTestSuite) TestRunOnceArchivesOnlyExpiredEntries() {
	old := auditlog.Entry{
		ID:         "old-1",
		OccurredAt: s.now.Add(-91 * 24 * time.Hour),
		ActionType: auditlog.ActionUpdate,
		Result:     auditlog.ResultSuccess,
	}
	fresh := auditlog.Entry{
		ID:         "fresh-1",
		OccurredAt: s.now.Add(-time.Hour),
		ActionType: auditlog.ActionUpdate,
		Result:     auditlog.ResultSuccess,
	}
	s.Require().NoError(s.store.Append(context.Background(), old))
	s.Require().NoError(s.store.Append(context.Background(), fresh))

	a := s.newArchiver(config.Retention{})
	s.Require().NoError(a.RunOnce(context.Background()))

	// Default reads drop the archived entry.
	entries, total, err := s.store.List(context.Background(), auditlog.Filter{})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal("fresh-1", entries[0].ID)

	// Archived entries are kept, not deleted.
	all, _, err := s.store.List(context.Background(), auditlog.Filter{
		IncludeArchived: true,
	})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ArchiveTestSuite) TestMaxAgeOverride() {
	entry := auditlog.Entry{
		ID:         "e-1",
		OccurredAt: s.now.Add(-2 * time.Hour),
		ActionType: auditlog.ActionCreate,
		Result:     auditlog.ResultSuccess,
	}
	s.Require().NoError(s.store.Append(context.Background(), entry))

	a := s.newArchiver(config.Retention{MaxAge: "1h"})
	s.Require().NoError(a.RunOnce(context.Background()))

	_, total, err := s.store.List(context.Background(), auditlog.Filter{})
	s.Require().NoError(err)
	s.Equal(0, total)
}

func (s *ArchiveTestSuite) TestStartRejectsBadSchedule() {
	a := s.newArchiver(config.Retention{Schedule: "not a cron expr"})

	s.Error(a.Start(context.Background()))
}

func TestArchiveTestSuite(t *testing.T) {
	suite.Run(t, new(ArchiveTestSuite))
}
