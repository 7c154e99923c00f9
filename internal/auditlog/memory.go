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

package auditlog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)

// MemoryStore implements Store in process memory. It backs tests and the
// zero-infrastructure development mode; state is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append persists a new entry.
func (s *MemoryStore) Append(
	_ context.Context,
	entry Entry,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)

	return nil
}

// Get retrieves a single entry by ID.
func (s *MemoryStore) Get(
	_ context.Context,
	id string,
) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			entry := s.entries[i]
			return &entry, nil
		}
	}

	return nil, ErrNotFound
}

// List retrieves entries matching the filter plus the unpaginated total.
func (s *MemoryStore) List(
	_ context.Context,
	filter Filter,
) ([]Entry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if matchesFilter(e, filter) {
			matched = append(matched, e)
		}
	}

	sortEntries(matched, filter.SortBy, filter.SortDesc)

	total := len(matched)

	if filter.Offset >= total {
		return []Entry{}, total, nil
	}

	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}

	page := make([]Entry, end-filter.Offset)
	copy(page, matched[filter.Offset:end])

	return page, total, nil
}

// ListSince retrieves non-archived entries with OccurredAt >= since ascending.
func (s *MemoryStore) ListSince(
	_ context.Context,
	since time.Time,
) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Archived || e.OccurredAt.Before(since) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].OccurredAt.Before(matched[j].OccurredAt)
	})

	return matched, nil
}

// HasAnomalySince reports whether an anomaly of the given type exists since
// the given time.
func (s *MemoryStore) HasAnomalySince(
	_ context.Context,
	anomalyType string,
	since time.Time,
) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ActionType != ActionAnomalyDetected || e.OccurredAt.Before(since) {
			continue
		}
		if e.AnomalyType() == anomalyType {
			return true, nil
		}
	}

	return false, nil
}

// UpdateResponse applies the acknowledgement workflow's write.
func (s *MemoryStore) UpdateResponse(
	_ context.Context,
	id string,
	update ResponseUpdate,
) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}

		if s.entries[i].ResponseStatus == ResponseCompleted {
			return nil, ErrFinalized
		}

		e := &s.entries[i]
		e.ResponseStatus = update.Status
		e.ResponseNote = update.Note
		e.AcknowledgedBy = update.AcknowledgedBy
		ackAt := update.AcknowledgedAt
		e.AcknowledgedAt = &ackAt
		if update.Acknowledge {
			e.IsAcknowledged = true
		}
		if update.ForceResultSuccess {
			e.Result = ResultSuccess
		}

		updated := *e

		return &updated, nil
	}

	return nil, ErrNotFound
}

// ArchiveOlderThan flags non-archived entries older than the cutoff.
func (s *MemoryStore) ArchiveOlderThan(
	_ context.Context,
	cutoff time.Time,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var archived int64
	for i := range s.entries {
		if s.entries[i].Archived || !s.entries[i].OccurredAt.Before(cutoff) {
			continue
		}
		s.entries[i].Archived = true
		archivedAt := now
		s.entries[i].ArchivedAt = &archivedAt
		archived++
	}

	return archived, nil
}

// matchesFilter reports whether an entry passes every set filter field.
func matchesFilter(
	e Entry,
	f Filter,
) bool {
	if e.Archived && !f.IncludeArchived {
		return false
	}
	if f.From != nil && e.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.OccurredAt.After(*f.To) {
		return false
	}
	if f.ActorCode != "" && e.ActorCode != f.ActorCode {
		return false
	}
	if f.Result != "" && e.Result != f.Result {
		return false
	}
	if f.TargetType != "" && e.TargetType != f.TargetType {
		return false
	}
	if f.Acknowledged != nil && e.IsAcknowledged != *f.Acknowledged {
		return false
	}
	if len(f.ActionTypes) > 0 {
		found := false
		for _, at := range f.ActionTypes {
			if e.ActionType == at {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// sortEntries orders entries by the requested sort field.
func sortEntries(
	entries []Entry,
	sortBy string,
	desc bool,
) {
	less := func(i, j int) bool {
		return entries[i].OccurredAt.Before(entries[j].OccurredAt)
	}
	if sortBy == SortByActor {
		less = func(i, j int) bool {
			return strings.Compare(entries[i].ActorName, entries[j].ActorName) < 0
		}
	}

	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}

	sort.SliceStable(entries, less)
}
