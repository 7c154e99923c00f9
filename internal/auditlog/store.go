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
	"errors"
	"time"
)

// Store errors.
var (
	// ErrNotFound is returned when no entry exists for the given ID.
	ErrNotFound = errors.New("audit entry not found")
	// ErrFinalized is returned when a response update targets an entry whose
	// response status is already completed. Finalization is monotonic.
	ErrFinalized = errors.New("audit entry response already completed")
)

// Sort fields accepted by Filter.SortBy.
const (
	SortByOccurredAt = "occurred_at"
	SortByActor      = "actor"
)

// Filter narrows a List read.
type Filter struct {
	// From and To bound OccurredAt (inclusive). Nil means unbounded.
	From *time.Time
	To   *time.Time
	// ActorCode matches the acting employee code exactly.
	ActorCode string
	// ActionTypes restricts to any of the given action types.
	ActionTypes []ActionType
	// Result restricts to success or failure. Empty matches both.
	Result Result
	// TargetType matches the target type exactly.
	TargetType string
	// Acknowledged filters on the acknowledgement flag. Nil matches both.
	Acknowledged *bool
	// IncludeArchived includes archived entries. Default excludes them.
	IncludeArchived bool
	// SortBy is occurred_at (default) or actor.
	SortBy string
	// SortDesc sorts newest/highest first when true.
	SortDesc bool
	// Limit and Offset paginate the result. Limit 0 means no limit.
	Limit  int
	Offset int
}

// ResponseUpdate carries the acknowledgement workflow's write. It is the only
// mutation ever applied to a persisted entry's response fields.
type ResponseUpdate struct {
	// Status is the new response status.
	Status ResponseStatus
	// Note is the operator's justification.
	Note string
	// AcknowledgedBy identifies the operator.
	AcknowledgedBy string
	// AcknowledgedAt is when the response was registered.
	AcknowledgedAt time.Time
	// Acknowledge sets the is_acknowledged flag.
	Acknowledge bool
	// ForceResultSuccess overwrites the entry result with success. Set when
	// the status reaches completed: a resolved anomaly no longer counts as
	// an open failure.
	ForceResultSuccess bool
}

// Store is the append-only audit log persistence contract.
type Store interface {
	// Append persists a new entry.
	Append(ctx context.Context, entry Entry) error
	// Get retrieves a single entry by ID.
	Get(ctx context.Context, id string) (*Entry, error)
	// List retrieves entries matching the filter plus the unpaginated total.
	List(ctx context.Context, filter Filter) ([]Entry, int, error)
	// ListSince retrieves non-archived entries with OccurredAt >= since in
	// ascending occurrence order. This is the monitor's lookback read.
	ListSince(ctx context.Context, since time.Time) ([]Entry, error)
	// HasAnomalySince reports whether an ANOMALY_DETECTED entry carrying the
	// given anomaly type exists with OccurredAt >= since.
	HasAnomalySince(ctx context.Context, anomalyType string, since time.Time) (bool, error)
	// UpdateResponse applies the acknowledgement workflow's write and returns
	// the updated entry. Returns ErrFinalized when the entry is already
	// completed and ErrNotFound when it does not exist.
	UpdateResponse(ctx context.Context, id string, update ResponseUpdate) (*Entry, error)
	// ArchiveOlderThan flags non-archived entries older than the cutoff and
	// returns how many were archived.
	ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
