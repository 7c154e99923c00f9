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
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ensure PGStore implements Store at compile time.
var _ Store = (*PGStore)(nil)

// PGStore implements Store backed by a Postgres audit_logs table.
type PGStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPGStore creates a new PGStore.
func NewPGStore(
	logger *slog.Logger,
	db *sql.DB,
) *PGStore {
	return &PGStore{
		db:     db,
		logger: logger,
	}
}

const auditSchemaQ = `
CREATE TABLE IF NOT EXISTS audit_logs (
  id              TEXT PRIMARY KEY,
  occurred_at     TIMESTAMPTZ NOT NULL,
  actor_code      TEXT,
  actor_name      TEXT,
  action_type     TEXT NOT NULL,
  target_type     TEXT,
  target_id       TEXT,
  result          TEXT NOT NULL,
  severity        TEXT,
  metadata        JSONB NOT NULL DEFAULT '{}',
  is_acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
  response_status TEXT,
  response_note   TEXT,
  acknowledged_by TEXT,
  acknowledged_at TIMESTAMPTZ,
  archived        BOOLEAN NOT NULL DEFAULT FALSE,
  archived_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS audit_logs_occurred_at_idx ON audit_logs (occurred_at);
CREATE INDEX IF NOT EXISTS audit_logs_action_type_idx ON audit_logs (action_type, occurred_at);
`

// EnsureSchema creates the audit_logs table and indexes when missing.
func (s *PGStore) EnsureSchema(
	ctx context.Context,
) error {
	if _, err := s.db.ExecContext(ctx, auditSchemaQ); err != nil {
		return fmt.Errorf("creating audit schema: %w", err)
	}

	return nil
}

const auditColumns = `
id, occurred_at, actor_code, actor_name, action_type, target_type, target_id,
result, severity, metadata, is_acknowledged, response_status, response_note,
acknowledged_by, acknowledged_at, archived, archived_at`

// Append persists a new entry.
func (s *PGStore) Append(
	ctx context.Context,
	entry Entry,
) error {
	metadata, err := marshalMetadata(entry.Metadata)
	if err != nil {
		return err
	}

	const insQ = `
INSERT INTO audit_logs (` + auditColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = s.db.ExecContext(
		ctx,
		insQ,
		entry.ID,
		entry.OccurredAt,
		nullString(entry.ActorCode),
		nullString(entry.ActorName),
		string(entry.ActionType),
		nullString(entry.TargetType),
		nullString(entry.TargetID),
		string(entry.Result),
		nullString(string(entry.Severity)),
		metadata,
		entry.IsAcknowledged,
		nullString(string(entry.ResponseStatus)),
		nullString(entry.ResponseNote),
		nullString(entry.AcknowledgedBy),
		entry.AcknowledgedAt,
		entry.Archived,
		entry.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return nil
}

// Get retrieves a single entry by ID.
func (s *PGStore) Get(
	ctx context.Context,
	id string,
) (*Entry, error) {
	const getQ = `SELECT ` + auditColumns + ` FROM audit_logs WHERE id = $1`

	entry, err := scanEntry(s.db.QueryRowContext(ctx, getQ, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("selecting audit entry: %w", err)
	}

	return entry, nil
}

// List retrieves entries matching the filter plus the unpaginated total.
func (s *PGStore) List(
	ctx context.Context,
	filter Filter,
) ([]Entry, int, error) {
	where, args := buildWhere(filter)

	countQ := "SELECT COUNT(*) FROM audit_logs" + where
	var total int
	if err := s.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting audit entries: %w", err)
	}

	orderCol := "occurred_at"
	if filter.SortBy == SortByActor {
		orderCol = "actor_name"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	listQ := fmt.Sprintf(
		"SELECT %s FROM audit_logs%s ORDER BY %s %s, id %s",
		auditColumns, where, orderCol, direction, direction,
	)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		listQ += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		listQ += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, listQ, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("selecting audit entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning audit entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating audit entries: %w", err)
	}

	return entries, total, nil
}

// ListSince retrieves non-archived entries with OccurredAt >= since ascending.
func (s *PGStore) ListSince(
	ctx context.Context,
	since time.Time,
) ([]Entry, error) {
	const sinceQ = `
SELECT ` + auditColumns + `
FROM audit_logs
WHERE occurred_at >= $1 AND NOT archived
ORDER BY occurred_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, sinceQ, since)
	if err != nil {
		return nil, fmt.Errorf("selecting recent audit entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	return entries, nil
}

// HasAnomalySince reports whether an anomaly of the given type exists since
// the given time.
func (s *PGStore) HasAnomalySince(
	ctx context.Context,
	anomalyType string,
	since time.Time,
) (bool, error) {
	const dupQ = `
SELECT EXISTS (
  SELECT 1
  FROM audit_logs
  WHERE action_type = $1
    AND occurred_at >= $2
    AND metadata->>'anomaly_type' = $3
)`

	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		dupQ,
		string(ActionAnomalyDetected),
		since,
		anomalyType,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking recent anomalies: %w", err)
	}

	return exists, nil
}

// UpdateResponse applies the acknowledgement workflow's write. The WHERE
// clause refuses rows already completed, keeping finalization monotonic.
func (s *PGStore) UpdateResponse(
	ctx context.Context,
	id string,
	update ResponseUpdate,
) (*Entry, error) {
	const updQ = `
UPDATE audit_logs
SET response_status = $2,
    response_note   = $3,
    acknowledged_by = $4,
    acknowledged_at = $5,
    is_acknowledged = (is_acknowledged OR $6),
    result          = CASE WHEN $7 THEN 'success' ELSE result END
WHERE id = $1
  AND (response_status IS NULL OR response_status <> 'completed')
RETURNING ` + auditColumns

	entry, err := scanEntry(s.db.QueryRowContext(
		ctx,
		updQ,
		id,
		string(update.Status),
		update.Note,
		update.AcknowledgedBy,
		update.AcknowledgedAt,
		update.Acknowledge,
		update.ForceResultSuccess,
	))
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("updating audit response: %w", err)
	}

	// No row updated: distinguish missing from finalized.
	if _, getErr := s.Get(ctx, id); getErr != nil {
		return nil, getErr
	}

	return nil, ErrFinalized
}

// ArchiveOlderThan flags non-archived entries older than the cutoff.
func (s *PGStore) ArchiveOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	const archQ = `
UPDATE audit_logs
SET archived = TRUE, archived_at = NOW()
WHERE occurred_at < $1 AND NOT archived`

	res, err := s.db.ExecContext(ctx, archQ, cutoff)
	if err != nil {
		return 0, fmt.Errorf("archiving audit entries: %w", err)
	}

	archived, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting archived entries: %w", err)
	}

	return archived, nil
}

// buildWhere assembles the WHERE clause and args for a filtered List.
func buildWhere(
	filter Filter,
) (string, []any) {
	conds := make([]string, 0, 8)
	args := make([]any, 0, 8)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.IncludeArchived {
		conds = append(conds, "NOT archived")
	}
	if filter.From != nil {
		conds = append(conds, "occurred_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "occurred_at <= "+arg(*filter.To))
	}
	if filter.ActorCode != "" {
		conds = append(conds, "actor_code = "+arg(filter.ActorCode))
	}
	if filter.Result != "" {
		conds = append(conds, "result = "+arg(string(filter.Result)))
	}
	if filter.TargetType != "" {
		conds = append(conds, "target_type = "+arg(filter.TargetType))
	}
	if filter.Acknowledged != nil {
		conds = append(conds, "is_acknowledged = "+arg(*filter.Acknowledged))
	}
	if len(filter.ActionTypes) > 0 {
		placeholders := make([]string, 0, len(filter.ActionTypes))
		for _, at := range filter.ActionTypes {
			placeholders = append(placeholders, arg(string(at)))
		}
		conds = append(conds, "action_type IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(conds) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry maps one audit_logs row to an Entry.
func scanEntry(
	row rowScanner,
) (*Entry, error) {
	var (
		entry          Entry
		actorCode      sql.NullString
		actorName      sql.NullString
		targetType     sql.NullString
		targetID       sql.NullString
		severity       sql.NullString
		metadata       []byte
		responseStatus sql.NullString
		responseNote   sql.NullString
		acknowledgedBy sql.NullString
		acknowledgedAt sql.NullTime
		archivedAt     sql.NullTime
	)

	err := row.Scan(
		&entry.ID,
		&entry.OccurredAt,
		&actorCode,
		&actorName,
		(*string)(&entry.ActionType),
		&targetType,
		&targetID,
		(*string)(&entry.Result),
		&severity,
		&metadata,
		&entry.IsAcknowledged,
		&responseStatus,
		&responseNote,
		&acknowledgedBy,
		&acknowledgedAt,
		&entry.Archived,
		&archivedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.ActorCode = actorCode.String
	entry.ActorName = actorName.String
	entry.TargetType = targetType.String
	entry.TargetID = targetID.String
	entry.Severity = Severity(severity.String)
	entry.ResponseStatus = ResponseStatus(responseStatus.String)
	entry.ResponseNote = responseNote.String
	entry.AcknowledgedBy = acknowledgedBy.String
	if acknowledgedAt.Valid {
		t := acknowledgedAt.Time
		entry.AcknowledgedAt = &t
	}
	if archivedAt.Valid {
		t := archivedAt.Time
		entry.ArchivedAt = &t
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling audit metadata: %w", err)
		}
	}

	return &entry, nil
}

// nullString maps "" to NULL so optional columns round-trip with scanEntry.
func nullString(
	s string,
) sql.NullString {
	return sql.NullString{
		String: s,
		Valid:  s != "",
	}
}

// marshalMetadata encodes metadata, defaulting to an empty object.
func marshalMetadata(
	m Metadata,
) ([]byte, error) {
	if len(m) == 0 {
		return []byte(`{}`), nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling audit metadata: %w", err)
	}

	return data, nil
}
