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
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
)

// ensure PGStore implements Store at compile time.
var _ Store = (*PGStore)(nil)

// PGStore implements Store backed by a Postgres anomaly_rules table.
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

const ruleSchemaQ = `
CREATE TABLE IF NOT EXISTS anomaly_rules (
  id       TEXT PRIMARY KEY,
  rule_key TEXT NOT NULL,
  enabled  BOOLEAN NOT NULL DEFAULT TRUE,
  severity TEXT NOT NULL,
  params   JSONB NOT NULL DEFAULT '{}'
);
`

// EnsureSchema creates the anomaly_rules table when missing.
func (s *PGStore) EnsureSchema(
	ctx context.Context,
) error {
	if _, err := s.db.ExecContext(ctx, ruleSchemaQ); err != nil {
		return fmt.Errorf("creating rule schema: %w", err)
	}

	return nil
}

// List returns all rules ordered by rule key.
func (s *PGStore) List(
	ctx context.Context,
) ([]Rule, error) {
	const listQ = `
SELECT id, rule_key, enabled, severity, params
FROM anomaly_rules
ORDER BY rule_key ASC`

	rows, err := s.db.QueryContext(ctx, listQ)
	if err != nil {
		return nil, fmt.Errorf("selecting rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	rules := make([]Rule, 0)
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}
		rules = append(rules, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return rules, nil
}

// Update applies a partial update by ID.
func (s *PGStore) Update(
	ctx context.Context,
	id string,
	patch Patch,
) (*Rule, error) {
	var params []byte
	if patch.Params != nil {
		data, err := json.Marshal(patch.Params)
		if err != nil {
			return nil, fmt.Errorf("marshaling rule params: %w", err)
		}
		params = data
	}

	const updQ = `
UPDATE anomaly_rules
SET enabled  = COALESCE($2, enabled),
    severity = COALESCE($3, severity),
    params   = COALESCE($4, params)
WHERE id = $1
RETURNING id, rule_key, enabled, severity, params`

	var severity *string
	if patch.Severity != nil {
		sv := string(*patch.Severity)
		severity = &sv
	}

	r, err := scanRule(s.db.QueryRowContext(ctx, updQ, id, patch.Enabled, severity, params))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating rule: %w", err)
	}

	return r, nil
}

// Seed inserts the given rules when the registry is empty.
func (s *PGStore) Seed(
	ctx context.Context,
	rules []Rule,
) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM anomaly_rules`).Scan(&count); err != nil {
		return fmt.Errorf("counting rules: %w", err)
	}
	if count > 0 {
		return nil
	}

	const insQ = `
INSERT INTO anomaly_rules (id, rule_key, enabled, severity, params)
VALUES ($1, $2, $3, $4, $5)`

	for _, r := range rules {
		params, err := json.Marshal(r.Params)
		if err != nil {
			return fmt.Errorf("marshaling rule params: %w", err)
		}

		if _, err := s.db.ExecContext(
			ctx,
			insQ,
			r.ID,
			string(r.Key),
			r.Enabled,
			string(r.Severity),
			params,
		); err != nil {
			return fmt.Errorf("seeding rule %s: %w", r.Key, err)
		}

		s.logger.Info(
			"seeded detection rule",
			slog.String("rule_key", string(r.Key)),
			slog.String("severity", string(r.Severity)),
		)
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRule maps one anomaly_rules row to a Rule.
func scanRule(
	row rowScanner,
) (*Rule, error) {
	var (
		r        Rule
		severity string
		params   []byte
	)

	err := row.Scan(
		&r.ID,
		(*string)(&r.Key),
		&r.Enabled,
		&severity,
		&params,
	)
	if err != nil {
		return nil, err
	}

	r.Severity = severityOrDefault(severity)

	if len(params) > 0 {
		if err := json.Unmarshal(params, &r.Params); err != nil {
			return nil, fmt.Errorf("unmarshaling rule params: %w", err)
		}
	}

	return &r, nil
}

// severityOrDefault keeps scanned severities inside the known set.
func severityOrDefault(
	s string,
) auditlog.Severity {
	sev := auditlog.Severity(s)
	if !sev.Valid() {
		return auditlog.SeverityLow
	}

	return sev
}
