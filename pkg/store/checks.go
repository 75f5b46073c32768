// Package store provides SQLite-based storage for host key check history.
// This file contains methods for CheckRecord entities (check history).
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies the result of a known_hosts check.
type Outcome string

const (
	OutcomeTrusted Outcome = "trusted"
	OutcomeUnknown Outcome = "unknown"
	OutcomeRevoked Outcome = "revoked"
)

// CheckRecord represents one recorded known_hosts lookup.
type CheckRecord struct {
	ID          string
	Host        string
	Addr        string // IP address string, empty if lookup was by name only
	Port        int
	Outcome     Outcome
	HostKeys    int    // matched host keys
	CAKeys      int    // matched CA keys
	RevokedKeys int    // matched revoked keys
	Fingerprint string // SHA256 fingerprint of the first matched key
	CreatedAt   time.Time
}

// generateCheckID generates a unique ID with format "chk_" + first 8 chars of UUID.
func generateCheckID() string {
	u := uuid.New().String()
	return "chk_" + u[:8]
}

// SaveCheck inserts a check record.
func (s *Store) SaveCheck(c *CheckRecord) error {
	if c.ID == "" {
		c.ID = generateCheckID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO checks (id, host, addr, port, outcome, host_keys, ca_keys, revoked_keys, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Host, c.Addr, c.Port, string(c.Outcome),
		c.HostKeys, c.CAKeys, c.RevokedKeys, c.Fingerprint, c.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save check: %w", err)
	}
	return nil
}

// CheckFilter narrows ListChecks results. Zero values mean no filtering.
type CheckFilter struct {
	Host    string
	Outcome Outcome
	Limit   int
}

// ListChecks returns check records, most recent first.
func (s *Store) ListChecks(f CheckFilter) ([]*CheckRecord, error) {
	query := `SELECT id, host, addr, port, outcome, host_keys, ca_keys, revoked_keys, fingerprint, created_at
		FROM checks`

	var conditions []string
	var args []interface{}
	if f.Host != "" {
		conditions = append(conditions, "host = ?")
		args = append(args, f.Host)
	}
	if f.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, string(f.Outcome))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer rows.Close()

	var records []*CheckRecord
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, rows.Err()
}

func scanCheck(rows *sql.Rows) (*CheckRecord, error) {
	var c CheckRecord
	var outcome string
	var createdAt int64

	err := rows.Scan(&c.ID, &c.Host, &c.Addr, &c.Port, &outcome,
		&c.HostKeys, &c.CAKeys, &c.RevokedKeys, &c.Fingerprint, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan check: %w", err)
	}

	c.Outcome = Outcome(outcome)
	c.CreatedAt = time.Unix(createdAt, 0)
	return &c, nil
}
