package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ScheduleRecord is a persisted schedule row. Payload is the versioned JSON
// envelope produced by the schedules service; this layer treats it as opaque.
type ScheduleRecord struct {
	ID        int64
	Username  string
	Name      string
	Payload   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleRepository handles schedule persistence, keyed by
// (username, schedule_name).
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a schedule repository using the given
// connection.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Upsert stores the payload under (username, name), replacing any existing
// payload for that key. The ON CONFLICT clause makes the operation a single
// atomic statement, so concurrent saves for the same key cannot produce
// duplicate rows.
func (r *ScheduleRepository) Upsert(username, name, payload string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(
		`INSERT INTO schedules (username, schedule_name, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (username, schedule_name)
		 DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		username, name, payload, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

// Get returns the record for (username, name), or nil if not stored.
func (r *ScheduleRepository) Get(username, name string) (*ScheduleRecord, error) {
	var rec ScheduleRecord
	err := r.db.QueryRow(
		`SELECT id, username, schedule_name, payload, created_at, updated_at
		 FROM schedules WHERE username = ? AND schedule_name = ?`,
		username, name,
	).Scan(&rec.ID, &rec.Username, &rec.Name, &rec.Payload, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	return &rec, nil
}

// ListByUser returns all records owned by the user in creation order.
func (r *ScheduleRepository) ListByUser(username string) ([]ScheduleRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, username, schedule_name, payload, created_at, updated_at
		 FROM schedules WHERE username = ? ORDER BY created_at, id`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var records []ScheduleRecord
	for rows.Next() {
		var rec ScheduleRecord
		if err := rows.Scan(&rec.ID, &rec.Username, &rec.Name, &rec.Payload, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return records, nil
}

// Delete removes the record for (username, name). Deleting a key that does
// not exist is a no-op, not an error.
func (r *ScheduleRepository) Delete(username, name string) error {
	_, err := r.db.Exec(
		`DELETE FROM schedules WHERE username = ? AND schedule_name = ?`,
		username, name,
	)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
