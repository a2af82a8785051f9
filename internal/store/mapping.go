package store

import (
	"database/sql"
	"errors"
	"time"
)

// Mapping is a persisted gesture-to-action binding override.
type Mapping struct {
	Gesture             string
	Action              string
	Percent             int
	RequireConfirmation bool
	Enabled             bool
	UpdatedAt           time.Time
}

// MappingRepository provides CRUD operations for mapping overrides.
type MappingRepository struct {
	db *sql.DB
}

// Mappings returns the mapping repository for this store.
func (s *Store) Mappings() *MappingRepository {
	return &MappingRepository{db: s.db}
}

// Upsert inserts or replaces the override for a gesture.
func (r *MappingRepository) Upsert(m *Mapping) error {
	m.UpdatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO mappings (gesture, action, percent, require_confirmation, enabled, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(gesture) DO UPDATE SET
			action = excluded.action,
			percent = excluded.percent,
			require_confirmation = excluded.require_confirmation,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`,
		m.Gesture, m.Action, m.Percent, boolToInt(m.RequireConfirmation), boolToInt(m.Enabled), m.UpdatedAt,
	)
	return err
}

// GetByGesture retrieves the override for a gesture.
func (r *MappingRepository) GetByGesture(gesture string) (*Mapping, error) {
	m := &Mapping{}
	var requireConfirmation, enabled int

	err := r.db.QueryRow(
		`SELECT gesture, action, percent, require_confirmation, enabled, updated_at
		 FROM mappings WHERE gesture = ?`,
		gesture,
	).Scan(&m.Gesture, &m.Action, &m.Percent, &requireConfirmation, &enabled, &m.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m.RequireConfirmation = requireConfirmation != 0
	m.Enabled = enabled != 0
	return m, nil
}

// List retrieves all overrides.
func (r *MappingRepository) List() ([]*Mapping, error) {
	rows, err := r.db.Query(
		`SELECT gesture, action, percent, require_confirmation, enabled, updated_at
		 FROM mappings ORDER BY gesture`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []*Mapping
	for rows.Next() {
		m := &Mapping{}
		var requireConfirmation, enabled int

		if err := rows.Scan(&m.Gesture, &m.Action, &m.Percent, &requireConfirmation, &enabled, &m.UpdatedAt); err != nil {
			return nil, err
		}

		m.RequireConfirmation = requireConfirmation != 0
		m.Enabled = enabled != 0
		mappings = append(mappings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return mappings, nil
}

// Delete removes the override for a gesture.
func (r *MappingRepository) Delete(gesture string) error {
	result, err := r.db.Exec(`DELETE FROM mappings WHERE gesture = ?`, gesture)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
