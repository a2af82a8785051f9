package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one logged dispatch attempt.
type HistoryEntry struct {
	ID        string
	Gesture   string
	Action    string
	Outcome   string
	Detail    string
	CreatedAt time.Time
}

// HistoryRepository provides access to the dispatch history log.
type HistoryRepository struct {
	db *sql.DB
}

// History returns the history repository for this store.
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{db: s.db}
}

// Insert logs one dispatch attempt. A missing ID is generated.
func (r *HistoryRepository) Insert(e *HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO dispatch_history (id, gesture, action, outcome, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Gesture, e.Action, e.Outcome, e.Detail, e.CreatedAt,
	)
	return err
}

// Recent returns the most recent entries, newest first.
func (r *HistoryRepository) Recent(limit int) ([]*HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, gesture, action, outcome, detail, created_at
		 FROM dispatch_history ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		e := &HistoryEntry{}
		if err := rows.Scan(&e.ID, &e.Gesture, &e.Action, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Prune deletes entries older than the cutoff. Returns how many were removed.
func (r *HistoryRepository) Prune(olderThan time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM dispatch_history WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
