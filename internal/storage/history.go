package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
)

// Pick is one committed selection, as it would be submitted by the
// surrounding form.
type Pick struct {
	ID       string
	Mode     string
	Value    string
	PickedAt time.Time
}

// HistoryRepository persists committed selections.
type HistoryRepository struct {
	db *Database
}

func NewHistoryRepository(db *Database) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record stores one committed selection and returns its ID.
func (r *HistoryRepository) Record(mode, value string, at time.Time) (string, error) {
	id := xid.New().String()
	_, err := r.db.DB().Exec(`
		INSERT INTO history (id, mode, value, picked_at)
		VALUES (?, ?, ?, ?)
	`, id, mode, value, at.Unix())
	if err != nil {
		return "", fmt.Errorf("failed to record selection: %w", err)
	}
	return id, nil
}

// Recent returns up to limit selections, newest first.
func (r *HistoryRepository) Recent(limit int) ([]Pick, error) {
	rows, err := r.db.DB().Query(`
		SELECT id, mode, value, picked_at
		FROM history
		ORDER BY picked_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var picks []Pick
	for rows.Next() {
		var p Pick
		var pickedAt int64
		if err := rows.Scan(&p.ID, &p.Mode, &p.Value, &pickedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		p.PickedAt = time.Unix(pickedAt, 0)
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

// Latest returns the most recent selection for a mode, nil when none.
func (r *HistoryRepository) Latest(mode string) (*Pick, error) {
	var p Pick
	var pickedAt int64
	err := r.db.DB().QueryRow(`
		SELECT id, mode, value, picked_at
		FROM history
		WHERE mode = ?
		ORDER BY picked_at DESC, id DESC
		LIMIT 1
	`, mode).Scan(&p.ID, &p.Mode, &p.Value, &pickedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest selection: %w", err)
	}
	p.PickedAt = time.Unix(pickedAt, 0)
	return &p, nil
}

// Prune deletes all but the newest keep rows.
func (r *HistoryRepository) Prune(keep int) error {
	_, err := r.db.DB().Exec(`
		DELETE FROM history
		WHERE id NOT IN (
			SELECT id FROM history ORDER BY picked_at DESC, id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}
