package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/streaming-catalog/internal/model"
)

// HistoryRepo manages watch_history.  One row exists per (user, content).
type HistoryRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// List returns the user's history, most recently watched first.
func (r *HistoryRepo) List(ctx context.Context, userID uint64) ([]model.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT c.id, c.title, c.image_url, c.type, w.watch_position, w.last_watched
		FROM watch_history w
		JOIN contents c ON c.id = w.content_id
		WHERE w.user_id = ?
		ORDER BY w.last_watched DESC, w.content_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.HistoryEntry, 0)
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.Content.ID, &e.Content.Title, &e.Content.ImageURL, &e.Content.Type,
			&e.WatchPosition, &e.LastWatched); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Upsert records position for the pair.  An existing row gets the new
// position and a fresh last_watched; otherwise a row is inserted.  Both
// paths run in one transaction with the existing row locked.
func (r *HistoryRepo) Upsert(ctx context.Context, userID, contentID uint64, position uint32) error {
	now := r.now()
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		ok, err := contentExists(ctx, tx, contentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrContentNotFound
		}

		var current uint32
		err = tx.QueryRowContext(ctx,
			"SELECT watch_position FROM watch_history WHERE user_id = ? AND content_id = ? FOR UPDATE",
			userID, contentID).Scan(&current)
		switch {
		case err == nil:
			_, err = tx.ExecContext(ctx,
				"UPDATE watch_history SET watch_position = ?, last_watched = ? WHERE user_id = ? AND content_id = ?",
				position, now, userID, contentID)
			return err
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx,
				"INSERT INTO watch_history (user_id, content_id, watch_position, last_watched) VALUES (?, ?, ?, ?)",
				userID, contentID, position, now)
			switch {
			case isDuplicateKey(err):
				// lost the race to a concurrent insert; apply ours on top
				_, err = tx.ExecContext(ctx,
					"UPDATE watch_history SET watch_position = ?, last_watched = ? WHERE user_id = ? AND content_id = ?",
					position, now, userID, contentID)
				return err
			case isMissingReference(err):
				return ErrContentNotFound
			}
			return err
		default:
			return err
		}
	})
}
