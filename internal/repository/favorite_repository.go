package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/streaming-catalog/internal/model"
)

// FavoriteRepo manages the favorites table.  The (user_id, content_id)
// primary key guarantees at most one row per pair.
type FavoriteRepo struct {
	db *sql.DB
}

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// ListContents returns the user's favorited content, newest favorite first.
func (r *FavoriteRepo) ListContents(ctx context.Context, userID uint64) ([]model.Content, error) {
	return queryContents(ctx, r.db, `SELECT `+contentColumns+`
		FROM favorites f
		JOIN contents c ON c.id = f.content_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC, c.id`, userID)
}

// Add inserts the (userID, contentID) pair unless it already exists.  It
// reports whether a row was created.  The existence check and the insert
// share one transaction; a duplicate key from a concurrent writer counts as
// already present.
func (r *FavoriteRepo) Add(ctx context.Context, userID, contentID uint64) (bool, error) {
	created := false
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		ok, err := contentExists(ctx, tx, contentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrContentNotFound
		}

		var one int
		err = tx.QueryRowContext(ctx,
			"SELECT 1 FROM favorites WHERE user_id = ? AND content_id = ? FOR UPDATE",
			userID, contentID).Scan(&one)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO favorites (user_id, content_id) VALUES (?, ?)", userID, contentID)
		switch {
		case err == nil:
			created = true
			return nil
		case isDuplicateKey(err):
			return nil
		case isMissingReference(err):
			return ErrContentNotFound
		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// Remove deletes the pair.  It returns ErrFavoriteNotFound when no row
// matched.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, contentID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = ? AND content_id = ?", userID, contentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}
