package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/streaming-catalog/internal/model"
)

// ContentRepo provides read access to the catalog.  Content is immutable
// after seeding so there are no write methods.
type ContentRepo struct {
	db *sql.DB
}

// NewContentRepo returns a ContentRepo bound to db.
func NewContentRepo(db *sql.DB) *ContentRepo { return &ContentRepo{db: db} }

const contentColumns = "c.id, c.title, c.description, c.release_year, c.genre, c.image_url, c.video_url, c.type"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(s rowScanner) (model.Content, error) {
	var c model.Content
	err := s.Scan(&c.ID, &c.Title, &c.Description, &c.ReleaseYear, &c.Genre, &c.ImageURL, &c.VideoURL, &c.Type)
	return c, err
}

func queryContents(ctx context.Context, db *sql.DB, q string, args ...any) ([]model.Content, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Content, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every content row ordered by id.
func (r *ContentRepo) ListAll(ctx context.Context) ([]model.Content, error) {
	return queryContents(ctx, r.db, "SELECT "+contentColumns+" FROM contents c ORDER BY c.id")
}

// GetByID returns one content row or ErrContentNotFound.
func (r *ContentRepo) GetByID(ctx context.Context, id uint64) (*model.Content, error) {
	c, err := scanContent(r.db.QueryRowContext(ctx,
		"SELECT "+contentColumns+" FROM contents c WHERE c.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByCategory returns the content linked to categoryID through
// content_categories.  An unknown or empty category yields an empty slice.
func (r *ContentRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]model.Content, error) {
	return queryContents(ctx, r.db, `SELECT `+contentColumns+`
		FROM contents c
		JOIN content_categories cc ON cc.content_id = c.id
		WHERE cc.category_id = ?
		ORDER BY c.id`, categoryID)
}

// Search matches query case-insensitively as a substring of the title or
// the description.  A blank query returns an empty slice without a query.
func (r *ContentRepo) Search(ctx context.Context, query string) ([]model.Content, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Content{}, nil
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return queryContents(ctx, r.db, `SELECT `+contentColumns+`
		FROM contents c
		WHERE LOWER(c.title) LIKE ? OR LOWER(COALESCE(c.description, '')) LIKE ?
		ORDER BY c.id`, pattern, pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern (MySQL's default
// escape character is the backslash).
func escapeLike(s string) string { return likeEscaper.Replace(s) }

// contentExists reports whether id is a known content row.
func contentExists(ctx context.Context, q queryer, id uint64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM contents WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
