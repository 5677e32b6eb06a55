package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/streaming-catalog/internal/model"
	"github.com/iliyamo/streaming-catalog/internal/queue"
)

// Store interfaces are satisfied by the repository types; tests substitute
// in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, username, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, exp time.Time) error
}

type ContentStore interface {
	ListAll(ctx context.Context) ([]model.Content, error)
	GetByID(ctx context.Context, id uint64) (*model.Content, error)
	ListByCategory(ctx context.Context, categoryID uint64) ([]model.Content, error)
	Search(ctx context.Context, query string) ([]model.Content, error)
}

type CategoryStore interface {
	ListAll(ctx context.Context) ([]model.Category, error)
}

type FavoriteStore interface {
	ListContents(ctx context.Context, userID uint64) ([]model.Content, error)
	Add(ctx context.Context, userID, contentID uint64) (bool, error)
	Remove(ctx context.Context, userID, contentID uint64) error
}

type HistoryStore interface {
	List(ctx context.Context, userID uint64) ([]model.HistoryEntry, error)
	Upsert(ctx context.Context, userID, contentID uint64, position uint32) error
}

type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// storeTimeout bounds every store call made by a handler.
const storeTimeout = 5 * time.Second

func storeCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), storeTimeout)
}
