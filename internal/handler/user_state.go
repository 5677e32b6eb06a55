package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/streaming-catalog/internal/middleware"
	"github.com/iliyamo/streaming-catalog/internal/queue"
)

// UserStateHandler serves the authenticated favorites and watch-history
// endpoints.  Every change is announced through Events; publish failures
// are logged and never fail the request.
type UserStateHandler struct {
	Favorites FavoriteStore
	History   HistoryStore
	Events    EventPublisher
	Log       logrus.FieldLogger
	Now       func() time.Time
}

func NewUserStateHandler(f FavoriteStore, h HistoryStore, events EventPublisher, log logrus.FieldLogger) *UserStateHandler {
	return &UserStateHandler{Favorites: f, History: h, Events: events, Log: log, Now: time.Now}
}

func currentUser(c echo.Context) (uint64, error) {
	uid, ok := middleware.UserID(c)
	if !ok {
		return 0, unauthorizedError("unauthorized")
	}
	return uid, nil
}

func (h *UserStateHandler) announce(ctx context.Context, ev queue.ActivityEvent) {
	if h.Events == nil {
		return
	}
	ev.OccurredAt = h.Now().UTC()
	if err := h.Events.Publish(ctx, ev); err != nil {
		h.Log.WithError(err).WithField("event", ev.Type).Debug("activity event not published")
	}
}
