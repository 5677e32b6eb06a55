package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/streaming-catalog/internal/queue"
)

type historyReq struct {
	ContentID     uint64 `json:"content_id" validate:"required"`
	WatchPosition *int64 `json:"watch_position" validate:"omitempty,min=0,max=4294967295"`
}

// ListHistory returns the caller's watch history, most recent first.
func (h *UserStateHandler) ListHistory(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	entries, err := h.History.List(ctx, uid)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// UpdateHistory records a playback position; watch_position defaults to 0.
func (h *UserStateHandler) UpdateHistory(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	var req historyReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	var position uint32
	if req.WatchPosition != nil {
		position = uint32(*req.WatchPosition)
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.History.Upsert(ctx, uid, req.ContentID, position); err != nil {
		return storeError(err)
	}
	h.announce(ctx, queue.ActivityEvent{
		Type:          queue.EventHistoryUpdated,
		UserID:        uid,
		ContentID:     req.ContentID,
		WatchPosition: position,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Watch history updated"})
}
