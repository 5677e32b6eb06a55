package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/streaming-catalog/internal/queue"
)

type favoriteReq struct {
	ContentID uint64 `json:"content_id" validate:"required"`
}

// ListFavorites returns the caller's favorited content.
func (h *UserStateHandler) ListFavorites(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	items, err := h.Favorites.ListContents(ctx, uid)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// AddFavorite is idempotent: 201 when the favorite is created, 200 when it
// already existed.
func (h *UserStateHandler) AddFavorite(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	var req favoriteReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	created, err := h.Favorites.Add(ctx, uid, req.ContentID)
	if err != nil {
		return storeError(err)
	}
	if !created {
		return c.JSON(http.StatusOK, echo.Map{"message": "Already in favorites"})
	}
	h.announce(ctx, queue.ActivityEvent{Type: queue.EventFavoriteAdded, UserID: uid, ContentID: req.ContentID})
	return c.JSON(http.StatusCreated, echo.Map{"message": "Added to favorites"})
}

// RemoveFavorite deletes the favorite or returns 404 when absent.
func (h *UserStateHandler) RemoveFavorite(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	contentID, err := pathID(c, "contentId")
	if err != nil {
		return err
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Favorites.Remove(ctx, uid, contentID); err != nil {
		return storeError(err)
	}
	h.announce(ctx, queue.ActivityEvent{Type: queue.EventFavoriteRemoved, UserID: uid, ContentID: contentID})
	return c.JSON(http.StatusOK, echo.Map{"message": "Removed from favorites"})
}
