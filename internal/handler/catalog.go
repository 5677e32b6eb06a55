// Package handler exposes the HTTP handlers.  This file defines the public
// catalog endpoints; none of them require authentication.
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/streaming-catalog/internal/model"
)

// CatalogHandler serves content and category browsing.
type CatalogHandler struct {
	Contents   ContentStore
	Categories CategoryStore
}

func NewCatalogHandler(contents ContentStore, categories CategoryStore) *CatalogHandler {
	return &CatalogHandler{Contents: contents, Categories: categories}
}

// ListContents returns every content item.
func (h *CatalogHandler) ListContents(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	items, err := h.Contents.ListAll(ctx)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetContent returns one content item or 404.
func (h *CatalogHandler) GetContent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	item, err := h.Contents.GetByID(ctx, id)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// ListCategories returns every category.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	cats, err := h.Categories.ListAll(ctx)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, cats)
}

// CategoryContents returns the content linked to a category.  A category
// without content, or an unknown one, yields an empty list.
func (h *CatalogHandler) CategoryContents(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	items, err := h.Contents.ListByCategory(ctx, id)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// Search matches ?q= against titles and descriptions.  An empty query
// returns an empty list.
func (h *CatalogHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusOK, []model.Content{})
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	items, err := h.Contents.Search(ctx, q)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, validationError("invalid " + name)
	}
	return id, nil
}
