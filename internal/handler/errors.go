package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/streaming-catalog/internal/repository"
)

// Error kinds surfaced by the API.
const (
	KindValidation   = "validation"
	KindUnauthorized = "unauthorized"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindInternal     = "internal"
)

// APIError is returned by handlers and rendered by HTTPErrorHandler as
// {"error": Message} with Status.
type APIError struct {
	Kind    string
	Status  int
	Message string
	Err     error // underlying cause, logged but never sent
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

func validationError(msg string) *APIError {
	return &APIError{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg}
}

func unauthorizedError(msg string) *APIError {
	return &APIError{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: msg}
}

func notFoundError(msg string) *APIError {
	return &APIError{Kind: KindNotFound, Status: http.StatusNotFound, Message: msg}
}

func internalError(err error) *APIError {
	return &APIError{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// storeError maps repository sentinels onto API errors.
func storeError(err error) *APIError {
	switch {
	case errors.Is(err, repository.ErrContentNotFound):
		return notFoundError("Content not found")
	case errors.Is(err, repository.ErrFavoriteNotFound):
		return notFoundError("Favorite not found")
	case errors.Is(err, repository.ErrUserNotFound):
		return notFoundError("User not found")
	case errors.Is(err, context.DeadlineExceeded):
		return &APIError{Kind: KindInternal, Status: http.StatusServiceUnavailable, Message: "store timeout", Err: err}
	default:
		return internalError(err)
	}
}

// HTTPErrorHandler renders every error as {"error": message}.  Server-side
// failures are logged with the request id.
func HTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := http.StatusInternalServerError, "internal server error"
		var apiErr *APIError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &apiErr):
			status, msg = apiErr.Status, apiErr.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     c.Request().Method,
				"path":       c.Path(),
			}).Error("request error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"error": msg})
		}
		if err != nil {
			log.WithError(err).Error("write error response")
		}
	}
}
