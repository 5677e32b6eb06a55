package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by load balancers and monitoring.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}

// Index greets clients hitting the root path.
func Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to the streaming catalog API"})
}
