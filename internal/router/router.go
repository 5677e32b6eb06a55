package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/streaming-catalog/internal/handler"
	"github.com/iliyamo/streaming-catalog/internal/middleware"
)

// NewEcho builds the echo instance with the JSON codec, validator, error
// handler and global middleware installed.
func NewEcho(corsOrigins []string, log logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(log))
	return e
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Index)
	e.GET("/api/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers registration and login under /api/auth, plus the
// token-protected me and logout endpoints.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, auth)
	g.POST("/logout", a.Logout, auth)
}

// RegisterCatalog registers the public browse and search endpoints.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler) {
	e.GET("/api/contents", h.ListContents)
	e.GET("/api/contents/:id", h.GetContent)
	e.GET("/api/categories", h.ListCategories)
	e.GET("/api/categories/:id/contents", h.CategoryContents)
	e.GET("/api/search", h.Search)
}

// RegisterUserState registers favorites and history.  Every route requires
// a valid bearer token.  auth is attached per route rather than to a group
// so unknown /api paths still answer 404.
func RegisterUserState(e *echo.Echo, h *handler.UserStateHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/api")
	g.GET("/favorites", h.ListFavorites, auth)
	g.POST("/favorites", h.AddFavorite, auth)
	g.DELETE("/favorites/:contentId", h.RemoveFavorite, auth)
	g.GET("/history", h.ListHistory, auth)
	g.POST("/history", h.UpdateHistory, auth)
}
