package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/streaming-catalog/internal/utils"
)

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const bearerPrefix = "Bearer "

// JWTAuth returns an Echo middleware that validates a Bearer identity token
// and stores the user id, token id and expiry in the request context (see
// UserID and TokenID).  revoked may be nil.  A revocation lookup error is
// logged and the token accepted, matching the behaviour without Redis.
func JWTAuth(secret string, revoked RevocationChecker, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			// the scheme name is case-insensitive (RFC 6750)
			if len(auth) <= len(bearerPrefix) || !strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(auth[len(bearerPrefix):])

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					log.WithError(err).Warn("token revocation lookup failed")
				} else if isRevoked {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token revoked"})
				}
			}

			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxTokenID, claims.ID)
			c.Set(ctxTokenExp, claims.ExpiresAt.Time)
			return next(c)
		}
	}
}
