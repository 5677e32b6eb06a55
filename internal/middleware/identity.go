package middleware

// identity.go holds the context keys written by JWTAuth and accessors for
// handlers.

import (
	"time"

	"github.com/labstack/echo/v4"
)

const (
	ctxUserID   = "user_id"
	ctxTokenID  = "token_id"
	ctxTokenExp = "token_exp"
)

// UserID returns the authenticated user id.  ok is false outside JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id != 0
}

// TokenID returns the id and expiry of the presented token.
func TokenID(c echo.Context) (string, time.Time) {
	jti, _ := c.Get(ctxTokenID).(string)
	exp, _ := c.Get(ctxTokenExp).(time.Time)
	return jti, exp
}

// SetIdentity stores an authenticated identity on c.  Tests use it to
// exercise handlers without issuing tokens.
func SetIdentity(c echo.Context, userID uint64, jti string, exp time.Time) {
	c.Set(ctxUserID, userID)
	c.Set(ctxTokenID, jti)
	c.Set(ctxTokenExp, exp)
}
