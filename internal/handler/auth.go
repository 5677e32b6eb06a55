package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/streaming-catalog/internal/config"
	"github.com/iliyamo/streaming-catalog/internal/middleware"
	"github.com/iliyamo/streaming-catalog/internal/model"
	"github.com/iliyamo/streaming-catalog/internal/repository"
	"github.com/iliyamo/streaming-catalog/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenRevoker
	Log    logrus.FieldLogger
	Now    func() time.Time
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenRevoker, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Log: log, Now: time.Now}
}

// ----- DTOs -----

// maxPasswordBytes is bcrypt's input limit.  The validator's max counts
// runes, so the byte length is checked separately.
const maxPasswordBytes = 72

type registerReq struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type authResp struct {
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        userPart  `json:"user"`
}

type meResp struct {
	userPart
	CreatedAt time.Time `json:"created_at"`
}

func publicUser(u *model.User) userPart {
	return userPart{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Register creates a user and returns a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return validationError("invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return err
	}
	if len(req.Password) > maxPasswordBytes {
		return validationError("password must be at most 72 bytes")
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, h.Cfg.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return &APIError{Kind: KindConflict, Status: http.StatusBadRequest, Message: "Email already registered"}
	case errors.Is(err, repository.ErrUsernameExists):
		return &APIError{Kind: KindConflict, Status: http.StatusBadRequest, Message: "Username already taken"}
	case errors.Is(err, repository.ErrPasswordTooLong):
		return validationError("password must be at most 72 bytes")
	case err != nil:
		return internalError(err)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, h.Now())
	if err != nil {
		return internalError(err)
	}
	h.Log.WithField("user_id", uid).Info("user registered")

	return c.JSON(http.StatusCreated, authResp{
		Message:     "User registered successfully",
		AccessToken: access.Token,
		ExpiresAt:   access.Exp,
		User:        userPart{ID: uid, Username: req.Username, Email: req.Email},
	})
}

// Login verifies credentials and returns a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return validationError("invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return unauthorizedError("Invalid credentials")
		}
		return internalError(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return unauthorizedError("Invalid credentials")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Now())
	if err != nil {
		return internalError(err)
	}

	return c.JSON(http.StatusOK, authResp{
		Message:     "Login successful",
		AccessToken: access.Token,
		ExpiresAt:   access.Exp,
		User:        publicUser(u),
	})
}

// Me returns the authenticated user's public fields.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthorizedError("unauthorized")
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, meResp{userPart: publicUser(u), CreatedAt: u.CreatedAt})
}

// Logout revokes the presented token until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	jti, exp := middleware.TokenID(c)
	if jti == "" {
		return unauthorizedError("unauthorized")
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, jti, exp); err != nil {
		return internalError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
