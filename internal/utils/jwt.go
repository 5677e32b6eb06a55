package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenTTL is the fixed validity window of an identity token.
const AccessTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid token")

// IdentityClaims is the payload of an identity token.  It carries only the
// user id; Subject repeats it as a string and ID is a random token id used
// for revocation.
type IdentityClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// AccessToken represents a signed JWT along with its id and expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	ID    string    // jti claim
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for userID, valid for
// AccessTokenTTL from issuedAt.
func NewAccessToken(secret string, userID uint64, issuedAt time.Time) (AccessToken, error) {
	issuedAt = issuedAt.UTC()
	exp := issuedAt.Add(AccessTokenTTL)
	jti := uuid.NewString()
	claims := IdentityClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, ID: jti, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and returns its claims.  Any
// failure, including expiry or a missing user id, yields an error wrapping
// ErrInvalidToken.
func ParseAccessToken(secret, raw string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !tok.Valid || claims.UserID == 0 || claims.Subject != strconv.FormatUint(claims.UserID, 10) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
