package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRepo keeps the ids of revoked identity tokens in Redis until the
// tokens would have expired anyway.  A nil client disables revocation:
// Revoke is a no-op and IsRevoked always reports false.
type TokenRepo struct {
	rdb    *redis.Client
	prefix string
}

func NewTokenRepo(rdb *redis.Client) *TokenRepo {
	return &TokenRepo{rdb: rdb, prefix: "revoked:jti:"}
}

// Enabled reports whether a Redis client is configured.
func (r *TokenRepo) Enabled() bool { return r != nil && r.rdb != nil }

// Revoke marks jti as revoked until exp.  Tokens already past exp need no
// entry.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, exp time.Time) error {
	if !r.Enabled() || jti == "" {
		return nil
	}
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.prefix+jti, 1, ttl).Err()
}

// IsRevoked reports whether jti has been revoked.
func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if !r.Enabled() || jti == "" {
		return false, nil
	}
	err := r.rdb.Get(ctx, r.prefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
