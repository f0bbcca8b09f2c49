package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/neuralfit/backend/pkg/database"
)

// TokenBlacklist records revoked access tokens until they would have
// expired anyway.
type TokenBlacklist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

// AccessTokenBlacklist tracks access tokens revoked before their natural
// expiry (logout). Entries live in Redis with a TTL matching the token's
// remaining lifetime, so the set stays bounded.
type AccessTokenBlacklist struct {
	redis *database.Redis
}

var _ TokenBlacklist = (*AccessTokenBlacklist)(nil)

// NewAccessTokenBlacklist creates a new access token blacklist
func NewAccessTokenBlacklist(redis *database.Redis) *AccessTokenBlacklist {
	return &AccessTokenBlacklist{redis: redis}
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:access:" + hex.EncodeToString(sum[:])
}

// Add blacklists a token for the given duration
func (s *AccessTokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	err := s.redis.Client.Set(ctx, blacklistKey(token), "1", ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// Contains checks whether a token is blacklisted
func (s *AccessTokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	exists, err := s.redis.Client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}
