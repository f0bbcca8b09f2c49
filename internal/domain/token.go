package domain

import "time"

// TokenClaims represents verified access token claims
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Exp    int64  `json:"exp"`
	Iat    int64  `json:"iat"`
}

// IsExpired checks if the token is expired
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}

// RefreshToken represents a persisted refresh token. Only the keyed hash of
// the opaque token string is stored.
type RefreshToken struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	TokenHash       string     `json:"-" db:"token_hash"`
	ExpiresAt       time.Time  `json:"expires_at" db:"expires_at"`
	CreatedByIP     string     `json:"created_by_ip" db:"created_by_ip"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	RevokedAt       *time.Time `json:"revoked_at" db:"revoked_at"`
	RevokedByIP     *string    `json:"revoked_by_ip" db:"revoked_by_ip"`
	ReplacedByToken *string    `json:"replaced_by_token" db:"replaced_by_token"`
}

// IsExpired reports whether the token is past its expiry.
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsRevoked reports whether the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive reports whether the token may still be exchanged: not expired
// and not revoked.
func (t *RefreshToken) IsActive() bool {
	return !t.IsRevoked() && !t.IsExpired()
}
