package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/neuralfit/backend/internal/domain"
)

// Verification failure kinds. ErrTokenExpired is distinguished so callers
// can tell a stale session from a forged or malformed token.
var (
	ErrTokenExpired = errors.New("token is expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

const refreshTokenBytes = 40

// JWTManager issues and verifies signed access tokens and generates opaque
// refresh tokens. Access tokens are stateless HS256 JWTs; refresh tokens are
// random strings whose keyed hash is what gets persisted.
type JWTManager struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessTokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(accessSecret, refreshSecret string, accessTokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		accessSecret:      []byte(accessSecret),
		refreshSecret:     []byte(refreshSecret),
		accessTokenExpiry: accessTokenExpiry,
	}
}

// GenerateAccessToken generates a signed access token for the user
func (j *JWTManager) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   now.Add(j.accessTokenExpiry).Unix(),
		"iat":   now.Unix(),
	})

	tokenString, err := token.SignedString(j.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// VerifyAccessToken verifies a signed access token and returns its claims.
// Returns ErrTokenExpired for tokens past expiry and ErrTokenInvalid for
// anything else that fails verification.
func (j *JWTManager) VerifyAccessToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.accessSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing sub claim", ErrTokenInvalid)
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing email claim", ErrTokenInvalid)
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing role claim", ErrTokenInvalid)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing exp claim", ErrTokenInvalid)
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing iat claim", ErrTokenInvalid)
	}

	tokenClaims := &domain.TokenClaims{
		UserID: sub,
		Email:  email,
		Role:   role,
		Exp:    int64(exp),
		Iat:    int64(iat),
	}

	if tokenClaims.IsExpired() {
		return nil, ErrTokenExpired
	}

	return tokenClaims, nil
}

// GenerateRefreshToken generates a cryptographically random opaque token.
// It is never signed and shares nothing with the access token key.
func (j *JWTManager) GenerateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashRefreshToken returns the keyed hash under which a refresh token is
// stored. HMAC keyed with the refresh secret, so stored hashes are useless
// without it.
func (j *JWTManager) HashRefreshToken(token string) string {
	mac := hmac.New(sha256.New, j.refreshSecret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// GetAccessTokenExpiry returns the access token expiry duration in seconds
func (j *JWTManager) GetAccessTokenExpiry() int {
	return int(j.accessTokenExpiry.Seconds())
}
