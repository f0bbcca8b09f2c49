package service

import (
	"context"

	"github.com/neuralfit/backend/internal/domain"
	"github.com/neuralfit/backend/internal/dto"
)

// AuthResult is what a successful register/login/refresh yields: the safe
// user view plus a fresh token pair.
type AuthResult struct {
	User         domain.SafeUser
	AccessToken  string
	RefreshToken string
}

// AuthService defines methods for the authentication/session lifecycle
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, ip string) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest, ip string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken, ip string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken, accessToken, ip string) error
	GetUser(ctx context.Context, userID string) (*domain.SafeUser, error)
	ValidateAccessToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// UserService defines methods for profile operations
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.SafeUser, error)
	GetUserByID(ctx context.Context, id string) (*domain.SafeUser, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.SafeUser, error)
	GetPublicProfile(ctx context.Context, username string) (*dto.PublicProfile, error)
	ListUsers(ctx context.Context) ([]domain.SafeUser, error)
	DeleteAccount(ctx context.Context, userID string) error
}
