package service

import (
	"context"
	"errors"
	"time"

	"github.com/neuralfit/backend/internal/apperrors"
	"github.com/neuralfit/backend/internal/domain"
	"github.com/neuralfit/backend/internal/dto"
	"github.com/neuralfit/backend/internal/repository"
	"github.com/neuralfit/backend/internal/utils"
	"github.com/neuralfit/backend/pkg/observability"
	"go.uber.org/zap"
)

// Revocation reasons recorded in refresh_tokens.replaced_by_token.
const (
	reasonLoggedOut   = "User logged out"
	reasonReplaced    = "Replaced by new token: "
	reasonInactiveUse = "Attempted use of inactive token"
)

// authService implements AuthService. A user session moves through
// Anonymous -> Authenticated (token pair) -> rotated pairs -> Revoked;
// the state lives in the refresh_tokens rows, never in memory.
type authService struct {
	userRepo           repository.UserRepository
	tokenRepo          repository.TokenRepository
	jwtManager         *utils.JWTManager
	blacklist          TokenBlacklist
	instruments        *observability.Instruments
	logger             *zap.Logger
	bcryptCost         int
	refreshTokenExpiry time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *utils.JWTManager,
	blacklist TokenBlacklist,
	instruments *observability.Instruments,
	logger *zap.Logger,
	bcryptCost int,
	refreshTokenExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:           userRepo,
		tokenRepo:          tokenRepo,
		jwtManager:         jwtManager,
		blacklist:          blacklist,
		instruments:        instruments,
		logger:             logger,
		bcryptCost:         bcryptCost,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// Register creates a new user and opens a session
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, ip string) (*AuthResult, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, apperrors.Validation("Invalid email format", nil)
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, apperrors.Validation(
			"Password must be at least 8 characters long and contain uppercase, lowercase, and number", nil)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &domain.User{
		Email:        utils.SanitizeEmail(req.Email),
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Role:         domain.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email already in use")
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	result, err := s.issueTokenPair(ctx, user, ip)
	if err != nil {
		return nil, err
	}

	s.instruments.Registrations.Add(ctx, 1)
	return result, nil
}

// Login authenticates a user and opens a new session. Other active
// sessions for the user stay untouched; multi-device login is allowed.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ip string) (*AuthResult, error) {
	// Unknown email and wrong password produce the same error so the
	// endpoint cannot be used to probe which addresses are registered.
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid credentials")
		}
		return nil, apperrors.Internal("Failed to get user", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	result, err := s.issueTokenPair(ctx, user, ip)
	if err != nil {
		return nil, err
	}

	s.instruments.Logins.Add(ctx, 1)
	return result, nil
}

// Refresh exchanges an active refresh token for a new token pair.
// Rotation contract: the presented token is revoked with a pointer to its
// replacement, so it can never be exchanged again even if unexpired.
func (s *authService) Refresh(ctx context.Context, refreshToken, ip string) (*AuthResult, error) {
	tokenHash := s.jwtManager.HashRefreshToken(refreshToken)

	dbToken, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid or expired refresh token")
		}
		return nil, apperrors.Internal("Failed to get token", err)
	}

	if !dbToken.IsActive() {
		// A revoked token showing up again is the replay signature of a
		// stolen refresh token. Record the attempt and reject.
		if dbToken.IsRevoked() {
			s.instruments.RefreshReuseDetected.Add(ctx, 1)
			s.logger.Warn("Revoked refresh token presented",
				zap.String("token_id", dbToken.ID),
				zap.String("user_id", dbToken.UserID),
				zap.String("ip", ip),
			)
		}
		if err := s.tokenRepo.Revoke(ctx, dbToken.ID, ip, reasonInactiveUse); err != nil {
			s.logger.Error("Failed to record revocation attempt", zap.Error(err))
		}
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, dbToken.UserID)
	if err != nil {
		return nil, apperrors.Internal("Failed to get user", err)
	}

	result, err := s.issueTokenPair(ctx, user, ip)
	if err != nil {
		return nil, err
	}

	// Two sequential writes, not a transaction: a crash in between can
	// briefly leave both tokens valid. Accepted window.
	if err := s.tokenRepo.Revoke(ctx, dbToken.ID, ip, reasonReplaced+result.RefreshToken); err != nil {
		s.logger.Error("Failed to revoke rotated token",
			zap.String("token_id", dbToken.ID),
			zap.Error(err),
		)
	}

	s.instruments.TokenRefreshes.Add(ctx, 1)
	return result, nil
}

// Logout revokes the presented refresh token and blacklists the access
// token for its remaining lifetime. Never fails: revocation bookkeeping
// errors are logged and swallowed, since the client clears its cookies
// either way and the access token expires shortly.
func (s *authService) Logout(ctx context.Context, refreshToken, accessToken, ip string) error {
	if refreshToken != "" {
		tokenHash := s.jwtManager.HashRefreshToken(refreshToken)
		dbToken, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash)
		switch {
		case err == nil && !dbToken.IsRevoked():
			if err := s.tokenRepo.Revoke(ctx, dbToken.ID, ip, reasonLoggedOut); err != nil {
				s.logger.Error("Failed to revoke refresh token on logout", zap.Error(err))
			}
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			s.logger.Error("Failed to look up refresh token on logout", zap.Error(err))
		}
	}

	if accessToken != "" {
		if claims, err := s.jwtManager.VerifyAccessToken(accessToken); err == nil {
			remaining := time.Until(time.Unix(claims.Exp, 0))
			if remaining > 0 {
				if err := s.blacklist.Add(ctx, accessToken, remaining); err != nil {
					s.logger.Error("Failed to blacklist access token on logout", zap.Error(err))
				}
			}
		}
	}

	return nil
}

// GetUser returns the safe view of a user
func (s *authService) GetUser(ctx context.Context, userID string) (*domain.SafeUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal("Failed to get user", err)
	}

	safe := user.Safe()
	return &safe, nil
}

// ValidateAccessToken verifies an access token and rejects blacklisted ones
func (s *authService) ValidateAccessToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.jwtManager.VerifyAccessToken(token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, apperrors.Unauthorized("Token expired")
		}
		return nil, apperrors.Unauthorized("Invalid token")
	}

	blacklisted, err := s.blacklist.Contains(ctx, token)
	if err != nil {
		return nil, apperrors.Internal("Failed to check token blacklist", err)
	}
	if blacklisted {
		return nil, apperrors.Unauthorized("Token revoked")
	}

	return claims, nil
}

// issueTokenPair mints an access token and persists a new refresh token row.
func (s *authService) issueTokenPair(ctx context.Context, user *domain.User, ip string) (*AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate access token", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.Internal("Failed to generate refresh token", err)
	}

	record := &domain.RefreshToken{
		UserID:      user.ID,
		TokenHash:   s.jwtManager.HashRefreshToken(refreshToken),
		ExpiresAt:   time.Now().Add(s.refreshTokenExpiry),
		CreatedByIP: ip,
	}

	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, apperrors.Internal("Failed to save refresh token", err)
	}

	return &AuthResult{
		User:         user.Safe(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
