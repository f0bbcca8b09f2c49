package service

import (
	"context"
	"errors"

	"github.com/neuralfit/backend/internal/apperrors"
	"github.com/neuralfit/backend/internal/domain"
	"github.com/neuralfit/backend/internal/dto"
	"github.com/neuralfit/backend/internal/repository"
	"github.com/neuralfit/backend/internal/utils"
)

// userService implements UserService
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetProfile returns the safe view of the user's own profile
func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.SafeUser, error) {
	return s.GetUserByID(ctx, userID)
}

// GetUserByID returns the safe view of any user
func (s *userService) GetUserByID(ctx context.Context, id string) (*domain.SafeUser, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal("Failed to get user", err)
	}

	safe := user.Safe()
	return &safe, nil
}

// UpdateProfile applies the provided profile fields, leaving absent ones
// untouched. Username changes are checked for uniqueness.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.SafeUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal("Failed to get user", err)
	}

	if req.Username != nil && *req.Username != "" {
		if !utils.ValidateUsername(*req.Username) {
			return nil, apperrors.Validation("Username must be 3-30 characters of letters, digits, '_', '.' or '-'", nil)
		}
		user.Username = req.Username
	}
	if req.FullName != nil && *req.FullName != "" {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, apperrors.Conflict("Username is already taken")
		}
		return nil, apperrors.Internal("Failed to update user", err)
	}

	safe := user.Safe()
	return &safe, nil
}

// GetPublicProfile returns the public view of a user by username
func (s *userService) GetPublicProfile(ctx context.Context, username string) (*dto.PublicProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal("Failed to get user", err)
	}

	profile := &dto.PublicProfile{
		ID:        user.ID,
		FullName:  user.FullName,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
	if user.Username != nil {
		profile.Username = *user.Username
	}

	return profile, nil
}

// ListUsers returns the safe views of all users
func (s *userService) ListUsers(ctx context.Context) ([]domain.SafeUser, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list users", err)
	}

	safe := make([]domain.SafeUser, 0, len(users))
	for _, user := range users {
		safe = append(safe, user.Safe())
	}

	return safe, nil
}

// DeleteAccount removes the user. Refresh tokens cascade at the store.
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User not found")
		}
		return apperrors.Internal("Failed to delete user", err)
	}
	return nil
}
