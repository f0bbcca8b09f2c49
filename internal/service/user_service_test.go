package service

import (
	"context"
	"testing"

	"github.com/neuralfit/backend/internal/apperrors"
	"github.com/neuralfit/backend/internal/domain"
	"github.com/neuralfit/backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, repo *fakeUserRepo, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		PasswordHash: "irrelevant",
		FullName:     "Seed User",
		Role:         domain.RoleUser,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	user := seedUser(t, repo, "carol@example.com")

	updated, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
		Username: strPtr("carol_42"),
		Bio:      strPtr("night owl"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Username)
	assert.Equal(t, "carol_42", *updated.Username)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "night owl", *updated.Bio)
	assert.Equal(t, "Seed User", updated.FullName)

	// Absent fields stay untouched on a later partial update
	updated, err = svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
		FullName: strPtr("Carol Rewritten"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol Rewritten", updated.FullName)
	require.NotNil(t, updated.Username)
	assert.Equal(t, "carol_42", *updated.Username)
}

func TestUpdateProfileInvalidUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	user := seedUser(t, repo, "carol@example.com")

	for _, username := range []string{"ab", "has space", "way-too-long-username-over-thirty-chars", "emoji😾"} {
		_, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{Username: strPtr(username)})
		require.Error(t, err, "username %q should be rejected", username)
		assert.Equal(t, apperrors.CodeValidation, apperrors.From(err).Code)
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.UpdateProfile(context.Background(), "user-999", &dto.UpdateProfileRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.From(err).Code)
}

func TestGetPublicProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	user := seedUser(t, repo, "dave@example.com")
	_, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{Username: strPtr("dave")})
	require.NoError(t, err)

	profile, err := svc.GetPublicProfile(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "dave", profile.Username)

	_, err = svc.GetPublicProfile(ctx, "nobody")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.From(err).Code)
}

func TestGetUserByID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	user := seedUser(t, repo, "erin@example.com")

	got, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "erin@example.com", got.Email)

	_, err = svc.GetUserByID(ctx, "user-999")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.From(err).Code)
}

func TestListUsers(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	seedUser(t, repo, "one@example.com")
	seedUser(t, repo, "two@example.com")

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestDeleteAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	user := seedUser(t, repo, "gone@example.com")

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))

	_, err := svc.GetProfile(ctx, user.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.From(err).Code)

	err = svc.DeleteAccount(ctx, user.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.From(err).Code)
}
