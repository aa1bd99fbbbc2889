package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songbook-backend-go/internal/models"
)

func TestGetOrCreateReturnsExistingProfile(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: "user-1", Email: "a@example.com", DisplayName: "Alice"})
	svc := NewUserService(repo)

	user, created, err := svc.GetOrCreate(context.Background(), "user-1", "other@example.com", "Other", "")
	require.NoError(t, err)
	assert.False(t, created)
	// The stored profile wins over token claims on subsequent reads.
	assert.Equal(t, "Alice", user.DisplayName)
}

func TestGetOrCreateCreatesDefaultProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, created, err := svc.GetOrCreate(context.Background(), "user-1", "a@example.com", "Alice", "https://img.example.com/a.png")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, models.StatusUnpaid, user.SubscriptionStatus)
}

func TestUpdateProfilePatchesAllowListedFields(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: "user-1", Email: "a@example.com"})
	svc := NewUserService(repo)

	bio := "guitarist"
	name := "Alice"
	user, err := svc.UpdateProfile(context.Background(), "user-1", models.UpdateProfileRequest{
		DisplayName: &name,
		Bio:         &bio,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.Equal(t, "guitarist", user.Bio)
	// Untouched fields survive a partial patch.
	assert.Equal(t, "a@example.com", user.Email)
}

func TestUpdateProfileEmptyPatchOnlyMovesUpdatedAt(t *testing.T) {
	repo := newFakeUserRepo(&models.User{
		ID:          "user-1",
		Email:       "a@example.com",
		DisplayName: "Alice",
		UpdatedAt:   time.Now().Add(-time.Hour),
	})
	svc := NewUserService(repo)
	before := repo.snapshot("user-1")

	user, err := svc.UpdateProfile(context.Background(), "user-1", models.UpdateProfileRequest{})
	require.NoError(t, err)

	assert.Equal(t, before.Email, user.Email)
	assert.Equal(t, before.DisplayName, user.DisplayName)
	assert.Equal(t, before.Bio, user.Bio)
	assert.True(t, user.UpdatedAt.After(before.UpdatedAt))

	// The repository saw an empty field map, not a full rewrite.
	require.Len(t, repo.patchCalls, 1)
	assert.Empty(t, repo.patchCalls[0])
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.UpdateProfile(context.Background(), "missing", models.UpdateProfileRequest{})
	require.ErrorIs(t, err, ErrUserNotFound)
}
