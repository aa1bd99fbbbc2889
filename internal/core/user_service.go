package core

import (
	"context"
	"errors"
	"fmt"

	"songbook-backend-go/internal/db"
	"songbook-backend-go/internal/models"
)

type userService struct {
	users db.UserRepository
}

// NewUserService creates a UserService.
func NewUserService(users db.UserRepository) UserService {
	return &userService{users: users}
}

// GetOrCreate is the fallback profile-creation path: the first authenticated
// read of a profile that does not exist yet creates it with default values.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user %q: %w", userID, err)
	}

	newUser := &models.User{
		ID:                 userID,
		Email:              email,
		DisplayName:        displayName,
		PhotoURL:           photoURL,
		SubscriptionStatus: models.StatusUnpaid,
	}
	if err := s.users.Create(ctx, newUser); err != nil {
		return nil, false, fmt.Errorf("failed to create profile for %q: %w", userID, err)
	}
	return newUser, true, nil
}

func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := s.users.Patch(ctx, userID, req.Fields()); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, err
	}
	return s.GetByID(ctx, userID)
}
