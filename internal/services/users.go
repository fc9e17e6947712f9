package services

import (
	"context"
	"errors"
	"strings"

	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/models"
	"github.com/filmorate/backend/internal/repositories"
)

// ErrSelfFriendship is returned when a user tries to befriend themselves.
var ErrSelfFriendship = errors.New("user cannot befriend themselves")

// UserService orchestrates user and friendship operations.
type UserService struct {
	users repositories.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create persists a new user. A blank display name falls back to the login.
func (s *UserService) Create(ctx context.Context, user models.User) (models.User, error) {
	user = withDisplayName(user)
	if user.ID != 0 && user.Friends.Has(user.ID) {
		return models.User{}, ErrSelfFriendship
	}

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	logging.FromContext(ctx).Info("user created", "userId", saved.ID)
	return saved, nil
}

// Update overwrites an existing user, friend set included.
func (s *UserService) Update(ctx context.Context, user models.User) (models.User, error) {
	user = withDisplayName(user)
	if user.Friends.Has(user.ID) {
		return models.User{}, ErrSelfFriendship
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	logging.FromContext(ctx).Info("user updated", "userId", updated.ID)
	return updated, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id int64) (models.User, error) {
	return s.users.FindByID(ctx, id)
}

// AddFriend records the directed edge userID -> friendID.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return ErrSelfFriendship
	}
	if err := s.users.AddFriend(ctx, userID, friendID); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("friend added", "userId", userID, "friendId", friendID)
	return nil
}

// RemoveFriend drops the directed edge userID -> friendID.
func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.users.RemoveFriend(ctx, userID, friendID); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("friend removed", "userId", userID, "friendId", friendID)
	return nil
}

// Friends lists the users userID has befriended.
func (s *UserService) Friends(ctx context.Context, userID int64) ([]models.User, error) {
	return s.users.Friends(ctx, userID)
}

// CommonFriends lists users befriended by both userID and otherID.
func (s *UserService) CommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error) {
	return s.users.CommonFriends(ctx, userID, otherID)
}

func withDisplayName(user models.User) models.User {
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}
	return user
}
