package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/filmorate/backend/internal/ids"
	"github.com/filmorate/backend/internal/models"
)

// InMemoryUserRepository implements UserRepository on a process-local map. The
// repository owns the map; callers only ever see copies of stored users.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]models.User
	ids   *ids.Generator
}

// NewInMemoryUserRepository returns an empty user store drawing ids from gen.
func NewInMemoryUserRepository(gen *ids.Generator) *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[int64]models.User), ids: gen}
}

// Save stores a new user. Friend ids carried by the user must already exist.
func (r *InMemoryUserRepository) Save(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; user.ID != 0 && ok {
		return models.User{}, fmt.Errorf("user %d: %w", user.ID, ErrAlreadyExists)
	}
	if err := r.checkFriendsLocked(user.Friends); err != nil {
		return models.User{}, err
	}

	stored := user.Clone()
	stored.ID = r.ids.Next()
	r.users[stored.ID] = stored
	return stored.Clone(), nil
}

// Update replaces a stored user, friend set included.
func (r *InMemoryUserRepository) Update(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return models.User{}, fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
	}
	if err := r.checkFriendsLocked(user.Friends); err != nil {
		return models.User{}, err
	}

	stored := user.Clone()
	r.users[stored.ID] = stored
	return stored.Clone(), nil
}

// FindAll returns a snapshot of every user ordered by id.
func (r *InMemoryUserRepository) FindAll(context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}
	slices.SortFunc(out, func(a, b models.User) int { return compareIDs(a.ID, b.ID) })
	return out, nil
}

// FindByID returns a copy of the user or ErrNotFound.
func (r *InMemoryUserRepository) FindByID(_ context.Context, id int64) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, err := r.getLocked(id)
	if err != nil {
		return models.User{}, err
	}
	return user.Clone(), nil
}

// Exists reports whether a user with the id is stored.
func (r *InMemoryUserRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[id]
	return ok, nil
}

// AddFriend records userID -> friendID. The reverse edge is left untouched.
func (r *InMemoryUserRepository) AddFriend(_ context.Context, userID, friendID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.getLocked(userID)
	if err != nil {
		return err
	}
	if _, err := r.getLocked(friendID); err != nil {
		return err
	}

	user.AddFriend(friendID)
	r.users[userID] = user
	return nil
}

// RemoveFriend drops userID -> friendID. Removing a missing edge is not an error.
func (r *InMemoryUserRepository) RemoveFriend(_ context.Context, userID, friendID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.getLocked(userID)
	if err != nil {
		return err
	}
	if _, err := r.getLocked(friendID); err != nil {
		return err
	}

	user.RemoveFriend(friendID)
	r.users[userID] = user
	return nil
}

// Friends resolves the outgoing friend edges of the user. Ids that no longer
// resolve to a stored user are skipped.
func (r *InMemoryUserRepository) Friends(_ context.Context, userID int64) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, err := r.getLocked(userID)
	if err != nil {
		return nil, err
	}
	return r.resolveLocked(user.Friends), nil
}

// CommonFriends resolves the intersection of both users' friend sets.
func (r *InMemoryUserRepository) CommonFriends(_ context.Context, userID, otherID int64) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, err := r.getLocked(userID)
	if err != nil {
		return nil, err
	}
	other, err := r.getLocked(otherID)
	if err != nil {
		return nil, err
	}
	return r.resolveLocked(user.Friends.Intersect(other.Friends)), nil
}

func (r *InMemoryUserRepository) getLocked(id int64) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return user, nil
}

func (r *InMemoryUserRepository) resolveLocked(set models.IDSet) []models.User {
	out := make([]models.User, 0, set.Len())
	for _, id := range set.Sorted() {
		if u, ok := r.users[id]; ok {
			out = append(out, u.Clone())
		}
	}
	return out
}

func (r *InMemoryUserRepository) checkFriendsLocked(friends models.IDSet) error {
	for _, id := range friends.Sorted() {
		if _, err := r.getLocked(id); err != nil {
			return err
		}
	}
	return nil
}

var _ UserRepository = (*InMemoryUserRepository)(nil)
