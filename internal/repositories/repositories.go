package repositories

import (
	"context"

	"github.com/filmorate/backend/internal/models"
)

// FilmRepository defines the storage contract for films, their genres, rating and likes.
type FilmRepository interface {
	// Save persists a new film and returns it with its id and resolved associations.
	// It fails with ErrAlreadyExists when film.ID is set and already stored.
	Save(ctx context.Context, film models.Film) (models.Film, error)
	// Update overwrites every field and association of a stored film.
	// It fails with ErrNotFound when film.ID is zero or unknown.
	Update(ctx context.Context, film models.Film) (models.Film, error)
	FindAll(ctx context.Context) ([]models.Film, error)
	FindByID(ctx context.Context, id int64) (models.Film, error)
	Exists(ctx context.Context, id int64) (bool, error)
	AddUserLike(ctx context.Context, userID, filmID int64) error
	RemoveUserLike(ctx context.Context, userID, filmID int64) error
	// MostPopular returns at most count films ordered by descending number of likes.
	MostPopular(ctx context.Context, count int) ([]models.Film, error)
}

// UserRepository defines the storage contract for users and their directed friend edges.
type UserRepository interface {
	Save(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// AddFriend records the edge userID -> friendID only.
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	Friends(ctx context.Context, userID int64) ([]models.User, error)
	// CommonFriends returns the users both userID and otherID have befriended.
	CommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error)
}

// GenreRepository exposes the genre reference data.
type GenreRepository interface {
	Save(ctx context.Context, genre models.Genre) (models.Genre, error)
	FindAll(ctx context.Context) ([]models.Genre, error)
	FindByID(ctx context.Context, id int64) (models.Genre, error)
}

// RatingRepository exposes the MPA rating reference data.
type RatingRepository interface {
	Save(ctx context.Context, rating models.Rating) (models.Rating, error)
	FindAll(ctx context.Context) ([]models.Rating, error)
	FindByID(ctx context.Context, id int64) (models.Rating, error)
}
