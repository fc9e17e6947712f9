package handlers

import (
	"context"

	"github.com/filmorate/backend/internal/models"
)

// FilmService captures the film operations required by the film handlers.
type FilmService interface {
	Create(ctx context.Context, film models.Film) (models.Film, error)
	Update(ctx context.Context, film models.Film) (models.Film, error)
	List(ctx context.Context) ([]models.Film, error)
	GetByID(ctx context.Context, id int64) (models.Film, error)
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	Popular(ctx context.Context, count int) ([]models.Film, error)
}

// UserService captures the user and friendship operations required by the user handlers.
type UserService interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	Friends(ctx context.Context, userID int64) ([]models.User, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error)
}

// GenreCatalog exposes read access to genres.
type GenreCatalog interface {
	List(ctx context.Context) ([]models.Genre, error)
	GetByID(ctx context.Context, id int64) (models.Genre, error)
}

// RatingCatalog exposes read access to MPA ratings.
type RatingCatalog interface {
	List(ctx context.Context) ([]models.Rating, error)
	GetByID(ctx context.Context, id int64) (models.Rating, error)
}
