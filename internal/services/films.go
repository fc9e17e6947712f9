package services

import (
	"context"
	"fmt"

	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/models"
	"github.com/filmorate/backend/internal/repositories"
)

// UserLookup resolves users by id. UserService satisfies it.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// FilmService orchestrates film operations over a FilmRepository.
type FilmService struct {
	films repositories.FilmRepository
	users UserLookup
}

// NewFilmService constructs a FilmService. Likes are checked against users
// before the film repository is touched.
func NewFilmService(films repositories.FilmRepository, users UserLookup) *FilmService {
	return &FilmService{films: films, users: users}
}

// Create persists a new film.
func (s *FilmService) Create(ctx context.Context, film models.Film) (models.Film, error) {
	saved, err := s.films.Save(ctx, film)
	if err != nil {
		return models.Film{}, err
	}
	logging.FromContext(ctx).Info("film created", "filmId", saved.ID)
	return saved, nil
}

// Update overwrites an existing film, associations included.
func (s *FilmService) Update(ctx context.Context, film models.Film) (models.Film, error) {
	updated, err := s.films.Update(ctx, film)
	if err != nil {
		return models.Film{}, err
	}
	logging.FromContext(ctx).Info("film updated", "filmId", updated.ID)
	return updated, nil
}

// List returns every film.
func (s *FilmService) List(ctx context.Context) ([]models.Film, error) {
	return s.films.FindAll(ctx)
}

// GetByID returns a single film.
func (s *FilmService) GetByID(ctx context.Context, id int64) (models.Film, error) {
	return s.films.FindByID(ctx, id)
}

// AddLike records userID's like on filmID.
func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.films.AddUserLike(ctx, userID, filmID); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("film liked", "filmId", filmID, "userId", userID)
	return nil
}

// RemoveLike drops userID's like on filmID.
func (s *FilmService) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.films.RemoveUserLike(ctx, userID, filmID); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("film like removed", "filmId", filmID, "userId", userID)
	return nil
}

// Popular returns up to count films ranked by likes.
func (s *FilmService) Popular(ctx context.Context, count int) ([]models.Film, error) {
	films, err := s.films.MostPopular(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("most popular films: %w", err)
	}
	return films, nil
}
