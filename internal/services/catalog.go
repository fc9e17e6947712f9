package services

import (
	"context"
	"fmt"

	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/models"
	"github.com/filmorate/backend/internal/repositories"
)

// GenreService exposes the read side of the genre catalog.
type GenreService struct {
	genres repositories.GenreRepository
}

// NewGenreService constructs a GenreService.
func NewGenreService(genres repositories.GenreRepository) *GenreService {
	return &GenreService{genres: genres}
}

// List returns every genre.
func (s *GenreService) List(ctx context.Context) ([]models.Genre, error) {
	return s.genres.FindAll(ctx)
}

// GetByID returns a single genre.
func (s *GenreService) GetByID(ctx context.Context, id int64) (models.Genre, error) {
	return s.genres.FindByID(ctx, id)
}

// RatingService exposes the read side of the MPA catalog.
type RatingService struct {
	ratings repositories.RatingRepository
}

// NewRatingService constructs a RatingService.
func NewRatingService(ratings repositories.RatingRepository) *RatingService {
	return &RatingService{ratings: ratings}
}

// List returns every rating.
func (s *RatingService) List(ctx context.Context) ([]models.Rating, error) {
	return s.ratings.FindAll(ctx)
}

// GetByID returns a single rating.
func (s *RatingService) GetByID(ctx context.Context, id int64) (models.Rating, error) {
	return s.ratings.FindByID(ctx, id)
}

// SeedReferenceData fills empty genre and rating stores with every enumeration
// variant. Stores that already hold rows are left alone.
func SeedReferenceData(ctx context.Context, genres repositories.GenreRepository, ratings repositories.RatingRepository) error {
	logger := logging.FromContext(ctx)

	existingGenres, err := genres.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("list genres: %w", err)
	}
	if len(existingGenres) == 0 {
		for _, name := range models.GenreNames() {
			if _, err := genres.Save(ctx, models.Genre{Name: name}); err != nil {
				return fmt.Errorf("seed genre %s: %w", name, err)
			}
		}
		logger.Info("seeded genres", "count", len(models.GenreNames()))
	}

	existingRatings, err := ratings.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("list ratings: %w", err)
	}
	if len(existingRatings) == 0 {
		for _, name := range models.RatingNames() {
			if _, err := ratings.Save(ctx, models.Rating{Name: name}); err != nil {
				return fmt.Errorf("seed rating %s: %w", name, err)
			}
		}
		logger.Info("seeded ratings", "count", len(models.RatingNames()))
	}

	return nil
}
