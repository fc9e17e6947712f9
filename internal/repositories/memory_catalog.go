package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/filmorate/backend/internal/ids"
	"github.com/filmorate/backend/internal/models"
)

// InMemoryGenreRepository keeps genres in a map guarded by a mutex.
type InMemoryGenreRepository struct {
	mu     sync.RWMutex
	genres map[int64]models.Genre
	ids    *ids.Generator
}

// NewInMemoryGenreRepository returns an empty genre store.
func NewInMemoryGenreRepository(gen *ids.Generator) *InMemoryGenreRepository {
	return &InMemoryGenreRepository{genres: make(map[int64]models.Genre), ids: gen}
}

// Save stores a genre under a freshly generated id.
func (r *InMemoryGenreRepository) Save(_ context.Context, genre models.Genre) (models.Genre, error) {
	if _, err := models.ParseGenreName(string(genre.Name)); err != nil {
		return models.Genre{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.genres[genre.ID]; genre.ID != 0 && ok {
		return models.Genre{}, fmt.Errorf("genre %d: %w", genre.ID, ErrAlreadyExists)
	}

	genre.ID = r.ids.Next()
	r.genres[genre.ID] = genre
	return genre, nil
}

// FindAll returns every genre ordered by id.
func (r *InMemoryGenreRepository) FindAll(context.Context) ([]models.Genre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Genre, 0, len(r.genres))
	for _, g := range r.genres {
		out = append(out, g)
	}
	return models.SortGenres(out), nil
}

// FindByID returns the genre or ErrNotFound.
func (r *InMemoryGenreRepository) FindByID(_ context.Context, id int64) (models.Genre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	genre, ok := r.genres[id]
	if !ok {
		return models.Genre{}, fmt.Errorf("genre %d: %w", id, ErrNotFound)
	}
	return genre, nil
}

// InMemoryRatingRepository keeps MPA ratings in a map guarded by a mutex.
type InMemoryRatingRepository struct {
	mu      sync.RWMutex
	ratings map[int64]models.Rating
	ids     *ids.Generator
}

// NewInMemoryRatingRepository returns an empty rating store.
func NewInMemoryRatingRepository(gen *ids.Generator) *InMemoryRatingRepository {
	return &InMemoryRatingRepository{ratings: make(map[int64]models.Rating), ids: gen}
}

// Save stores a rating under a freshly generated id.
func (r *InMemoryRatingRepository) Save(_ context.Context, rating models.Rating) (models.Rating, error) {
	if _, err := models.ParseRatingName(string(rating.Name)); err != nil {
		return models.Rating{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ratings[rating.ID]; rating.ID != 0 && ok {
		return models.Rating{}, fmt.Errorf("rating %d: %w", rating.ID, ErrAlreadyExists)
	}

	rating.ID = r.ids.Next()
	r.ratings[rating.ID] = rating
	return rating, nil
}

// FindAll returns every rating ordered by id.
func (r *InMemoryRatingRepository) FindAll(context.Context) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Rating, 0, len(r.ratings))
	for _, rating := range r.ratings {
		out = append(out, rating)
	}
	slices.SortFunc(out, func(a, b models.Rating) int { return compareIDs(a.ID, b.ID) })
	return out, nil
}

// FindByID returns the rating or ErrNotFound.
func (r *InMemoryRatingRepository) FindByID(_ context.Context, id int64) (models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rating, ok := r.ratings[id]
	if !ok {
		return models.Rating{}, fmt.Errorf("rating %d: %w", id, ErrNotFound)
	}
	return rating, nil
}

func compareIDs(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

var _ GenreRepository = (*InMemoryGenreRepository)(nil)
var _ RatingRepository = (*InMemoryRatingRepository)(nil)
