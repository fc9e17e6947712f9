package repositories

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/filmorate/backend/internal/ids"
	"github.com/filmorate/backend/internal/models"
)

// InMemoryFilmRepository implements FilmRepository on a process-local map.
// Likes live inside the film aggregate; genre, rating and liker references are
// resolved through the sibling repositories before anything is written.
type InMemoryFilmRepository struct {
	mu      sync.RWMutex
	films   map[int64]models.Film
	ids     *ids.Generator
	users   UserRepository
	genres  GenreRepository
	ratings RatingRepository
}

// NewInMemoryFilmRepository wires a film store against the reference repositories.
func NewInMemoryFilmRepository(gen *ids.Generator, users UserRepository, genres GenreRepository, ratings RatingRepository) *InMemoryFilmRepository {
	return &InMemoryFilmRepository{
		films:   make(map[int64]models.Film),
		ids:     gen,
		users:   users,
		genres:  genres,
		ratings: ratings,
	}
}

// Save stores a new film and returns it with its generated id.
func (r *InMemoryFilmRepository) Save(ctx context.Context, film models.Film) (models.Film, error) {
	resolved, err := r.resolve(ctx, film)
	if err != nil {
		return models.Film{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.films[film.ID]; film.ID != 0 && ok {
		return models.Film{}, fmt.Errorf("film %d: %w", film.ID, ErrAlreadyExists)
	}

	resolved.ID = r.ids.Next()
	r.films[resolved.ID] = resolved
	return resolved.Clone(), nil
}

// Update replaces the stored film, associations included.
func (r *InMemoryFilmRepository) Update(ctx context.Context, film models.Film) (models.Film, error) {
	if ok, _ := r.Exists(ctx, film.ID); !ok {
		return models.Film{}, fmt.Errorf("film %d: %w", film.ID, ErrNotFound)
	}

	resolved, err := r.resolve(ctx, film)
	if err != nil {
		return models.Film{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.films[film.ID]; !ok {
		return models.Film{}, fmt.Errorf("film %d: %w", film.ID, ErrNotFound)
	}
	r.films[resolved.ID] = resolved
	return resolved.Clone(), nil
}

// FindAll returns every film ordered by id.
func (r *InMemoryFilmRepository) FindAll(context.Context) ([]models.Film, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Film, 0, len(r.films))
	for _, f := range r.films {
		out = append(out, f.Clone())
	}
	slices.SortFunc(out, func(a, b models.Film) int { return compareIDs(a.ID, b.ID) })
	return out, nil
}

// FindByID returns a copy of the film or ErrNotFound.
func (r *InMemoryFilmRepository) FindByID(_ context.Context, id int64) (models.Film, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	film, ok := r.films[id]
	if !ok {
		return models.Film{}, fmt.Errorf("film %d: %w", id, ErrNotFound)
	}
	return film.Clone(), nil
}

// Exists reports whether a film with the id is stored.
func (r *InMemoryFilmRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.films[id]
	return ok, nil
}

// AddUserLike records the user's like. Liking twice leaves a single like.
func (r *InMemoryFilmRepository) AddUserLike(ctx context.Context, userID, filmID int64) error {
	return r.mutateLikes(ctx, userID, filmID, (*models.Film).AddLike)
}

// RemoveUserLike drops the user's like. A film without that like is left as is.
func (r *InMemoryFilmRepository) RemoveUserLike(ctx context.Context, userID, filmID int64) error {
	return r.mutateLikes(ctx, userID, filmID, (*models.Film).RemoveLike)
}

// MostPopular returns up to count films by descending like count. Ties go to
// the lower id. A non-positive count yields an empty result.
func (r *InMemoryFilmRepository) MostPopular(ctx context.Context, count int) ([]models.Film, error) {
	if count <= 0 {
		return []models.Film{}, nil
	}

	films, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(films, func(a, b models.Film) int {
		return cmp.Compare(b.LikesCount(), a.LikesCount())
	})
	if count < len(films) {
		films = films[:count]
	}
	return films, nil
}

func (r *InMemoryFilmRepository) mutateLikes(ctx context.Context, userID, filmID int64, apply func(*models.Film, int64)) error {
	ok, err := r.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	film, ok := r.films[filmID]
	if !ok {
		return fmt.Errorf("film %d: %w", filmID, ErrNotFound)
	}
	apply(&film, userID)
	r.films[filmID] = film
	return nil
}

// resolve replaces genre and rating references with their stored rows and
// checks that every liker exists. The returned film is detached from the input.
func (r *InMemoryFilmRepository) resolve(ctx context.Context, film models.Film) (models.Film, error) {
	out := film.Clone()

	genres := make([]models.Genre, 0, len(film.Genres))
	for _, id := range film.GenreIDs() {
		g, err := r.genres.FindByID(ctx, id)
		if err != nil {
			return models.Film{}, err
		}
		genres = append(genres, g)
	}
	out.Genres = genres

	if film.MPA != nil {
		rating, err := r.ratings.FindByID(ctx, film.MPA.ID)
		if err != nil {
			return models.Film{}, err
		}
		out.MPA = &rating
	}

	for _, id := range film.UserLikes.Sorted() {
		ok, err := r.users.Exists(ctx, id)
		if err != nil {
			return models.Film{}, err
		}
		if !ok {
			return models.Film{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
	}
	return out, nil
}

var _ FilmRepository = (*InMemoryFilmRepository)(nil)
