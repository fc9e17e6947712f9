package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/filmorate/backend/internal/db"
	"github.com/filmorate/backend/internal/models"
)

// PostgresGenreRepository provides PostgreSQL-backed persistence for genres.
type PostgresGenreRepository struct {
	pool db.Pool
}

// NewPostgresGenreRepository constructs a genre repository backed by PostgreSQL.
func NewPostgresGenreRepository(pool db.Pool) *PostgresGenreRepository {
	return &PostgresGenreRepository{pool: pool}
}

// Save inserts a genre row. Duplicate labels surface as ErrAlreadyExists.
func (r *PostgresGenreRepository) Save(ctx context.Context, genre models.Genre) (models.Genre, error) {
	if _, err := models.ParseGenreName(string(genre.Name)); err != nil {
		return models.Genre{}, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Genre{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if genre.ID != 0 {
		ok, err := rowExists(ctx, conn, "genres", genre.ID)
		if err != nil {
			return models.Genre{}, err
		}
		if ok {
			return models.Genre{}, fmt.Errorf("genre %d: %w", genre.ID, ErrAlreadyExists)
		}
	}

	err = conn.QueryRow(ctx, `INSERT INTO genres (name) VALUES ($1) RETURNING id`, string(genre.Name)).Scan(&genre.ID)
	if err != nil {
		return models.Genre{}, translatePgError(err, "insert genre")
	}
	return genre, nil
}

// FindAll returns every genre ordered by id.
func (r *PostgresGenreRepository) FindAll(ctx context.Context) ([]models.Genre, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	genres, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Genre, error) {
		return scanGenre(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan genres: %w", err)
	}
	return genres, nil
}

// FindByID fetches a genre by id.
func (r *PostgresGenreRepository) FindByID(ctx context.Context, id int64) (models.Genre, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Genre{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	genre, err := scanGenre(conn.QueryRow(ctx, `SELECT id, name FROM genres WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Genre{}, fmt.Errorf("genre %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Genre{}, fmt.Errorf("select genre: %w", err)
	}
	return genre, nil
}

func scanGenre(row pgx.Row) (models.Genre, error) {
	var (
		genre models.Genre
		name  string
	)
	if err := row.Scan(&genre.ID, &name); err != nil {
		return models.Genre{}, err
	}
	parsed, err := models.ParseGenreName(name)
	if err != nil {
		return models.Genre{}, err
	}
	genre.Name = parsed
	return genre, nil
}

// PostgresRatingRepository provides PostgreSQL-backed persistence for MPA ratings.
type PostgresRatingRepository struct {
	pool db.Pool
}

// NewPostgresRatingRepository constructs a rating repository backed by PostgreSQL.
func NewPostgresRatingRepository(pool db.Pool) *PostgresRatingRepository {
	return &PostgresRatingRepository{pool: pool}
}

// Save inserts a rating row. Duplicate labels surface as ErrAlreadyExists.
func (r *PostgresRatingRepository) Save(ctx context.Context, rating models.Rating) (models.Rating, error) {
	if _, err := models.ParseRatingName(string(rating.Name)); err != nil {
		return models.Rating{}, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Rating{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if rating.ID != 0 {
		ok, err := rowExists(ctx, conn, "ratings", rating.ID)
		if err != nil {
			return models.Rating{}, err
		}
		if ok {
			return models.Rating{}, fmt.Errorf("rating %d: %w", rating.ID, ErrAlreadyExists)
		}
	}

	err = conn.QueryRow(ctx, `INSERT INTO ratings (name) VALUES ($1) RETURNING id`, string(rating.Name)).Scan(&rating.ID)
	if err != nil {
		return models.Rating{}, translatePgError(err, "insert rating")
	}
	return rating, nil
}

// FindAll returns every rating ordered by id.
func (r *PostgresRatingRepository) FindAll(ctx context.Context) ([]models.Rating, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT id, name FROM ratings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Rating, error) {
		return scanRating(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan ratings: %w", err)
	}
	return ratings, nil
}

// FindByID fetches a rating by id.
func (r *PostgresRatingRepository) FindByID(ctx context.Context, id int64) (models.Rating, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Rating{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rating, err := scanRating(conn.QueryRow(ctx, `SELECT id, name FROM ratings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Rating{}, fmt.Errorf("rating %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Rating{}, fmt.Errorf("select rating: %w", err)
	}
	return rating, nil
}

func scanRating(row pgx.Row) (models.Rating, error) {
	var (
		rating models.Rating
		name   string
	)
	if err := row.Scan(&rating.ID, &name); err != nil {
		return models.Rating{}, err
	}
	parsed, err := models.ParseRatingName(name)
	if err != nil {
		return models.Rating{}, err
	}
	rating.Name = parsed
	return rating, nil
}

var _ GenreRepository = (*PostgresGenreRepository)(nil)
var _ RatingRepository = (*PostgresRatingRepository)(nil)
