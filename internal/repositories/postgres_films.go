package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/filmorate/backend/internal/db"
	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/models"
)

const filmSelect = `
        SELECT f.id, f.name, f.description, f.release_date, f.duration,
               r.id, r.name, g.id, g.name, ful.user_id
        FROM films f
        LEFT JOIN ratings r ON r.id = f.rating_id
        LEFT JOIN film_genre fg ON fg.film_id = f.id
        LEFT JOIN genres g ON g.id = fg.genre_id
        LEFT JOIN film_user_likes ful ON ful.film_id = f.id
`

// PostgresFilmRepository provides PostgreSQL-backed persistence for films.
type PostgresFilmRepository struct {
	pool db.Pool
}

// NewPostgresFilmRepository constructs a film repository backed by PostgreSQL.
func NewPostgresFilmRepository(pool db.Pool) *PostgresFilmRepository {
	return &PostgresFilmRepository{pool: pool}
}

// Save inserts the film row and its genre and like associations in one
// transaction, then returns the aggregate as stored.
func (r *PostgresFilmRepository) Save(ctx context.Context, film models.Film) (models.Film, error) {
	ctx, span := logging.StartSpan(ctx, "films.save")
	defer span.End()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Film{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var saved models.Film
	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if film.ID != 0 {
			ok, err := rowExists(ctx, tx, "films", film.ID)
			if err != nil {
				return err
			}
			if ok {
				return fmt.Errorf("film %d: %w", film.ID, ErrAlreadyExists)
			}
		}
		if err := checkFilmReferences(ctx, tx, film); err != nil {
			return err
		}

		var id int64
		err := tx.QueryRow(ctx, `
            INSERT INTO films (name, description, release_date, duration, rating_id)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id
        `, film.Name, film.Description, film.ReleaseDate, film.Duration, mpaRef(film)).Scan(&id)
		if err != nil {
			return translatePgError(err, "insert film")
		}

		if err := insertFilmAssociations(ctx, tx, id, film); err != nil {
			return err
		}

		saved, err = findFilm(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Film{}, span.Fail(err)
	}
	return saved, nil
}

// Update rewrites the film row and replaces its association rows wholesale.
func (r *PostgresFilmRepository) Update(ctx context.Context, film models.Film) (models.Film, error) {
	ctx, span := logging.StartSpan(ctx, "films.update", slog.Int64("film_id", film.ID))
	defer span.End()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Film{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var updated models.Film
	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if err := requireRow(ctx, tx, "films", "film", film.ID); err != nil {
			return err
		}
		if err := checkFilmReferences(ctx, tx, film); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM film_genre WHERE film_id = $1`, film.ID); err != nil {
			return fmt.Errorf("clear film genres: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM film_user_likes WHERE film_id = $1`, film.ID); err != nil {
			return fmt.Errorf("clear film likes: %w", err)
		}

		_, err := tx.Exec(ctx, `
            UPDATE films
            SET name = $2, description = $3, release_date = $4, duration = $5, rating_id = $6
            WHERE id = $1
        `, film.ID, film.Name, film.Description, film.ReleaseDate, film.Duration, mpaRef(film))
		if err != nil {
			return translatePgError(err, "update film")
		}

		if err := insertFilmAssociations(ctx, tx, film.ID, film); err != nil {
			return err
		}

		updated, err = findFilm(ctx, tx, film.ID)
		return err
	})
	if err != nil {
		return models.Film{}, span.Fail(err)
	}
	return updated, nil
}

// FindAll returns every film aggregate ordered by id.
func (r *PostgresFilmRepository) FindAll(ctx context.Context) ([]models.Film, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, filmSelect+` ORDER BY f.id`)
	if err != nil {
		return nil, fmt.Errorf("query films: %w", err)
	}
	return foldFilms(rows)
}

// FindByID fetches a single film aggregate.
func (r *PostgresFilmRepository) FindByID(ctx context.Context, id int64) (models.Film, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Film{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return findFilm(ctx, conn, id)
}

// Exists reports whether a film row with the id is present.
func (r *PostgresFilmRepository) Exists(ctx context.Context, id int64) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return rowExists(ctx, conn, "films", id)
}

// AddUserLike inserts a like row. An existing like is left in place.
func (r *PostgresFilmRepository) AddUserLike(ctx context.Context, userID, filmID int64) error {
	return r.mutateLike(ctx, userID, filmID, `
        INSERT INTO film_user_likes (film_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `)
}

// RemoveUserLike deletes a like row if it exists.
func (r *PostgresFilmRepository) RemoveUserLike(ctx context.Context, userID, filmID int64) error {
	return r.mutateLike(ctx, userID, filmID, `
        DELETE FROM film_user_likes
        WHERE film_id = $1 AND user_id = $2
    `)
}

// MostPopular returns up to count films ordered by like count, then by id.
func (r *PostgresFilmRepository) MostPopular(ctx context.Context, count int) ([]models.Film, error) {
	if count <= 0 {
		return []models.Film{}, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        WITH top_films AS (
            SELECT ff.id, COUNT(l.user_id) AS likes
            FROM films ff
            LEFT JOIN film_user_likes l ON l.film_id = ff.id
            GROUP BY ff.id
            ORDER BY likes DESC, ff.id
            LIMIT $1
        )
        SELECT f.id, f.name, f.description, f.release_date, f.duration,
               r.id, r.name, g.id, g.name, ful.user_id
        FROM top_films t
        JOIN films f ON f.id = t.id
        LEFT JOIN ratings r ON r.id = f.rating_id
        LEFT JOIN film_genre fg ON fg.film_id = f.id
        LEFT JOIN genres g ON g.id = fg.genre_id
        LEFT JOIN film_user_likes ful ON ful.film_id = f.id
        ORDER BY t.likes DESC, f.id
    `, count)
	if err != nil {
		return nil, fmt.Errorf("query popular films: %w", err)
	}
	return foldFilms(rows)
}

func (r *PostgresFilmRepository) mutateLike(ctx context.Context, userID, filmID int64, stmt string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if err := requireRow(ctx, conn, "films", "film", filmID); err != nil {
		return err
	}
	if err := requireRow(ctx, conn, "users", "user", userID); err != nil {
		return err
	}

	if _, err := conn.Exec(ctx, stmt, filmID, userID); err != nil {
		return translatePgError(err, "write film like")
	}
	return nil
}

func findFilm(ctx context.Context, q db.Querier, id int64) (models.Film, error) {
	rows, err := q.Query(ctx, filmSelect+` WHERE f.id = $1`, id)
	if err != nil {
		return models.Film{}, fmt.Errorf("query film: %w", err)
	}
	films, err := foldFilms(rows)
	if err != nil {
		return models.Film{}, err
	}
	if len(films) == 0 {
		return models.Film{}, fmt.Errorf("film %d: %w", id, ErrNotFound)
	}
	return films[0], nil
}

// foldFilms collapses one row per (film, genre, liker) into one aggregate per
// film id, keeping the order in which films first appear.
func foldFilms(rows pgx.Rows) ([]models.Film, error) {
	defer rows.Close()

	var order []int64
	byID := make(map[int64]*models.Film)

	for rows.Next() {
		var (
			film        models.Film
			releaseDate time.Time
			ratingID    *int64
			ratingName  *string
			genreID     *int64
			genreName   *string
			likerID     *int64
		)
		if err := rows.Scan(&film.ID, &film.Name, &film.Description, &releaseDate, &film.Duration,
			&ratingID, &ratingName, &genreID, &genreName, &likerID); err != nil {
			return nil, fmt.Errorf("scan film: %w", err)
		}

		agg, seen := byID[film.ID]
		if !seen {
			film.ReleaseDate = releaseDate.UTC()
			film.UserLikes = models.NewIDSet()
			if ratingID != nil && ratingName != nil {
				name, err := models.ParseRatingName(*ratingName)
				if err != nil {
					return nil, err
				}
				film.MPA = &models.Rating{ID: *ratingID, Name: name}
			}
			agg = &film
			byID[film.ID] = agg
			order = append(order, film.ID)
		}

		if genreID != nil && genreName != nil {
			name, err := models.ParseGenreName(*genreName)
			if err != nil {
				return nil, err
			}
			agg.Genres = append(agg.Genres, models.Genre{ID: *genreID, Name: name})
		}
		if likerID != nil {
			agg.AddLike(*likerID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate films: %w", err)
	}

	films := make([]models.Film, 0, len(order))
	for _, id := range order {
		f := byID[id]
		f.Genres = models.SortGenres(f.Genres)
		films = append(films, *f)
	}
	return films, nil
}

func checkFilmReferences(ctx context.Context, q db.Querier, film models.Film) error {
	if err := requireRows(ctx, q, "genres", "genre", film.GenreIDs()); err != nil {
		return err
	}
	if film.MPA != nil {
		if err := requireRow(ctx, q, "ratings", "rating", film.MPA.ID); err != nil {
			return err
		}
	}
	return requireRows(ctx, q, "users", "user", film.UserLikes.Sorted())
}

func insertFilmAssociations(ctx context.Context, tx pgx.Tx, filmID int64, film models.Film) error {
	batch := &pgx.Batch{}
	for _, genreID := range film.GenreIDs() {
		batch.Queue(`INSERT INTO film_genre (film_id, genre_id) VALUES ($1, $2)`, filmID, genreID)
	}
	for _, userID := range film.UserLikes.Sorted() {
		batch.Queue(`INSERT INTO film_user_likes (film_id, user_id) VALUES ($1, $2)`, filmID, userID)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translatePgError(err, "insert film associations")
	}
	return nil
}

func mpaRef(film models.Film) *int64 {
	if film.MPA == nil {
		return nil
	}
	id := film.MPA.ID
	return &id
}

var _ FilmRepository = (*PostgresFilmRepository)(nil)
