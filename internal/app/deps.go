package app

import (
	"context"
	"fmt"

	"github.com/filmorate/backend/internal/config"
	"github.com/filmorate/backend/internal/db"
	"github.com/filmorate/backend/internal/handlers"
	"github.com/filmorate/backend/internal/ids"
	"github.com/filmorate/backend/internal/repositories"
	"github.com/filmorate/backend/internal/services"
)

type repositorySet struct {
	films   repositories.FilmRepository
	users   repositories.UserRepository
	genres  repositories.GenreRepository
	ratings repositories.RatingRepository
}

// buildDependencies wires the configured storage engine into the services used
// by the HTTP handlers. The returned cleanup releases engine resources.
func buildDependencies(ctx context.Context, cfg config.Config) (handlers.Dependencies, func(), error) {
	var (
		repos   repositorySet
		cleanup = func() {}
		check   func(context.Context) error
	)

	switch cfg.Storage {
	case config.StorageMemory:
		repos = memoryRepositories()
	case config.StoragePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: int32(cfg.DBMaxConns)})
		if err != nil {
			return handlers.Dependencies{}, nil, err
		}
		repos = postgresRepositories(pool)
		cleanup = pool.Close
		check = pool.Ping
	default:
		return handlers.Dependencies{}, nil, fmt.Errorf("unknown storage engine %q", cfg.Storage)
	}

	if err := services.SeedReferenceData(ctx, repos.genres, repos.ratings); err != nil {
		cleanup()
		return handlers.Dependencies{}, nil, fmt.Errorf("seed reference data: %w", err)
	}

	users := services.NewUserService(repos.users)
	return handlers.Dependencies{
		Films:          services.NewFilmService(repos.films, users),
		Users:          users,
		Genres:         services.NewGenreService(repos.genres),
		Ratings:        services.NewRatingService(repos.ratings),
		DefaultPopular: cfg.PopularDefault,
		Storage:        cfg.Storage,
		HealthCheck:    check,
	}, cleanup, nil
}

func memoryRepositories() repositorySet {
	genres := repositories.NewInMemoryGenreRepository(ids.NewGenerator())
	ratings := repositories.NewInMemoryRatingRepository(ids.NewGenerator())
	users := repositories.NewInMemoryUserRepository(ids.NewGenerator())
	return repositorySet{
		films:   repositories.NewInMemoryFilmRepository(ids.NewGenerator(), users, genres, ratings),
		users:   users,
		genres:  genres,
		ratings: ratings,
	}
}

func postgresRepositories(pool db.Pool) repositorySet {
	return repositorySet{
		films:   repositories.NewPostgresFilmRepository(pool),
		users:   repositories.NewPostgresUserRepository(pool),
		genres:  repositories.NewPostgresGenreRepository(pool),
		ratings: repositories.NewPostgresRatingRepository(pool),
	}
}
