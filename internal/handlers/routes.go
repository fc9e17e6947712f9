package handlers

import (
	"context"
	"net/http"
	"time"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Storage: deps.Storage, Check: deps.HealthCheck}
	films := FilmHandler{Films: deps.Films, DefaultPopular: deps.DefaultPopular}
	users := UserHandler{Users: deps.Users, NowFunc: deps.NowFunc}
	genres := GenreHandler{Genres: deps.Genres}
	ratings := RatingHandler{Ratings: deps.Ratings}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("GET /films", films.List)
	mux.HandleFunc("POST /films", films.Create)
	mux.HandleFunc("PUT /films", films.Update)
	mux.HandleFunc("GET /films/popular", films.Popular)
	mux.HandleFunc("GET /films/{id}", films.Get)
	mux.HandleFunc("PUT /films/{id}/like/{userId}", films.AddLike)
	mux.HandleFunc("DELETE /films/{id}/like/{userId}", films.RemoveLike)

	mux.HandleFunc("GET /users", users.List)
	mux.HandleFunc("POST /users", users.Create)
	mux.HandleFunc("PUT /users", users.Update)
	mux.HandleFunc("GET /users/{id}", users.Get)
	mux.HandleFunc("GET /users/{id}/friends", users.Friends)
	mux.HandleFunc("GET /users/{id}/friends/common/{otherId}", users.CommonFriends)
	mux.HandleFunc("PUT /users/{id}/friends/{friendId}", users.AddFriend)
	mux.HandleFunc("DELETE /users/{id}/friends/{friendId}", users.RemoveFriend)

	mux.HandleFunc("GET /genres", genres.List)
	mux.HandleFunc("GET /genres/{id}", genres.Get)
	mux.HandleFunc("GET /mpa", ratings.List)
	mux.HandleFunc("GET /mpa/{id}", ratings.Get)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Films          FilmService
	Users          UserService
	Genres         GenreCatalog
	Ratings        RatingCatalog
	DefaultPopular int
	NowFunc        func() time.Time

	Storage     string
	HealthCheck func(ctx context.Context) error
}
