package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/filmorate/backend/internal/ids"
	"github.com/filmorate/backend/internal/repositories"
	"github.com/filmorate/backend/internal/services"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	genres := repositories.NewInMemoryGenreRepository(ids.NewGenerator())
	ratings := repositories.NewInMemoryRatingRepository(ids.NewGenerator())
	if err := services.SeedReferenceData(context.Background(), genres, ratings); err != nil {
		t.Fatalf("seed reference data: %v", err)
	}
	users := repositories.NewInMemoryUserRepository(ids.NewGenerator())
	films := repositories.NewInMemoryFilmRepository(ids.NewGenerator(), users, genres, ratings)

	userService := services.NewUserService(users)
	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Films:          services.NewFilmService(films, userService),
		Users:          userService,
		Genres:         services.NewGenreService(genres),
		Ratings:        services.NewRatingService(ratings),
		DefaultPopular: 10,
		NowFunc:        func() time.Time { return fixedNow },
	})
	return mux
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func createUser(t *testing.T, h http.Handler, login string) userPayload {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/users", map[string]string{
		"email":    login + "@example.com",
		"login":    login,
		"birthday": "2000-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user %s: status %d body %s", login, rec.Code, rec.Body.String())
	}
	return decode[userPayload](t, rec)
}

func createFilm(t *testing.T, h http.Handler, name string) filmPayload {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/films", map[string]any{
		"name":        name,
		"description": "test film",
		"releaseDate": "2000-01-01",
		"duration":    100,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create film %s: status %d body %s", name, rec.Code, rec.Body.String())
	}
	return decode[filmPayload](t, rec)
}
