package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/filmorate/backend/internal/models"
)

func TestFilmHandlerCreateAndGet(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/films", map[string]any{
		"name":        "Paper Boats",
		"description": "Animated short",
		"releaseDate": "2019-03-02",
		"duration":    1500,
		"genres":      []map[string]int64{{"id": 3}, {"id": 1}, {"id": 3}},
		"mpa":         map[string]int64{"id": 1},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	created := decode[filmPayload](t, rec)
	if created.ID == 0 {
		t.Fatal("expected film id to be assigned")
	}
	if len(created.Genres) != 2 || created.Genres[0].Name != "Comedy" || created.Genres[1].Name != "Cartoon" {
		t.Fatalf("expected deduplicated genres sorted by id, got %+v", created.Genres)
	}
	if created.MPA == nil || created.MPA.Name != "G" {
		t.Fatalf("expected mpa G, got %+v", created.MPA)
	}

	rec = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/films/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	fetched := decode[filmPayload](t, rec)
	if fetched.Name != "Paper Boats" || fetched.ReleaseDate != "2019-03-02" || fetched.Duration != 1500 {
		t.Fatalf("unexpected film: %+v", fetched)
	}

	rec = doJSON(t, mux, http.MethodGet, "/films/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/films/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestFilmHandlerValidation(t *testing.T) {
	mux := newTestMux(t)

	cases := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{
			name:    "blank name",
			payload: map[string]any{"name": "  ", "releaseDate": "2000-01-01", "duration": 10},
			field:   "name",
		},
		{
			name:    "long description",
			payload: map[string]any{"name": "n", "description": strings.Repeat("я", 201), "releaseDate": "2000-01-01", "duration": 10},
			field:   "description",
		},
		{
			name:    "release on the cutoff",
			payload: map[string]any{"name": "n", "releaseDate": "1895-12-28", "duration": 10},
			field:   "releaseDate",
		},
		{
			name:    "zero duration",
			payload: map[string]any{"name": "n", "releaseDate": "2000-01-01", "duration": 0},
			field:   "duration",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/films", tc.payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400 got %d", rec.Code)
			}
			resp := decode[errorResponse](t, rec)
			if !slices.ContainsFunc(resp.FieldErrors, func(msg string) bool { return strings.HasPrefix(msg, tc.field) }) {
				t.Fatalf("expected a %s field error, got %v", tc.field, resp.FieldErrors)
			}
		})
	}

	rec := doJSON(t, mux, http.MethodPost, "/films", map[string]any{
		"name":        "edge",
		"description": strings.Repeat("я", 200),
		"releaseDate": "1895-12-29",
		"duration":    1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected boundary values to be accepted, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFilmHandlerUnknownReferences(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/films", map[string]any{
		"name":        "n",
		"releaseDate": "2000-01-01",
		"duration":    10,
		"genres":      []map[string]int64{{"id": 99}},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown genre got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPut, "/films", map[string]any{
		"id":          77,
		"name":        "n",
		"releaseDate": "2000-01-01",
		"duration":    10,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 updating unknown film got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPut, "/films", map[string]any{
		"name":        "n",
		"releaseDate": "2000-01-01",
		"duration":    10,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 updating without id got %d", rec.Code)
	}
}

func TestFilmHandlerLikesAndPopular(t *testing.T) {
	mux := newTestMux(t)

	u1 := createUser(t, mux, "a")
	u2 := createUser(t, mux, "b")
	quiet := createFilm(t, mux, "Quiet")
	loud := createFilm(t, mux, "Loud")

	for _, u := range []userPayload{u1, u2} {
		rec := doJSON(t, mux, http.MethodPut, fmt.Sprintf("/films/%d/like/%d", loud.ID, u.ID), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("like: status %d body %s", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, mux, http.MethodPut, fmt.Sprintf("/films/%d/like/%d", loud.ID, 404), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 liking with unknown user got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/films/popular?count=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("popular: status %d", rec.Code)
	}
	popular := decode[[]filmPayload](t, rec)
	if len(popular) != 1 || popular[0].ID != loud.ID {
		t.Fatalf("expected [%d], got %+v", loud.ID, popular)
	}
	if !slices.Equal(popular[0].UserLikes, []int64{u1.ID, u2.ID}) {
		t.Fatalf("expected likes from both users, got %v", popular[0].UserLikes)
	}

	rec = doJSON(t, mux, http.MethodDelete, fmt.Sprintf("/films/%d/like/%d", loud.ID, u1.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unlike: status %d", rec.Code)
	}
	rec = doJSON(t, mux, http.MethodDelete, fmt.Sprintf("/films/%d/like/%d", quiet.ID, u1.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected removing an absent like to succeed, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/films/popular", nil)
	all := decode[[]filmPayload](t, rec)
	if len(all) != 2 || all[0].ID != loud.ID {
		t.Fatalf("expected default count to return both films with the liked one first, got %+v", all)
	}

	rec = doJSON(t, mux, http.MethodGet, "/films/popular?count=ten", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric count got %d", rec.Code)
	}
}

type failingFilmService struct {
	FilmService
	err error
}

func (s failingFilmService) List(context.Context) ([]models.Film, error) {
	return nil, s.err
}

func TestFilmHandlerInternalError(t *testing.T) {
	handler := FilmHandler{Films: failingFilmService{err: errors.New("connection reset")}}

	rec := doJSON(t, http.HandlerFunc(handler.List), http.MethodGet, "/films", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 got %d", rec.Code)
	}
	resp := decode[errorResponse](t, rec)
	if strings.Contains(resp.Error, "connection reset") {
		t.Fatalf("expected internal error details to stay private, got %q", resp.Error)
	}

	handler = FilmHandler{Films: failingFilmService{err: fmt.Errorf("genre %q: %w", "Horror", models.ErrUnknownLabel)}}
	rec = doJSON(t, http.HandlerFunc(handler.List), http.MethodGet, "/films", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected unknown label to map to 500 got %d", rec.Code)
	}
}
