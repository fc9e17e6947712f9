package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/filmorate/backend/internal/logging"
)

const defaultPopularCount = 10

// FilmHandler provides the film catalog endpoints.
type FilmHandler struct {
	Films          FilmService
	DefaultPopular int
}

// List handles GET /films.
func (h FilmHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	films, err := h.Films.List(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, filmsResponse(films))
}

// Get handles GET /films/{id}.
func (h FilmHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(ctx, w, "film id must be a positive integer")
		return
	}

	film, err := h.Films.GetByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, filmResponse(film))
}

// Create handles POST /films.
func (h FilmHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req filmPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid film payload", "error", err)
		respondBadRequest(ctx, w, "invalid request body")
		return
	}

	film, problems := req.toModel()
	if len(problems) > 0 {
		respondValidation(ctx, w, problems)
		return
	}

	saved, err := h.Films.Create(ctx, film)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, filmResponse(saved))
}

// Update handles PUT /films.
func (h FilmHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req filmPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid film payload", "error", err)
		respondBadRequest(ctx, w, "invalid request body")
		return
	}

	film, problems := req.toModel()
	if req.ID <= 0 {
		problems = append(problems, "id is required")
	}
	if len(problems) > 0 {
		respondValidation(ctx, w, problems)
		return
	}

	updated, err := h.Films.Update(ctx, film)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, filmResponse(updated))
}

// AddLike handles PUT /films/{id}/like/{userId}.
func (h FilmHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, userID, ok := likeParams(r)
	if !ok {
		respondBadRequest(ctx, w, "film id and user id must be positive integers")
		return
	}

	if err := h.Films.AddLike(ctx, filmID, userID); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]int64{"filmId": filmID, "userId": userID})
}

// RemoveLike handles DELETE /films/{id}/like/{userId}.
func (h FilmHandler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, userID, ok := likeParams(r)
	if !ok {
		respondBadRequest(ctx, w, "film id and user id must be positive integers")
		return
	}

	if err := h.Films.RemoveLike(ctx, filmID, userID); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]int64{"filmId": filmID, "userId": userID})
}

// Popular handles GET /films/popular?count=N.
func (h FilmHandler) Popular(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count := h.DefaultPopular
	if count <= 0 {
		count = defaultPopularCount
	}
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(ctx, w, "count must be an integer")
			return
		}
		count = parsed
	}

	films, err := h.Films.Popular(ctx, count)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, filmsResponse(films))
}

func likeParams(r *http.Request) (filmID, userID int64, ok bool) {
	filmID, ok = pathID(r, "id")
	if !ok {
		return 0, 0, false
	}
	userID, ok = pathID(r, "userId")
	return filmID, userID, ok
}
