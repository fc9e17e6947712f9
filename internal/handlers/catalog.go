package handlers

import "net/http"

// GenreHandler serves the genre catalog.
type GenreHandler struct {
	Genres GenreCatalog
}

// List handles GET /genres.
func (h GenreHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	genres, err := h.Genres.List(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	out := make([]genrePayload, 0, len(genres))
	for _, g := range genres {
		out = append(out, genreResponse(g))
	}
	respondJSON(ctx, w, http.StatusOK, out)
}

// Get handles GET /genres/{id}.
func (h GenreHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(ctx, w, "genre id must be a positive integer")
		return
	}

	genre, err := h.Genres.GetByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, genreResponse(genre))
}

// RatingHandler serves the MPA rating catalog.
type RatingHandler struct {
	Ratings RatingCatalog
}

// List handles GET /mpa.
func (h RatingHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ratings, err := h.Ratings.List(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	out := make([]ratingPayload, 0, len(ratings))
	for _, rating := range ratings {
		out = append(out, ratingResponse(rating))
	}
	respondJSON(ctx, w, http.StatusOK, out)
}

// Get handles GET /mpa/{id}.
func (h RatingHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(ctx, w, "rating id must be a positive integer")
		return
	}

	rating, err := h.Ratings.GetByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, ratingResponse(rating))
}
