package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/filmorate/backend/internal/logging"
)

// UserHandler provides user and friendship endpoints.
type UserHandler struct {
	Users   UserService
	NowFunc func() time.Time
}

// List handles GET /users.
func (h UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.Users.List(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, usersResponse(users))
}

// Get handles GET /users/{id}.
func (h UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(ctx, w, "user id must be a positive integer")
		return
	}

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, userResponse(user))
}

// Create handles POST /users.
func (h UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req userPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid user payload", "error", err)
		respondBadRequest(ctx, w, "invalid request body")
		return
	}

	user, problems := req.toModel(h.now())
	if len(problems) > 0 {
		respondValidation(ctx, w, problems)
		return
	}

	saved, err := h.Users.Create(ctx, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, userResponse(saved))
}

// Update handles PUT /users.
func (h UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req userPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid user payload", "error", err)
		respondBadRequest(ctx, w, "invalid request body")
		return
	}

	user, problems := req.toModel(h.now())
	if req.ID <= 0 {
		problems = append(problems, "id is required")
	}
	if len(problems) > 0 {
		respondValidation(ctx, w, problems)
		return
	}

	updated, err := h.Users.Update(ctx, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, userResponse(updated))
}

// AddFriend handles PUT /users/{id}/friends/{friendId}.
func (h UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, friendID, ok := pairParams(r, "friendId")
	if !ok {
		respondBadRequest(ctx, w, "user ids must be positive integers")
		return
	}

	if err := h.Users.AddFriend(ctx, userID, friendID); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]int64{"userId": userID, "friendId": friendID})
}

// RemoveFriend handles DELETE /users/{id}/friends/{friendId}.
func (h UserHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, friendID, ok := pairParams(r, "friendId")
	if !ok {
		respondBadRequest(ctx, w, "user ids must be positive integers")
		return
	}

	if err := h.Users.RemoveFriend(ctx, userID, friendID); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]int64{"userId": userID, "friendId": friendID})
}

// Friends handles GET /users/{id}/friends.
func (h UserHandler) Friends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(ctx, w, "user id must be a positive integer")
		return
	}

	friends, err := h.Users.Friends(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, usersResponse(friends))
}

// CommonFriends handles GET /users/{id}/friends/common/{otherId}.
func (h UserHandler) CommonFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, otherID, ok := pairParams(r, "otherId")
	if !ok {
		respondBadRequest(ctx, w, "user ids must be positive integers")
		return
	}

	common, err := h.Users.CommonFriends(ctx, userID, otherID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, usersResponse(common))
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

func pairParams(r *http.Request, second string) (int64, int64, bool) {
	first, ok := pathID(r, "id")
	if !ok {
		return 0, 0, false
	}
	other, ok := pathID(r, second)
	return first, other, ok
}
