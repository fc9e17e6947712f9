package handlers

import (
	"fmt"
	"net/http"
	"testing"
)

func TestUserHandlerCreateDefaultsName(t *testing.T) {
	mux := newTestMux(t)

	created := createUser(t, mux, "nickname")
	if created.Name != "nickname" {
		t.Fatalf("expected blank name to default to login, got %q", created.Name)
	}

	rec := doJSON(t, mux, http.MethodGet, fmt.Sprintf("/users/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get user: status %d", rec.Code)
	}
	fetched := decode[userPayload](t, rec)
	if fetched.Email != "nickname@example.com" || fetched.Birthday != "2000-01-01" {
		t.Fatalf("unexpected user: %+v", fetched)
	}
}

func TestUserHandlerValidation(t *testing.T) {
	mux := newTestMux(t)

	cases := map[string]map[string]string{
		"missing at":       {"email": "not-an-email", "login": "ok", "birthday": "2000-01-01"},
		"login with space": {"email": "a@b.com", "login": "two words", "birthday": "2000-01-01"},
		"empty login":      {"email": "a@b.com", "login": "", "birthday": "2000-01-01"},
		"birthday today":   {"email": "a@b.com", "login": "ok", "birthday": fixedNow.Format("2006-01-02")},
		"bad date":         {"email": "a@b.com", "login": "ok", "birthday": "01.01.2000"},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/users", payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400 got %d: %s", rec.Code, rec.Body.String())
			}
			resp := decode[errorResponse](t, rec)
			if len(resp.FieldErrors) == 0 {
				t.Fatal("expected field errors in response")
			}
		})
	}
}

func TestUserHandlerUpdate(t *testing.T) {
	mux := newTestMux(t)

	a := createUser(t, mux, "a")
	b := createUser(t, mux, "b")

	rec := doJSON(t, mux, http.MethodPut, "/users", map[string]any{
		"id":       a.ID,
		"email":    "new@example.com",
		"login":    "a",
		"name":     "Alpha",
		"birthday": "1990-02-02",
		"friends":  []int64{b.ID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}
	updated := decode[userPayload](t, rec)
	if updated.Name != "Alpha" || len(updated.Friends) != 1 || updated.Friends[0] != b.ID {
		t.Fatalf("unexpected updated user: %+v", updated)
	}

	rec = doJSON(t, mux, http.MethodPut, "/users", map[string]any{
		"id":       999,
		"email":    "ghost@example.com",
		"login":    "ghost",
		"birthday": "1990-02-02",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 updating unknown user got %d", rec.Code)
	}
}

func TestUserHandlerFriendship(t *testing.T) {
	mux := newTestMux(t)

	a := createUser(t, mux, "a")
	b := createUser(t, mux, "b")
	c := createUser(t, mux, "c")

	for _, pair := range [][2]int64{{a.ID, c.ID}, {b.ID, c.ID}, {a.ID, b.ID}} {
		rec := doJSON(t, mux, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", pair[0], pair[1]), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("add friend %v: status %d", pair, rec.Code)
		}
	}

	rec := doJSON(t, mux, http.MethodGet, fmt.Sprintf("/users/%d/friends", a.ID), nil)
	friends := decode[[]userPayload](t, rec)
	if len(friends) != 2 {
		t.Fatalf("expected 2 friends for a, got %+v", friends)
	}

	rec = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/users/%d/friends", b.ID), nil)
	friends = decode[[]userPayload](t, rec)
	if len(friends) != 1 || friends[0].ID != c.ID {
		t.Fatalf("expected friendship to be directed, got %+v", friends)
	}

	rec = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/users/%d/friends/common/%d", a.ID, b.ID), nil)
	common := decode[[]userPayload](t, rec)
	if len(common) != 1 || common[0].ID != c.ID {
		t.Fatalf("expected c as common friend, got %+v", common)
	}

	rec = doJSON(t, mux, http.MethodDelete, fmt.Sprintf("/users/%d/friends/%d", a.ID, c.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove friend: status %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", a.ID, a.ID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected self friendship to be rejected with 400 got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", a.ID, 404), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown friend got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/users/404/friends", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 listing friends of unknown user got %d", rec.Code)
	}
}
