package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/filmorate/backend/internal/ids"
	"github.com/filmorate/backend/internal/models"
	"github.com/filmorate/backend/internal/repositories"
)

type fixture struct {
	films   *FilmService
	users   *UserService
	genres  *GenreService
	ratings *RatingService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	genres := repositories.NewInMemoryGenreRepository(ids.NewGenerator())
	ratings := repositories.NewInMemoryRatingRepository(ids.NewGenerator())
	if err := SeedReferenceData(context.Background(), genres, ratings); err != nil {
		t.Fatalf("seed reference data: %v", err)
	}
	users := repositories.NewInMemoryUserRepository(ids.NewGenerator())
	films := repositories.NewInMemoryFilmRepository(ids.NewGenerator(), users, genres, ratings)

	userService := NewUserService(users)
	return fixture{
		films:   NewFilmService(films, userService),
		users:   userService,
		genres:  NewGenreService(genres),
		ratings: NewRatingService(ratings),
	}
}

func (f fixture) user(t *testing.T, login string) models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), models.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: time.Date(1995, 5, 17, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create user %s: %v", login, err)
	}
	return u
}

func TestUserServiceCreateDefaultsName(t *testing.T) {
	f := newFixture(t)

	u := f.user(t, "nameless")
	if u.Name != "nameless" {
		t.Fatalf("expected name to default to login, got %q", u.Name)
	}

	named, err := f.users.Create(context.Background(), models.User{Login: "l", Name: "Real Name"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if named.Name != "Real Name" {
		t.Fatalf("expected explicit name to be kept, got %q", named.Name)
	}
}

func TestUserServiceRejectsSelfFriendship(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u := f.user(t, "solo")
	if err := f.users.AddFriend(ctx, u.ID, u.ID); !errors.Is(err, ErrSelfFriendship) {
		t.Fatalf("expected ErrSelfFriendship, got %v", err)
	}

	u.Friends = models.NewIDSet(u.ID)
	if _, err := f.users.Update(ctx, u); !errors.Is(err, ErrSelfFriendship) {
		t.Fatalf("expected ErrSelfFriendship on update, got %v", err)
	}
}

func TestFilmServiceLikeResolvesUserFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	film, err := f.films.Create(ctx, models.Film{
		Name:        "Liked",
		ReleaseDate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Duration:    100,
	})
	if err != nil {
		t.Fatalf("create film: %v", err)
	}

	if err := f.films.AddLike(ctx, film.ID, 404); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
	if err := f.films.RemoveLike(ctx, film.ID, 404); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound removing like of unknown user, got %v", err)
	}

	u := f.user(t, "fan")
	if err := f.films.AddLike(ctx, film.ID, u.ID); err != nil {
		t.Fatalf("add like: %v", err)
	}

	popular, err := f.films.Popular(ctx, 10)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	if len(popular) != 1 || !popular[0].UserLikes.Has(u.ID) {
		t.Fatalf("expected liked film in popular list, got %+v", popular)
	}
}

func TestFriendScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")

	for _, pair := range [][2]int64{{a.ID, c.ID}, {b.ID, c.ID}} {
		if err := f.users.AddFriend(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("add friend: %v", err)
		}
	}

	common, err := f.users.CommonFriends(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("common friends: %v", err)
	}
	if len(common) != 1 || common[0].ID != c.ID {
		t.Fatalf("expected c as common friend, got %+v", common)
	}

	if err := f.users.RemoveFriend(ctx, a.ID, c.ID); err != nil {
		t.Fatalf("remove friend: %v", err)
	}
	friends, _ := f.users.Friends(ctx, a.ID)
	if len(friends) != 0 {
		t.Fatalf("expected no friends, got %+v", friends)
	}
}

func TestSeedReferenceDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	genres := repositories.NewInMemoryGenreRepository(ids.NewGenerator())
	ratings := repositories.NewInMemoryRatingRepository(ids.NewGenerator())

	for i := 0; i < 2; i++ {
		if err := SeedReferenceData(ctx, genres, ratings); err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
	}

	g, _ := NewGenreService(genres).List(ctx)
	if len(g) != len(models.GenreNames()) {
		t.Fatalf("expected %d genres, got %d", len(models.GenreNames()), len(g))
	}
	r, _ := NewRatingService(ratings).List(ctx)
	if len(r) != len(models.RatingNames()) {
		t.Fatalf("expected %d ratings, got %d", len(models.RatingNames()), len(r))
	}

	pg, err := NewRatingService(ratings).GetByID(ctx, 2)
	if err != nil || pg.Name != models.RatingPG {
		t.Fatalf("expected rating 2 to be PG, got %+v (%v)", pg, err)
	}
}
