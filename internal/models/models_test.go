package models

import (
	"errors"
	"slices"
	"testing"
)

func TestParseGenreName(t *testing.T) {
	for _, name := range GenreNames() {
		got, err := ParseGenreName(string(name))
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if got != name {
			t.Fatalf("expected %q got %q", name, got)
		}
	}

	for _, label := range []string{"", "drama", "Horror", " Drama"} {
		if _, err := ParseGenreName(label); !errors.Is(err, ErrUnknownLabel) {
			t.Fatalf("expected ErrUnknownLabel for %q, got %v", label, err)
		}
	}
}

func TestParseRatingName(t *testing.T) {
	for _, name := range RatingNames() {
		got, err := ParseRatingName(string(name))
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if got != name {
			t.Fatalf("expected %q got %q", name, got)
		}
	}

	if _, err := ParseRatingName("PG13"); !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}
}

func TestSortGenresDeduplicatesAndOrders(t *testing.T) {
	in := []Genre{{ID: 3}, {ID: 1}, {ID: 3}, {ID: 2}, {ID: 1}}
	got := SortGenres(in)

	var ids []int64
	for _, g := range got {
		ids = append(ids, g.ID)
	}
	if !slices.Equal(ids, []int64{1, 2, 3}) {
		t.Fatalf("unexpected genre order: %v", ids)
	}
	if len(in) != 5 {
		t.Fatal("input slice must not be modified")
	}
}

func TestFilmLikes(t *testing.T) {
	var film Film
	film.AddLike(7)
	film.AddLike(7)
	film.AddLike(9)
	if film.LikesCount() != 2 {
		t.Fatalf("expected 2 likes got %d", film.LikesCount())
	}

	film.RemoveLike(42)
	film.RemoveLike(7)
	if !slices.Equal(film.UserLikes.Sorted(), []int64{9}) {
		t.Fatalf("unexpected likes: %v", film.UserLikes.Sorted())
	}
}

func TestFilmCloneIsDeep(t *testing.T) {
	film := Film{ID: 1, Genres: []Genre{{ID: 1}}, MPA: &Rating{ID: 2, Name: RatingPG}, UserLikes: NewIDSet(5)}
	clone := film.Clone()

	clone.Genres[0].ID = 99
	clone.MPA.Name = RatingR
	clone.AddLike(6)

	if film.Genres[0].ID != 1 || film.MPA.Name != RatingPG || film.UserLikes.Has(6) {
		t.Fatalf("clone shares state with original: %+v", film)
	}
}

func TestIDSetIntersect(t *testing.T) {
	a := NewIDSet(1, 2, 3, 4)
	b := NewIDSet(3, 4, 5)
	if got := a.Intersect(b).Sorted(); !slices.Equal(got, []int64{3, 4}) {
		t.Fatalf("unexpected intersection: %v", got)
	}
	if got := a.Intersect(nil).Len(); got != 0 {
		t.Fatalf("expected empty intersection with nil set, got %d", got)
	}
}

func TestUserFriendsDirected(t *testing.T) {
	var u User
	u.AddFriend(2)
	u.AddFriend(2)
	if u.Friends.Len() != 1 {
		t.Fatalf("expected one friend got %d", u.Friends.Len())
	}
	u.RemoveFriend(2)
	u.RemoveFriend(3)
	if u.Friends.Len() != 0 {
		t.Fatalf("expected no friends got %d", u.Friends.Len())
	}
}
