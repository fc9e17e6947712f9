package models

import (
	"slices"
	"time"
)

// Film is the catalog aggregate: scalar attributes plus the genres, the MPA
// rating and the set of users who liked it. A zero ID means "not persisted yet".
type Film struct {
	ID          int64
	Name        string
	Description string
	ReleaseDate time.Time
	// Duration is expressed in seconds.
	Duration  int64
	Genres    []Genre
	MPA       *Rating
	UserLikes IDSet
}

// AddLike records that the user liked the film. Repeated likes are collapsed.
func (f *Film) AddLike(userID int64) {
	if f.UserLikes == nil {
		f.UserLikes = NewIDSet()
	}
	f.UserLikes.Add(userID)
}

// RemoveLike drops the user's like if present.
func (f *Film) RemoveLike(userID int64) {
	f.UserLikes.Remove(userID)
}

// LikesCount reports how many distinct users liked the film.
func (f Film) LikesCount() int {
	return f.UserLikes.Len()
}

// GenreIDs returns the distinct genre ids of the film in ascending order.
func (f Film) GenreIDs() []int64 {
	ids := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Clone returns a deep copy so callers can mutate it without touching storage.
func (f Film) Clone() Film {
	out := f
	out.Genres = slices.Clone(f.Genres)
	if f.MPA != nil {
		mpa := *f.MPA
		out.MPA = &mpa
	}
	out.UserLikes = f.UserLikes.Clone()
	return out
}

// User is an account together with the ids of the users it has befriended.
// Friendship is directed: Friends holds outgoing edges only.
type User struct {
	ID       int64
	Email    string
	Login    string
	Name     string
	Birthday time.Time
	Friends  IDSet
}

// AddFriend records the directed edge user -> friendID.
func (u *User) AddFriend(friendID int64) {
	if u.Friends == nil {
		u.Friends = NewIDSet()
	}
	u.Friends.Add(friendID)
}

// RemoveFriend drops the directed edge user -> friendID if present.
func (u *User) RemoveFriend(friendID int64) {
	u.Friends.Remove(friendID)
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	out := u
	out.Friends = u.Friends.Clone()
	return out
}

// Genre is a reference row from the fixed genre enumeration.
type Genre struct {
	ID   int64
	Name GenreName
}

// Rating is a reference row from the fixed MPA enumeration.
type Rating struct {
	ID   int64
	Name RatingName
}

// SortGenres removes duplicate genre ids and orders the result by ascending id.
func SortGenres(genres []Genre) []Genre {
	out := slices.Clone(genres)
	slices.SortFunc(out, func(a, b Genre) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return slices.CompactFunc(out, func(a, b Genre) bool { return a.ID == b.ID })
}
