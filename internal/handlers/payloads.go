package handlers

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/filmorate/backend/internal/models"
)

const maxDescriptionLength = 200

// earliestRelease is the first public film screening; release dates must fall after it.
var earliestRelease = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

type genrePayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type ratingPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type filmPayload struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ReleaseDate string         `json:"releaseDate"`
	Duration    int64          `json:"duration"`
	Genres      []genrePayload `json:"genres"`
	MPA         *ratingPayload `json:"mpa,omitempty"`
	UserLikes   []int64        `json:"userLikes"`
}

type userPayload struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday string  `json:"birthday"`
	Friends  []int64 `json:"friends"`
}

func (p filmPayload) toModel() (models.Film, []string) {
	var problems []string

	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name must not be blank")
	}
	if utf8.RuneCountInString(p.Description) > maxDescriptionLength {
		problems = append(problems, "description must be at most 200 characters")
	}

	releaseDate, err := time.Parse(time.DateOnly, p.ReleaseDate)
	switch {
	case err != nil:
		problems = append(problems, "releaseDate must use the YYYY-MM-DD format")
	case !releaseDate.After(earliestRelease):
		problems = append(problems, "releaseDate must be after 1895-12-28")
	}

	if p.Duration <= 0 {
		problems = append(problems, "duration must be positive")
	}

	if len(problems) > 0 {
		return models.Film{}, problems
	}

	film := models.Film{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ReleaseDate: releaseDate,
		Duration:    p.Duration,
		UserLikes:   models.NewIDSet(p.UserLikes...),
	}
	for _, g := range p.Genres {
		film.Genres = append(film.Genres, models.Genre{ID: g.ID})
	}
	if p.MPA != nil {
		film.MPA = &models.Rating{ID: p.MPA.ID}
	}
	return film, nil
}

func filmResponse(film models.Film) filmPayload {
	out := filmPayload{
		ID:          film.ID,
		Name:        film.Name,
		Description: film.Description,
		ReleaseDate: film.ReleaseDate.Format(time.DateOnly),
		Duration:    film.Duration,
		Genres:      make([]genrePayload, 0, len(film.Genres)),
		UserLikes:   film.UserLikes.Sorted(),
	}
	for _, g := range models.SortGenres(film.Genres) {
		out.Genres = append(out.Genres, genreResponse(g))
	}
	if film.MPA != nil {
		mpa := ratingResponse(*film.MPA)
		out.MPA = &mpa
	}
	return out
}

func filmsResponse(films []models.Film) []filmPayload {
	out := make([]filmPayload, 0, len(films))
	for _, f := range films {
		out = append(out, filmResponse(f))
	}
	return out
}

func (p userPayload) toModel(now time.Time) (models.User, []string) {
	var problems []string

	email := strings.TrimSpace(p.Email)
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		problems = append(problems, "email must be a valid address containing @")
	}
	if p.Login == "" || strings.IndexFunc(p.Login, unicode.IsSpace) >= 0 {
		problems = append(problems, "login must not be empty or contain spaces")
	}

	birthday, err := time.Parse(time.DateOnly, p.Birthday)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case err != nil:
		problems = append(problems, "birthday must use the YYYY-MM-DD format")
	case !birthday.Before(today):
		problems = append(problems, "birthday must be in the past")
	}

	if len(problems) > 0 {
		return models.User{}, problems
	}

	return models.User{
		ID:       p.ID,
		Email:    email,
		Login:    p.Login,
		Name:     p.Name,
		Birthday: birthday,
		Friends:  models.NewIDSet(p.Friends...),
	}, nil
}

func userResponse(user models.User) userPayload {
	return userPayload{
		ID:       user.ID,
		Email:    user.Email,
		Login:    user.Login,
		Name:     user.Name,
		Birthday: user.Birthday.Format(time.DateOnly),
		Friends:  user.Friends.Sorted(),
	}
}

func usersResponse(users []models.User) []userPayload {
	out := make([]userPayload, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	return out
}

func genreResponse(g models.Genre) genrePayload {
	return genrePayload{ID: g.ID, Name: string(g.Name)}
}

func ratingResponse(r models.Rating) ratingPayload {
	return ratingPayload{ID: r.ID, Name: string(r.Name)}
}
