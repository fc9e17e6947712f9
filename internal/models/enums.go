package models

import (
	"errors"
	"fmt"
)

// ErrUnknownLabel is returned when a persisted or supplied label does not map to
// any enumeration variant.
var ErrUnknownLabel = errors.New("unknown enumeration label")

// GenreName is the closed set of genre labels.
type GenreName string

const (
	GenreComedy      GenreName = "Comedy"
	GenreDrama       GenreName = "Drama"
	GenreCartoon     GenreName = "Cartoon"
	GenreThriller    GenreName = "Thriller"
	GenreDocumentary GenreName = "Documentary"
	GenreAction      GenreName = "Action"
)

// GenreNames lists every genre variant in seeding order.
func GenreNames() []GenreName {
	return []GenreName{GenreComedy, GenreDrama, GenreCartoon, GenreThriller, GenreDocumentary, GenreAction}
}

// ParseGenreName maps a label onto its variant by exact match.
func ParseGenreName(label string) (GenreName, error) {
	switch label {
	case "Comedy":
		return GenreComedy, nil
	case "Drama":
		return GenreDrama, nil
	case "Cartoon":
		return GenreCartoon, nil
	case "Thriller":
		return GenreThriller, nil
	case "Documentary":
		return GenreDocumentary, nil
	case "Action":
		return GenreAction, nil
	default:
		return "", fmt.Errorf("genre %q: %w", label, ErrUnknownLabel)
	}
}

// RatingName is the closed set of MPA labels.
type RatingName string

const (
	RatingG    RatingName = "G"
	RatingPG   RatingName = "PG"
	RatingPG13 RatingName = "PG-13"
	RatingR    RatingName = "R"
	RatingNC17 RatingName = "NC-17"
)

// RatingNames lists every MPA variant in seeding order.
func RatingNames() []RatingName {
	return []RatingName{RatingG, RatingPG, RatingPG13, RatingR, RatingNC17}
}

// ParseRatingName maps a label onto its variant by exact match.
func ParseRatingName(label string) (RatingName, error) {
	switch label {
	case "G":
		return RatingG, nil
	case "PG":
		return RatingPG, nil
	case "PG-13":
		return RatingPG13, nil
	case "R":
		return RatingR, nil
	case "NC-17":
		return RatingNC17, nil
	default:
		return "", fmt.Errorf("rating %q: %w", label, ErrUnknownLabel)
	}
}
