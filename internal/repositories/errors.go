package repositories

import "errors"

var (
	// ErrNotFound indicates the requested record, or a record it references, does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a save was given an identifier that is already stored.
	ErrAlreadyExists = errors.New("record already exists")
)
