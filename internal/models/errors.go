package models

import "errors"

// Operation-boundary error taxonomy. Controllers return these wrapped with
// context; handlers match them with errors.Is to pick a status code.
var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)
