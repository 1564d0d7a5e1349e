package model

import "errors"

// Sentinel errors for model validation.
var (
	// ErrInvalidNewsID is returned when a string is not a valid NHK news
	// identifier ("k10" followed by digits).
	ErrInvalidNewsID = errors.New("invalid news id")
)
