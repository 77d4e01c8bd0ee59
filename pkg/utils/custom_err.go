package utils

import "errors"

var (
	ErrTripNotFound           = errors.New("trip not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrNoPlacesFound          = errors.New("no places found for destination")
	ErrUnexpectedBehaviorOfAI = errors.New("ai service returned unusable output")
	ErrDatabaseError          = errors.New("database error")
)
