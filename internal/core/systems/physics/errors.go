package physics

import "errors"

// Prediction errors
var (
	ErrInvalidRequest    = errors.New("invalid prediction request")
	ErrInvalidResolution = errors.New("resolution must be at least 1")
	ErrInvalidMaxTime    = errors.New("max time must be positive and finite")
	ErrInvalidVector     = errors.New("vector components must be finite")
	ErrInvalidCollider   = errors.New("invalid collider")
)
