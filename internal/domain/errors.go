package domain

import "errors"

// Error taxonomy for the core transition logic. Handlers map these to HTTP
// status codes; everything else is treated as an internal error.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)
