package domain

import "errors"

// Error taxonomy shared by services, repositories and the HTTP error handler.
// Callers attach detail with fmt.Errorf("%w: ...", ErrX) and match with errors.Is.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
)
