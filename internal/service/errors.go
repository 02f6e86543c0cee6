// server/internal/service/errors.go
package service

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to the API layer. Every operation checks existence
// before ownership before mutation and short-circuits at the first failure.
var (
	ErrNotFound           = errors.New("record not found")
	ErrNotAuthorized      = errors.New("you do not own this record")
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
