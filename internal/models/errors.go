package models

import (
	"errors"
	"fmt"
)

// Error kinds shared by the services and mapped to HTTP status codes by the api package.
var (
	ErrValidation  = errors.New("validation failed")
	ErrAuth        = errors.New("authentication failed")
	ErrForbidden   = errors.New("forbidden")
	ErrNotFound    = errors.New("not found")
	ErrInvalidRole = errors.New("invalid role")
)

// Authentication failures. All of them match ErrAuth.
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuth)
	ErrTokenMissing       = fmt.Errorf("%w: token is missing", ErrAuth)
	ErrTokenMalformed     = fmt.Errorf("%w: malformed token", ErrAuth)
	ErrTokenExpired       = fmt.Errorf("%w: token has expired", ErrAuth)
	ErrTokenInvalid       = fmt.Errorf("%w: token is invalid", ErrAuth)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrAuth)
)
