package repository

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist. No
	// partial mutation occurs when it is returned.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a role guard rejects an operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidRole is returned for a role outside the closed enumeration.
	ErrInvalidRole = errors.New("invalid role")
)
