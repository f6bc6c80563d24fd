package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when the store rejects a second account with the same email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicatePhone is returned when the store rejects a second account with the same phone.
	ErrDuplicatePhone = errors.New("phone already registered")
)
