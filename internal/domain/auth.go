package domain

import "time"

// SessionToken describes an issued bearer token.
type SessionToken struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
}
