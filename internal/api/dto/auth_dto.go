package dto

import "time"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Phone    *string `json:"phone" validate:"omitempty,e164"`
	Password string  `json:"password" validate:"required,maxbytes=72"`
	Role     string  `json:"role" validate:"max=32"`
	Tribe    *string `json:"tribe" validate:"omitempty,max=64"`
	Language *string `json:"language" validate:"omitempty,max=64"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Tribe     *string   `json:"tribe,omitempty"`
	Language  *string   `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
