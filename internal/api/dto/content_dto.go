package dto

import "time"

// CreateContentRequest payload.
type CreateContentRequest struct {
	Title    string  `json:"title" validate:"required,max=200"`
	Body     string  `json:"body" validate:"required,max=20000"`
	Tribe    *string `json:"tribe" validate:"omitempty,max=64"`
	Language *string `json:"language" validate:"omitempty,max=64"`
}

// ContentResponse represents a feed item.
type ContentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tribe     *string   `json:"tribe,omitempty"`
	Language  *string   `json:"language,omitempty"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}
