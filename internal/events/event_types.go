package events

import (
	"time"

	"github.com/afriroots/afriroots-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account.registered"
	EventContentPublished  EventType = "content.published"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload carries no secret material.
type AccountRegisteredPayload struct {
	Role     domain.Role `json:"role"`
	Tribe    *string     `json:"tribe,omitempty"`
	Language *string     `json:"language,omitempty"`
}

// ContentPublishedPayload payload.
type ContentPublishedPayload struct {
	ContentID string  `json:"content_id"`
	Title     string  `json:"title"`
	Tribe     *string `json:"tribe,omitempty"`
	Language  *string `json:"language,omitempty"`
}
