package domain

import "time"

// ContentItem is a single post in the feed.
type ContentItem struct {
	ID        string
	Title     string
	Body      string
	Tribe     *string
	Language  *string
	AuthorID  string
	CreatedAt time.Time
}
