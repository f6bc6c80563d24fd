package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/afriroots/afriroots-api/internal/domain"
	"github.com/afriroots/afriroots-api/internal/events"
	"github.com/afriroots/afriroots-api/internal/repository"
	apperrors "github.com/afriroots/afriroots-api/pkg/util"
)

// ContentCreateInput describes a new post.
type ContentCreateInput struct {
	Title    string
	Body     string
	Tribe    *string
	Language *string
}

// ContentService coordinates the content feed.
type ContentService struct {
	content    repository.ContentRepository
	dispatcher events.Dispatcher
}

// NewContentService constructs the service.
func NewContentService(content repository.ContentRepository, dispatcher events.Dispatcher) *ContentService {
	return &ContentService{content: content, dispatcher: dispatcher}
}

// Create stores a post authored by authorID.
func (s *ContentService) Create(ctx context.Context, authorID string, input ContentCreateInput) (*domain.ContentItem, error) {
	item := &domain.ContentItem{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(input.Title),
		Body:     strings.TrimSpace(input.Body),
		Tribe:    trimmedOrNil(input.Tribe),
		Language: trimmedOrNil(input.Language),
		AuthorID: authorID,
	}
	if item.Title == "" || item.Body == "" {
		return nil, apperrors.NewValidationError("title and body required", nil)
	}

	if err := s.content.Create(ctx, item); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventContentPublished,
			AccountID: authorID,
			Timestamp: time.Now().UTC(),
			Payload: events.ContentPublishedPayload{
				ContentID: item.ID,
				Title:     item.Title,
				Tribe:     item.Tribe,
				Language:  item.Language,
			},
		})
	}
	return item, nil
}

// List returns the feed newest first.
func (s *ContentService) List(ctx context.Context, filter repository.ContentFilter) ([]domain.ContentItem, error) {
	filter.Tribe = trimmedOrNil(filter.Tribe)
	filter.Language = trimmedOrNil(filter.Language)
	if filter.AuthorID != nil {
		if _, err := uuid.Parse(*filter.AuthorID); err != nil {
			return nil, apperrors.NewValidationError("author_id must be a uuid", nil)
		}
	}
	items, err := s.content.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return items, nil
}

// Get returns a single post.
func (s *ContentService) Get(ctx context.Context, id string) (*domain.ContentItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("content", map[string]any{"id": id})
	}
	item, err := s.content.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("content", map[string]any{"id": id})
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return item, nil
}
