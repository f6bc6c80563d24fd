package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/afriroots/afriroots-api/internal/domain"
)

// MemoryAccountRepository keeps accounts in process memory. Uniqueness checks and
// inserts happen under one lock.
type MemoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Account
	byEmail map[string]string
	byPhone map[string]string
}

var _ AccountRepository = (*MemoryAccountRepository)(nil)

// NewMemoryAccountRepository returns an empty in-memory store.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:    make(map[string]domain.Account),
		byEmail: make(map[string]string),
		byPhone: make(map[string]string),
	}
}

func (r *MemoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return ErrDuplicateEmail
	}
	if account.Phone != nil {
		if _, exists := r.byPhone[*account.Phone]; exists {
			return ErrDuplicatePhone
		}
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	r.byID[account.ID] = *account
	r.byEmail[account.Email] = account.ID
	if account.Phone != nil {
		r.byPhone[*account.Phone] = account.ID
	}
	return nil
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r *MemoryAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	account := r.byID[id]
	return &account, nil
}

func (r *MemoryAccountRepository) Ping(context.Context) error {
	return nil
}

// Count returns the number of stored accounts.
func (r *MemoryAccountRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// MemoryContentRepository keeps content items in process memory.
type MemoryContentRepository struct {
	mu    sync.RWMutex
	items []domain.ContentItem
}

var _ ContentRepository = (*MemoryContentRepository)(nil)

// NewMemoryContentRepository returns an empty in-memory feed.
func NewMemoryContentRepository() *MemoryContentRepository {
	return &MemoryContentRepository{}
}

func (r *MemoryContentRepository) Create(_ context.Context, item *domain.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.items = append(r.items, *item)
	return nil
}

func (r *MemoryContentRepository) GetByID(_ context.Context, id string) (*domain.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryContentRepository) List(_ context.Context, filter ContentFilter) ([]domain.ContentItem, error) {
	filter = filter.Normalize()

	r.mu.RLock()
	matched := make([]domain.ContentItem, 0, len(r.items))
	for _, item := range r.items {
		if !matchesTag(filter.Tribe, item.Tribe) || !matchesTag(filter.Language, item.Language) {
			continue
		}
		if filter.AuthorID != nil && *filter.AuthorID != item.AuthorID {
			continue
		}
		matched = append(matched, item)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []domain.ContentItem{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}

func matchesTag(want, got *string) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}
