package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/afriroots/afriroots-api/internal/domain"
)

const (
	defaultContentLimit = 20
	maxContentLimit     = 100
)

// ContentFilter narrows feed listings.
type ContentFilter struct {
	Tribe    *string
	Language *string
	AuthorID *string
	Limit    int
	Offset   int
}

// Normalize clamps paging values.
func (f ContentFilter) Normalize() ContentFilter {
	if f.Limit <= 0 {
		f.Limit = defaultContentLimit
	}
	if f.Limit > maxContentLimit {
		f.Limit = maxContentLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ContentRepository encapsulates content persistence.
type ContentRepository interface {
	Create(ctx context.Context, item *domain.ContentItem) error
	GetByID(ctx context.Context, id string) (*domain.ContentItem, error)
	List(ctx context.Context, filter ContentFilter) ([]domain.ContentItem, error)
}

type contentRepository struct {
	db DBTX
}

var _ ContentRepository = (*contentRepository)(nil)

// NewContentRepository instantiates the Postgres repository.
func NewContentRepository(db DBTX) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, item *domain.ContentItem) error {
	const query = `
        INSERT INTO content_items (id, title, body, tribe, language, author_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	if err := r.db.QueryRow(ctx, query,
		item.ID,
		item.Title,
		item.Body,
		item.Tribe,
		item.Language,
		item.AuthorID,
	).Scan(&item.CreatedAt); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	const query = `
        SELECT id, title, body, tribe, language, author_id, created_at
        FROM content_items WHERE id=$1`
	var item domain.ContentItem
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Title,
		&item.Body,
		&item.Tribe,
		&item.Language,
		&item.AuthorID,
		&item.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query content: %w", err)
	}
	return &item, nil
}

func (r *contentRepository) List(ctx context.Context, filter ContentFilter) ([]domain.ContentItem, error) {
	filter = filter.Normalize()
	query, args := buildContentListQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()
	return scanContentItems(rows)
}

func buildContentListQuery(filter ContentFilter) (string, []any) {
	base := `SELECT id, title, body, tribe, language, author_id, created_at
             FROM content_items`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Tribe != nil {
		args = append(args, *filter.Tribe)
		clauses = append(clauses, fmt.Sprintf("tribe=$%d", len(args)))
	}
	if filter.Language != nil {
		args = append(args, *filter.Language)
		clauses = append(clauses, fmt.Sprintf("language=$%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("author_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), filter.Limit, filter.Offset)
	return query, args
}

func scanContentItems(rows pgx.Rows) ([]domain.ContentItem, error) {
	result := []domain.ContentItem{}
	for rows.Next() {
		var item domain.ContentItem
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Body,
			&item.Tribe,
			&item.Language,
			&item.AuthorID,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
