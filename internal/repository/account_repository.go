package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/afriroots/afriroots-api/internal/domain"
)

// Constraint names from the accounts migration.
const (
	accountsEmailConstraint = "accounts_email_unique"
	accountsPhoneConstraint = "accounts_phone_unique"
)

// AccountRepository defines persistence access for accounts. Create must reject a
// duplicate email or phone atomically.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Ping(ctx context.Context) error
}

type accountRepository struct {
	db DBTX
}

var _ AccountRepository = (*accountRepository)(nil)

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id, email, phone, password_hash, role, tribe, language)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		account.ID,
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.Role,
		account.Tribe,
		account.Language,
	).Scan(&account.CreatedAt)
	if err != nil {
		return mapAccountWriteError(err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, email, phone, password_hash, role, tribe, language, created_at
        FROM accounts WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, email, phone, password_hash, role, tribe, language, created_at
        FROM accounts WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *accountRepository) Ping(ctx context.Context) error {
	_, err := r.db.Exec(ctx, "SELECT 1")
	return err
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.Phone,
		&account.PasswordHash,
		&account.Role,
		&account.Tribe,
		&account.Language,
		&account.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &account, nil
}

func mapAccountWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if pgErr.ConstraintName == accountsPhoneConstraint {
			return ErrDuplicatePhone
		}
		return ErrDuplicateEmail
	}
	return fmt.Errorf("insert account: %w", err)
}
