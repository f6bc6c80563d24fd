package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afriroots/afriroots-api/internal/domain"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeDB struct {
	lastSQL  string
	lastArgs []any
	row      pgx.Row
	execErr  error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return pgconn.NewCommandTag("SELECT 1"), f.execErr
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastSQL, f.lastArgs = sql, args
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.lastArgs = sql, args
	return f.row
}

func errRow(err error) pgx.Row {
	return fakeRow{scan: func(...any) error { return err }}
}

func TestAccountRepository_CreateScansCreatedAt(t *testing.T) {
	created := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*time.Time)) = created
		return nil
	}}}
	repo := NewAccountRepository(db)

	acc := &domain.Account{ID: "id-1", Email: "a@x.com", PasswordHash: "h", Role: domain.RoleCreator}
	require.NoError(t, repo.Create(context.Background(), acc))

	assert.Equal(t, created, acc.CreatedAt)
	assert.Contains(t, db.lastSQL, "INSERT INTO accounts")
	assert.Equal(t, "a@x.com", db.lastArgs[1])
	assert.Equal(t, domain.RoleCreator, db.lastArgs[4])
}

func TestAccountRepository_CreateMapsUniqueViolations(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{accountsEmailConstraint, ErrDuplicateEmail},
		{accountsPhoneConstraint, ErrDuplicatePhone},
	}
	for _, tc := range cases {
		t.Run(tc.constraint, func(t *testing.T) {
			db := &fakeDB{row: errRow(&pgconn.PgError{Code: uniqueViolation, ConstraintName: tc.constraint})}
			err := NewAccountRepository(db).Create(context.Background(), &domain.Account{ID: "1", Email: "a@x.com"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAccountRepository_CreateWrapsOtherErrors(t *testing.T) {
	cause := errors.New("connection reset")
	db := &fakeDB{row: errRow(cause)}

	err := NewAccountRepository(db).Create(context.Background(), &domain.Account{ID: "1", Email: "a@x.com"})
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestAccountRepository_GetByEmailNotFound(t *testing.T) {
	db := &fakeDB{row: errRow(pgx.ErrNoRows)}

	_, err := NewAccountRepository(db).GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []any{"a@x.com"}, db.lastArgs)
}

func TestAccountRepository_Ping(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewAccountRepository(db).Ping(context.Background()))

	db.execErr = errors.New("down")
	assert.Error(t, NewAccountRepository(db).Ping(context.Background()))
}

func TestBuildContentListQuery(t *testing.T) {
	tribe, lang := "zulu", "zu"
	query, args := buildContentListQuery(ContentFilter{Tribe: &tribe, Language: &lang, Limit: 10, Offset: 20})

	assert.Contains(t, query, "tribe=$1")
	assert.Contains(t, query, "language=$2")
	assert.Contains(t, query, "ORDER BY created_at DESC LIMIT 10 OFFSET 20")
	assert.Equal(t, []any{"zulu", "zu"}, args)

	query, args = buildContentListQuery(ContentFilter{Limit: 5})
	assert.Contains(t, query, "WHERE 1=1 ORDER BY")
	assert.Empty(t, args)
}

func TestContentRepository_GetByIDNotFound(t *testing.T) {
	db := &fakeDB{row: errRow(pgx.ErrNoRows)}
	_, err := NewContentRepository(db).GetByID(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}
