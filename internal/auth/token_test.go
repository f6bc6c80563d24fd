package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTokenManager_IssueVerify(t *testing.T) {
	clock := newClock()
	tm := NewTokenManager("super-secret", time.Hour).WithClock(clock.Now)

	tok, exp, err := tm.Issue("acc-123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, clock.Now().Add(time.Hour), exp)

	id, err := tm.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "acc-123", id)
}

func TestTokenManager_ExpiresAfterLifetime(t *testing.T) {
	clock := newClock()
	tm := NewTokenManager("super-secret", time.Hour).WithClock(clock.Now)

	tok, _, err := tm.Issue("acc-123")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = tm.Verify(tok)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = tm.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tok, _, err := NewTokenManager("right-secret", time.Hour).Issue("u2")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Malformed(t *testing.T) {
	tm := NewTokenManager("k", time.Hour)
	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		_, err := tm.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "acc-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RequiresSubjectAndExpiry(t *testing.T) {
	secret := []byte("k")
	tm := NewTokenManager("k", time.Hour)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = tm.Verify(noSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "acc-1",
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = tm.Verify(noExpiry)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	assert.Equal(t, time.Hour, NewTokenManager("k", 0).TTL())
}

func TestTokenManager_ExpiryMatchesClaim(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 999_000_000, time.UTC)}
	tm := NewTokenManager("super-secret", time.Hour).WithClock(clock.Now)

	tok, exp, err := tm.Issue("acc-123")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC), exp)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Time.Equal(exp))
}
