package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/afriroots/afriroots-api/internal/auth"
	"github.com/afriroots/afriroots-api/internal/config"
	"github.com/afriroots/afriroots-api/internal/domain"
	"github.com/afriroots/afriroots-api/internal/events"
	"github.com/afriroots/afriroots-api/internal/repository"
	apperrors "github.com/afriroots/afriroots-api/pkg/util"
)

// Business errors surfaced verbatim to callers.
var (
	ErrDuplicateAccount   = apperrors.NewDomainError("DUPLICATE_ACCOUNT", "User already exists", http.StatusBadRequest, nil)
	ErrInvalidCredentials = apperrors.NewDomainError("INVALID_CREDENTIALS", "Invalid Credentials", http.StatusBadRequest, nil)
)

// bcryptMaxPasswordBytes is the input limit of bcrypt.
const bcryptMaxPasswordBytes = 72

// dummyPassword feeds the timing-equalizing verification for unknown emails.
const dummyPassword = "afriroots-timing-guard"

// RegisterInput carries registration fields as supplied by the client.
type RegisterInput struct {
	Email    string
	Phone    *string
	Password string
	Role     string
	Tribe    *string
	Language *string
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts    repository.AccountRepository
	hasher      auth.PasswordHasher
	tokenMgr    *auth.TokenManager
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	minPassword int
	maxPassword int
	dummyDigest string
}

// AuthDependencies encapsulates collaborators for the auth service. Hasher and
// Tokens are built from config when nil.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Hasher      auth.PasswordHasher
	Tokens      *auth.TokenManager
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	hasher := deps.Hasher
	if hasher == nil {
		var err error
		hasher, err = auth.NewPasswordHasher(cfg.PasswordAlgo, cfg.BcryptCost, auth.Argon2Params{
			MemoryKiB:   cfg.Argon2MemoryKiB,
			Time:        cfg.Argon2Time,
			Parallelism: cfg.Argon2Parallelism,
		})
		if err != nil {
			return nil, err
		}
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL())
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxPassword := 0
	if cfg.PasswordAlgo == auth.AlgoBcrypt || cfg.PasswordAlgo == "" {
		maxPassword = bcryptMaxPasswordBytes
	}

	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}

	return &AuthService{
		accounts:    deps.AccountRepo,
		hasher:      hasher,
		tokenMgr:    tokens,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		minPassword: cfg.MinPasswordLength,
		maxPassword: maxPassword,
		dummyDigest: dummy,
	}, nil
}

// Register creates a new account and returns a session token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Account, domain.SessionToken, error) {
	account, err := s.newAccount(in)
	if err != nil {
		return nil, domain.SessionToken{}, err
	}

	if _, err := s.accounts.GetByEmail(ctx, account.Email); err == nil {
		return nil, domain.SessionToken{}, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.SessionToken{}, apperrors.NewPersistenceError(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.SessionToken{}, apperrors.NewInternalError(fmt.Errorf("hash password: %w", err))
	}
	account.PasswordHash = hash

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, domain.SessionToken{}, ErrDuplicateAccount
		}
		return nil, domain.SessionToken{}, apperrors.NewPersistenceError(err)
	}

	token, err := s.issue(account.ID)
	if err != nil {
		return nil, domain.SessionToken{}, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountRegistered,
		AccountID: account.ID,
		Payload: events.AccountRegisteredPayload{
			Role:     account.Role,
			Tribe:    account.Tribe,
			Language: account.Language,
		},
	})
	s.logger.Info("account registered", zap.String("account_id", account.ID), zap.String("role", string(account.Role)))
	return account, token, nil
}

// Login authenticates an account by email and password. Unknown email and wrong
// password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, domain.SessionToken, error) {
	account, err := s.accounts.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return nil, domain.SessionToken{}, ErrInvalidCredentials
		}
		return nil, domain.SessionToken{}, apperrors.NewPersistenceError(err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, domain.SessionToken{}, ErrInvalidCredentials
	}

	token, err := s.issue(account.ID)
	if err != nil {
		return nil, domain.SessionToken{}, err
	}
	return account, token, nil
}

// GetAccount loads an account by id.
func (s *AuthService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("account", nil)
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return account, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) newAccount(in RegisterInput) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	if err := apperrors.ValidateVar("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := apperrors.ValidateVar("password", in.Password, fmt.Sprintf("required,min=%d", s.minPassword)); err != nil {
		return nil, err
	}
	if s.maxPassword > 0 && len(in.Password) > s.maxPassword {
		msg := fmt.Sprintf("must be no longer than %d bytes", s.maxPassword)
		return nil, apperrors.NewValidationError("password "+msg, map[string]any{"password": msg})
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, apperrors.NewValidationError("role must be one of visitor, creator, community-member",
			map[string]any{"role": err.Error()})
	}

	return &domain.Account{
		ID:       uuid.NewString(),
		Email:    email,
		Phone:    trimmedOrNil(in.Phone),
		Role:     role,
		Tribe:    trimmedOrNil(in.Tribe),
		Language: trimmedOrNil(in.Language),
	}, nil
}

func (s *AuthService) issue(accountID string) (domain.SessionToken, error) {
	token, exp, err := s.tokenMgr.Issue(accountID)
	if err != nil {
		return domain.SessionToken{}, apperrors.NewInternalError(fmt.Errorf("sign token: %w", err))
	}
	return domain.SessionToken{Token: token, AccountID: accountID, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
