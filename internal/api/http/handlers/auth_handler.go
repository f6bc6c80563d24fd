package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/afriroots/afriroots-api/internal/api/dto"
	"github.com/afriroots/afriroots-api/internal/auth"
	"github.com/afriroots/afriroots-api/internal/domain"
	"github.com/afriroots/afriroots-api/internal/service"
	apperrors "github.com/afriroots/afriroots-api/pkg/util"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := apperrors.ValidateStruct(&req); err != nil {
		return err
	}

	_, token, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
		Tribe:    req.Tribe,
		Language: req.Language,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token.Token, ExpiresAt: token.ExpiresAt})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := apperrors.ValidateStruct(&req); err != nil {
		return err
	}

	_, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token.Token, ExpiresAt: token.ExpiresAt})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("account required")
	}
	return c.JSON(accountResponse(principal.Account))
}

func accountResponse(a *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      string(a.Role),
		Tribe:     a.Tribe,
		Language:  a.Language,
		CreatedAt: a.CreatedAt,
	}
}
