package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/afriroots/afriroots-api/internal/api/dto"
	"github.com/afriroots/afriroots-api/internal/auth"
	"github.com/afriroots/afriroots-api/internal/domain"
	"github.com/afriroots/afriroots-api/internal/repository"
	"github.com/afriroots/afriroots-api/internal/service"
	apperrors "github.com/afriroots/afriroots-api/pkg/util"
)

// ContentHandler manages feed endpoints.
type ContentHandler struct {
	service *service.ContentService
}

// NewContentHandler constructs handler.
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{service: contentService}
}

// Create POST /content.
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.CreateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := apperrors.ValidateStruct(&req); err != nil {
		return err
	}

	item, err := h.service.Create(c.UserContext(), principal.Account.ID, service.ContentCreateInput{
		Title:    req.Title,
		Body:     req.Body,
		Tribe:    req.Tribe,
		Language: req.Language,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": contentResponse(item)})
}

// List GET /content.
func (h *ContentHandler) List(c *fiber.Ctx) error {
	filter := repository.ContentFilter{
		Tribe:    optionalQuery(c, "tribe"),
		Language: optionalQuery(c, "language"),
		AuthorID: optionalQuery(c, "author_id"),
		Limit:    c.QueryInt("limit", 0),
		Offset:   c.QueryInt("offset", 0),
	}
	items, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	out := make([]dto.ContentResponse, 0, len(items))
	for i := range items {
		out = append(out, contentResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /content/:id.
func (h *ContentHandler) Get(c *fiber.Ctx) error {
	item, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contentResponse(item)})
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

func contentResponse(item *domain.ContentItem) dto.ContentResponse {
	return dto.ContentResponse{
		ID:        item.ID,
		Title:     item.Title,
		Body:      item.Body,
		Tribe:     item.Tribe,
		Language:  item.Language,
		AuthorID:  item.AuthorID,
		CreatedAt: item.CreatedAt,
	}
}
