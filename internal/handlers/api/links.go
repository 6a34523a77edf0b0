package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"saveit/internal/db"
	"saveit/internal/models"
	"saveit/internal/validation"
)

// LinkStore is the link storage used by LinkHandler.
type LinkStore interface {
	SearchLinks(ctx context.Context, userID uuid.UUID, filter models.LinkFilter) ([]models.Link, error)
	GetLinkByID(ctx context.Context, id, userID uuid.UUID) (*models.Link, error)
	CreateLink(ctx context.Context, link *models.Link) error
	UpdateLink(ctx context.Context, link *models.Link) error
	DeleteLink(ctx context.Context, id, userID uuid.UUID) error
	LinkStats(ctx context.Context, userID uuid.UUID) (*models.LinkStats, error)
}

// LinkHandler handles link CRUD operations via JSON API.
type LinkHandler struct {
	store LinkStore
}

// NewLinkHandler creates a new API link handler.
func NewLinkHandler(store LinkStore) *LinkHandler {
	return &LinkHandler{store: store}
}

type linkRequest struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// apply validates the request and copies it onto link.
func (r *linkRequest) apply(link *models.Link) (bool, string) {
	if r.URL == "" {
		return false, "url is required"
	}
	if valid, msg := validation.ValidateURL(r.URL); !valid {
		return false, msg
	}
	if valid, msg := validation.ValidateTitle(r.Title); !valid {
		return false, msg
	}
	tags := validation.NormalizeTags(r.Tags)
	if valid, msg := validation.ValidateTags(tags); !valid {
		return false, msg
	}

	link.URL = r.URL
	link.Title = r.Title
	link.Description = r.Description
	link.Category = validation.NormalizeCategory(r.Category)
	link.Tags = tags
	return true, ""
}

// List returns the user's links, filtered by q, category, tag and folder.
func (h *LinkHandler) List(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	filter := models.LinkFilter{
		Query:    c.Query("q"),
		Category: validation.NormalizeCategory(c.Query("category")),
		Tag:      validation.NormalizeTag(c.Query("tag")),
	}
	if raw := c.Query("folder"); raw != "" {
		folderID, err := uuid.Parse(raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid folder id")
		}
		filter.FolderID = &folderID
	}

	links, err := h.store.SearchLinks(c.Context(), user.ID, filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch links")
	}
	if links == nil {
		links = []models.Link{}
	}

	return jsonSuccess(c, links)
}

// Stats returns how the user's links are spread over categories and tags.
func (h *LinkHandler) Stats(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := h.store.LinkStats(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link stats")
	}

	return jsonSuccess(c, stats)
}

// Create creates a new link.
func (h *LinkHandler) Create(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body linkRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	link := &models.Link{UserID: user.ID}
	if valid, msg := body.apply(link); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	if err := h.store.CreateLink(c.Context(), link); err != nil {
		if errors.Is(err, db.ErrDuplicateURL) {
			return jsonError(c, fiber.StatusConflict, "you already saved this url")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create link")
	}

	return jsonSuccess(c, link)
}

// Update replaces a link's editable fields.
func (h *LinkHandler) Update(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	link, err := h.store.GetLinkByID(c.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link")
	}

	var body linkRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.apply(link); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	if err := h.store.UpdateLink(c.Context(), link); err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicateURL):
			return jsonError(c, fiber.StatusConflict, "you already saved this url")
		case errors.Is(err, db.ErrLinkNotFound):
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update link")
	}

	return jsonSuccess(c, link)
}

// Delete deletes a link.
func (h *LinkHandler) Delete(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	if err := h.store.DeleteLink(c.Context(), id, user.ID); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete link")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "link deleted",
	})
}
