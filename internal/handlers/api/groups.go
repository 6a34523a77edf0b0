package api

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"saveit/internal/db"
	"saveit/internal/email"
	"saveit/internal/models"
	"saveit/internal/validation"
)

// GroupStore is the recipient group storage used by GroupHandler.
type GroupStore interface {
	GetGroupsByUser(ctx context.Context, userID uuid.UUID) ([]models.RecipientGroup, error)
	GetGroupByID(ctx context.Context, id, userID uuid.UUID) (*models.RecipientGroup, error)
	CreateGroup(ctx context.Context, group *models.RecipientGroup) error
	UpdateGroup(ctx context.Context, group *models.RecipientGroup) error
	DeleteGroup(ctx context.Context, id, userID uuid.UUID) error
}

// GroupHandler manages the named recipient lists used by email sharing.
type GroupHandler struct {
	store GroupStore
}

// NewGroupHandler creates a new API recipient group handler.
func NewGroupHandler(store GroupStore) *GroupHandler {
	return &GroupHandler{store: store}
}

type groupRequest struct {
	Name   string   `json:"name"`
	Emails []string `json:"emails"`
}

// parse validates the body; on success Name is trimmed and Emails parsed.
func (r *groupRequest) parse(body []byte) (bool, string) {
	if err := json.Unmarshal(body, r); err != nil {
		return false, "invalid request body"
	}
	if valid, msg := validation.ValidateGroupName(r.Name); !valid {
		return false, msg
	}
	r.Name = strings.TrimSpace(r.Name)

	emails, err := email.ParseRecipients(r.Emails)
	if err != nil {
		if errors.Is(err, email.ErrNoRecipients) {
			return false, "a group needs at least one email address"
		}
		return false, err.Error()
	}
	r.Emails = emails
	return true, ""
}

// List returns the user's recipient groups.
func (h *GroupHandler) List(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groups, err := h.store.GetGroupsByUser(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch groups")
	}
	if groups == nil {
		groups = []models.RecipientGroup{}
	}

	return jsonSuccess(c, groups)
}

// Get returns a single recipient group.
func (h *GroupHandler) Get(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid group id")
	}

	group, err := h.store.GetGroupByID(c.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, db.ErrGroupNotFound) {
			return jsonError(c, fiber.StatusNotFound, "group not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch group")
	}

	return jsonSuccess(c, group)
}

// Create creates a recipient group.
func (h *GroupHandler) Create(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body groupRequest
	if valid, msg := body.parse(c.Body()); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	group := &models.RecipientGroup{UserID: user.ID, Name: body.Name, Emails: body.Emails}
	if err := h.store.CreateGroup(c.Context(), group); err != nil {
		if errors.Is(err, db.ErrDuplicateGroupName) {
			return jsonError(c, fiber.StatusConflict, "you already have a group with this name")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create group")
	}

	return jsonSuccess(c, group)
}

// Update renames a group and replaces its addresses.
func (h *GroupHandler) Update(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid group id")
	}

	var body groupRequest
	if valid, msg := body.parse(c.Body()); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	group := &models.RecipientGroup{ID: id, UserID: user.ID, Name: body.Name, Emails: body.Emails}
	if err := h.store.UpdateGroup(c.Context(), group); err != nil {
		switch {
		case errors.Is(err, db.ErrGroupNotFound):
			return jsonError(c, fiber.StatusNotFound, "group not found")
		case errors.Is(err, db.ErrDuplicateGroupName):
			return jsonError(c, fiber.StatusConflict, "you already have a group with this name")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update group")
	}

	return jsonSuccess(c, group)
}

// Delete deletes a recipient group.
func (h *GroupHandler) Delete(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid group id")
	}

	if err := h.store.DeleteGroup(c.Context(), id, user.ID); err != nil {
		if errors.Is(err, db.ErrGroupNotFound) {
			return jsonError(c, fiber.StatusNotFound, "group not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete group")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "group deleted",
	})
}
