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

// FolderStore is the folder storage used by FolderHandler.
type FolderStore interface {
	GetFoldersByUser(ctx context.Context, userID uuid.UUID) ([]models.Folder, error)
	GetFolderByID(ctx context.Context, id, userID uuid.UUID) (*models.Folder, error)
	CreateFolder(ctx context.Context, folder *models.Folder) error
	UpdateFolder(ctx context.Context, folder *models.Folder) error
	DeleteFolder(ctx context.Context, id, userID uuid.UUID) error
}

// FolderHandler handles folder CRUD operations via JSON API.
type FolderHandler struct {
	store FolderStore
}

// NewFolderHandler creates a new API folder handler.
func NewFolderHandler(store FolderStore) *FolderHandler {
	return &FolderHandler{store: store}
}

type folderRequest struct {
	Name    string      `json:"name"`
	LinkIDs []uuid.UUID `json:"linkIds"`
}

func (r *folderRequest) parse(body []byte) (bool, string) {
	if err := json.Unmarshal(body, r); err != nil {
		return false, "invalid request body"
	}
	if valid, msg := validation.ValidateFolderName(r.Name); !valid {
		return false, msg
	}
	return true, ""
}

// List returns the user's folders.
func (h *FolderHandler) List(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folders, err := h.store.GetFoldersByUser(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch folders")
	}
	if folders == nil {
		folders = []models.Folder{}
	}

	return jsonSuccess(c, folders)
}

// Get returns a single folder by ID.
func (h *FolderHandler) Get(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid folder id")
	}

	folder, err := h.store.GetFolderByID(c.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, db.ErrFolderNotFound) {
			return jsonError(c, fiber.StatusNotFound, "folder not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch folder")
	}

	return jsonSuccess(c, folder)
}

// Create creates a folder. Link ids the user doesn't own are ignored.
func (h *FolderHandler) Create(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body folderRequest
	if valid, msg := body.parse(c.Body()); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	folder := &models.Folder{UserID: user.ID, Name: body.Name, LinkIDs: body.LinkIDs}
	if err := h.store.CreateFolder(c.Context(), folder); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create folder")
	}

	return jsonSuccess(c, folder)
}

// Update renames a folder and replaces its links.
func (h *FolderHandler) Update(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid folder id")
	}

	var body folderRequest
	if valid, msg := body.parse(c.Body()); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	folder := &models.Folder{ID: id, UserID: user.ID, Name: body.Name, LinkIDs: body.LinkIDs}
	if err := h.store.UpdateFolder(c.Context(), folder); err != nil {
		if errors.Is(err, db.ErrFolderNotFound) {
			return jsonError(c, fiber.StatusNotFound, "folder not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update folder")
	}

	return jsonSuccess(c, folder)
}

// Delete deletes a folder but keeps its links.
func (h *FolderHandler) Delete(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid folder id")
	}

	if err := h.store.DeleteFolder(c.Context(), id, user.ID); err != nil {
		if errors.Is(err, db.ErrFolderNotFound) {
			return jsonError(c, fiber.StatusNotFound, "folder not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete folder")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "folder deleted",
	})
}
