package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"saveit/internal/config"
	"saveit/internal/email"
	"saveit/internal/importer"
	"saveit/internal/metrics"
	"saveit/internal/models"
	"saveit/internal/sharing"
)

// PayloadResolver loads a shared collection by id.
type PayloadResolver interface {
	Resolve(ctx context.Context, folderIDs, linkIDs []uuid.UUID) (*models.SharedPayload, error)
}

// CollectionImporter merges a shared collection into a user's own.
type CollectionImporter interface {
	Import(ctx context.Context, payload models.SharedPayload, destinationUserID uuid.UUID) (*importer.Result, error)
}

// ShareMailer emails shared collections.
type ShareMailer interface {
	IsEnabled() bool
	NotifyCollectionShared(ctx context.Context, recipients []string, sender *models.User, payload *models.SharedPayload, shareURL string) error
}

// GroupLookup expands recipient groups owned by the sender.
type GroupLookup interface {
	GetGroupsByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.RecipientGroup, error)
}

// SharedHandler serves shared collections and creates share links.
type SharedHandler struct {
	resolver  PayloadResolver
	importer  CollectionImporter
	platforms *sharing.Platforms
	mailer    ShareMailer
	groups    GroupLookup
	cfg       *config.Config
}

// NewSharedHandler creates a new shared collection handler.
func NewSharedHandler(cfg *config.Config, resolver PayloadResolver, imp CollectionImporter, platforms *sharing.Platforms, mailer ShareMailer, groups GroupLookup) *SharedHandler {
	return &SharedHandler{
		resolver:  resolver,
		importer:  imp,
		platforms: platforms,
		mailer:    mailer,
		groups:    groups,
		cfg:       cfg,
	}
}

// shareRequest names the items being shared or saved.
type shareRequest struct {
	FolderIDs  []uuid.UUID `json:"folderIds"`
	LinkIDs    []uuid.UUID `json:"linkIds"`
	Text       string      `json:"text,omitempty"`
	Recipients []string    `json:"recipients,omitempty"`
	GroupIDs   []uuid.UUID `json:"groupIds,omitempty"`
}

func (r *shareRequest) parse(body []byte) (bool, string) {
	if err := json.Unmarshal(body, r); err != nil {
		return false, "invalid request body"
	}
	r.FolderIDs = uniqueIDs(r.FolderIDs)
	r.LinkIDs = uniqueIDs(r.LinkIDs)
	r.GroupIDs = uniqueIDs(r.GroupIDs)
	if len(r.FolderIDs) == 0 && len(r.LinkIDs) == 0 {
		return false, "folderIds or linkIds is required"
	}
	if len(r.FolderIDs) > sharing.MaxSharedIDs || len(r.LinkIDs) > sharing.MaxSharedIDs {
		return false, fmt.Sprintf("at most %d ids may be shared at once", sharing.MaxSharedIDs)
	}
	return true, ""
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolve loads the payload. On failure it returns the status and message
// to answer with.
func (h *SharedHandler) resolve(ctx context.Context, folderIDs, linkIDs []uuid.UUID) (*models.SharedPayload, int, string) {
	payload, err := h.resolver.Resolve(ctx, folderIDs, linkIDs)
	if err != nil {
		if errors.Is(err, sharing.ErrNothingShared) {
			return nil, fiber.StatusNotFound, "shared items not found"
		}
		slog.Error("failed to resolve shared collection", "error", err)
		return nil, fiber.StatusInternalServerError, "failed to load shared items"
	}
	return payload, fiber.StatusOK, ""
}

// Get returns the collection named by the folders and links query params.
func (h *SharedHandler) Get(c fiber.Ctx) error {
	folderIDs, err := sharing.ParseIDs(c.Query("folders"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid folders parameter: "+err.Error())
	}
	linkIDs, err := sharing.ParseIDs(c.Query("links"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid links parameter: "+err.Error())
	}
	if len(folderIDs) == 0 && len(linkIDs) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "folders or links is required")
	}

	payload, status, msg := h.resolve(c.Context(), folderIDs, linkIDs)
	if payload == nil {
		return jsonError(c, status, msg)
	}

	return jsonSuccess(c, payload)
}

// Save imports a shared collection into the signed-in user's collection.
// The response body is the bare import summary, not the envelope.
func (h *SharedHandler) Save(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body shareRequest
	if valid, msg := body.parse(c.Body()); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	payload, status, msg := h.resolve(c.Context(), body.FolderIDs, body.LinkIDs)
	if payload == nil {
		return jsonError(c, status, msg)
	}

	res, err := h.importer.Import(c.Context(), *payload, user.ID)
	metrics.RecordImport(res)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrInvalidPayload):
			return jsonError(c, fiber.StatusBadRequest, "nothing to save")
		case errors.Is(err, importer.ErrUnknownOwner):
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		slog.Error("failed to save shared collection", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to save shared items")
	}

	return c.JSON(res.Response())
}

// defaultShareText describes a payload for social posts.
func defaultShareText(payload *models.SharedPayload) string {
	if len(payload.Folders) > 0 {
		names := make([]string, len(payload.Folders))
		for i, f := range payload.Folders {
			names[i] = f.Name
		}
		return "Check out these folders: " + strings.Join(names, ", ")
	}
	if len(payload.Links) == 1 && payload.Links[0].Title != "" {
		return "Check out this link: " + payload.Links[0].Title
	}
	return "Check out these links"
}

// ShareLink builds a share URL and the social intents for it.
func (h *SharedHandler) ShareLink(c fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body shareRequest
	if valid, msg := body.parse(c.Body()); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	payload, status, msg := h.resolve(c.Context(), body.FolderIDs, body.LinkIDs)
	if payload == nil {
		return jsonError(c, status, msg)
	}

	text := strings.TrimSpace(body.Text)
	if text == "" {
		text = defaultShareText(payload)
	}

	shareURL := sharing.BuildURL(h.cfg.BaseURL, body.FolderIDs, body.LinkIDs)
	return jsonSuccess(c, models.ShareLinkResponse{
		URL:       shareURL,
		Platforms: h.platforms.All(shareURL, text),
	})
}

// recipients merges the explicit addresses with the members of the sender's
// groups. On failure it returns the status and message to answer with.
func (h *SharedHandler) recipients(ctx context.Context, sender *models.User, body *shareRequest) ([]string, int, string) {
	raw := append([]string(nil), body.Recipients...)
	if len(body.GroupIDs) > 0 {
		groups, err := h.groups.GetGroupsByIDs(ctx, sender.ID, body.GroupIDs)
		if err != nil {
			slog.Error("failed to load recipient groups", "user_id", sender.ID, "error", err)
			return nil, fiber.StatusInternalServerError, "failed to load recipient groups"
		}
		if len(groups) != len(body.GroupIDs) {
			return nil, fiber.StatusNotFound, "recipient group not found"
		}
		for _, g := range groups {
			raw = append(raw, g.Emails...)
		}
	}

	rcpts, err := email.ParseRecipients(raw)
	if err != nil {
		return nil, fiber.StatusBadRequest, err.Error()
	}
	return rcpts, fiber.StatusOK, ""
}

// ShareEmail emails a share link to the given recipients and the members
// of the given recipient groups.
func (h *SharedHandler) ShareEmail(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if !h.mailer.IsEnabled() {
		return jsonError(c, fiber.StatusServiceUnavailable, "email sharing is not configured")
	}

	var body shareRequest
	if valid, msg := body.parse(c.Body()); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	recipients, status, msg := h.recipients(c.Context(), user, &body)
	if recipients == nil {
		return jsonError(c, status, msg)
	}

	payload, status, msg := h.resolve(c.Context(), body.FolderIDs, body.LinkIDs)
	if payload == nil {
		return jsonError(c, status, msg)
	}

	shareURL := sharing.BuildURL(h.cfg.BaseURL, body.FolderIDs, body.LinkIDs)
	if err := h.mailer.NotifyCollectionShared(c.Context(), recipients, user, payload, shareURL); err != nil {
		slog.Error("failed to email shared collection", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusBadGateway, "failed to send email")
	}

	return jsonSuccess(c, fiber.Map{
		"url":  shareURL,
		"sent": len(recipients),
	})
}
