package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"saveit/internal/db"
	"saveit/internal/models"
)

// LinkStore is the link storage the importer needs.
type LinkStore interface {
	GetLinksByUser(ctx context.Context, userID uuid.UUID) ([]models.Link, error)
	GetLinkByURL(ctx context.Context, userID uuid.UUID, url string) (*models.Link, error)
	CreateLink(ctx context.Context, link *models.Link) error
}

// FolderStore is the folder storage the importer needs.
type FolderStore interface {
	GetFoldersByUser(ctx context.Context, userID uuid.UUID) ([]models.Folder, error)
	CreateFolder(ctx context.Context, folder *models.Folder) error
}

// UserStore resolves destination owners.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Result summarizes one import.
type Result struct {
	SavedLinkCount        int
	SavedFolderCount      int
	SkippedDuplicateCount int
	SkippedFolderCount    int
	Errors                []*ItemError
}

func (r *Result) addError(kind ItemKind, foreignID uuid.UUID, err error) {
	r.Errors = append(r.Errors, &ItemError{Kind: kind, ForeignID: foreignID, Err: err})
}

// Response converts the result to its API form.
func (r *Result) Response() models.SaveSharedResponse {
	resp := models.SaveSharedResponse{
		SavedFolders:          r.SavedFolderCount,
		SavedLinks:            r.SavedLinkCount,
		SkippedDuplicateCount: r.SkippedDuplicateCount,
		SkippedFolderCount:    r.SkippedFolderCount,
		Errors:                make([]models.ImportItemError, 0, len(r.Errors)),
	}
	for _, e := range r.Errors {
		resp.Errors = append(resp.Errors, models.ImportItemError{
			Kind:    string(e.Kind),
			ID:      e.ForeignID,
			Message: e.PublicMessage(),
		})
	}
	return resp
}

// Importer merges shared payloads into a destination owner's collection.
// It holds no per-import state and is safe for concurrent use.
type Importer struct {
	links   LinkStore
	folders FolderStore
	users   UserStore
	now     func() time.Time
	newID   func() uuid.UUID
	logger  *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithClock sets the time source used for createdAt on copied links.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

// WithIDGenerator sets how fresh link and folder ids are made.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(im *Importer) { im.newID = newID }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) { im.logger = logger }
}

// New creates an Importer.
func New(links LinkStore, folders FolderStore, users UserStore, opts ...Option) *Importer {
	im := &Importer{
		links:   links,
		folders: folders,
		users:   users,
		now:     time.Now,
		newID:   uuid.New,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import copies the payload into destinationUserID's collection.
//
// Links whose normalized url the owner already has are reused rather than
// copied. Folders are rebuilt from the local ids of their member links;
// folders with no resolvable members are not created, and folders the owner
// already has with the same name and members are skipped. Per-item failures
// are collected on the Result. If ctx is cancelled the partial Result is
// returned together with ctx.Err().
func (im *Importer) Import(ctx context.Context, payload models.SharedPayload, destinationUserID uuid.UUID) (*Result, error) {
	if payload.IsEmpty() {
		return nil, ErrInvalidPayload
	}
	if destinationUserID == uuid.Nil {
		return nil, ErrUnknownOwner
	}
	if _, err := im.users.GetUserByID(ctx, destinationUserID); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOwner, destinationUserID)
		}
		return nil, fmt.Errorf("failed to look up destination owner: %w", err)
	}

	existingLinks, err := im.links.GetLinksByUser(ctx, destinationUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load destination links: %w", err)
	}
	existingFolders, err := im.folders.GetFoldersByUser(ctx, destinationUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load destination folders: %w", err)
	}

	dedup := NewDeduplicator(existingLinks)
	remap := NewIdentityRemapper()
	result := &Result{}

	for _, candidate := range payload.Links {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if candidate.ID != uuid.Nil {
			if _, seen := remap.Resolve(candidate.ID); seen {
				continue
			}
		}

		localID, reused, err := im.importLink(ctx, destinationUserID, candidate, dedup)
		if err != nil {
			im.logger.Warn("shared link not imported",
				"user_id", destinationUserID, "link_id", candidate.ID, "error", err)
			result.addError(KindLink, candidate.ID, err)
			continue
		}
		if candidate.ID != uuid.Nil {
			if err := remap.Record(candidate.ID, localID); err != nil {
				return result, err
			}
		}
		if reused {
			result.SkippedDuplicateCount++
		} else {
			result.SavedLinkCount++
		}
	}

	for _, src := range payload.Folders {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		linkIDs := remap.Translate(src.LinkIDs)
		if len(linkIDs) == 0 {
			im.logger.Debug("shared folder has no resolvable links",
				"user_id", destinationUserID, "folder_id", src.ID)
			continue
		}
		if hasFolder(existingFolders, src.Name, linkIDs) {
			result.SkippedFolderCount++
			continue
		}

		folder := &models.Folder{
			ID:      im.newID(),
			UserID:  destinationUserID,
			Name:    src.Name,
			LinkIDs: linkIDs,
		}
		if err := im.folders.CreateFolder(ctx, folder); err != nil {
			im.logger.Warn("shared folder not imported",
				"user_id", destinationUserID, "folder_id", src.ID, "error", err)
			result.addError(KindFolder, src.ID, err)
			continue
		}
		existingFolders = append(existingFolders, *folder)
		result.SavedFolderCount++
	}

	im.logger.Info("shared collection imported",
		"user_id", destinationUserID,
		"saved_links", result.SavedLinkCount,
		"saved_folders", result.SavedFolderCount,
		"skipped_links", result.SkippedDuplicateCount,
		"skipped_folders", result.SkippedFolderCount,
		"errors", len(result.Errors),
	)
	return result, nil
}

// importLink returns the local id for candidate, creating a copy when the
// owner does not have it yet. reused reports whether an existing link was used.
func (im *Importer) importLink(ctx context.Context, ownerID uuid.UUID, candidate models.Link, dedup *Deduplicator) (localID uuid.UUID, reused bool, err error) {
	if strings.TrimSpace(candidate.URL) == "" {
		return uuid.Nil, false, ErrEmptyURL
	}

	if res := dedup.Resolve(candidate); res.Action == ActionReuse {
		return res.ExistingID, true, nil
	}

	link := &models.Link{
		ID:          im.newID(),
		UserID:      ownerID,
		URL:         candidate.URL,
		Title:       candidate.Title,
		Description: candidate.Description,
		Category:    candidate.Category,
		Tags:        append([]string(nil), candidate.Tags...),
		CreatedAt:   im.now(),
	}
	if err := im.links.CreateLink(ctx, link); err != nil {
		if !errors.Is(err, db.ErrDuplicateURL) {
			return uuid.Nil, false, err
		}
		// Another import created it after our snapshot was taken.
		existing, lookupErr := im.links.GetLinkByURL(ctx, ownerID, candidate.URL)
		if lookupErr != nil {
			return uuid.Nil, false, fmt.Errorf("%w: %w", err, lookupErr)
		}
		dedup.Add(*existing)
		return existing.ID, true, nil
	}

	dedup.Add(*link)
	return link.ID, false, nil
}

func hasFolder(folders []models.Folder, name string, linkIDs []uuid.UUID) bool {
	for i := range folders {
		if folders[i].Name == name && folders[i].SameMembers(linkIDs) {
			return true
		}
	}
	return false
}
