package sharing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"saveit/internal/models"
)

// ErrNothingShared means none of the shared ids exist anymore.
var ErrNothingShared = errors.New("nothing found for shared ids")

// Store loads shared items by id regardless of owner.
type Store interface {
	GetFoldersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Folder, error)
	GetLinksByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Link, error)
}

// Resolver turns the ids of a share link into a SharedPayload.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve loads the shared folders and links. Payload links are the
// explicitly shared links followed by folder members not already listed,
// each at most once. Ids that no longer exist are ignored.
func (r *Resolver) Resolve(ctx context.Context, folderIDs, linkIDs []uuid.UUID) (*models.SharedPayload, error) {
	payload := &models.SharedPayload{
		Links:   []models.Link{},
		Folders: []models.Folder{},
	}

	if len(folderIDs) > 0 {
		folders, err := r.store.GetFoldersByIDs(ctx, folderIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load shared folders: %w", err)
		}
		payload.Folders = append(payload.Folders, folders...)
	}

	seen := make(map[uuid.UUID]struct{})
	if len(linkIDs) > 0 {
		links, err := r.store.GetLinksByIDs(ctx, linkIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load shared links: %w", err)
		}
		for _, l := range links {
			if _, dup := seen[l.ID]; dup {
				continue
			}
			seen[l.ID] = struct{}{}
			payload.Links = append(payload.Links, l)
		}
	}

	var memberIDs []uuid.UUID
	for _, f := range payload.Folders {
		for _, id := range f.LinkIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			memberIDs = append(memberIDs, id)
		}
	}
	if len(memberIDs) > 0 {
		members, err := r.store.GetLinksByIDs(ctx, memberIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load folder links: %w", err)
		}
		payload.Links = append(payload.Links, members...)
	}

	if payload.IsEmpty() {
		return nil, ErrNothingShared
	}
	return payload, nil
}
