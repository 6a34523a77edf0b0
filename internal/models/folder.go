package models

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a named, ordered collection of links owned by one user.
// LinkIDs keeps insertion order for display; membership is a set.
type Folder struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Name      string      `json:"name"`
	LinkIDs   []uuid.UUID `json:"link_ids"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Contains reports whether id is a member of the folder.
func (f *Folder) Contains(id uuid.UUID) bool {
	for _, linkID := range f.LinkIDs {
		if linkID == id {
			return true
		}
	}
	return false
}

// SameMembers reports whether the folder holds exactly the given set of links,
// ignoring order and repeats.
func (f *Folder) SameMembers(ids []uuid.UUID) bool {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	have := make(map[uuid.UUID]struct{}, len(f.LinkIDs))
	for _, id := range f.LinkIDs {
		if _, ok := want[id]; !ok {
			return false
		}
		have[id] = struct{}{}
	}
	return len(have) == len(want)
}
