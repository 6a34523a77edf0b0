package models

import "github.com/google/uuid"

// SharedPayload is a read-only view of another user's folders and links,
// assembled per request from the ids in a share URL.
type SharedPayload struct {
	Links   []Link   `json:"links"`
	Folders []Folder `json:"folders"`
}

// IsEmpty reports whether the payload carries nothing to import.
func (p *SharedPayload) IsEmpty() bool {
	return len(p.Links) == 0 && len(p.Folders) == 0
}

// LinkByID returns the payload link with the given id, if present.
func (p *SharedPayload) LinkByID(id uuid.UUID) (*Link, bool) {
	for i := range p.Links {
		if p.Links[i].ID == id {
			return &p.Links[i], true
		}
	}
	return nil, false
}
