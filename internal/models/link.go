package models

import (
	"time"

	"github.com/google/uuid"
)

// Link is a saved bookmark owned by a single user.
type Link struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasTag reports whether the link carries the given tag.
func (l *Link) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// LinkFilter narrows a user's link listing. Zero values match everything.
type LinkFilter struct {
	Query    string     // substring match on title, url and description
	Category string
	Tag      string
	FolderID *uuid.UUID
}

// LabelCount is how many links carry one category or tag.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LinkStats summarizes how a user's links are categorized and tagged.
// Categories and Tags are ordered by count, most used first.
type LinkStats struct {
	Total         int          `json:"total"`
	Uncategorized int          `json:"uncategorized"`
	Categories    []LabelCount `json:"categories"`
	Tags          []LabelCount `json:"tags"`
}
