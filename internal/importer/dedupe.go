package importer

import (
	"github.com/google/uuid"

	"saveit/internal/models"
	"saveit/internal/validation"
)

// Action says what to do with a candidate link.
type Action int

const (
	// ActionCreate means the owner has no link with this url yet.
	ActionCreate Action = iota
	// ActionReuse means the owner already has the link; see Resolution.ExistingID.
	ActionReuse
)

func (a Action) String() string {
	if a == ActionReuse {
		return "reuse"
	}
	return "create"
}

// Resolution is the outcome of deduplicating one candidate.
type Resolution struct {
	Action     Action
	ExistingID uuid.UUID // set when Action is ActionReuse
}

// Deduplicator matches candidate links against a snapshot of the
// destination owner's links, keyed by validation.NormalizeURL.
type Deduplicator struct {
	byURL map[string]uuid.UUID
}

// NewDeduplicator indexes the destination owner's current links.
// When two existing links share a key, the first one wins.
func NewDeduplicator(existing []models.Link) *Deduplicator {
	d := &Deduplicator{byURL: make(map[string]uuid.UUID, len(existing))}
	for _, link := range existing {
		d.Add(link)
	}
	return d
}

// Resolve decides whether candidate is already owned.
func (d *Deduplicator) Resolve(candidate models.Link) Resolution {
	if id, ok := d.byURL[validation.NormalizeURL(candidate.URL)]; ok {
		return Resolution{Action: ActionReuse, ExistingID: id}
	}
	return Resolution{Action: ActionCreate}
}

// Add puts a link into the snapshot so later candidates match it.
func (d *Deduplicator) Add(link models.Link) {
	key := validation.NormalizeURL(link.URL)
	if _, ok := d.byURL[key]; !ok {
		d.byURL[key] = link.ID
	}
}

// Resolve is the one-shot form of Deduplicator.Resolve.
func Resolve(candidate models.Link, destinationLinks []models.Link) Resolution {
	return NewDeduplicator(destinationLinks).Resolve(candidate)
}
