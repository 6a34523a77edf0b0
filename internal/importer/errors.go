package importer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Structural errors. Import returns these before writing anything.
var (
	ErrInvalidPayload = errors.New("shared payload has no links or folders")
	ErrUnknownOwner   = errors.New("destination owner not found")
)

// ErrEmptyURL is recorded for a shared link that has no url.
var ErrEmptyURL = errors.New("link has no url")

// ItemKind names what an ItemError is about.
type ItemKind string

const (
	KindLink   ItemKind = "link"
	KindFolder ItemKind = "folder"
)

// ItemError records one link or folder that could not be imported.
// It is collected on the Result; it never aborts the import.
type ItemError struct {
	Kind      ItemKind
	ForeignID uuid.UUID
	Err       error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("import %s %s: %v", e.Kind, e.ForeignID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// PublicMessage is a description of the failure safe to show to end users.
func (e *ItemError) PublicMessage() string {
	if errors.Is(e.Err, ErrEmptyURL) {
		return ErrEmptyURL.Error()
	}
	return fmt.Sprintf("failed to save %s", e.Kind)
}

// DuplicateMappingError means one foreign id was mapped to two local ids.
// This indicates a bug in the importer and is returned, not collected.
type DuplicateMappingError struct {
	ForeignID uuid.UUID
	Existing  uuid.UUID
	Attempted uuid.UUID
}

func (e *DuplicateMappingError) Error() string {
	return fmt.Sprintf("foreign id %s already mapped to %s, refusing %s", e.ForeignID, e.Existing, e.Attempted)
}
