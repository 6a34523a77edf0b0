package importer

import "github.com/google/uuid"

// IdentityRemapper maps a shared payload's link ids to the ids those links
// have in the destination collection. It lives for a single import.
type IdentityRemapper struct {
	local map[uuid.UUID]uuid.UUID
}

// NewIdentityRemapper returns an empty remapper.
func NewIdentityRemapper() *IdentityRemapper {
	return &IdentityRemapper{local: make(map[uuid.UUID]uuid.UUID)}
}

// Record maps foreignID to localID. Recording the same pair again is a
// no-op; mapping a foreign id to a second local id is a DuplicateMappingError.
func (r *IdentityRemapper) Record(foreignID, localID uuid.UUID) error {
	if existing, ok := r.local[foreignID]; ok {
		if existing == localID {
			return nil
		}
		return &DuplicateMappingError{ForeignID: foreignID, Existing: existing, Attempted: localID}
	}
	r.local[foreignID] = localID
	return nil
}

// Resolve returns the local id recorded for foreignID.
func (r *IdentityRemapper) Resolve(foreignID uuid.UUID) (uuid.UUID, bool) {
	id, ok := r.local[foreignID]
	return id, ok
}

// Translate maps foreign ids to local ids in order. Unresolved ids are
// dropped, as are repeats of a local id already emitted.
func (r *IdentityRemapper) Translate(foreignIDs []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(foreignIDs))
	seen := make(map[uuid.UUID]struct{}, len(foreignIDs))
	for _, foreignID := range foreignIDs {
		localID, ok := r.local[foreignID]
		if !ok {
			continue
		}
		if _, dup := seen[localID]; dup {
			continue
		}
		seen[localID] = struct{}{}
		out = append(out, localID)
	}
	return out
}

// Len returns the number of recorded mappings.
func (r *IdentityRemapper) Len() int {
	return len(r.local)
}
