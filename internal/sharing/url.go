// Package sharing builds and resolves shareable collection links.
package sharing

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// CollectionPath is where shared collections are opened.
const CollectionPath = "/shared/collection"

// MaxSharedIDs caps the ids accepted in one share parameter.
const MaxSharedIDs = 200

// ErrTooManyIDs is returned by ParseIDs when a list exceeds MaxSharedIDs.
var ErrTooManyIDs = errors.New("more than 200 ids")

// InvalidIDError reports a value in an id list that is not a uuid.
type InvalidIDError struct {
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id %q", e.Value)
}

// BuildURL returns {baseURL}/shared/collection?folders=<csv>&links=<csv>.
// Empty lists are left out.
func BuildURL(baseURL string, folderIDs, linkIDs []uuid.UUID) string {
	q := url.Values{}
	if len(folderIDs) > 0 {
		q.Set("folders", joinIDs(folderIDs))
	}
	if len(linkIDs) > 0 {
		q.Set("links", joinIDs(linkIDs))
	}

	u := strings.TrimSuffix(baseURL, "/") + CollectionPath
	if len(q) == 0 {
		return u
	}
	// Commas are legal in a query; keep the csv readable.
	return u + "?" + strings.ReplaceAll(q.Encode(), "%2C", ",")
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// ParseIDs parses a comma-separated id list. Blank entries and repeats are
// skipped; any malformed entry fails the whole list.
func ParseIDs(csv string) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	seen := make(map[uuid.UUID]struct{})
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, &InvalidIDError{Value: part}
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) > MaxSharedIDs {
			return nil, ErrTooManyIDs
		}
	}
	return out, nil
}
