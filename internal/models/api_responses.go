package models

import "github.com/google/uuid"

// ImportItemError describes one link or folder that could not be imported.
type ImportItemError struct {
	Kind    string    `json:"kind"` // "link" or "folder"
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// SaveSharedResponse is the body returned by the save-shared endpoint.
// savedFolders and savedLinks keep the field names existing clients read.
type SaveSharedResponse struct {
	SavedFolders          int               `json:"savedFolders"`
	SavedLinks            int               `json:"savedLinks"`
	SkippedDuplicateCount int               `json:"skippedDuplicateCount"`
	SkippedFolderCount    int               `json:"skippedFolderCount"`
	Errors                []ImportItemError `json:"errors"`
}

// ShareLinkResponse contains a generated share URL and social intent links.
type ShareLinkResponse struct {
	URL       string            `json:"url"`
	Platforms map[string]string `json:"platforms"`
}
