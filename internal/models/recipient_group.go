package models

import (
	"time"

	"github.com/google/uuid"
)

// RecipientGroup is a named list of email addresses a user shares with
// often. Emails are stored as parsed, de-duplicated addresses.
type RecipientGroup struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Emails    []string  `json:"emails"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
