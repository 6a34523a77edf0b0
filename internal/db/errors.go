package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level database error sentinels.
var (
	// Link errors
	ErrLinkNotFound = errors.New("link not found")
	ErrDuplicateURL = errors.New("a link with this url already exists")

	// Folder errors
	ErrFolderNotFound = errors.New("folder not found")

	// Recipient group errors
	ErrGroupNotFound      = errors.New("recipient group not found")
	ErrDuplicateGroupName = errors.New("a recipient group with this name already exists")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique violation on constraint.
// An empty constraint name matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
