package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"saveit/internal/models"
)

const groupColumns = `id, user_id, name, emails, created_at, updated_at`

const groupNameConstraint = "recipient_groups_user_name_unique"

func scanGroup(row pgx.Row) (*models.RecipientGroup, error) {
	var g models.RecipientGroup
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Emails, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func scanGroups(rows pgx.Rows) ([]models.RecipientGroup, error) {
	defer rows.Close()

	var groups []models.RecipientGroup
	for rows.Next() {
		var g models.RecipientGroup
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Emails, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// CreateGroup creates a recipient group.
func (d *DB) CreateGroup(ctx context.Context, group *models.RecipientGroup) error {
	query := `
		INSERT INTO recipient_groups (user_id, name, emails)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, group.UserID, group.Name, nonNilStrings(group.Emails)).
		Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, groupNameConstraint) {
			return ErrDuplicateGroupName
		}
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// GetGroupByID retrieves a user's recipient group.
func (d *DB) GetGroupByID(ctx context.Context, id, userID uuid.UUID) (*models.RecipientGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM recipient_groups WHERE id = $1 AND user_id = $2`
	return scanGroup(d.Pool.QueryRow(ctx, query, id, userID))
}

// GetGroupsByUser lists a user's recipient groups by name.
func (d *DB) GetGroupsByUser(ctx context.Context, userID uuid.UUID) ([]models.RecipientGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM recipient_groups WHERE user_id = $1 ORDER BY name ASC`

	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanGroups(rows)
}

// GetGroupsByIDs retrieves the user's groups with the given ids, in the
// order given. Ids of other users' groups are skipped.
func (d *DB) GetGroupsByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.RecipientGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT g.id, g.user_id, g.name, g.emails, g.created_at, g.updated_at
		FROM unnest($2::uuid[]) WITH ORDINALITY AS wanted(id, ord)
		JOIN recipient_groups g ON g.id = wanted.id AND g.user_id = $1
		ORDER BY wanted.ord
	`

	rows, err := d.Pool.Query(ctx, query, userID, uuidStrings(ids))
	if err != nil {
		return nil, err
	}
	return scanGroups(rows)
}

// UpdateGroup renames a group and replaces its addresses.
func (d *DB) UpdateGroup(ctx context.Context, group *models.RecipientGroup) error {
	query := `
		UPDATE recipient_groups
		SET name = $1, emails = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, group.Name, nonNilStrings(group.Emails), group.ID, group.UserID).
		Scan(&group.CreatedAt, &group.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrGroupNotFound
	}
	if isUniqueViolation(err, groupNameConstraint) {
		return ErrDuplicateGroupName
	}
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

// DeleteGroup deletes a user's recipient group.
func (d *DB) DeleteGroup(ctx context.Context, id, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM recipient_groups WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrGroupNotFound
	}
	return nil
}
