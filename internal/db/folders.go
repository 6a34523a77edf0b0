package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"saveit/internal/models"
)

// folderSelect returns folders with their member ids in display order.
const folderSelect = `
	SELECT f.id, f.user_id, f.name, f.created_at, f.updated_at,
		COALESCE(array_agg(fl.link_id::text ORDER BY fl.position) FILTER (WHERE fl.link_id IS NOT NULL), '{}')
	FROM folders f
	LEFT JOIN folder_links fl ON fl.folder_id = f.id
`

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	var linkIDs []string
	err := row.Scan(&folder.ID, &folder.UserID, &folder.Name, &folder.CreatedAt, &folder.UpdatedAt, &linkIDs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}
	if folder.LinkIDs, err = parseUUIDs(linkIDs); err != nil {
		return nil, err
	}
	return &folder, nil
}

func scanFolders(rows pgx.Rows) ([]models.Folder, error) {
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *folder)
	}
	return folders, rows.Err()
}

// CreateFolder inserts a folder and its memberships in one transaction.
// Only links owned by the folder's user are attached; folder.LinkIDs is
// rewritten to what was actually stored.
func (d *DB) CreateFolder(ctx context.Context, folder *models.Folder) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO folders (id, user_id, name)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(ctx, query, nullUUID(folder.ID), folder.UserID, folder.Name).
		Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	stored, err := setFolderLinks(ctx, tx, folder.ID, folder.UserID, folder.LinkIDs)
	if err != nil {
		return err
	}
	folder.LinkIDs = stored

	return tx.Commit(ctx)
}

// setFolderLinks replaces a folder's memberships, keeping the given order
// and skipping repeats and links owned by someone else.
func setFolderLinks(ctx context.Context, tx pgx.Tx, folderID, userID uuid.UUID, linkIDs []uuid.UUID) ([]uuid.UUID, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM folder_links WHERE folder_id = $1`, folderID); err != nil {
		return nil, fmt.Errorf("failed to clear folder links: %w", err)
	}

	if len(linkIDs) == 0 {
		return []uuid.UUID{}, nil
	}

	query := `
		INSERT INTO folder_links (folder_id, link_id, position)
		SELECT $1, l.id, wanted.ord
		FROM unnest($2::uuid[]) WITH ORDINALITY AS wanted(id, ord)
		JOIN links l ON l.id = wanted.id AND l.user_id = $3
		ORDER BY wanted.ord
		ON CONFLICT (folder_id, link_id) DO NOTHING
		RETURNING link_id::text
	`
	rows, err := tx.Query(ctx, query, folderID, uuidStrings(linkIDs), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert folder links: %w", err)
	}
	defer rows.Close()

	inserted := make(map[uuid.UUID]struct{}, len(linkIDs))
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		inserted[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to insert folder links: %w", err)
	}

	// RETURNING order is not guaranteed, so rebuild from the request order.
	stored := make([]uuid.UUID, 0, len(inserted))
	for _, id := range linkIDs {
		if _, ok := inserted[id]; ok {
			stored = append(stored, id)
			delete(inserted, id)
		}
	}
	return stored, nil
}

// GetFolderByID retrieves a folder by ID, scoped to its owner.
func (d *DB) GetFolderByID(ctx context.Context, id, userID uuid.UUID) (*models.Folder, error) {
	query := folderSelect + ` WHERE f.id = $1 AND f.user_id = $2 GROUP BY f.id`
	return scanFolder(d.Pool.QueryRow(ctx, query, id, userID))
}

// GetFoldersByUser retrieves every folder a user owns, oldest first.
func (d *DB) GetFoldersByUser(ctx context.Context, userID uuid.UUID) ([]models.Folder, error) {
	query := folderSelect + ` WHERE f.user_id = $1 GROUP BY f.id ORDER BY f.created_at ASC, f.id ASC`

	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanFolders(rows)
}

// GetFoldersByIDs retrieves folders by ID regardless of owner, in the order
// the ids were given. Unknown ids are skipped.
func (d *DB) GetFoldersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Folder, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT f.id, f.user_id, f.name, f.created_at, f.updated_at,
			COALESCE(array_agg(fl.link_id::text ORDER BY fl.position) FILTER (WHERE fl.link_id IS NOT NULL), '{}')
		FROM unnest($1::uuid[]) WITH ORDINALITY AS wanted(id, ord)
		JOIN folders f ON f.id = wanted.id
		LEFT JOIN folder_links fl ON fl.folder_id = f.id
		GROUP BY f.id, wanted.ord
		ORDER BY wanted.ord
	`

	rows, err := d.Pool.Query(ctx, query, uuidStrings(ids))
	if err != nil {
		return nil, err
	}
	return scanFolders(rows)
}

// UpdateFolder renames a folder and replaces its memberships.
func (d *DB) UpdateFolder(ctx context.Context, folder *models.Folder) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE folders SET name = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, query, folder.Name, folder.ID, folder.UserID).Scan(&folder.CreatedAt, &folder.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrFolderNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update folder: %w", err)
	}

	stored, err := setFolderLinks(ctx, tx, folder.ID, folder.UserID, folder.LinkIDs)
	if err != nil {
		return err
	}
	folder.LinkIDs = stored

	return tx.Commit(ctx)
}

// DeleteFolder deletes a user's folder. Links themselves are kept.
func (d *DB) DeleteFolder(ctx context.Context, id, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM folders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrFolderNotFound
	}
	return nil
}

// CountFolders returns the total number of stored folders.
func (d *DB) CountFolders(ctx context.Context) (int64, error) {
	var n int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM folders`).Scan(&n)
	return n, err
}
