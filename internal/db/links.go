package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"saveit/internal/models"
	"saveit/internal/validation"
)

// linkColumns is the standard column list for link queries.
const linkColumns = `id, user_id, url, title, description, category, tags, created_at, updated_at`

// linksURLConstraint keeps one link per owner and normalized url.
const linksURLConstraint = "links_user_normalized_url_unique"

// scanLink scans a row into a Link struct.
func scanLink(row pgx.Row) (*models.Link, error) {
	var link models.Link
	err := row.Scan(
		&link.ID,
		&link.UserID,
		&link.URL,
		&link.Title,
		&link.Description,
		&link.Category,
		&link.Tags,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// scanLinks scans multiple rows into a slice of Links.
func scanLinks(rows pgx.Rows) ([]models.Link, error) {
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(
			&link.ID,
			&link.UserID,
			&link.URL,
			&link.Title,
			&link.Description,
			&link.Category,
			&link.Tags,
			&link.CreatedAt,
			&link.UpdatedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// CreateLink inserts a link. A zero ID or CreatedAt is filled in by the
// database; the stored values are written back into link.
func (d *DB) CreateLink(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (id, user_id, url, normalized_url, title, description, category, tags, created_at)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, COALESCE($9::timestamptz, NOW()))
		RETURNING id, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		nullUUID(link.ID),
		link.UserID,
		link.URL,
		validation.NormalizeURL(link.URL),
		link.Title,
		link.Description,
		link.Category,
		nonNilStrings(link.Tags),
		nullTime(link.CreatedAt),
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, linksURLConstraint) {
			return ErrDuplicateURL
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// GetLinkByID retrieves a link by ID, scoped to its owner.
func (d *DB) GetLinkByID(ctx context.Context, id, userID uuid.UUID) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1 AND user_id = $2`
	return scanLink(d.Pool.QueryRow(ctx, query, id, userID))
}

// GetLinkByURL retrieves the user's link whose url normalizes to the same
// key as url.
func (d *DB) GetLinkByURL(ctx context.Context, userID uuid.UUID, url string) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = $1 AND normalized_url = $2`
	return scanLink(d.Pool.QueryRow(ctx, query, userID, validation.NormalizeURL(url)))
}

// GetLinksByUser retrieves every link a user owns, oldest first.
func (d *DB) GetLinksByUser(ctx context.Context, userID uuid.UUID) ([]models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanLinks(rows)
}

// GetLinksByIDs retrieves links by ID regardless of owner, in the order
// the ids were given. Unknown ids are skipped. Used to resolve shared
// collections, which are public by id.
func (d *DB) GetLinksByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Link, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT l.id, l.user_id, l.url, l.title, l.description, l.category, l.tags, l.created_at, l.updated_at
		FROM unnest($1::uuid[]) WITH ORDINALITY AS wanted(id, ord)
		JOIN links l ON l.id = wanted.id
		ORDER BY wanted.ord
	`

	rows, err := d.Pool.Query(ctx, query, uuidStrings(ids))
	if err != nil {
		return nil, err
	}
	return scanLinks(rows)
}

// SearchLinks lists a user's links narrowed by filter, newest first.
func (d *DB) SearchLinks(ctx context.Context, userID uuid.UUID, filter models.LinkFilter) ([]models.Link, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT l.id, l.user_id, l.url, l.title, l.description, l.category, l.tags, l.created_at, l.updated_at FROM links l`)

	args := []any{userID}
	where := []string{"l.user_id = $1"}

	if filter.FolderID != nil {
		args = append(args, *filter.FolderID)
		sb.WriteString(fmt.Sprintf(` JOIN folder_links fl ON fl.link_id = l.id AND fl.folder_id = $%d`, len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(l.title ILIKE $%d OR l.url ILIKE $%d OR l.description ILIKE $%d)", n, n, n))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("l.category = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where = append(where, fmt.Sprintf("$%d = ANY(l.tags)", len(args)))
	}

	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(where, " AND "))
	sb.WriteString(" ORDER BY l.created_at DESC, l.id DESC")

	rows, err := d.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	return scanLinks(rows)
}

// UpdateLink updates a link's editable fields.
func (d *DB) UpdateLink(ctx context.Context, link *models.Link) error {
	query := `
		UPDATE links
		SET url = $1, normalized_url = $2, title = $3, description = $4, category = $5, tags = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		link.URL,
		validation.NormalizeURL(link.URL),
		link.Title,
		link.Description,
		link.Category,
		nonNilStrings(link.Tags),
		link.ID,
		link.UserID,
	).Scan(&link.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrLinkNotFound
	}
	if isUniqueViolation(err, linksURLConstraint) {
		return ErrDuplicateURL
	}
	return err
}

// DeleteLink deletes a user's link. Folder memberships cascade.
func (d *DB) DeleteLink(ctx context.Context, id, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM links WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// LinkStats counts a user's links per category and per tag.
func (d *DB) LinkStats(ctx context.Context, userID uuid.UUID) (*models.LinkStats, error) {
	stats := &models.LinkStats{
		Categories: []models.LabelCount{},
		Tags:       []models.LabelCount{},
	}

	err := d.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE category = '')
		FROM links WHERE user_id = $1
	`, userID).Scan(&stats.Total, &stats.Uncategorized)
	if err != nil {
		return nil, fmt.Errorf("failed to count links: %w", err)
	}

	stats.Categories, err = d.labelCounts(ctx, `
		SELECT category, COUNT(*) FROM links
		WHERE user_id = $1 AND category <> ''
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	stats.Tags, err = d.labelCounts(ctx, `
		SELECT tag, COUNT(*) FROM links, unnest(tags) AS tag
		WHERE user_id = $1
		GROUP BY tag
		ORDER BY COUNT(*) DESC, tag ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}

	return stats, nil
}

func (d *DB) labelCounts(ctx context.Context, query string, userID uuid.UUID) ([]models.LabelCount, error) {
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.LabelCount{}
	for rows.Next() {
		var lc models.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

// CountLinks returns the total number of stored links.
func (d *DB) CountLinks(ctx context.Context) (int64, error) {
	var n int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM links`).Scan(&n)
	return n, err
}

func nullUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nonNilStrings(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// uuidStrings renders ids as text for ::uuid[] casts.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// parseUUIDs parses text ids produced by array_agg(id::text).
func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
