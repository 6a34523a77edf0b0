package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"saveit/internal/validation"
	"saveit/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevLinks gives a user a handful of links for local development.
// Links the user already has are left alone.
func (d *DB) SeedDevLinks(ctx context.Context, userID string) error {
	links := []struct {
		url      string
		title    string
		category string
	}{
		{"https://go.dev", "Go Programming Language", "programming"},
		{"https://pkg.go.dev", "Go Package Documentation", "programming"},
		{"https://github.com", "GitHub", "tools"},
		{"https://example.org", "Example Domain", "misc"},
	}

	query := `
		INSERT INTO links (user_id, url, normalized_url, title, category)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT ` + linksURLConstraint + ` DO NOTHING
	`

	for _, link := range links {
		if _, err := d.Pool.Exec(ctx, query, userID, link.url, validation.NormalizeURL(link.url), link.title, link.category); err != nil {
			return fmt.Errorf("failed to seed link %s: %w", link.url, err)
		}
	}

	return nil
}
