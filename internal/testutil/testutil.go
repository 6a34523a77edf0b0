// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"saveit/internal/db"
	"saveit/internal/models"
)

// TestDB connects to TEST_DATABASE_URL, runs migrations and returns a
// cleanup function. The test is skipped when the variable is unset.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	cleanupTestData(ctx, database.Pool)

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	// Delete in order to respect foreign keys
	pool.Exec(ctx, "DELETE FROM recipient_groups")
	pool.Exec(ctx, "DELETE FROM folder_links")
	pool.Exec(ctx, "DELETE FROM folders")
	pool.Exec(ctx, "DELETE FROM links")
	pool.Exec(ctx, "DELETE FROM users")
}

// CreateTestUser creates a test user.
func CreateTestUser(t *testing.T, database *db.DB, sub string) *models.User {
	t.Helper()

	user := &models.User{
		Sub:   sub,
		Email: sub + "@example.com",
		Name:  fmt.Sprintf("Test User %s", sub),
	}
	if err := database.UpsertUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestLink creates a link owned by user.
func CreateTestLink(t *testing.T, database *db.DB, user *models.User, url, title string) *models.Link {
	t.Helper()

	link := &models.Link{UserID: user.ID, URL: url, Title: title}
	if err := database.CreateLink(context.Background(), link); err != nil {
		t.Fatalf("failed to create test link: %v", err)
	}
	return link
}

// CreateTestFolder creates a folder owned by user holding links in order.
func CreateTestFolder(t *testing.T, database *db.DB, user *models.User, name string, links ...*models.Link) *models.Folder {
	t.Helper()

	folder := &models.Folder{UserID: user.ID, Name: name}
	for _, l := range links {
		folder.LinkIDs = append(folder.LinkIDs, l.ID)
	}
	if err := database.CreateFolder(context.Background(), folder); err != nil {
		t.Fatalf("failed to create test folder: %v", err)
	}
	return folder
}
