package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"saveit/internal/models"
)

func TestCreateFolder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createUser(t, db, "create-folder-sub")
	a := createLink(t, db, user, "https://a.example.com")
	b := createLink(t, db, user, "https://b.example.com")

	folder := &models.Folder{UserID: user.ID, Name: "Reading", LinkIDs: []uuid.UUID{b.ID, a.ID, b.ID}}
	if err := db.CreateFolder(ctx, folder); err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if folder.ID == uuid.Nil {
		t.Fatal("CreateFolder() did not set ID")
	}
	if len(folder.LinkIDs) != 2 || folder.LinkIDs[0] != b.ID || folder.LinkIDs[1] != a.ID {
		t.Errorf("CreateFolder() link ids = %v, want [%v %v]", folder.LinkIDs, b.ID, a.ID)
	}

	found, err := db.GetFolderByID(ctx, folder.ID, user.ID)
	if err != nil {
		t.Fatalf("GetFolderByID() error = %v", err)
	}
	if len(found.LinkIDs) != 2 || found.LinkIDs[0] != b.ID {
		t.Errorf("GetFolderByID() link ids = %v, want order preserved", found.LinkIDs)
	}
}

func TestCreateFolder_SkipsForeignLinks(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createUser(t, db, "folder-owner")
	stranger := createUser(t, db, "folder-stranger")
	own := createLink(t, db, owner, "https://own.example.com")
	foreign := createLink(t, db, stranger, "https://foreign.example.com")

	folder := &models.Folder{UserID: owner.ID, Name: "Mixed", LinkIDs: []uuid.UUID{own.ID, foreign.ID, uuid.New()}}
	if err := db.CreateFolder(ctx, folder); err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if len(folder.LinkIDs) != 1 || folder.LinkIDs[0] != own.ID {
		t.Errorf("CreateFolder() link ids = %v, want only %v", folder.LinkIDs, own.ID)
	}
}

func TestGetFoldersByUser_EmptyFolder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createUser(t, db, "empty-folder-sub")

	if err := db.CreateFolder(ctx, &models.Folder{UserID: user.ID, Name: "Empty"}); err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	folders, err := db.GetFoldersByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetFoldersByUser() error = %v", err)
	}
	if len(folders) != 1 {
		t.Fatalf("GetFoldersByUser() returned %d folders, want 1", len(folders))
	}
	if len(folders[0].LinkIDs) != 0 {
		t.Errorf("GetFoldersByUser() link ids = %v, want empty", folders[0].LinkIDs)
	}
}

func TestUpdateFolder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createUser(t, db, "update-folder-sub")
	a := createLink(t, db, user, "https://a.example.com")
	b := createLink(t, db, user, "https://b.example.com")

	folder := &models.Folder{UserID: user.ID, Name: "Before", LinkIDs: []uuid.UUID{a.ID}}
	if err := db.CreateFolder(ctx, folder); err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	folder.Name = "After"
	folder.LinkIDs = []uuid.UUID{b.ID}
	if err := db.UpdateFolder(ctx, folder); err != nil {
		t.Fatalf("UpdateFolder() error = %v", err)
	}

	found, err := db.GetFolderByID(ctx, folder.ID, user.ID)
	if err != nil {
		t.Fatalf("GetFolderByID() error = %v", err)
	}
	if found.Name != "After" || !found.SameMembers([]uuid.UUID{b.ID}) {
		t.Errorf("UpdateFolder() stored name=%q ids=%v", found.Name, found.LinkIDs)
	}

	missing := &models.Folder{ID: uuid.New(), UserID: user.ID, Name: "x"}
	if err := db.UpdateFolder(ctx, missing); err != ErrFolderNotFound {
		t.Errorf("UpdateFolder(missing) error = %v, want ErrFolderNotFound", err)
	}
}

func TestDeleteLink_RemovesMembership(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createUser(t, db, "cascade-sub")
	a := createLink(t, db, user, "https://a.example.com")

	folder := &models.Folder{UserID: user.ID, Name: "F", LinkIDs: []uuid.UUID{a.ID}}
	if err := db.CreateFolder(ctx, folder); err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if err := db.DeleteLink(ctx, a.ID, user.ID); err != nil {
		t.Fatalf("DeleteLink() error = %v", err)
	}

	found, err := db.GetFolderByID(ctx, folder.ID, user.ID)
	if err != nil {
		t.Fatalf("GetFolderByID() error = %v", err)
	}
	if len(found.LinkIDs) != 0 {
		t.Errorf("folder still references deleted link: %v", found.LinkIDs)
	}
}
