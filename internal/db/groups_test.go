package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"saveit/internal/models"
)

func TestRecipientGroups(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createUser(t, db, "groups-sub")
	other := createUser(t, db, "groups-other")

	team := &models.RecipientGroup{UserID: user.ID, Name: "Team", Emails: []string{"bob@example.com", "carol@example.com"}}
	if err := db.CreateGroup(ctx, team); err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	family := &models.RecipientGroup{UserID: user.ID, Name: "Family", Emails: []string{"mum@example.com"}}
	if err := db.CreateGroup(ctx, family); err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}

	err := db.CreateGroup(ctx, &models.RecipientGroup{UserID: user.ID, Name: "Team"})
	if err != ErrDuplicateGroupName {
		t.Errorf("CreateGroup() same name error = %v, want ErrDuplicateGroupName", err)
	}
	theirs := &models.RecipientGroup{UserID: other.ID, Name: "Team", Emails: []string{"x@example.com"}}
	if err := db.CreateGroup(ctx, theirs); err != nil {
		t.Errorf("CreateGroup() other user same name error = %v", err)
	}

	groups, err := db.GetGroupsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetGroupsByUser() error = %v", err)
	}
	if len(groups) != 2 || groups[0].Name != "Family" || groups[1].Name != "Team" {
		t.Errorf("GetGroupsByUser() = %+v, want [Family Team]", groups)
	}

	byIDs, err := db.GetGroupsByIDs(ctx, user.ID, []uuid.UUID{team.ID, theirs.ID, uuid.New(), family.ID})
	if err != nil {
		t.Fatalf("GetGroupsByIDs() error = %v", err)
	}
	if len(byIDs) != 2 || byIDs[0].ID != team.ID || byIDs[1].ID != family.ID {
		t.Errorf("GetGroupsByIDs() = %+v, want [Team Family] without other users' groups", byIDs)
	}
	if len(byIDs[0].Emails) != 2 {
		t.Errorf("GetGroupsByIDs() emails = %v", byIDs[0].Emails)
	}

	family.Name = "Team"
	if err := db.UpdateGroup(ctx, family); err != ErrDuplicateGroupName {
		t.Errorf("UpdateGroup() to a taken name error = %v, want ErrDuplicateGroupName", err)
	}
	family.Name = "Relatives"
	family.Emails = []string{"dad@example.com"}
	if err := db.UpdateGroup(ctx, family); err != nil {
		t.Fatalf("UpdateGroup() error = %v", err)
	}
	found, err := db.GetGroupByID(ctx, family.ID, user.ID)
	if err != nil {
		t.Fatalf("GetGroupByID() error = %v", err)
	}
	if found.Name != "Relatives" || len(found.Emails) != 1 || found.Emails[0] != "dad@example.com" {
		t.Errorf("GetGroupByID() = %+v", found)
	}

	if _, err := db.GetGroupByID(ctx, theirs.ID, user.ID); err != ErrGroupNotFound {
		t.Errorf("GetGroupByID(other user's) error = %v, want ErrGroupNotFound", err)
	}
	if err := db.DeleteGroup(ctx, theirs.ID, user.ID); err != ErrGroupNotFound {
		t.Errorf("DeleteGroup(other user's) error = %v, want ErrGroupNotFound", err)
	}
	if err := db.DeleteGroup(ctx, family.ID, user.ID); err != nil {
		t.Fatalf("DeleteGroup() error = %v", err)
	}
	if err := db.DeleteGroup(ctx, family.ID, user.ID); err != ErrGroupNotFound {
		t.Errorf("DeleteGroup() twice error = %v, want ErrGroupNotFound", err)
	}
}
