package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/online-compiler/internal/apperror"
	"github.com/sakif/online-compiler/internal/model"
)

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "alice")

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)

	createTestUser(t, db, "alice")

	dup := &model.User{Username: "alice", Email: "other@example.com", PasswordHash: "h"}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)

	created := createTestUser(t, db, "alice")

	fetched, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if fetched.Username != "alice" {
		t.Errorf("Username = %q, want alice", fetched.Username)
	}
	if fetched.PasswordHash != "not-a-real-hash" {
		t.Errorf("PasswordHash not persisted: %q", fetched.PasswordHash)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByUsername(t *testing.T) {
	db := newTestDB(t)

	created := createTestUser(t, db, "alice")

	fetched, err := db.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if fetched.ID != created.ID {
		t.Errorf("ID = %q, want %q", fetched.ID, created.ID)
	}

	if _, err := db.GetUserByUsername(context.Background(), "nobody"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByUsername() error = %v, want ErrNotFound", err)
	}
}

func TestUserUpsertGitHub_NewUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Username:  "octocat",
		Email:     "octo@example.com",
		GitHubID:  583231,
		AvatarURL: "https://example.com/a.png",
	}
	if err := db.UpsertGitHubUser(context.Background(), user); err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}
	if user.ID == "" {
		t.Fatal("UpsertGitHubUser() did not set user.ID")
	}

	fetched, err := db.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if fetched.GitHubID != 583231 {
		t.Errorf("GitHubID = %d, want 583231", fetched.GitHubID)
	}
	if fetched.PasswordHash != "" {
		t.Errorf("OAuth account must have no password hash, got %q", fetched.PasswordHash)
	}
}

func TestUserUpsertGitHub_ExistingUser_UpdatesProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &model.User{Username: "octocat", GitHubID: 583231}
	if err := db.UpsertGitHubUser(ctx, first); err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}

	// Same GitHub account signs in again with a renamed profile.
	second := &model.User{Username: "octocat-renamed", GitHubID: 583231, AvatarURL: "https://example.com/new.png"}
	if err := db.UpsertGitHubUser(ctx, second); err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert created a second account: %q vs %q", second.ID, first.ID)
	}

	fetched, err := db.GetUserByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if fetched.Username != "octocat-renamed" {
		t.Errorf("Username = %q, want octocat-renamed", fetched.Username)
	}
	if fetched.AvatarURL != "https://example.com/new.png" {
		t.Errorf("AvatarURL = %q, want refreshed value", fetched.AvatarURL)
	}
}

func TestUserUpsertGitHub_DoesNotChangeCreatedAt(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &model.User{Username: "octocat", GitHubID: 583231}
	if err := db.UpsertGitHubUser(ctx, first); err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}

	second := &model.User{Username: "octocat", GitHubID: 583231}
	if err := db.UpsertGitHubUser(ctx, second); err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on upsert: %v vs %v", second.CreatedAt, first.CreatedAt)
	}
}

func TestPasswordAndGitHubAccountsCoexist(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	password := createTestUser(t, db, "alice")

	github := &model.User{Username: "octocat", GitHubID: 583231}
	if err := db.UpsertGitHubUser(ctx, github); err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}

	if password.ID == github.ID {
		t.Error("distinct identity paths must produce distinct accounts")
	}
}
