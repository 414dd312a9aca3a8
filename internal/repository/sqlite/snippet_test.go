package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/online-compiler/internal/apperror"
	"github.com/sakif/online-compiler/internal/model"
	"github.com/sakif/online-compiler/internal/repository"
)

// newTestDB opens an in-memory database that lives only for this test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestSnippet(t *testing.T, db *DB, name, language, code string) *model.Snippet {
	t.Helper()
	snippet := &model.Snippet{Name: name, Language: language, Code: code}
	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return snippet
}

func TestSnippetCreate(t *testing.T) {
	db := newTestDB(t)

	snippet := &model.Snippet{
		Name:     "Hello World",
		Language: "python",
		Code:     "print('hello')",
	}

	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if snippet.ID == "" {
		t.Error("Create() did not set snippet.ID")
	}
	if snippet.CreatedAt.IsZero() {
		t.Error("Create() did not set snippet.CreatedAt")
	}
	if snippet.UpdatedAt.IsZero() {
		t.Error("Create() did not set snippet.UpdatedAt")
	}
}

func TestSnippetCreate_VerifyPersistence(t *testing.T) {
	db := newTestDB(t)

	original := createTestSnippet(t, db, "test", "sql", "SELECT 1;")

	fetched, err := db.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if fetched.Name != "test" {
		t.Errorf("Name = %q, want %q", fetched.Name, "test")
	}
	if fetched.Language != "sql" {
		t.Errorf("Language = %q, want %q", fetched.Language, "sql")
	}
	if fetched.Code != "SELECT 1;" {
		t.Errorf("Code = %q, want %q", fetched.Code, "SELECT 1;")
	}
	if fetched.UserID != "" {
		t.Errorf("UserID = %q, want empty for anonymous snippet", fetched.UserID)
	}
}

func TestSnippetCreate_WithOwner(t *testing.T) {
	db := newTestDB(t)

	owner := &model.User{Username: "alice", PasswordHash: "hash"}
	if err := db.CreateUser(context.Background(), owner); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	snippet := &model.Snippet{Name: "owned", Language: "python", Code: "x", UserID: owner.ID}
	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	fetched, err := db.GetByID(context.Background(), snippet.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if fetched.UserID != owner.ID {
		t.Errorf("UserID = %q, want %q", fetched.UserID, owner.ID)
	}
}

func TestSnippetGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestSnippetList(t *testing.T) {
	db := newTestDB(t)

	for _, name := range []string{"a", "b", "c"} {
		createTestSnippet(t, db, name, "python", "pass")
	}

	snippets, err := db.List(context.Background(), repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 3 {
		t.Errorf("List() returned %d snippets, want 3", len(snippets))
	}
}

func TestSnippetList_Pagination(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 5; i++ {
		createTestSnippet(t, db, "snippet", "python", "pass")
	}

	page, err := db.List(context.Background(), repository.ListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("List() returned %d snippets, want 2", len(page))
	}

	rest, err := db.List(context.Background(), repository.ListOptions{Limit: 10, Offset: 4})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("List() with offset 4 returned %d snippets, want 1", len(rest))
	}
}

func TestSnippetList_FilterByOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := &model.User{Username: "alice", PasswordHash: "hash"}
	if err := db.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	owned := &model.Snippet{Name: "mine", UserID: owner.ID}
	if err := db.Create(ctx, owned); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	createTestSnippet(t, db, "anon", "python", "pass")

	snippets, err := db.List(ctx, repository.ListOptions{Limit: 10, UserID: owner.ID})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 1 {
		t.Fatalf("List() returned %d snippets, want 1", len(snippets))
	}
	if snippets[0].ID != owned.ID {
		t.Errorf("List() returned snippet %s, want %s", snippets[0].ID, owned.ID)
	}
}

func TestSnippetUpdate(t *testing.T) {
	db := newTestDB(t)

	snippet := createTestSnippet(t, db, "before", "python", "old")
	snippet.Name = "after"
	snippet.Language = "javascript"
	snippet.Code = "new"

	if err := db.Update(context.Background(), snippet); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	fetched, err := db.GetByID(context.Background(), snippet.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if fetched.Name != "after" || fetched.Language != "javascript" || fetched.Code != "new" {
		t.Errorf("Update() not persisted: got %+v", fetched)
	}
}

func TestSnippetUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Update(context.Background(), &model.Snippet{ID: "nonexistent", Name: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestSnippetDelete(t *testing.T) {
	db := newTestDB(t)

	snippet := createTestSnippet(t, db, "doomed", "python", "pass")

	if err := db.Delete(context.Background(), snippet.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.GetByID(context.Background(), snippet.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSnippetDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
