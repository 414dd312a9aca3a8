// Package repository declares the persistence interfaces the service layer
// programs against. The sqlite subpackage provides the implementation;
// tests substitute mocks.
package repository

import (
	"context"

	"github.com/sakif/online-compiler/internal/model"
)

// ListOptions carries pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
	// UserID filters to one owner's snippets when non-empty.
	UserID string
}

type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	List(ctx context.Context, opts ListOptions) ([]model.Snippet, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id string) error
}

// UserRepository method names carry the User infix because the sqlite
// implementation shares one DB type with SnippetRepository.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// UpsertGitHubUser creates or refreshes the account mapped to
	// user.GitHubID and fills in the internal ID either way.
	UpsertGitHubUser(ctx context.Context, user *model.User) error
}
