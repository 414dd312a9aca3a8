// Package service contains the business rules sitting between the HTTP
// handlers and the repositories: validation, ownership checks, and the
// login/registration flow. Services know nothing about HTTP; they return
// apperror values the handlers translate to status codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/online-compiler/internal/apperror"
	"github.com/sakif/online-compiler/internal/executor"
	"github.com/sakif/online-compiler/internal/model"
	"github.com/sakif/online-compiler/internal/repository"
)

const (
	MaxSnippetNameLength = 100
	MaxCodeLength        = 100000 // ~100KB of code
	DefaultListLimit     = 20
	MaxListLimit         = 100
)

// SnippetService handles business logic for saved snippets.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{repo: repo, logger: logger}
}

// Create validates and saves a new snippet. userID may be empty (anonymous
// save); language must name a catalog entry so a loaded snippet can be
// re-run without guessing.
func (s *SnippetService) Create(ctx context.Context, userID string, snippet *model.Snippet) (*model.Snippet, error) {
	snippet.Name = strings.TrimSpace(snippet.Name)
	snippet.Description = strings.TrimSpace(snippet.Description)
	snippet.UserID = userID

	if snippet.Name == "" {
		return nil, apperror.ValidationFailed("name", "snippet name is required")
	}
	if len(snippet.Name) > MaxSnippetNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("snippet name must be %d characters or less", MaxSnippetNameLength))
	}
	if len(snippet.Code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	if snippet.Language == "" {
		snippet.Language = "python"
	}
	if !executor.IsSupported(snippet.Language) {
		return nil, apperror.ValidationFailed("language",
			fmt.Sprintf("unsupported language %q", snippet.Language))
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("name", snippet.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("language", snippet.Language),
	)
	return snippet, nil
}

// GetByID retrieves a snippet by its ID.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List retrieves snippets with pagination, optionally scoped to one owner.
func (s *SnippetService) List(ctx context.Context, userID string, limit, offset int) ([]model.Snippet, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	snippets, err := s.repo.List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
		UserID: userID,
	})
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Update modifies an existing snippet. Only the owner may change an owned
// snippet; anonymous snippets are editable by anyone (they have no owner to
// defend).
func (s *SnippetService) Update(ctx context.Context, userID, id string, changes *model.Snippet) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if snippet.UserID != "" && snippet.UserID != userID {
		return nil, apperror.Forbidden("you do not own this snippet")
	}

	if name := strings.TrimSpace(changes.Name); name != "" {
		if len(name) > MaxSnippetNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("snippet name must be %d characters or less", MaxSnippetNameLength))
		}
		snippet.Name = name
	}
	if changes.Language != "" {
		if !executor.IsSupported(changes.Language) {
			return nil, apperror.ValidationFailed("language",
				fmt.Sprintf("unsupported language %q", changes.Language))
		}
		snippet.Language = changes.Language
	}
	// Code can legitimately be cleared, so it is always applied.
	if len(changes.Code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	snippet.Code = changes.Code
	snippet.Description = strings.TrimSpace(changes.Description)

	if err := s.repo.Update(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	return snippet, nil
}

// Delete removes a snippet, with the same ownership rule as Update.
func (s *SnippetService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if snippet.UserID != "" && snippet.UserID != userID {
		return apperror.Forbidden("you do not own this snippet")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}
