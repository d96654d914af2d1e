// Package sitetext implements the inline editable-text protocol: texts are
// addressed by the composite (page, section, key), created lazily on first
// save, and sanitized to plain text before they reach the store.
package sitetext

import (
	"context"
	"fmt"

	"github.com/sadokz/lamaitrise/internal/model"
)

// Repository is the persistence subset the service needs.
type Repository interface {
	// FindByKey returns the record for the composite key, or nil when the
	// text has never been saved.
	FindByKey(ctx context.Context, key model.TextKey) (*model.SiteText, error)
	// ListByPage returns every saved text of a page.
	ListByPage(ctx context.Context, page string) ([]*model.SiteText, error)
	// Insert creates a record.
	Insert(ctx context.Context, text *model.SiteText) error
	// UpdateContent rewrites one record's content.
	UpdateContent(ctx context.Context, id, content string) error
}

// Sanitizer strips markup from drafts before persistence.
type Sanitizer interface {
	Sanitize(draft string) string
}

// Service provides lookup and upsert-by-composite-key for editable texts.
type Service struct {
	repo      Repository
	sanitizer Sanitizer
}

// NewService returns a Service.
func NewService(repo Repository, sanitizer Sanitizer) *Service {
	return &Service{repo: repo, sanitizer: sanitizer}
}

// Resolve returns the saved content for the key, or the caller's literal
// default when no record exists.
func (s *Service) Resolve(ctx context.Context, key model.TextKey, defaultValue string) (string, error) {
	rec, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to load text %s/%s/%s: %w", key.Page, key.Section, key.Key, err)
	}
	if rec == nil {
		return defaultValue, nil
	}
	return rec.Content, nil
}

// ListByPage returns every saved text of a page.
func (s *Service) ListByPage(ctx context.Context, page string) ([]*model.SiteText, error) {
	if page == "" {
		return nil, model.NewValidationError("page", "must not be empty")
	}
	texts, err := s.repo.ListByPage(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list texts for page %s: %w", page, err)
	}
	return texts, nil
}

// Save sanitizes the draft and upserts it by composite key: existence check,
// then update or insert. When the sanitized draft equals the stored content
// no write is issued at all. Returns the stored content and whether a write
// happened.
func (s *Service) Save(ctx context.Context, key model.TextKey, draft string) (string, bool, error) {
	if key.Page == "" || key.Section == "" || key.Key == "" {
		return "", false, model.NewValidationError("text key", "page, section and key are all required")
	}

	content := s.sanitizer.Sanitize(draft)

	existing, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to load text %s/%s/%s: %w", key.Page, key.Section, key.Key, err)
	}

	if existing != nil {
		if existing.Content == content {
			return content, false, nil
		}
		if err := s.repo.UpdateContent(ctx, existing.ID, content); err != nil {
			return "", false, fmt.Errorf("failed to update text %s/%s/%s: %w", key.Page, key.Section, key.Key, err)
		}
		return content, true, nil
	}

	if err := s.repo.Insert(ctx, &model.SiteText{
		Page:    key.Page,
		Section: key.Section,
		Key:     key.Key,
		Content: content,
	}); err != nil {
		return "", false, fmt.Errorf("failed to create text %s/%s/%s: %w", key.Page, key.Section, key.Key, err)
	}
	return content, true, nil
}
