package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sadokz/lamaitrise/internal/model"
)

// PostgresSiteTextRepo is the PostgreSQL editable-text repository. The
// composite (page, section, key) is the unique identity; the schema enforces
// it with a unique constraint.
type PostgresSiteTextRepo struct {
	db *sql.DB
}

// NewPostgresSiteTextRepo creates a PostgresSiteTextRepo.
func NewPostgresSiteTextRepo(db *sql.DB) *PostgresSiteTextRepo {
	return &PostgresSiteTextRepo{db: db}
}

// FindByKey returns the record for the composite key, or nil when the text
// was never saved.
func (r *PostgresSiteTextRepo) FindByKey(ctx context.Context, key model.TextKey) (*model.SiteText, error) {
	text := &model.SiteText{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, page, section, key, content, created_at, updated_at
		 FROM site_texts WHERE page = $1 AND section = $2 AND key = $3`,
		key.Page, key.Section, key.Key,
	).Scan(&text.ID, &text.Page, &text.Section, &text.Key, &text.Content, &text.CreatedAt, &text.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find text: %w", err)
	}
	return text, nil
}

// ListByPage returns every saved text of a page.
func (r *PostgresSiteTextRepo) ListByPage(ctx context.Context, page string) ([]*model.SiteText, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, page, section, key, content, created_at, updated_at
		 FROM site_texts WHERE page = $1 ORDER BY section, key`, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list texts: %w", err)
	}
	defer rows.Close()

	var texts []*model.SiteText
	for rows.Next() {
		text := &model.SiteText{}
		if err := rows.Scan(&text.ID, &text.Page, &text.Section, &text.Key, &text.Content, &text.CreatedAt, &text.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan text: %w", err)
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}

// Insert creates a record.
func (r *PostgresSiteTextRepo) Insert(ctx context.Context, text *model.SiteText) error {
	if text.ID == "" {
		text.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO site_texts (id, page, section, key, content)
		 VALUES ($1, $2, $3, $4, $5)`,
		text.ID, text.Page, text.Section, text.Key, text.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to insert text: %w", err)
	}
	return nil
}

// UpdateContent rewrites one record's content.
func (r *PostgresSiteTextRepo) UpdateContent(ctx context.Context, id, content string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE site_texts SET content = $2, updated_at = now() WHERE id = $1`,
		id, content,
	)
	if err != nil {
		return fmt.Errorf("failed to update text: %w", err)
	}
	return nil
}
