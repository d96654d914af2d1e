package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sadokz/lamaitrise/internal/model"
)

// PostgresSessionRepo is the PostgreSQL session repository.
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo creates a PostgresSessionRepo.
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// Create stores a session.
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, admin_id, edit_mode, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		session.ID, session.AdminID, session.EditMode, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID returns the session, or nil when absent or expired.
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	session := &model.Session{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, admin_id, edit_mode, expires_at, created_at
		 FROM sessions WHERE id = $1 AND expires_at > now()`, id,
	).Scan(&session.ID, &session.AdminID, &session.EditMode, &session.ExpiresAt, &session.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

// SetEditMode flips the session's inline-editing flag.
func (r *PostgresSessionRepo) SetEditMode(ctx context.Context, id string, editMode bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET edit_mode = $2 WHERE id = $1`, id, editMode,
	)
	if err != nil {
		return fmt.Errorf("failed to update session edit mode: %w", err)
	}
	return nil
}

// DeleteByID removes a session.
func (r *PostgresSessionRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
