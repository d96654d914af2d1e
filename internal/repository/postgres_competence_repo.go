package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sadokz/lamaitrise/internal/model"
)

// PostgresCompetenceRepo is the PostgreSQL competence repository.
type PostgresCompetenceRepo struct {
	db *sql.DB
}

// NewPostgresCompetenceRepo creates a PostgresCompetenceRepo.
func NewPostgresCompetenceRepo(db *sql.DB) *PostgresCompetenceRepo {
	return &PostgresCompetenceRepo{db: db}
}

const competenceColumns = `id, title, short_description, long_description,
	        position, is_visible, image_mode, image_url, image_uploaded_url,
	        created_at, updated_at`

func scanCompetence(scan func(dest ...any) error) (*model.Competence, error) {
	c := &model.Competence{}
	var longDesc, imageURL, uploadedURL sql.NullString

	err := scan(
		&c.ID, &c.Title, &c.ShortDescription, &longDesc,
		&c.Position, &c.IsVisible, &c.PrimaryImage.Mode, &imageURL, &uploadedURL,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.LongDescription = nullStringValue(longDesc)
	c.PrimaryImage.URL = nullStringValue(imageURL)
	c.PrimaryImage.UploadedURL = nullStringValue(uploadedURL)
	return c, nil
}

// ListAll returns every competence ordered by position ascending.
func (r *PostgresCompetenceRepo) ListAll(ctx context.Context) ([]model.Competence, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+competenceColumns+` FROM competences ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list competences: %w", err)
	}
	defer rows.Close()

	var competences []model.Competence
	for rows.Next() {
		c, err := scanCompetence(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan competence: %w", err)
		}
		competences = append(competences, *c)
	}
	return competences, rows.Err()
}

// FindByID returns one competence, or nil when absent.
func (r *PostgresCompetenceRepo) FindByID(ctx context.Context, id string) (*model.Competence, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+competenceColumns+` FROM competences WHERE id = $1`, id)

	c, err := scanCompetence(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find competence: %w", err)
	}
	return c, nil
}

// Create stores a new competence, assigning its id and the next free
// position at the end of the collection.
func (r *PostgresCompetenceRepo) Create(ctx context.Context, c *model.Competence) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO competences
		   (id, title, short_description, long_description, position, is_visible,
		    image_mode, image_url, image_uploaded_url)
		 VALUES ($1, $2, $3, $4,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM competences),
		         $5, $6, $7, $8)
		 RETURNING position`,
		c.ID, c.Title, c.ShortDescription, c.LongDescription, c.IsVisible,
		c.PrimaryImage.Mode, c.PrimaryImage.URL, c.PrimaryImage.UploadedURL,
	).Scan(&c.Position)
	if err != nil {
		return fmt.Errorf("failed to create competence: %w", err)
	}
	return nil
}

// Update rewrites a competence.
func (r *PostgresCompetenceRepo) Update(ctx context.Context, c *model.Competence) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE competences SET
		   title = $2, short_description = $3, long_description = $4,
		   position = $5, is_visible = $6,
		   image_mode = $7, image_url = $8, image_uploaded_url = $9, updated_at = now()
		 WHERE id = $1`,
		c.ID, c.Title, c.ShortDescription, c.LongDescription, c.Position, c.IsVisible,
		c.PrimaryImage.Mode, c.PrimaryImage.URL, c.PrimaryImage.UploadedURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update competence: %w", err)
	}
	return nil
}

// Delete removes a competence.
func (r *PostgresCompetenceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM competences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete competence: %w", err)
	}
	return nil
}

// Move swaps the competence's position with its adjacent sibling.
func (r *PostgresCompetenceRepo) Move(ctx context.Context, id string, dir MoveDirection) error {
	return moveInTable(ctx, r.db, "competences", id, dir)
}
