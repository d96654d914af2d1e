package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sadokz/lamaitrise/internal/model"
)

// PostgresDomainRepo is the PostgreSQL domain repository.
type PostgresDomainRepo struct {
	db *sql.DB
}

// NewPostgresDomainRepo creates a PostgresDomainRepo.
func NewPostgresDomainRepo(db *sql.DB) *PostgresDomainRepo {
	return &PostgresDomainRepo{db: db}
}

const domainColumns = `id, title, short_description, long_description,
	        position, is_visible, image_mode, image_url, image_uploaded_url,
	        created_at, updated_at`

func scanDomain(scan func(dest ...any) error) (*model.Domain, error) {
	d := &model.Domain{}
	var longDesc, imageURL, uploadedURL sql.NullString

	err := scan(
		&d.ID, &d.Title, &d.ShortDescription, &longDesc,
		&d.Position, &d.IsVisible, &d.PrimaryImage.Mode, &imageURL, &uploadedURL,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.LongDescription = nullStringValue(longDesc)
	d.PrimaryImage.URL = nullStringValue(imageURL)
	d.PrimaryImage.UploadedURL = nullStringValue(uploadedURL)
	return d, nil
}

// ListAll returns every domain ordered by position ascending.
func (r *PostgresDomainRepo) ListAll(ctx context.Context) ([]model.Domain, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+domainColumns+` FROM domains ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []model.Domain
	for rows.Next() {
		d, err := scanDomain(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, *d)
	}
	return domains, rows.Err()
}

// FindByID returns one domain, or nil when absent.
func (r *PostgresDomainRepo) FindByID(ctx context.Context, id string) (*model.Domain, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+domainColumns+` FROM domains WHERE id = $1`, id)

	d, err := scanDomain(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find domain: %w", err)
	}
	return d, nil
}

// Create stores a new domain, assigning its id and the next free position
// at the end of the collection.
func (r *PostgresDomainRepo) Create(ctx context.Context, d *model.Domain) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO domains
		   (id, title, short_description, long_description, position, is_visible,
		    image_mode, image_url, image_uploaded_url)
		 VALUES ($1, $2, $3, $4,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM domains),
		         $5, $6, $7, $8)
		 RETURNING position`,
		d.ID, d.Title, d.ShortDescription, d.LongDescription, d.IsVisible,
		d.PrimaryImage.Mode, d.PrimaryImage.URL, d.PrimaryImage.UploadedURL,
	).Scan(&d.Position)
	if err != nil {
		return fmt.Errorf("failed to create domain: %w", err)
	}
	return nil
}

// Update rewrites a domain.
func (r *PostgresDomainRepo) Update(ctx context.Context, d *model.Domain) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE domains SET
		   title = $2, short_description = $3, long_description = $4,
		   position = $5, is_visible = $6,
		   image_mode = $7, image_url = $8, image_uploaded_url = $9, updated_at = now()
		 WHERE id = $1`,
		d.ID, d.Title, d.ShortDescription, d.LongDescription, d.Position, d.IsVisible,
		d.PrimaryImage.Mode, d.PrimaryImage.URL, d.PrimaryImage.UploadedURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update domain: %w", err)
	}
	return nil
}

// Delete removes a domain.
func (r *PostgresDomainRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM domains WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete domain: %w", err)
	}
	return nil
}

// Move swaps the domain's position with its adjacent sibling.
func (r *PostgresDomainRepo) Move(ctx context.Context, id string, dir MoveDirection) error {
	return moveInTable(ctx, r.db, "domains", id, dir)
}
