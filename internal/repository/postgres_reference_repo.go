package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/sadokz/lamaitrise/internal/catalog"
	"github.com/sadokz/lamaitrise/internal/model"
)

// PostgresReferenceRepo is the PostgreSQL reference repository.
type PostgresReferenceRepo struct {
	db *sql.DB
}

// NewPostgresReferenceRepo creates a PostgresReferenceRepo.
func NewPostgresReferenceRepo(db *sql.DB) *PostgresReferenceRepo {
	return &PostgresReferenceRepo{db: db}
}

const referenceColumns = `id, title, short_description, long_description, category,
	        position, is_visible, is_featured,
	        image_mode, image_url, image_uploaded_url,
	        date_text, location, external_ref, created_at, updated_at`

func scanReference(scan func(dest ...any) error) (*model.Reference, error) {
	ref := &model.Reference{}
	var longDesc, category, imageURL, uploadedURL, dateText, location, externalRef sql.NullString

	err := scan(
		&ref.ID, &ref.Title, &ref.ShortDescription, &longDesc, &category,
		&ref.Position, &ref.IsVisible, &ref.IsFeatured,
		&ref.PrimaryImage.Mode, &imageURL, &uploadedURL,
		&dateText, &location, &externalRef, &ref.CreatedAt, &ref.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ref.LongDescription = nullStringValue(longDesc)
	ref.Category = nullStringValue(category)
	ref.PrimaryImage.URL = nullStringValue(imageURL)
	ref.PrimaryImage.UploadedURL = nullStringValue(uploadedURL)
	ref.DateText = nullStringValue(dateText)
	ref.Location = nullStringValue(location)
	ref.ExternalRef = nullStringValue(externalRef)
	ref.ParsedYear = catalog.ParseYear(ref.DateText)
	return ref, nil
}

// ListAll returns every reference with its child images joined and ParsedYear
// derived, sorted by (ParsedYear desc, Position asc).
func (r *PostgresReferenceRepo) ListAll(ctx context.Context) ([]model.Reference, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+referenceColumns+` FROM site_references ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	defer rows.Close()

	var refs []model.Reference
	index := make(map[string]int)
	for rows.Next() {
		ref, err := scanReference(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		index[ref.ID] = len(refs)
		refs = append(refs, *ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	imgRows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, image_mode, image_url, image_uploaded_url, position, created_at, updated_at
		 FROM reference_images ORDER BY owner_id, position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reference images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		img, err := scanSecondaryImage(imgRows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reference image: %w", err)
		}
		if i, ok := index[img.OwnerID]; ok {
			refs[i].Images = append(refs[i].Images, *img)
		}
	}
	if err := imgRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reference images: %w", err)
	}

	catalog.SortByYearPosition(refs)
	return refs, nil
}

// FindByID returns one reference with its child images, or nil when absent.
func (r *PostgresReferenceRepo) FindByID(ctx context.Context, id string) (*model.Reference, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+referenceColumns+` FROM site_references WHERE id = $1`, id)

	ref, err := scanReference(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find reference: %w", err)
	}

	images, err := r.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	ref.Images = images
	return ref, nil
}

// Create stores a new reference and assigns its id. The position is assigned
// at the end of the collection (max + 1, or 0 when empty) in the same
// statement and written back to ref.
func (r *PostgresReferenceRepo) Create(ctx context.Context, ref *model.Reference) error {
	if ref.ID == "" {
		ref.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO site_references
		   (id, title, short_description, long_description, category,
		    position, is_visible, is_featured,
		    image_mode, image_url, image_uploaded_url,
		    date_text, location, external_ref)
		 VALUES ($1, $2, $3, $4, $5,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM site_references),
		         $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING position`,
		ref.ID, ref.Title, ref.ShortDescription, ref.LongDescription, ref.Category,
		ref.IsVisible, ref.IsFeatured,
		ref.PrimaryImage.Mode, ref.PrimaryImage.URL, ref.PrimaryImage.UploadedURL,
		ref.DateText, ref.Location, ref.ExternalRef,
	).Scan(&ref.Position)
	if err != nil {
		return fmt.Errorf("failed to create reference: %w", err)
	}
	return nil
}

// Update rewrites a reference's own fields.
func (r *PostgresReferenceRepo) Update(ctx context.Context, ref *model.Reference) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE site_references SET
		   title = $2, short_description = $3, long_description = $4, category = $5,
		   position = $6, is_visible = $7, is_featured = $8,
		   image_mode = $9, image_url = $10, image_uploaded_url = $11,
		   date_text = $12, location = $13, external_ref = $14, updated_at = now()
		 WHERE id = $1`,
		ref.ID, ref.Title, ref.ShortDescription, ref.LongDescription, ref.Category,
		ref.Position, ref.IsVisible, ref.IsFeatured,
		ref.PrimaryImage.Mode, ref.PrimaryImage.URL, ref.PrimaryImage.UploadedURL,
		ref.DateText, ref.Location, ref.ExternalRef,
	)
	if err != nil {
		return fmt.Errorf("failed to update reference: %w", err)
	}
	return nil
}

// Delete removes a reference; reference_images rows cascade.
func (r *PostgresReferenceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM site_references WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reference: %w", err)
	}
	return nil
}

// Move swaps the reference's position with its adjacent sibling. The two
// writes are issued sequentially; a failure of the second leaves the first in
// place until the admin retries.
func (r *PostgresReferenceRepo) Move(ctx context.Context, id string, dir MoveDirection) error {
	return moveInTable(ctx, r.db, "site_references", id, dir)
}

func scanSecondaryImage(scan func(dest ...any) error) (*model.SecondaryImage, error) {
	img := &model.SecondaryImage{}
	var imageURL, uploadedURL sql.NullString

	err := scan(
		&img.ID, &img.OwnerID, &img.Spec.Mode, &imageURL, &uploadedURL,
		&img.Position, &img.CreatedAt, &img.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	img.Spec.URL = nullStringValue(imageURL)
	img.Spec.UploadedURL = nullStringValue(uploadedURL)
	return img, nil
}

// ListImages returns a reference's child images in position order.
func (r *PostgresReferenceRepo) ListImages(ctx context.Context, ownerID string) ([]model.SecondaryImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, image_mode, image_url, image_uploaded_url, position, created_at, updated_at
		 FROM reference_images WHERE owner_id = $1 ORDER BY position ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []model.SecondaryImage
	for rows.Next() {
		img, err := scanSecondaryImage(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, *img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate images: %w", err)
	}
	sort.SliceStable(images, func(i, j int) bool { return images[i].Position < images[j].Position })
	return images, nil
}

// InsertImage stores a new child image and assigns its id.
func (r *PostgresReferenceRepo) InsertImage(ctx context.Context, img *model.SecondaryImage) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reference_images (id, owner_id, image_mode, image_url, image_uploaded_url, position)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		img.ID, img.OwnerID, img.Spec.Mode, img.Spec.URL, img.Spec.UploadedURL, img.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

// UpdateImage rewrites a child image's spec and position.
func (r *PostgresReferenceRepo) UpdateImage(ctx context.Context, img *model.SecondaryImage) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reference_images SET
		   image_mode = $2, image_url = $3, image_uploaded_url = $4, position = $5, updated_at = now()
		 WHERE id = $1`,
		img.ID, img.Spec.Mode, img.Spec.URL, img.Spec.UploadedURL, img.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}
	return nil
}

// DeleteImage removes one child image.
func (r *PostgresReferenceRepo) DeleteImage(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reference_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
