package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sadokz/lamaitrise/internal/model"
)

// PostgresSettingsRepo is the PostgreSQL settings repository. Each setting is
// a singleton row with a fixed id of 1 (hero media is one singleton per page),
// written with INSERT ... ON CONFLICT so the first save creates the row.
type PostgresSettingsRepo struct {
	db *sql.DB
}

// NewPostgresSettingsRepo creates a PostgresSettingsRepo.
func NewPostgresSettingsRepo(db *sql.DB) *PostgresSettingsRepo {
	return &PostgresSettingsRepo{db: db}
}

// GetSectionVisibility returns the visibility flags, defaulting to everything
// visible while the row does not exist.
func (r *PostgresSettingsRepo) GetSectionVisibility(ctx context.Context) (model.SectionVisibility, error) {
	v := model.SectionVisibility{}
	err := r.db.QueryRowContext(ctx,
		`SELECT show_hero, show_competences, show_domains, show_references,
		        show_founder, show_partners, show_contact, show_chatbot, updated_at
		 FROM section_visibility WHERE id = 1`,
	).Scan(&v.ShowHero, &v.ShowCompetences, &v.ShowDomains, &v.ShowReferences,
		&v.ShowFounder, &v.ShowPartners, &v.ShowContact, &v.ShowChatbot, &v.UpdatedAt)

	if err == sql.ErrNoRows {
		return model.DefaultSectionVisibility(), nil
	}
	if err != nil {
		return v, fmt.Errorf("failed to load section visibility: %w", err)
	}
	return v, nil
}

// SaveSectionVisibility upserts the visibility flags.
func (r *PostgresSettingsRepo) SaveSectionVisibility(ctx context.Context, v model.SectionVisibility) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO section_visibility
		   (id, show_hero, show_competences, show_domains, show_references,
		    show_founder, show_partners, show_contact, show_chatbot)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   show_hero = $1, show_competences = $2, show_domains = $3, show_references = $4,
		   show_founder = $5, show_partners = $6, show_contact = $7, show_chatbot = $8,
		   updated_at = now()`,
		v.ShowHero, v.ShowCompetences, v.ShowDomains, v.ShowReferences,
		v.ShowFounder, v.ShowPartners, v.ShowContact, v.ShowChatbot,
	)
	if err != nil {
		return fmt.Errorf("failed to save section visibility: %w", err)
	}
	return nil
}

// GetColorTheme returns the color theme, empty while unset.
func (r *PostgresSettingsRepo) GetColorTheme(ctx context.Context) (model.ColorTheme, error) {
	t := model.ColorTheme{}
	err := r.db.QueryRowContext(ctx,
		`SELECT primary_hex, secondary_hex, updated_at FROM color_theme WHERE id = 1`,
	).Scan(&t.PrimaryHex, &t.SecondaryHex, &t.UpdatedAt)

	if err == sql.ErrNoRows {
		return model.ColorTheme{}, nil
	}
	if err != nil {
		return t, fmt.Errorf("failed to load color theme: %w", err)
	}
	return t, nil
}

// SaveColorTheme upserts the color theme.
func (r *PostgresSettingsRepo) SaveColorTheme(ctx context.Context, t model.ColorTheme) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO color_theme (id, primary_hex, secondary_hex)
		 VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET
		   primary_hex = $1, secondary_hex = $2, updated_at = now()`,
		t.PrimaryHex, t.SecondaryHex,
	)
	if err != nil {
		return fmt.Errorf("failed to save color theme: %w", err)
	}
	return nil
}

// GetHeroMedia returns one page's hero setting, or nil when unset.
func (r *PostgresSettingsRepo) GetHeroMedia(ctx context.Context, page string) (*model.HeroMedia, error) {
	h := &model.HeroMedia{}
	var mediaURL sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT page, media_type, media_source, media_url, updated_at
		 FROM hero_media WHERE page = $1`, page,
	).Scan(&h.Page, &h.Type, &h.Source, &mediaURL, &h.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hero media: %w", err)
	}
	h.MediaURL = nullStringValue(mediaURL)
	return h, nil
}

// SaveHeroMedia upserts one page's hero setting.
func (r *PostgresSettingsRepo) SaveHeroMedia(ctx context.Context, h model.HeroMedia) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO hero_media (page, media_type, media_source, media_url)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (page) DO UPDATE SET
		   media_type = $2, media_source = $3, media_url = $4, updated_at = now()`,
		h.Page, h.Type, h.Source, h.MediaURL,
	)
	if err != nil {
		return fmt.Errorf("failed to save hero media: %w", err)
	}
	return nil
}

// GetContactInfo returns the contact coordinates, empty while unset.
func (r *PostgresSettingsRepo) GetContactInfo(ctx context.Context) (model.ContactInfo, error) {
	c := model.ContactInfo{}
	var mapURL, linkedin, facebook sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT address, phone, email, map_embed_url, linkedin_url, facebook_url, updated_at
		 FROM contact_info WHERE id = 1`,
	).Scan(&c.Address, &c.Phone, &c.Email, &mapURL, &linkedin, &facebook, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return model.ContactInfo{}, nil
	}
	if err != nil {
		return c, fmt.Errorf("failed to load contact info: %w", err)
	}
	c.MapEmbedURL = nullStringValue(mapURL)
	c.LinkedInURL = nullStringValue(linkedin)
	c.FacebookURL = nullStringValue(facebook)
	return c, nil
}

// SaveContactInfo upserts the contact coordinates.
func (r *PostgresSettingsRepo) SaveContactInfo(ctx context.Context, c model.ContactInfo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_info (id, address, phone, email, map_embed_url, linkedin_url, facebook_url)
		 VALUES (1, $1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   address = $1, phone = $2, email = $3, map_embed_url = $4,
		   linkedin_url = $5, facebook_url = $6, updated_at = now()`,
		c.Address, c.Phone, c.Email, c.MapEmbedURL, c.LinkedInURL, c.FacebookURL,
	)
	if err != nil {
		return fmt.Errorf("failed to save contact info: %w", err)
	}
	return nil
}

// GetFounder returns the founder bio, or nil when unset.
func (r *PostgresSettingsRepo) GetFounder(ctx context.Context) (*model.Founder, error) {
	f := &model.Founder{}
	var imageURL, uploadedURL sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT full_name, role_title, bio, image_mode, image_url, image_uploaded_url, updated_at
		 FROM founder WHERE id = 1`,
	).Scan(&f.FullName, &f.RoleTitle, &f.Bio, &f.Photo.Mode, &imageURL, &uploadedURL, &f.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load founder: %w", err)
	}
	f.Photo.URL = nullStringValue(imageURL)
	f.Photo.UploadedURL = nullStringValue(uploadedURL)
	return f, nil
}

// SaveFounder upserts the founder bio.
func (r *PostgresSettingsRepo) SaveFounder(ctx context.Context, f model.Founder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO founder (id, full_name, role_title, bio, image_mode, image_url, image_uploaded_url)
		 VALUES (1, $1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   full_name = $1, role_title = $2, bio = $3,
		   image_mode = $4, image_url = $5, image_uploaded_url = $6, updated_at = now()`,
		f.FullName, f.RoleTitle, f.Bio, f.Photo.Mode, f.Photo.URL, f.Photo.UploadedURL,
	)
	if err != nil {
		return fmt.Errorf("failed to save founder: %w", err)
	}
	return nil
}
