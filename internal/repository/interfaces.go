// Package repository defines the persistence interfaces and their PostgreSQL
// implementations. The store is the single source of truth; callers refetch
// after mutations rather than relying on any push-based invalidation.
package repository

import (
	"context"

	"github.com/sadokz/lamaitrise/internal/model"
)

// MoveDirection selects which adjacent sibling a move swaps with.
type MoveDirection string

const (
	// MoveUp swaps with the previous sibling in position order.
	MoveUp MoveDirection = "up"
	// MoveDown swaps with the next sibling in position order.
	MoveDown MoveDirection = "down"
)

// ReferenceRepository persists the references/realisations catalog and its
// child-image collections.
type ReferenceRepository interface {
	// ListAll returns every reference with its child images joined and
	// ParsedYear derived, sorted by (ParsedYear desc, Position asc).
	ListAll(ctx context.Context) ([]model.Reference, error)

	// FindByID returns one reference with its child images, or nil when
	// absent.
	FindByID(ctx context.Context, id string) (*model.Reference, error)

	// Create stores a new reference, assigning its id and the next free
	// position at the end of the collection.
	Create(ctx context.Context, ref *model.Reference) error

	// Update rewrites a reference's own fields. Child images are managed
	// through the image methods.
	Update(ctx context.Context, ref *model.Reference) error

	// Delete removes a reference. Child images go with it (FK cascade).
	Delete(ctx context.Context, id string) error

	// Move swaps the reference's position with its adjacent sibling in
	// position order. Moving the first up or the last down is a no-op. The
	// two writes are sequential and not rolled back together.
	Move(ctx context.Context, id string, dir MoveDirection) error

	// ListImages returns a reference's child images in position order.
	ListImages(ctx context.Context, ownerID string) ([]model.SecondaryImage, error)

	// InsertImage stores a new child image and assigns its id.
	InsertImage(ctx context.Context, img *model.SecondaryImage) error

	// UpdateImage rewrites a child image's spec and position.
	UpdateImage(ctx context.Context, img *model.SecondaryImage) error

	// DeleteImage removes one child image.
	DeleteImage(ctx context.Context, id string) error
}

// DomainRepository persists the domains of activity.
type DomainRepository interface {
	// ListAll returns every domain ordered by position ascending.
	ListAll(ctx context.Context) ([]model.Domain, error)
	// FindByID returns one domain, or nil when absent.
	FindByID(ctx context.Context, id string) (*model.Domain, error)
	// Create stores a new domain, assigning its id and the next free position.
	Create(ctx context.Context, d *model.Domain) error
	// Update rewrites a domain.
	Update(ctx context.Context, d *model.Domain) error
	// Delete removes a domain.
	Delete(ctx context.Context, id string) error
	// Move swaps positions with the adjacent sibling; boundary moves no-op.
	Move(ctx context.Context, id string, dir MoveDirection) error
}

// CompetenceRepository persists the competences.
type CompetenceRepository interface {
	// ListAll returns every competence ordered by position ascending.
	ListAll(ctx context.Context) ([]model.Competence, error)
	// FindByID returns one competence, or nil when absent.
	FindByID(ctx context.Context, id string) (*model.Competence, error)
	// Create stores a new competence, assigning its id and the next free position.
	Create(ctx context.Context, c *model.Competence) error
	// Update rewrites a competence.
	Update(ctx context.Context, c *model.Competence) error
	// Delete removes a competence.
	Delete(ctx context.Context, id string) error
	// Move swaps positions with the adjacent sibling; boundary moves no-op.
	Move(ctx context.Context, id string, dir MoveDirection) error
}

// SiteTextRepository persists the inline-editable texts, keyed by the
// composite (page, section, key).
type SiteTextRepository interface {
	// FindByKey returns the record for the composite key, or nil when the
	// text was never saved.
	FindByKey(ctx context.Context, key model.TextKey) (*model.SiteText, error)
	// ListByPage returns every saved text of a page.
	ListByPage(ctx context.Context, page string) ([]*model.SiteText, error)
	// Insert creates a record.
	Insert(ctx context.Context, text *model.SiteText) error
	// UpdateContent rewrites one record's content.
	UpdateContent(ctx context.Context, id, content string) error
}

// SettingsRepository persists the singleton settings rows. Get methods return
// defaults when the singleton row does not exist yet; Save methods upsert.
type SettingsRepository interface {
	GetSectionVisibility(ctx context.Context) (model.SectionVisibility, error)
	SaveSectionVisibility(ctx context.Context, v model.SectionVisibility) error

	GetColorTheme(ctx context.Context) (model.ColorTheme, error)
	SaveColorTheme(ctx context.Context, t model.ColorTheme) error

	// GetHeroMedia returns the hero setting for one page, or nil when unset.
	GetHeroMedia(ctx context.Context, page string) (*model.HeroMedia, error)
	SaveHeroMedia(ctx context.Context, h model.HeroMedia) error

	GetContactInfo(ctx context.Context) (model.ContactInfo, error)
	SaveContactInfo(ctx context.Context, c model.ContactInfo) error

	// GetFounder returns the founder bio, or nil when unset.
	GetFounder(ctx context.Context) (*model.Founder, error)
	SaveFounder(ctx context.Context, f model.Founder) error
}

// AdminRepository persists administrator accounts.
type AdminRepository interface {
	// FindByEmail returns the admin with the given email, or nil.
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	// FindByID returns the admin with the given id, or nil.
	FindByID(ctx context.Context, id string) (*model.Admin, error)
	// Count returns the number of admin accounts.
	Count(ctx context.Context) (int, error)
	// Create stores a new admin and assigns its id.
	Create(ctx context.Context, admin *model.Admin) error
}

// SessionRepository persists admin sessions.
type SessionRepository interface {
	// Create stores a session.
	Create(ctx context.Context, session *model.Session) error
	// FindByID returns the session, or nil when absent or expired.
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// SetEditMode flips the session's inline-editing flag.
	SetEditMode(ctx context.Context, id string, editMode bool) error
	// DeleteByID removes a session.
	DeleteByID(ctx context.Context, id string) error
}
