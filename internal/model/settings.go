package model

import "time"

// SectionVisibility is the singleton set of per-section render flags. Every
// page reads it to decide which sections to render; only the admin dashboard
// writes it.
type SectionVisibility struct {
	ShowHero        bool
	ShowCompetences bool
	ShowDomains     bool
	ShowReferences  bool
	ShowFounder     bool
	ShowPartners    bool
	ShowContact     bool
	ShowChatbot     bool
	UpdatedAt       time.Time
}

// DefaultSectionVisibility returns the flags used before the singleton row
// exists: everything visible.
func DefaultSectionVisibility() SectionVisibility {
	return SectionVisibility{
		ShowHero:        true,
		ShowCompetences: true,
		ShowDomains:     true,
		ShowReferences:  true,
		ShowFounder:     true,
		ShowPartners:    true,
		ShowContact:     true,
		ShowChatbot:     true,
	}
}

// ColorTheme is the singleton site color pair.
type ColorTheme struct {
	PrimaryHex   string
	SecondaryHex string
	UpdatedAt    time.Time
}

// MediaType selects between a still image and a video for hero media.
type MediaType string

const (
	// MediaTypeImage is a still hero image.
	MediaTypeImage MediaType = "image"
	// MediaTypeVideo is a hero background video.
	MediaTypeVideo MediaType = "video"
)

// MediaSource selects where hero media comes from.
type MediaSource string

const (
	// MediaSourceUpload serves an uploaded object.
	MediaSourceUpload MediaSource = "upload"
	// MediaSourceURL embeds an external URL.
	MediaSourceURL MediaSource = "url"
)

// HeroPages lists the pages that carry hero media, in display order.
var HeroPages = []string{"home", "competences", "domains", "references"}

// HeroMedia is the per-page hero media setting (one singleton per page).
type HeroMedia struct {
	Page      string
	Type      MediaType
	Source    MediaSource
	MediaURL  string
	UpdatedAt time.Time
}

// ContactInfo is the singleton set of contact coordinates.
type ContactInfo struct {
	Address     string
	Phone       string
	Email       string
	MapEmbedURL string
	LinkedInURL string
	FacebookURL string
	UpdatedAt   time.Time
}

// Founder is the singleton founder bio.
type Founder struct {
	FullName  string
	RoleTitle string
	Bio       string
	Photo     ImageSpec
	UpdatedAt time.Time
}
