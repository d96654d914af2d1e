package model

import "time"

// TextKey is the composite identity of an editable text.
type TextKey struct {
	Page    string
	Section string
	Key     string
}

// SiteText is one inline-editable text record. Records are created lazily on
// the first save; until then the calling page's literal default stands in.
type SiteText struct {
	ID        string
	Page      string
	Section   string
	Key       string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TextKey returns the record's composite identity.
func (t *SiteText) TextKey() TextKey {
	return TextKey{Page: t.Page, Section: t.Section, Key: t.Key}
}
