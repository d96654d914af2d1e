package model

import "time"

// Domain is one domain of activity shown on the domains page. Domain titles
// double as the category keys of the references catalog.
type Domain struct {
	ID               string
	Title            string
	ShortDescription string
	LongDescription  string
	Position         int
	IsVisible        bool
	PrimaryImage     ImageSpec
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Competence is one competence entry shown on the competences page.
type Competence struct {
	ID               string
	Title            string
	ShortDescription string
	LongDescription  string
	Position         int
	IsVisible        bool
	PrimaryImage     ImageSpec
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
