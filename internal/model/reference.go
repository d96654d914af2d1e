// Package model defines the domain models.
package model

import "time"

// ImageMode selects which source an ImageSpec draws from.
type ImageMode string

const (
	// ImageModeAuto delegates resolution to the keyword fallback table.
	ImageModeAuto ImageMode = "auto"
	// ImageModeURL uses an admin-supplied external URL.
	ImageModeURL ImageMode = "url"
	// ImageModeUpload uses the public URL of an uploaded object.
	ImageModeUpload ImageMode = "upload"
)

// Valid reports whether the mode is one of the three known values.
func (m ImageMode) Valid() bool {
	return m == ImageModeAuto || m == ImageModeURL || m == ImageModeUpload
}

// ImageSpec describes one image source. Exactly one of URL/UploadedURL is
// meaningful, selected by Mode; under ImageModeAuto both are ignored and the
// owning entity's text fields drive the fallback resolver.
type ImageSpec struct {
	Mode        ImageMode
	URL         string
	UploadedURL string
}

// Reference is one entry of the references/realisations catalog.
// Position is a per-collection ordering key; adjacent move operations swap
// positions and must keep them a total order.
type Reference struct {
	ID               string
	Title            string
	ShortDescription string
	LongDescription  string
	Category         string
	Position         int
	IsVisible        bool
	IsFeatured       bool
	PrimaryImage     ImageSpec
	DateText         string
	Location         string
	ExternalRef      string
	// ParsedYear is derived at fetch time from the first 4-digit run in
	// DateText (0 when none). It is never stored.
	ParsedYear int
	Images     []SecondaryImage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SecondaryImage is one entry of a reference's ordered child-image collection.
type SecondaryImage struct {
	ID        string
	OwnerID   string
	Spec      ImageSpec
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
