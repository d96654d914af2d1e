// Package images provides image-source resolution for catalog entities and
// the reconciliation of edited secondary-image sets against the store.
package images

import (
	"strings"

	"github.com/sadokz/lamaitrise/internal/model"
)

// keywordEntry is one (keyword, URL) pair of the fallback table.
type keywordEntry struct {
	keyword string
	url     string
}

// fallbackTable is the ordered keyword table behind ImageModeAuto. The first
// keyword that is a substring of the search text wins, so iteration order is
// part of the contract: the table is a slice, never a map. Several keywords
// intentionally share a URL ("hôpital", "hospitalier", "clinique"); when two
// matching keywords map to different URLs, whichever appears first here wins.
var fallbackTable = []keywordEntry{
	{"hôpital", "https://images.unsplash.com/photo-1586773860418-d37222d8fce3?w=1200&q=80"},
	{"hospitalier", "https://images.unsplash.com/photo-1586773860418-d37222d8fce3?w=1200&q=80"},
	{"clinique", "https://images.unsplash.com/photo-1586773860418-d37222d8fce3?w=1200&q=80"},
	{"santé", "https://images.unsplash.com/photo-1538108149393-fbbd81895907?w=1200&q=80"},
	{"école", "https://images.unsplash.com/photo-1580582932707-520aed937b7b?w=1200&q=80"},
	{"université", "https://images.unsplash.com/photo-1562774053-701939374585?w=1200&q=80"},
	{"institut", "https://images.unsplash.com/photo-1562774053-701939374585?w=1200&q=80"},
	{"lycée", "https://images.unsplash.com/photo-1580582932707-520aed937b7b?w=1200&q=80"},
	{"pont", "https://images.unsplash.com/photo-1473773508845-188df298d2d1?w=1200&q=80"},
	{"autoroute", "https://images.unsplash.com/photo-1470093851219-69951fcbb533?w=1200&q=80"},
	{"route", "https://images.unsplash.com/photo-1469854523086-cc02fe5d8800?w=1200&q=80"},
	{"voirie", "https://images.unsplash.com/photo-1469854523086-cc02fe5d8800?w=1200&q=80"},
	{"aéroport", "https://images.unsplash.com/photo-1436491865332-7a61a109cc05?w=1200&q=80"},
	{"port", "https://images.unsplash.com/photo-1494412519320-aa613dfb7738?w=1200&q=80"},
	{"gare", "https://images.unsplash.com/photo-1474487548417-781cb71495f3?w=1200&q=80"},
	{"chemin de fer", "https://images.unsplash.com/photo-1474487548417-781cb71495f3?w=1200&q=80"},
	{"barrage", "https://images.unsplash.com/photo-1544551763-46a013bb70d5?w=1200&q=80"},
	{"assainissement", "https://images.unsplash.com/photo-1504328345606-18bbc8c9d7d1?w=1200&q=80"},
	{"eau", "https://images.unsplash.com/photo-1504328345606-18bbc8c9d7d1?w=1200&q=80"},
	{"solaire", "https://images.unsplash.com/photo-1509391366360-2e959784a276?w=1200&q=80"},
	{"photovolta", "https://images.unsplash.com/photo-1509391366360-2e959784a276?w=1200&q=80"},
	{"éolien", "https://images.unsplash.com/photo-1466611653911-95081537e5b7?w=1200&q=80"},
	{"énergie", "https://images.unsplash.com/photo-1473341304170-971dccb5ac1e?w=1200&q=80"},
	{"électri", "https://images.unsplash.com/photo-1473341304170-971dccb5ac1e?w=1200&q=80"},
	{"éclairage", "https://images.unsplash.com/photo-1542574271-7f3b92e6c821?w=1200&q=80"},
	{"poste", "https://images.unsplash.com/photo-1467533003447-e295ff1b0435?w=1200&q=80"},
	{"transformateur", "https://images.unsplash.com/photo-1467533003447-e295ff1b0435?w=1200&q=80"},
	{"réseau", "https://images.unsplash.com/photo-1467533003447-e295ff1b0435?w=1200&q=80"},
	{"télécom", "https://images.unsplash.com/photo-1516044734145-07ca8eef8731?w=1200&q=80"},
	{"usine", "https://images.unsplash.com/photo-1581093458791-9f3c3900df4b?w=1200&q=80"},
	{"industri", "https://images.unsplash.com/photo-1581093458791-9f3c3900df4b?w=1200&q=80"},
	{"hôtel", "https://images.unsplash.com/photo-1566073771259-6a8506099945?w=1200&q=80"},
	{"tourisme", "https://images.unsplash.com/photo-1566073771259-6a8506099945?w=1200&q=80"},
	{"stade", "https://images.unsplash.com/photo-1459865264687-595d652de67e?w=1200&q=80"},
	{"sport", "https://images.unsplash.com/photo-1459865264687-595d652de67e?w=1200&q=80"},
	{"mosquée", "https://images.unsplash.com/photo-1564769625905-50e93615e769?w=1200&q=80"},
	{"marché", "https://images.unsplash.com/photo-1513125370-3460ebe3401b?w=1200&q=80"},
	{"commercial", "https://images.unsplash.com/photo-1519567241046-7f570eee3ce6?w=1200&q=80"},
	{"bureau", "https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?w=1200&q=80"},
	{"siège", "https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?w=1200&q=80"},
	{"résiden", "https://images.unsplash.com/photo-1545324418-cc1a3fa10c00?w=1200&q=80"},
	{"logement", "https://images.unsplash.com/photo-1545324418-cc1a3fa10c00?w=1200&q=80"},
	{"immeuble", "https://images.unsplash.com/photo-1486325212027-8081e485255e?w=1200&q=80"},
	{"bâtiment", "https://images.unsplash.com/photo-1486325212027-8081e485255e?w=1200&q=80"},
	{"aménagement", "https://images.unsplash.com/photo-1503387762-592deb58ef4e?w=1200&q=80"},
	{"infrastructure", "https://images.unsplash.com/photo-1541888946425-d81bb19240f5?w=1200&q=80"},
	{"default", "https://images.unsplash.com/photo-1504307651254-35680f356dfd?w=1200&q=80"},
}

// Resolve returns the fallback image URL for free entity text. The text is
// lower-cased, then the table is scanned in insertion order for the first
// keyword contained in it; defaultKey's entry backstops a miss, and an absent
// defaultKey yields the empty string. Pure and deterministic.
func Resolve(searchText, defaultKey string) string {
	text := strings.ToLower(searchText)
	for _, e := range fallbackTable {
		if strings.Contains(text, e.keyword) {
			return e.url
		}
	}
	for _, e := range fallbackTable {
		if e.keyword == defaultKey {
			return e.url
		}
	}
	return ""
}

// ResolveSpec returns the display URL for an ImageSpec. Under ImageModeAuto
// the owning entity's text fields drive the fallback table.
func ResolveSpec(spec model.ImageSpec, searchText, defaultKey string) string {
	switch spec.Mode {
	case model.ImageModeURL:
		return spec.URL
	case model.ImageModeUpload:
		return spec.UploadedURL
	default:
		return Resolve(searchText, defaultKey)
	}
}

// SearchText joins an entity's descriptive fields into the resolver input.
func SearchText(parts ...string) string {
	return strings.Join(parts, " ")
}
