package catalog

import "github.com/sadokz/lamaitrise/internal/model"

// SectionRect is the reported viewport-relative geometry of one rendered
// category section. Top and Bottom are in CSS pixels; Top may be negative when
// the section starts above the viewport.
type SectionRect struct {
	Category string  `json:"category"`
	Top      float64 `json:"top"`
	Bottom   float64 `json:"bottom"`
}

// Height returns the section's full height.
func (s SectionRect) Height() float64 { return s.Bottom - s.Top }

// visibleRatio returns the fraction of the section inside the viewport.
func (s SectionRect) visibleRatio(viewportHeight float64) float64 {
	h := s.Height()
	if h <= 0 {
		return 0
	}
	top := s.Top
	if top < 0 {
		top = 0
	}
	bottom := s.Bottom
	if bottom > viewportHeight {
		bottom = viewportHeight
	}
	if bottom <= top {
		return 0
	}
	return (bottom - top) / h
}

// activeVisibleThreshold is the intersection ratio at which a section claims
// the active slot outright.
const activeVisibleThreshold = 0.5

// ActiveSection resolves which category section is "active" for the given
// geometry. First tier: the first section at least half visible. Second tier:
// fast scrolling can skip the half-visible state entirely, so fall back to the
// section whose top edge sits above the viewport's vertical midpoint, choosing
// the one closest to that midpoint. If nothing qualifies the first section
// wins, so the result is always deterministic for a non-empty input.
func ActiveSection(sections []SectionRect, viewportHeight float64) (string, error) {
	if len(sections) == 0 || viewportHeight <= 0 {
		return "", model.NewValidationError("geometry", "no sections or non-positive viewport")
	}

	for _, s := range sections {
		if s.visibleRatio(viewportHeight) >= activeVisibleThreshold {
			return s.Category, nil
		}
	}

	midpoint := viewportHeight / 2
	best := -1
	for i, s := range sections {
		if s.Top >= midpoint {
			continue
		}
		if best < 0 || s.Top > sections[best].Top {
			best = i
		}
	}
	if best >= 0 {
		return sections[best].Category, nil
	}
	return sections[0].Category, nil
}
