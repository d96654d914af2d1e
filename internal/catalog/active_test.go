package catalog

import "testing"

// Three stacked sections, each taller than the viewport. Section 2's top at
// 40% of viewport height leaves it ≥50% visible, so it is active outright.
func TestActiveSection_HalfVisibleWins(t *testing.T) {
	const vh = 1000.0
	sections := []SectionRect{
		{Category: "s1", Top: -800, Bottom: 400},
		{Category: "s2", Top: 400, Bottom: 1500}, // 400..1000 visible = 600/1100 > 50%
		{Category: "s3", Top: 1500, Bottom: 2700},
	}

	got, err := ActiveSection(sections, vh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "s2" {
		t.Errorf("active = %q, want s2", got)
	}
}

// When no section reaches 50% visibility the fallback picks the section whose
// top edge is closest to, but above, the viewport midpoint.
func TestActiveSection_MidpointFallback(t *testing.T) {
	const vh = 1000.0
	sections := []SectionRect{
		{Category: "s1", Top: -3200, Bottom: -1200},
		{Category: "s2", Top: -1200, Bottom: 800}, // 800/2000 = 40% visible
		{Category: "s3", Top: 800, Bottom: 2800},  // 200/2000 = 10% visible
	}

	got, err := ActiveSection(sections, vh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// s2's top (-1200) is above the midpoint (500); s3's top (800) is below.
	if got != "s2" {
		t.Errorf("active = %q, want s2", got)
	}
}

// If every top edge sits below the midpoint the first section still wins, so
// the result is deterministic for any non-empty input.
func TestActiveSection_DefaultsToFirst(t *testing.T) {
	sections := []SectionRect{
		{Category: "s1", Top: 600, Bottom: 4000},
		{Category: "s2", Top: 4000, Bottom: 8000},
	}
	got, err := ActiveSection(sections, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "s1" {
		t.Errorf("active = %q, want s1", got)
	}
}

func TestActiveSection_RejectsEmptyInput(t *testing.T) {
	if _, err := ActiveSection(nil, 1000); err == nil {
		t.Error("expected error for empty section list")
	}
	if _, err := ActiveSection([]SectionRect{{Category: "s1", Top: 0, Bottom: 100}}, 0); err == nil {
		t.Error("expected error for non-positive viewport height")
	}
}

// Exactly one candidate above the midpoint, several below.
func TestActiveSection_ClosestAboveMidpoint(t *testing.T) {
	const vh = 1000.0
	sections := []SectionRect{
		{Category: "s1", Top: -5000, Bottom: -3000},
		{Category: "s2", Top: -3000, Bottom: 450},
		{Category: "s3", Top: 450, Bottom: 460}, // tiny section fully visible but above threshold check first
	}
	// s3 is 100% visible, first tier picks it.
	got, err := ActiveSection(sections, vh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "s3" {
		t.Errorf("active = %q, want s3", got)
	}
}
