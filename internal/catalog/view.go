package catalog

import "github.com/sadokz/lamaitrise/internal/model"

// collapsedLimit is how many items a collapsed category section shows.
const collapsedLimit = 3

// FilterAll is the filter value showing every category as grouped sections.
const FilterAll = "all"

// ScrollKind tells the caller what scroll the view should perform after a
// navigation action.
type ScrollKind string

const (
	// ScrollNone leaves the scroll position alone.
	ScrollNone ScrollKind = "none"
	// ScrollTop scrolls to the top of the page.
	ScrollTop ScrollKind = "top"
	// ScrollToSection smooth-scrolls to the named category's section.
	ScrollToSection ScrollKind = "section"
)

// NavAction is the outcome of a navigation input.
type NavAction struct {
	Scroll   ScrollKind
	Category string // set when Scroll is ScrollToSection
}

// ViewState is the catalog page's navigation state: the selected category
// filter and the set of expanded sections. It is the library form of the
// page's client-side navigation rules; the HTTP surface exposes only the
// derivations (grouping, counts, active section). Selecting "all" and jumping
// to a section are distinct inputs reachable from different affordances and
// stay distinguishable here.
type ViewState struct {
	filter   string
	expanded map[string]bool
}

// NewViewState returns the initial state: filter "all", everything collapsed.
func NewViewState() *ViewState {
	return &ViewState{filter: FilterAll, expanded: make(map[string]bool)}
}

// Filter returns the selected category filter.
func (v *ViewState) Filter() string { return v.filter }

// SelectFilter applies a filter chosen from the category buttons. Changing the
// filter collapses every section back to the compact state. "all" scrolls to
// the page top; a specific category renders only that category's items with no
// grouping headers and no scroll.
func (v *ViewState) SelectFilter(category string) NavAction {
	if category != v.filter {
		v.expanded = make(map[string]bool)
	}
	v.filter = category
	if category == FilterAll {
		return NavAction{Scroll: ScrollTop}
	}
	return NavAction{Scroll: ScrollNone}
}

// JumpToSection handles the "jump to section" affordance. While the filter is
// "all" it scrolls to the existing section without touching the filter or the
// expanded set; under a specific filter the sections do not exist, so the
// input degrades to selecting that category.
func (v *ViewState) JumpToSection(category string) NavAction {
	if v.filter == FilterAll {
		return NavAction{Scroll: ScrollToSection, Category: category}
	}
	return v.SelectFilter(category)
}

// ToggleExpanded flips one category between compact and expanded.
func (v *ViewState) ToggleExpanded(category string) {
	if v.expanded[category] {
		delete(v.expanded, category)
	} else {
		v.expanded[category] = true
	}
}

// IsExpanded reports whether a category shows its full item list.
func (v *ViewState) IsExpanded(category string) bool { return v.expanded[category] }

// VisibleIn returns the slice of a group's items the view should render: the
// full list when expanded, otherwise at most collapsedLimit items.
func (v *ViewState) VisibleIn(g Group) []model.Reference {
	if v.expanded[g.Category] || len(g.Items) <= collapsedLimit {
		return g.Items
	}
	return g.Items[:collapsedLimit]
}

// FilteredItems returns the flat item list for a specific-category filter,
// sorted like a rendered group. Under "all" it returns nil; callers render
// grouped sections instead.
func (v *ViewState) FilteredItems(items []model.Reference) []model.Reference {
	if v.filter == FilterAll {
		return nil
	}
	out := make([]model.Reference, 0)
	for _, it := range Visible(items) {
		if it.Category == v.filter {
			out = append(out, it)
		}
	}
	SortByYearPosition(out)
	return out
}
