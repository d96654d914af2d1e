// Package catalog provides the derivations and view state behind the
// references/realisations catalog: visibility filters, category grouping,
// year-based ordering, per-category counts, and the scroll-synchronized
// active-section tracking used by the category navigation.
package catalog

import (
	"regexp"
	"sort"

	"github.com/sadokz/lamaitrise/internal/model"
)

// yearPattern matches the first run of four consecutive digits. Date fields
// are free text ("Q4 2023", "Projet en cours"), so this is the only contract:
// the first 4-digit run is the year, absence means 0.
var yearPattern = regexp.MustCompile(`\d{4}`)

// ParseYear extracts the sort year from a free-text date field.
func ParseYear(dateText string) int {
	m := yearPattern.FindString(dateText)
	if m == "" {
		return 0
	}
	year := 0
	for _, c := range m {
		year = year*10 + int(c-'0')
	}
	return year
}

// Visible returns the items flagged visible, in input order.
func Visible(items []model.Reference) []model.Reference {
	out := make([]model.Reference, 0, len(items))
	for _, it := range items {
		if it.IsVisible {
			out = append(out, it)
		}
	}
	return out
}

// FeaturedVisible returns the items flagged both visible and featured.
func FeaturedVisible(items []model.Reference) []model.Reference {
	out := make([]model.Reference, 0, len(items))
	for _, it := range items {
		if it.IsVisible && it.IsFeatured {
			out = append(out, it)
		}
	}
	return out
}

// SortByYearPosition orders items by ParsedYear descending, Position ascending
// among equal years. The sort is stable so equal keys keep input order.
func SortByYearPosition(items []model.Reference) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ParsedYear != items[j].ParsedYear {
			return items[i].ParsedYear > items[j].ParsedYear
		}
		return items[i].Position < items[j].Position
	})
}

// Group is one rendered category section.
type Group struct {
	Category string
	Items    []model.Reference
}

// GroupByCategory partitions the visible items into category groups, each
// sorted by (ParsedYear desc, Position asc). Groups follow domainTitles order;
// categories absent from domainTitles trail in first-appearance order. Empty
// groups are not returned: counts and rendered sections are computed
// separately and may disagree.
func GroupByCategory(items []model.Reference, domainTitles []string) []Group {
	visible := Visible(items)

	byCategory := make(map[string][]model.Reference)
	var extraOrder []string
	known := make(map[string]bool, len(domainTitles))
	for _, t := range domainTitles {
		known[t] = true
	}
	for _, it := range visible {
		if _, seen := byCategory[it.Category]; !seen && !known[it.Category] {
			extraOrder = append(extraOrder, it.Category)
		}
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	order := append(append([]string{}, domainTitles...), extraOrder...)
	groups := make([]Group, 0, len(byCategory))
	for _, cat := range order {
		list := byCategory[cat]
		if len(list) == 0 {
			continue
		}
		SortByYearPosition(list)
		groups = append(groups, Group{Category: cat, Items: list})
	}
	return groups
}

// CountAllKey is the counts map key for the unfiltered total.
const CountAllKey = "all"

// Counts returns the per-category visible-item counts keyed by domain title,
// plus the unfiltered total under CountAllKey. A domain with no matching items
// still appears with count 0 even though no section is rendered for it.
func Counts(items []model.Reference, domainTitles []string) map[string]int {
	visible := Visible(items)
	counts := make(map[string]int, len(domainTitles)+1)
	counts[CountAllKey] = len(visible)
	for _, t := range domainTitles {
		counts[t] = 0
	}
	for _, it := range visible {
		if _, ok := counts[it.Category]; ok {
			counts[it.Category]++
		}
	}
	return counts
}
