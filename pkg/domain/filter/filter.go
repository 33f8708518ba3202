// Package filter builds the conjunctive row predicate behind the dashboard
// filters: activity type, time window, gear brand. Selections are explicit
// request-scoped values; there is no ambient filter state.
package filter

import (
	"sort"
	"time"

	"github.com/tomruns/stravadash/pkg/domain/activity"
)

// TimeMode selects the time clause of the predicate.
type TimeMode int

const (
	// TimeAll applies no time restriction.
	TimeAll TimeMode = iota
	// TimeRolling12Months matches rows with local start >= reference minus
	// 12 months.
	TimeRolling12Months
	// TimeYear matches rows whose local start year equals Year.
	TimeYear
)

// TimeSelection is the time clause. Year is only read when Mode is TimeYear.
type TimeSelection struct {
	Mode TimeMode
	Year int
}

// Selection holds the three filter clauses. All three are ANDed. An empty
// Types or Brands set matches nothing; that is deliberate, not "match all".
type Selection struct {
	Types  []string
	Time   TimeSelection
	Brands []string
}

// HighlightedTypes is the default activity type selection.
var HighlightedTypes = []string{"Run", "Hike", "Walk", "Ride"}

// DefaultSelection is the configuration used when the caller supplies no
// explicit filters: highlighted types present in the data, rolling 12
// months, every known brand.
func DefaultSelection(rows []activity.Row) Selection {
	present := make(map[string]bool)
	for _, r := range rows {
		present[r.Type] = true
	}
	var types []string
	for _, t := range HighlightedTypes {
		if present[t] {
			types = append(types, t)
		}
	}
	return Selection{
		Types:  types,
		Time:   TimeSelection{Mode: TimeRolling12Months},
		Brands: BrandOptions(rows),
	}
}

// Matches reports whether a row passes all three clauses. reference is the
// anchor for the rolling window, normally the latest local start time in
// the snapshot.
func (s Selection) Matches(r activity.Row, reference time.Time) bool {
	if !contains(s.Types, r.Type) {
		return false
	}

	switch s.Time.Mode {
	case TimeRolling12Months:
		if r.StartDateLocal.Before(reference.AddDate(0, -12, 0)) {
			return false
		}
	case TimeYear:
		if r.Calendar.Year != s.Time.Year {
			return false
		}
	}

	// A row with no joined gear has no brand and never matches the brand
	// clause, whatever the selection.
	if r.GearBrand == nil || !contains(s.Brands, *r.GearBrand) {
		return false
	}

	return true
}

// Apply filters rows by the selection, preserving order.
func Apply(rows []activity.Row, sel Selection, reference time.Time) []activity.Row {
	out := make([]activity.Row, 0, len(rows))
	for _, r := range rows {
		if sel.Matches(r, reference) {
			out = append(out, r)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// TypeOptions returns the distinct activity types ordered by frequency,
// most common first.
func TypeOptions(rows []activity.Row) []string {
	return byFrequency(rows, func(r activity.Row) (string, bool) {
		return r.Type, true
	})
}

// BrandOptions returns the distinct gear brands ordered by frequency.
func BrandOptions(rows []activity.Row) []string {
	return byFrequency(rows, func(r activity.Row) (string, bool) {
		if r.GearBrand == nil {
			return "", false
		}
		return *r.GearBrand, true
	})
}

// YearOptions returns the distinct years, newest first.
func YearOptions(rows []activity.Row) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range rows {
		if !seen[r.Calendar.Year] {
			seen[r.Calendar.Year] = true
			years = append(years, r.Calendar.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func byFrequency(rows []activity.Row, key func(activity.Row) (string, bool)) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		k, ok := key(r)
		if !ok {
			continue
		}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}
