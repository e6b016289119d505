// Package viewmodel derives the per-view models from fetched collections.
// Everything here is a pure transformation; fetching, triggers and
// rendering live in the tui package.
package viewmodel

import (
	"fmt"
	"sort"
	"time"

	"github.com/memorylane/memorylane/internal/client/models"
)

// TimelineGroup is one calendar month of memories, newest first.
type TimelineGroup struct {
	Label string // e.g. "June 2023"
	Year  int
	Month time.Month
	Items []models.Memory
}

// GroupTimeline buckets memories by the calendar month and year of their
// effective date, groups and items both descending by date.
func GroupTimeline(memories []models.Memory) []TimelineGroup {
	sorted := make([]models.Memory, len(memories))
	copy(sorted, memories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate().After(sorted[j].EffectiveDate())
	})

	var groups []TimelineGroup
	index := map[string]int{}
	for _, m := range sorted {
		d := m.EffectiveDate()
		key := fmt.Sprintf("%04d-%02d", d.Year(), d.Month())
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, TimelineGroup{
				Label: d.Format("January 2006"),
				Year:  d.Year(),
				Month: d.Month(),
			})
		}
		groups[i].Items = append(groups[i].Items, m)
	}
	return groups
}

// AnniversaryLabel returns a marker like "3 Years Ago Today" when the
// memory's effective month+day matches today and the year differs, else "".
func AnniversaryLabel(m models.Memory, now time.Time) string {
	d := m.EffectiveDate()
	if d.IsZero() || d.Month() != now.Month() || d.Day() != now.Day() {
		return ""
	}
	years := now.Year() - d.Year()
	if years <= 0 {
		return ""
	}
	if years == 1 {
		return "1 Year Ago Today"
	}
	return fmt.Sprintf("%d Years Ago Today", years)
}

// OnThisDay keeps only memories whose effective month+day match today.
func OnThisDay(memories []models.Memory, now time.Time) []models.Memory {
	var out []models.Memory
	for _, m := range memories {
		d := m.EffectiveDate()
		if d.Month() == now.Month() && d.Day() == now.Day() {
			out = append(out, m)
		}
	}
	return out
}

// Years lists the distinct years present, descending, for the era jump nav.
func Years(memories []models.Memory) []int {
	seen := map[int]struct{}{}
	var years []int
	for _, m := range memories {
		y := m.EffectiveDate().Year()
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
