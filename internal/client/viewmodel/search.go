package viewmodel

import (
	"strings"

	"github.com/memorylane/memorylane/internal/client/models"
)

// FilterMemories applies the client-side free-text filter over title,
// description and location, case-insensitive. An empty query keeps all.
func FilterMemories(memories []models.Memory, query string) []models.Memory {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return memories
	}
	var out []models.Memory
	for _, m := range memories {
		if strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.Description), q) ||
			strings.Contains(strings.ToLower(m.Location), q) {
			out = append(out, m)
		}
	}
	return out
}

// AvailableForAlbum returns the library memories not already in the album,
// for the add-to-album picker.
func AvailableForAlbum(library, inAlbum []models.Memory) []models.Memory {
	present := make(map[string]struct{}, len(inAlbum))
	for _, m := range inAlbum {
		present[m.ID] = struct{}{}
	}
	var out []models.Memory
	for _, m := range library {
		if _, ok := present[m.ID]; !ok {
			out = append(out, m)
		}
	}
	return out
}

// FilterTagOptions narrows the tag vocabulary by a type-ahead fragment and
// drops tags already selected. Both the free list and the fixed dropdown
// variants dedupe through here.
func FilterTagOptions(all []models.Tag, input string, selected []string) []models.Tag {
	chosen := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		chosen[strings.ToLower(s)] = struct{}{}
	}
	frag := strings.ToLower(strings.TrimSpace(input))

	var out []models.Tag
	for _, t := range all {
		name := strings.ToLower(t.Name)
		if _, taken := chosen[name]; taken {
			continue
		}
		if frag != "" && !strings.Contains(name, frag) {
			continue
		}
		out = append(out, t)
	}
	return out
}
