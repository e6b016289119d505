package viewmodel

import (
	"fmt"
	"path/filepath"
	"strings"
)

// BulkItem is one file staged for a batch upload.
type BulkItem struct {
	Path  string
	Title string // explicit override; empty means synthesize
}

// SynthesizeBulkTitles fills each item's title from the base, numbering
// from 1 in staging order. An explicit per-item title wins.
func SynthesizeBulkTitles(base string, items []BulkItem) []BulkItem {
	base = strings.TrimSpace(base)
	out := make([]BulkItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Title != "" {
			continue
		}
		switch {
		case base != "":
			out[i].Title = fmt.Sprintf("%s %d", base, i+1)
		default:
			name := filepath.Base(out[i].Path)
			out[i].Title = strings.TrimSuffix(name, filepath.Ext(name))
		}
	}
	return out
}
