package models

// Suggestion is one AI-proposed title/description for a memory, held only in
// memory between preview and apply-or-discard. While suggestions are present
// they overlay the rendered values; the stored Memory records stay untouched
// until apply completes a server round-trip.
type Suggestion struct {
	MemoryID    string `json:"id"`
	Title       string `json:"new_title"`
	Description string `json:"new_description"`
}
