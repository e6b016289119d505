package models

// Album is a named collection of memories. Membership order is display-only.
type Album struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	CoverURL      string   `json:"cover_url"`
	Memories      []Memory `json:"memories"`
	TotalMemories int      `json:"total_memories"`
	HasAIVideo    bool     `json:"has_ai_video"`
}

// Count prefers the server-side total and falls back to the fetched
// membership length.
func (a Album) Count() int {
	if a.TotalMemories > 0 {
		return a.TotalMemories
	}
	return len(a.Memories)
}
