// Package models holds the client-side view copies of backend-owned
// entities. Nothing here is persisted; every list is re-fetched on view
// mount and after mutations the controller chooses not to patch locally.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// MediaType discriminates the primary media attached to a memory.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Memory is a single archived moment: photo/video plus metadata, optionally
// a voice note. The backend is loose about field presence, so everything
// beyond the id is optional.
type Memory struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	MemoryDate      Date     `json:"memory_date"`
	IsMilestone     bool     `json:"is_milestone"`
	MilestoneNumber *int     `json:"milestone_number"`
	DisplayURL      string   `json:"display_url"`
	MediaType       MediaType `json:"media_type"`
	VoiceURL        string   `json:"voice_url"`
	Tags            TagNames `json:"tags"`
	UserID          string   `json:"user_id"`
	OwnerName       string   `json:"owner_name"`
	CreatedAt       Date     `json:"created_at"`
}

// EffectiveDate is the date used for grouping and anniversaries: the memory
// date when set, else the creation timestamp.
func (m Memory) EffectiveDate() time.Time {
	if !m.MemoryDate.IsZero() {
		return m.MemoryDate.Time
	}
	return m.CreatedAt.Time
}

// Date unmarshals both RFC 3339 timestamps and bare "2006-01-02" dates,
// and treats null/empty as the zero time.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	// Unknown format: keep the zero value rather than failing the whole list.
	d.Time = time.Time{}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}
