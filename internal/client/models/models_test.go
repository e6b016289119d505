package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2023-06-15T10:30:00Z"`, time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"bare date", `"2023-06-15"`, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty string", `""`, time.Time{}},
		{"garbage keeps zero", `"tomorrow"`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.input), &d))
			assert.True(t, tt.want.Equal(d.Time), "got %v", d.Time)
		})
	}
}

func TestMemory_EffectiveDate(t *testing.T) {
	created := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	taken := time.Date(2022, 7, 4, 0, 0, 0, 0, time.UTC)

	m := Memory{CreatedAt: Date{created}}
	assert.Equal(t, created, m.EffectiveDate(), "falls back to created_at")

	m.MemoryDate = Date{taken}
	assert.Equal(t, taken, m.EffectiveDate(), "memory date wins when set")
}

func TestTagNames_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"strings", `["travel","family"]`, []string{"travel", "family"}},
		{"objects", `[{"id":"1","name":"travel"}]`, []string{"travel"}},
		{"join rows", `[{"tags":{"name":"beach"}}]`, []string{"beach"}},
		{"mixed", `["travel",{"name":"family"}]`, []string{"travel", "family"}},
		{"not an array", `"travel"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tn TagNames
			require.NoError(t, json.Unmarshal([]byte(tt.input), &tn))
			assert.Equal(t, tt.want, []string(tn))
		})
	}
}

func TestTag_UnmarshalJSON(t *testing.T) {
	var fromString Tag
	require.NoError(t, json.Unmarshal([]byte(`"travel"`), &fromString))
	assert.Equal(t, "travel", fromString.Name)

	var fromObject Tag
	require.NoError(t, json.Unmarshal([]byte(`{"id":"7","name":"family"}`), &fromObject))
	assert.Equal(t, Tag{ID: "7", Name: "family"}, fromObject)
}

func TestAlbum_Count(t *testing.T) {
	assert.Equal(t, 5, Album{TotalMemories: 5}.Count())
	assert.Equal(t, 2, Album{Memories: []Memory{{}, {}}}.Count())
	assert.Equal(t, 0, Album{}.Count())
}
