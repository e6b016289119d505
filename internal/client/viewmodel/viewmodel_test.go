package viewmodel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorylane/memorylane/internal/client/models"
)

func mem(id string, date time.Time) models.Memory {
	return models.Memory{ID: id, MemoryDate: models.Date{Time: date}}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestGroupTimeline(t *testing.T) {
	memories := []models.Memory{
		mem("a", day(2023, time.June, 3)),
		mem("b", day(2024, time.January, 10)),
		mem("c", day(2023, time.June, 20)),
		mem("d", day(2022, time.December, 31)),
	}

	groups := GroupTimeline(memories)
	require.Len(t, groups, 3)
	assert.Equal(t, "January 2024", groups[0].Label)
	assert.Equal(t, "June 2023", groups[1].Label)
	assert.Equal(t, "December 2022", groups[2].Label)

	// Within June, newest first.
	require.Len(t, groups[1].Items, 2)
	assert.Equal(t, "c", groups[1].Items[0].ID)
	assert.Equal(t, "a", groups[1].Items[1].ID)
}

func TestGroupTimeline_FallsBackToCreatedAt(t *testing.T) {
	m := models.Memory{ID: "x", CreatedAt: models.Date{Time: day(2021, time.March, 5)}}
	groups := GroupTimeline([]models.Memory{m})
	require.Len(t, groups, 1)
	assert.Equal(t, "March 2021", groups[0].Label)
}

func TestAnniversaryLabel(t *testing.T) {
	now := day(2025, time.June, 3)
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"three years", day(2022, time.June, 3), "3 Years Ago Today"},
		{"one year singular", day(2024, time.June, 3), "1 Year Ago Today"},
		{"same year", day(2025, time.June, 3), ""},
		{"different day", day(2022, time.June, 4), ""},
		{"no date", time.Time{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnniversaryLabel(mem("m", tt.date), now))
		})
	}
}

func TestOnThisDay(t *testing.T) {
	now := day(2025, time.June, 3)
	got := OnThisDay([]models.Memory{
		mem("hit", day(2020, time.June, 3)),
		mem("miss", day(2020, time.June, 4)),
	}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "hit", got[0].ID)
}

func TestYears(t *testing.T) {
	got := Years([]models.Memory{
		mem("a", day(2021, time.May, 1)),
		mem("b", day(2024, time.May, 1)),
		mem("c", day(2021, time.July, 9)),
	})
	assert.Equal(t, []int{2024, 2021}, got)
}

func milestone(id string, number *int) models.Memory {
	return models.Memory{ID: id, IsMilestone: true, MilestoneNumber: number}
}

func ptr(n int) *int { return &n }

func TestGroupMilestones(t *testing.T) {
	memories := []models.Memory{
		milestone("a", ptr(2)),
		milestone("b", ptr(2)),
		milestone("c", ptr(1)),
		milestone("d", nil),
	}

	groups := GroupMilestones(memories)
	require.Len(t, groups, 3)
	assert.Equal(t, "1", groups[0].Label)
	assert.Equal(t, "2", groups[1].Label)
	assert.Len(t, groups[1].Items, 2)
	assert.Equal(t, SpecialGroup, groups[2].Label)
	assert.True(t, groups[2].Special)
	assert.Equal(t, "d", groups[2].Items[0].ID)
}

func TestGroupMilestones_NoSpecialWhenAllNumbered(t *testing.T) {
	groups := GroupMilestones([]models.Memory{milestone("a", ptr(1))})
	require.Len(t, groups, 1)
	assert.False(t, groups[0].Special)
}

func TestFilterMemories(t *testing.T) {
	memories := []models.Memory{
		{ID: "t", Title: "Beach Sunset"},
		{ID: "d", Description: "a sunset over dunes"},
		{ID: "l", Location: "Sunset Boulevard"},
		{ID: "n", Title: "Morning hike"},
	}

	got := FilterMemories(memories, "  SUNSET ")
	require.Len(t, got, 3)
	for _, m := range got {
		assert.NotEqual(t, "n", m.ID)
	}

	assert.Len(t, FilterMemories(memories, ""), 4)
	assert.Empty(t, FilterMemories(memories, "glacier"))
}

func TestAvailableForAlbum(t *testing.T) {
	library := []models.Memory{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	inAlbum := []models.Memory{{ID: "b"}}
	got := AvailableForAlbum(library, inAlbum)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestFilterTagOptions(t *testing.T) {
	all := []models.Tag{{Name: "travel"}, {Name: "family"}, {Name: "food"}}

	t.Run("type-ahead", func(t *testing.T) {
		got := FilterTagOptions(all, "fa", nil)
		require.Len(t, got, 1)
		assert.Equal(t, "family", got[0].Name)
	})

	t.Run("selected excluded case-insensitively", func(t *testing.T) {
		got := FilterTagOptions(all, "", []string{"Travel"})
		require.Len(t, got, 2)
		assert.Equal(t, "family", got[0].Name)
	})
}

func TestPreviewLifecycle(t *testing.T) {
	var p Preview
	require.True(t, p.CanGenerate())

	require.True(t, p.Generate("warm tone"))
	assert.Equal(t, PreviewGenerating, p.Phase)
	assert.False(t, p.Generate("again"), "no second generation while one runs")

	suggestions := []models.Suggestion{{MemoryID: "m1", Title: "New", Description: "Desc"}}
	p.Receive(suggestions)
	assert.Equal(t, PreviewShowing, p.Phase)
	assert.False(t, p.CanGenerate(), "pending preview blocks regeneration")

	require.True(t, p.Apply())
	assert.Equal(t, PreviewApplying, p.Phase)

	p.Applied()
	assert.Equal(t, PreviewIdle, p.Phase)
	assert.Empty(t, p.Suggestions)
	assert.True(t, p.CanGenerate())
}

func TestPreview_EmptyResultReturnsToIdle(t *testing.T) {
	var p Preview
	p.Generate("x")
	p.Receive(nil)
	assert.Equal(t, PreviewIdle, p.Phase)
}

func TestPreview_FailureModes(t *testing.T) {
	boom := errors.New("boom")

	t.Run("generation failure drops to idle", func(t *testing.T) {
		var p Preview
		p.Generate("x")
		p.Fail(boom)
		assert.Equal(t, PreviewIdle, p.Phase)
		assert.ErrorIs(t, p.Err, boom)
	})

	t.Run("apply failure keeps the preview", func(t *testing.T) {
		var p Preview
		p.Generate("x")
		p.Receive([]models.Suggestion{{MemoryID: "m1"}})
		p.Apply()
		p.Fail(boom)
		assert.Equal(t, PreviewShowing, p.Phase)
		assert.NotEmpty(t, p.Suggestions, "suggestions survive a failed apply")
	})
}

func TestPreview_Discard(t *testing.T) {
	var p Preview
	p.Generate("x")
	p.Receive([]models.Suggestion{{MemoryID: "m1"}})
	p.Discard()
	assert.Equal(t, PreviewIdle, p.Phase)
	assert.Empty(t, p.Suggestions)
}

func TestApplyTo(t *testing.T) {
	memories := []models.Memory{
		{ID: "m1", Title: "Old", Description: "old desc"},
		{ID: "m2", Title: "Keep"},
	}
	got := ApplyTo(memories, []models.Suggestion{
		{MemoryID: "m1", Title: "New", Description: "new desc"},
		{MemoryID: "ghost", Title: "Nobody"},
	})

	assert.Equal(t, "New", got[0].Title)
	assert.Equal(t, "new desc", got[0].Description)
	assert.Equal(t, "Keep", got[1].Title, "unmatched memories untouched")
	assert.Equal(t, "Old", memories[0].Title, "input slice not mutated")
}

func TestSynthesizeBulkTitles(t *testing.T) {
	items := []BulkItem{
		{Path: "/photos/IMG_001.jpg"},
		{Path: "/photos/IMG_002.jpg", Title: "The good one"},
		{Path: "/photos/IMG_003.jpg"},
	}

	t.Run("with base", func(t *testing.T) {
		got := SynthesizeBulkTitles("Road trip", items)
		assert.Equal(t, "Road trip 1", got[0].Title)
		assert.Equal(t, "The good one", got[1].Title, "explicit title wins")
		assert.Equal(t, "Road trip 3", got[2].Title)
	})

	t.Run("without base uses filename", func(t *testing.T) {
		got := SynthesizeBulkTitles("", items)
		assert.Equal(t, "IMG_001", got[0].Title)
		assert.Equal(t, "The good one", got[1].Title)
	})
}
