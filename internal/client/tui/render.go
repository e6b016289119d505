package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/viewmodel"
)

// memoryLine renders one list row: date, title, badges.
func memoryLine(th *Theme, m models.Memory, selected bool) string {
	date := "           "
	if d := m.EffectiveDate(); !d.IsZero() {
		date = d.Format("2006-01-02")
	}

	var badges []string
	if m.IsMilestone {
		badges = append(badges, th.Badge.Render("*milestone"))
	}
	if m.MediaType == models.MediaVideo {
		badges = append(badges, th.Muted.Render("[video]"))
	}
	if m.VoiceURL != "" {
		badges = append(badges, th.Muted.Render("[voice]"))
	}
	if a := viewmodel.AnniversaryLabel(m, time.Now()); a != "" {
		badges = append(badges, th.Success.Render(a))
	}

	title := m.Title
	if title == "" {
		title = "(untitled)"
	}
	line := fmt.Sprintf("%s  %s", th.Muted.Render(date), title)
	if len(badges) > 0 {
		line += "  " + strings.Join(badges, " ")
	}
	if selected {
		return th.Selected.Render("> " + line)
	}
	return "  " + line
}

// memoryDetail renders the expanded card for the selected memory.
func memoryDetail(th *Theme, m models.Memory, width int) string {
	var b strings.Builder
	b.WriteString(th.Header.Render(m.Title) + "\n")
	if d := m.EffectiveDate(); !d.IsZero() {
		b.WriteString(th.Muted.Render(d.Format("January 2, 2006")) + "\n")
	}
	if m.Location != "" {
		b.WriteString(th.Label.Render(m.Location) + "\n")
	}
	if m.Description != "" {
		b.WriteString(wordwrap.String(m.Description, max(20, width-6)) + "\n")
	}
	if len(m.Tags) > 0 {
		b.WriteString(th.Subtitle.Render(strings.Join(m.Tags, ", ")) + "\n")
	}
	if m.OwnerName != "" {
		b.WriteString(th.Muted.Render("by "+m.OwnerName) + "\n")
	}
	return th.Box.Width(max(24, width-4)).Render(strings.TrimRight(b.String(), "\n"))
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
