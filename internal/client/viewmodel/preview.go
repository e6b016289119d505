package viewmodel

import (
	"github.com/memorylane/memorylane/internal/client/models"
)

// PreviewPhase tracks the caption-suggestion workflow for an album.
type PreviewPhase int

const (
	PreviewIdle PreviewPhase = iota
	PreviewGenerating
	PreviewShowing
	PreviewApplying
)

// Preview is the caption-preview state machine. Suggestions are held
// locally and touch nothing until the user confirms them.
type Preview struct {
	Phase       PreviewPhase
	Prompt      string
	Suggestions []models.Suggestion
	Err         error
}

// CanGenerate reports whether a new generation may start. A round in
// flight or a pending preview must be resolved first.
func (p *Preview) CanGenerate() bool {
	return p.Phase == PreviewIdle
}

// Generate enters the generating phase. Returns false when not allowed.
func (p *Preview) Generate(prompt string) bool {
	if !p.CanGenerate() {
		return false
	}
	p.Phase = PreviewGenerating
	p.Prompt = prompt
	p.Err = nil
	return true
}

// Receive stores the generated suggestions. An empty result drops back
// to idle since there is nothing to confirm.
func (p *Preview) Receive(suggestions []models.Suggestion) {
	if p.Phase != PreviewGenerating {
		return
	}
	if len(suggestions) == 0 {
		p.Phase = PreviewIdle
		return
	}
	p.Suggestions = suggestions
	p.Phase = PreviewShowing
}

// Apply enters the applying phase; the caller performs the confirm call.
func (p *Preview) Apply() bool {
	if p.Phase != PreviewShowing {
		return false
	}
	p.Phase = PreviewApplying
	return true
}

// Applied clears the preview after a successful confirm.
func (p *Preview) Applied() {
	p.Suggestions = nil
	p.Prompt = ""
	p.Phase = PreviewIdle
	p.Err = nil
}

// Fail records an error. A failed generation returns to idle; a failed
// apply keeps the suggestions on screen so the user can retry or discard.
func (p *Preview) Fail(err error) {
	p.Err = err
	switch p.Phase {
	case PreviewGenerating:
		p.Phase = PreviewIdle
	case PreviewApplying:
		p.Phase = PreviewShowing
	}
}

// Discard throws the pending suggestions away without applying them.
func (p *Preview) Discard() {
	if p.Phase != PreviewShowing {
		return
	}
	p.Suggestions = nil
	p.Prompt = ""
	p.Phase = PreviewIdle
	p.Err = nil
}

// ApplyTo folds the suggestions into a memory list by exact id match,
// for the optimistic redraw after a confirmed apply.
func ApplyTo(memories []models.Memory, suggestions []models.Suggestion) []models.Memory {
	byID := make(map[string]models.Suggestion, len(suggestions))
	for _, s := range suggestions {
		byID[s.MemoryID] = s
	}
	out := make([]models.Memory, len(memories))
	copy(out, memories)
	for i := range out {
		if s, ok := byID[out[i].ID]; ok {
			out[i].Title = s.Title
			out[i].Description = s.Description
		}
	}
	return out
}
