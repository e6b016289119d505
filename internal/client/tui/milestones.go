package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/remote"
	"github.com/memorylane/memorylane/internal/client/viewmodel"
)

type milestonesLoadedMsg struct {
	gen      uint64
	memories []models.Memory
}

// milestonesPage shows milestone memories bucketed by stage number, the
// unnumbered ones gathered under Special.
type milestonesPage struct {
	d     *deps
	guard *remote.Guard
	spin  spinner.Model

	loading bool
	groups  []viewmodel.MilestoneGroup
	flat    []models.Memory
	cursor  int
}

func newMilestonesPage(d *deps) *milestonesPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &milestonesPage{d: d, guard: &remote.Guard{}, spin: sp, loading: true}
}

func (p *milestonesPage) Title() string { return "Milestones" }

func (p *milestonesPage) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, p.fetch())
}

func (p *milestonesPage) fetch() tea.Cmd {
	d := p.d
	ctx, gen := p.guard.Next(context.Background())
	return func() tea.Msg {
		memories, err := d.api.GetMilestones(ctx)
		if err != nil {
			return fetchErrMsg{route: RouteMilestones, gen: gen, err: err}
		}
		return milestonesLoadedMsg{gen: gen, memories: memories}
	}
}

func (p *milestonesPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case milestonesLoadedMsg:
		if !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		p.groups = viewmodel.GroupMilestones(msg.memories)
		p.flat = p.flat[:0]
		for _, g := range p.groups {
			p.flat = append(p.flat, g.Items...)
		}
		p.cursor = clampCursor(p.cursor, len(p.flat))
		return p, nil

	case fetchErrMsg:
		if msg.route != RouteMilestones || !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		return p, fetchErrToCmd(msg.err)

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		if p.loading {
			return p, cmd
		}
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			p.cursor = clampCursor(p.cursor-1, len(p.flat))
		case "down", "j":
			p.cursor = clampCursor(p.cursor+1, len(p.flat))
		case "esc":
			return p, navigate(RouteDashboard)
		}
	}
	return p, nil
}

func (p *milestonesPage) View(width int) string {
	th := p.d.theme

	if p.loading {
		return p.spin.View() + " loading milestones..."
	}

	var b strings.Builder
	if len(p.flat) == 0 {
		b.WriteString(th.Muted.Render("No milestones yet. Mark a memory as a milestone when creating it.") + "\n")
	}

	idx := 0
	for _, g := range p.groups {
		label := "Stage " + g.Label
		if g.Special {
			label = g.Label
		}
		b.WriteString(th.Subtitle.Render(label) + "\n")
		for _, m := range g.Items {
			b.WriteString(memoryLine(th, m, idx == p.cursor) + "\n")
			idx++
		}
		b.WriteString("\n")
	}

	if len(p.flat) > 0 {
		b.WriteString(memoryDetail(th, p.flat[p.cursor], width) + "\n")
	}
	b.WriteString("\n" + th.Help.Render("j/k: move - esc: dashboard"))
	return b.String()
}
