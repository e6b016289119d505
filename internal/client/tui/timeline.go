package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memorylane/memorylane/internal/client/api"
	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/remote"
	"github.com/memorylane/memorylane/internal/client/viewmodel"
)

type timelineLoadedMsg struct {
	gen      uint64
	memories []models.Memory
	total    int
}

type timelineActionMsg struct {
	note string
	err  error
}

type timelineMode int

const (
	timelineList timelineMode = iota
	timelineEdit
	timelineShare
)

// timelinePage shows the paginated chronology grouped by month, with
// edit, delete and share actions on the selected memory.
type timelinePage struct {
	d     *deps
	guard *remote.Guard
	pager remote.Pager
	spin  spinner.Model

	loading bool
	mode    timelineMode
	groups  []viewmodel.TimelineGroup
	flat    []models.Memory
	cursor  int
	editing string // memory id under edit/share
	pending string // memory id awaiting delete confirmation
	inputs  []textinput.Model
	focus   int
}

func newTimelinePage(d *deps) *timelinePage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &timelinePage{d: d, guard: &remote.Guard{}, pager: remote.NewPager(), spin: sp, loading: true}
}

func (p *timelinePage) Title() string { return "Timeline" }

func (p *timelinePage) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, p.fetch())
}

func (p *timelinePage) fetch() tea.Cmd {
	d := p.d
	q := api.MemoryQuery{Page: p.pager.Page, PageSize: d.cfg.PageSize}
	ctx, gen := p.guard.Next(context.Background())
	return func() tea.Msg {
		memories, total, err := d.api.ListMemories(ctx, q)
		if err != nil {
			return fetchErrMsg{route: RouteTimeline, gen: gen, err: err}
		}
		return timelineLoadedMsg{gen: gen, memories: memories, total: total}
	}
}

func (p *timelinePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case timelineLoadedMsg:
		if !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		p.pager.SetTotal(msg.total)
		p.groups = viewmodel.GroupTimeline(msg.memories)
		p.flat = p.flat[:0]
		for _, g := range p.groups {
			p.flat = append(p.flat, g.Items...)
		}
		p.cursor = clampCursor(p.cursor, len(p.flat))
		return p, nil

	case fetchErrMsg:
		if msg.route != RouteTimeline || !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		return p, fetchErrToCmd(msg.err)

	case timelineActionMsg:
		if msg.err != nil {
			return p, fetchErrToCmd(msg.err)
		}
		p.loading = true
		return p, tea.Batch(toast(msg.note), p.spin.Tick, p.fetch())

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		if p.loading {
			return p, cmd
		}
		return p, nil

	case tea.KeyMsg:
		switch p.mode {
		case timelineEdit, timelineShare:
			return p.updateForm(msg)
		default:
			return p.updateList(msg)
		}
	}
	return p, nil
}

func (p *timelinePage) updateList(msg tea.KeyMsg) (page, tea.Cmd) {
	// A pending delete must be confirmed or dropped before anything else.
	if p.pending != "" {
		id := p.pending
		p.pending = ""
		if msg.String() == "y" {
			return p, p.deleteMemory(id)
		}
		return p, nil
	}

	switch msg.String() {
	case "up", "k":
		p.cursor = clampCursor(p.cursor-1, len(p.flat))
	case "down", "j":
		p.cursor = clampCursor(p.cursor+1, len(p.flat))
	case "right", "n":
		if p.pager.CanNext() {
			p.pager.Next()
			p.loading = true
			return p, tea.Batch(p.spin.Tick, p.fetch())
		}
	case "left", "p":
		if p.pager.CanPrev() {
			p.pager.Prev()
			p.loading = true
			return p, tea.Batch(p.spin.Tick, p.fetch())
		}
	case "e":
		if m, ok := p.selected(); ok {
			p.mode = timelineEdit
			p.editing = m.ID
			p.inputs = editInputs(m)
			p.focus = 0
			return p, textinput.Blink
		}
	case "S":
		if m, ok := p.selected(); ok {
			p.mode = timelineShare
			p.editing = m.ID
			target := textinput.New()
			target.Placeholder = "recipient user id"
			target.CharLimit = 64
			target.Focus()
			p.inputs = []textinput.Model{target}
			p.focus = 0
			return p, textinput.Blink
		}
	case "x":
		if m, ok := p.selected(); ok {
			p.pending = m.ID
		}
	case "esc":
		return p, navigate(RouteDashboard)
	}
	return p, nil
}

func editInputs(m models.Memory) []textinput.Model {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 160
	title.SetValue(m.Title)
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "description"
	desc.CharLimit = 500
	desc.SetValue(m.Description)

	return []textinput.Model{title, desc}
}

func (p *timelinePage) updateForm(msg tea.KeyMsg) (page, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.mode = timelineList
		p.inputs = nil
		return p, nil
	case "tab", "down":
		if len(p.inputs) > 1 {
			p.focus = (p.focus + 1) % len(p.inputs)
			return p.refocus()
		}
	case "shift+tab", "up":
		if len(p.inputs) > 1 {
			p.focus = (p.focus + len(p.inputs) - 1) % len(p.inputs)
			return p.refocus()
		}
	case "enter":
		if p.mode == timelineShare {
			return p.submitShare()
		}
		return p.submitEdit()
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	return p, cmd
}

func (p *timelinePage) refocus() (page, tea.Cmd) {
	for i := range p.inputs {
		if i == p.focus {
			p.inputs[i].Focus()
		} else {
			p.inputs[i].Blur()
		}
	}
	return p, textinput.Blink
}

func (p *timelinePage) submitEdit() (page, tea.Cmd) {
	m, ok := p.byID(p.editing)
	if !ok {
		p.mode = timelineList
		return p, nil
	}
	in := api.CreateMemoryInput{
		Title:       strings.TrimSpace(p.inputs[0].Value()),
		Description: strings.TrimSpace(p.inputs[1].Value()),
		Location:    m.Location,
		Date:        m.EffectiveDate(),
		IsMilestone: m.IsMilestone,
		Tags:        m.Tags,
	}
	if in.Title == "" {
		return p, toastErr("Title is required")
	}

	d := p.d
	id := p.editing
	p.mode = timelineList
	p.inputs = nil
	return p, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
		defer cancel()
		_, err := d.api.UpdateMemory(ctx, id, in)
		return timelineActionMsg{note: "Memory updated", err: err}
	}
}

func (p *timelinePage) submitShare() (page, tea.Cmd) {
	target := strings.TrimSpace(p.inputs[0].Value())
	if target == "" {
		return p, toastErr("Recipient user id is required")
	}

	d := p.d
	id := p.editing
	p.mode = timelineList
	p.inputs = nil
	return p, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
		defer cancel()
		err := d.api.ShareMemory(ctx, id, target)
		return timelineActionMsg{note: "Memory shared", err: err}
	}
}

func (p *timelinePage) deleteMemory(id string) tea.Cmd {
	d := p.d
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
		defer cancel()
		err := d.api.DeleteMemory(ctx, id)
		return timelineActionMsg{note: "Memory deleted", err: err}
	}
}

func (p *timelinePage) selected() (models.Memory, bool) {
	if len(p.flat) == 0 {
		return models.Memory{}, false
	}
	return p.flat[p.cursor], true
}

func (p *timelinePage) byID(id string) (models.Memory, bool) {
	for _, m := range p.flat {
		if m.ID == id {
			return m, true
		}
	}
	return models.Memory{}, false
}

func (p *timelinePage) View(width int) string {
	th := p.d.theme

	if p.loading {
		return p.spin.View() + " loading timeline..."
	}

	var b strings.Builder
	if years := viewmodel.Years(p.flat); len(years) > 0 {
		labels := make([]string, len(years))
		for i, y := range years {
			labels[i] = fmt.Sprintf("%d", y)
		}
		b.WriteString(th.Muted.Render("years on this page: "+strings.Join(labels, " ")) + "\n\n")
	}

	if len(p.flat) == 0 {
		b.WriteString(th.Muted.Render("No memories yet.") + "\n")
	}

	idx := 0
	for _, g := range p.groups {
		b.WriteString(th.Subtitle.Render(g.Label) + "\n")
		for _, m := range g.Items {
			b.WriteString(memoryLine(th, m, idx == p.cursor) + "\n")
			idx++
		}
		b.WriteString("\n")
	}

	switch p.mode {
	case timelineEdit:
		b.WriteString(th.Header.Render("Edit memory") + "\n")
		for i, in := range p.inputs {
			cursor := "  "
			if i == p.focus {
				cursor = th.Badge.Render("> ")
			}
			b.WriteString(cursor + in.View() + "\n")
		}
		b.WriteString(th.Help.Render("enter: save - esc: cancel") + "\n")
	case timelineShare:
		b.WriteString(th.Header.Render("Share memory") + "\n")
		b.WriteString("  " + p.inputs[0].View() + "\n")
		b.WriteString(th.Help.Render("enter: share - esc: cancel") + "\n")
	default:
		if m, ok := p.selected(); ok {
			b.WriteString(memoryDetail(th, m, width) + "\n")
		}
		if p.pending != "" {
			b.WriteString("\n" + th.Error.Render("Delete this memory? y to confirm, any other key to cancel") + "\n")
		}
		b.WriteString("\n" + th.Muted.Render(fmt.Sprintf("page %d/%s", p.pager.Page, p.pager.TotalLabel())) + "\n")
		b.WriteString(th.Help.Render("j/k: move - n/p: page - e: edit - S: share - x: delete - esc: dashboard"))
	}
	return b.String()
}
