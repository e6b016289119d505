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
)

type searchSettleMsg struct{ seq uint64 }

type searchLoadedMsg struct {
	gen      uint64
	memories []models.Memory
	total    int
}

type searchTagsMsg struct {
	gen  uint64
	tags []models.Tag
}

// searchPage is the debounced free-text search with a tag filter and
// milestone-only toggle. Typing arms the debouncer; only the settle
// carrying the latest sequence issues a request.
type searchPage struct {
	d        *deps
	guard    *remote.Guard
	debounce *remote.Debouncer
	pager    remote.Pager
	spin     spinner.Model

	input     textinput.Model
	loading   bool
	results   []models.Memory
	cursor    int
	tags      []models.Tag
	tagIndex  int // 0 means no tag filter
	milestone bool
	searched  bool
}

func newSearchPage(d *deps) *searchPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	in := textinput.New()
	in.Placeholder = "search titles, descriptions, places..."
	in.CharLimit = 200
	in.Focus()

	return &searchPage{
		d:        d,
		guard:    &remote.Guard{},
		debounce: &remote.Debouncer{},
		pager:    remote.NewPager(),
		spin:     sp,
		input:    in,
	}
}

func (p *searchPage) Title() string { return "Search" }

func (p *searchPage) Init() tea.Cmd {
	d := p.d
	ctx, gen := p.guard.Next(context.Background())
	loadTags := func() tea.Msg {
		tags, err := d.api.GetTags(ctx)
		if err != nil {
			return fetchErrMsg{route: RouteSearch, gen: gen, err: err}
		}
		return searchTagsMsg{gen: gen, tags: tags}
	}
	return tea.Batch(textinput.Blink, loadTags)
}

func (p *searchPage) fetch() tea.Cmd {
	d := p.d
	q := api.MemoryQuery{
		Page:          p.pager.Page,
		PageSize:      d.cfg.PageSize,
		Search:        strings.TrimSpace(p.input.Value()),
		MilestoneOnly: p.milestone,
		Tag:           p.currentTag(),
	}
	ctx, gen := p.guard.Next(context.Background())
	return func() tea.Msg {
		// A pure tag browse hits the dedicated endpoint; everything else
		// goes through the paginated search.
		if q.Search == "" && q.Tag != "" && !q.MilestoneOnly {
			memories, err := d.api.GetMemoriesByTag(ctx, q.Tag)
			if err != nil {
				return fetchErrMsg{route: RouteSearch, gen: gen, err: err}
			}
			return searchLoadedMsg{gen: gen, memories: memories, total: 1}
		}
		memories, total, err := d.api.ListMemories(ctx, q)
		if err != nil {
			return fetchErrMsg{route: RouteSearch, gen: gen, err: err}
		}
		return searchLoadedMsg{gen: gen, memories: memories, total: total}
	}
}

func (p *searchPage) currentTag() string {
	if p.tagIndex == 0 || p.tagIndex > len(p.tags) {
		return ""
	}
	return p.tags[p.tagIndex-1].Name
}

// arm registers a fresh trigger and schedules its settle.
func (p *searchPage) arm() tea.Cmd {
	seq := p.debounce.Arm()
	return tick(p.d.cfg.SearchDebounce, searchSettleMsg{seq: seq})
}

func (p *searchPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case searchSettleMsg:
		if !p.debounce.Current(msg.seq) {
			return p, nil
		}
		p.pager.Reset()
		p.loading = true
		p.searched = true
		return p, tea.Batch(p.spin.Tick, p.fetch())

	case searchLoadedMsg:
		if !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		p.results = msg.memories
		p.pager.SetTotal(msg.total)
		p.cursor = clampCursor(p.cursor, len(p.results))
		return p, nil

	case searchTagsMsg:
		if p.guard.Accept(msg.gen) {
			p.tags = msg.tags
		}
		return p, nil

	case fetchErrMsg:
		if msg.route != RouteSearch || !p.guard.Accept(msg.gen) {
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
		case "esc":
			return p, navigate(RouteDashboard)
		case "up":
			p.cursor = clampCursor(p.cursor-1, len(p.results))
			return p, nil
		case "down":
			p.cursor = clampCursor(p.cursor+1, len(p.results))
			return p, nil
		case "right":
			if p.searched && p.pager.CanNext() {
				p.pager.Next()
				p.loading = true
				return p, tea.Batch(p.spin.Tick, p.fetch())
			}
			return p, nil
		case "left":
			if p.searched && p.pager.CanPrev() {
				p.pager.Prev()
				p.loading = true
				return p, tea.Batch(p.spin.Tick, p.fetch())
			}
			return p, nil
		case "ctrl+f":
			p.tagIndex = (p.tagIndex + 1) % (len(p.tags) + 1)
			return p, p.arm()
		case "ctrl+l":
			p.milestone = !p.milestone
			return p, p.arm()
		}

		var cmd tea.Cmd
		before := p.input.Value()
		p.input, cmd = p.input.Update(msg)
		if p.input.Value() != before {
			return p, tea.Batch(cmd, p.arm())
		}
		return p, cmd
	}
	return p, nil
}

func (p *searchPage) View(width int) string {
	th := p.d.theme
	var b strings.Builder

	b.WriteString(p.input.View() + "\n")

	var filters []string
	if tag := p.currentTag(); tag != "" {
		filters = append(filters, "tag: "+tag)
	}
	if p.milestone {
		filters = append(filters, "milestones only")
	}
	if len(filters) > 0 {
		b.WriteString(th.Badge.Render(strings.Join(filters, " - ")) + "\n")
	}
	b.WriteString("\n")

	switch {
	case p.loading:
		b.WriteString(p.spin.View() + " searching...\n")
	case !p.searched:
		b.WriteString(th.Muted.Render("Type to search your archive.") + "\n")
	case len(p.results) == 0:
		b.WriteString(th.Muted.Render("No matches.") + "\n")
	default:
		for i, m := range p.results {
			b.WriteString(memoryLine(th, m, i == p.cursor) + "\n")
		}
		if len(p.results) > 0 {
			b.WriteString("\n" + memoryDetail(th, p.results[p.cursor], width) + "\n")
		}
		b.WriteString(th.Muted.Render(fmt.Sprintf("page %d/%s", p.pager.Page, p.pager.TotalLabel())) + "\n")
	}

	b.WriteString("\n" + th.Help.Render("left/right: page - ctrl+f: tag filter - ctrl+l: milestones - esc: dashboard"))
	return b.String()
}
