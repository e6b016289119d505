package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memorylane/memorylane/internal/client/api"
	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/remote"
	"github.com/memorylane/memorylane/internal/client/viewmodel"
)

type dashStatsMsg struct {
	gen   uint64
	stats models.Stats
}

type dashTagsMsg struct {
	gen  uint64
	tags []models.Tag
}

type dashMemoriesMsg struct {
	gen      uint64
	memories []models.Memory
	total    int
}

// dashboardPage is the landing view: stats, the paginated memory grid,
// on-this-day highlights and the navigation menu. Stats, tags and
// memories load concurrently under one guard generation. Admins can
// widen the memory scope to every user.
type dashboardPage struct {
	d     *deps
	guard *remote.Guard
	pager remote.Pager
	spin  spinner.Model

	loading  bool
	allUsers bool
	stats    models.Stats
	tags     []models.Tag
	recent   []models.Memory
	cursor   int
}

func newDashboardPage(d *deps) *dashboardPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &dashboardPage{d: d, guard: &remote.Guard{}, pager: remote.NewPager(), spin: sp, loading: true}
}

func (p *dashboardPage) Title() string { return "Dashboard" }

func (p *dashboardPage) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, p.fetch())
}

func (p *dashboardPage) fetch() tea.Cmd {
	d := p.d
	allUsers := p.allUsers && currentUser(d).IsAdmin()
	page := p.pager.Page
	ctx, gen := p.guard.Next(context.Background())

	stats := func() tea.Msg {
		s, err := d.api.GetStats(ctx)
		if err != nil {
			return fetchErrMsg{route: RouteDashboard, gen: gen, err: err}
		}
		return dashStatsMsg{gen: gen, stats: s}
	}
	tags := func() tea.Msg {
		t, err := d.api.GetTags(ctx)
		if err != nil {
			return fetchErrMsg{route: RouteDashboard, gen: gen, err: err}
		}
		return dashTagsMsg{gen: gen, tags: t}
	}
	memories := func() tea.Msg {
		m, total, err := d.api.ListMemories(ctx, api.MemoryQuery{
			AllUsers: allUsers,
			Page:     page,
			PageSize: d.cfg.PageSize,
		})
		if err != nil {
			return fetchErrMsg{route: RouteDashboard, gen: gen, err: err}
		}
		return dashMemoriesMsg{gen: gen, memories: m, total: total}
	}
	return tea.Batch(stats, tags, memories)
}

func (p *dashboardPage) refetch() (page, tea.Cmd) {
	p.loading = true
	return p, tea.Batch(p.spin.Tick, p.fetch())
}

func (p *dashboardPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case dashStatsMsg:
		if p.guard.Accept(msg.gen) {
			p.stats = msg.stats
		}
		return p, nil

	case dashTagsMsg:
		if p.guard.Accept(msg.gen) {
			p.tags = msg.tags
		}
		return p, nil

	case dashMemoriesMsg:
		if !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		p.recent = msg.memories
		p.pager.SetTotal(msg.total)
		p.cursor = clampCursor(p.cursor, len(p.recent))
		return p, nil

	case fetchErrMsg:
		if msg.route != RouteDashboard || !p.guard.Accept(msg.gen) {
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
			p.cursor = clampCursor(p.cursor-1, len(p.recent))
		case "down", "j":
			p.cursor = clampCursor(p.cursor+1, len(p.recent))
		case "right":
			if p.pager.CanNext() {
				p.pager.Next()
				return p.refetch()
			}
		case "left":
			if p.pager.CanPrev() {
				p.pager.Prev()
				return p.refetch()
			}
		case "a":
			if currentUser(p.d).IsAdmin() {
				p.allUsers = !p.allUsers
				p.pager.Reset()
				return p.refetch()
			}
		case "t":
			return p, navigate(RouteTimeline)
		case "b":
			return p, navigate(RouteAlbums)
		case "m":
			return p, navigate(RouteMilestones)
		case "s":
			return p, navigate(RouteSearch)
		case "r":
			return p, navigate(RouteReminisce)
		case "n":
			return p, navigate(RouteCreate)
		case "g":
			return p, navigate(RouteAdmin)
		case "l":
			if err := p.d.session.Logout(); err != nil {
				p.d.log.Warn(context.Background(), "logout", "error", err)
			}
			return p, navigate(RouteLogin)
		case "q":
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p *dashboardPage) View(width int) string {
	th := p.d.theme
	var b strings.Builder

	if p.loading {
		return p.spin.View() + " loading your archive..."
	}

	b.WriteString(th.Header.Render(fmt.Sprintf(
		"%d memories - %d milestones - %d albums",
		p.stats.Total, p.stats.Milestones, p.stats.Albums)) + "\n")
	if p.allUsers {
		b.WriteString(th.Badge.Render("showing all users") + "\n")
	}
	if len(p.tags) > 0 {
		names := make([]string, 0, len(p.tags))
		for _, t := range p.tags {
			names = append(names, t.Name)
		}
		if len(names) > 10 {
			names = names[:10]
		}
		b.WriteString(th.Muted.Render("tags: "+strings.Join(names, ", ")) + "\n")
	}
	b.WriteString("\n")

	if today := viewmodel.OnThisDay(p.recent, time.Now()); len(today) > 0 {
		b.WriteString(th.Subtitle.Render("On this day") + "\n")
		for _, m := range today {
			b.WriteString(memoryLine(th, m, false) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(th.Subtitle.Render("Memories") + "\n")
	if len(p.recent) == 0 {
		b.WriteString(th.Muted.Render("Nothing here yet. Press n to add your first memory.") + "\n")
	}
	for i, m := range p.recent {
		b.WriteString(memoryLine(th, m, i == p.cursor) + "\n")
	}
	if len(p.recent) > 0 {
		b.WriteString("\n" + memoryDetail(th, p.recent[p.cursor], width) + "\n")
	}
	b.WriteString(th.Muted.Render(fmt.Sprintf("page %d/%s", p.pager.Page, p.pager.TotalLabel())) + "\n")

	help := "t: timeline - b: albums - m: milestones - s: search - r: reminisce - n: new - left/right: page"
	if currentUser(p.d).IsAdmin() {
		help += " - a: all users - g: admin"
	}
	help += " - l: log out - q: quit"
	b.WriteString("\n" + th.Help.Render(help))
	return b.String()
}
