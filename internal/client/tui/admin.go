package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memorylane/memorylane/internal/client/api"
	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/remote"
)

type adminLoadedMsg struct {
	gen    uint64
	stats  models.AdminStats
	users  []models.User
	recent []models.Memory
}

// adminPage is the console view: system-wide stats, the user roster and
// the latest activity across all accounts. The route guard keeps
// non-admins out before this page is ever constructed.
type adminPage struct {
	d     *deps
	guard *remote.Guard
	spin  spinner.Model

	loading bool
	stats   models.AdminStats
	users   []models.User
	recent  []models.Memory
	cursor  int
	filter  string // user id scoping the activity feed
}

func newAdminPage(d *deps) *adminPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &adminPage{d: d, guard: &remote.Guard{}, spin: sp, loading: true}
}

func (p *adminPage) Title() string { return "Admin" }

func (p *adminPage) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, p.fetch())
}

func (p *adminPage) fetch() tea.Cmd {
	d := p.d
	filter := p.filter
	ctx, gen := p.guard.Next(context.Background())
	return func() tea.Msg {
		stats, err := d.api.GetAdminStats(ctx)
		if err != nil {
			return fetchErrMsg{route: RouteAdmin, gen: gen, err: err}
		}
		users, err := d.api.ListUsers(ctx)
		if err != nil {
			return fetchErrMsg{route: RouteAdmin, gen: gen, err: err}
		}
		recent, _, err := d.api.ListMemories(ctx, api.MemoryQuery{
			AllUsers: true,
			UserID:   filter,
			Limit:    10,
		})
		if err != nil {
			return fetchErrMsg{route: RouteAdmin, gen: gen, err: err}
		}
		return adminLoadedMsg{gen: gen, stats: stats, users: users, recent: recent}
	}
}

func (p *adminPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case adminLoadedMsg:
		if !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		p.stats = msg.stats
		p.users = msg.users
		p.recent = msg.recent
		p.cursor = clampCursor(p.cursor, len(p.users))
		return p, nil

	case fetchErrMsg:
		if msg.route != RouteAdmin || !p.guard.Accept(msg.gen) {
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
			p.cursor = clampCursor(p.cursor-1, len(p.users))
		case "down", "j":
			p.cursor = clampCursor(p.cursor+1, len(p.users))
		case "enter":
			// Scope the activity feed to the selected user; enter again clears.
			if len(p.users) > 0 {
				id := p.users[p.cursor].ID
				if p.filter == id {
					p.filter = ""
				} else {
					p.filter = id
				}
				p.loading = true
				return p, tea.Batch(p.spin.Tick, p.fetch())
			}
		case "esc":
			return p, navigate(RouteDashboard)
		}
	}
	return p, nil
}

func (p *adminPage) View(width int) string {
	th := p.d.theme

	if p.loading {
		return p.spin.View() + " loading console..."
	}

	var b strings.Builder
	b.WriteString(th.Header.Render(fmt.Sprintf(
		"%d users - %d memories - %d milestones - %s used",
		p.stats.TotalUsers, p.stats.TotalMemories, p.stats.TotalMilestones, p.stats.StorageUsed)) + "\n\n")

	b.WriteString(th.Subtitle.Render("Users") + "\n")
	for i, u := range p.users {
		line := u.Name
		if u.IsAdmin() {
			line += " " + th.Badge.Render("(admin)")
		}
		if p.filter == u.ID {
			line += " " + th.Success.Render("[filtering]")
		}
		if i == p.cursor {
			b.WriteString(th.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + th.Subtitle.Render("Recent activity") + "\n")
	if len(p.recent) == 0 {
		b.WriteString(th.Muted.Render("No activity.") + "\n")
	}
	for _, m := range p.recent {
		line := memoryLine(th, m, false)
		if m.OwnerName != "" {
			line += "  " + th.Muted.Render("by "+m.OwnerName)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + th.Help.Render("enter: filter activity by user - esc: dashboard"))
	return b.String()
}
