package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/remote"
	"github.com/memorylane/memorylane/internal/client/viewmodel"
)

type reminisceLoadedMsg struct {
	gen    uint64
	memory *models.Memory
}

// reminiscePage surfaces one random memory at a time.
type reminiscePage struct {
	d     *deps
	guard *remote.Guard
	spin  spinner.Model

	loading bool
	memory  *models.Memory
}

func newReminiscePage(d *deps) *reminiscePage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &reminiscePage{d: d, guard: &remote.Guard{}, spin: sp, loading: true}
}

func (p *reminiscePage) Title() string { return "Reminisce" }

func (p *reminiscePage) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, p.fetch())
}

func (p *reminiscePage) fetch() tea.Cmd {
	d := p.d
	ctx, gen := p.guard.Next(context.Background())
	return func() tea.Msg {
		m, err := d.api.GetRandomMemory(ctx)
		if err != nil {
			return fetchErrMsg{route: RouteReminisce, gen: gen, err: err}
		}
		return reminisceLoadedMsg{gen: gen, memory: m}
	}
}

func (p *reminiscePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case reminisceLoadedMsg:
		if !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		p.memory = msg.memory
		return p, nil

	case fetchErrMsg:
		if msg.route != RouteReminisce || !p.guard.Accept(msg.gen) {
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
		case "enter", "r", " ":
			p.loading = true
			return p, tea.Batch(p.spin.Tick, p.fetch())
		case "esc":
			return p, navigate(RouteDashboard)
		}
	}
	return p, nil
}

func (p *reminiscePage) View(width int) string {
	th := p.d.theme

	if p.loading {
		return p.spin.View() + " picking a memory..."
	}

	var b strings.Builder
	if p.memory == nil {
		b.WriteString(th.Muted.Render("Your archive is empty. Add a memory first.") + "\n")
	} else {
		if a := viewmodel.AnniversaryLabel(*p.memory, time.Now()); a != "" {
			b.WriteString(th.Success.Render(a) + "\n\n")
		}
		b.WriteString(memoryDetail(th, *p.memory, width) + "\n")
	}
	b.WriteString("\n" + th.Help.Render("enter: another - esc: dashboard"))
	return b.String()
}
