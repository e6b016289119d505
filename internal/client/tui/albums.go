package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/remote"
	"github.com/memorylane/memorylane/internal/filex"
)

type albumsLoadedMsg struct {
	gen    uint64
	albums []models.Album
}

type albumsActionMsg struct {
	note string
	err  error
}

type archiveDoneMsg struct {
	path string
	err  error
}

// albumsPage lists the user's albums and hosts creation, deletion and the
// archive download.
type albumsPage struct {
	d     *deps
	guard *remote.Guard
	spin  spinner.Model

	loading  bool
	creating bool
	albums   []models.Album
	cursor   int
	pending  string // album id awaiting delete confirmation
	inputs   []textinput.Model
	focus    int
}

func newAlbumsPage(d *deps) *albumsPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &albumsPage{d: d, guard: &remote.Guard{}, spin: sp, loading: true}
}

func (p *albumsPage) Title() string { return "Albums" }

func (p *albumsPage) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, p.fetch())
}

func (p *albumsPage) fetch() tea.Cmd {
	d := p.d
	ctx, gen := p.guard.Next(context.Background())
	return func() tea.Msg {
		albums, err := d.api.ListAlbums(ctx)
		if err != nil {
			return fetchErrMsg{route: RouteAlbums, gen: gen, err: err}
		}
		return albumsLoadedMsg{gen: gen, albums: albums}
	}
}

func (p *albumsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case albumsLoadedMsg:
		if !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		p.albums = msg.albums
		p.cursor = clampCursor(p.cursor, len(p.albums))
		return p, nil

	case fetchErrMsg:
		if msg.route != RouteAlbums || !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		return p, fetchErrToCmd(msg.err)

	case albumsActionMsg:
		if msg.err != nil {
			return p, fetchErrToCmd(msg.err)
		}
		p.loading = true
		return p, tea.Batch(toast(msg.note), p.spin.Tick, p.fetch())

	case archiveDoneMsg:
		if msg.err != nil {
			return p, fetchErrToCmd(msg.err)
		}
		return p, toast("Archive saved to " + msg.path)

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		if p.loading {
			return p, cmd
		}
		return p, nil

	case tea.KeyMsg:
		if p.creating {
			return p.updateForm(msg)
		}
		return p.updateList(msg)
	}
	return p, nil
}

func (p *albumsPage) updateList(msg tea.KeyMsg) (page, tea.Cmd) {
	if p.pending != "" {
		id := p.pending
		p.pending = ""
		if msg.String() == "y" {
			return p, p.deleteAlbum(id)
		}
		return p, nil
	}

	switch msg.String() {
	case "up", "k":
		p.cursor = clampCursor(p.cursor-1, len(p.albums))
	case "down", "j":
		p.cursor = clampCursor(p.cursor+1, len(p.albums))
	case "enter":
		if a, ok := p.selected(); ok {
			return p, navigateTo(RouteAlbumDetail, a.ID)
		}
	case "c":
		name := textinput.New()
		name.Placeholder = "album name"
		name.CharLimit = 120
		name.Focus()
		desc := textinput.New()
		desc.Placeholder = "description (optional)"
		desc.CharLimit = 300
		p.creating = true
		p.inputs = []textinput.Model{name, desc}
		p.focus = 0
		return p, textinput.Blink
	case "x":
		if a, ok := p.selected(); ok {
			p.pending = a.ID
		}
	case "D":
		if a, ok := p.selected(); ok {
			return p, p.downloadArchive(a)
		}
	case "esc":
		return p, navigate(RouteDashboard)
	}
	return p, nil
}

func (p *albumsPage) updateForm(msg tea.KeyMsg) (page, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.creating = false
		p.inputs = nil
		return p, nil
	case "tab", "down":
		p.focus = (p.focus + 1) % len(p.inputs)
		return p.refocus()
	case "shift+tab", "up":
		p.focus = (p.focus + len(p.inputs) - 1) % len(p.inputs)
		return p.refocus()
	case "enter":
		if p.focus == 0 {
			p.focus = 1
			return p.refocus()
		}
		return p.submitCreate()
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	return p, cmd
}

func (p *albumsPage) refocus() (page, tea.Cmd) {
	for i := range p.inputs {
		if i == p.focus {
			p.inputs[i].Focus()
		} else {
			p.inputs[i].Blur()
		}
	}
	return p, textinput.Blink
}

func (p *albumsPage) submitCreate() (page, tea.Cmd) {
	name := strings.TrimSpace(p.inputs[0].Value())
	if name == "" {
		return p, toastErr("Album name is required")
	}
	desc := strings.TrimSpace(p.inputs[1].Value())

	d := p.d
	p.creating = false
	p.inputs = nil
	return p, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
		defer cancel()
		_, err := d.api.CreateAlbum(ctx, name, desc)
		return albumsActionMsg{note: "Album created", err: err}
	}
}

func (p *albumsPage) deleteAlbum(id string) tea.Cmd {
	d := p.d
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
		defer cancel()
		err := d.api.DeleteAlbum(ctx, id)
		return albumsActionMsg{note: "Album deleted", err: err}
	}
}

func (p *albumsPage) downloadArchive(a models.Album) tea.Cmd {
	d := p.d
	return func() tea.Msg {
		path := filepath.Join(d.cfg.DownloadDir, sanitizeFileName(a.Name)+".zip")
		if err := filex.EnsureDir(d.cfg.DownloadDir); err != nil {
			return archiveDoneMsg{err: err}
		}
		f, err := os.Create(path)
		if err != nil {
			return archiveDoneMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*d.cfg.RequestTimeout)
		defer cancel()
		if _, err := d.api.DownloadAlbumArchive(ctx, a.ID, f); err != nil {
			os.Remove(path)
			return archiveDoneMsg{err: err}
		}
		return archiveDoneMsg{path: path}
	}
}

// sanitizeFileName strips an album name down to a safe file-name stem.
func sanitizeFileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, name)
	if clean == "" {
		clean = "album"
	}
	return clean
}

func (p *albumsPage) selected() (models.Album, bool) {
	if len(p.albums) == 0 {
		return models.Album{}, false
	}
	return p.albums[p.cursor], true
}

func (p *albumsPage) View(width int) string {
	th := p.d.theme

	if p.loading {
		return p.spin.View() + " loading albums..."
	}

	var b strings.Builder
	if len(p.albums) == 0 {
		b.WriteString(th.Muted.Render("No albums yet. Press c to create one.") + "\n")
	}
	for i, a := range p.albums {
		line := fmt.Sprintf("%s %s", a.Name, th.Muted.Render(fmt.Sprintf("(%d memories)", a.Count())))
		if a.HasAIVideo {
			line += " " + th.Badge.Render("[magic]")
		}
		if i == p.cursor {
			b.WriteString(th.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	if p.creating {
		b.WriteString("\n" + th.Header.Render("New album") + "\n")
		for i, in := range p.inputs {
			cursor := "  "
			if i == p.focus {
				cursor = th.Badge.Render("> ")
			}
			b.WriteString(cursor + in.View() + "\n")
		}
		b.WriteString(th.Help.Render("enter: create - esc: cancel"))
		return b.String()
	}

	if a, ok := p.selected(); ok && a.Description != "" {
		b.WriteString("\n" + th.Muted.Render(a.Description) + "\n")
	}
	if p.pending != "" {
		b.WriteString("\n" + th.Error.Render("Delete this album? y to confirm, any other key to cancel") + "\n")
	}
	b.WriteString("\n" + th.Help.Render("enter: open - c: create - D: download archive - x: delete - esc: dashboard"))
	return b.String()
}
