package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memorylane/memorylane/internal/client/api"
	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/remote"
	"github.com/memorylane/memorylane/internal/client/viewmodel"
	"github.com/memorylane/memorylane/internal/filex"
)

type albumLoadedMsg struct {
	gen   uint64
	album *models.Album
}

type pickerLoadedMsg struct {
	gen       uint64
	available []models.Memory
}

type detailActionMsg struct {
	note string
	err  error
}

type previewMsg struct {
	suggestions []models.Suggestion
	err         error
}

type applyMsg struct{ err error }

type lookbookDoneMsg struct {
	path string
	err  error
}

type detailMode int

const (
	detailList detailMode = iota
	detailPicker
	detailPrompt
	detailPreview
)

// albumDetailPage shows one album's membership and hosts the add/remove
// picker, the caption-suggestion workflow and the Lookbook export.
type albumDetailPage struct {
	d       *deps
	albumID string
	guard   *remote.Guard
	spin    spinner.Model

	loading bool
	mode    detailMode
	album   *models.Album
	cursor  int

	available []models.Memory
	picked    map[string]bool
	pickCur   int

	prompt  textinput.Model
	preview viewmodel.Preview
}

func newAlbumDetailPage(d *deps, albumID string) *albumDetailPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	prompt := textinput.New()
	prompt.Placeholder = "style prompt, e.g. warm and nostalgic"
	prompt.CharLimit = 200

	return &albumDetailPage{
		d:       d,
		albumID: albumID,
		guard:   &remote.Guard{},
		spin:    sp,
		loading: true,
		picked:  map[string]bool{},
		prompt:  prompt,
	}
}

func (p *albumDetailPage) Title() string {
	if p.album != nil {
		return "Album: " + p.album.Name
	}
	return "Album"
}

func (p *albumDetailPage) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, p.fetch())
}

func (p *albumDetailPage) fetch() tea.Cmd {
	d := p.d
	id := p.albumID
	ctx, gen := p.guard.Next(context.Background())
	return func() tea.Msg {
		album, err := d.api.GetAlbum(ctx, id)
		if err != nil {
			return fetchErrMsg{route: RouteAlbumDetail, gen: gen, err: err}
		}
		return albumLoadedMsg{gen: gen, album: album}
	}
}

func (p *albumDetailPage) fetchAvailable() tea.Cmd {
	d := p.d
	inAlbum := []models.Memory(nil)
	if p.album != nil {
		inAlbum = p.album.Memories
	}
	ctx, gen := p.guard.Next(context.Background())
	return func() tea.Msg {
		library, _, err := d.api.ListMemories(ctx, api.MemoryQuery{Page: 1, PageSize: 200})
		if err != nil {
			return fetchErrMsg{route: RouteAlbumDetail, gen: gen, err: err}
		}
		return pickerLoadedMsg{gen: gen, available: viewmodel.AvailableForAlbum(library, inAlbum)}
	}
}

func (p *albumDetailPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case albumLoadedMsg:
		if !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		p.album = msg.album
		p.cursor = clampCursor(p.cursor, len(p.album.Memories))
		return p, nil

	case pickerLoadedMsg:
		if !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		p.available = msg.available
		p.picked = map[string]bool{}
		p.pickCur = 0
		p.mode = detailPicker
		return p, nil

	case fetchErrMsg:
		if msg.route != RouteAlbumDetail || !p.guard.Accept(msg.gen) {
			return p, nil
		}
		p.loading = false
		return p, fetchErrToCmd(msg.err)

	case detailActionMsg:
		if msg.err != nil {
			return p, fetchErrToCmd(msg.err)
		}
		p.loading = true
		return p, tea.Batch(toast(msg.note), p.spin.Tick, p.fetch())

	case previewMsg:
		if msg.err != nil {
			p.preview.Fail(msg.err)
			p.mode = detailList
			return p, fetchErrToCmd(msg.err)
		}
		p.preview.Receive(msg.suggestions)
		if p.preview.Phase == viewmodel.PreviewShowing {
			p.mode = detailPreview
			return p, nil
		}
		p.mode = detailList
		return p, toast("No suggestions came back")

	case applyMsg:
		if msg.err != nil {
			// Keep the preview up so the user can retry or discard.
			p.preview.Fail(msg.err)
			return p, fetchErrToCmd(msg.err)
		}
		if p.album != nil {
			p.album.Memories = viewmodel.ApplyTo(p.album.Memories, p.preview.Suggestions)
		}
		p.preview.Applied()
		p.mode = detailList
		p.loading = true
		return p, tea.Batch(toast("Captions applied"), p.spin.Tick, p.fetch())

	case lookbookDoneMsg:
		if msg.err != nil {
			return p, fetchErrToCmd(msg.err)
		}
		return p, toast("Lookbook saved to " + msg.path)

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		if p.loading || p.preview.Phase == viewmodel.PreviewGenerating || p.preview.Phase == viewmodel.PreviewApplying {
			return p, cmd
		}
		return p, nil

	case tea.KeyMsg:
		switch p.mode {
		case detailPicker:
			return p.updatePicker(msg)
		case detailPrompt:
			return p.updatePrompt(msg)
		case detailPreview:
			return p.updatePreview(msg)
		default:
			return p.updateList(msg)
		}
	}
	return p, nil
}

func (p *albumDetailPage) updateList(msg tea.KeyMsg) (page, tea.Cmd) {
	n := 0
	if p.album != nil {
		n = len(p.album.Memories)
	}
	switch msg.String() {
	case "up", "k":
		p.cursor = clampCursor(p.cursor-1, n)
	case "down", "j":
		p.cursor = clampCursor(p.cursor+1, n)
	case "a":
		p.loading = true
		return p, tea.Batch(p.spin.Tick, p.fetchAvailable())
	case "x":
		if m, ok := p.selected(); ok {
			return p, p.removeMemory(m.ID)
		}
	case "m":
		if p.preview.CanGenerate() && p.album != nil && len(p.album.Memories) > 0 {
			p.mode = detailPrompt
			p.prompt.SetValue("")
			p.prompt.Focus()
			return p, textinput.Blink
		}
	case "L":
		if p.album != nil {
			return p, tea.Batch(toast("Rendering Lookbook..."), p.renderLookbook())
		}
	case "esc":
		return p, navigate(RouteAlbums)
	}
	return p, nil
}

func (p *albumDetailPage) updatePicker(msg tea.KeyMsg) (page, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		p.pickCur = clampCursor(p.pickCur-1, len(p.available))
	case "down", "j":
		p.pickCur = clampCursor(p.pickCur+1, len(p.available))
	case " ":
		if len(p.available) > 0 {
			id := p.available[p.pickCur].ID
			p.picked[id] = !p.picked[id]
		}
	case "enter":
		var ids []string
		for _, m := range p.available {
			if p.picked[m.ID] {
				ids = append(ids, m.ID)
			}
		}
		if len(ids) == 0 {
			return p, toastErr("Nothing selected")
		}
		p.mode = detailList
		return p, p.addMemories(ids)
	case "esc":
		p.mode = detailList
	}
	return p, nil
}

func (p *albumDetailPage) updatePrompt(msg tea.KeyMsg) (page, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.mode = detailList
		return p, nil
	case "enter":
		prompt := strings.TrimSpace(p.prompt.Value())
		if !p.preview.Generate(prompt) {
			return p, nil
		}
		p.mode = detailList
		d := p.d
		albumID := p.albumID
		userID := currentUser(d).ID
		generate := func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 4*d.cfg.RequestTimeout)
			defer cancel()
			suggestions, err := d.api.GenerateCaptionPreview(ctx, albumID, userID, prompt)
			return previewMsg{suggestions: suggestions, err: err}
		}
		return p, tea.Batch(p.spin.Tick, generate)
	}

	var cmd tea.Cmd
	p.prompt, cmd = p.prompt.Update(msg)
	return p, cmd
}

func (p *albumDetailPage) updatePreview(msg tea.KeyMsg) (page, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if !p.preview.Apply() {
			return p, nil
		}
		d := p.d
		albumID := p.albumID
		updates := p.preview.Suggestions
		apply := func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
			defer cancel()
			return applyMsg{err: d.api.ConfirmCaptions(ctx, albumID, updates)}
		}
		return p, tea.Batch(p.spin.Tick, apply)
	case "d", "esc":
		p.preview.Discard()
		p.mode = detailList
	}
	return p, nil
}

func (p *albumDetailPage) addMemories(ids []string) tea.Cmd {
	d := p.d
	albumID := p.albumID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
		defer cancel()
		err := d.api.AddAlbumMemories(ctx, albumID, ids)
		return detailActionMsg{note: fmt.Sprintf("Added %d memories", len(ids)), err: err}
	}
}

func (p *albumDetailPage) removeMemory(id string) tea.Cmd {
	d := p.d
	albumID := p.albumID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
		defer cancel()
		err := d.api.RemoveAlbumMemory(ctx, albumID, id)
		return detailActionMsg{note: "Memory removed", err: err}
	}
}

func (p *albumDetailPage) renderLookbook() tea.Cmd {
	d := p.d
	album := p.album
	return func() tea.Msg {
		if err := filex.EnsureDir(d.cfg.DownloadDir); err != nil {
			return lookbookDoneMsg{err: err}
		}
		path := filepath.Join(d.cfg.DownloadDir, sanitizeFileName(album.Name)+"-lookbook.pdf")

		ctx, cancel := context.WithTimeout(context.Background(), 10*d.cfg.RequestTimeout)
		defer cancel()
		if err := d.lookbook.Render(ctx, path, album, album.Memories); err != nil {
			return lookbookDoneMsg{err: err}
		}
		return lookbookDoneMsg{path: path}
	}
}

func (p *albumDetailPage) selected() (models.Memory, bool) {
	if p.album == nil || len(p.album.Memories) == 0 {
		return models.Memory{}, false
	}
	return p.album.Memories[p.cursor], true
}

func (p *albumDetailPage) View(width int) string {
	th := p.d.theme

	if p.loading {
		return p.spin.View() + " loading album..."
	}
	if p.album == nil {
		return th.Muted.Render("Album not found.")
	}

	var b strings.Builder
	if p.album.Description != "" {
		b.WriteString(th.Muted.Render(p.album.Description) + "\n\n")
	}

	switch p.mode {
	case detailPicker:
		b.WriteString(th.Header.Render("Add memories") + "\n")
		if len(p.available) == 0 {
			b.WriteString(th.Muted.Render("Every memory is already in this album.") + "\n")
		}
		for i, m := range p.available {
			mark := "[ ]"
			if p.picked[m.ID] {
				mark = "[x]"
			}
			line := mark + " " + m.Title
			if i == p.pickCur {
				b.WriteString(th.Selected.Render("> "+line) + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
		b.WriteString("\n" + th.Help.Render("space: toggle - enter: add - esc: cancel"))
		return b.String()

	case detailPrompt:
		b.WriteString(th.Header.Render("Magic captions") + "\n")
		b.WriteString("  " + p.prompt.View() + "\n")
		b.WriteString(th.Help.Render("enter: generate a preview - esc: cancel"))
		return b.String()

	case detailPreview:
		b.WriteString(th.Header.Render("Suggested captions") + "\n")
		byID := map[string]models.Memory{}
		for _, m := range p.album.Memories {
			byID[m.ID] = m
		}
		for _, s := range p.preview.Suggestions {
			old := byID[s.MemoryID].Title
			b.WriteString(fmt.Sprintf("  %s %s %s\n", th.Muted.Render(old), th.Badge.Render("->"), s.Title))
			if s.Description != "" {
				b.WriteString("    " + th.Muted.Render(s.Description) + "\n")
			}
		}
		b.WriteString("\n" + th.Help.Render("y: apply - d: discard"))
		return b.String()
	}

	if len(p.album.Memories) == 0 {
		b.WriteString(th.Muted.Render("This album is empty. Press a to add memories.") + "\n")
	}
	for i, m := range p.album.Memories {
		b.WriteString(memoryLine(th, m, i == p.cursor) + "\n")
	}
	if m, ok := p.selected(); ok {
		b.WriteString("\n" + memoryDetail(th, m, width) + "\n")
	}

	switch p.preview.Phase {
	case viewmodel.PreviewGenerating:
		b.WriteString("\n" + p.spin.View() + " generating caption suggestions...\n")
	case viewmodel.PreviewApplying:
		b.WriteString("\n" + p.spin.View() + " applying captions...\n")
	}

	b.WriteString("\n" + th.Help.Render("a: add - x: remove - m: magic captions - L: lookbook - esc: albums"))
	return b.String()
}
