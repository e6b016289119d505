package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memorylane/memorylane/internal/client/api"
	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/remote"
	"github.com/memorylane/memorylane/internal/client/viewmodel"
)

// memoryForm is the locally validated creation payload. A memory needs a
// title and at least one attachment, media or voice.
type memoryForm struct {
	Title     string `validate:"required"`
	PhotoPath string `validate:"required_without=VoicePath"`
	VoicePath string
	Date      string `validate:"omitempty,datetime=2006-01-02"`
}

type createDoneMsg struct {
	count int
	err   error
}

type createTagsMsg struct {
	gen  uint64
	tags []models.Tag
}

type createAlbumsMsg struct {
	gen    uint64
	albums []models.Album
}

const (
	fieldTitle = iota
	fieldDescription
	fieldLocation
	fieldDate
	fieldTags
	fieldPhoto
	fieldVoice
	fieldAlbum
	fieldCount
)

// createPage is the new-memory form. Bulk mode reinterprets the photo
// field as a comma-separated list and derives numbered titles.
type createPage struct {
	d     *deps
	guard *remote.Guard
	spin  spinner.Model

	inputs    []textinput.Model
	focus     int
	milestone bool
	bulk      bool
	busy      bool
	errMsg    string
	allTags   []models.Tag
	albums    []models.Album
}

func newCreatePage(d *deps) *createPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	mk := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}

	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldTitle] = mk("title", 160)
	inputs[fieldDescription] = mk("description", 500)
	inputs[fieldLocation] = mk("location", 120)
	inputs[fieldDate] = mk("date (YYYY-MM-DD, optional)", 10)
	inputs[fieldTags] = mk("tags, comma separated", 200)
	inputs[fieldPhoto] = mk("photo or video file path", 300)
	inputs[fieldVoice] = mk("voice note file path (optional)", 300)
	inputs[fieldAlbum] = mk("album name (optional, created if new)", 120)
	inputs[fieldTitle].Focus()

	return &createPage{d: d, guard: &remote.Guard{}, spin: sp, inputs: inputs}
}

func (p *createPage) Title() string {
	if p.bulk {
		return "New memories (bulk)"
	}
	return "New memory"
}

func (p *createPage) Init() tea.Cmd {
	d := p.d
	ctx, gen := p.guard.Next(context.Background())
	loadTags := func() tea.Msg {
		tags, err := d.api.GetTags(ctx)
		if err != nil {
			return fetchErrMsg{route: RouteCreate, gen: gen, err: err}
		}
		return createTagsMsg{gen: gen, tags: tags}
	}
	loadAlbums := func() tea.Msg {
		albums, err := d.api.ListAlbums(ctx)
		if err != nil {
			return fetchErrMsg{route: RouteCreate, gen: gen, err: err}
		}
		return createAlbumsMsg{gen: gen, albums: albums}
	}
	return tea.Batch(textinput.Blink, loadTags, loadAlbums)
}

func (p *createPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case createTagsMsg:
		if p.guard.Accept(msg.gen) {
			p.allTags = msg.tags
		}
		return p, nil

	case createAlbumsMsg:
		if p.guard.Accept(msg.gen) {
			p.albums = msg.albums
		}
		return p, nil

	case fetchErrMsg:
		if msg.route != RouteCreate || !p.guard.Accept(msg.gen) {
			return p, nil
		}
		return p, fetchErrToCmd(msg.err)

	case createDoneMsg:
		p.busy = false
		if msg.err != nil {
			p.errMsg = msg.err.Error()
			return p, nil
		}
		note := "Memory saved"
		if msg.count > 1 {
			note = fmt.Sprintf("%d memories saved", msg.count)
		}
		return p, tea.Batch(navigate(RouteTimeline), toast(note))

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		if p.busy {
			return p, cmd
		}
		return p, nil

	case tea.KeyMsg:
		if p.busy {
			return p, nil
		}
		switch msg.String() {
		case "esc":
			return p, navigate(RouteDashboard)
		case "tab", "down":
			p.focus = (p.focus + 1) % len(p.inputs)
			return p.refocus()
		case "shift+tab", "up":
			p.focus = (p.focus + len(p.inputs) - 1) % len(p.inputs)
			return p.refocus()
		case "ctrl+s":
			p.milestone = !p.milestone
			return p, nil
		case "ctrl+b":
			p.bulk = !p.bulk
			if p.bulk {
				p.inputs[fieldPhoto].Placeholder = "file paths, comma separated"
			} else {
				p.inputs[fieldPhoto].Placeholder = "photo or video file path"
			}
			return p, nil
		case "enter":
			if p.focus < len(p.inputs)-1 {
				p.focus++
				return p.refocus()
			}
			return p.submit()
		}

		var cmd tea.Cmd
		p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *createPage) refocus() (page, tea.Cmd) {
	for i := range p.inputs {
		if i == p.focus {
			p.inputs[i].Focus()
		} else {
			p.inputs[i].Blur()
		}
	}
	return p, textinput.Blink
}

func (p *createPage) submit() (page, tea.Cmd) {
	form := memoryForm{
		Title:     strings.TrimSpace(p.inputs[fieldTitle].Value()),
		PhotoPath: strings.TrimSpace(p.inputs[fieldPhoto].Value()),
		VoicePath: strings.TrimSpace(p.inputs[fieldVoice].Value()),
		Date:      strings.TrimSpace(p.inputs[fieldDate].Value()),
	}
	if err := validate.Struct(form); err != nil {
		p.errMsg = formError(err)
		return p, nil
	}
	if p.bulk && form.PhotoPath == "" {
		p.errMsg = "Bulk mode needs at least one file"
		return p, nil
	}

	var date time.Time
	if form.Date != "" {
		date, _ = time.Parse("2006-01-02", form.Date)
	}

	var tags []string
	for _, t := range strings.Split(p.inputs[fieldTags].Value(), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	p.busy = true
	p.errMsg = ""
	d := p.d
	albumName := strings.TrimSpace(p.inputs[fieldAlbum].Value())
	known := p.albums

	if p.bulk {
		var paths []string
		for _, part := range strings.Split(form.PhotoPath, ",") {
			if part = strings.TrimSpace(part); part != "" {
				paths = append(paths, part)
			}
		}
		in := api.BulkCreateInput{
			Title:     form.Title,
			Location:  strings.TrimSpace(p.inputs[fieldLocation].Value()),
			Date:      date,
			FilePaths: paths,
		}
		create := func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*d.cfg.RequestTimeout)
			defer cancel()
			albumID, err := resolveAlbum(ctx, d, known, albumName)
			if err != nil {
				return createDoneMsg{err: err}
			}
			in.AlbumID = albumID
			created, err := d.api.BulkCreateMemories(ctx, in)
			return createDoneMsg{count: len(created), err: err}
		}
		return p, tea.Batch(p.spin.Tick, create)
	}

	in := api.CreateMemoryInput{
		Title:       form.Title,
		Description: strings.TrimSpace(p.inputs[fieldDescription].Value()),
		Location:    strings.TrimSpace(p.inputs[fieldLocation].Value()),
		Date:        date,
		IsMilestone: p.milestone,
		Tags:        tags,
		PhotoPath:   form.PhotoPath,
		VoicePath:   form.VoicePath,
	}
	create := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*d.cfg.RequestTimeout)
		defer cancel()
		albumID, err := resolveAlbum(ctx, d, known, albumName)
		if err != nil {
			return createDoneMsg{err: err}
		}
		in.AlbumID = albumID
		_, err = d.api.CreateMemory(ctx, in)
		return createDoneMsg{count: 1, err: err}
	}
	return p, tea.Batch(p.spin.Tick, create)
}

// resolveAlbum maps an album name to its id, creating the album when the
// name is new. An empty name means no album placement.
func resolveAlbum(ctx context.Context, d *deps, known []models.Album, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	for _, a := range known {
		if strings.EqualFold(a.Name, name) {
			return a.ID, nil
		}
	}
	created, err := d.api.CreateAlbum(ctx, name, "")
	if err != nil {
		return "", fmt.Errorf("create album %q: %w", name, err)
	}
	return created.ID, nil
}

func formError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Title"):
		return "Title is required"
	case strings.Contains(msg, "PhotoPath"):
		return "Attach a photo/video or a voice note"
	case strings.Contains(msg, "Date"):
		return "Date must look like 2006-01-02"
	default:
		return msg
	}
}

func (p *createPage) View(width int) string {
	th := p.d.theme
	var b strings.Builder

	labels := [fieldCount]string{"Title", "Description", "Location", "Date", "Tags", "Media", "Voice", "Album"}
	for i, in := range p.inputs {
		cursor := "  "
		if i == p.focus {
			cursor = th.Badge.Render("> ")
		}
		b.WriteString(cursor + th.Label.Render(fmt.Sprintf("%-12s", labels[i])) + in.View() + "\n")

		// Tag suggestions appear under the tags field while it has focus.
		if i == fieldTags && p.focus == fieldTags {
			if hints := p.tagHints(); hints != "" {
				b.WriteString("    " + th.Muted.Render(hints) + "\n")
			}
		}
	}

	b.WriteString("\n")
	if p.milestone {
		b.WriteString(th.Badge.Render("marked as milestone") + "\n")
	}
	if p.bulk {
		if preview := p.bulkPreview(); preview != "" {
			b.WriteString(th.Muted.Render(preview) + "\n")
		}
	}
	if p.busy {
		b.WriteString(p.spin.View() + " uploading...\n")
	}
	if p.errMsg != "" {
		b.WriteString(th.Error.Render(p.errMsg) + "\n")
	}

	b.WriteString("\n" + th.Help.Render("enter: next/save - ctrl+s: milestone - ctrl+b: bulk mode - esc: dashboard"))
	return b.String()
}

// tagHints shows existing tags matching the fragment after the last comma.
func (p *createPage) tagHints() string {
	value := p.inputs[fieldTags].Value()
	parts := strings.Split(value, ",")
	fragment := strings.TrimSpace(parts[len(parts)-1])
	selected := make([]string, 0, len(parts)-1)
	for _, t := range parts[:len(parts)-1] {
		if t = strings.TrimSpace(t); t != "" {
			selected = append(selected, t)
		}
	}

	options := viewmodel.FilterTagOptions(p.allTags, fragment, selected)
	if len(options) == 0 {
		return ""
	}
	if len(options) > 6 {
		options = options[:6]
	}
	names := make([]string, len(options))
	for i, t := range options {
		names[i] = t.Name
	}
	return "existing: " + strings.Join(names, ", ")
}

func (p *createPage) bulkPreview() string {
	var items []viewmodel.BulkItem
	for _, part := range strings.Split(p.inputs[fieldPhoto].Value(), ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, viewmodel.BulkItem{Path: part})
		}
	}
	if len(items) == 0 {
		return ""
	}
	items = viewmodel.SynthesizeBulkTitles(strings.TrimSpace(p.inputs[fieldTitle].Value()), items)
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	return fmt.Sprintf("bulk: %d files as %s", len(items), strings.Join(titles, "; "))
}
