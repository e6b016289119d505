// Package tui is the terminal front end: one root model routing between
// view pages, with a shared auth guard, theme and toast line.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/memorylane/memorylane/internal/client/api"
	"github.com/memorylane/memorylane/internal/client/config"
	"github.com/memorylane/memorylane/internal/client/export"
	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/session"
	"github.com/memorylane/memorylane/internal/logging"
)

// App is the root model. It owns routing, the auth guard, the theme and
// the transient toast line; everything view-specific lives in the pages.
type App struct {
	deps  *deps
	route Route
	page  page

	width  int
	height int

	toast    string
	toastErr bool
	toastSeq uint64
}

func NewApp(cfg *config.Config, client *api.Client, store *session.Store, log logging.Logger) App {
	theme := ThemeByName(store.Theme())
	d := &deps{
		cfg:      cfg,
		api:      client,
		session:  store,
		lookbook: export.NewLookbook(client, log),
		log:      log,
		theme:    &theme,
	}

	route := RouteDashboard
	if store.State() != session.StateAuthenticated {
		route = RouteLogin
	}
	return App{deps: d, route: route, page: newPage(d, route, "")}
}

func (a App) Init() tea.Cmd {
	return a.page.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+t":
			return a.toggleTheme()
		}

	case navigateMsg:
		return a.goTo(msg.route, msg.arg)

	case SessionExpiredMsg:
		next, cmd := a.goTo(RouteLogin, "")
		return next, tea.Batch(cmd, toastErr("Session expired, please log in again"))

	case toastMsg:
		a.toast = msg.text
		a.toastErr = msg.isErr
		a.toastSeq++
		return a, tick(4*time.Second, clearToastMsg{seq: a.toastSeq})

	case clearToastMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}
		return a, nil
	}

	next, cmd := a.page.Update(msg)
	a.page = next
	return a, cmd
}

// goTo applies the auth guard and swaps the page. Unauthenticated users
// land on login; non-admins asking for the admin view land on the
// dashboard. Unknown destinations redirect by auth state instead of
// rendering a dead end.
func (a App) goTo(route Route, arg string) (tea.Model, tea.Cmd) {
	user := a.deps.session.Current()
	var warn tea.Cmd

	switch {
	case route == RouteLogin || route == RouteRegister:
		if user != nil {
			route = RouteDashboard
		}
	case user == nil:
		route = RouteLogin
	case route == RouteAdmin && !user.IsAdmin():
		route = RouteDashboard
		warn = toastErr("Admins only")
	case route < RouteLogin || route > RouteAdmin:
		route = RouteDashboard
	}

	a.route = route
	a.page = newPage(a.deps, route, arg)
	return a, tea.Batch(a.page.Init(), warn)
}

func (a App) toggleTheme() (tea.Model, tea.Cmd) {
	next := LightTheme()
	if a.deps.theme.Name == "light" {
		next = DarkTheme()
	}
	*a.deps.theme = next
	if err := a.deps.session.SetTheme(next.Name); err != nil {
		a.deps.log.Warn(context.Background(), "persist theme", "error", err)
	}
	return a, nil
}

func (a App) View() string {
	th := a.deps.theme
	width := a.width
	if width <= 0 {
		width = 80
	}

	header := th.Title.Render("MemoryLane") + "  " + th.Subtitle.Render(a.page.Title())
	if u := a.deps.session.Current(); u != nil {
		who := u.Name
		if u.IsAdmin() {
			who += " (admin)"
		}
		header += "  " + th.Muted.Render(who)
	}

	body := a.page.View(width)

	status := ""
	if a.toast != "" {
		style := th.Success
		if a.toastErr {
			style = th.Error
		}
		status = style.Render(a.toast)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", status)
}

// newPage constructs the page for a route. The guard has already run.
func newPage(d *deps, route Route, arg string) page {
	switch route {
	case RouteLogin:
		return newLoginPage(d)
	case RouteRegister:
		return newRegisterPage(d)
	case RouteTimeline:
		return newTimelinePage(d)
	case RouteAlbums:
		return newAlbumsPage(d)
	case RouteAlbumDetail:
		return newAlbumDetailPage(d, arg)
	case RouteMilestones:
		return newMilestonesPage(d)
	case RouteSearch:
		return newSearchPage(d)
	case RouteReminisce:
		return newReminiscePage(d)
	case RouteCreate:
		return newCreatePage(d)
	case RouteAdmin:
		return newAdminPage(d)
	default:
		return newDashboardPage(d)
	}
}

// currentUser is a nil-safe accessor for pages that embed the user id in
// requests.
func currentUser(d *deps) models.User {
	if u := d.session.Current(); u != nil {
		return *u
	}
	return models.User{}
}
