package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/memorylane/memorylane/internal/client/api"
	"github.com/memorylane/memorylane/internal/client/config"
	"github.com/memorylane/memorylane/internal/client/export"
	"github.com/memorylane/memorylane/internal/client/session"
	"github.com/memorylane/memorylane/internal/logging"
)

// Route identifies a view. Navigation goes through navigateMsg so the root
// model can apply the auth guard in one place.
type Route int

const (
	RouteLogin Route = iota
	RouteRegister
	RouteDashboard
	RouteTimeline
	RouteAlbums
	RouteAlbumDetail
	RouteMilestones
	RouteSearch
	RouteReminisce
	RouteCreate
	RouteAdmin
)

// navigateMsg requests a view change. Arg carries the album id for the
// detail route and is ignored elsewhere.
type navigateMsg struct {
	route Route
	arg   string
}

func navigate(route Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: route} }
}

func navigateTo(route Route, arg string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: route, arg: arg} }
}

// SessionExpiredMsg is injected from outside the event loop when the HTTP
// wrapper intercepts an expired session.
type SessionExpiredMsg struct{}

// toastMsg shows a transient status line; clearToastMsg removes it.
type toastMsg struct {
	text  string
	isErr bool
}

type clearToastMsg struct{ seq uint64 }

func toast(text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text} }
}

func toastErr(text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text, isErr: true} }
}

// deps is the shared wiring every page receives.
type deps struct {
	cfg      *config.Config
	api      *api.Client
	session  *session.Store
	lookbook *export.Lookbook
	log      logging.Logger
	theme    *Theme
}

// page is a routed view. Update returns the replacement page so value
// receivers stay idiomatic.
type page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (page, tea.Cmd)
	View(width int) string
	Title() string
}

// fetchErrMsg carries a failed fetch back to its page, tagged with the
// guard generation that issued it.
type fetchErrMsg struct {
	route Route
	gen   uint64
	err   error
}

// fetchErrToCmd turns a fetch failure into UI feedback. Cancellation is
// silent; an expired session is handled by the interception path, not here.
func fetchErrToCmd(err error) tea.Cmd {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, api.ErrSessionExpired) {
		return nil
	}
	return toastErr(err.Error())
}

// tick schedules a message after d, used for debounce settles and toast
// expiry.
func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
