package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorylane/memorylane/internal/client/api"
	"github.com/memorylane/memorylane/internal/client/config"
	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/client/session"
	"github.com/memorylane/memorylane/internal/logging"
)

func newTestApp(t *testing.T, user *models.User) App {
	t.Helper()

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	store.Load()
	if user != nil {
		require.NoError(t, store.Login(*user))
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SessionFile = filepath.Join(t.TempDir(), "session.json")
	cfg.DownloadDir = t.TempDir()

	client := api.New(cfg.APIBaseURL, time.Second, store, logging.Nop{})
	return NewApp(cfg, client, store, logging.Nop{})
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	model, _ := a.Update(msg)
	next, ok := model.(App)
	require.True(t, ok)
	return next
}

func TestAnonymousLandsOnLogin(t *testing.T) {
	a := newTestApp(t, nil)
	_, ok := a.page.(loginPage)
	assert.True(t, ok)
}

func TestAuthenticatedLandsOnDashboard(t *testing.T) {
	a := newTestApp(t, &models.User{ID: "u1", Name: "Ada", Role: models.RoleUser, Token: "tok"})
	_, ok := a.page.(*dashboardPage)
	assert.True(t, ok)
}

func TestGuard_AnonymousRedirectedToLogin(t *testing.T) {
	a := newTestApp(t, nil)
	a = update(t, a, navigateMsg{route: RouteTimeline})
	_, ok := a.page.(loginPage)
	assert.True(t, ok, "protected route falls back to login")
}

func TestGuard_NonAdminBlockedFromAdmin(t *testing.T) {
	a := newTestApp(t, &models.User{ID: "u1", Name: "Ada", Role: models.RoleUser, Token: "tok"})
	a = update(t, a, navigateMsg{route: RouteAdmin})
	_, ok := a.page.(*dashboardPage)
	assert.True(t, ok, "non-admin lands on the dashboard instead")
}

func TestGuard_AdminAllowed(t *testing.T) {
	a := newTestApp(t, &models.User{ID: "u1", Name: "Root", Role: models.RoleAdmin, Token: "tok"})
	a = update(t, a, navigateMsg{route: RouteAdmin})
	_, ok := a.page.(*adminPage)
	assert.True(t, ok)
}

func TestGuard_UnknownRouteRedirectsByAuthState(t *testing.T) {
	a := newTestApp(t, &models.User{ID: "u1", Name: "Ada", Role: models.RoleUser, Token: "tok"})
	a = update(t, a, navigateMsg{route: Route(99)})
	_, ok := a.page.(*dashboardPage)
	assert.True(t, ok)
}

func TestGuard_LoginRouteBouncesAuthenticatedUser(t *testing.T) {
	a := newTestApp(t, &models.User{ID: "u1", Name: "Ada", Role: models.RoleUser, Token: "tok"})
	a = update(t, a, navigateMsg{route: RouteLogin})
	_, ok := a.page.(*dashboardPage)
	assert.True(t, ok)
}

func TestSessionExpiredRoutesToLogin(t *testing.T) {
	a := newTestApp(t, &models.User{ID: "u1", Name: "Ada", Role: models.RoleUser, Token: "tok"})
	a = update(t, a, SessionExpiredMsg{})
	_, ok := a.page.(loginPage)
	assert.True(t, ok)
}

func TestThemeToggle_Persists(t *testing.T) {
	a := newTestApp(t, &models.User{ID: "u1", Name: "Ada", Role: models.RoleUser, Token: "tok"})
	require.Equal(t, "dark", a.deps.theme.Name)

	a = update(t, a, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, "light", a.deps.theme.Name)
	assert.Equal(t, "light", a.deps.session.Theme())

	a = update(t, a, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, "dark", a.deps.theme.Name)
}

func TestDashboard_StaleResponseDropped(t *testing.T) {
	a := newTestApp(t, &models.User{ID: "u1", Name: "Ada", Role: models.RoleUser, Token: "tok"})
	p := a.page.(*dashboardPage)

	// Two fetch cycles; a response from the first generation must be ignored.
	p.fetch()
	p.fetch()
	next, _ := p.Update(dashMemoriesMsg{gen: 1, memories: []models.Memory{{ID: "stale"}}})
	got := next.(*dashboardPage)
	assert.True(t, got.loading, "stale payload does not land")
	assert.Empty(t, got.recent)

	next, _ = got.Update(dashMemoriesMsg{gen: 2, memories: []models.Memory{{ID: "fresh"}}})
	got = next.(*dashboardPage)
	assert.False(t, got.loading)
	require.Len(t, got.recent, 1)
	assert.Equal(t, "fresh", got.recent[0].ID)
}

func TestSearch_OnlyLatestSettleFetches(t *testing.T) {
	a := newTestApp(t, &models.User{ID: "u1", Name: "Ada", Role: models.RoleUser, Token: "tok"})
	p := newSearchPage(a.deps)

	first := p.debounce.Arm()
	second := p.debounce.Arm()

	next, cmd := p.Update(searchSettleMsg{seq: first})
	got := next.(*searchPage)
	assert.False(t, got.loading, "superseded settle is ignored")
	assert.Nil(t, cmd)

	next, cmd = got.Update(searchSettleMsg{seq: second})
	got = next.(*searchPage)
	assert.True(t, got.loading, "latest settle issues the fetch")
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, got.pager.Page, "filter change resets to page 1")
}

func TestSearch_PagerBoundsRespected(t *testing.T) {
	a := newTestApp(t, &models.User{ID: "u1", Name: "Ada", Role: models.RoleUser, Token: "tok"})
	p := newSearchPage(a.deps)
	p.searched = true
	p.pager.SetTotal(1)

	next, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRight})
	got := next.(*searchPage)
	assert.Equal(t, 1, got.pager.Page, "cannot page past the last page")
	assert.Nil(t, cmd)
}
