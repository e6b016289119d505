package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorylane/memorylane/internal/client/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestLoad_MissingFileIsAnonymous(t *testing.T) {
	s := testStore(t)
	assert.Equal(t, StateLoading, s.State())

	s.Load()

	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())
}

func TestLoad_CorruptFileIsAnonymous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewStore(path)
	s.Load()

	assert.Equal(t, StateAnonymous, s.State())
}

func TestLoad_MissingRoleDefaultsToUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok","name":"Ada","id":"u1"}`), 0o600))

	s := NewStore(path)
	s.Load()

	require.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, models.RoleUser, s.Current().Role)
}

func TestLoginPersistsAndLogoutClears(t *testing.T) {
	s := testStore(t)
	s.Load()

	u := models.User{ID: "u1", Name: "Ada", Role: models.RoleAdmin, Token: "tok"}
	require.NoError(t, s.Login(u))
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "tok", s.Token())

	// A fresh store over the same file sees the login.
	again := NewStore(s.path)
	again.Load()
	require.NotNil(t, again.Current())
	assert.Equal(t, "Ada", again.Current().Name)

	require.NoError(t, s.Logout())
	assert.Equal(t, StateAnonymous, s.State())

	again = NewStore(s.path)
	again.Load()
	assert.Nil(t, again.Current())
}

func TestLogin_BeforeLoadFailsLoudly(t *testing.T) {
	s := testStore(t)
	err := s.Login(models.User{Token: "tok"})
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestThemeSurvivesLogout(t *testing.T) {
	s := testStore(t)
	s.Load()
	require.NoError(t, s.SetTheme("dark"))
	require.NoError(t, s.Login(models.User{ID: "u1", Token: "tok"}))
	require.NoError(t, s.Logout())

	again := NewStore(s.path)
	again.Load()
	assert.Equal(t, "dark", again.Theme())
}

func TestSubscribe_NotifiedOnLoginAndClear(t *testing.T) {
	s := testStore(t)
	s.Load()

	var seen []*models.User
	s.Subscribe(func(u *models.User) { seen = append(seen, u) })

	require.NoError(t, s.Login(models.User{ID: "u1", Token: "tok"}))
	require.NoError(t, s.Clear())

	require.Len(t, seen, 2)
	assert.NotNil(t, seen[0])
	assert.Nil(t, seen[1])
}

// unsignedJWT builds an unsigned JWT with the given expiry for parse-only tests.
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	claims, err := json.Marshal(map[string]any{"exp": exp.Unix()})
	require.NoError(t, err)
	payload := base64.RawURLEncoding.EncodeToString(claims)
	return fmt.Sprintf("%s.%s.", header, payload)
}

func TestTokenExpired(t *testing.T) {
	s := testStore(t)
	s.Load()
	now := time.Now()

	require.NoError(t, s.Login(models.User{Token: unsignedJWT(t, now.Add(time.Hour))}))
	assert.False(t, s.TokenExpired(now))

	require.NoError(t, s.Login(models.User{Token: unsignedJWT(t, now.Add(-time.Hour))}))
	assert.True(t, s.TokenExpired(now))

	require.NoError(t, s.Login(models.User{Token: "opaque-token"}))
	assert.False(t, s.TokenExpired(now), "non-JWT tokens are never locally expired")
}
