package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/logging"
)

// fakeTokens is an in-memory TokenStore.
type fakeTokens struct {
	mu     sync.Mutex
	token  string
	clears int
}

func (f *fakeTokens) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeTokens) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.clears++
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *fakeTokens) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := &fakeTokens{token: token}
	return New(srv.URL+"/api", 5*time.Second, tokens, logging.Nop{}), tokens
}

func TestBearerInjection(t *testing.T) {
	var got string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	}), "tok-123")

	_, _, err := c.ListMemories(context.Background(), MemoryQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got)
}

func TestNoAuthHeaderWhenAnonymous(t *testing.T) {
	var got string
	var present bool
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		fmt.Fprint(w, `[]`)
	}), "")

	_, err := c.GetTags(context.Background())
	require.NoError(t, err)
	assert.False(t, present, "no Authorization header without a token, got %q", got)
}

func TestSessionExpiryInterception(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		expired bool
	}{
		{name: "message field", body: `{"message":"token expired"}`, expired: true},
		{name: "error field", body: `{"error":"Session EXPIRED, log in again"}`, expired: true},
		{name: "other failure", body: `{"error":"invalid credentials"}`, expired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, tt.body)
			}), "tok")

			var redirects int
			c.OnSessionExpired(func() { redirects++ })

			_, _, err := c.ListMemories(context.Background(), MemoryQuery{})
			require.Error(t, err)

			if tt.expired {
				assert.ErrorIs(t, err, ErrSessionExpired)
				assert.Equal(t, 1, tokens.clears, "session cleared exactly once")
				assert.Equal(t, 1, redirects, "expiry handler runs exactly once")
				assert.Empty(t, tokens.Token())
			} else {
				var apiErr *Error
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
				assert.Equal(t, "invalid credentials", apiErr.Message)
				assert.Zero(t, tokens.clears)
				assert.Zero(t, redirects)
			}
		})
	}
}

func TestListMemories_QueryAndPagination(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/memories/all", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "sunset", q.Get("search"))
		assert.Equal(t, "true", q.Get("is_milestone"))
		assert.Equal(t, "travel", q.Get("tag"))
		assert.Equal(t, "u7", q.Get("userId"))
		fmt.Fprint(w, `{"memories":[{"id":"m1"}],"pagination":{"totalPages":5}}`)
	}), "tok")

	memories, total, err := c.ListMemories(context.Background(), MemoryQuery{
		AllUsers:      true,
		Page:          2,
		Search:        "sunset",
		MilestoneOnly: true,
		Tag:           "travel",
		UserID:        "u7",
	})
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, "m1", memories[0].ID)
	assert.Equal(t, 5, total)
}

func TestLogin_BothResponseShapes(t *testing.T) {
	t.Run("nested user", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/login", r.URL.Path)
			fmt.Fprint(w, `{"access_token":"at","user":{"id":"u1","name":"Ada","role":"admin"}}`)
		}), "")
		u, err := c.Login(context.Background(), "ada@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, models.User{ID: "u1", Name: "Ada", Role: "admin", Token: "at"}, *u)
	})

	t.Run("flat register shape", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"token":"tk","id":"u2"}`)
		}), "")
		u, err := c.Register(context.Background(), "Grace", "g@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, "tk", u.Token)
		assert.Equal(t, models.RoleUser, u.Role, "missing role defaults to user")
		assert.Equal(t, "Grace", u.Name, "missing name falls back to the form value")
	})
}

func TestCancellation_ReportedAsContextError(t *testing.T) {
	started := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}), "tok")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := c.ListMemories(ctx, MemoryQuery{})
		done <- err
	}()

	<-started
	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}

// albumBackend is a minimal in-memory album store for the end-to-end flow.
type albumBackend struct {
	mu      sync.Mutex
	nextID  int
	albums  map[string]*models.Album
	handler http.Handler
}

func newAlbumBackend() *albumBackend {
	b := &albumBackend{albums: map[string]*models.Album{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/albums", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		var in struct{ Name, Description string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.nextID++
		id := fmt.Sprintf("alb-%d", b.nextID)
		a := &models.Album{ID: id, Name: in.Name, Description: in.Description}
		b.albums[id] = a
		_ = json.NewEncoder(w).Encode(map[string]any{"album": a})
	})
	mux.HandleFunc("/api/albums/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/albums/"), "/")
		a, ok := b.albums[parts[0]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"album not found"}`)
			return
		}
		switch {
		case len(parts) == 1 && r.Method == http.MethodGet:
			a.TotalMemories = len(a.Memories)
			_ = json.NewEncoder(w).Encode(a)
		case len(parts) == 1 && r.Method == http.MethodDelete:
			delete(b.albums, parts[0])
			fmt.Fprint(w, `{}`)
		case len(parts) == 2 && r.Method == http.MethodPost:
			var in struct {
				MemoryIDs []string `json:"memoryIds"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)
			for _, id := range in.MemoryIDs {
				a.Memories = append(a.Memories, models.Memory{ID: id})
			}
			fmt.Fprint(w, `{}`)
		case len(parts) == 3 && r.Method == http.MethodDelete:
			kept := a.Memories[:0]
			for _, m := range a.Memories {
				if m.ID != parts[2] {
					kept = append(kept, m)
				}
			}
			a.Memories = kept
			fmt.Fprint(w, `{}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	b.handler = mux
	return b
}

func TestAlbumLifecycle(t *testing.T) {
	backend := newAlbumBackend()
	c, _ := newTestClient(t, backend.handler, "tok")
	ctx := context.Background()

	album, err := c.CreateAlbum(ctx, "Trip", "Summer trip")
	require.NoError(t, err)
	require.NotEmpty(t, album.ID)

	require.NoError(t, c.AddAlbumMemories(ctx, album.ID, []string{"m1", "m2"}))

	got, err := c.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count())

	require.NoError(t, c.RemoveAlbumMemory(ctx, album.ID, "m1"))
	got, err = c.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count())

	require.NoError(t, c.DeleteAlbum(ctx, album.ID))
	_, err = c.GetAlbum(ctx, album.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGenerateCaptionPreview_SendsPreviewOnly(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate-video", r.URL.Path)
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, true, in["preview_only"])
		assert.Equal(t, "alb-1", in["album_id"])
		fmt.Fprint(w, `{"suggestions":[{"id":"m1","new_title":"Golden Hour","new_description":"Dunes at dusk"}]}`)
	}), "tok")

	got, err := c.GenerateCaptionPreview(context.Background(), "alb-1", "u1", "warm tone")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Suggestion{MemoryID: "m1", Title: "Golden Hour", Description: "Dunes at dusk"}, got[0])
}
