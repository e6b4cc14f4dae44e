package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueCookie(t *testing.T, m *Manager) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(context.Background(), rec))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestManagerIssueAndResolve(t *testing.T) {
	m := NewManager(NewMemory(time.Hour), "test-secret", time.Hour)
	cookie := issueCookie(t, m)

	assert.Equal(t, CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)

	id, sig, ok := strings.Cut(cookie.Value, ".")
	require.True(t, ok)
	assert.NotEmpty(t, id)
	assert.Len(t, sig, 64, "hex encoded HMAC-SHA256")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookie)
	s, err := m.Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, s.Authenticated)
	assert.True(t, m.Authenticated(context.Background(), req))
}

func TestManagerRejectsTamperedCookie(t *testing.T) {
	m := NewManager(NewMemory(time.Hour), "test-secret", time.Hour)
	cookie := issueCookie(t, m)

	id, _, ok := strings.Cut(cookie.Value, ".")
	require.True(t, ok)

	for name, value := range map[string]string{
		"flipped signature": id + "." + strings.Repeat("0", 64),
		"missing signature": id,
		"empty signature":   id + ".",
		"foreign id":        "other-id." + strings.SplitN(cookie.Value, ".", 2)[1],
		"garbage":           "not-a-session-cookie",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
			_, err := m.Resolve(context.Background(), req)
			require.Error(t, err)
			assert.False(t, m.Authenticated(context.Background(), req))
		})
	}
}

func TestManagerRejectsForeignSecret(t *testing.T) {
	store := NewMemory(time.Hour)
	theirs := NewManager(store, "their-secret", time.Hour)
	ours := NewManager(store, "our-secret", time.Hour)

	cookie := issueCookie(t, theirs)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookie)

	// Same backing store, different signing key: the id exists but the
	// signature does not verify under our key.
	_, err := ours.Resolve(context.Background(), req)
	require.Error(t, err)
}

func TestManagerMissingCookie(t *testing.T) {
	m := NewManager(NewMemory(time.Hour), "test-secret", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	_, err := m.Resolve(context.Background(), req)
	require.Error(t, err)
	assert.False(t, m.Authenticated(context.Background(), req))
}

func TestManagerDestroy(t *testing.T) {
	store := NewMemory(time.Hour)
	m := NewManager(store, "test-secret", time.Hour)
	cookie := issueCookie(t, m)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	m.Destroy(context.Background(), rec, req)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, CookieName, cleared[0].Name)
	assert.Equal(t, -1, cleared[0].MaxAge)
	assert.Empty(t, cleared[0].Value)
	assert.Equal(t, 0, store.Len(), "server-side session removed")

	// The old cookie no longer resolves even if the browser replays it.
	replay := httptest.NewRequest(http.MethodGet, "/admin", nil)
	replay.AddCookie(cookie)
	_, err := m.Resolve(context.Background(), replay)
	require.Error(t, err)
}
