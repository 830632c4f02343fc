package flow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mabletask/dashboard/session"
)

func newController(t *testing.T) (*Controller, *session.Store, *History) {
	t.Helper()
	s := session.NewMemory()
	h := NewHistory("/")
	return NewController(s, h), s, h
}

func TestAuthorizationFailureRecordsPath(t *testing.T) {
	t.Parallel()
	c, s, h := newController(t)
	require.NoError(t, s.SetToken("tok"))

	target := c.HandleAuthorizationFailure("/admin/products")

	assert.Equal(t, LoginPath, target)
	assert.Equal(t, LoginPath, h.Location())
	_, ok := s.Token()
	assert.False(t, ok)
	path, ok := s.PendingRedirect()
	assert.True(t, ok)
	assert.Equal(t, "/admin/products", path)
	assert.Equal(t, Anonymous, c.State())
}

func TestAuthorizationFailureOnLoginScreenKeepsRedirect(t *testing.T) {
	t.Parallel()
	c, s, _ := newController(t)

	c.HandleAuthorizationFailure("/admin/events")
	c.HandleAuthorizationFailure(LoginPath)
	c.HandleAuthorizationFailure(SignupPath)

	path, ok := s.PendingRedirect()
	assert.True(t, ok)
	assert.Equal(t, "/admin/events", path)
}

func TestSuccessfulLoginIsOneShot(t *testing.T) {
	t.Parallel()
	c, s, h := newController(t)
	c.HandleAuthorizationFailure("/admin/products")

	first := c.HandleSuccessfulLogin()
	assert.Equal(t, "/admin/products", first)
	assert.Equal(t, "/admin/products", h.Location())

	second := c.HandleSuccessfulLogin()
	assert.Equal(t, DashboardPath, second)
	assert.Equal(t, DashboardPath, h.Location())
	_, ok := s.PendingRedirect()
	assert.False(t, ok)
}

func TestSuccessfulLoginWithoutRedirectGoesToDashboard(t *testing.T) {
	t.Parallel()
	c, _, _ := newController(t)
	assert.Equal(t, DashboardPath, c.HandleSuccessfulLogin())
}

func TestCompleteLoginAndLogout(t *testing.T) {
	t.Parallel()
	c, s, h := newController(t)

	target, err := c.CompleteLogin("tok", json.RawMessage(`{"email":"a@b.c"}`))
	require.NoError(t, err)
	assert.Equal(t, DashboardPath, target)
	assert.Equal(t, Authenticated, c.State())
	user, ok := s.User()
	assert.True(t, ok)
	assert.JSONEq(t, `{"email":"a@b.c"}`, string(user))

	assert.Equal(t, LoginPath, c.Logout())
	assert.Equal(t, LoginPath, h.Location())
	assert.Equal(t, Anonymous, c.State())
	_, ok = s.User()
	assert.False(t, ok)
}

func TestHistoryNotifiesSubscribers(t *testing.T) {
	t.Parallel()
	h := NewHistory("/")
	var seen []string
	h.Subscribe(func(p string) { seen = append(seen, p) })

	h.Navigate("/a")
	h.Navigate("/b")

	assert.Equal(t, []string{"/a", "/b"}, seen)
	assert.Equal(t, "/b", h.Location())
}
