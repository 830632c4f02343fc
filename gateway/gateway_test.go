package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mabletask/dashboard/apperr"
	"mabletask/dashboard/flow"
	"mabletask/dashboard/session"
)

type fixture struct {
	gw       *Gateway
	sessions *session.Store
	history  *flow.History
	hits     *atomic.Int32
	lastAuth *atomic.Value
}

func newFixture(t *testing.T, handler http.HandlerFunc) fixture {
	t.Helper()
	hits := &atomic.Int32{}
	lastAuth := &atomic.Value{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lastAuth.Store(r.Header.Get("Authorization"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	sessions := session.NewMemory()
	history := flow.NewHistory("/")
	ctrl := flow.NewController(sessions, history)
	return fixture{
		gw:       New(srv.URL, 5*time.Second, sessions, ctrl),
		sessions: sessions,
		history:  history,
		hits:     hits,
		lastAuth: lastAuth,
	}
}

func TestDoAttachesBearerToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"edges":[]}`))
	})
	require.NoError(t, f.sessions.SetToken("tok-1"))

	res, err := f.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/products", CurrentPath: "/admin/products"})
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"edges":[]}`, string(res.Body))
	assert.Equal(t, "Bearer tok-1", f.lastAuth.Load())
}

func TestDoWithoutTokenSkipsNetwork(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("network must not be hit without a token")
	})

	res, err := f.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/events", CurrentPath: "/admin/events"})
	require.NoError(t, err)

	assert.True(t, res.Unauthenticated())
	assert.Nil(t, res.Err("x"))
	assert.Equal(t, int32(0), f.hits.Load())
	assert.Equal(t, flow.LoginPath, f.history.Location())
	path, ok := f.sessions.PendingRedirect()
	assert.True(t, ok)
	assert.Equal(t, "/admin/events", path)
}

func TestDo401StartsLoginFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized: Invalid or expired token"}`))
	})
	require.NoError(t, f.sessions.SetToken("expired"))

	res, err := f.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/products", CurrentPath: "/admin/products"})
	require.NoError(t, err)

	assert.True(t, res.Unauthenticated())
	assert.Empty(t, res.Body)
	_, ok := f.sessions.Token()
	assert.False(t, ok)
	path, ok := f.sessions.PendingRedirect()
	assert.True(t, ok)
	assert.Equal(t, "/admin/products", path)
	assert.Equal(t, flow.LoginPath, f.history.Location())
}

func TestDoPublic401IsRequestFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	res, err := f.gw.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/auth/login", Body: map[string]string{"email": "a"}, Public: true})
	require.NoError(t, err)

	assert.False(t, res.OK)
	assert.Equal(t, apperr.RequestFailed, res.Kind)
	assert.Equal(t, "", f.lastAuth.Load())
	failure := res.Err("Login failed")
	assert.Equal(t, apperr.RequestFailed, apperr.KindOf(failure))
	assert.Equal(t, "Invalid credentials", apperr.PublicMessage(failure, ""))
	_, ok := f.sessions.PendingRedirect()
	assert.False(t, ok)
}

func TestDoServerErrorUsesFallbackMessage(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	})
	require.NoError(t, f.sessions.SetToken("tok"))

	res, err := f.gw.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/api/products/1"})
	require.NoError(t, err)

	failure := res.Err("Failed to delete product")
	ae, ok := apperr.As(failure)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, ae.Status)
	assert.Equal(t, "Failed to delete product", ae.PublicMsg)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestDoTransportFailureIsNetworkUnreachable(t *testing.T) {
	t.Parallel()
	sessions := session.NewMemory()
	require.NoError(t, sessions.SetToken("tok"))
	var sawAuth string
	gw := New("http://api.invalid", time.Second, sessions, flow.NewController(sessions, flow.NewHistory("/"))).
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			sawAuth = r.Header.Get("Authorization")
			return nil, errors.New("connection refused")
		})})

	_, err := gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/events"})
	require.Error(t, err)
	assert.Equal(t, apperr.NetworkUnreachable, apperr.KindOf(err))
	assert.Equal(t, "Bearer tok", sawAuth)
	_, ok := sessions.Token()
	assert.True(t, ok, "a transport failure must not end the session")
}

func TestDoClosedServerIsNetworkUnreachable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sessions := session.NewMemory()
	require.NoError(t, sessions.SetToken("tok"))
	gw := New(url, time.Second, sessions, flow.NewController(sessions, flow.NewHistory("/")))

	_, err := gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/products"})
	assert.Equal(t, apperr.NetworkUnreachable, apperr.KindOf(err))
}

func TestServerMessage(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "m", ServerMessage([]byte(`{"message":"m","error":"e"}`), "f"))
	assert.Equal(t, "e", ServerMessage([]byte(`{"error":"e"}`), "f"))
	assert.Equal(t, "f", ServerMessage([]byte(`{"error":{"code":1}}`), "f"))
	assert.Equal(t, "f", ServerMessage(nil, "f"))
}
